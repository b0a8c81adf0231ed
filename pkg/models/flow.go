package models

import "encoding/json"

// SourceHandle identifies the producing end of a connection: instance id,
// output port name, and the port's declared data kinds.
type SourceHandle struct {
	DataType    string   `json:"dataType"`
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	OutputTypes []string `json:"output_types"`
}

// TargetHandle identifies the consuming end of a connection.
type TargetHandle struct {
	FieldName  string   `json:"fieldName"`
	ID         string   `json:"id"`
	InputTypes []string `json:"inputTypes"`
	Type       string   `json:"type"`
}

// ConnectionData carries the decoded handle objects alongside the encoded
// ones, plus the source-graph condition that motivated the wire when there
// was one.
type ConnectionData struct {
	SourceHandle SourceHandle   `json:"sourceHandle"`
	TargetHandle TargetHandle   `json:"targetHandle"`
	Condition    *EdgeCondition `json:"condition,omitempty"`
}

// Connection is one typed wire in the emitted flow. The import format of the
// target runtime wants each handle doubly encoded: a JSON string at the top
// level and the decoded object under data.
type Connection struct {
	ID           string         `json:"id"`
	Source       string         `json:"source"`
	SourceHandle string         `json:"sourceHandle"`
	Target       string         `json:"target"`
	TargetHandle string         `json:"targetHandle"`
	Data         ConnectionData `json:"data"`
	Selected     bool           `json:"selected"`
	Animated     bool           `json:"animated"`
	ClassName    string         `json:"className"`
}

// NewConnection builds a connection with both handle encodings populated and
// an id in the runtime's xy-edge format.
func NewConnection(src SourceHandle, dst TargetHandle, cond *EdgeCondition) *Connection {
	srcEnc, _ := json.Marshal(src)
	dstEnc, _ := json.Marshal(dst)

	return &Connection{
		ID:           "xy-edge__" + src.ID + string(srcEnc) + "-" + dst.ID + string(dstEnc),
		Source:       src.ID,
		SourceHandle: string(srcEnc),
		Target:       dst.ID,
		TargetHandle: string(dstEnc),
		Data: ConnectionData{
			SourceHandle: src,
			TargetHandle: dst,
			Condition:    cond,
		},
	}
}

// FlowData holds the emitted node and wire lists.
type FlowData struct {
	Nodes []map[string]any `json:"nodes"`
	Edges []*Connection    `json:"edges"`
}

// Flow is the target pipeline document in the runtime's import format.
type Flow struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	ID          string   `json:"id"`
	Icon        *string  `json:"icon"`
	IconBgColor *string  `json:"icon_bg_color"`
	Gradient    *string  `json:"gradient"`
	Data        FlowData `json:"data"`
}
