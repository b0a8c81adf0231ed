package models

import (
	"errors"
	"fmt"
)

// Component types recognized by the compiler. The palette may carry more;
// these are the roles the compiler instantiates directly.
const (
	ComponentTypeChatInput  = "ChatInput"
	ComponentTypeChatOutput = "ChatOutput"
	ComponentTypeAgent      = "Agent"
	ComponentTypeModel      = "OpenAIModel"
	ComponentTypeGate       = "ConditionalRouter"
)

// PortSpec declares a named port and the data kinds it carries.
type PortSpec struct {
	Name  string   `json:"name"  validate:"required"`
	Kinds []string `json:"kinds" validate:"required,min=1"`
}

// KindsCompatible reports whether a producing port's declared kinds overlap
// a consuming port's accepted kinds.
func KindsCompatible(out, in []string) bool {
	for _, o := range out {
		for _, i := range in {
			if o == i {
				return true
			}
		}
	}

	return false
}

// ComponentBlueprint is a read-only template for one target component type:
// the full exported node document plus its declared port contract. Never
// mutated after load; only cloned.
type ComponentBlueprint struct {
	Type           string         `json:"type" validate:"required"`
	Doc            map[string]any `json:"-"`
	Inputs         []PortSpec     `json:"inputs"`
	Outputs        []PortSpec     `json:"outputs"`
	RequiredFields []string       `json:"required_fields"`
}

// InputPort returns the named input port spec.
func (b *ComponentBlueprint) InputPort(name string) (PortSpec, bool) {
	for _, p := range b.Inputs {
		if p.Name == name {
			return p, true
		}
	}

	return PortSpec{}, false
}

// OutputPort returns the named output port spec.
func (b *ComponentBlueprint) OutputPort(name string) (PortSpec, bool) {
	for _, p := range b.Outputs {
		if p.Name == name {
			return p, true
		}
	}

	return PortSpec{}, false
}

// PrimaryInput is the first declared input port, the default wiring target.
func (b *ComponentBlueprint) PrimaryInput() PortSpec {
	if len(b.Inputs) == 0 {
		return PortSpec{}
	}

	return b.Inputs[0]
}

// PrimaryOutput is the first declared output port, the default wiring source.
func (b *ComponentBlueprint) PrimaryOutput() PortSpec {
	if len(b.Outputs) == 0 {
		return PortSpec{}
	}

	return b.Outputs[0]
}

// ComponentInstance is a deep copy of a blueprint document with a fresh id.
// The embedded document is owned exclusively by the compiler until emission.
type ComponentInstance struct {
	ID        string
	Type      string
	Blueprint *ComponentBlueprint
	Doc       map[string]any
}

var errNoTemplate = errors.New("component document has no template section")

// node returns the nested node section of the document.
func (ci *ComponentInstance) node() (map[string]any, bool) {
	data, ok := ci.Doc["data"].(map[string]any)
	if !ok {
		return nil, false
	}

	node, ok := data["node"].(map[string]any)

	return node, ok
}

// template returns the nested configuration-field map of the document.
func (ci *ComponentInstance) template() (map[string]any, bool) {
	node, ok := ci.node()
	if !ok {
		return nil, false
	}

	tmpl, ok := node["template"].(map[string]any)

	return tmpl, ok
}

// SetPosition places the instance on the canvas.
func (ci *ComponentInstance) SetPosition(x, y float64) {
	ci.Doc["position"] = map[string]any{"x": x, "y": y}
}

// Position returns the instance's canvas position.
func (ci *ComponentInstance) Position() (float64, float64) {
	pos, ok := ci.Doc["position"].(map[string]any)
	if !ok {
		return 0, 0
	}

	x, _ := pos["x"].(float64)
	y, _ := pos["y"].(float64)

	return x, y
}

// SetDisplayName overrides the component's visible name.
func (ci *ComponentInstance) SetDisplayName(name string) {
	if node, ok := ci.node(); ok {
		node["display_name"] = name
	}
}

// DisplayName returns the component's visible name.
func (ci *ComponentInstance) DisplayName() string {
	node, ok := ci.node()
	if !ok {
		return ""
	}

	name, _ := node["display_name"].(string)

	return name
}

// SetDescription overrides the component's description.
func (ci *ComponentInstance) SetDescription(desc string) {
	if node, ok := ci.node(); ok {
		node["description"] = desc
	}
}

// SetFieldValue overrides the value of an existing configuration field.
// Fields the compiler does not explicitly intend to customize must stay
// untouched, so writing to an absent field is an error rather than an
// insertion.
func (ci *ComponentInstance) SetFieldValue(field string, value any) error {
	tmpl, ok := ci.template()
	if !ok {
		return errNoTemplate
	}

	entry, ok := tmpl[field].(map[string]any)
	if !ok {
		return fmt.Errorf("field %q not present on component type %q", field, ci.Type)
	}

	entry["value"] = value

	return nil
}

// FieldValue reads the value of a configuration field.
func (ci *ComponentInstance) FieldValue(field string) (any, bool) {
	tmpl, ok := ci.template()
	if !ok {
		return nil, false
	}

	entry, ok := tmpl[field].(map[string]any)
	if !ok {
		return nil, false
	}

	v, ok := entry["value"]

	return v, ok
}

// HasField reports whether the configuration field exists on this instance.
func (ci *ComponentInstance) HasField(field string) bool {
	tmpl, ok := ci.template()
	if !ok {
		return false
	}

	_, ok = tmpl[field]

	return ok
}

// DeepCopyDoc performs a structural deep copy of a component document.
// Required fields are opaque payload: copied verbatim, never blanked.
func DeepCopyDoc(doc map[string]any) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = deepCopyValue(v)
	}

	return out
}

func deepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return DeepCopyDoc(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = deepCopyValue(item)
		}

		return out
	default:
		return val
	}
}
