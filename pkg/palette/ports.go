package palette

import "github.com/MuhammadDevPk/langflow/pkg/models"

// Well-known port names on the reference palette.
const (
	PortMessage    = "message"
	PortTextOutput = "text_output"
	PortResponse   = "response"
	PortTrueLeg    = "true_result"
	PortFalseLeg   = "false_result"
	PortInputValue = "input_value"
	PortInputText  = "input_text"
)

// KindMessage is the data kind flowing between conversational components.
const KindMessage = "Message"

// portProfile declares the port contract for one component type. Output
// order matters: the first output is the default wiring source. Input lists
// come from here rather than the document because the configuration-field
// map carries no ordering.
type portProfile struct {
	inputs  []models.PortSpec
	outputs []models.PortSpec
}

// profiles is the fixed port-contract table for the closed reference
// palette. Unknown types get a generic single-message contract.
var profiles = map[string]portProfile{
	models.ComponentTypeChatInput: {
		inputs:  []models.PortSpec{{Name: PortInputValue, Kinds: []string{KindMessage}}},
		outputs: []models.PortSpec{{Name: PortMessage, Kinds: []string{KindMessage}}},
	},
	models.ComponentTypeModel: {
		inputs: []models.PortSpec{
			{Name: PortInputValue, Kinds: []string{KindMessage}},
			{Name: "system_message", Kinds: []string{KindMessage}},
		},
		outputs: []models.PortSpec{{Name: PortTextOutput, Kinds: []string{KindMessage}}},
	},
	models.ComponentTypeAgent: {
		inputs:  []models.PortSpec{{Name: PortInputValue, Kinds: []string{KindMessage}}},
		outputs: []models.PortSpec{{Name: PortResponse, Kinds: []string{KindMessage}}},
	},
	models.ComponentTypeGate: {
		inputs: []models.PortSpec{{Name: PortInputText, Kinds: []string{KindMessage}}},
		outputs: []models.PortSpec{
			{Name: PortTrueLeg, Kinds: []string{KindMessage}},
			{Name: PortFalseLeg, Kinds: []string{KindMessage}},
		},
	},
	models.ComponentTypeChatOutput: {
		inputs:  []models.PortSpec{{Name: PortInputValue, Kinds: []string{"Data", "DataFrame", KindMessage}}},
		outputs: []models.PortSpec{{Name: PortMessage, Kinds: []string{KindMessage}}},
	},
}

var genericProfile = portProfile{
	inputs:  []models.PortSpec{{Name: PortInputValue, Kinds: []string{KindMessage}}},
	outputs: []models.PortSpec{{Name: "output", Kinds: []string{KindMessage}}},
}

func profileFor(componentType string) portProfile {
	if p, ok := profiles[componentType]; ok {
		return p
	}

	return genericProfile
}

// outputsFromDoc reads the declared outputs list of an exported component
// document. Exports carry the authoritative port names; the profile table is
// the fallback for templates that omit them.
func outputsFromDoc(doc map[string]any) []models.PortSpec {
	data, ok := doc["data"].(map[string]any)
	if !ok {
		return nil
	}

	node, ok := data["node"].(map[string]any)
	if !ok {
		return nil
	}

	rawOutputs, ok := node["outputs"].([]any)
	if !ok {
		return nil
	}

	var specs []models.PortSpec

	for _, raw := range rawOutputs {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		name, _ := entry["name"].(string)
		if name == "" {
			continue
		}

		spec := models.PortSpec{Name: name}

		if types, ok := entry["types"].([]any); ok {
			for _, t := range types {
				if s, ok := t.(string); ok {
					spec.Kinds = append(spec.Kinds, s)
				}
			}
		}

		if len(spec.Kinds) == 0 {
			spec.Kinds = []string{KindMessage}
		}

		specs = append(specs, spec)
	}

	return specs
}
