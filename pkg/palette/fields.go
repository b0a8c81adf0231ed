package palette

import (
	"fmt"

	"github.com/MuhammadDevPk/langflow/pkg/models"
)

// Configuration fields the compiler is allowed to override. Everything else
// on a clone is opaque payload.
const (
	FieldOperator      = "operator"
	FieldMatchText     = "match_text"
	FieldCaseSensitive = "case_sensitive"
	FieldMaxIterations = "max_iterations"
	FieldDefaultRoute  = "default_route"
	FieldAPIKey        = "api_key"
)

// instructionFields are the known spellings of the instruction-text field
// across agent-like exports, in preference order.
var instructionFields = []string{"system_message", "system_prompt", "agent_description", "prompt"}

// SetInstruction writes the instruction text into whichever instruction
// field the component document carries.
func SetInstruction(ci *models.ComponentInstance, text string) error {
	for _, field := range instructionFields {
		if ci.HasField(field) {
			return ci.SetFieldValue(field, text)
		}
	}

	return fmt.Errorf("%w: component type %q has no instruction field", ErrPalette, ci.Type)
}

// Instruction reads back the instruction text of an instance.
func Instruction(ci *models.ComponentInstance) (string, bool) {
	for _, field := range instructionFields {
		if v, ok := ci.FieldValue(field); ok {
			if s, ok := v.(string); ok {
				return s, true
			}
		}
	}

	return "", false
}

// InjectAPIKey sets the model credential on clones that take one. A no-op
// for components without a key field.
func InjectAPIKey(ci *models.ComponentInstance, key string) {
	if key == "" {
		return
	}

	for _, field := range []string{FieldAPIKey, "openai_api_key"} {
		if ci.HasField(field) {
			_ = ci.SetFieldValue(field, key)

			return
		}
	}
}
