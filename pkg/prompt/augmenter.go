// Package prompt rewrites conversational node instructions with structured
// extraction and greeting directives. Pure text transforms: no ports or
// components are introduced here.
package prompt

import (
	"fmt"
	"strings"

	"github.com/MuhammadDevPk/langflow/pkg/models"
)

// Augment applies both directives to a node's instruction text: the greeting
// directive is prepended, the extraction directive appended. Nodes with
// neither pass through unchanged.
func Augment(node *models.SourceNode) string {
	text := node.Instruction

	if node.FirstMessage != "" {
		text = FirstMessageDirective(node.FirstMessage, text)
	}

	if len(node.Extraction) > 0 {
		text += ExtractionDirective(node.Extraction)
	}

	return text
}

// FirstMessageDirective prepends the opening-turn instruction so the agent
// greets with exactly the configured text before assuming its role.
func FirstMessageDirective(firstMessage, instruction string) string {
	return fmt.Sprintf(
		"FIRST MESSAGE: When starting the conversation or when this node is first reached, begin by saying:\n%q\n\nThen continue with your role:\n%s",
		firstMessage, instruction)
}

// ExtractionDirective renders the reply-first-then-JSON contract: one object
// whose keys are exactly the schema field names, enum options annotated
// inline.
func ExtractionDirective(fields []models.ExtractionField) string {
	var schema strings.Builder

	schema.WriteString("{\n")

	names := make([]string, 0, len(fields))

	for _, f := range fields {
		names = append(names, f.Name)

		switch {
		case len(f.EnumValues) > 0:
			fmt.Fprintf(&schema, "  %q: %q // Options: %s\n", f.Name, f.EnumValues[0], strings.Join(f.EnumValues, ", "))
		default:
			fmt.Fprintf(&schema, "  %q: \"<%s>\" // %s\n", f.Name, f.Kind, f.Description)
		}
	}

	schema.WriteString("}")

	var b strings.Builder

	fmt.Fprintf(&b, "\n\nIMPORTANT: After your response, you MUST extract the following information and output it as JSON:\n%s\n\n", schema.String())
	fmt.Fprintf(&b, "Variables to extract: %s\n", strings.Join(names, ", "))
	b.WriteString("Format: First provide your conversational response, then on a new line output ONLY the JSON object with extracted values.")

	return b.String()
}
