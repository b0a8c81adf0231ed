// Package palettetest provides a miniature template flow export and palette
// registries built from it, for tests across the compiler packages.
package palettetest

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"

	"github.com/MuhammadDevPk/langflow/pkg/palette"
)

// Logger returns a test logger writing to stdout.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

// componentDoc builds one exported node document in the shape the palette
// reads: data.type, data.node.template with per-field value maps, and a
// declared outputs list.
func componentDoc(componentType string, template map[string]any, outputs []map[string]any) map[string]any {
	id := componentType + "-tmpl"

	return map[string]any{
		"id":   id,
		"type": "genericNode",
		"position": map[string]any{
			"x": 0.0,
			"y": 0.0,
		},
		"data": map[string]any{
			"id":   id,
			"type": componentType,
			"node": map[string]any{
				"display_name": componentType,
				"description":  "template " + componentType,
				"template":     template,
				"outputs":      outputs,
			},
		},
	}
}

func field(value any) map[string]any {
	return map[string]any{"value": value}
}

// TemplateFlowJSON returns a template flow export carrying one node of each
// component type the compiler clones, implementation payloads included.
func TemplateFlowJSON() []byte {
	nodes := []map[string]any{
		componentDoc("ChatInput", map[string]any{
			"code":        field("class ChatInput:\n    pass"),
			"input_value": field(""),
		}, []map[string]any{
			{"name": "message", "types": []any{"Message"}},
		}),
		componentDoc("OpenAIModel", map[string]any{
			"code":           field("class OpenAIModelComponent:\n    pass"),
			"system_message": field(""),
			"api_key":        field("sk-test-0000000000000000000000"),
			"model_name":     field("gpt-4o-mini"),
		}, []map[string]any{
			{"name": "text_output", "types": []any{"Message"}},
		}),
		componentDoc("Agent", map[string]any{
			"code":              field("class AgentComponent:\n    pass"),
			"system_prompt":     field(""),
			"agent_description": field(""),
			"openai_api_key":    field(""),
		}, []map[string]any{
			{"name": "response", "types": []any{"Message"}},
		}),
		componentDoc("ConditionalRouter", map[string]any{
			"code":           field("class ConditionalRouterComponent:\n    pass"),
			"operator":       field("equals"),
			"match_text":     field(""),
			"case_sensitive": field(true),
			"max_iterations": field(5),
			"default_route":  field("true_result"),
		}, []map[string]any{
			{"name": "true_result", "types": []any{"Message"}},
			{"name": "false_result", "types": []any{"Message"}},
		}),
		componentDoc("ChatOutput", map[string]any{
			"code":        field("class ChatOutput:\n    pass"),
			"input_value": field(""),
		}, []map[string]any{
			{"name": "message", "types": []any{"Message"}},
		}),
	}

	doc := map[string]any{
		"name": "Template Flow",
		"data": map[string]any{
			"nodes": nodes,
			"edges": []any{},
		},
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}

	return raw
}

// NewRegistry builds a registry loaded with the fixture template flow.
func NewRegistry(t *testing.T, opts ...palette.Option) *palette.Registry {
	t.Helper()

	reg := palette.NewRegistry(Logger(), opts...)
	if err := reg.LoadTemplateFlow(TemplateFlowJSON()); err != nil {
		t.Fatalf("loading fixture template flow: %v", err)
	}

	return reg
}

// SequentialIDs returns a deterministic id generator numbering instances
// per component type in clone order.
func SequentialIDs() palette.IDGenerator {
	var counter atomic.Int64

	return func(componentType string) string {
		return fmt.Sprintf("%s-%03d", componentType, counter.Add(1))
	}
}
