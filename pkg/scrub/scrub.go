// Package scrub removes credential values from flow documents so they are
// safe to store and share. The implementation payload under template code is
// never touched: blanking it leaves components rejected by the target
// runtime at execution time.
package scrub

import (
	"strings"
)

const (
	openAIPlaceholder  = "sk-YOUR_OPENAI_API_KEY_HERE"
	genericPlaceholder = "YOUR_API_KEY_HERE"
)

// secretFields are the configuration keys whose string values get replaced
// with placeholders.
var secretFields = map[string]bool{
	"api_key":        true,
	"openai_api_key": true,
	"value":          true,
}

// Document scrubs a flow document in place and reports how many values were
// replaced.
func Document(doc map[string]any) int {
	return scrubMap(doc, "")
}

func scrubMap(m map[string]any, parentKey string) int {
	replaced := 0

	for key, value := range m {
		// The implementation payload lives under code.value; it must survive
		// verbatim.
		if parentKey == "code" && key == "value" {
			continue
		}

		switch v := value.(type) {
		case string:
			if secretFields[key] {
				if cleaned, ok := scrubValue(v); ok {
					m[key] = cleaned
					replaced++
				}
			}
		case map[string]any:
			replaced += scrubMap(v, key)
		case []any:
			replaced += scrubSlice(v, key)
		}
	}

	return replaced
}

func scrubSlice(s []any, parentKey string) int {
	replaced := 0

	for _, item := range s {
		switch v := item.(type) {
		case map[string]any:
			replaced += scrubMap(v, parentKey)
		case []any:
			replaced += scrubSlice(v, parentKey)
		}
	}

	return replaced
}

// scrubValue recognizes credential-shaped strings: provider-prefixed keys
// and long opaque values mentioning "api".
func scrubValue(v string) (string, bool) {
	if strings.HasPrefix(v, "sk-") && len(v) > 20 {
		return openAIPlaceholder, true
	}

	if strings.Contains(strings.ToLower(v), "api") && len(v) > 30 {
		return genericPlaceholder, true
	}

	return v, false
}
