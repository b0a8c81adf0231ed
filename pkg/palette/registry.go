// Package palette loads component blueprints from a template flow export and
// clones instances from them. Blueprints are read-only after load; cloning
// copies required fields verbatim and overrides only what the compiler
// explicitly customizes.
package palette

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/MuhammadDevPk/langflow/pkg/models"
)

// ErrPalette is the sentinel for palette lookup failures. Fatal: a missing
// type or port can never be downgraded to a generic placeholder, since that
// reproduces the silently-dropped-connection failure class.
var ErrPalette = errors.New("palette error")

// LookupError reports a component type or port absent from the palette.
type LookupError struct {
	ComponentType string
	Port          string
}

func (e *LookupError) Error() string {
	if e.Port != "" {
		return fmt.Sprintf("%s: port %q not declared on component type %q", ErrPalette.Error(), e.Port, e.ComponentType)
	}

	return fmt.Sprintf("%s: component type %q not in palette", ErrPalette.Error(), e.ComponentType)
}

func (e *LookupError) Unwrap() error { return ErrPalette }

// IDGenerator produces a fresh instance id for a component type. Swappable
// so compilation can be made deterministic under test.
type IDGenerator func(componentType string) string

// defaultIDGenerator yields "<Type>-<5 hex>" ids matching the runtime's
// naming convention.
func defaultIDGenerator(componentType string) string {
	frag := strings.ReplaceAll(uuid.New().String(), "-", "")[:5]

	return componentType + "-" + frag
}

// Registry holds one blueprint per component type extracted from a template
// flow export.
type Registry struct {
	logger     *slog.Logger
	blueprints map[string]*models.ComponentBlueprint
	order      []string
	newID      IDGenerator
}

// Option configures a Registry.
type Option func(*Registry)

// WithIDGenerator overrides instance id generation.
func WithIDGenerator(gen IDGenerator) Option {
	return func(r *Registry) { r.newID = gen }
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger, opts ...Option) *Registry {
	r := &Registry{
		logger:     logger.With("module", "palette"),
		blueprints: make(map[string]*models.ComponentBlueprint),
		newID:      defaultIDGenerator,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// templateFlow is the subset of the template export the registry reads.
type templateFlow struct {
	Data struct {
		Nodes []map[string]any `json:"nodes"`
	} `json:"data"`
}

// LoadTemplateFlow extracts one blueprint per component type from a template
// flow export. First occurrence of each type wins.
func (r *Registry) LoadTemplateFlow(raw []byte) error {
	var flow templateFlow
	if err := json.Unmarshal(raw, &flow); err != nil {
		return fmt.Errorf("decoding template flow: %w", err)
	}

	if len(flow.Data.Nodes) == 0 {
		return fmt.Errorf("%w: template flow contains no component nodes", ErrPalette)
	}

	for _, doc := range flow.Data.Nodes {
		componentType := docType(doc)
		if componentType == "" {
			continue
		}

		if _, exists := r.blueprints[componentType]; exists {
			continue
		}

		r.register(componentType, doc)
		r.logger.Debug("extracted blueprint", "component_type", componentType)
	}

	return nil
}

// LoadComponentDoc merges a standalone component export into the palette,
// for types the template flow lacks (typically the gate).
func (r *Registry) LoadComponentDoc(raw []byte) error {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decoding component document: %w", err)
	}

	componentType := docType(doc)
	if componentType == "" {
		return fmt.Errorf("%w: component document carries no type tag", ErrPalette)
	}

	if _, exists := r.blueprints[componentType]; !exists {
		r.register(componentType, doc)
		r.logger.Debug("merged standalone blueprint", "component_type", componentType)
	}

	return nil
}

func (r *Registry) register(componentType string, doc map[string]any) {
	profile := profileFor(componentType)

	outputs := outputsFromDoc(doc)
	if len(outputs) == 0 {
		outputs = profile.outputs
	}

	r.blueprints[componentType] = &models.ComponentBlueprint{
		Type:           componentType,
		Doc:            models.DeepCopyDoc(doc),
		Inputs:         profile.inputs,
		Outputs:        outputs,
		RequiredFields: requiredFields(doc),
	}
	r.order = append(r.order, componentType)
}

// Blueprint returns the blueprint for a component type.
func (r *Registry) Blueprint(componentType string) (*models.ComponentBlueprint, error) {
	bp, ok := r.blueprints[componentType]
	if !ok {
		return nil, &LookupError{ComponentType: componentType}
	}

	return bp, nil
}

// Has reports whether the palette carries the component type.
func (r *Registry) Has(componentType string) bool {
	_, ok := r.blueprints[componentType]

	return ok
}

// Types returns the registered component types in load order.
func (r *Registry) Types() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)

	return out
}

// Clone deep-copies the blueprint for the given type under a fresh id. The
// copy is structural and verbatim: required fields such as the executable
// implementation payload are never blanked or truncated, because the target
// runtime rejects components missing them at execution time.
func (r *Registry) Clone(componentType string) (*models.ComponentInstance, error) {
	bp, err := r.Blueprint(componentType)
	if err != nil {
		return nil, err
	}

	doc := models.DeepCopyDoc(bp.Doc)
	id := r.newID(componentType)

	doc["id"] = id
	if data, ok := doc["data"].(map[string]any); ok {
		data["id"] = id
	}

	return &models.ComponentInstance{
		ID:        id,
		Type:      componentType,
		Blueprint: bp,
		Doc:       doc,
	}, nil
}

// ConversationType resolves the component type used for conversational
// nodes: the chat-model export when present, otherwise the agent export.
func (r *Registry) ConversationType() (string, error) {
	for _, t := range []string{models.ComponentTypeModel, models.ComponentTypeAgent} {
		if r.Has(t) {
			return t, nil
		}
	}

	return "", &LookupError{ComponentType: models.ComponentTypeModel}
}

// ClassifierType resolves the component type used for routing classifiers.
// The agent export is preferred: its reply is a fully structured message
// object carrying the metadata the gate's input validator requires, where a
// bare text completion would fail the gate's structural contract on every
// invocation.
func (r *Registry) ClassifierType() (string, error) {
	for _, t := range []string{models.ComponentTypeAgent, models.ComponentTypeModel} {
		if r.Has(t) {
			return t, nil
		}
	}

	return "", &LookupError{ComponentType: models.ComponentTypeAgent}
}

func docType(doc map[string]any) string {
	data, ok := doc["data"].(map[string]any)
	if !ok {
		return ""
	}

	t, _ := data["type"].(string)

	return t
}

// requiredFields lists configuration fields the target runtime treats as
// mandatory for execution. The implementation payload is the historically
// dominant one: an automated cleanup step once stripped it from every clone,
// leaving components visually present but rejected at run time.
func requiredFields(doc map[string]any) []string {
	data, ok := doc["data"].(map[string]any)
	if !ok {
		return nil
	}

	node, ok := data["node"].(map[string]any)
	if !ok {
		return nil
	}

	tmpl, ok := node["template"].(map[string]any)
	if !ok {
		return nil
	}

	var fields []string

	if _, ok := tmpl["code"]; ok {
		fields = append(fields, "code")
	}

	return fields
}
