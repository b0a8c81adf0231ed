// Package web provides the HTTP surface of the converter: submit a
// conversational workflow document, receive the compiled flow, and manage
// stored flows.
package web

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/MuhammadDevPk/langflow/pkg/compiler"
	"github.com/MuhammadDevPk/langflow/pkg/persistence"
	"github.com/MuhammadDevPk/langflow/pkg/scrub"
	"github.com/MuhammadDevPk/langflow/pkg/source"
)

// APIHandlers serves the conversion endpoints.
type APIHandlers struct {
	logger      *slog.Logger
	compiler    *compiler.Compiler
	persistence persistence.Persistence
}

// NewAPIHandlers wires the handler set.
func NewAPIHandlers(logger *slog.Logger, comp *compiler.Compiler, store persistence.Persistence) *APIHandlers {
	return &APIHandlers{
		logger:      logger.With("module", "web"),
		compiler:    comp,
		persistence: store,
	}
}

// convertResponse is the POST /convert payload.
type convertResponse struct {
	Flow         any      `json:"flow"`
	Stored       bool     `json:"stored"`
	Orphans      []string `json:"orphans,omitempty"`
	Pruned       []string `json:"pruned,omitempty"`
	RoutingPlans int      `json:"routing_plans"`
}

// Convert compiles the posted source document. Query parameters: store=true
// persists the result; scrub=true strips credential values from the
// response (and the stored copy).
func (h *APIHandlers) Convert(c fiber.Ctx) error {
	body := c.Body()
	if len(body) == 0 {
		return badRequest(c, "request body must be a conversational workflow document")
	}

	result, err := h.compiler.Compile(c.Context(), body)
	if err != nil {
		return handleConvertError(c, err)
	}

	if c.Query("scrub") == "true" {
		for _, doc := range result.Flow.Data.Nodes {
			scrub.Document(doc)
		}
	}

	stored := false

	if c.Query("store") == "true" {
		if err := h.persistence.SaveFlow(c.Context(), result.Flow); err != nil {
			return internalError(c, err)
		}

		stored = true
	}

	return c.JSON(convertResponse{
		Flow:         result.Flow,
		Stored:       stored,
		Orphans:      orphanIDs(result.SourceOrphans),
		Pruned:       result.PrunedInstances,
		RoutingPlans: len(result.Plans),
	})
}

// GetFlows lists stored flows.
func (h *APIHandlers) GetFlows(c fiber.Ctx) error {
	summaries, err := h.persistence.Flows(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{
		"flows":       summaries,
		"total_count": len(summaries),
	})
}

// GetFlow fetches one stored flow document.
func (h *APIHandlers) GetFlow(c fiber.Ctx) error {
	flow, err := h.persistence.FlowByID(c.Context(), c.Params("id"))
	if err != nil {
		return handleConvertError(c, err)
	}

	return c.JSON(flow)
}

// DeleteFlow removes a stored flow.
func (h *APIHandlers) DeleteFlow(c fiber.Ctx) error {
	if err := h.persistence.DeleteFlow(c.Context(), c.Params("id")); err != nil {
		return handleConvertError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ScrubFlow strips credential values from a stored flow in place.
func (h *APIHandlers) ScrubFlow(c fiber.Ctx) error {
	flow, err := h.persistence.FlowByID(c.Context(), c.Params("id"))
	if err != nil {
		return handleConvertError(c, err)
	}

	replaced := 0
	for _, doc := range flow.Data.Nodes {
		replaced += scrub.Document(doc)
	}

	if err := h.persistence.SaveFlow(c.Context(), flow); err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{"flow_id": flow.ID, "replaced": replaced})
}

// HealthCheck reports persistence health.
func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	if err := h.persistence.HealthCheck(c.Context()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unhealthy", "error": err.Error()})
	}

	return c.JSON(fiber.Map{"status": "healthy"})
}

func orphanIDs(warnings []source.OrphanWarning) []string {
	var ids []string

	for _, w := range warnings {
		ids = append(ids, w.NodeID)
	}

	return ids
}
