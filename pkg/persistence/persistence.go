// Package persistence provides the storage abstraction for converted flow
// documents.
package persistence

import (
	"context"
	"errors"

	"github.com/MuhammadDevPk/langflow/pkg/models"
)

// ErrFlowNotFound is returned when a flow id has no stored document.
var ErrFlowNotFound = errors.New("flow not found")

// IsFlowNotFound reports whether err signals a missing flow.
func IsFlowNotFound(err error) bool {
	return errors.Is(err, ErrFlowNotFound)
}

// FlowSummary is the listing view of a stored flow.
type FlowSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Nodes       int    `json:"nodes"`
	Connections int    `json:"connections"`
}

// Persistence stores and retrieves converted flow documents.
type Persistence interface {
	Flows(ctx context.Context) ([]FlowSummary, error)
	SaveFlow(ctx context.Context, flow *models.Flow) error
	FlowByID(ctx context.Context, id string) (*models.Flow, error)
	DeleteFlow(ctx context.Context, id string) error
	HealthCheck(ctx context.Context) error

	Close(ctx context.Context) error
}
