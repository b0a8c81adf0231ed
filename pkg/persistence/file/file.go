// Package file provides file-based persistence for converted flow documents.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/MuhammadDevPk/langflow/pkg/models"
	"github.com/MuhammadDevPk/langflow/pkg/persistence"
)

// Persistence implements persistence.Persistence on the file system: one
// JSON document per flow under the root directory.
type Persistence struct {
	root string
}

// NewPersistence creates a file store rooted at the given directory. A
// "file://" prefix is tolerated for symmetry with URL-style configuration.
func NewPersistence(root string) *Persistence {
	return &Persistence{root: strings.Replace(root, "file://", "", 1)}
}

// Close performs any necessary cleanup; nothing to do for files.
func (fp *Persistence) Close(_ context.Context) error {
	return nil
}

// HealthCheck verifies the root directory exists.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(fp.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

// Flows lists stored flows sorted by name.
func (fp *Persistence) Flows(ctx context.Context) ([]persistence.FlowSummary, error) {
	root := os.DirFS(fp.root)

	jsonFiles, err := fs.Glob(root, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list flow files: %w", err)
	}

	summaries := make([]persistence.FlowSummary, 0, len(jsonFiles))

	for _, file := range jsonFiles {
		flowID := file[:len(file)-5] // strip .json

		flow, err := fp.FlowByID(ctx, flowID)
		if err != nil {
			return nil, fmt.Errorf("failed to load flow %s: %w", flowID, err)
		}

		summaries = append(summaries, persistence.FlowSummary{
			ID:          flow.ID,
			Name:        flow.Name,
			Nodes:       len(flow.Data.Nodes),
			Connections: len(flow.Data.Edges),
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Name < summaries[j].Name
	})

	return summaries, nil
}

// SaveFlow writes the flow document under its id.
func (fp *Persistence) SaveFlow(_ context.Context, flow *models.Flow) error {
	if err := os.MkdirAll(fp.root, 0o755); err != nil {
		return fmt.Errorf("failed to create flows directory: %w", err)
	}

	data, err := json.MarshalIndent(flow, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode flow %s: %w", flow.ID, err)
	}

	if err := os.WriteFile(fp.path(flow.ID), data, 0o644); err != nil {
		return fmt.Errorf("failed to write flow %s: %w", flow.ID, err)
	}

	return nil
}

// FlowByID loads one stored flow document.
func (fp *Persistence) FlowByID(_ context.Context, id string) (*models.Flow, error) {
	data, err := os.ReadFile(fp.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", persistence.ErrFlowNotFound, id)
		}

		return nil, fmt.Errorf("failed to read flow %s: %w", id, err)
	}

	var flow models.Flow
	if err := json.Unmarshal(data, &flow); err != nil {
		return nil, fmt.Errorf("failed to decode flow %s: %w", id, err)
	}

	return &flow, nil
}

// DeleteFlow removes a stored flow document.
func (fp *Persistence) DeleteFlow(_ context.Context, id string) error {
	err := os.Remove(fp.path(id))
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", persistence.ErrFlowNotFound, id)
	}

	return err
}

func (fp *Persistence) path(id string) string {
	return filepath.Join(fp.root, id+".json")
}
