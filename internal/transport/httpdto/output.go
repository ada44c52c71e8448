package httpdto

import (
	"time"

	"wavechat/internal/domain/output"
)

type CreateOutputRequest struct {
	Name     string `json:"name"`
	Schema   string `json:"schema"`
	Document string `json:"document"`
}

type RestoreRequest struct {
	Version int `json:"version"`
}

type OutputResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Schema         string    `json:"schema,omitempty"`
	CurrentVersion int       `json:"current_version"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type VersionResponse struct {
	ID            string    `json:"id"`
	OutputID      string    `json:"output_id"`
	Version       int       `json:"version"`
	Document      string    `json:"document"`
	ChangeSummary string    `json:"change_summary,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func FromOutput(o output.StructuredOutput) OutputResponse {
	return OutputResponse{
		ID:             o.ID.String(),
		Name:           o.Name,
		Schema:         o.Schema,
		CurrentVersion: o.CurrentVersion,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}

func FromVersion(v output.Version) VersionResponse {
	return VersionResponse{
		ID:            v.ID.String(),
		OutputID:      v.OutputID.String(),
		Version:       v.Version,
		Document:      v.Document,
		ChangeSummary: v.ChangeSummary,
		CreatedAt:     v.CreatedAt,
	}
}
