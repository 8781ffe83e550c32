package api

import (
	"time"

	"github.com/rubiojr/pagebuilder/pkg/core"
	"github.com/rubiojr/pagebuilder/pkg/render"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Database  string    `json:"database,omitempty"`
}

type BlockTypesResponse struct {
	Types []string `json:"types"`
	Count int      `json:"count"`
}

type ListPagesResponse struct {
	Tenant string   `json:"tenant"`
	Pages  []string `json:"pages"`
	Count  int      `json:"count"`
}

// OutcomeResponse is the JSON view of one block outcome.
type OutcomeResponse struct {
	Index int    `json:"index"`
	Type  string `json:"type"`
	State string `json:"state"`
	Error string `json:"error,omitempty"`
}

type PreviewResponse struct {
	HTML    string          `json:"html"`
	Outcome OutcomeResponse `json:"outcome"`
}

type RenderRequest struct {
	Blocks []core.Block `json:"blocks"`
}

type RenderResponse struct {
	HTML     string            `json:"html"`
	Outcomes []OutcomeResponse `json:"outcomes"`
	Rendered int               `json:"rendered"`
	Skipped  int               `json:"skipped"`
}

func outcomeResponse(o render.Outcome) OutcomeResponse {
	resp := OutcomeResponse{Index: o.Index, Type: o.Type, State: o.State.String()}
	if o.Err != nil {
		resp.Error = o.Err.Error()
	}
	return resp
}
