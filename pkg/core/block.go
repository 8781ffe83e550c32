package core

import (
	"strings"
)

// Block is one author-configured unit of page content.
//
// Type selects the renderer (e.g. "hero", "listings_grid"). Data holds the
// author supplied configuration exactly as it was persisted: heterogeneous
// per type, untrusted, and with optional keys that renderers default.
//
// Blocks are read once per render pass and must not be modified while a
// page is being rendered.
type Block struct {
	Type string         `json:"type" yaml:"type"`
	Data map[string]any `json:"data,omitempty" yaml:"data,omitempty"`
}

// NewBlock returns a Block with a non-nil data map.
func NewBlock(blockType string, data map[string]any) Block {
	if data == nil {
		data = map[string]any{}
	}
	return Block{Type: blockType, Data: data}
}

// Page is an ordered list of blocks. Order is rendering order.
type Page struct {
	Title  string  `json:"title" yaml:"title"`
	Slug   string  `json:"slug" yaml:"slug"`
	Blocks []Block `json:"blocks" yaml:"blocks"`
}

// NormalizeType canonicalizes a block type identifier: surrounding space is
// trimmed, letters are lower-cased and hyphens become underscores, so
// "Members-Grid" and "members_grid" name the same renderer.
func NormalizeType(blockType string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(blockType)), "-", "_")
}

// State is the lifecycle position of a block inside one render pass.
type State int

const (
	// StatePending is the initial state before validation.
	StatePending State = iota
	// StateValidated means the renderer accepted the data.
	StateValidated
	// StateRendered is terminal: the renderer produced HTML.
	StateRendered
	// StateRejected is terminal: unknown type or invalid data.
	StateRejected
	// StateFailed is terminal: the renderer returned an error.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateValidated:
		return "validated"
	case StateRendered:
		return "rendered"
	case StateRejected:
		return "rejected"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether s is one of Rendered, Rejected or Failed.
func (s State) Terminal() bool {
	return s == StateRendered || s == StateRejected || s == StateFailed
}
