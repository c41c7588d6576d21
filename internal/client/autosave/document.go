package autosave

import (
	"context"
	"maps"
)

// Unsaved is the identity of a document the server has not created yet.
const Unsaved = "unsaved"

// Fields maps field names to their values.
type Fields map[string]string

// Clone returns an independent copy of f.
func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	return maps.Clone(f)
}

// Equal compares field by field.
func (f Fields) Equal(other Fields) bool {
	return maps.Equal(f, other)
}

// Document is the persisted representation returned by the server.
type Document struct {
	ID     string
	Fields Fields
}

// Saver persists documents. Both methods return the server's authoritative
// representation, which may differ from what was sent.
type Saver interface {
	Create(ctx context.Context, fields Fields) (Document, error)
	Update(ctx context.Context, id string, fields Fields) (Document, error)
}

// Status is save feedback for the user. It plays no part in correctness.
type Status int

const (
	StatusIdle Status = iota
	StatusSaving
	StatusSaved
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusSaving:
		return "saving"
	case StatusSaved:
		return "saved"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}
