// Package storage is the object-store collaborator for analysis
// artifacts. The core only needs a byte sink that returns a durable
// URL; where the bytes land is a deployment concern.
package storage

import (
	"context"
	"errors"
)

// ErrStorage wraps any object-store failure so callers can map it to
// a single error kind without leaking backend details.
var ErrStorage = errors.New("object storage failure")

type Store interface {
	// Save persists the bytes and returns a durable public URL.
	Save(ctx context.Context, data []byte, mimeType, logicalName string) (string, error)
}
