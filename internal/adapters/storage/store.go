// Package storage keeps courrier attachment bytes outside the relational store.
package storage

import (
	"context"
	"time"
)

// StoredObject describes one stored attachment
type StoredObject struct {
	Name    string
	ModTime time.Time
}

// AttachmentStore persists attachment bytes under a generated name.
// Names are flat: they never contain a path separator.
type AttachmentStore interface {
	Save(ctx context.Context, name string, data []byte) error
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]StoredObject, error)
}
