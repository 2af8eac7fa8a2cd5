// Package repository declares the storage interfaces the services depend on.
// Implementations live in sub-packages (sqlite).
package repository

import (
	"context"

	"github.com/sakif/python-playground/internal/model"
)

// DefaultListLimit and MaxListLimit bound ListRecent.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// RunRepository is the run journal.
type RunRepository interface {
	// Record stores run, filling in ID and CreatedAt.
	Record(ctx context.Context, run *model.Run) error
	// ListRecent returns the newest runs first.
	ListRecent(ctx context.Context, limit int) ([]model.Run, error)
}
