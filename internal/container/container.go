package container

import (
	"log/slog"

	"github.com/campushub/eventreg/internal/ledger"
	"github.com/campushub/eventreg/internal/models"
)

// Container holds all application dependencies
type Container struct {
	Logger *slog.Logger
	Store  models.Store
	Ledger *ledger.Ledger
}

// NewContainer creates a new dependency injection container
func NewContainer(logger *slog.Logger, store models.Store, cascadeOnCancel bool) *Container {
	return &Container{
		Logger: logger,
		Store:  store,
		Ledger: ledger.New(store, cascadeOnCancel),
	}
}
