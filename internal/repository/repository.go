// Package repository provides factory for repositories.
package repository

import (
	"context"
	"fmt"

	"pr-risk-analyzer/config"
	"pr-risk-analyzer/internal/repository/badgerkv"
	"pr-risk-analyzer/internal/repository/postgres"

	"go.uber.org/zap"
)

// Repository aggregates all persistence interfaces.
type Repository interface {
	LifecycleInterface
	KVInterface
}

// New constructs repository backend by name.
func New(ctx context.Context, name string, log *zap.SugaredLogger, cfg *config.Config) (Repository, error) {
	switch name {
	case "badger":
		return badgerkv.New(log, cfg), nil
	case "postgres":
		return postgres.New(ctx, log, cfg), nil
	default:
		return nil, fmt.Errorf("unknown repo backend: %s", name)
	}
}
