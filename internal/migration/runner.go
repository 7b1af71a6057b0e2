// Package migration applies one-time setup actions and records them in the
// migrations collection so each runs at most once.
package migration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alimikegami/point-of-sales/product-catalog-service/internal/domain"
	"github.com/alimikegami/point-of-sales/product-catalog-service/internal/repository"
	"github.com/alimikegami/point-of-sales/product-catalog-service/pkg/errs"
	"github.com/rs/zerolog/log"
)

type Migration struct {
	Name string
	Up   func(ctx context.Context) error
}

type Status struct {
	Name      string                 `json:"migrationName"`
	State     domain.MigrationStatus `json:"state"`
	AppliedAt *time.Time             `json:"dateApplied,omitempty"`
}

type Runner struct {
	repo       repository.MigrationRepository
	migrations []Migration
}

// NewRunner keeps migrations in the given order. It panics on a duplicate name.
func NewRunner(repo repository.MigrationRepository, migrations ...Migration) *Runner {
	seen := make(map[string]bool, len(migrations))
	for _, m := range migrations {
		if seen[m.Name] {
			panic(fmt.Sprintf("migration: duplicate migration %q", m.Name))
		}
		seen[m.Name] = true
	}

	return &Runner{
		repo:       repo,
		migrations: migrations,
	}
}

// Up applies every pending migration in order and returns the names it applied.
// A migration recorded meanwhile by another process counts as applied.
func (r *Runner) Up(ctx context.Context) ([]string, error) {
	if err := r.repo.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("ensure migration indexes: %w", err)
	}

	applied := []string{}
	for _, m := range r.migrations {
		done, err := r.repo.IsApplied(ctx, m.Name)
		if err != nil {
			return applied, fmt.Errorf("check migration %s: %w", m.Name, err)
		}

		if done {
			log.Ctx(ctx).Debug().Str("migration", m.Name).Msg("migration already applied")
			continue
		}

		if err := m.Up(ctx); err != nil {
			return applied, fmt.Errorf("apply migration %s: %w", m.Name, err)
		}

		err = r.repo.RecordMigration(ctx, m.Name)
		if errors.Is(err, errs.ErrConflict) {
			log.Ctx(ctx).Warn().Str("migration", m.Name).Msg("migration recorded concurrently")
			continue
		}
		if err != nil {
			return applied, fmt.Errorf("record migration %s: %w", m.Name, err)
		}

		log.Ctx(ctx).Info().Str("migration", m.Name).Msg("migration applied")
		applied = append(applied, m.Name)
	}

	return applied, nil
}

func (r *Runner) Status(ctx context.Context) ([]Status, error) {
	records, err := r.repo.GetMigrations(ctx)
	if err != nil {
		return nil, err
	}

	appliedAt := make(map[string]time.Time, len(records))
	for _, rec := range records {
		appliedAt[rec.Name] = rec.DateApplied
	}

	statuses := make([]Status, 0, len(r.migrations))
	for _, m := range r.migrations {
		s := Status{Name: m.Name, State: domain.MigrationStatusPending}
		if at, ok := appliedAt[m.Name]; ok {
			s.State = domain.MigrationStatusApplied
			s.AppliedAt = &at
		}
		statuses = append(statuses, s)
	}

	return statuses, nil
}
