package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"khata/internal/domain"
	"khata/internal/port"
)

type jurisdictionRepo struct {
	q sqlx.QueryerContext
}

var _ port.JurisdictionRepository = (*jurisdictionRepo)(nil)

func (r *jurisdictionRepo) LoadAll(ctx context.Context) ([]domain.Jurisdiction, error) {
	var entries []domain.Jurisdiction
	err := sqlx.SelectContext(ctx, r.q, &entries,
		`SELECT code, name, short_code FROM jurisdictions ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("jurisdictionRepo.LoadAll: %w", err)
	}
	return entries, nil
}
