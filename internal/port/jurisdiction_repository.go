package port

import (
	"context"

	"khata/internal/domain"
)

// JurisdictionRepository defines the contract for jurisdiction directory access.
type JurisdictionRepository interface {
	LoadAll(ctx context.Context) ([]domain.Jurisdiction, error)
}
