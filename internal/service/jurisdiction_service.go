package service

import (
	"context"
	"fmt"
	"time"

	goCache "github.com/patrickmn/go-cache"

	"khata/internal/domain"
	"khata/internal/logger"
	"khata/internal/port"
	"khata/internal/tax"
)

const (
	regionsCacheKey     = "regions"
	defaultRegionTTL    = 10 * time.Minute
	regionCleanupFactor = 2
)

// JurisdictionService serves the jurisdiction directory and the tax calculator built on it.
type JurisdictionService interface {
	List(ctx context.Context) ([]domain.Jurisdiction, error)
	Regions(ctx context.Context) (*tax.Regions, error)
	// Calculator returns a tax calculator using the configured missing-jurisdiction policy.
	Calculator(ctx context.Context) (*tax.Calculator, error)
	// Invalidate drops the cached alias table so the next call reloads it.
	Invalidate()
}

type jurisdictionService struct {
	repo    port.JurisdictionRepository
	missing tax.MissingPolicy
	cache   *goCache.Cache
	log     *logger.Logger
}

// NewJurisdictionService creates a new JurisdictionService implementation. A ttl of zero selects ten minutes.
func NewJurisdictionService(repo port.JurisdictionRepository, missing tax.MissingPolicy, ttl time.Duration, log *logger.Logger) JurisdictionService {
	if ttl <= 0 {
		ttl = defaultRegionTTL
	}
	return &jurisdictionService{
		repo:    repo,
		missing: missing,
		cache:   goCache.New(ttl, regionCleanupFactor*ttl),
		log:     log,
	}
}

func (s *jurisdictionService) List(ctx context.Context) ([]domain.Jurisdiction, error) {
	entries, err := s.repo.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("jurisdiction.List: %w", err)
	}
	return entries, nil
}

func (s *jurisdictionService) Regions(ctx context.Context) (*tax.Regions, error) {
	if cached, ok := s.cache.Get(regionsCacheKey); ok {
		return cached.(*tax.Regions), nil
	}
	entries, err := s.repo.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("jurisdiction.Regions: %w", err)
	}
	regions := tax.NewRegions(entries)
	s.cache.SetDefault(regionsCacheKey, regions)
	s.log.Debugw("loaded jurisdiction directory", "entries", len(entries), "aliases", regions.Len())
	return regions, nil
}

func (s *jurisdictionService) Calculator(ctx context.Context) (*tax.Calculator, error) {
	regions, err := s.Regions(ctx)
	if err != nil {
		return nil, err
	}
	return tax.NewCalculator(regions, s.missing), nil
}

func (s *jurisdictionService) Invalidate() {
	s.cache.Delete(regionsCacheKey)
}
