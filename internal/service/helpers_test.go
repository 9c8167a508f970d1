package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"khata/internal/domain"
	"khata/internal/ledger"
	"khata/internal/logger"
	"khata/internal/numbering"
	"khata/internal/port"
	"khata/internal/repository/memory"
	"khata/internal/service"
	"khata/internal/tax"
)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

type fixture struct {
	store    *memory.Store
	clock    *testClock
	series   service.SeriesService
	alloc    service.SequenceAllocator
	docs     service.DocumentService
	regions  service.JurisdictionService
	tenantID uuid.UUID
	userID   uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWith(t, ledger.Validator{})
}

func newFixtureWith(t *testing.T, posting ledger.Validator) *fixture {
	t.Helper()
	store := memory.New(memory.WithJurisdictions(memory.IndianStates))
	clock := &testClock{t: time.Date(2025, time.May, 14, 10, 30, 0, 0, time.UTC)}
	log := logger.NewNop()
	cal := numbering.DefaultCalendar()

	alloc := service.NewSequenceAllocator(store, cal, log, service.WithClock(clock.Now))
	regions := service.NewJurisdictionService(store.Jurisdictions(), tax.MissingAsSameRegion, time.Minute, log)
	return &fixture{
		store:    store,
		clock:    clock,
		series:   service.NewSeriesService(store, cal, log, service.WithClock(clock.Now)),
		alloc:    alloc,
		docs:     service.NewDocumentService(store, alloc, regions, posting, log, service.WithClock(clock.Now)),
		regions:  regions,
		tenantID: uuid.New(),
		userID:   uuid.New(),
	}
}

// createSeries creates a default sales invoice series rendering INV-<year>-<seq>.
func (f *fixture) createSeries(t *testing.T) *domain.NumberingSeries {
	t.Helper()
	s, err := f.series.Create(context.Background(), &service.CreateSeriesInput{
		TenantID:     f.tenantID,
		CreatedBy:    f.userID,
		DocumentType: domain.DocumentTypeSalesInvoice,
		Prefix:       "INV",
		Format:       "PREFIX-YEAR-SEQUENCE",
		IsDefault:    true,
	})
	require.NoError(t, err)
	return s
}

// insertSeries stores s without registry validation, for configurations Create would refuse.
func (f *fixture) insertSeries(t *testing.T, s *domain.NumberingSeries) {
	t.Helper()
	s.TenantID = f.tenantID
	err := f.store.WithTx(context.Background(), func(ctx context.Context, tx port.Tx) error {
		return tx.Series().Insert(ctx, s)
	})
	require.NoError(t, err)
}

func (f *fixture) reload(t *testing.T, seriesID uuid.UUID) *domain.NumberingSeries {
	t.Helper()
	s, err := f.store.Series().GetByID(context.Background(), f.tenantID, seriesID)
	require.NoError(t, err)
	return s
}

func (f *fixture) allocateInput() *service.AllocateInput {
	return &service.AllocateInput{TenantID: f.tenantID, DocumentType: domain.DocumentTypeSalesInvoice}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func line(qty, rate, taxRate string) service.LineItemInput {
	return service.LineItemInput{
		Description: "item",
		Quantity:    dec(qty),
		UnitRate:    dec(rate),
		TaxRate:     dec(taxRate),
	}
}

func debit(ref, amount string) service.LedgerEntryInput {
	return service.LedgerEntryInput{LedgerRef: ref, DebitAmount: dec(amount)}
}

func credit(ref, amount string) service.LedgerEntryInput {
	return service.LedgerEntryInput{LedgerRef: ref, CreditAmount: dec(amount)}
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, dec(want).Equal(got), "want %s, got %s", want, got)
}
