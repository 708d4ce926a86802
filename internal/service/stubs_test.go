package service

// In-memory repository stubs shared by the service tests. They mirror the
// query semantics of the real repositories closely enough for the business
// rules to be exercised without a database.

import (
	"context"
	"errors"
	"sort"
	"time"

	"sproutplan/internal/dto"
	"sproutplan/internal/forecast"
	"sproutplan/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var errStubNotFound = errors.New("not found")

// ── ForecastRepository ───────────────────────────────────────────────────────

type stubForecastRepo struct {
	forecasts map[uuid.UUID]*model.Forecast
}

func newStubForecastRepo() *stubForecastRepo {
	return &stubForecastRepo{forecasts: make(map[uuid.UUID]*model.Forecast)}
}

func (r *stubForecastRepo) Create(_ context.Context, f *model.Forecast) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	r.forecasts[f.ID] = f
	return nil
}

func (r *stubForecastRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Forecast, error) {
	f, ok := r.forecasts[id]
	if !ok {
		return nil, errStubNotFound
	}
	return f, nil
}

func (r *stubForecastRepo) FindAggregate(_ context.Context, productID uuid.UUID, targetDate time.Time) (*model.Forecast, error) {
	for _, f := range r.forecasts {
		if f.ProductID == productID && f.CustomerID == nil && f.TargetDate.Equal(targetDate) {
			return f, nil
		}
	}
	return nil, errStubNotFound
}

func (r *stubForecastRepo) Update(_ context.Context, f *model.Forecast) error {
	r.forecasts[f.ID] = f
	return nil
}

func (r *stubForecastRepo) UpdateDerived(_ context.Context, id uuid.UUID, effective decimal.Decimal, hasAdjustment bool) error {
	f, ok := r.forecasts[id]
	if !ok {
		return errStubNotFound
	}
	f.EffectiveQuantity = effective
	f.HasManualAdjustment = hasAdjustment
	return nil
}

func (r *stubForecastRepo) List(_ context.Context, _ dto.ForecastFilter) ([]model.Forecast, int64, error) {
	out := make([]model.Forecast, 0, len(r.forecasts))
	for _, f := range r.forecasts {
		out = append(out, *f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TargetDate.Before(out[j].TargetDate) })
	return out, int64(len(out)), nil
}

func (r *stubForecastRepo) ListSchedulable(_ context.Context, from, until time.Time) ([]model.Forecast, error) {
	var out []model.Forecast
	for _, f := range r.forecasts {
		if f.CustomerID != nil || !f.EffectiveQuantity.IsPositive() {
			continue
		}
		if f.TargetDate.Before(from) || f.TargetDate.After(until) {
			continue
		}
		out = append(out, *f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TargetDate.Before(out[j].TargetDate) })
	return out, nil
}

func (r *stubForecastRepo) ListUnevaluated(_ context.Context, before time.Time) ([]model.Forecast, error) {
	var out []model.Forecast
	for _, f := range r.forecasts {
		if f.TargetDate.Before(before) {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TargetDate.Before(out[j].TargetDate) })
	return out, nil
}

// ── AdjustmentRepository ─────────────────────────────────────────────────────

type stubAdjustmentRepo struct {
	entries []*model.ManualAdjustment
}

func newStubAdjustmentRepo() *stubAdjustmentRepo { return &stubAdjustmentRepo{} }

func (r *stubAdjustmentRepo) Create(_ context.Context, a *model.ManualAdjustment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.entries = append(r.entries, a)
	return nil
}

func (r *stubAdjustmentRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ManualAdjustment, error) {
	for _, a := range r.entries {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, errStubNotFound
}

func (r *stubAdjustmentRepo) ListByForecast(_ context.Context, forecastID uuid.UUID) ([]model.ManualAdjustment, error) {
	return r.list(forecastID, false), nil
}

func (r *stubAdjustmentRepo) ListActiveByForecast(_ context.Context, forecastID uuid.UUID) ([]model.ManualAdjustment, error) {
	return r.list(forecastID, true), nil
}

func (r *stubAdjustmentRepo) list(forecastID uuid.UUID, activeOnly bool) []model.ManualAdjustment {
	var out []model.ManualAdjustment
	for _, a := range r.entries {
		if a.ForecastID != forecastID {
			continue
		}
		if activeOnly && !a.IsActive {
			continue
		}
		out = append(out, *a)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (r *stubAdjustmentRepo) MarkReverted(_ context.Context, a *model.ManualAdjustment) error {
	for _, stored := range r.entries {
		if stored.ID == a.ID && stored.IsActive {
			stored.IsActive = false
			stored.RevertedAt = a.RevertedAt
			stored.RevertedBy = a.RevertedBy
			stored.RevertReason = a.RevertReason
			return nil
		}
	}
	return nil // same as the SQL guard: double revert is a no-op
}

// ── SuggestionRepository ─────────────────────────────────────────────────────

type stubSuggestionRepo struct {
	suggestions map[uuid.UUID]*model.ProductionSuggestion
}

func newStubSuggestionRepo() *stubSuggestionRepo {
	return &stubSuggestionRepo{suggestions: make(map[uuid.UUID]*model.ProductionSuggestion)}
}

func (r *stubSuggestionRepo) Create(_ context.Context, s *model.ProductionSuggestion) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.suggestions[s.ID] = s
	return nil
}

func (r *stubSuggestionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ProductionSuggestion, error) {
	s, ok := r.suggestions[id]
	if !ok {
		return nil, errStubNotFound
	}
	return s, nil
}

func (r *stubSuggestionRepo) FindByForecastID(_ context.Context, forecastID uuid.UUID) (*model.ProductionSuggestion, error) {
	for _, s := range r.suggestions {
		if s.ForecastID == forecastID {
			return s, nil
		}
	}
	return nil, errStubNotFound
}

func (r *stubSuggestionRepo) Update(_ context.Context, s *model.ProductionSuggestion) error {
	r.suggestions[s.ID] = s
	return nil
}

func (r *stubSuggestionRepo) List(_ context.Context, filter dto.SuggestionFilter) ([]model.ProductionSuggestion, int64, error) {
	var out []model.ProductionSuggestion
	for _, s := range r.suggestions {
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		if filter.ProductID != "" && s.ProductID.String() != filter.ProductID {
			continue
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SowDate.Before(out[j].SowDate) })
	return out, int64(len(out)), nil
}

func (r *stubSuggestionRepo) SumProposedTrays(_ context.Context, sowDate time.Time, exclude uuid.UUID) (int, error) {
	total := 0
	for _, s := range r.suggestions {
		if s.ID == exclude || s.Status != model.SuggestionProposed {
			continue
		}
		if s.SowDate.Equal(sowDate) {
			total += s.RecommendedTrays
		}
	}
	return total, nil
}

func (r *stubSuggestionRepo) FindForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.ProductionSuggestion, error) {
	s, ok := r.suggestions[id]
	if !ok {
		return nil, errStubNotFound
	}
	return s, nil
}

func (r *stubSuggestionRepo) UpdateTx(_ *gorm.DB, s *model.ProductionSuggestion) error {
	r.suggestions[s.ID] = s
	return nil
}

// DB returns nil so services run their transaction body directly.
func (r *stubSuggestionRepo) DB() *gorm.DB { return nil }

// ── ProductRepository ────────────────────────────────────────────────────────

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) add(p *model.Product) *model.Product {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return p
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	r.add(p)
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, errStubNotFound
	}
	return p, nil
}

func (r *stubProductRepo) ListActive(_ context.Context) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.products {
		if p.Active {
			out = append(out, *p)
		}
	}
	return out, nil
}

// ── SalesOrderRepository ─────────────────────────────────────────────────────

type stubOrderRepo struct {
	daily    []forecast.DailyQuantity
	realized map[string]decimal.Decimal // keyed by date string YYYY-MM-DD
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{realized: make(map[string]decimal.Decimal)}
}

func (r *stubOrderRepo) Create(_ context.Context, _ *model.SalesOrder) error { return nil }

func (r *stubOrderRepo) AggregateDaily(_ context.Context, _ uuid.UUID, from, until time.Time) ([]forecast.DailyQuantity, error) {
	var out []forecast.DailyQuantity
	for _, d := range r.daily {
		if !d.Date.Before(from) && !d.Date.After(until) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *stubOrderRepo) RealizedQuantity(_ context.Context, _ uuid.UUID, _ *uuid.UUID, date time.Time) (decimal.Decimal, error) {
	return r.realized[date.Format("2006-01-02")], nil
}

// ── SubscriptionRepository ───────────────────────────────────────────────────

type stubSubscriptionRepo struct {
	subs []model.Subscription
}

func (r *stubSubscriptionRepo) Create(_ context.Context, s *model.Subscription) error {
	r.subs = append(r.subs, *s)
	return nil
}

func (r *stubSubscriptionRepo) ListActiveByProduct(_ context.Context, productID uuid.UUID) ([]model.Subscription, error) {
	var out []model.Subscription
	for _, s := range r.subs {
		if s.ProductID == productID && s.Active {
			out = append(out, s)
		}
	}
	return out, nil
}

// ── SeedBatch / Lot / Capacity ───────────────────────────────────────────────

type stubSeedBatchRepo struct {
	batches []*model.SeedBatch
}

func (r *stubSeedBatchRepo) Create(_ context.Context, b *model.SeedBatch) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	r.batches = append(r.batches, b)
	return nil
}

func (r *stubSeedBatchRepo) FindOldestWithStockTx(_ *gorm.DB, productID uuid.UUID) (*model.SeedBatch, error) {
	var oldest *model.SeedBatch
	for _, b := range r.batches {
		if b.ProductID != productID || !b.RemainingGrams.IsPositive() {
			continue
		}
		if oldest == nil || b.ReceivedAt.Before(oldest.ReceivedAt) {
			oldest = b
		}
	}
	if oldest == nil {
		return nil, errStubNotFound
	}
	return oldest, nil
}

type stubLotRepo struct {
	lots []*model.ProductionLot
}

func (r *stubLotRepo) CreateTx(_ *gorm.DB, lot *model.ProductionLot) error {
	r.lots = append(r.lots, lot)
	return nil
}

type stubCapacityRepo struct {
	resource *model.CapacityResource
}

func (r *stubCapacityRepo) Create(_ context.Context, c *model.CapacityResource) error {
	r.resource = c
	return nil
}

func (r *stubCapacityRepo) GetByKind(_ context.Context, kind string) (*model.CapacityResource, error) {
	if r.resource == nil || r.resource.Kind != kind {
		return nil, errStubNotFound
	}
	return r.resource, nil
}

func (r *stubCapacityRepo) CommitTraysTx(_ *gorm.DB, kind string, delta int) error {
	if r.resource == nil || r.resource.Kind != kind {
		return errStubNotFound
	}
	r.resource.CommittedTrays += delta
	return nil
}

// ── AccuracyRepository ───────────────────────────────────────────────────────

type stubAccuracyRepo struct {
	records map[uuid.UUID]*model.ForecastAccuracy // keyed by forecast ID
}

func newStubAccuracyRepo() *stubAccuracyRepo {
	return &stubAccuracyRepo{records: make(map[uuid.UUID]*model.ForecastAccuracy)}
}

func (r *stubAccuracyRepo) Create(_ context.Context, a *model.ForecastAccuracy) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if _, dup := r.records[a.ForecastID]; dup {
		return errors.New("duplicate accuracy record")
	}
	r.records[a.ForecastID] = a
	return nil
}

func (r *stubAccuracyRepo) ExistsForForecast(_ context.Context, forecastID uuid.UUID) (bool, error) {
	_, ok := r.records[forecastID]
	return ok, nil
}

func (r *stubAccuracyRepo) List(_ context.Context, filter dto.AccuracyFilter) ([]model.ForecastAccuracy, error) {
	var out []model.ForecastAccuracy
	for _, a := range r.records {
		if filter.ProductID != "" && a.ProductID.String() != filter.ProductID {
			continue
		}
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TargetDate.Before(out[j].TargetDate) })
	return out, nil
}

// ── Queues ───────────────────────────────────────────────────────────────────

type stubRecomputeQueue struct {
	enqueued []uuid.UUID
}

func (q *stubRecomputeQueue) EnqueueRecompute(_ context.Context, forecastID uuid.UUID) error {
	q.enqueued = append(q.enqueued, forecastID)
	return nil
}

type stubNotifyQueue struct {
	subjects []string
}

func (q *stubNotifyQueue) EnqueueNotification(_ context.Context, subject, _ string) error {
	q.subjects = append(q.subjects, subject)
	return nil
}

// ── Common fixtures ──────────────────────────────────────────────────────────

func day(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}

func dec(value string) decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return d
}

func sunflower() *model.Product {
	return &model.Product{
		ID:              uuid.New(),
		Name:            "Sunflower Shoots",
		GerminationDays: 2,
		GrowthDays:      8,
		YieldPerTray:    dec("350"),
		ExpectedLossPct: dec("5"),
		Active:          true,
	}
}
