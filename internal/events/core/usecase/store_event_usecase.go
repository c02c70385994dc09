package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clickstream-insights/internal/events/core/domain"
	"clickstream-insights/internal/events/core/ports"
	"clickstream-insights/internal/events/core/pricing"
)

var (
	ErrInvalidEvent = errors.New("invalid event")
	ErrFutureTime   = errors.New("timestamp cannot be in the future")
)

type StoreEventUseCase struct {
	repo       ports.EventRepositoryPort
	thresholds *pricing.Thresholds
	now        func() time.Time
}

type Option func(*StoreEventUseCase)

// WithThresholds lets the use case derive a price tier for events that
// arrive without one.
func WithThresholds(t pricing.Thresholds) Option {
	return func(uc *StoreEventUseCase) {
		uc.thresholds = &t
	}
}

func WithClock(now func() time.Time) Option {
	return func(uc *StoreEventUseCase) {
		uc.now = now
	}
}

func NewStoreEventUseCase(repo ports.EventRepositoryPort, opts ...Option) *StoreEventUseCase {
	uc := &StoreEventUseCase{repo: repo, now: time.Now}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

type StoreEventInput struct {
	SessionKey   string
	UserID       string
	EventType    string
	Timestamp    int64
	ProductID    string
	CategoryID   string
	CategoryCode string
	Brand        string
	Price        *float64
	PriceTier    string
	Category     string
}

func (uc *StoreEventUseCase) Execute(ctx context.Context, in StoreEventInput) (bool, error) {
	e, err := uc.toEvent(in)
	if err != nil {
		return false, err
	}

	created, err := uc.repo.InsertEvent(ctx, e)
	if err != nil {
		return false, err
	}

	return created, nil
}

func (uc *StoreEventUseCase) toEvent(in StoreEventInput) (*domain.Event, error) {
	if in.Price == nil {
		return nil, fmt.Errorf("%w: price is required", ErrInvalidEvent)
	}
	if in.Timestamp > uc.now().Unix() {
		return nil, ErrFutureTime
	}

	eventTime := time.Unix(in.Timestamp, 0).UTC()

	category := in.Category
	if category == "" {
		category = pricing.MainCategory(in.CategoryCode)
	}
	tier := in.PriceTier
	if tier == "" && uc.thresholds != nil {
		tier = uc.thresholds.Tier(*in.Price)
	}

	e := &domain.Event{
		SessionKey:   in.SessionKey,
		UserID:       in.UserID,
		EventType:    in.EventType,
		EventTime:    eventTime,
		ProductID:    in.ProductID,
		CategoryID:   in.CategoryID,
		CategoryCode: in.CategoryCode,
		Brand:        in.Brand,
		Price:        *in.Price,
		PriceTier:    tier,
		Category:     category,
	}
	if !e.Valid() {
		return nil, ErrInvalidEvent
	}
	e.DedupeKey = buildDedupeKey(e)

	return e, nil
}

func buildDedupeKey(e *domain.Event) string {
	// session + user + event type + product + unix timestamp
	return fmt.Sprintf("%s|%s|%s|%s|%d",
		e.SessionKey,
		e.UserID,
		e.EventType,
		e.ProductID,
		e.EventTime.Unix(),
	)
}

type BulkCreateEventsInput struct {
	Events []StoreEventInput
}

type BulkCreateEventsResult struct {
	Created    int
	Duplicates int
}

// BulkCreateEvents validates the whole batch before writing anything, then
// stores events one by one.
func (uc *StoreEventUseCase) BulkCreateEvents(ctx context.Context, in BulkCreateEventsInput) (BulkCreateEventsResult, error) {
	var res BulkCreateEventsResult

	events := make([]*domain.Event, 0, len(in.Events))
	for i, ev := range in.Events {
		e, err := uc.toEvent(ev)
		if err != nil {
			return res, fmt.Errorf("event %d: %w", i, err)
		}
		events = append(events, e)
	}

	for _, e := range events {
		ok, err := uc.repo.InsertEvent(ctx, e)
		if err != nil {
			return res, err
		}
		if ok {
			res.Created++
		} else {
			res.Duplicates++
		}
	}

	return res, nil
}
