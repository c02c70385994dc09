package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"clickstream-insights/internal/events/core/domain"
	"clickstream-insights/internal/events/core/pricing"
	"clickstream-insights/internal/events/core/usecase"
)

// Fake repository implementing EventRepositoryPort
type fakeEventRepo struct {
	InsertFn func(ctx context.Context, e *domain.Event) (bool, error)
}

func (f *fakeEventRepo) InsertEvent(ctx context.Context, e *domain.Event) (bool, error) {
	return f.InsertFn(ctx, e)
}

func price(v float64) *float64 { return &v }

func validInput() usecase.StoreEventInput {
	return usecase.StoreEventInput{
		SessionKey:   "sess_1",
		UserID:       "user_123",
		EventType:    domain.EventTypeView,
		Timestamp:    time.Now().Add(-time.Minute).Unix(),
		ProductID:    "p1",
		CategoryCode: "electronics.smartphone",
		Brand:        "acme",
		Price:        price(199.99),
		PriceTier:    pricing.TierHigh,
	}
}

// ------------------------------------------------------------
// SUCCESS TEST
// ------------------------------------------------------------
func TestStoreEvent_Success(t *testing.T) {
	called := false

	repo := &fakeEventRepo{
		InsertFn: func(ctx context.Context, e *domain.Event) (bool, error) {
			called = true

			if e.EventType != domain.EventTypeView {
				t.Fatalf("expected event_type 'view', got %s", e.EventType)
			}
			if e.SessionKey != "sess_1" {
				t.Fatalf("expected session 'sess_1', got %s", e.SessionKey)
			}
			if e.Category != "electronics" {
				t.Fatalf("expected category derived from code, got %q", e.Category)
			}
			if e.DedupeKey == "" {
				t.Fatalf("expected dedupe key, got empty")
			}

			return true, nil
		},
	}

	uc := usecase.NewStoreEventUseCase(repo)

	created, err := uc.Execute(context.Background(), validInput())

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatalf("expected created=true, got false")
	}
	if !called {
		t.Fatalf("repository InsertEvent was not called")
	}
}

// ------------------------------------------------------------
// PRICE TIER DERIVED FROM THRESHOLDS
// ------------------------------------------------------------
func TestStoreEvent_DerivesPriceTier(t *testing.T) {
	var stored *domain.Event
	repo := &fakeEventRepo{
		InsertFn: func(ctx context.Context, e *domain.Event) (bool, error) {
			stored = e
			return true, nil
		},
	}

	uc := usecase.NewStoreEventUseCase(repo, usecase.WithThresholds(pricing.Thresholds{Low: 10, High: 100}))

	in := validInput()
	in.PriceTier = ""
	in.Price = price(50)

	if _, err := uc.Execute(context.Background(), in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored == nil || stored.PriceTier != pricing.TierMedium {
		t.Fatalf("expected tier Medium, got %+v", stored)
	}
}

// ------------------------------------------------------------
// MISSING REQUIRED FIELDS
// ------------------------------------------------------------
func TestStoreEvent_InvalidInput(t *testing.T) {
	repo := &fakeEventRepo{}
	uc := usecase.NewStoreEventUseCase(repo)

	tests := map[string]func(in *usecase.StoreEventInput){
		"empty event type":  func(in *usecase.StoreEventInput) { in.EventType = "" },
		"empty session":     func(in *usecase.StoreEventInput) { in.SessionKey = "" },
		"empty product":     func(in *usecase.StoreEventInput) { in.ProductID = "" },
		"missing price":     func(in *usecase.StoreEventInput) { in.Price = nil },
		"no tier, no rules": func(in *usecase.StoreEventInput) { in.PriceTier = "" },
		"no category":       func(in *usecase.StoreEventInput) { in.CategoryCode = "" },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			in := validInput()
			mutate(&in)

			created, err := uc.Execute(context.Background(), in)

			if err == nil {
				t.Fatalf("expected error for invalid input, got nil")
			}
			if created {
				t.Fatalf("expected created=false")
			}
			if !errors.Is(err, usecase.ErrInvalidEvent) {
				t.Fatalf("expected ErrInvalidEvent, got %v", err)
			}
		})
	}
}

// ------------------------------------------------------------
// FUTURE TIMESTAMP
// ------------------------------------------------------------
func TestStoreEvent_FutureTimestamp(t *testing.T) {
	repo := &fakeEventRepo{}
	fixed := time.Date(2019, 10, 1, 12, 0, 0, 0, time.UTC)
	uc := usecase.NewStoreEventUseCase(repo, usecase.WithClock(func() time.Time { return fixed }))

	input := validInput()
	input.Timestamp = fixed.Add(5 * time.Minute).Unix() // future

	created, err := uc.Execute(context.Background(), input)

	if err == nil {
		t.Fatalf("expected error for future timestamp, got nil")
	}
	if created {
		t.Fatalf("expected created=false")
	}
	if !errors.Is(err, usecase.ErrFutureTime) {
		t.Fatalf("expected ErrFutureTime, got %v", err)
	}
}

// ------------------------------------------------------------
// DUPLICATE
// ------------------------------------------------------------
func TestStoreEvent_Duplicate(t *testing.T) {
	repo := &fakeEventRepo{
		InsertFn: func(ctx context.Context, e *domain.Event) (bool, error) {
			return false, nil // duplicate
		},
	}

	uc := usecase.NewStoreEventUseCase(repo)

	created, err := uc.Execute(context.Background(), validInput())

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Fatalf("expected created=false for duplicate")
	}
}

// ------------------------------------------------------------
// REPOSITORY ERROR
// ------------------------------------------------------------
func TestStoreEvent_RepositoryError(t *testing.T) {
	repo := &fakeEventRepo{
		InsertFn: func(ctx context.Context, e *domain.Event) (bool, error) {
			return false, errors.New("db failure")
		},
	}

	uc := usecase.NewStoreEventUseCase(repo)

	created, err := uc.Execute(context.Background(), validInput())

	if err == nil {
		t.Fatalf("expected db error, got nil")
	}
	if created {
		t.Fatalf("expected created=false")
	}
	if err.Error() != "db failure" {
		t.Fatalf("expected 'db failure', got %v", err)
	}
}
