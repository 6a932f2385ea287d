package sqlite

import (
	"context"
	"sync"
	"testing"
	"time"

	"ytbrief/errors"
)

func TestTryConsumeWithinLimit(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		remaining, err := repo.TryConsume(ctx, "user-1", 3)
		if err != nil {
			t.Fatalf("consume %d failed: %v", i+1, err)
		}
		if remaining != 3-(i+1) {
			t.Errorf("expected %d remaining after consume %d, got %d", 3-(i+1), i+1, remaining)
		}
	}

	_, err := repo.TryConsume(ctx, "user-1", 3)
	if err == nil {
		t.Fatal("expected quota exceeded on fourth consume")
	}
	if !errors.IsKind(err, errors.KindQuotaExceeded) {
		t.Errorf("expected quota exceeded error, got %v", err)
	}

	usage, err := repo.Usage(ctx, "user-1")
	if err != nil {
		t.Fatalf("failed to read usage: %v", err)
	}
	if usage != 3 {
		t.Errorf("expected usage 3, got %d", usage)
	}
}

func TestTryConsumeCarriesContext(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.TryConsume(ctx, "user-1", 1); err != nil {
		t.Fatalf("first consume failed: %v", err)
	}

	_, err := repo.TryConsume(ctx, "user-1", 1)
	appErr, ok := err.(*errors.AppError)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Consumed != 1 || appErr.Limit != 1 {
		t.Errorf("expected consumed=1 limit=1, got consumed=%d limit=%d",
			appErr.Consumed, appErr.Limit)
	}
}

func TestTryConsumeIsolatesUsersAndDays(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.TryConsume(ctx, "user-1", 1); err != nil {
		t.Fatalf("user-1 consume failed: %v", err)
	}
	if _, err := repo.TryConsume(ctx, "user-2", 1); err != nil {
		t.Errorf("user-2 should have an independent counter: %v", err)
	}

	// Exhaust today, then advance the clock past the day boundary.
	if _, err := repo.TryConsume(ctx, "user-1", 1); err == nil {
		t.Fatal("expected user-1 to be exhausted today")
	}
	repo.now = func() time.Time {
		return time.Now().UTC().Add(48 * time.Hour)
	}
	if _, err := repo.TryConsume(ctx, "user-1", 1); err != nil {
		t.Errorf("expected fresh counter after day rollover: %v", err)
	}
}

func TestTryConsumeAtomicUnderConcurrency(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	const limit = 10
	const callers = limit + 5

	var wg sync.WaitGroup
	results := make(chan error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.TryConsume(ctx, "user-1", limit)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	successes, exceeded := 0, 0
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.IsKind(err, errors.KindQuotaExceeded):
			exceeded++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if successes != limit {
		t.Errorf("expected exactly %d successes, got %d", limit, successes)
	}
	if exceeded != callers-limit {
		t.Errorf("expected %d quota-exceeded results, got %d", callers-limit, exceeded)
	}

	usage, err := repo.Usage(ctx, "user-1")
	if err != nil {
		t.Fatalf("failed to read usage: %v", err)
	}
	if usage != limit {
		t.Errorf("consumed count must equal limit after the race, got %d", usage)
	}
}

func TestTryConsumeReportsExactRemainingUnderConcurrency(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	const limit = 8

	var wg sync.WaitGroup
	remainings := make(chan int, limit)

	for i := 0; i < limit; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			remaining, err := repo.TryConsume(ctx, "user-1", limit)
			if err != nil {
				t.Errorf("consume failed: %v", err)
				return
			}
			remainings <- remaining
		}()
	}
	wg.Wait()
	close(remainings)

	// Every winner sees its own post-increment count, so the reported
	// values are a permutation of 0..limit-1.
	seen := make(map[int]bool, limit)
	for remaining := range remainings {
		if remaining < 0 || remaining >= limit {
			t.Errorf("remaining %d out of range [0, %d)", remaining, limit)
		}
		if seen[remaining] {
			t.Errorf("remaining %d reported twice", remaining)
		}
		seen[remaining] = true
	}
	if len(seen) != limit {
		t.Errorf("expected %d distinct remaining values, got %d", limit, len(seen))
	}
}

func TestTryConsumeZeroLimit(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.TryConsume(context.Background(), "user-1", 0)
	if !errors.IsKind(err, errors.KindQuotaExceeded) {
		t.Errorf("expected quota exceeded for zero limit, got %v", err)
	}
}
