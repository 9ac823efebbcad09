package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestProgressUpsert_Idempotent(t *testing.T) {
	s := NewInMemoryProgressStore()
	ctx := context.Background()

	first, _, err := s.Upsert(ctx, "emp-1", "vid-1", 42, 100)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	second, _, err := s.Upsert(ctx, "emp-1", "vid-1", 42, 100)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if second.LastPosition != first.LastPosition || second.Duration != first.Duration || second.Completed != first.Completed {
		t.Fatalf("repeated upsert changed record: %+v vs %+v", first, second)
	}
}

func TestProgressUpsert_ClampsPosition(t *testing.T) {
	s := NewInMemoryProgressStore()

	rec, _, err := s.Upsert(context.Background(), "emp-1", "vid-1", 500, 100)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if rec.LastPosition != 100 {
		t.Fatalf("expected position clamped to 100, got %d", rec.LastPosition)
	}
	if !rec.Completed {
		t.Fatal("expected clamped full watch to be completed")
	}
}

func TestProgressUpsert_NegativePositionClampedToZero(t *testing.T) {
	s := NewInMemoryProgressStore()

	rec, _, err := s.Upsert(context.Background(), "emp-1", "vid-1", -7, 100)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if rec.LastPosition != 0 {
		t.Fatalf("expected position 0, got %d", rec.LastPosition)
	}
}

func TestProgressUpsert_CompletionThreshold(t *testing.T) {
	s := NewInMemoryProgressStore()
	ctx := context.Background()

	rec, _, err := s.Upsert(ctx, "emp-1", "vid-1", 90, 100)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if !rec.Completed {
		t.Fatal("expected 90/100 to be completed")
	}

	rec, _, err = s.Upsert(ctx, "emp-1", "vid-2", 89, 100)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if rec.Completed {
		t.Fatal("expected 89/100 to not be completed")
	}
}

func TestProgressUpsert_ZeroDurationNeverCompleted(t *testing.T) {
	s := NewInMemoryProgressStore()

	rec, _, err := s.Upsert(context.Background(), "emp-1", "vid-1", 0, 0)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if rec.Completed {
		t.Fatal("expected zero-duration record to not be completed")
	}
}

func TestProgressUpsert_LastWriteWins(t *testing.T) {
	s := NewInMemoryProgressStore()
	ctx := context.Background()

	if _, _, err := s.Upsert(ctx, "emp-1", "vid-1", 40, 100); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, _, err := s.Upsert(ctx, "emp-1", "vid-1", 10, 100); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	rec, err := s.Get(ctx, "emp-1", "vid-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.LastPosition != 10 {
		t.Fatalf("expected last-arrival position 10, got %d", rec.LastPosition)
	}
}

func TestProgressUpsert_UpdatedAtNonDecreasing(t *testing.T) {
	s := NewInMemoryProgressStore()
	ctx := context.Background()

	first, _, _ := s.Upsert(ctx, "emp-1", "vid-1", 10, 100)
	second, _, _ := s.Upsert(ctx, "emp-1", "vid-1", 20, 100)
	if second.UpdatedAt.Before(first.UpdatedAt) {
		t.Fatalf("updated_at went backwards: %v then %v", first.UpdatedAt, second.UpdatedAt)
	}
}

func TestProgressUpsert_ReportsPriorCompletion(t *testing.T) {
	s := NewInMemoryProgressStore()
	ctx := context.Background()

	_, wasCompleted, err := s.Upsert(ctx, "emp-1", "vid-1", 10, 100)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if wasCompleted {
		t.Fatal("first write must report no prior completion")
	}

	rec, wasCompleted, err := s.Upsert(ctx, "emp-1", "vid-1", 95, 100)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if wasCompleted {
		t.Fatal("crossing the threshold must still report the prior incomplete state")
	}
	if !rec.Completed {
		t.Fatal("expected 95/100 to be completed")
	}

	_, wasCompleted, err = s.Upsert(ctx, "emp-1", "vid-1", 96, 100)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if !wasCompleted {
		t.Fatal("repeat write after completion must report the prior completed state")
	}
}

func TestProgressUpsert_ConcurrentCompletionObservedOnce(t *testing.T) {
	s := NewInMemoryProgressStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	var transitions int64
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec, wasCompleted, err := s.Upsert(ctx, "emp-1", "vid-1", 95, 100)
			if err != nil {
				t.Errorf("upsert: %v", err)
				return
			}
			if rec.Completed && !wasCompleted {
				atomic.AddInt64(&transitions, 1)
			}
		}()
	}
	wg.Wait()

	if transitions != 1 {
		t.Fatalf("expected exactly one observed completion transition, got %d", transitions)
	}
}

func TestProgressGet_AbsentIsNotFound(t *testing.T) {
	s := NewInMemoryProgressStore()

	_, err := s.Get(context.Background(), "emp-1", "vid-never-watched")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestProgressGetMany_OmitsAbsent(t *testing.T) {
	s := NewInMemoryProgressStore()
	ctx := context.Background()

	if _, _, err := s.Upsert(ctx, "emp-1", "vid-1", 30, 100); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := s.GetMany(ctx, "emp-1", []string{"vid-1", "vid-2"})
	if err != nil {
		t.Fatalf("get many: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
	if _, ok := got["vid-2"]; ok {
		t.Fatal("expected vid-2 to be absent")
	}
	if got["vid-1"].LastPosition != 30 {
		t.Fatalf("expected position 30, got %d", got["vid-1"].LastPosition)
	}
}

func TestProgressGetMany_ScopedToUser(t *testing.T) {
	s := NewInMemoryProgressStore()
	ctx := context.Background()

	if _, _, err := s.Upsert(ctx, "emp-2", "vid-1", 50, 100); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := s.GetMany(ctx, "emp-1", []string{"vid-1"})
	if err != nil {
		t.Fatalf("get many: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no records for other user, got %d", len(got))
	}
}

func TestProgressUpsert_ConcurrentSameKey(t *testing.T) {
	s := NewInMemoryProgressStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(pos int) {
			defer wg.Done()
			if _, _, err := s.Upsert(ctx, "emp-1", "vid-1", pos, 100); err != nil {
				t.Errorf("upsert: %v", err)
			}
		}(i)
	}
	wg.Wait()

	rec, err := s.Get(ctx, "emp-1", "vid-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	// Whichever write applied last, the record must be internally consistent.
	if rec.Duration != 100 {
		t.Fatalf("expected duration 100, got %d", rec.Duration)
	}
	if rec.LastPosition < 0 || rec.LastPosition > rec.Duration {
		t.Fatalf("position out of range: %d", rec.LastPosition)
	}
	wantCompleted := float64(rec.LastPosition)/float64(rec.Duration) >= 0.9
	if rec.Completed != wantCompleted {
		t.Fatalf("completed flag out of sync with position %d", rec.LastPosition)
	}
}
