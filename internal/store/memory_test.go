package store

import (
	"context"
	"testing"
	"time"

	"github.com/tapedeck/api/internal/model"
)

func TestMemoryStore_JobLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)

	if _, err := s.GetJob(ctx, "missing", model.StyleDilla); err != ErrNotFound {
		t.Fatalf("got %v, want ErrNotFound", err)
	}

	job := &model.Job{
		TaskID:    "task-1",
		Style:     model.StyleDilla,
		Status:    model.JobStatusPending,
		CreatedAt: time.Now(),
	}
	if err := s.SaveJob(ctx, job); err != nil {
		t.Fatalf("SaveJob failed: %v", err)
	}

	got, err := s.GetJob(ctx, "task-1", model.StyleDilla)
	if err != nil {
		t.Fatalf("GetJob failed: %v", err)
	}
	if got.Status != model.JobStatusPending {
		t.Errorf("status = %s, want pending", got.Status)
	}

	// The same taskID under a different style is a distinct key.
	if _, err := s.GetJob(ctx, "task-1", model.StyleAlbini); err != ErrNotFound {
		t.Errorf("got %v, want ErrNotFound for sibling style", err)
	}

	// Mutating the returned copy must not leak into the store.
	got.Status = model.JobStatusFailed
	again, _ := s.GetJob(ctx, "task-1", model.StyleDilla)
	if again.Status != model.JobStatusPending {
		t.Error("store leaked a mutable job reference")
	}
}

func TestMemoryStore_SourceAndResult(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)

	if err := s.SaveSource(ctx, "task-1", []byte("source-bytes")); err != nil {
		t.Fatalf("SaveSource failed: %v", err)
	}
	src, err := s.GetSource(ctx, "task-1")
	if err != nil || string(src) != "source-bytes" {
		t.Fatalf("GetSource = %q, %v", src, err)
	}

	if err := s.SaveResult(ctx, "task-1", model.StyleBurns, []byte("wav-bytes")); err != nil {
		t.Fatalf("SaveResult failed: %v", err)
	}
	res, err := s.GetResult(ctx, "task-1", model.StyleBurns)
	if err != nil || string(res) != "wav-bytes" {
		t.Fatalf("GetResult = %q, %v", res, err)
	}
	if _, err := s.GetResult(ctx, "task-1", model.StyleDilla); err != ErrNotFound {
		t.Errorf("got %v, want ErrNotFound for unwritten style", err)
	}
}

func TestMemoryStore_Retention(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)

	current := time.Now()
	s.now = func() time.Time { return current }

	job := &model.Job{TaskID: "task-1", Style: model.StyleDilla, Status: model.JobStatusComplete}
	if err := s.SaveJob(ctx, job); err != nil {
		t.Fatalf("SaveJob failed: %v", err)
	}

	current = current.Add(2 * time.Minute)
	if _, err := s.GetJob(ctx, "task-1", model.StyleDilla); err != ErrNotFound {
		t.Errorf("got %v, want ErrNotFound after retention window", err)
	}
}
