package service

import (
	"testing"

	"homematch/internal/model"
)

func scored(ids ...int64) []model.ScoredProperty {
	out := make([]model.ScoredProperty, len(ids))
	for i, id := range ids {
		out[i] = model.ScoredProperty{
			Property: model.Property{PropertyID: id, Title: "Unit", City: "Dumaguete City"},
		}
	}
	return out
}

func TestQueueLifecycleStates(t *testing.T) {
	q := NewRecommendationQueue()
	if q.State() != QueueEmpty {
		t.Fatalf("new queue state = %s, want empty", q.State())
	}

	q.SetQueue(scored(1, 2, 3))
	if q.State() != QueueLoaded {
		t.Errorf("state after SetQueue = %s, want loaded", q.State())
	}

	q.MarkShown(1)
	if q.State() != QueuePartiallyShown {
		t.Errorf("state after one shown = %s, want partially_shown", q.State())
	}

	q.MarkShown(2)
	q.MarkShown(3)
	if q.State() != QueueExhausted {
		t.Errorf("state after all shown = %s, want exhausted", q.State())
	}
}

func TestQueueNoDuplicateDisclosure(t *testing.T) {
	q := NewRecommendationQueue()
	q.SetQueue(scored(10, 20, 30))

	seen := make(map[int64]bool)
	for {
		next := q.Next()
		if next == nil {
			break
		}
		if seen[next.PropertyID] {
			t.Fatalf("property %d returned twice within one queue generation", next.PropertyID)
		}
		seen[next.PropertyID] = true
		q.MarkShown(next.PropertyID)
	}

	if len(seen) != 3 {
		t.Errorf("disclosed %d properties, want 3", len(seen))
	}
}

func TestQueueNextDoesNotMutate(t *testing.T) {
	q := NewRecommendationQueue()
	q.SetQueue(scored(1, 2))

	first := q.Next()
	second := q.Next()
	if first == nil || second == nil || first.PropertyID != second.PropertyID {
		t.Error("Next without MarkShown should keep returning the same candidate")
	}
}

func TestQueueRejectAdvances(t *testing.T) {
	q := NewRecommendationQueue()
	q.SetQueue(scored(1, 2, 3))

	next := q.Reject(1)
	if next == nil || next.PropertyID != 2 {
		t.Fatalf("Reject(1) returned %v, want property 2", next)
	}
	if !q.IsRejected(1) {
		t.Error("property 1 should be in the rejected set")
	}
}

func TestQueueIdempotentRejection(t *testing.T) {
	q := NewRecommendationQueue()
	q.SetQueue(scored(1, 2))

	first := q.Reject(1)
	second := q.Reject(1)

	if first == nil || second == nil || first.PropertyID != second.PropertyID {
		t.Error("repeated Reject should still advance to the same next candidate")
	}
	if len(q.ExcludedIDs()) != 1 {
		t.Errorf("rejected set size = %d, want 1", len(q.ExcludedIDs()))
	}
}

func TestQueueRejectedSurvivesSetQueue(t *testing.T) {
	q := NewRecommendationQueue()
	q.SetQueue(scored(1, 2, 3))
	q.Reject(2)

	q.SetQueue(scored(4, 5))
	if !q.IsRejected(2) {
		t.Error("rejected set should survive SetQueue")
	}
	if q.State() != QueueLoaded {
		t.Errorf("state after fresh SetQueue = %s, want loaded", q.State())
	}
	if q.Current() != nil {
		t.Error("current pointer should clear on SetQueue")
	}
}

func TestQueueEmptyAndUnknownAreNoOps(t *testing.T) {
	q := NewRecommendationQueue()

	if q.Next() != nil {
		t.Error("Next on empty queue should be nil")
	}
	if q.HasMore() {
		t.Error("HasMore on empty queue should be false")
	}

	// Unknown id: no panic, no phantom state
	q.MarkShown(99)
	if next := q.Reject(98); next != nil {
		t.Errorf("Reject on empty queue returned %v, want nil", next)
	}
}

func TestQueueCurrentTracksMarkShown(t *testing.T) {
	q := NewRecommendationQueue()
	q.SetQueue(scored(7, 8))

	q.MarkShown(7)
	if cur := q.Current(); cur == nil || *cur != 7 {
		t.Errorf("Current() = %v, want 7", cur)
	}
}
