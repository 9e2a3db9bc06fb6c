package service

import (
	"homematch/internal/model"
)

// QueueState labels where a queue is in its disclosure lifecycle
type QueueState string

const (
	QueueEmpty          QueueState = "empty"
	QueueLoaded         QueueState = "loaded"
	QueuePartiallyShown QueueState = "partially_shown"
	QueueExhausted      QueueState = "exhausted"
)

// RecommendationQueue holds the ranked candidates for the current session
// and tracks disclosure. The shown set lives for one queue generation; the
// rejected set lives for the whole session and survives SetQueue. A session
// reset abandons the queue object wholesale rather than clearing it, so a
// turn that still holds the old pointer cannot touch the fresh session's
// state. Every operation is total: unknown ids, empty queues and repeated
// calls are no-ops or return nil, never failures.
type RecommendationQueue struct {
	candidates []model.ScoredProperty
	shown      map[int64]bool
	rejected   map[int64]bool
	current    *int64
}

// NewRecommendationQueue creates an empty queue
func NewRecommendationQueue() *RecommendationQueue {
	return &RecommendationQueue{
		shown:    make(map[int64]bool),
		rejected: make(map[int64]bool),
	}
}

// SetQueue replaces the queue with a fresh ranking. Clears the shown set
// and the current pointer; the rejected set is untouched.
func (q *RecommendationQueue) SetQueue(candidates []model.ScoredProperty) {
	q.candidates = candidates
	q.shown = make(map[int64]bool)
	q.current = nil
}

// Next returns the first candidate not yet shown, or nil when the queue is
// exhausted. Does not mutate any set; callers follow up with MarkShown.
func (q *RecommendationQueue) Next() *model.ScoredProperty {
	for i := range q.candidates {
		if !q.shown[q.candidates[i].PropertyID] {
			return &q.candidates[i]
		}
	}
	return nil
}

// MarkShown records a candidate as disclosed and makes it current.
// Idempotent.
func (q *RecommendationQueue) MarkShown(propertyID int64) {
	q.shown[propertyID] = true
	id := propertyID
	q.current = &id
}

// Reject adds the id to the session-scoped rejected set, marks it shown,
// and returns the next undisclosed candidate (nil when none remain).
// Idempotent on the rejected set.
func (q *RecommendationQueue) Reject(propertyID int64) *model.ScoredProperty {
	q.rejected[propertyID] = true
	q.shown[propertyID] = true
	return q.Next()
}

// HasMore reports whether an undisclosed candidate remains
func (q *RecommendationQueue) HasMore() bool {
	return q.Next() != nil
}

// Current returns the id of the most recently disclosed candidate, or nil
func (q *RecommendationQueue) Current() *int64 {
	return q.current
}

// ExcludedIDs returns the session's rejected ids, for feeding back into
// ranking requests
func (q *RecommendationQueue) ExcludedIDs() []int64 {
	ids := make([]int64, 0, len(q.rejected))
	for id := range q.rejected {
		ids = append(ids, id)
	}
	return ids
}

// IsRejected reports whether an id is in the session's rejected set
func (q *RecommendationQueue) IsRejected(propertyID int64) bool {
	return q.rejected[propertyID]
}

// State derives the queue's lifecycle state
func (q *RecommendationQueue) State() QueueState {
	if len(q.candidates) == 0 {
		return QueueEmpty
	}
	shownCount := 0
	for i := range q.candidates {
		if q.shown[q.candidates[i].PropertyID] {
			shownCount++
		}
	}
	switch {
	case shownCount == 0:
		return QueueLoaded
	case shownCount < len(q.candidates):
		return QueuePartiallyShown
	default:
		return QueueExhausted
	}
}
