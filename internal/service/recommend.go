package service

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"homematch/internal/config"
	"homematch/internal/model"
	"homematch/internal/utils"
)

// ListingSource supplies the candidate pool and per-user context. The
// listing store itself is an external collaborator; this core only reads.
type ListingSource interface {
	ListAvailableProperties(ctx context.Context) ([]model.Property, error)
	GetPropertyByID(ctx context.Context, propertyID int64) (*model.Property, error)
	GetUserContext(ctx context.Context, userID int64) (*model.UserContext, error)
}

// RecommendationLogger records ranking requests for diagnostics
type RecommendationLogger interface {
	LogRecommendation(ctx context.Context, userID int64, priority model.RecommendPriority, resultCount int, propertyIDs []int64, responseTimeMs int) error
}

// Recommender applies one hard filter, scores survivors and returns the
// ranked top-N
type Recommender struct {
	source ListingSource
	logger RecommendationLogger
	cfg    config.RecommendConfig
}

// NewRecommender creates a new recommender. logger may be nil.
func NewRecommender(source ListingSource, logger RecommendationLogger, cfg config.RecommendConfig) *Recommender {
	return &Recommender{
		source: source,
		logger: logger,
		cfg:    cfg,
	}
}

// Recommend fetches the candidate pool and the user's context, then ranks.
// An empty result is a normal outcome, not an error.
func (r *Recommender) Recommend(ctx context.Context, userID int64, priority model.RecommendPriority, excluded []int64) ([]model.ScoredProperty, error) {
	startTime := time.Now()

	userCtx, err := r.source.GetUserContext(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user context: %w", err)
	}
	if userCtx == nil {
		userCtx = &model.UserContext{}
	}

	pool, err := r.source.ListAvailableProperties(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate pool: %w", err)
	}

	results := r.Rank(pool, priority, userCtx, excluded)

	took := time.Since(startTime).Milliseconds()

	// Log ranking (non-blocking)
	if r.logger != nil {
		propertyIDs := make([]int64, len(results))
		for i, res := range results {
			propertyIDs[i] = res.PropertyID
		}
		go func() {
			_ = r.logger.LogRecommendation(context.Background(), userID, priority, len(results), propertyIDs, int(took))
		}()
	}

	return results, nil
}

// Rank applies the exclusion set, one hard filter selected by priority,
// scores and labels the survivors, and returns at most TopN entries sorted
// by amenity score descending with ties broken by ascending property id.
// Pure over its inputs; never fails.
func (r *Recommender) Rank(listings []model.Property, priority model.RecommendPriority, userCtx *model.UserContext, excluded []int64) []model.ScoredProperty {
	if userCtx == nil {
		userCtx = &model.UserContext{}
	}

	excludedSet := make(map[int64]bool, len(excluded))
	for _, id := range excluded {
		excludedSet[id] = true
	}

	var survivors []model.Property
	for _, p := range listings {
		if excludedSet[p.PropertyID] {
			continue
		}
		if r.passesFilter(&p, priority, userCtx) {
			survivors = append(survivors, p)
		}
	}

	if len(survivors) == 0 {
		return []model.ScoredProperty{}
	}

	results := make([]model.ScoredProperty, 0, len(survivors))
	for _, p := range survivors {
		results = append(results, model.ScoredProperty{
			Property:      p,
			AmenityScore:  AmenityScore(&p, userCtx.Preferences),
			DistanceLabel: distanceLabel(&p, userCtx),
		})
	}

	// Amenity score is the only ranking factor; the id tie-break keeps the
	// ordering total and deterministic.
	sort.Slice(results, func(i, j int) bool {
		if results[i].AmenityScore != results[j].AmenityScore {
			return results[i].AmenityScore > results[j].AmenityScore
		}
		return results[i].PropertyID < results[j].PropertyID
	})

	if len(results) > r.cfg.TopN {
		results = results[:r.cfg.TopN]
	}
	return results
}

// passesFilter applies exactly one hard filter selected by priority
func (r *Recommender) passesFilter(p *model.Property, priority model.RecommendPriority, userCtx *model.UserContext) bool {
	switch priority {
	case model.PriorityDistance:
		// No reference location means no listing can qualify. Callers are
		// expected to gate the distance priority on a known location, but a
		// missing one degrades to an empty result rather than a failure.
		if userCtx.PlaceOfWorkStudy == nil || p.Coordinates == nil {
			return false
		}
		d := utils.DistanceBetween(*p.Coordinates, *userCtx.PlaceOfWorkStudy)
		return d != nil && *d >= r.cfg.DistanceMinKm && *d <= r.cfg.DistanceMaxKm

	case model.PriorityPrice:
		return withinPriceRange(p.Rent, userCtx.PriceRange)

	case model.PriorityRoomType:
		return userCtx.RoomPreference != nil && p.Category == *userCtx.RoomPreference

	default:
		return false
	}
}

var budgetRangePattern = regexp.MustCompile(`(\d+)\s*-\s*(\d+)`)
var budgetNumberPattern = regexp.MustCompile(`\d+`)

// withinPriceRange checks a rent against a free-form budget string:
// "under 5000", "3000+", "above 3000" or "3000-5000", bounds inclusive.
// An absent or unparsable budget keeps the listing (permissive fallback,
// unlike the distance filter which excludes on missing data).
func withinPriceRange(rent int, priceRange *string) bool {
	if priceRange == nil || strings.TrimSpace(*priceRange) == "" {
		return true
	}

	r := strings.ToLower(*priceRange)

	if strings.Contains(r, "under") {
		if m := budgetNumberPattern.FindString(r); m != "" {
			max, _ := strconv.Atoi(m)
			return rent <= max
		}
	}

	if strings.Contains(r, "+") || strings.Contains(r, "above") {
		if m := budgetNumberPattern.FindString(r); m != "" {
			min, _ := strconv.Atoi(m)
			return rent >= min
		}
	}

	if m := budgetRangePattern.FindStringSubmatch(r); m != nil {
		min, _ := strconv.Atoi(m[1])
		max, _ := strconv.Atoi(m[2])
		return rent >= min && rent <= max
	}

	log.Printf("Warning: unparsable price range %q, keeping listing", *priceRange)
	return true
}

// distanceLabel renders the listing's distance to the user's reference
// location for display
func distanceLabel(p *model.Property, userCtx *model.UserContext) string {
	if p.Coordinates == nil || userCtx.PlaceOfWorkStudy == nil {
		return "Distance unavailable"
	}
	d := utils.DistanceBetween(*p.Coordinates, *userCtx.PlaceOfWorkStudy)
	if d == nil {
		return "Distance unavailable"
	}
	return utils.FormatDistance(d) + " away"
}

// GetProperty retrieves a single property by id
func (r *Recommender) GetProperty(ctx context.Context, propertyID int64) (*model.Property, error) {
	return r.source.GetPropertyByID(ctx, propertyID)
}
