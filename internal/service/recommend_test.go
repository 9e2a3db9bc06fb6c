package service

import (
	"context"
	"testing"

	"homematch/internal/config"
	"homematch/internal/model"
)

func strPtr(s string) *string                          { return &s }
func catPtr(c model.PropertyCategory) *model.PropertyCategory { return &c }

func testRecommendConfig() config.RecommendConfig {
	return config.RecommendConfig{TopN: 3, DistanceMinKm: 2, DistanceMaxKm: 5}
}

// fakeListingSource serves a fixed pool without a database
type fakeListingSource struct {
	pool    []model.Property
	userCtx *model.UserContext
}

func (f *fakeListingSource) ListAvailableProperties(ctx context.Context) ([]model.Property, error) {
	return f.pool, nil
}

func (f *fakeListingSource) GetPropertyByID(ctx context.Context, id int64) (*model.Property, error) {
	for i := range f.pool {
		if f.pool[i].PropertyID == id {
			return &f.pool[i], nil
		}
	}
	return nil, nil
}

func (f *fakeListingSource) GetUserContext(ctx context.Context, userID int64) (*model.UserContext, error) {
	return f.userCtx, nil
}

func rentPool(rents map[int64]int) []model.Property {
	var pool []model.Property
	for id, rent := range rents {
		pool = append(pool, model.Property{PropertyID: id, Rent: rent, Category: model.CategoryRoom})
	}
	return pool
}

func TestWithinPriceRange(t *testing.T) {
	tests := []struct {
		name  string
		rent  int
		budget *string
		want  bool
	}{
		{"Range includes rent", 4500, strPtr("3000-5000"), true},
		{"Range with spaces", 4500, strPtr("3000 - 5000"), true},
		{"Range excludes rent above", 5200, strPtr("3000-5000"), false},
		{"Range excludes rent below", 2500, strPtr("3000-5000"), false},
		{"Range inclusive at bounds", 5000, strPtr("3000-5000"), true},
		{"Under keeps cheap", 4000, strPtr("under 5000"), true},
		{"Under drops expensive", 6000, strPtr("under 5000"), false},
		{"Plus keeps expensive", 6000, strPtr("5000+"), true},
		{"Plus drops cheap", 4000, strPtr("5000+"), false},
		{"Above keeps expensive", 6000, strPtr("above 5000"), true},
		{"Nil budget keeps all", 9999, nil, true},
		{"Empty budget keeps all", 9999, strPtr("  "), true},
		{"Unparsable budget keeps all", 9999, strPtr("whatever fits"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := withinPriceRange(tt.rent, tt.budget); got != tt.want {
				t.Errorf("withinPriceRange(%d, %v) = %v, want %v", tt.rent, tt.budget, got, tt.want)
			}
		})
	}
}

func TestRankPriceFilterScenario(t *testing.T) {
	r := NewRecommender(nil, nil, testRecommendConfig())
	userCtx := &model.UserContext{PriceRange: strPtr("3000-5000")}

	pool := []model.Property{
		{PropertyID: 1, Rent: 4500, Category: model.CategoryRoom},
		{PropertyID: 2, Rent: 5200, Category: model.CategoryRoom},
	}

	results := r.Rank(pool, model.PriorityPrice, userCtx, nil)
	if len(results) != 1 || results[0].PropertyID != 1 {
		t.Fatalf("expected only property 1 to survive, got %+v", results)
	}
}

func TestRankTopNCap(t *testing.T) {
	r := NewRecommender(nil, nil, testRecommendConfig())

	pool := rentPool(map[int64]int{1: 3000, 2: 3500, 3: 4000, 4: 4500, 5: 5000})
	results := r.Rank(pool, model.PriorityPrice, &model.UserContext{}, nil)
	if len(results) != 3 {
		t.Errorf("rank returned %d entries, want 3", len(results))
	}

	// Fewer survivors than the cap: return them all
	small := rentPool(map[int64]int{1: 3000, 2: 3500})
	results = r.Rank(small, model.PriorityPrice, &model.UserContext{}, nil)
	if len(results) != 2 {
		t.Errorf("rank returned %d entries, want 2", len(results))
	}
}

func TestRankExcludesRejected(t *testing.T) {
	r := NewRecommender(nil, nil, testRecommendConfig())

	pool := rentPool(map[int64]int{1: 3000, 2: 3500, 3: 4000})
	results := r.Rank(pool, model.PriorityPrice, &model.UserContext{}, []int64{2})
	for _, res := range results {
		if res.PropertyID == 2 {
			t.Fatal("excluded property 2 appeared in ranking")
		}
	}
	if len(results) != 2 {
		t.Errorf("rank returned %d entries, want 2", len(results))
	}
}

func TestRankScoreOrderingWithScenario(t *testing.T) {
	r := NewRecommender(nil, nil, testRecommendConfig())
	userCtx := &model.UserContext{
		Preferences: model.StringArray{"Internet Availability", "Parking"},
	}

	pool := []model.Property{
		{PropertyID: 1, Rent: 4000, HasInternet: boolPtr(false), HasParking: boolPtr(true)},  // -6+8 = 2
		{PropertyID: 2, Rent: 4000, HasInternet: boolPtr(true), HasParking: boolPtr(false)},  // 10-6 = 4
		{PropertyID: 3, Rent: 4000, HasInternet: boolPtr(false), HasParking: boolPtr(false)}, // -6-6 = -12
		{PropertyID: 4, Rent: 4000, HasInternet: boolPtr(true), HasParking: boolPtr(true)},   // 10+8 = 18
		{PropertyID: 5, Rent: 4000},                                                          // nil flags: -12
	}

	results := r.Rank(pool, model.PriorityPrice, userCtx, nil)
	if len(results) != 3 {
		t.Fatalf("rank returned %d entries, want 3", len(results))
	}
	if results[0].PropertyID != 4 || results[1].PropertyID != 2 || results[2].PropertyID != 1 {
		t.Errorf("order = [%d %d %d], want [4 2 1]",
			results[0].PropertyID, results[1].PropertyID, results[2].PropertyID)
	}
	if results[0].AmenityScore != 18 {
		t.Errorf("top score = %d, want 18", results[0].AmenityScore)
	}
}

func TestRankTieBreaksByAscendingID(t *testing.T) {
	r := NewRecommender(nil, nil, testRecommendConfig())

	// Identical amenity profiles, so identical scores
	pool := []model.Property{
		{PropertyID: 9, Rent: 4000},
		{PropertyID: 3, Rent: 4000},
		{PropertyID: 6, Rent: 4000},
	}

	results := r.Rank(pool, model.PriorityPrice, &model.UserContext{}, nil)
	if results[0].PropertyID != 3 || results[1].PropertyID != 6 || results[2].PropertyID != 9 {
		t.Errorf("tie order = [%d %d %d], want [3 6 9]",
			results[0].PropertyID, results[1].PropertyID, results[2].PropertyID)
	}
}

func TestRankDistanceFilter(t *testing.T) {
	r := NewRecommender(nil, nil, testRecommendConfig())

	// Reference point at Silliman University; ~0.03 degrees of longitude is
	// about 3.3 km at this latitude.
	userCtx := &model.UserContext{PlaceOfWorkStudy: strPtr("9.3103,123.3054")}

	pool := []model.Property{
		{PropertyID: 1, Coordinates: strPtr("9.3103,123.3354")}, // ~3.3 km: in band
		{PropertyID: 2, Coordinates: strPtr("9.3103,123.3084")}, // ~0.3 km: too close
		{PropertyID: 3, Coordinates: strPtr("9.3103,123.4054")}, // ~11 km: too far
		{PropertyID: 4, Coordinates: strPtr("not coordinates")}, // unparsable: excluded
		{PropertyID: 5},                                         // no coordinates: excluded
	}

	results := r.Rank(pool, model.PriorityDistance, userCtx, nil)
	if len(results) != 1 || results[0].PropertyID != 1 {
		t.Fatalf("expected only property 1 in the 2-5 km band, got %+v", results)
	}
	if results[0].DistanceLabel == "Distance unavailable" {
		t.Error("surviving property should carry a formatted distance label")
	}
}

func TestRankDistanceWithoutLocationIsEmpty(t *testing.T) {
	r := NewRecommender(nil, nil, testRecommendConfig())

	pool := []model.Property{
		{PropertyID: 1, Coordinates: strPtr("9.3103,123.3354")},
	}

	results := r.Rank(pool, model.PriorityDistance, &model.UserContext{}, nil)
	if len(results) != 0 {
		t.Errorf("distance priority without a location should yield nothing, got %+v", results)
	}
}

func TestRankRoomTypeFilter(t *testing.T) {
	r := NewRecommender(nil, nil, testRecommendConfig())
	userCtx := &model.UserContext{RoomPreference: catPtr(model.CategoryApartment)}

	pool := []model.Property{
		{PropertyID: 1, Category: model.CategoryApartment},
		{PropertyID: 2, Category: model.CategoryRoom},
		{PropertyID: 3, Category: model.CategoryBedspace},
	}

	results := r.Rank(pool, model.PriorityRoomType, userCtx, nil)
	if len(results) != 1 || results[0].PropertyID != 1 {
		t.Fatalf("expected only the apartment, got %+v", results)
	}

	// No preferred category: nothing can match
	if got := r.Rank(pool, model.PriorityRoomType, &model.UserContext{}, nil); len(got) != 0 {
		t.Errorf("room_type without a preference should yield nothing, got %+v", got)
	}
}

func TestRecommendUsesSourceAndExclusion(t *testing.T) {
	source := &fakeListingSource{
		pool:    rentPool(map[int64]int{1: 3000, 2: 3500, 3: 4000, 4: 4200}),
		userCtx: &model.UserContext{PriceRange: strPtr("under 5000")},
	}
	r := NewRecommender(source, nil, testRecommendConfig())

	results, err := r.Recommend(context.Background(), 42, model.PriorityPrice, []int64{1, 3})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	for _, res := range results {
		if res.PropertyID == 1 || res.PropertyID == 3 {
			t.Fatalf("excluded property %d appeared in results", res.PropertyID)
		}
	}
	if len(results) != 2 {
		t.Errorf("got %d results, want 2", len(results))
	}
}

func TestRecommendEmptyPoolIsNotAnError(t *testing.T) {
	source := &fakeListingSource{userCtx: &model.UserContext{}}
	r := NewRecommender(source, nil, testRecommendConfig())

	results, err := r.Recommend(context.Background(), 42, model.PriorityPrice, nil)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
}
