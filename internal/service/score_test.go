package service

import (
	"testing"

	"homematch/internal/model"
)

func boolPtr(v bool) *bool { return &v }

var fullPreferenceOrder = []string{
	"Internet Availability",
	"Pet Friendly",
	"Furnished",
	"Air Conditioned",
	"Gated/With CCTV",
	"Parking",
}

func propertyWithAllAmenities(v bool) *model.Property {
	return &model.Property{
		PropertyID:  1,
		Title:       "Test unit",
		Category:    model.CategoryRoom,
		City:        "Dumaguete City",
		Rent:        4000,
		HasInternet: boolPtr(v),
		AllowsPets:  boolPtr(v),
		IsFurnished: boolPtr(v),
		HasAC:       boolPtr(v),
		IsSecure:    boolPtr(v),
		HasParking:  boolPtr(v),
	}
}

func TestAmenityScoreBounds(t *testing.T) {
	// Hand-computed extremes for a full 6-item order:
	// all present: 10+8+6+2+2+2 = 28, all absent: -6-6-2+0+0+0 = -14
	allPresent := AmenityScore(propertyWithAllAmenities(true), fullPreferenceOrder)
	if allPresent != 28 {
		t.Errorf("all-present score = %d, want 28", allPresent)
	}

	allAbsent := AmenityScore(propertyWithAllAmenities(false), fullPreferenceOrder)
	if allAbsent != -14 {
		t.Errorf("all-absent score = %d, want -14", allAbsent)
	}
}

func TestAmenityScoreDeterminism(t *testing.T) {
	p := propertyWithAllAmenities(true)
	p.AllowsPets = boolPtr(false)
	p.HasParking = nil

	first := AmenityScore(p, fullPreferenceOrder)
	for i := 0; i < 10; i++ {
		if got := AmenityScore(p, fullPreferenceOrder); got != first {
			t.Fatalf("score changed between calls: %d then %d", first, got)
		}
	}
}

func TestAmenityScoreWeightTable(t *testing.T) {
	prefs := []string{"Internet Availability", "Parking"}

	// Internet present at rank 0, parking absent at rank 1
	a := &model.Property{PropertyID: 1, HasInternet: boolPtr(true), HasParking: boolPtr(false)}
	if got := AmenityScore(a, prefs); got != 10-6 {
		t.Errorf("score(A) = %d, want 4", got)
	}

	// Internet absent at rank 0, parking present at rank 1
	b := &model.Property{PropertyID: 2, HasInternet: boolPtr(false), HasParking: boolPtr(true)}
	if got := AmenityScore(b, prefs); got != -6+8 {
		t.Errorf("score(B) = %d, want 2", got)
	}

	if AmenityScore(a, prefs) <= AmenityScore(b, prefs) {
		t.Error("A should outrank B under the weight table")
	}
}

func TestAmenityScoreNilFlagCountsAsAbsent(t *testing.T) {
	p := &model.Property{PropertyID: 1} // every flag nil
	if got := AmenityScore(p, []string{"Internet Availability"}); got != -6 {
		t.Errorf("nil flag score = %d, want -6", got)
	}
}

func TestAmenityScoreEmptyOrder(t *testing.T) {
	p := propertyWithAllAmenities(true)
	if got := AmenityScore(p, nil); got != 0 {
		t.Errorf("score with no preferences = %d, want 0", got)
	}
}

func TestAmenityScoreUnknownLabelConsumesRank(t *testing.T) {
	// An unrecognized label contributes nothing but still holds its rank,
	// so a known label behind it scores at its own position.
	p := &model.Property{PropertyID: 1, HasInternet: boolPtr(true)}
	if got := AmenityScore(p, []string{"Swimming Pool", "Internet Availability"}); got != 8 {
		t.Errorf("score = %d, want 8 (internet at rank 1)", got)
	}
}

func TestAmenityScoreDuplicateLabelCountsOnce(t *testing.T) {
	p := &model.Property{PropertyID: 1, HasInternet: boolPtr(true)}
	once := AmenityScore(p, []string{"Internet Availability"})
	twice := AmenityScore(p, []string{"Internet Availability", "Internet Availability"})
	if once != twice {
		t.Errorf("duplicate label changed score: %d vs %d", once, twice)
	}
}
