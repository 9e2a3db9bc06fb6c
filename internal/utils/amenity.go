package utils

import (
	"strings"
)

// AmenityField identifies one of the six boolean amenity flags on a property
type AmenityField string

const (
	AmenityInternet  AmenityField = "has_internet"
	AmenityPets      AmenityField = "allows_pets"
	AmenityFurnished AmenityField = "is_furnished"
	AmenityAC        AmenityField = "has_ac"
	AmenitySecure    AmenityField = "is_secure"
	AmenityParking   AmenityField = "has_parking"
)

// canonical preference labels as they appear in stored preference orders
var preferenceLabels = map[string]AmenityField{
	"internet availability": AmenityInternet,
	"pet friendly":          AmenityPets,
	"furnished":             AmenityFurnished,
	"air conditioned":       AmenityAC,
	"gated/with cctv":       AmenitySecure,
	"parking":               AmenityParking,
}

// aliases tolerated in free-form preference labels, checked in order so
// resolution stays deterministic
var preferenceAliases = []struct {
	field    AmenityField
	variants []string
}{
	{AmenityInternet, []string{"internet", "wifi", "wi-fi"}},
	{AmenityPets, []string{"pet"}},
	{AmenityFurnished, []string{"furnish"}},
	{AmenityAC, []string{"aircon", "air con", "air conditioner", "air conditioning", "a/c"}},
	{AmenitySecure, []string{"secure", "security", "gated", "cctv"}},
	{AmenityParking, []string{"parking", "car park", "garage"}},
}

// MatchPreferenceLabel resolves a user preference label to the amenity
// field it ranks. Exact canonical labels match first, then common aliases.
// Returns false for labels that name no known amenity.
func MatchPreferenceLabel(label string) (AmenityField, bool) {
	normalized := strings.ToLower(strings.TrimSpace(label))
	if normalized == "" {
		return "", false
	}

	if field, ok := preferenceLabels[normalized]; ok {
		return field, true
	}

	for _, alias := range preferenceAliases {
		for _, variant := range alias.variants {
			if strings.Contains(normalized, variant) {
				return alias.field, true
			}
		}
	}

	return "", false
}
