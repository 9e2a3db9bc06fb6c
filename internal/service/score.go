package service

import (
	"homematch/internal/model"
	"homematch/internal/utils"
)

// Amenity weight table by preference rank. The first three preferences are
// must-haves and an absent amenity costs points; the rest are nice-to-haves.
const (
	rank0Present = 10
	rank0Absent  = -6
	rank1Present = 8
	rank1Absent  = -6
	rank2Present = 6
	rank2Absent  = -2
	rankNPresent = 2
	rankNAbsent  = 0
)

// AmenityScore computes the amenity affinity score for a property against
// an ordered preference list. Pure and total: every well-formed input maps
// to exactly one integer, a nil amenity flag counts as absent, and labels
// that name no known amenity contribute nothing. When a label occurs more
// than once only its first (highest) rank counts.
func AmenityScore(p *model.Property, preferences []string) int {
	score := 0
	seen := make(map[utils.AmenityField]bool, len(preferences))

	for rank, label := range preferences {
		field, ok := utils.MatchPreferenceLabel(label)
		if !ok || seen[field] {
			continue
		}
		seen[field] = true

		present := amenityPresent(p, field)
		switch rank {
		case 0:
			score += pick(present, rank0Present, rank0Absent)
		case 1:
			score += pick(present, rank1Present, rank1Absent)
		case 2:
			score += pick(present, rank2Present, rank2Absent)
		default:
			score += pick(present, rankNPresent, rankNAbsent)
		}
	}

	return score
}

func amenityPresent(p *model.Property, field utils.AmenityField) bool {
	var flag *bool
	switch field {
	case utils.AmenityInternet:
		flag = p.HasInternet
	case utils.AmenityPets:
		flag = p.AllowsPets
	case utils.AmenityFurnished:
		flag = p.IsFurnished
	case utils.AmenityAC:
		flag = p.HasAC
	case utils.AmenitySecure:
		flag = p.IsSecure
	case utils.AmenityParking:
		flag = p.HasParking
	}
	return flag != nil && *flag
}

func pick(present bool, ifPresent, ifAbsent int) int {
	if present {
		return ifPresent
	}
	return ifAbsent
}
