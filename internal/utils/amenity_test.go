package utils

import "testing"

func TestMatchPreferenceLabel(t *testing.T) {
	tests := []struct {
		name      string
		label     string
		wantField AmenityField
		wantOK    bool
	}{
		{"Canonical internet label", "Internet Availability", AmenityInternet, true},
		{"Canonical pet label", "Pet Friendly", AmenityPets, true},
		{"Canonical furnished label", "Furnished", AmenityFurnished, true},
		{"Canonical aircon label", "Air Conditioned", AmenityAC, true},
		{"Canonical security label", "Gated/With CCTV", AmenitySecure, true},
		{"Canonical parking label", "Parking", AmenityParking, true},
		{"Wifi alias", "wifi", AmenityInternet, true},
		{"CCTV alias", "has cctv", AmenitySecure, true},
		{"Aircon alias", "aircon", AmenityAC, true},
		{"Garage alias", "garage space", AmenityParking, true},
		{"Unknown label", "swimming pool", "", false},
		{"Empty label", "", "", false},
		{"Whitespace label", "   ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field, ok := MatchPreferenceLabel(tt.label)
			if ok != tt.wantOK {
				t.Fatalf("MatchPreferenceLabel(%q) ok = %v, want %v", tt.label, ok, tt.wantOK)
			}
			if field != tt.wantField {
				t.Errorf("MatchPreferenceLabel(%q) = %q, want %q", tt.label, field, tt.wantField)
			}
		})
	}
}
