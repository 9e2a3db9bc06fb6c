package model

import "time"

// PropertyCategory is the closed set of rental categories
type PropertyCategory string

const (
	CategoryApartment PropertyCategory = "apartment"
	CategoryRoom      PropertyCategory = "room"
	CategoryBedspace  PropertyCategory = "bedspace"
)

// Property represents a rental property listing
type Property struct {
	PropertyID    int64            `json:"property_id" db:"property_id"`
	OwnerID       int64            `json:"owner_id" db:"owner_id"`
	Title         string           `json:"title" db:"title"`
	Description   *string          `json:"description,omitempty" db:"description"`
	Category      PropertyCategory `json:"category" db:"category"`
	Street        *string          `json:"street,omitempty" db:"street"`
	Barangay      *string          `json:"barangay,omitempty" db:"barangay"`
	City          string           `json:"city" db:"city"`
	Coordinates   *string          `json:"coordinates,omitempty" db:"coordinates"`
	ImageURLs     StringArray      `json:"image_url,omitempty" db:"image_url"`
	Rent          int              `json:"rent" db:"rent"`
	Rating        *float64         `json:"rating,omitempty" db:"rating"`
	MaxRenters    int              `json:"max_renters" db:"max_renters"`
	IsAvailable   bool             `json:"is_available" db:"is_available"`
	IsVerified    bool             `json:"is_verified" db:"is_verified"`
	HasInternet   *bool            `json:"has_internet,omitempty" db:"has_internet"`
	AllowsPets    *bool            `json:"allows_pets,omitempty" db:"allows_pets"`
	IsFurnished   *bool            `json:"is_furnished,omitempty" db:"is_furnished"`
	HasAC         *bool            `json:"has_ac,omitempty" db:"has_ac"`
	IsSecure      *bool            `json:"is_secure,omitempty" db:"is_secure"`
	HasParking    *bool            `json:"has_parking,omitempty" db:"has_parking"`
	NumberReviews int              `json:"number_reviews" db:"number_reviews"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at" db:"updated_at"`
}

// ScoredProperty is a property with its ranking metadata attached.
// Recomputed on every ranking request, never cached.
type ScoredProperty struct {
	Property
	AmenityScore  int    `json:"amenity_score"`
	DistanceLabel string `json:"distance_label"`
}

// UserContext carries the per-user inputs to a ranking request.
// All fields are optional; the recommender degrades rather than fails
// when one is missing.
type UserContext struct {
	PriceRange       *string           `json:"price_range,omitempty" db:"price_range"`
	RoomPreference   *PropertyCategory `json:"room_preference,omitempty" db:"room_preference"`
	PlaceOfWorkStudy *string           `json:"place_of_work_study,omitempty" db:"place_of_work_study"`
	Preferences      StringArray       `json:"preferences_order,omitempty" db:"preferences_order"`
}

// RecommendPriority selects the single hard filter for a ranking request
type RecommendPriority string

const (
	PriorityDistance RecommendPriority = "distance"
	PriorityPrice    RecommendPriority = "price"
	PriorityRoomType RecommendPriority = "room_type"
)

// Valid reports whether the priority is one of the three known values
func (p RecommendPriority) Valid() bool {
	switch p {
	case PriorityDistance, PriorityPrice, PriorityRoomType:
		return true
	}
	return false
}

// PropertyPayload is the property view exposed to the assistant. Owner
// identity, raw coordinates and media URLs are deliberately absent.
type PropertyPayload struct {
	PropertyID    int64            `json:"property_id"`
	Title         string           `json:"title"`
	Description   *string          `json:"description,omitempty"`
	Category      PropertyCategory `json:"category"`
	Street        *string          `json:"street,omitempty"`
	Barangay      *string          `json:"barangay,omitempty"`
	City          string           `json:"city"`
	Rent          int              `json:"rent"`
	HasInternet   *bool            `json:"has_internet,omitempty"`
	AllowsPets    *bool            `json:"allows_pets,omitempty"`
	IsFurnished   *bool            `json:"is_furnished,omitempty"`
	HasAC         *bool            `json:"has_ac,omitempty"`
	IsSecure      *bool            `json:"is_secure,omitempty"`
	HasParking    *bool            `json:"has_parking,omitempty"`
	Rating        *float64         `json:"rating,omitempty"`
	MaxRenters    int              `json:"max_renters"`
	IsAvailable   bool             `json:"is_available"`
	IsVerified    bool             `json:"is_verified"`
	NumberReviews int              `json:"number_reviews"`
	Distance      string           `json:"distance"`
}

// AsPayload strips a scored property down to the assistant-facing view
func (s *ScoredProperty) AsPayload() *PropertyPayload {
	return &PropertyPayload{
		PropertyID:    s.PropertyID,
		Title:         s.Title,
		Description:   s.Description,
		Category:      s.Category,
		Street:        s.Street,
		Barangay:      s.Barangay,
		City:          s.City,
		Rent:          s.Rent,
		HasInternet:   s.HasInternet,
		AllowsPets:    s.AllowsPets,
		IsFurnished:   s.IsFurnished,
		HasAC:         s.HasAC,
		IsSecure:      s.IsSecure,
		HasParking:    s.HasParking,
		Rating:        s.Rating,
		MaxRenters:    s.MaxRenters,
		IsAvailable:   s.IsAvailable,
		IsVerified:    s.IsVerified,
		NumberReviews: s.NumberReviews,
		Distance:      s.DistanceLabel,
	}
}
