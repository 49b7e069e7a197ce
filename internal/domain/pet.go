package domain

import "time"

// Pet is the owned resource at the center of the service. OwnerID is set
// exactly once at creation and never reassigned.
type Pet struct {
	ID          string
	OwnerID     string
	Name        string
	Species     string
	Breed       *string
	Age         *int
	Color       *string
	Weight      *float64
	MedicalInfo *string
	Allergies   *string
	Medications *string
	VetContact  *string
	OwnerNotes  *string
	PhotoURL    *string
	QRCodeURL   *string
	IsMissing   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PublicPetProfile is the redacted projection served to anonymous callers
// who scanned a tag. It intentionally carries the owner's display name and
// phone so a finder can make contact, and intentionally omits the owner's
// internal identifier.
type PublicPetProfile struct {
	PetID       string   `json:"pet_id"`
	Name        string   `json:"name"`
	Species     string   `json:"species"`
	Breed       *string  `json:"breed,omitempty"`
	Age         *int     `json:"age,omitempty"`
	Color       *string  `json:"color,omitempty"`
	Weight      *float64 `json:"weight,omitempty"`
	MedicalInfo *string  `json:"medical_info,omitempty"`
	Allergies   *string  `json:"allergies,omitempty"`
	Medications *string  `json:"medications,omitempty"`
	VetContact  *string  `json:"vet_contact,omitempty"`
	OwnerNotes  *string  `json:"owner_notes,omitempty"`
	PhotoURL    *string  `json:"photo_url,omitempty"`
	IsMissing   bool     `json:"is_missing"`
	OwnerName   string   `json:"owner_name"`
	OwnerPhone  string   `json:"owner_phone"`
}
