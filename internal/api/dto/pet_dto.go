package dto

import "time"

// PetCreateRequest payload for registering a pet.
type PetCreateRequest struct {
	Name        string   `json:"name"`
	Species     string   `json:"species"`
	Breed       *string  `json:"breed"`
	Age         *int     `json:"age"`
	Color       *string  `json:"color"`
	Weight      *float64 `json:"weight"`
	MedicalInfo *string  `json:"medical_info"`
	Allergies   *string  `json:"allergies"`
	Medications *string  `json:"medications"`
	VetContact  *string  `json:"vet_contact"`
	OwnerNotes  *string  `json:"owner_notes"`
}

// PetUpdateRequest payload for partial updates; absent fields stay as-is.
type PetUpdateRequest struct {
	Name        *string  `json:"name"`
	Species     *string  `json:"species"`
	Breed       *string  `json:"breed"`
	Age         *int     `json:"age"`
	Color       *string  `json:"color"`
	Weight      *float64 `json:"weight"`
	MedicalInfo *string  `json:"medical_info"`
	Allergies   *string  `json:"allergies"`
	Medications *string  `json:"medications"`
	VetContact  *string  `json:"vet_contact"`
	OwnerNotes  *string  `json:"owner_notes"`
}

// PetResponse is the full profile, visible only to the owner.
type PetResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Species     string    `json:"species"`
	Breed       *string   `json:"breed,omitempty"`
	Age         *int      `json:"age,omitempty"`
	Color       *string   `json:"color,omitempty"`
	Weight      *float64  `json:"weight,omitempty"`
	MedicalInfo *string   `json:"medical_info,omitempty"`
	Allergies   *string   `json:"allergies,omitempty"`
	Medications *string   `json:"medications,omitempty"`
	VetContact  *string   `json:"vet_contact,omitempty"`
	OwnerNotes  *string   `json:"owner_notes,omitempty"`
	PhotoURL    *string   `json:"photo_url,omitempty"`
	QRCodeURL   *string   `json:"qr_code_url,omitempty"`
	IsMissing   bool      `json:"is_missing"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
