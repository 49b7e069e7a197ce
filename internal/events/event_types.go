package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventPetRegistered     EventType = "pet_registered"
	EventPetMissingToggled EventType = "pet_missing_toggled"
	EventPetPhotoUploaded  EventType = "pet_photo_uploaded"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	PetID     string      `json:"pet_id"`
	OwnerID   string      `json:"owner_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// PetRegisteredPayload payload.
type PetRegisteredPayload struct {
	Name    string `json:"name"`
	Species string `json:"species"`
}

// PetMissingToggledPayload payload.
type PetMissingToggledPayload struct {
	Name      string `json:"name"`
	IsMissing bool   `json:"is_missing"`
}

// PetPhotoUploadedPayload payload.
type PetPhotoUploadedPayload struct {
	PhotoURL string `json:"photo_url"`
}
