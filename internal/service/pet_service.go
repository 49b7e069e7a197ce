package service

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/petsafe/pettag-service/internal/auth"
	"github.com/petsafe/pettag-service/internal/domain"
	"github.com/petsafe/pettag-service/internal/events"
	"github.com/petsafe/pettag-service/internal/repository"
	"github.com/petsafe/pettag-service/internal/storage"
	apperrors "github.com/petsafe/pettag-service/pkg/util"
)

// PublicProfileCache is what the service needs from the projection cache.
// The Redis-backed implementation lives in the repository package.
type PublicProfileCache interface {
	Get(ctx context.Context, petID string) (*domain.PublicPetProfile, bool)
	Set(ctx context.Context, profile *domain.PublicPetProfile)
	Invalidate(ctx context.Context, petID string)
}

// PetService coordinates pet profile workflows. Every operation on an
// owned profile runs the ownership check; only PublicProfile is reachable
// without a principal.
type PetService struct {
	pets          repository.PetRepository
	cache         PublicProfileCache
	photos        *storage.PhotoStore
	dispatcher    events.Dispatcher
	publicBaseURL string
}

// PetDependencies bundles collaborators for the pet service.
type PetDependencies struct {
	PetRepo       repository.PetRepository
	Cache         PublicProfileCache
	Photos        *storage.PhotoStore
	Dispatcher    events.Dispatcher
	PublicBaseURL string
}

// PetCreateInput describes pet creation payload.
type PetCreateInput struct {
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
}

// PetUpdateInput carries partial updates; nil fields are left untouched.
type PetUpdateInput struct {
	Name        *string
	Species     *string
	Breed       *string
	Age         *int
	Color       *string
	Weight      *float64
	MedicalInfo *string
	Allergies   *string
	Medications *string
	VetContact  *string
	OwnerNotes  *string
}

// NewPetService constructs the service.
func NewPetService(deps PetDependencies) *PetService {
	return &PetService{
		pets:          deps.PetRepo,
		cache:         deps.Cache,
		photos:        deps.Photos,
		dispatcher:    deps.Dispatcher,
		publicBaseURL: deps.PublicBaseURL,
	}
}

// Create registers a new pet owned by the principal. The owner is fixed
// here and never changes afterwards.
func (s *PetService) Create(ctx context.Context, principal *auth.Principal, input PetCreateInput) (*domain.Pet, error) {
	if principal == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}

	pet := &domain.Pet{
		OwnerID:     principal.SubjectID,
		Name:        strings.TrimSpace(input.Name),
		Species:     strings.TrimSpace(input.Species),
		Breed:       input.Breed,
		Age:         input.Age,
		Color:       input.Color,
		Weight:      input.Weight,
		MedicalInfo: input.MedicalInfo,
		Allergies:   input.Allergies,
		Medications: input.Medications,
		VetContact:  input.VetContact,
		OwnerNotes:  input.OwnerNotes,
		IsMissing:   false,
	}

	if err := s.pets.Create(ctx, pet); err != nil {
		return nil, err
	}

	// The scannable tag URL depends on the generated id, so it is written
	// back right after the insert.
	qrURL := s.publicBaseURL + "/api/public/pets/" + pet.ID
	pet.QRCodeURL = &qrURL
	if err := s.pets.Update(ctx, pet); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:    events.EventPetRegistered,
		PetID:   pet.ID,
		OwnerID: pet.OwnerID,
		Payload: events.PetRegisteredPayload{Name: pet.Name, Species: pet.Species},
	})
	return pet, nil
}

// ListForOwner returns all pets owned by the principal.
func (s *PetService) ListForOwner(ctx context.Context, principal *auth.Principal) ([]domain.Pet, error) {
	if principal == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return s.pets.ListByOwner(ctx, principal.SubjectID)
}

// Get returns the full (unredacted) pet profile to its owner.
func (s *PetService) Get(ctx context.Context, principal *auth.Principal, petID string) (*domain.Pet, error) {
	pet, err := s.loadPet(ctx, petID)
	if err != nil {
		return nil, err
	}
	if err := auth.AuthorizeOwner(principal, pet.OwnerID); err != nil {
		return nil, err
	}
	return pet, nil
}

// Update applies a partial update after the ownership check.
func (s *PetService) Update(ctx context.Context, principal *auth.Principal, petID string, input PetUpdateInput) (*domain.Pet, error) {
	pet, err := s.loadPet(ctx, petID)
	if err != nil {
		return nil, err
	}
	if err := auth.AuthorizeOwner(principal, pet.OwnerID); err != nil {
		return nil, err
	}

	if input.Name != nil {
		pet.Name = *input.Name
	}
	if input.Species != nil {
		pet.Species = *input.Species
	}
	if input.Breed != nil {
		pet.Breed = input.Breed
	}
	if input.Age != nil {
		pet.Age = input.Age
	}
	if input.Color != nil {
		pet.Color = input.Color
	}
	if input.Weight != nil {
		pet.Weight = input.Weight
	}
	if input.MedicalInfo != nil {
		pet.MedicalInfo = input.MedicalInfo
	}
	if input.Allergies != nil {
		pet.Allergies = input.Allergies
	}
	if input.Medications != nil {
		pet.Medications = input.Medications
	}
	if input.VetContact != nil {
		pet.VetContact = input.VetContact
	}
	if input.OwnerNotes != nil {
		pet.OwnerNotes = input.OwnerNotes
	}

	if err := s.pets.Update(ctx, pet); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx, pet.ID)
	return pet, nil
}

// Delete removes the pet after the ownership check.
func (s *PetService) Delete(ctx context.Context, principal *auth.Principal, petID string) error {
	pet, err := s.loadPet(ctx, petID)
	if err != nil {
		return err
	}
	if err := auth.AuthorizeOwner(principal, pet.OwnerID); err != nil {
		return err
	}

	if err := s.pets.Delete(ctx, pet.ID); err != nil {
		return err
	}
	s.invalidateCache(ctx, pet.ID)
	return nil
}

// ToggleMissing flips the lost/found state after the ownership check.
func (s *PetService) ToggleMissing(ctx context.Context, principal *auth.Principal, petID string) (*domain.Pet, error) {
	pet, err := s.loadPet(ctx, petID)
	if err != nil {
		return nil, err
	}
	if err := auth.AuthorizeOwner(principal, pet.OwnerID); err != nil {
		return nil, err
	}

	pet.IsMissing = !pet.IsMissing
	if err := s.pets.Update(ctx, pet); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx, pet.ID)

	s.publish(ctx, events.Event{
		Type:    events.EventPetMissingToggled,
		PetID:   pet.ID,
		OwnerID: pet.OwnerID,
		Payload: events.PetMissingToggledPayload{Name: pet.Name, IsMissing: pet.IsMissing},
	})
	return pet, nil
}

// AttachPhoto stores an uploaded photo and records its URL, after the
// ownership check.
func (s *PetService) AttachPhoto(ctx context.Context, principal *auth.Principal, petID string, file *multipart.FileHeader) (*domain.Pet, error) {
	pet, err := s.loadPet(ctx, petID)
	if err != nil {
		return nil, err
	}
	if err := auth.AuthorizeOwner(principal, pet.OwnerID); err != nil {
		return nil, err
	}

	url, err := s.photos.Save(file, pet.ID)
	if err != nil {
		return nil, err
	}

	pet.PhotoURL = &url
	if err := s.pets.Update(ctx, pet); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx, pet.ID)

	s.publish(ctx, events.Event{
		Type:    events.EventPetPhotoUploaded,
		PetID:   pet.ID,
		OwnerID: pet.OwnerID,
		Payload: events.PetPhotoUploadedPayload{PhotoURL: url},
	})
	return pet, nil
}

// PublicProfile serves the redacted projection to anonymous callers. This
// is the scan-to-view path: reachable by pet id alone, never guarded, and
// cached because a lost-pet poster can drive bursts of lookups.
func (s *PetService) PublicProfile(ctx context.Context, petID string) (*domain.PublicPetProfile, error) {
	if s.cache != nil {
		if profile, ok := s.cache.Get(ctx, petID); ok {
			return profile, nil
		}
	}

	profile, err := s.pets.GetPublicByID(ctx, petID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("pet", nil)
		}
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, profile)
	}
	return profile, nil
}

func (s *PetService) loadPet(ctx context.Context, petID string) (*domain.Pet, error) {
	pet, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("pet", nil)
		}
		return nil, err
	}
	return pet, nil
}

func (s *PetService) invalidateCache(ctx context.Context, petID string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, petID)
	}
}

func (s *PetService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
