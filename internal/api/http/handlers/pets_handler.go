package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/petsafe/pettag-service/internal/api/dto"
	"github.com/petsafe/pettag-service/internal/auth"
	"github.com/petsafe/pettag-service/internal/domain"
	"github.com/petsafe/pettag-service/internal/service"
	apperrors "github.com/petsafe/pettag-service/pkg/util"
)

// PetsHandler manages owner-facing pet endpoints.
type PetsHandler struct {
	service *service.PetService
}

// NewPetsHandler constructs handler.
func NewPetsHandler(petService *service.PetService) *PetsHandler {
	return &PetsHandler{service: petService}
}

// Create POST /api/pets.
func (h *PetsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.PetCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Species) == "" {
		return apperrors.NewValidationError("name and species required", nil)
	}

	input := service.PetCreateInput{
		Name:        req.Name,
		Species:     req.Species,
		Breed:       req.Breed,
		Age:         req.Age,
		Color:       req.Color,
		Weight:      req.Weight,
		MedicalInfo: req.MedicalInfo,
		Allergies:   req.Allergies,
		Medications: req.Medications,
		VetContact:  req.VetContact,
		OwnerNotes:  req.OwnerNotes,
	}
	pet, err := h.service.Create(c.Context(), principal, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": petResponse(pet)})
}

// List GET /api/pets.
func (h *PetsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	pets, err := h.service.ListForOwner(c.Context(), principal)
	if err != nil {
		return err
	}
	items := make([]dto.PetResponse, 0, len(pets))
	for i := range pets {
		items = append(items, petResponse(&pets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /api/pets/:id.
func (h *PetsHandler) Get(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	pet, err := h.service.Get(c.Context(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": petResponse(pet)})
}

// Update PUT /api/pets/:id.
func (h *PetsHandler) Update(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.PetUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.PetUpdateInput{
		Name:        req.Name,
		Species:     req.Species,
		Breed:       req.Breed,
		Age:         req.Age,
		Color:       req.Color,
		Weight:      req.Weight,
		MedicalInfo: req.MedicalInfo,
		Allergies:   req.Allergies,
		Medications: req.Medications,
		VetContact:  req.VetContact,
		OwnerNotes:  req.OwnerNotes,
	}
	pet, err := h.service.Update(c.Context(), principal, c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": petResponse(pet)})
}

// Delete DELETE /api/pets/:id.
func (h *PetsHandler) Delete(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	if err := h.service.Delete(c.Context(), principal, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ToggleMissing PATCH /api/pets/:id/missing.
func (h *PetsHandler) ToggleMissing(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	pet, err := h.service.ToggleMissing(c.Context(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": petResponse(pet)})
}

// UploadPhoto POST /api/pets/:id/photo.
func (h *PetsHandler) UploadPhoto(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	file, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("file required", nil)
	}

	pet, err := h.service.AttachPhoto(c.Context(), principal, c.Params("id"), file)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": petResponse(pet)})
}

func petResponse(pet *domain.Pet) dto.PetResponse {
	return dto.PetResponse{
		ID:          pet.ID,
		OwnerID:     pet.OwnerID,
		Name:        pet.Name,
		Species:     pet.Species,
		Breed:       pet.Breed,
		Age:         pet.Age,
		Color:       pet.Color,
		Weight:      pet.Weight,
		MedicalInfo: pet.MedicalInfo,
		Allergies:   pet.Allergies,
		Medications: pet.Medications,
		VetContact:  pet.VetContact,
		OwnerNotes:  pet.OwnerNotes,
		PhotoURL:    pet.PhotoURL,
		QRCodeURL:   pet.QRCodeURL,
		IsMissing:   pet.IsMissing,
		CreatedAt:   pet.CreatedAt,
		UpdatedAt:   pet.UpdatedAt,
	}
}
