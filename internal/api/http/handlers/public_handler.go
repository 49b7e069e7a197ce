package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/petsafe/pettag-service/internal/service"
)

// PublicHandler serves the anonymous scan-to-view endpoint. It never reads
// a principal and never consults the ownership guard.
type PublicHandler struct {
	service *service.PetService
}

// NewPublicHandler constructs handler.
func NewPublicHandler(petService *service.PetService) *PublicHandler {
	return &PublicHandler{service: petService}
}

// GetPet GET /api/public/pets/:id.
func (h *PublicHandler) GetPet(c *fiber.Ctx) error {
	profile, err := h.service.PublicProfile(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": profile})
}
