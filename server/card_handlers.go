package server

import (
	"context"

	"mesto/models"
	"mesto/validation"

	"github.com/gofiber/fiber/v2"
)

// GetCards handles GET /cards
func (s *Server) GetCards(c *fiber.Ctx) error {
	cards, err := s.cardRepo.List(c.Context())
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(cards)
}

// CreateCard handles POST /cards
func (s *Server) CreateCard(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req struct {
		Name string `json:"name"`
		Link string `json:"link"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	if err := validation.ValidateName(req.Name); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid name: "+err.Error()))
	}
	if err := validation.ValidateURL(req.Link); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid link: "+err.Error()))
	}

	card := &models.Card{
		Name:    req.Name,
		Link:    req.Link,
		OwnerID: userID,
	}

	if err := s.cardRepo.Create(ctx, card); err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(card)
}

// DeleteCard handles DELETE /cards/:id
func (s *Server) DeleteCard(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	cardID, err := c.ParamsInt("id")
	if err != nil || cardID < 1 {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid card ID"))
	}

	card, err := s.cardRepo.GetByID(ctx, uint(cardID))
	if err != nil {
		return models.RespondWithError(c, err)
	}

	// Only the owner may delete; the card is untouched on mismatch
	if card.OwnerID != userID {
		return models.RespondWithError(c,
			models.NewForbiddenError("Insufficient rights to delete this card"))
	}

	// The delete re-checks ownership in the store, so a card deleted
	// concurrently surfaces as not-found rather than vanishing twice.
	if err := s.cardRepo.DeleteOwned(ctx, uint(cardID), userID); err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(card)
}

// LikeCard handles PUT /cards/:id/likes
func (s *Server) LikeCard(c *fiber.Ctx) error {
	return s.updateLikes(c, s.cardRepo.Like)
}

// UnlikeCard handles DELETE /cards/:id/likes
func (s *Server) UnlikeCard(c *fiber.Ctx) error {
	return s.updateLikes(c, s.cardRepo.Unlike)
}

// updateLikes applies an idempotent like-set mutation and returns the
// refreshed card. Any authenticated user may like or unlike any card.
func (s *Server) updateLikes(c *fiber.Ctx, mutate func(ctx context.Context, cardID, userID uint) error) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	cardID, err := c.ParamsInt("id")
	if err != nil || cardID < 1 {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid card ID"))
	}

	if _, err := s.cardRepo.GetByID(ctx, uint(cardID)); err != nil {
		return models.RespondWithError(c, err)
	}

	if err := mutate(ctx, uint(cardID), userID); err != nil {
		return models.RespondWithError(c, err)
	}

	card, err := s.cardRepo.GetByID(ctx, uint(cardID))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(card)
}
