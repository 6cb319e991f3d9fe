package server

import (
	"fmt"
	"time"

	"mesto/cache"
	"mesto/models"
	"mesto/validation"

	"github.com/gofiber/fiber/v2"
)

const userCacheTTL = 60 * time.Second

func userCacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

// GetAllUsers handles GET /users
func (s *Server) GetAllUsers(c *fiber.Ctx) error {
	ctx := c.Context()
	limit := c.QueryInt("limit", 100)
	offset := c.QueryInt("offset", 0)

	users, err := s.userRepo.List(ctx, limit, offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(users)
}

// GetUserProfile handles GET /users/:id
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid user ID"))
	}

	// Profile reads are cache-aside with a short TTL; updates invalidate.
	var user models.User
	cerr := cache.CacheAside(ctx, userCacheKey(uint(id)), &user, userCacheTTL, func() error {
		u, err := s.userRepo.GetByID(ctx, uint(id))
		if err != nil {
			return err
		}
		user = *u
		return nil
	})
	if cerr != nil {
		return models.RespondWithError(c, cerr)
	}

	return c.JSON(user)
}

// GetMyProfile handles GET /users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	// The token claim is trusted for identity, but the record itself may
	// have vanished; that is a not-found, not an auth failure.
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(user)
}

// UpdateMyProfile handles PATCH /users/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req struct {
		Name  string `json:"name"`
		About string `json:"about"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	if err := validation.ValidateName(req.Name); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid name: "+err.Error()))
	}
	if err := validation.ValidateAbout(req.About); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid about: "+err.Error()))
	}

	user, err := s.userRepo.UpdateProfile(ctx, userID, req.Name, req.About)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	cache.Invalidate(ctx, userCacheKey(userID))
	return c.JSON(user)
}

// UpdateMyAvatar handles PATCH /users/me/avatar
func (s *Server) UpdateMyAvatar(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req struct {
		Avatar string `json:"avatar"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	if err := validation.ValidateURL(req.Avatar); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid avatar: "+err.Error()))
	}

	user, err := s.userRepo.UpdateAvatar(ctx, userID, req.Avatar)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	cache.Invalidate(ctx, userCacheKey(userID))
	return c.JSON(user)
}
