package server

import (
	"mesto/auth"
	"mesto/models"
	"mesto/validation"

	"github.com/gofiber/fiber/v2"
)

// Signup handles POST /signup
func (s *Server) Signup(c *fiber.Ctx) error {
	var req struct {
		Name     string `json:"name"`
		About    string `json:"about"`
		Avatar   string `json:"avatar"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	// Optional profile fields fall back to defaults
	if req.Name == "" {
		req.Name = models.DefaultName
	}
	if req.About == "" {
		req.About = models.DefaultAbout
	}
	if req.Avatar == "" {
		req.Avatar = models.DefaultAvatar
	}

	if err := validation.ValidateEmail(req.Email); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid email: "+err.Error()))
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid password: "+err.Error()))
	}
	if err := validation.ValidateName(req.Name); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid name: "+err.Error()))
	}
	if err := validation.ValidateAbout(req.About); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid about: "+err.Error()))
	}
	if err := validation.ValidateURL(req.Avatar); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid avatar: "+err.Error()))
	}

	// Hash password
	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}

	user := &models.User{
		Name:     req.Name,
		About:    req.About,
		Avatar:   req.Avatar,
		Email:    req.Email,
		Password: hashedPassword,
	}

	// The repository reports a duplicate email as a conflict
	if err := s.userRepo.Create(c.Context(), user); err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// Signin handles POST /signin
func (s *Server) Signin(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userRepo.GetByEmail(c.Context(), req.Email)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	// Unknown email and wrong password are deliberately indistinguishable
	// so the response never leaks which emails are registered.
	if user == nil || !auth.CheckPassword(req.Password, user.Password) {
		return models.RespondWithError(c,
			models.NewAuthenticationError("Incorrect email or password"))
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{"token": token})
}
