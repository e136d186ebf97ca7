package controller

import (
	"errors"
	"strings"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	dto "shutterhub_backend/internals/features/users/dto"
	model "shutterhub_backend/internals/features/users/model"
	"shutterhub_backend/internals/features/users/service"
	helper "shutterhub_backend/internals/helpers"
)

const accessTokenTTL = 24 * time.Hour

type AuthController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{
		DB:        db,
		Validator: validator.New(),
	}
}

// POST /api/auth/register
func (ctl *AuthController) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	hash, err := service.HashPassword(req.Password)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to hash password")
	}

	role := req.Role
	if role == "" {
		role = model.RoleCustomer
	}

	u := model.User{
		UserName:         strings.TrimSpace(req.UserName),
		UserEmail:        strings.ToLower(strings.TrimSpace(req.Email)),
		UserPasswordHash: hash,
		UserRole:         role,
		UserIsActive:     true,
	}

	if err := ctl.DB.WithContext(c.Context()).Create(&u).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Email already registered")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return ctl.respondWithToken(c, &u, fiber.StatusCreated, "Account created")
}

// POST /api/auth/login
func (ctl *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	var u model.User
	err := ctl.DB.WithContext(c.Context()).
		First(&u, "user_email = ?", strings.ToLower(strings.TrimSpace(req.Email))).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Wrong email or password")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if !u.UserIsActive {
		return helper.JsonError(c, fiber.StatusForbidden, "Account is deactivated")
	}
	if u.UserPasswordHash == "" || !service.CheckPassword(u.UserPasswordHash, req.Password) {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Wrong email or password")
	}

	return ctl.respondWithToken(c, &u, fiber.StatusOK, "Login success")
}

// POST /api/auth/google
func (ctl *AuthController) GoogleLogin(c *fiber.Ctx) error {
	var req dto.GoogleLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	profile, err := service.VerifyGoogleIDToken(req.IDToken)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid Google token")
	}

	email := strings.ToLower(strings.TrimSpace(profile.Email))

	var u model.User
	err = ctl.DB.WithContext(c.Context()).First(&u, "user_email = ?", email).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		u = model.User{
			UserName:     profile.Name,
			UserEmail:    email,
			UserRole:     model.RoleCustomer,
			UserIsActive: true,
		}
		if err := ctl.DB.WithContext(c.Context()).Create(&u).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
		}
	case err != nil:
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if !u.UserIsActive {
		return helper.JsonError(c, fiber.StatusForbidden, "Account is deactivated")
	}

	return ctl.respondWithToken(c, &u, fiber.StatusOK, "Login success")
}

// GET /api/u/me
func (ctl *AuthController) Me(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var u model.User
	if err := ctl.DB.WithContext(c.Context()).First(&u, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "User not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "ok", dto.FromModelUser(&u))
}

func (ctl *AuthController) respondWithToken(c *fiber.Ctx, u *model.User, status int, message string) error {
	token, err := service.GenerateAccessToken(u, accessTokenTTL)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to issue token")
	}
	resp := dto.AuthResponse{
		AccessToken: token,
		User:        dto.FromModelUser(u),
	}
	if status == fiber.StatusCreated {
		return helper.JsonCreated(c, message, resp)
	}
	return helper.JsonOK(c, message, resp)
}
