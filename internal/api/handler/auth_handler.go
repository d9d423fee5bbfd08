package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/belleallure/salon-api/internal/core/domain"
	"github.com/belleallure/salon-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Username    string            `json:"username"     validate:"required"`
	Password    string            `json:"password"     validate:"required,min=6,max=72"`
	Email       string            `json:"email"        validate:"required,email"`
	Role        string            `json:"role"         validate:"omitempty,oneof=admin stylist"`
	FirstName   string            `json:"first_name"`
	LastName    string            `json:"last_name"`
	Specialties []string          `json:"specialties"  validate:"omitempty,dive,salon_service"`
	WorkDays    []int             `json:"work_days"    validate:"omitempty,dive,min=0,max=6"`
	WorkHours   *domain.WorkHours `json:"work_hours,omitempty"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

type stylistsResponse struct {
	Data []*domain.User `json:"data"`
}

// Register creates a new stylist or admin account.
//
// @Summary      Register a staff account
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /api/users/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Username:    req.Username,
		Password:    req.Password,
		Email:       req.Email,
		Role:        req.Role,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Specialties: req.Specialties,
		WorkDays:    req.WorkDays,
		WorkHours:   req.WorkHours,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, authResponse{User: user})
}

// Login authenticates a staff member and returns a JWT token.
//
// @Summary      Login
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /api/users/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{Token: token, User: user})
}

// Profile returns the account of the authenticated caller.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  authResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/users/profile [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	user, err := h.authService.Profile(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{User: user})
}

// Stylists lists the stylist accounts.
//
// @Summary      List stylists
// @Tags         users
// @Produce      json
// @Success      200  {object}  stylistsResponse
// @Router       /api/users/stylists [get]
func (h *AuthHandler) Stylists(c echo.Context) error {
	users, err := h.authService.ListStylists(c.Request().Context())
	if err != nil {
		return err
	}
	if users == nil {
		users = []*domain.User{}
	}
	return c.JSON(http.StatusOK, stylistsResponse{Data: users})
}
