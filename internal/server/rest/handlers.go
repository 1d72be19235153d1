package rest

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/projecthub/internal/common"
	"github.com/dmitrijs2005/projecthub/internal/server/auth"
	"github.com/dmitrijs2005/projecthub/internal/server/models"
	"github.com/dmitrijs2005/projecthub/internal/server/services"
	"github.com/dmitrijs2005/projecthub/internal/server/validation"
	"github.com/labstack/echo/v4"
)

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type authResponse struct {
	User      userResponse `json:"user"`
	Token     string       `json:"token,omitempty"`
	ExpiresAt *time.Time   `json:"expiresAt,omitempty"`
}

type profileResponse struct {
	User userResponse `json:"user"`
}

type usersResponse struct {
	Users []userResponse `json:"users"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		CreatedAt: u.CreatedAt,
	}
}

func toAuthResponse(r *services.AuthResult) authResponse {
	out := authResponse{User: toUserResponse(r.User), Token: r.Token}
	if r.Token != "" {
		exp := r.ExpiresAt.UTC()
		out.ExpiresAt = &exp
	}
	return out
}

// AuthHandler serves registration, login and the session-bound endpoints.
type AuthHandler struct {
	users    UserService
	pipeline *validation.Pipeline
}

func NewAuthHandler(users UserService, pipeline *validation.Pipeline) *AuthHandler {
	return &AuthHandler{users: users, pipeline: pipeline}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req validation.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return errBadBody
	}

	in, err := h.pipeline.Register(req)
	if err != nil {
		return err
	}

	res, err := h.users.Register(c.Request().Context(), in)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toAuthResponse(res))
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req validation.LoginRequest
	if err := c.Bind(&req); err != nil {
		return errBadBody
	}

	in, err := h.pipeline.Login(req)
	if err != nil {
		return err
	}

	res, err := h.users.Login(c.Request().Context(), in)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toAuthResponse(res))
}

func (h *AuthHandler) Profile(c echo.Context) error {
	session, ok := auth.SessionFromContext(c.Request().Context())
	if !ok {
		return common.ErrUnauthenticated
	}

	u, err := h.users.Profile(c.Request().Context(), session.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, profileResponse{User: toUserResponse(u)})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	session, ok := auth.SessionFromContext(c.Request().Context())
	if !ok {
		return common.ErrUnauthenticated
	}

	if err := h.users.Logout(c.Request().Context(), session); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "logged out"})
}

func (h *AuthHandler) All(c echo.Context) error {
	list, err := h.users.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}

	out := usersResponse{Users: make([]userResponse, 0, len(list))}
	for _, u := range list {
		out.Users = append(out.Users, toUserResponse(u))
	}
	return c.JSON(http.StatusOK, out)
}
