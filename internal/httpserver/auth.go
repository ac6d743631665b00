package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sneakershub/storefront/internal/auth"
	"github.com/sneakershub/storefront/internal/cart"
	"github.com/sneakershub/storefront/internal/logging"
	"github.com/sneakershub/storefront/internal/models"
)

type AuthHTTP struct {
	Auth *auth.Store
	Cart *cart.Store
}

type userRequest struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (r userRequest) toUser() models.User {
	return models.User{
		Email:     r.Email,
		Name:      r.Name,
		FirstName: r.FirstName,
		LastName:  r.LastName,
	}
}

func (h *AuthHTTP) Signup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.signup")

	var req userRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("signup_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	u, err := h.Auth.Signup(ctx, req.toUser())
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrDuplicateUser):
			l.Warn("signup_error", "status", 409, "email", req.Email)
			return echo.NewHTTPError(http.StatusConflict, "user with this email already exists")
		case errors.Is(err, auth.ErrValidation):
			l.Warn("signup_error", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			l.Error("signup_error", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
	}

	l.Info("signup_successful", "email", u.Email)
	return c.JSON(http.StatusCreated, u)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req userRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	u, err := h.Auth.Login(ctx, req.toUser())
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUnregisteredUser):
			l.Warn("login_error", "status", 401, "email", req.Email)
			return echo.NewHTTPError(http.StatusUnauthorized, "please register first before logging in")
		case errors.Is(err, auth.ErrValidation):
			l.Warn("login_error", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			l.Error("login_error", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
	}

	l.Info("login_successful", "email", u.Email)
	return c.JSON(http.StatusOK, u)
}

// Logout clears the session and the cart in one explicit step: no cart
// state survives a logout.
func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	h.Auth.Logout(ctx)
	h.Cart.Clear(ctx)

	l.Info("logout_successful")
	return c.JSON(http.StatusOK, "logged out")
}

func (h *AuthHTTP) Me(c echo.Context) error {
	u, ok := h.Auth.Current()
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "no active session")
	}
	return c.JSON(http.StatusOK, u)
}
