// Package adminauth gates the admin console behind the fixed demo
// credential pair. It issues short-lived HS256 tokens; this is a demo
// entry point, explicitly not a security boundary.
package adminauth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 15 * time.Minute

var ErrInvalidCredentials = errors.New("invalid admin credentials")

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type Service struct {
	email        string
	passwordHash []byte
	jwtSecret    []byte
}

func New(email, password string, jwtSecret []byte) (*Service, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("adminauth: hash password: %w", err)
	}
	return &Service{email: email, passwordHash: hash, jwtSecret: jwtSecret}, nil
}

// Login checks the credential pair and issues an admin token.
func (s *Service) Login(email, password string) (string, error) {
	if email != s.email {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	claims := Claims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("adminauth: sign token: %w", err)
	}
	return token, nil
}

// Parse validates a token string and returns its claims.
func (s *Service) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Role != "admin" {
		return nil, ErrInvalidCredentials
	}
	return claims, nil
}

// RequireAdmin guards a route group with a bearer admin token.
func (s *Service) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing admin token")
		}
		claims, err := s.Parse(tokenString)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid admin token")
		}
		c.Set("admin_email", claims.Subject)
		return next(c)
	}
}
