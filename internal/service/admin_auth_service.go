package service

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	apperrors "assessments/internal/errors"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const adminSubject = "admin"

type AdminAuthService interface {
	CheckKey(key string) error
	Login(key string) (string, error)
	ValidateToken(token string) error
}

type AdminAuthConfig struct {
	ViewKey     string
	ViewKeyHash string
	JWTSecret   string
	TokenTTL    time.Duration
}

type adminAuthService struct {
	cfg AdminAuthConfig
	now func() time.Time
}

func NewAdminAuthService(cfg AdminAuthConfig) AdminAuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = time.Hour
	}
	return &adminAuthService{cfg: cfg, now: time.Now}
}

// CheckKey compares key against the configured admin secret. A bcrypt hash
// takes precedence over the plain value. With neither configured every key
// is rejected.
func (s *adminAuthService) CheckKey(key string) error {
	if key == "" {
		return apperrors.ErrUnauthorized("Unauthorized")
	}
	if s.cfg.ViewKeyHash != "" {
		if bcrypt.CompareHashAndPassword([]byte(s.cfg.ViewKeyHash), []byte(key)) != nil {
			return apperrors.ErrUnauthorized("Unauthorized")
		}
		return nil
	}
	if s.cfg.ViewKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(s.cfg.ViewKey)) != 1 {
		return apperrors.ErrUnauthorized("Unauthorized")
	}
	return nil
}

// Login exchanges the admin key for a short-lived HS256 token.
func (s *adminAuthService) Login(key string) (string, error) {
	if err := s.CheckKey(key); err != nil {
		return "", err
	}
	if s.cfg.JWTSecret == "" {
		return "", apperrors.ErrTransient("Admin login is not configured.", errors.New("JWT_SECRET not set"))
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   adminSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *adminAuthService) ValidateToken(tokenString string) error {
	if s.cfg.JWTSecret == "" || tokenString == "" {
		return apperrors.ErrUnauthorized("Unauthorized")
	}
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid || claims.Subject != adminSubject {
		return apperrors.ErrUnauthorized("Unauthorized")
	}
	return nil
}

// HashAdminKey produces a value suitable for ADMIN_VIEW_KEY_HASH.
func HashAdminKey(key string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	return string(bytes), err
}
