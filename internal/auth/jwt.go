// internal/auth/jwt.go
package auth

import (
	"errors"
	"log/slog"
	"time"

	"crimson-finance/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

type TokenService struct {
	secretKey []byte
	issuer    string
	expiresIn time.Duration
}

func NewTokenService(cfg config.Config) *TokenService {
	return &TokenService{
		secretKey: []byte(cfg.JWTSecret),
		issuer:    cfg.JWTIssuer,
		expiresIn: cfg.JWTExpiresIn,
	}
}

func (s *TokenService) GenerateToken(profileID int64, email string) (string, error) {
	expTime := time.Now().Add(s.expiresIn)
	claims := jwt.MapClaims{
		"profile_id": profileID,
		"sub":        email,
		"iss":        s.issuer,
		"exp":        expTime.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenStr, err := token.SignedString(s.secretKey)
	if err == nil {
		slog.Info("JWT generated", "profile_id", profileID, "expires_at", expTime.Format("2006-01-02 15:04:05"))
	}
	return tokenStr, err
}

func (s *TokenService) ParseToken(tokenStr string) (int64, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secretKey, nil
	}, jwt.WithIssuer(s.issuer))
	if err != nil {
		return 0, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		if idFloat, ok := claims["profile_id"].(float64); ok {
			profileID := int64(idFloat)
			if profileID <= 0 {
				return 0, errors.New("invalid profile_id")
			}
			slog.Debug("JWT parsed successfully", "profile_id", profileID)
			return profileID, nil
		}
	}
	return 0, errors.New("invalid token claims")
}
