package service

import (
	"errors"
	"strings"
	"time"

	"github.com/vitrine-next/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenExpireHours = 24

// HashPassword 使用 bcrypt 加密密码
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword 验证密码
func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// signToken 使用 HS256 签发 Token
func signToken(cfg config.JWTConfig, claims jwt.Claims) (string, error) {
	secret := strings.TrimSpace(cfg.SecretKey)
	if secret == "" {
		return "", errors.New("jwt secret is empty")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// parseToken 解析并校验 HS256 Token
func parseToken(cfg config.JWTConfig, tokenString string, claims jwt.Claims) error {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(cfg.SecretKey), nil
	})
	if err != nil {
		return ErrTokenInvalid
	}
	if !token.Valid {
		return ErrTokenInvalid
	}
	return nil
}

func registeredClaims(cfg config.JWTConfig, subject string, now time.Time) (jwt.RegisteredClaims, time.Time) {
	hours := cfg.ExpireHours
	if hours <= 0 {
		hours = defaultTokenExpireHours
	}
	expiresAt := now.Add(time.Duration(hours) * time.Hour)
	return jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}, expiresAt
}
