package models

import (
	"github.com/golang-jwt/jwt/v5"
)

type TokenClaims struct {
	UserID string `json:"user_id"`
	Login  string `json:"login"`
	Admin  bool   `json:"admin"`
	jwt.RegisteredClaims
}
