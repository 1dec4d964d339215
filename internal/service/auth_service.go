package service

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleUser      = "user"
	RoleShopOwner = "shop_owner"
	RoleAdmin     = "admin"
)

var ErrInvalidToken = errors.New("invalid token")

// Valida localmente los JWT que emite el backend (HS256, mismo secreto).
type AuthService struct {
	secret []byte
}

// AuthUser es lo que se saca de los claims. Token se guarda para reenviarlo al backend.
type AuthUser struct {
	ID    string
	Role  string
	Token string
}

func NewAuthService(secret string) *AuthService {
	return &AuthService{secret: []byte(secret)}
}

// Verifica si el usuario puede operar las órdenes de una tienda.
func (a *AuthService) IsShopOwner(user *AuthUser) bool {
	return user != nil && user.Role == RoleShopOwner
}

// Valida firma y vencimiento. Un token sin "role" es de comprador.
func (a *AuthService) ValidateToken(token string) (*AuthUser, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	role, _ := claims["role"].(string)
	if role == "" {
		role = RoleUser
	}

	return &AuthUser{ID: sub, Role: role, Token: token}, nil
}
