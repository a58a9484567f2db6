package jwtmw

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Generator issues and verifies HS256 access tokens.
type Generator struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
}

// Claims is the verified payload of an access token.
type Claims struct {
	UserID uint
	Email  string
	Role   string
}

var ErrInvalidToken = errors.New("invalid token")

// NewGenerator creates a generator with the provided secret and expiration duration.
func NewGenerator(secret string, expiration time.Duration) *Generator {
	return &Generator{
		secret:     []byte(secret),
		expiration: expiration,
		now:        time.Now,
	}
}

// GenerateToken creates a signed JWT carrying the user's id, email and role.
func (g *Generator) GenerateToken(userID uint, email, role string) (string, error) {
	now := g.now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"exp":   now.Add(g.expiration).Unix(),
		"iat":   now.Unix(),
		"email": email,
		"role":  role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Parse verifies the signature and expiry of tokenStr and returns its claims.
func (g *Generator) Parse(tokenStr string) (*Claims, error) {
	return parse(tokenStr, g.secret)
}

func parse(tokenStr string, secret []byte) (*Claims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		// only HMAC is accepted
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	sub, ok := mc["sub"].(float64) // JWT numbers are decoded as float64
	if !ok || sub <= 0 {
		return nil, ErrInvalidToken
	}
	email, _ := mc["email"].(string)
	role, _ := mc["role"].(string)

	return &Claims{UserID: uint(sub), Email: email, Role: role}, nil
}
