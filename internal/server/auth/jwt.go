// Package auth issues and verifies the HS256 tokens handed out by the
// DocAssist backend.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/docassist/internal/common"
)

// TokenType tells an access token from a refresh token. A token of one type
// is never accepted where the other is expected.
type TokenType string

const (
	Access  TokenType = "access"
	Refresh TokenType = "refresh"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrWrongTokenType = errors.New("wrong token type")
)

// Claims are the registered claims plus the token type. The user id travels
// in the subject.
type Claims struct {
	Type TokenType `json:"typ"`
	jwt.RegisteredClaims
}

type Issuer struct {
	secret []byte
	now    func() time.Time
}

// NewIssuer returns an Issuer signing with secret. now defaults to time.Now.
func NewIssuer(secret []byte, now func() time.Time) *Issuer {
	if now == nil {
		now = time.Now
	}
	return &Issuer{secret: secret, now: now}
}

func (i *Issuer) GenerateToken(userID string, typ TokenType, validity time.Duration) (string, error) {
	jti, err := common.MakeRandHexString(16)
	if err != nil {
		return "", err
	}
	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Type: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "docassist",
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
			ID:        jti,
		},
	})
	return token.SignedString(i.secret)
}

// UserID verifies tokenString and returns its subject.
func (i *Issuer) UserID(tokenString string, typ TokenType) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(i.now))
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	if claims.Type != typ {
		return "", ErrWrongTokenType
	}
	return claims.Subject, nil
}
