package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrMissingIdentity     = errors.New("token carries no identity")
	ErrInvalidUploadTicket = errors.New("invalid or expired upload ticket")
)

// IdentityClaims are the claims the identity provider signs into caller tokens.
type IdentityClaims struct {
	TokenIdentifier string `json:"token_identifier,omitempty"`
	Name            string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Identity returns the stable identifier of the caller, preferring the explicit
// token_identifier claim over the subject.
func (c *IdentityClaims) Identity() string {
	if c.TokenIdentifier != "" {
		return c.TokenIdentifier
	}
	return c.Subject
}

type UploadTicketClaims struct {
	StorageRef string `json:"storage_ref"`
	jwt.RegisteredClaims
}

func GenerateIdentityToken(tokenIdentifier, issuer, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &IdentityClaims{
		TokenIdentifier: tokenIdentifier,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   tokenIdentifier,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyIdentityToken validates an HS256 caller token. An empty issuer skips
// the issuer check.
func VerifyIdentityToken(tokenString, secret, issuer string) (*IdentityClaims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}

	claims := &IdentityClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, opts...)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Identity() == "" {
		return nil, ErrMissingIdentity
	}
	return claims, nil
}

func GenerateUploadTicket(storageRef, secret string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := &UploadTicketClaims{
		StorageRef: storageRef,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func VerifyUploadTicket(ticket, secret string) (string, error) {
	claims := &UploadTicketClaims{}
	token, err := jwt.ParseWithClaims(ticket, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid || claims.StorageRef == "" {
		return "", ErrInvalidUploadTicket
	}
	return claims.StorageRef, nil
}
