package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/agentfree/sessionkit/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenIssuer mints session tokens and recovers the user id they embed.
type TokenIssuer interface {
	Issue(userID string, at time.Time) (string, error)
	UserID(token string) (string, error)
}

const opaquePrefix = "mock-jwt-token-"

// OpaqueIssuer produces "mock-jwt-token-<userID>-<unixMillis>". It carries no
// signature and is only meant for local development.
type OpaqueIssuer struct{}

func (OpaqueIssuer) Issue(userID string, at time.Time) (string, error) {
	if userID == "" {
		return "", errors.New("empty user id")
	}
	return fmt.Sprintf("%s%s-%d", opaquePrefix, userID, at.UnixMilli()), nil
}

func (OpaqueIssuer) UserID(token string) (string, error) {
	rest, ok := strings.CutPrefix(token, opaquePrefix)
	if !ok {
		return "", common.ErrInvalidToken
	}
	i := strings.LastIndex(rest, "-")
	if i <= 0 {
		return "", common.ErrInvalidToken
	}
	if _, err := strconv.ParseInt(rest[i+1:], 10, 64); err != nil {
		return "", common.ErrInvalidToken
	}
	return rest[:i], nil
}

// Claims carries the user id next to the registered claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
}

// JWTIssuer signs HS256 tokens, for clients that decode the session token.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTIssuer(secret []byte, ttl time.Duration) *JWTIssuer {
	return &JWTIssuer{secret: secret, ttl: ttl, now: time.Now}
}

func (j *JWTIssuer) Issue(userID string, at time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(at),
			ExpiresAt: jwt.NewNumericDate(at.Add(j.ttl)),
		},
		UserID: userID,
	})

	tokenString, err := token.SignedString(j.secret)
	if err != nil {
		return "", err
	}
	return tokenString, nil
}

func (j *JWTIssuer) UserID(tokenString string) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return j.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(j.now))
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	return claims.UserID, nil
}
