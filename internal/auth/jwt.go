package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"admin-service/internal/rbac"
)

// Claims is the identity embedded in every issued token: subject id, email
// and role, plus the registered issuance/expiry timestamps. Immutable after
// issuance; the server keeps no session state alongside it.
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   rbac.Role `json:"role"`
	jwt.RegisteredClaims
}

type TokenService struct {
	secret []byte
	expiry time.Duration

	// timeFunc is the clock used for issuing and verifying. Tests pin it.
	timeFunc func() time.Time
}

func NewTokenService(secret string, expiry time.Duration) *TokenService {
	return &TokenService{
		secret:   []byte(secret),
		expiry:   expiry,
		timeFunc: time.Now,
	}
}

// Issue encodes the identity into a signed HS256 token expiring after the
// configured lifetime.
func (s *TokenService) Issue(userID uuid.UUID, email string, role rbac.Role) (string, error) {
	now := s.timeFunc()
	claims := Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks signature and expiry and returns the embedded claims.
// Pure function of (token, clock, secret): no I/O, no side effects.
// Callers must treat any returned error as a single "invalid token" outcome.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf(msgUnexpectedSigningMethod, token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.timeFunc),
	)

	if err != nil {
		return nil, fmt.Errorf(msgTokenParseFailed, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf(msgInvalidTokenClaims)
	}

	if !rbac.Valid(claims.Role) {
		return nil, fmt.Errorf(msgInvalidTokenClaims)
	}

	return claims, nil
}
