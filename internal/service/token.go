package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/guttosm/distribution-service/internal/domain/model"
)

var (
	// ErrInvalidToken is returned when a token cannot be parsed or fails validation.
	ErrInvalidToken = errors.New("invalid token")
	// ErrUnknownRole is returned when a token carries a role this service does not know.
	ErrUnknownRole = errors.New("unknown role")
)

// SessionClaims is the JWT payload. The subject is the user id.
type SessionClaims struct {
	Role    model.Role `json:"role"`
	RouteID string     `json:"route_id,omitempty"`
	TruckID string     `json:"truck_id,omitempty"`
	jwt.RegisteredClaims
}

// TokenConfig holds token signing settings.
type TokenConfig struct {
	SecretKey string
	Issuer    string
	TTL       time.Duration
}

// SessionTokens issues and verifies HS256 session tokens.
type SessionTokens struct {
	secret []byte
	issuer string
	ttl    time.Duration
	clock  func() time.Time
}

// NewSessionTokens creates a token codec.
func NewSessionTokens(cfg TokenConfig) *SessionTokens {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &SessionTokens{secret: []byte(cfg.SecretKey), issuer: cfg.Issuer, ttl: ttl, clock: time.Now}
}

// Issue signs a token for session. Date is not carried; it is chosen per request.
func (t *SessionTokens) Issue(session model.Session) (string, error) {
	if session.UserID == "" {
		return "", errors.New("session user id is empty, cannot create token")
	}
	if !validRole(session.Role) {
		return "", fmt.Errorf("%q: %w", session.Role, ErrUnknownRole)
	}
	now := t.clock()
	claims := SessionClaims{
		Role:    session.Role,
		RouteID: session.RouteID,
		TruckID: session.TruckID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.UserID,
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses tokenString and returns the session it carries.
func (t *SessionTokens) Verify(tokenString string) (model.Session, error) {
	opts := []jwt.ParserOption{jwt.WithTimeFunc(t.clock), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if t.issuer != "" {
		opts = append(opts, jwt.WithIssuer(t.issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return t.secret, nil
	}, opts...)
	if err != nil {
		return model.Session{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return model.Session{}, ErrInvalidToken
	}
	if !validRole(claims.Role) {
		return model.Session{}, fmt.Errorf("%w: %q", ErrUnknownRole, claims.Role)
	}
	return model.Session{
		UserID:  claims.Subject,
		Role:    claims.Role,
		RouteID: claims.RouteID,
		TruckID: claims.TruckID,
	}, nil
}

func validRole(r model.Role) bool {
	return r == model.RoleAdmin || r == model.RoleDriver
}
