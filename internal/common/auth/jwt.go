// Package auth verifies the bearer tokens that identify API callers.
package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"nagarik-sewa/internal/common/errors"
	"nagarik-sewa/internal/models"
)

// Claims carry the caller's account snapshot. The subject is the account id.
type Claims struct {
	Name        string               `json:"name"`
	Email       string               `json:"email,omitempty"`
	UserType    string               `json:"user_type"`
	OfficeLevel models.OfficeLevel   `json:"office_level,omitempty"`
	OfficeName  string               `json:"office_name,omitempty"`
	IsMonitor   bool                 `json:"is_monitor,omitempty"`
	Monitors    []models.OfficeLevel `json:"monitors,omitempty"`
	jwt.RegisteredClaims
}

// Account rebuilds the account the token was issued for.
func (c *Claims) Account() models.Account {
	return models.Account{
		ID:          c.Subject,
		Email:       c.Email,
		FullName:    c.Name,
		UserType:    c.UserType,
		OfficeLevel: c.OfficeLevel,
		OfficeName:  c.OfficeName,
		IsMonitor:   c.IsMonitor,
		Monitors:    c.Monitors,
	}
}

func (c *Claims) Identity() models.Identity {
	acct := c.Account()
	return models.Identity{Name: acct.FullName, Role: acct.Role()}
}

type JWTManager struct {
	secret   []byte
	issuer   string
	duration time.Duration
	now      func() time.Time
}

func NewJWTManager(secret, issuer string, duration time.Duration) *JWTManager {
	return &JWTManager{
		secret:   []byte(secret),
		issuer:   issuer,
		duration: duration,
		now:      time.Now,
	}
}

// Issue signs an HS256 token for acct. Only development tooling issues tokens.
func (m *JWTManager) Issue(acct models.Account) (string, error) {
	if acct.ID == "" {
		return "", fmt.Errorf("account id is required")
	}
	now := m.now()
	claims := Claims{
		Name:        acct.FullName,
		Email:       acct.Email,
		UserType:    acct.UserType,
		OfficeLevel: acct.OfficeLevel,
		OfficeName:  acct.OfficeName,
		IsMonitor:   acct.IsMonitor,
		Monitors:    acct.Monitors,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   acct.ID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.duration)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify parses and validates token. Every failure is reported as UNAUTHORIZED.
func (m *JWTManager) Verify(token string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, opts...)
	if err != nil {
		return nil, errors.NewUnauthorizedError(err.Error())
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, errors.NewUnauthorizedError("invalid token claims")
	}
	if claims.UserType != models.UserTypeCitizen && claims.UserType != models.UserTypeOfficial {
		return nil, errors.NewUnauthorizedError("unknown user type " + claims.UserType)
	}
	return claims, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
