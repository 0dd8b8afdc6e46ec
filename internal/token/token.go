// Package token decodes Credential Tokens issued by the portfolio backend.
//
// The signature segment is never checked here: trust is delegated to the
// issuing backend and to transport security. See Verifier for the opt-in
// signature check.
package token

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domainauth "github.com/folioworks/folio/internal/domain/auth"
)

// ErrMalformed is returned for tokens whose claims cannot be recovered.
var ErrMalformed = errors.New("malformed credential token")

// ClaimID is an identifier claim that the backend may encode as a string or a number.
type ClaimID string

// UnmarshalJSON accepts JSON strings and numbers.
func (c *ClaimID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*c = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = ClaimID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id claim: %w", err)
	}
	*c = ClaimID(n.String())
	return nil
}

// Claims is the decoded payload of a Credential Token.
type Claims struct {
	UserID ClaimID `json:"id,omitempty"`
	Email  string  `json:"email,omitempty"`
	Name   string  `json:"name,omitempty"`
	Role   string  `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Identity projects the claims into the session identity, defaulting the role to visitor.
func (c *Claims) Identity() domainauth.Identity {
	if c == nil {
		return domainauth.Identity{Role: domainauth.RoleVisitor}
	}
	id := string(c.UserID)
	if id == "" {
		id = c.Subject
	}
	return domainauth.Identity{
		ID:    id,
		Email: c.Email,
		Name:  c.Name,
		Role:  domainauth.ParseRole(c.Role),
	}
}

// Expiry returns the exp claim and whether it was present.
func (c *Claims) Expiry() (time.Time, bool) {
	if c == nil || c.ExpiresAt == nil {
		return time.Time{}, false
	}
	return c.ExpiresAt.Time, true
}

// Decoder turns raw tokens into claims. The zero value is usable and reads the wall clock.
type Decoder struct {
	// Now overrides the clock used for expiry checks.
	Now func() time.Time
}

// NewDecoder returns a Decoder using the given clock; nil means time.Now.
func NewDecoder(now func() time.Time) *Decoder {
	return &Decoder{Now: now}
}

func (d *Decoder) now() time.Time {
	if d != nil && d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// parser is only used for its segment decoding, which tolerates padding.
var parser = jwt.NewParser(jwt.WithPaddingAllowed())

// Decode extracts the claims of raw. Only the payload segment is read: the
// header and signature must be present but are neither decoded nor checked.
func (d *Decoder) Decode(raw string) (*Claims, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: empty token", ErrMalformed)
	}
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: expected 3 segments, got %d", ErrMalformed, len(parts))
	}
	payload, err := parser.DecodeSegment(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: decode payload: %w", ErrMalformed, err)
	}
	claims := &Claims{}
	if err := json.Unmarshal(payload, claims); err != nil {
		return nil, fmt.Errorf("%w: parse claims: %w", ErrMalformed, err)
	}
	return claims, nil
}

// IsExpired reports whether raw must be treated as expired. It fails closed:
// undecodable tokens and tokens without exp are expired.
func (d *Decoder) IsExpired(raw string) bool {
	claims, err := d.Decode(raw)
	if err != nil {
		return true
	}
	return d.ClaimsExpired(claims)
}

// ClaimsExpired applies the expiry rule to already decoded claims.
func (d *Decoder) ClaimsExpired(claims *Claims) bool {
	exp, ok := claims.Expiry()
	if !ok {
		return true
	}
	return exp.Before(d.now())
}
