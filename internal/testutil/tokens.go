package testutil

import (
	"encoding/base64"
	"encoding/json"
	"time"
)

// MakeToken builds an unsigned three-segment token with the given claims.
// The signature segment is a fixed placeholder; clients never check it.
func MakeToken(t TestingTB, claims map[string]any) string {
	t.Helper()
	header, err := json.Marshal(map[string]any{"alg": "HS256", "typ": "JWT"})
	if err != nil {
		t.Fatalf("marshal header: %v", err)
	}
	payload, err := json.Marshal(claims)
	if err != nil {
		t.Fatalf("marshal claims: %v", err)
	}
	enc := base64.RawURLEncoding
	return enc.EncodeToString(header) + "." + enc.EncodeToString(payload) + ".c2lnbmF0dXJl"
}

// AdminToken returns a token for an admin expiring at exp.
func AdminToken(t TestingTB, exp time.Time) string {
	t.Helper()
	return MakeToken(t, map[string]any{
		"id":    "u-admin",
		"email": "admin@example.com",
		"name":  "Admin",
		"role":  "admin",
		"exp":   exp.Unix(),
	})
}

// VisitorToken returns a token for a visitor expiring at exp.
func VisitorToken(t TestingTB, exp time.Time) string {
	t.Helper()
	return MakeToken(t, map[string]any{
		"id":    "u-visitor",
		"email": "visitor@example.com",
		"role":  "visitor",
		"exp":   exp.Unix(),
	})
}
