package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/folioworks/folio/internal/token"
)

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Credential token utilities",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "inspect <token>",
		Short: "Decode a credential token and print the session it would produce",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return inspectToken(cmd.OutOrStdout(), token.NewDecoder(nil), args[0])
		},
	})
	return cmd
}

type tokenReport struct {
	ID        string     `json:"id,omitempty"`
	Email     string     `json:"email,omitempty"`
	Name      string     `json:"name,omitempty"`
	Role      string     `json:"role"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Expired   bool       `json:"expired"`
}

func inspectToken(out io.Writer, dec *token.Decoder, raw string) error {
	claims, err := dec.Decode(raw)
	if err != nil {
		return fmt.Errorf("decode token: %w", err)
	}
	id := claims.Identity()
	report := tokenReport{
		ID:      id.ID,
		Email:   id.Email,
		Name:    id.Name,
		Role:    string(id.Role),
		Expired: dec.ClaimsExpired(claims),
	}
	if exp, ok := claims.Expiry(); ok {
		exp = exp.UTC()
		report.ExpiresAt = &exp
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
