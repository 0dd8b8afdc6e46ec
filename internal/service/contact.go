package service

import (
	"context"
	"log/slog"
	"strings"

	apperrors "github.com/folioworks/folio/internal/errors"
)

// ContactMessage is a submission of the public contact form.
type ContactMessage struct {
	Name    string
	Email   string
	Message string
}

// ContactService accepts contact form submissions. Messages are only logged;
// nothing is sent over the network.
type ContactService struct {
	logger    *slog.Logger
	sanitizer *textSanitizer
}

// NewContactService constructs a new ContactService.
func NewContactService(logger *slog.Logger) *ContactService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContactService{
		logger:    logger.With("component", "contact_service"),
		sanitizer: newTextSanitizer(),
	}
}

// Submit validates and records msg.
func (s *ContactService) Submit(ctx context.Context, msg ContactMessage) error {
	clean := ContactMessage{
		Name:    s.sanitizer.Clean(msg.Name),
		Email:   strings.TrimSpace(msg.Email),
		Message: s.sanitizer.Clean(msg.Message),
	}
	switch {
	case clean.Name == "":
		return apperrors.ValidationField("name", "Please enter your name")
	case clean.Email == "" || !strings.Contains(clean.Email, "@"):
		return apperrors.ValidationField("email", "Please enter a valid email address")
	case clean.Message == "":
		return apperrors.ValidationField("message", "Please enter a message")
	}

	s.logger.InfoContext(ctx, "contact form submitted",
		"name", clean.Name,
		"email", clean.Email,
		"message", clean.Message,
	)
	return nil
}
