package middleware

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxMessageLength bounds inbound chat messages in bytes.
const MaxMessageLength = 10000

var phonePattern = regexp.MustCompile(`^\+?[0-9]{6,20}$`)

// ValidateMessageContent validates message content.
func ValidateMessageContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return errors.New("message is required")
	}
	if len(content) > MaxMessageLength {
		return errors.New("message exceeds maximum length")
	}
	if !utf8.ValidString(content) {
		return errors.New("message must be valid UTF-8")
	}
	return nil
}

// ValidateConversationID validates a caller-supplied conversation ID.
func ValidateConversationID(id string) error {
	if id == "" {
		return errors.New("conversationId is required")
	}
	if len(id) > 128 {
		return errors.New("conversationId exceeds maximum length")
	}
	if strings.IndexFunc(id, unicode.IsControl) >= 0 {
		return errors.New("invalid conversationId format")
	}
	return nil
}

// ValidateTenantID validates a tenant ID.
func ValidateTenantID(id string) error {
	if len(id) == 0 {
		return errors.New("tenant ID is required")
	}
	if len(id) > 64 {
		return errors.New("tenant ID exceeds maximum length")
	}
	return nil
}

// NormalizePhone strips formatting from a phone number and validates it.
func NormalizePhone(phone string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '.':
			return -1
		}
		return r
	}, strings.TrimSpace(phone))
	cleaned = strings.TrimPrefix(cleaned, "whatsapp:")

	if cleaned == "" {
		return "", errors.New("phone is required")
	}
	if !phonePattern.MatchString(cleaned) {
		return "", errors.New("invalid phone number")
	}
	return cleaned, nil
}
