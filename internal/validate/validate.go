// Package validate normalizes and rejects malformed chat request payloads.
package validate

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// MaxMessageLength is the maximum accepted message length after trimming.
const MaxMessageLength = 10000

var (
	// Canonical UUID textual pattern: 8-4-4-4-12 hex groups, version nibble
	// 1-5, variant nibble 8-9-a-b.
	sessionIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[1-5][0-9a-fA-F]{3}-[89abAB][0-9a-fA-F]{3}-[0-9a-fA-F]{12}$`)

	userIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

	// tagPattern matches complete markup tags. Input whose text collapses to
	// nothing once tags are stripped is rejected rather than escaped.
	tagPattern = regexp.MustCompile(`<[^>]*>`)

	escaper = strings.NewReplacer(
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#x27;",
		"/", "&#x2F;",
	)
)

// Input is the raw request payload.
type Input struct {
	Message   string
	SessionID string
	UserID    string
}

// Result is a normalized payload. Message is sanitized; SessionID is always
// populated (generated when the caller supplied none); UserID may be empty.
type Result struct {
	Message   string
	SessionID string
	UserID    string
}

// Validate checks and normalizes the input. All applicable errors are
// collected and returned together, not short-circuited, so a UI can show
// every problem at once.
func Validate(in Input) (*Result, []string) {
	var errs []string

	message := strings.TrimSpace(in.Message)
	switch {
	case message == "":
		errs = append(errs, "Message is required and cannot be empty")
	case len(message) > MaxMessageLength:
		errs = append(errs, "Message exceeds maximum length of 10000 characters")
	case strings.TrimSpace(tagPattern.ReplaceAllString(message, "")) == "":
		errs = append(errs, "Message contains invalid characters")
	}

	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		sessionID = uuid.New().String()
	} else if !sessionIDPattern.MatchString(sessionID) {
		errs = append(errs, "Invalid session ID format")
	}

	userID := strings.TrimSpace(in.UserID)
	if userID != "" && !userIDPattern.MatchString(userID) {
		errs = append(errs, "Invalid user ID format")
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return &Result{
		Message:   escaper.Replace(message),
		SessionID: sessionID,
		UserID:    userID,
	}, nil
}
