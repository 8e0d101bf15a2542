package service

import (
	"net/mail"
	"strings"
	"time"

	"github.com/eventplanner/eventplanner-api/internal/models"
)

const maxTitleLength = 255

func normalizeTitle(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", invalid("title is required")
	}
	if len(s) > maxTitleLength {
		return "", invalid("title is longer than %d characters", maxTitleLength)
	}
	return s, nil
}

// normalizeDate accepts YYYY-MM-DD or RFC3339 and returns YYYY-MM-DD.
func normalizeDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t.Format(time.DateOnly), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format(time.DateOnly), nil
	}
	return "", invalid("invalid date %q (use YYYY-MM-DD or RFC3339)", s)
}

// normalizeTime accepts HH:MM or HH:MM:SS and returns HH:MM.
func normalizeTime(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04", time.TimeOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04"), nil
		}
	}
	return "", invalid("invalid time %q (use HH:MM)", s)
}

func normalizeEmail(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", invalid("email is required")
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return "", invalid("invalid email %q", s)
	}
	return s, nil
}

// ResolveVisibility reconciles the private flag with the legacy isPublic
// and isPrivate flags. Any of them may be omitted; those given must agree.
// A nil result means "not specified".
func ResolveVisibility(private, isPublic, isPrivate *bool) (*models.Visibility, error) {
	var v *models.Visibility
	for _, flag := range []struct {
		set     *bool
		private bool
	}{
		{private, true},
		{isPrivate, true},
		{isPublic, false},
	} {
		if flag.set == nil {
			continue
		}
		got := models.VisibilityOf(*flag.set == flag.private)
		if v != nil && *v != got {
			return nil, invalid("private, isPrivate and isPublic contradict each other")
		}
		v = &got
	}
	return v, nil
}

// normalizeEmails validates a list of invitation emails. Duplicates, and
// the creator's own email, are rejected.
func normalizeEmails(emails []string, creatorEmail string) ([]string, error) {
	seen := make(map[string]struct{}, len(emails))
	out := make([]string, 0, len(emails))
	for _, e := range emails {
		email, err := normalizeEmail(e)
		if err != nil {
			return nil, err
		}
		if email == creatorEmail {
			return nil, invalid("the creator cannot be invited to their own event")
		}
		if _, dup := seen[email]; dup {
			return nil, invalid("duplicate invited email %q", email)
		}
		seen[email] = struct{}{}
		out = append(out, email)
	}
	return out, nil
}
