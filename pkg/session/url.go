package session

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var ErrBadMeetingURL = errors.New("invalid meeting url")

var meetCodePattern = regexp.MustCompile(`^[a-z]{3}-[a-z]{4}-[a-z]{3}$`)

// NormalizeMeetingURL accepts a full meet.google.com link or a bare
// meeting code ("abc-defg-hij") and returns a canonical https URL.
func NormalizeMeetingURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrBadMeetingURL
	}

	if meetCodePattern.MatchString(raw) {
		return fmt.Sprintf("https://meet.google.com/%s", raw), nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", ErrBadMeetingURL
	}
	if u.Scheme == "" {
		u, err = url.Parse("https://" + raw)
		if err != nil {
			return "", ErrBadMeetingURL
		}
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return "", ErrBadMeetingURL
	}
	if !strings.EqualFold(u.Host, "meet.google.com") {
		return "", ErrBadMeetingURL
	}

	code := strings.Trim(u.Path, "/")
	if !meetCodePattern.MatchString(code) {
		return "", ErrBadMeetingURL
	}

	return fmt.Sprintf("https://meet.google.com/%s", code), nil
}
