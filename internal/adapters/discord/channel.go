package discord

import (
	"regexp"
	"strings"
)

const (
	maxChannelNameLength = 100
	fallbackChannelName  = "event"
)

// Keeps letters (accented included), digits and dashes; everything else becomes a dash.
var (
	channelNameSanitize = regexp.MustCompile(`[^\p{L}\p{N}-]+`)
	repeatedDashes      = regexp.MustCompile(`-{2,}`)
)

func sanitizeChannelName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = channelNameSanitize.ReplaceAllString(s, "-")
	s = repeatedDashes.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if r := []rune(s); len(r) > maxChannelNameLength {
		s = strings.TrimRight(string(r[:maxChannelNameLength]), "-")
	}
	if s == "" {
		return fallbackChannelName
	}
	return s
}
