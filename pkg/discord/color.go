package discord

import (
	"regexp"
	"strconv"
	"strings"

	"eventbot/internal/domain"
)

var hexColor = regexp.MustCompile(`^(?:#|0x)?([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

var namedColors = map[string]int{
	"aqua":    0x00FFFF,
	"black":   0x000000,
	"blue":    0x0000FF,
	"crimson": 0xDC143C,
	"cyan":    0x00FFFF,
	"fuchsia": 0xFF00FF,
	"gold":    0xFFD700,
	"grey":    0x808080,
	"green":   0x008000,
	"lime":    0x00FF00,
	"magenta": 0xFF00FF,
	"red":     0xFF0000,
	"silver":  0xC0C0C0,
	"white":   0xFFFFFF,
	"yellow":  0xFFFF00,
}

// ParseColor accepts #RRGGBB, #RGB (with or without prefix) or a color name. Empty input yields nil.
func ParseColor(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if c, ok := namedColors[strings.ToLower(s)]; ok {
		return &c, nil
	}
	m := hexColor.FindStringSubmatch(s)
	if m == nil {
		return nil, domain.ErrInvalidColor
	}
	hex := m[1]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	v, err := strconv.ParseInt(hex, 16, 32)
	if err != nil {
		return nil, domain.Wrap(domain.ErrInvalidColor, err)
	}
	c := int(v)
	return &c, nil
}
