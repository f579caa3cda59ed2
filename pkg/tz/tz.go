package tz

import (
	"fmt"
	"time"

	// embedded zone database for minimal container images
	_ "time/tzdata"
)

// Default is the zone used when none is configured.
const Default = "Europe/Zurich"

// Load resolves a zone name; an empty name resolves Default.
func Load(name string) (*time.Location, error) {
	if name == "" {
		name = Default
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("tz: load %s: %w", name, err)
	}
	return loc, nil
}
