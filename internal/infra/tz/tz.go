package tz

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

// Resolver loads IANA zones, using the embedded database when the system has none.
type Resolver struct{}

func (Resolver) Resolve(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("empty timezone")
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", name, err)
	}
	return loc, nil
}
