package kernel

import (
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// Zone is a named geographic delivery grouping used to partition
// route-solving. Zones are always iterated in canonical order
// (north, east, south, west) so optimization output is deterministic
// across runs with identical input.
type Zone int

const (
	// ZoneUnknown is the invalid zero value.
	ZoneUnknown Zone = iota
	ZoneNorth
	ZoneEast
	ZoneSouth
	ZoneWest
)

func zoneStrings() map[Zone]string {
	return map[Zone]string{
		ZoneNorth: "north",
		ZoneEast:  "east",
		ZoneSouth: "south",
		ZoneWest:  "west",
	}
}

// CanonicalZones returns all zones in the fixed processing order.
func CanonicalZones() []Zone {
	return []Zone{ZoneNorth, ZoneEast, ZoneSouth, ZoneWest}
}

// ZoneFromString parses a zone tag, case-insensitively.
func ZoneFromString(s string) (Zone, error) {
	for zone, name := range zoneStrings() {
		if strings.EqualFold(s, name) {
			return zone, nil
		}
	}
	return ZoneUnknown, errs.NewValueIsInvalidErrorWithCause("zone",
		fmt.Errorf("%q is not a known zone", s))
}

// Validate checks the zone is one of the canonical values.
func (z Zone) Validate() error {
	if _, ok := zoneStrings()[z]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("zone",
			fmt.Errorf("%d is not a valid zone", z))
	}
	return nil
}

// String returns the lowercase zone tag, or "unknown" for invalid values.
func (z Zone) String() string {
	if s, ok := zoneStrings()[z]; ok {
		return s
	}
	return "unknown"
}
