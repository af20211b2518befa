package assembler

import (
	"strings"
	"time"
	_ "time/tzdata"
)

// zoneCache resolves IANA zone names once per run. Unknown names are cached as nil.
type zoneCache struct {
	locations map[string]*time.Location
}

func newZoneCache() *zoneCache {
	return &zoneCache{locations: make(map[string]*time.Location)}
}

func (c *zoneCache) lookup(name string) *time.Location {
	name = strings.TrimSpace(name)
	if name == "" || name == "Local" {
		return nil
	}
	if loc, ok := c.locations[name]; ok {
		return loc
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		loc = nil
	}
	c.locations[name] = loc
	return loc
}

// toLocal converts a UTC instant to the wall clock of zone and drops the zone.
// It returns nil when either input is absent or the zone is unknown.
func (c *zoneCache) toLocal(utc *time.Time, zone *string) *time.Time {
	if utc == nil || zone == nil {
		return nil
	}
	loc := c.lookup(*zone)
	if loc == nil {
		return nil
	}
	local := naive(utc.In(loc))
	return &local
}

// ConvertToLocal is the package-level form of the zone conversion used during assembly.
func ConvertToLocal(utc *time.Time, zone *string) *time.Time {
	return newZoneCache().toLocal(utc, zone)
}

func naive(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// firstPresent returns the first non-absent zone name.
func firstPresent(zones ...*string) *string {
	for _, z := range zones {
		if z != nil {
			return z
		}
	}
	return nil
}
