package services

import (
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/route"
	"fulfillment/internal/pkg/errs"
)

// StopDetail carries the per-order data the sequencer needs to turn a solved
// route into waypoints.
type StopDetail struct {
	OrderNumber int64
	Point       kernel.GeoPoint
}

// DriverSequence is one order's position within a single driver's load:
// contiguous delivery positions 1..M in global route order, and the matching
// last-in-first-out packing position for loading the van.
type DriverSequence struct {
	OrderID         kernel.UUID
	DriverID        kernel.UUID
	Sequence        int
	PackingSequence int
}

// Sequencer turns per-zone solver results into globally sequenced waypoints.
//
// Delivery sequence is the concatenation of zone routes in canonical zone
// order. Packing sequence is the exact reverse of the delivery sequence, so
// the truck is loaded last-zone first and, within a zone, last-stop first:
// item packed last comes off first.
type Sequencer struct {
	stopDwell time.Duration
}

// NewSequencer creates a Sequencer with the given per-stop dwell time, added
// between consecutive stops when accumulating arrival estimates.
func NewSequencer(stopDwell time.Duration) Sequencer {
	return Sequencer{stopDwell: stopDwell}
}

// BuildSequences assembles waypoints from per-zone solver results. Zones are
// visited in canonical order; arrival estimates accumulate from routeStart
// using solver driving durations plus the configured dwell at each stop.
// Every ordered id must have a matching entry in details, keyed by the
// order id string.
func (s Sequencer) BuildSequences(
	solved map[kernel.Zone]route.SolvedRoute,
	details map[string]StopDetail,
	routeStart time.Time,
) ([]route.Waypoint, []route.ZoneLeg, error) {
	var waypoints []route.Waypoint
	var legs []route.ZoneLeg

	seq := 0
	eta := routeStart
	for _, zone := range kernel.CanonicalZones() {
		sr, ok := solved[zone]
		if !ok {
			continue
		}
		if len(sr.Segments) != len(sr.OrderedIDs) {
			return nil, nil, errs.NewValueIsInvalidErrorWithCause("solvedRoute",
				fmt.Errorf("zone %s has %d segments for %d stops", zone, len(sr.Segments), len(sr.OrderedIDs)))
		}
		for i, id := range sr.OrderedIDs {
			detail, ok := details[id.String()]
			if !ok {
				return nil, nil, errs.NewObjectNotFoundErrorWithCause("orderID", id.String(),
					fmt.Errorf("solver returned order %s with no stop detail", id))
			}
			if seq > 0 {
				eta = eta.Add(s.stopDwell)
			}
			eta = eta.Add(time.Duration(sr.Segments[i].DurationSecs * float64(time.Second)))
			seq++
			waypoints = append(waypoints, route.Waypoint{
				OrderID:        id,
				OrderNumber:    detail.OrderNumber,
				Zone:           zone,
				Sequence:       seq,
				Point:          detail.Point,
				EstimatedAt:    eta,
				DistanceMeters: sr.Segments[i].DistanceMeters,
				DurationSecs:   sr.Segments[i].DurationSecs,
			})
		}
		legs = append(legs, route.ZoneLeg{Zone: zone, Geometry: sr.Geometry})
	}

	// Reversing zone groups and reversing stops within each group is a full
	// reversal of the delivery sequence.
	n := len(waypoints)
	for i := range waypoints {
		waypoints[i].PackingSequence = n - waypoints[i].Sequence + 1
	}

	return waypoints, legs, nil
}

// DriverStop is one ready order handed to PerDriverSequences: its assigned
// driver and its position on the global delivery route.
type DriverStop struct {
	OrderID        kernel.UUID
	DriverID       kernel.UUID
	GlobalSequence int
}

// PerDriverSequences splits the global route between drivers. Each driver
// gets contiguous delivery positions 1..M preserving global route order, and
// packing positions that are the reverse of their own delivery positions.
// Stops without a driver are skipped.
func (Sequencer) PerDriverSequences(stops []DriverStop) []DriverSequence {
	byDriver := make(map[string][]DriverStop)
	var driverOrder []string
	for _, st := range stops {
		if err := st.DriverID.Validate(); err != nil {
			continue
		}
		key := st.DriverID.String()
		if _, seen := byDriver[key]; !seen {
			driverOrder = append(driverOrder, key)
		}
		byDriver[key] = append(byDriver[key], st)
	}

	var out []DriverSequence
	for _, key := range driverOrder {
		group := byDriver[key]
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				if group[j].GlobalSequence < group[i].GlobalSequence {
					group[i], group[j] = group[j], group[i]
				}
			}
		}
		m := len(group)
		for i, st := range group {
			out = append(out, DriverSequence{
				OrderID:         st.OrderID,
				DriverID:        st.DriverID,
				Sequence:        i + 1,
				PackingSequence: m - i,
			})
		}
	}
	return out
}
