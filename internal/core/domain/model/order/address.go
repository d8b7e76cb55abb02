package order

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrAddressIsNotConstructed is returned when an Address bypassed NewAddress.
var ErrAddressIsNotConstructed = errors.New("Address must be created via NewAddress constructor")

// Address is the delivery destination for an order. The zone tag partitions
// route-solving; the geo point is optional because not every address geocodes
// at checkout, but route optimization fails fast on orders that still lack
// coordinates when a run starts.
type Address struct {
	street   string
	suburb   string
	state    string
	postcode string
	zone     kernel.Zone
	geo      *kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewAddress creates a validated delivery address. geo may be nil when the
// address has not been geocoded yet.
func NewAddress(
	street, suburb, state, postcode string,
	zone kernel.Zone,
	geo *kernel.GeoPoint,
) (Address, error) {
	addr := Address{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		addr.setStreet(street),
		addr.setSuburb(suburb),
		addr.setState(state),
		addr.setPostcode(postcode),
		addr.setZone(zone),
		addr.setGeo(geo),
	); err != nil {
		return Address{}, err
	}

	return addr, nil
}

// Validate ensures the address was created through the constructor.
func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

// Street returns the street line.
func (a Address) Street() string {
	return a.street
}

// Suburb returns the suburb.
func (a Address) Suburb() string {
	return a.suburb
}

// State returns the state or territory code.
func (a Address) State() string {
	return a.state
}

// Postcode returns the postcode.
func (a Address) Postcode() string {
	return a.postcode
}

// Zone returns the delivery zone tag.
func (a Address) Zone() kernel.Zone {
	return a.zone
}

// Geo returns the geocoded coordinates, or nil when the address has none.
func (a Address) Geo() *kernel.GeoPoint {
	return a.geo
}

// HasGeo reports whether the address carries coordinates.
func (a Address) HasGeo() bool {
	return a.geo != nil
}

func (a *Address) setStreet(street string) error {
	if street == "" {
		return errs.NewValueIsRequiredError("street")
	}
	a.street = street
	return nil
}

func (a *Address) setSuburb(suburb string) error {
	if suburb == "" {
		return errs.NewValueIsRequiredError("suburb")
	}
	a.suburb = suburb
	return nil
}

func (a *Address) setState(state string) error {
	if state == "" {
		return errs.NewValueIsRequiredError("state")
	}
	a.state = state
	return nil
}

func (a *Address) setPostcode(postcode string) error {
	if postcode == "" {
		return errs.NewValueIsRequiredError("postcode")
	}
	a.postcode = postcode
	return nil
}

func (a *Address) setZone(zone kernel.Zone) error {
	if err := zone.Validate(); err != nil {
		return err
	}
	a.zone = zone
	return nil
}

func (a *Address) setGeo(geo *kernel.GeoPoint) error {
	if geo != nil {
		if err := geo.Validate(); err != nil {
			return err
		}
	}
	a.geo = geo
	return nil
}
