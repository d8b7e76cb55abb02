// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. This package implements the repository pattern for the
// order domain aggregate, handling the conversion between domain entities and
// database representations.
package orderrepo

import (
	"encoding/json"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Line items, shortfalls, reservations, and history live in jsonb columns:
// they are always loaded and saved with the whole aggregate and never queried
// relationally. Money totals are denormalized so the credit query can sum
// open orders without unpacking jsonb.
type OrderDTO struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Number          int64      `gorm:"uniqueIndex"`
	CustomerID      uuid.UUID  `gorm:"type:uuid;index"`
	DeliveryDate    time.Time  `gorm:"index"`
	Status          int        `gorm:"index"`
	BackorderStatus int
	Subtotal        int64
	Tax             int64
	Total           int64
	Lines           string     `gorm:"type:jsonb"`
	Shortfalls      string     `gorm:"type:jsonb"`
	Reserved        string     `gorm:"type:jsonb"`
	History         string     `gorm:"type:jsonb"`
	Address         AddressDTO `gorm:"embedded;embeddedPrefix:address_"`

	CreditBypassed      bool
	CreditJustification string
	CreditActor         string

	PackingSequence    int
	PackedSKUs         string `gorm:"type:jsonb"`
	PackingVersion     int64
	LastPackActivityAt time.Time

	DeliverySequence      int
	DriverID              *uuid.UUID `gorm:"type:uuid;index"`
	DriverSequence        int
	DriverPackingSequence int
	ProofOfDelivery       string
	DeliveredAt           *time.Time
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// AddressDTO represents the embedded delivery address within the order table.
// Coordinates are nullable until the address has been geocoded.
type AddressDTO struct {
	Street    string
	Suburb    string
	State     string
	Postcode  string
	Zone      int
	Latitude  *float64
	Longitude *float64
}

// LineJSON is the jsonb shape of one order line.
type LineJSON struct {
	ProductID  string `json:"productId"`
	SKU        string `json:"sku"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	UnitPrice  int64  `json:"unitPrice"`
	TaxRateBps int    `json:"taxRateBps"`
}

// ShortfallJSON is the jsonb shape of one shortfall record.
type ShortfallJSON struct {
	ProductID string `json:"productId"`
	SKU       string `json:"sku"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
	Shortfall int    `json:"shortfall"`
}

// ReservedJSON is the jsonb shape of one reserved stock line.
type ReservedJSON struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// HistoryJSON is the jsonb shape of one status history entry.
type HistoryJSON struct {
	Status int       `json:"status"`
	At     time.Time `json:"at"`
	Actor  string    `json:"actor"`
	Note   string    `json:"note"`
}

func fromDomain(o *order.Order) (OrderDTO, error) {
	lines := make([]LineJSON, 0, len(o.Lines()))
	for _, li := range o.Lines() {
		lines = append(lines, LineJSON{
			ProductID:  li.ProductID().String(),
			SKU:        li.SKU(),
			Name:       li.Name(),
			Quantity:   li.Quantity(),
			UnitPrice:  li.UnitPrice().Amount(),
			TaxRateBps: li.TaxRateBps(),
		})
	}

	shortfalls := make([]ShortfallJSON, 0, len(o.Shortfalls()))
	for _, sf := range o.Shortfalls() {
		shortfalls = append(shortfalls, ShortfallJSON{
			ProductID: sf.ProductID.String(),
			SKU:       sf.SKU,
			Requested: sf.Requested,
			Available: sf.Available,
			Shortfall: sf.Shortfall,
		})
	}

	reserved := make([]ReservedJSON, 0, len(o.ReservedLines()))
	for _, r := range o.ReservedLines() {
		reserved = append(reserved, ReservedJSON{ProductID: r.ProductID.String(), Quantity: r.Quantity})
	}

	history := make([]HistoryJSON, 0, len(o.History()))
	for _, h := range o.History() {
		history = append(history, HistoryJSON{Status: int(h.Status), At: h.At, Actor: h.Actor, Note: h.Note})
	}

	linesRaw, err := json.Marshal(lines)
	if err != nil {
		return OrderDTO{}, err
	}
	shortfallsRaw, err := json.Marshal(shortfalls)
	if err != nil {
		return OrderDTO{}, err
	}
	reservedRaw, err := json.Marshal(reserved)
	if err != nil {
		return OrderDTO{}, err
	}
	historyRaw, err := json.Marshal(history)
	if err != nil {
		return OrderDTO{}, err
	}

	packing := o.Packing()
	packedRaw, err := json.Marshal(packing.PackedSKUs)
	if err != nil {
		return OrderDTO{}, err
	}

	delivery := o.Delivery()
	var driverID *uuid.UUID
	if delivery.DriverID != nil {
		raw := delivery.DriverID.Bytes()
		driverID = &raw
	}

	addr := o.Address()
	var lat, lng *float64
	if geo := addr.Geo(); geo != nil {
		latVal, lngVal := geo.Latitude(), geo.Longitude()
		lat, lng = &latVal, &lngVal
	}

	bypass := o.CreditBypass()

	return OrderDTO{
		ID:              o.ID().Bytes(),
		Number:          o.Number(),
		CustomerID:      o.CustomerID().Bytes(),
		DeliveryDate:    o.DeliveryDate(),
		Status:          int(o.Status()),
		BackorderStatus: int(o.BackorderStatus()),
		Subtotal:        o.Subtotal().Amount(),
		Tax:             o.Tax().Amount(),
		Total:           o.Total().Amount(),
		Lines:           string(linesRaw),
		Shortfalls:      string(shortfallsRaw),
		Reserved:        string(reservedRaw),
		History:         string(historyRaw),
		Address: AddressDTO{
			Street:    addr.Street(),
			Suburb:    addr.Suburb(),
			State:     addr.State(),
			Postcode:  addr.Postcode(),
			Zone:      int(addr.Zone()),
			Latitude:  lat,
			Longitude: lng,
		},

		CreditBypassed:      bypass.Bypassed,
		CreditJustification: bypass.Justification,
		CreditActor:         bypass.Actor,

		PackingSequence:    packing.Sequence,
		PackedSKUs:         string(packedRaw),
		PackingVersion:     packing.Version,
		LastPackActivityAt: packing.LastActivityAt,

		DeliverySequence:      delivery.Sequence,
		DriverID:              driverID,
		DriverSequence:        delivery.DriverSequence,
		DriverPackingSequence: delivery.DriverPacking,
		ProofOfDelivery:       delivery.ProofOfDelivery,
		DeliveredAt:           delivery.DeliveredAt,
	}, nil
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	var linesJSON []LineJSON
	if err = json.Unmarshal([]byte(dto.Lines), &linesJSON); err != nil {
		return nil, err
	}
	lines := make([]order.LineItem, 0, len(linesJSON))
	for _, lj := range linesJSON {
		productID, pErr := kernel.UUIDFromString(lj.ProductID)
		if pErr != nil {
			return nil, pErr
		}
		line, lErr := order.NewLineItem(productID, lj.SKU, lj.Name, lj.Quantity, kernel.Money(lj.UnitPrice), lj.TaxRateBps)
		if lErr != nil {
			return nil, lErr
		}
		lines = append(lines, line)
	}

	var shortfallsJSON []ShortfallJSON
	if err = json.Unmarshal([]byte(dto.Shortfalls), &shortfallsJSON); err != nil {
		return nil, err
	}
	shortfalls := make([]order.ShortfallLine, 0, len(shortfallsJSON))
	for _, sj := range shortfallsJSON {
		productID, pErr := kernel.UUIDFromString(sj.ProductID)
		if pErr != nil {
			return nil, pErr
		}
		shortfalls = append(shortfalls, order.ShortfallLine{
			ProductID: productID,
			SKU:       sj.SKU,
			Requested: sj.Requested,
			Available: sj.Available,
			Shortfall: sj.Shortfall,
		})
	}

	var reservedJSON []ReservedJSON
	if err = json.Unmarshal([]byte(dto.Reserved), &reservedJSON); err != nil {
		return nil, err
	}
	reserved := make([]order.ReservedLine, 0, len(reservedJSON))
	for _, rj := range reservedJSON {
		productID, pErr := kernel.UUIDFromString(rj.ProductID)
		if pErr != nil {
			return nil, pErr
		}
		reserved = append(reserved, order.ReservedLine{ProductID: productID, Quantity: rj.Quantity})
	}

	var historyJSON []HistoryJSON
	if err = json.Unmarshal([]byte(dto.History), &historyJSON); err != nil {
		return nil, err
	}
	history := make([]order.HistoryEntry, 0, len(historyJSON))
	for _, hj := range historyJSON {
		history = append(history, order.HistoryEntry{
			Status: order.Status(hj.Status),
			At:     hj.At,
			Actor:  hj.Actor,
			Note:   hj.Note,
		})
	}

	var packedSKUs []string
	if err = json.Unmarshal([]byte(dto.PackedSKUs), &packedSKUs); err != nil {
		return nil, err
	}

	var geo *kernel.GeoPoint
	if dto.Address.Latitude != nil && dto.Address.Longitude != nil {
		point, gErr := kernel.NewGeoPoint(*dto.Address.Latitude, *dto.Address.Longitude)
		if gErr != nil {
			return nil, gErr
		}
		geo = &point
	}
	addr, err := order.NewAddress(
		dto.Address.Street, dto.Address.Suburb, dto.Address.State, dto.Address.Postcode,
		kernel.Zone(dto.Address.Zone), geo,
	)
	if err != nil {
		return nil, err
	}

	var driverID *kernel.UUID
	if dto.DriverID != nil {
		dID, dErr := kernel.UUIDFromBytes((*dto.DriverID)[:])
		if dErr != nil {
			return nil, dErr
		}
		driverID = &dID
	}

	return order.RestoreOrder(order.RestoreOrderParams{
		ID:              id,
		Number:          dto.Number,
		CustomerID:      customerID,
		Lines:           lines,
		Address:         addr,
		DeliveryDate:    dto.DeliveryDate,
		Status:          order.Status(dto.Status),
		BackorderStatus: order.BackorderStatus(dto.BackorderStatus),
		Shortfalls:      shortfalls,
		Reserved:        reserved,
		CreditBypass: order.CreditBypass{
			Bypassed:      dto.CreditBypassed,
			Justification: dto.CreditJustification,
			Actor:         dto.CreditActor,
		},

		PackingSequence:    dto.PackingSequence,
		PackedSKUs:         packedSKUs,
		PackingVersion:     dto.PackingVersion,
		LastPackActivityAt: dto.LastPackActivityAt,

		DeliverySequence:      dto.DeliverySequence,
		DriverID:              driverID,
		DriverSequence:        dto.DriverSequence,
		DriverPackingSequence: dto.DriverPackingSequence,
		ProofOfDelivery:       dto.ProofOfDelivery,
		DeliveredAt:           dto.DeliveredAt,

		History: history,
	})
}
