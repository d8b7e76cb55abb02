package order

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not
	// created through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrRejectionNoteTooShort is returned when a backorder rejection note is
	// shorter than the required minimum.
	ErrRejectionNoteTooShort = errors.New("rejection note must be at least 10 characters")
)

// minRejectionNoteLen is the minimum length of a backorder rejection note.
const minRejectionNoteLen = 10

// Order is the aggregate root of the fulfillment engine. It owns the
// canonical status, the money totals, the backorder sub-state, the packing
// sub-record with its optimistic version counter, and the delivery
// sub-record. All mutations go through aggregate methods; the status moves
// only along the adjacency table in status.go, and every legal transition
// appends exactly one history entry.
//
// Totals are always derived from the current line items, so a partial
// backorder approval or mid-pack quantity correction recomputes subtotal,
// tax, and total with no stored figure to drift.
type Order struct {
	id           kernel.UUID
	number       int64
	customerID   kernel.UUID
	lines        []LineItem
	address      Address
	deliveryDate time.Time

	status          Status
	backorderStatus BackorderStatus
	shortfalls      []ShortfallLine
	reserved        []ReservedLine
	creditBypass    CreditBypass

	// packing sub-record
	packingSequence    int
	packedSKUs         map[string]struct{}
	packingVersion     int64
	lastPackActivityAt time.Time

	// delivery sub-record
	deliverySequence      int
	driverID              *kernel.UUID
	driverSequence        int
	driverPackingSequence int
	proofOfDelivery       string
	deliveredAt           *time.Time

	history []HistoryEntry

	guard guard.ConstructorGuard
}

// NewOrder creates a pending order at checkout. The human-readable number is
// assigned by the caller (the repository issues sequential numbers). The
// initial history entry records the creating actor.
func NewOrder(
	id kernel.UUID,
	number int64,
	customerID kernel.UUID,
	lines []LineItem,
	address Address,
	deliveryDate time.Time,
	actor string,
	at time.Time,
) (*Order, error) {
	o := &Order{
		status:     Pending,
		packedSKUs: make(map[string]struct{}),
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setNumber(number),
		o.setCustomerID(customerID),
		o.setLines(lines),
		o.setAddress(address),
		o.setDeliveryDate(deliveryDate),
	); err != nil {
		return nil, err
	}

	o.history = append(o.history, HistoryEntry{Status: Pending, At: at, Actor: actor, Note: "order created"})
	return o, nil
}

// RestoreOrderParams carries every persisted field needed to reconstruct an
// order from storage.
type RestoreOrderParams struct {
	ID              kernel.UUID
	Number          int64
	CustomerID      kernel.UUID
	Lines           []LineItem
	Address         Address
	DeliveryDate    time.Time
	Status          Status
	BackorderStatus BackorderStatus
	Shortfalls      []ShortfallLine
	Reserved        []ReservedLine
	CreditBypass    CreditBypass

	PackingSequence    int
	PackedSKUs         []string
	PackingVersion     int64
	LastPackActivityAt time.Time

	DeliverySequence      int
	DriverID              *kernel.UUID
	DriverSequence        int
	DriverPackingSequence int
	ProofOfDelivery       string
	DeliveredAt           *time.Time

	History []HistoryEntry
}

// RestoreOrder reconstructs an order from persistence.
func RestoreOrder(p RestoreOrderParams) (*Order, error) {
	o := &Order{
		status:     p.Status,
		packedSKUs: make(map[string]struct{}, len(p.PackedSKUs)),
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(p.ID),
		o.setNumber(p.Number),
		o.setCustomerID(p.CustomerID),
		o.setLines(p.Lines),
		o.setAddress(p.Address),
		o.setDeliveryDate(p.DeliveryDate),
		p.Status.Validate(),
	); err != nil {
		return nil, err
	}

	o.backorderStatus = p.BackorderStatus
	o.shortfalls = append([]ShortfallLine(nil), p.Shortfalls...)
	o.reserved = append([]ReservedLine(nil), p.Reserved...)
	o.creditBypass = p.CreditBypass

	o.packingSequence = p.PackingSequence
	for _, sku := range p.PackedSKUs {
		o.packedSKUs[sku] = struct{}{}
	}
	o.packingVersion = p.PackingVersion
	o.lastPackActivityAt = p.LastPackActivityAt

	o.deliverySequence = p.DeliverySequence
	o.driverID = p.DriverID
	o.driverSequence = p.DriverSequence
	o.driverPackingSequence = p.DriverPackingSequence
	o.proofOfDelivery = p.ProofOfDelivery
	o.deliveredAt = p.DeliveredAt

	o.history = append([]HistoryEntry(nil), p.History...)
	return o, nil
}

// Validate ensures the order was built through a constructor.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by identity.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Number returns the sequential human-readable order number.
func (o *Order) Number() int64 {
	return o.number
}

// CustomerID returns the owning customer's identifier.
func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// Lines returns a copy of the order's line items.
func (o *Order) Lines() []LineItem {
	return append([]LineItem(nil), o.lines...)
}

// Address returns the delivery address.
func (o *Order) Address() Address {
	return o.address
}

// DeliveryDate returns the requested delivery date.
func (o *Order) DeliveryDate() time.Time {
	return o.deliveryDate
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// BackorderStatus returns the backorder approval sub-state.
func (o *Order) BackorderStatus() BackorderStatus {
	return o.backorderStatus
}

// Shortfalls returns a copy of the recorded stock shortfall lines.
func (o *Order) Shortfalls() []ShortfallLine {
	return append([]ShortfallLine(nil), o.shortfalls...)
}

// ReservedLines returns a copy of the stock decrements applied for this
// order. Empty until the order is confirmed.
func (o *Order) ReservedLines() []ReservedLine {
	return append([]ReservedLine(nil), o.reserved...)
}

// CreditBypass returns the credit-gate override audit record.
func (o *Order) CreditBypass() CreditBypass {
	return o.creditBypass
}

// History returns a copy of the append-only status history.
func (o *Order) History() []HistoryEntry {
	return append([]HistoryEntry(nil), o.history...)
}

// Subtotal returns the sum of line subtotals.
func (o *Order) Subtotal() kernel.Money {
	var sum kernel.Money
	for _, li := range o.lines {
		sum = sum.Add(li.Subtotal())
	}
	return sum
}

// Tax returns the sum of per-line taxes, each recomputed from its current
// quantity at its snapshot rate.
func (o *Order) Tax() kernel.Money {
	var sum kernel.Money
	for _, li := range o.lines {
		sum = sum.Add(li.Tax())
	}
	return sum
}

// Total returns subtotal plus tax.
func (o *Order) Total() kernel.Money {
	return o.Subtotal().Add(o.Tax())
}

// Packing returns a snapshot of the packing sub-record with SKUs sorted.
func (o *Order) Packing() PackingRecord {
	skus := make([]string, 0, len(o.packedSKUs))
	for sku := range o.packedSKUs {
		skus = append(skus, sku)
	}
	sort.Strings(skus)

	return PackingRecord{
		Sequence:       o.packingSequence,
		PackedSKUs:     skus,
		Version:        o.packingVersion,
		LastActivityAt: o.lastPackActivityAt,
	}
}

// Delivery returns a snapshot of the delivery sub-record.
func (o *Order) Delivery() DeliveryRecord {
	return DeliveryRecord{
		Sequence:        o.deliverySequence,
		DriverID:        o.driverID,
		DriverSequence:  o.driverSequence,
		DriverPacking:   o.driverPackingSequence,
		ProofOfDelivery: o.proofOfDelivery,
		DeliveredAt:     o.deliveredAt,
	}
}

// IsItemPacked reports whether the given SKU has been marked packed.
func (o *Order) IsItemPacked(sku string) bool {
	_, ok := o.packedSKUs[sku]
	return ok
}

// IsFullyPacked reports whether every line item has been marked packed.
func (o *Order) IsFullyPacked() bool {
	for _, li := range o.lines {
		if _, ok := o.packedSKUs[li.SKU()]; !ok {
			return false
		}
	}
	return true
}

// TransitionTo moves the order along the adjacency table and appends a
// history entry. An illegal edge returns InvalidTransitionError and leaves
// status and history untouched.
func (o *Order) TransitionTo(to Status, actor, note string, at time.Time) error {
	if err := to.Validate(); err != nil {
		return err
	}
	if !o.status.CanTransitionTo(to) {
		return errs.NewInvalidTransitionError(o.status.String(), to.String())
	}

	o.status = to
	o.history = append(o.history, HistoryEntry{Status: to, At: at, Actor: actor, Note: note})
	return nil
}

// RecordCreditBypass stores the audit record for a privileged credit-gate
// override. The justification must be non-empty.
func (o *Order) RecordCreditBypass(justification, actor string) error {
	if justification == "" {
		return errs.NewValueIsRequiredError("justification")
	}
	o.creditBypass = CreditBypass{Bypassed: true, Justification: justification, Actor: actor}
	return nil
}

// Confirm moves a pending order to confirmed and snapshots the reserved
// quantities (the reservation model: stock leaves the pool now, not at
// delivery).
func (o *Order) Confirm(actor string, at time.Time) error {
	if o.status != Pending {
		return errs.NewInvalidTransitionError(o.status.String(), Confirmed.String())
	}
	if err := o.TransitionTo(Confirmed, actor, "stock reserved", at); err != nil {
		return err
	}
	o.reserved = o.reservationSnapshot()
	return nil
}

// EnterAwaitingApproval records the per-product shortfall and parks the order
// for a privileged decision. No stock is reserved.
func (o *Order) EnterAwaitingApproval(shortfalls []ShortfallLine, actor string, at time.Time) error {
	if len(shortfalls) == 0 {
		return errs.NewValueIsRequiredError("shortfalls")
	}
	if o.status != Pending {
		return errs.NewInvalidTransitionError(o.status.String(), AwaitingApproval.String())
	}
	if err := o.TransitionTo(AwaitingApproval, actor, "stock shortfall detected", at); err != nil {
		return err
	}

	o.backorderStatus = BackorderPending
	o.shortfalls = append([]ShortfallLine(nil), shortfalls...)
	return nil
}

// ApproveBackorderFull reserves the originally requested quantities and
// confirms the order. Approval is a one-way gate: calling it on an already
// resolved backorder returns AlreadyProcessedError with no state change.
func (o *Order) ApproveBackorderFull(actor string, at time.Time) error {
	if o.backorderStatus.IsResolved() {
		return errs.NewAlreadyProcessedError("backorder approval", o.id.String())
	}
	if o.backorderStatus != BackorderPending || o.status != AwaitingApproval {
		return errs.NewInvalidTransitionError(o.status.String(), Confirmed.String())
	}
	if err := o.TransitionTo(Confirmed, actor, "backorder approved in full", at); err != nil {
		return err
	}

	o.backorderStatus = BackorderApproved
	o.reserved = o.reservationSnapshot()
	return nil
}

// ApproveBackorderPartial reduces shortfall line quantities to the approved
// amounts, recomputes the order totals from them, and confirms the order.
// Each approval must name a shortfall line with 0 < quantity <= requested.
func (o *Order) ApproveBackorderPartial(approvals []ReservedLine, actor string, at time.Time) error {
	if o.backorderStatus.IsResolved() {
		return errs.NewAlreadyProcessedError("backorder approval", o.id.String())
	}
	if o.backorderStatus != BackorderPending || o.status != AwaitingApproval {
		return errs.NewInvalidTransitionError(o.status.String(), Confirmed.String())
	}
	if len(approvals) == 0 {
		return errs.NewValueIsRequiredError("approvals")
	}

	// Validate all approvals before mutating anything.
	newQuantities := make(map[string]int, len(approvals))
	for _, a := range approvals {
		sf, ok := o.shortfallFor(a.ProductID)
		if !ok {
			return errs.NewValueIsInvalidErrorWithCause("approval",
				fmt.Errorf("product %s has no recorded shortfall", a.ProductID))
		}
		if a.Quantity <= 0 || a.Quantity > sf.Requested {
			return errs.NewValueIsOutOfRangeError("approvedQuantity", a.Quantity, 1, sf.Requested)
		}
		newQuantities[a.ProductID.String()] = a.Quantity
	}

	if err := o.TransitionTo(Confirmed, actor, "backorder approved partially", at); err != nil {
		return err
	}

	for i := range o.lines {
		if qty, ok := newQuantities[o.lines[i].productID.String()]; ok {
			o.lines[i].quantity = qty
		}
	}
	o.backorderStatus = BackorderPartiallyApproved
	o.reserved = o.reservationSnapshot()
	return nil
}

// RejectBackorder cancels an awaiting-approval order. The note is mandatory
// audit context and must meet the minimum length. No inventory changes.
func (o *Order) RejectBackorder(note, actor string, at time.Time) error {
	if o.backorderStatus.IsResolved() {
		return errs.NewAlreadyProcessedError("backorder resolution", o.id.String())
	}
	if o.backorderStatus != BackorderPending || o.status != AwaitingApproval {
		return errs.NewInvalidTransitionError(o.status.String(), Cancelled.String())
	}
	if len(note) < minRejectionNoteLen {
		return ErrRejectionNoteTooShort
	}
	if err := o.TransitionTo(Cancelled, actor, note, at); err != nil {
		return err
	}

	o.backorderStatus = BackorderRejected
	return nil
}

// Cancel moves the order to cancelled and returns the reserved lines that
// must be restored to stock, which may be empty if nothing was reserved.
func (o *Order) Cancel(actor, note string, at time.Time) ([]ReservedLine, error) {
	if err := o.TransitionTo(Cancelled, actor, note, at); err != nil {
		return nil, err
	}

	released := o.reserved
	o.reserved = nil
	return released, nil
}

// MarkItemPacked marks one SKU packed using optimistic versioning. The first
// pack on a confirmed order auto-transitions it to packing; packing the last
// outstanding line auto-transitions to ready for delivery. A stale
// expectedVersion returns VersionConflictError so the caller can re-read and
// retry.
func (o *Order) MarkItemPacked(sku string, expectedVersion int64, actor string, at time.Time) error {
	if err := o.checkPackEdit(sku, expectedVersion, Confirmed, Packing); err != nil {
		return err
	}

	if o.status == Confirmed {
		if err := o.TransitionTo(Packing, actor, "packing started", at); err != nil {
			return err
		}
	}

	o.packedSKUs[sku] = struct{}{}
	o.packingVersion++
	o.lastPackActivityAt = at

	if o.IsFullyPacked() {
		return o.TransitionTo(ReadyForDelivery, actor, "all items packed", at)
	}
	return nil
}

// MarkItemUnpacked removes one SKU from the packed set. Only legal while the
// order is in packing.
func (o *Order) MarkItemUnpacked(sku string, expectedVersion int64, actor string, at time.Time) error {
	if err := o.checkPackEdit(sku, expectedVersion, Packing); err != nil {
		return err
	}

	delete(o.packedSKUs, sku)
	o.packingVersion++
	o.lastPackActivityAt = at
	return nil
}

// CorrectLineQuantity changes a line's quantity mid-pack. Totals recompute
// automatically; the packed/unpacked flags already set are left alone. It is
// a pack-state edit, so it bumps the packing version: a packer holding the
// pre-correction version gets a conflict on their next write instead of
// silently restoring the old quantities and reservation.
func (o *Order) CorrectLineQuantity(sku string, quantity int, at time.Time) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	if o.status != Confirmed && o.status != Packing {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("quantity corrections are only allowed while confirmed or packing, not %s", o.status))
	}

	for i := range o.lines {
		if o.lines[i].sku == sku {
			o.lines[i].quantity = quantity
			for j := range o.reserved {
				if o.reserved[j].ProductID.IsEqual(o.lines[i].productID) {
					o.reserved[j].Quantity = quantity
				}
			}
			o.packingVersion++
			if o.status == Packing {
				o.lastPackActivityAt = at
			}
			return nil
		}
	}
	return errs.NewObjectNotFoundError("sku", sku)
}

// RevertIdlePacking moves a packing order back to confirmed when its last
// pack activity is at or before the cutoff. Returns false without error when
// the order saw activity inside the window, so a lazy sweep never reverts an
// order that is actually being worked on.
func (o *Order) RevertIdlePacking(cutoff time.Time, actor string, at time.Time) (bool, error) {
	if o.status != Packing {
		return false, errs.NewInvalidTransitionError(o.status.String(), Confirmed.String())
	}
	if o.lastPackActivityAt.After(cutoff) {
		return false, nil
	}
	if err := o.TransitionTo(Confirmed, actor, "packing reverted after idle timeout", at); err != nil {
		return false, err
	}
	return true, nil
}

// AssignDriver attaches a driver to a ready order. Reassignment is allowed
// until the order goes out for delivery.
func (o *Order) AssignDriver(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	if o.status != ReadyForDelivery {
		return errs.NewInvalidTransitionError(o.status.String(), OutForDelivery.String())
	}
	o.driverID = &driverID
	return nil
}

// StartDelivery moves a ready order with an assigned driver out for delivery.
func (o *Order) StartDelivery(actor string, at time.Time) error {
	if o.driverID == nil {
		return errs.NewValueIsRequiredError("driverId")
	}
	return o.TransitionTo(OutForDelivery, actor, "driver departed", at)
}

// CompleteDelivery records proof of delivery and moves the order to its
// terminal delivered state.
func (o *Order) CompleteDelivery(proof, actor string, at time.Time) error {
	if proof == "" {
		return errs.NewValueIsRequiredError("proofOfDelivery")
	}
	if err := o.TransitionTo(Delivered, actor, "delivered", at); err != nil {
		return err
	}

	o.proofOfDelivery = proof
	deliveredAt := at
	o.deliveredAt = &deliveredAt
	return nil
}

// SetRouteSequences writes the global delivery and packing sequence numbers.
// Sequencing touches only these sub-fields, never the packed set or status,
// so a batch re-run cannot clobber concurrent pack edits.
func (o *Order) SetRouteSequences(deliverySeq, packingSeq int) error {
	if deliverySeq < 1 {
		return errs.NewValueIsOutOfRangeError("deliverySequence", deliverySeq, 1, "unbounded")
	}
	if packingSeq < 1 {
		return errs.NewValueIsOutOfRangeError("packingSequence", packingSeq, 1, "unbounded")
	}
	o.deliverySequence = deliverySeq
	o.packingSequence = packingSeq
	return nil
}

// SetDriverSequences writes the contiguous per-driver stop numbers, which are
// independent of the global sequence.
func (o *Order) SetDriverSequences(driverSeq, driverPackingSeq int) error {
	if o.driverID == nil {
		return errs.NewValueIsRequiredError("driverId")
	}
	if driverSeq < 1 {
		return errs.NewValueIsOutOfRangeError("driverSequence", driverSeq, 1, "unbounded")
	}
	if driverPackingSeq < 1 {
		return errs.NewValueIsOutOfRangeError("driverPackingSequence", driverPackingSeq, 1, "unbounded")
	}
	o.driverSequence = driverSeq
	o.driverPackingSequence = driverPackingSeq
	return nil
}

// checkPackEdit validates a pack-state toggle: known SKU, allowed status,
// current version.
func (o *Order) checkPackEdit(sku string, expectedVersion int64, allowed ...Status) error {
	found := false
	for _, li := range o.lines {
		if li.sku == sku {
			found = true
			break
		}
	}
	if !found {
		return errs.NewObjectNotFoundError("sku", sku)
	}

	statusOK := false
	for _, s := range allowed {
		if o.status == s {
			statusOK = true
			break
		}
	}
	if !statusOK {
		return errs.NewInvalidTransitionError(o.status.String(), Packing.String())
	}

	if expectedVersion != o.packingVersion {
		return errs.NewVersionConflictError("packing record", expectedVersion)
	}
	return nil
}

// shortfallFor finds the recorded shortfall line for a product.
func (o *Order) shortfallFor(productID kernel.UUID) (ShortfallLine, bool) {
	for _, sf := range o.shortfalls {
		if sf.ProductID.IsEqual(productID) {
			return sf, true
		}
	}
	return ShortfallLine{}, false
}

// reservationSnapshot captures the current line quantities as the reserved
// stock record.
func (o *Order) reservationSnapshot() []ReservedLine {
	reserved := make([]ReservedLine, 0, len(o.lines))
	for _, li := range o.lines {
		reserved = append(reserved, ReservedLine{ProductID: li.productID, Quantity: li.quantity})
	}
	return reserved
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setNumber(number int64) error {
	if number <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("number",
			fmt.Errorf("%d is not greater than 0", number))
	}
	o.number = number
	return nil
}

func (o *Order) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customerId", err)
	}
	o.customerID = id
	return nil
}

func (o *Order) setLines(lines []LineItem) error {
	if len(lines) == 0 {
		return errs.NewValueIsRequiredError("lines")
	}
	seen := make(map[string]struct{}, len(lines))
	for _, li := range lines {
		if err := li.Validate(); err != nil {
			return err
		}
		if _, dup := seen[li.SKU()]; dup {
			return errs.NewValueIsInvalidErrorWithCause("lines",
				fmt.Errorf("duplicate sku %s", li.SKU()))
		}
		seen[li.SKU()] = struct{}{}
	}
	o.lines = append([]LineItem(nil), lines...)
	return nil
}

func (o *Order) setAddress(address Address) error {
	if err := address.Validate(); err != nil {
		return err
	}
	o.address = address
	return nil
}

func (o *Order) setDeliveryDate(date time.Time) error {
	if date.IsZero() {
		return errs.NewValueIsRequiredError("deliveryDate")
	}
	o.deliveryDate = date
	return nil
}
