package order_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

func testAddress(t *testing.T) order.Address {
	t.Helper()
	geo, err := kernel.NewGeoPoint(-33.8688, 151.2093)
	require.NoError(t, err)
	addr, err := order.NewAddress("1 George St", "Sydney", "NSW", "2000", kernel.ZoneNorth, &geo)
	require.NoError(t, err)
	return addr
}

func testLines(t *testing.T) []order.LineItem {
	t.Helper()
	// $25.00 x 2 no tax, $18.00 x 3 at 10% GST
	l1, err := order.NewLineItem(kernel.NewUUID(), "SKU-APPLE", "Apples 1kg", 2, kernel.Money(2500), 0)
	require.NoError(t, err)
	l2, err := order.NewLineItem(kernel.NewUUID(), "SKU-CHEESE", "Cheddar 500g", 3, kernel.Money(1800), 1000)
	require.NoError(t, err)
	return []order.LineItem{l1, l2}
}

func newTestOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(
		kernel.NewUUID(), 1001, kernel.NewUUID(),
		testLines(t), testAddress(t),
		testTime.AddDate(0, 0, 1), "customer", testTime,
	)
	require.NoError(t, err)
	return o
}

func confirmOrder(t *testing.T, o *order.Order) {
	t.Helper()
	require.NoError(t, o.Confirm("system", testTime))
}

func packAll(t *testing.T, o *order.Order) {
	t.Helper()
	for _, li := range o.Lines() {
		v := o.Packing().Version
		require.NoError(t, o.MarkItemPacked(li.SKU(), v, "packer", testTime))
	}
}

func TestNewOrder(t *testing.T) {
	t.Run("creates pending order with history entry", func(t *testing.T) {
		o := newTestOrder(t)

		require.NoError(t, o.Validate())
		assert.Equal(t, order.Pending, o.Status())
		assert.Equal(t, order.BackorderNone, o.BackorderStatus())
		require.Len(t, o.History(), 1)
		assert.Equal(t, order.Pending, o.History()[0].Status)
		assert.Equal(t, "customer", o.History()[0].Actor)
	})

	t.Run("computes GST-inclusive totals exactly", func(t *testing.T) {
		o := newTestOrder(t)

		assert.Equal(t, int64(10400), o.Subtotal().Amount())
		assert.Equal(t, int64(540), o.Tax().Amount())
		assert.Equal(t, int64(10940), o.Total().Amount())
	})

	t.Run("rejects empty lines", func(t *testing.T) {
		_, err := order.NewOrder(
			kernel.NewUUID(), 1, kernel.NewUUID(),
			nil, testAddress(t), testTime, "customer", testTime,
		)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "lines")
	})

	t.Run("rejects duplicate skus", func(t *testing.T) {
		l1, err := order.NewLineItem(kernel.NewUUID(), "SKU-X", "X", 1, kernel.Money(100), 0)
		require.NoError(t, err)
		l2, err := order.NewLineItem(kernel.NewUUID(), "SKU-X", "X again", 1, kernel.Money(100), 0)
		require.NoError(t, err)

		_, err = order.NewOrder(
			kernel.NewUUID(), 1, kernel.NewUUID(),
			[]order.LineItem{l1, l2}, testAddress(t), testTime, "customer", testTime,
		)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate sku")
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var o order.Order
		require.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
	})
}

func TestOrder_TransitionTo(t *testing.T) {
	t.Run("illegal transition leaves status and history unchanged", func(t *testing.T) {
		o := newTestOrder(t)
		historyBefore := len(o.History())

		err := o.TransitionTo(order.Delivered, "admin", "skip ahead", testTime)

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Equal(t, order.Pending, o.Status())
		assert.Len(t, o.History(), historyBefore)

		var transitionErr *errs.InvalidTransitionError
		require.ErrorAs(t, err, &transitionErr)
		assert.Equal(t, "pending", transitionErr.From)
		assert.Equal(t, "delivered", transitionErr.To)
	})

	t.Run("legal transition appends exactly one history entry", func(t *testing.T) {
		o := newTestOrder(t)

		require.NoError(t, o.TransitionTo(order.Confirmed, "system", "ok", testTime))

		assert.Equal(t, order.Confirmed, o.Status())
		require.Len(t, o.History(), 2)
		assert.Equal(t, order.Confirmed, o.History()[1].Status)
	})

	t.Run("terminal states accept nothing", func(t *testing.T) {
		o := newTestOrder(t)
		_, err := o.Cancel("customer", "changed my mind", testTime)
		require.NoError(t, err)

		err = o.TransitionTo(order.Confirmed, "admin", "undo", testTime)

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Equal(t, order.Cancelled, o.Status())
	})
}

func TestOrder_Confirm(t *testing.T) {
	t.Run("records reservation snapshot", func(t *testing.T) {
		o := newTestOrder(t)

		confirmOrder(t, o)

		assert.Equal(t, order.Confirmed, o.Status())
		reserved := o.ReservedLines()
		require.Len(t, reserved, 2)
		assert.Equal(t, 2, reserved[0].Quantity)
		assert.Equal(t, 3, reserved[1].Quantity)
	})

	t.Run("cancel returns exactly the reserved quantities", func(t *testing.T) {
		o := newTestOrder(t)
		confirmOrder(t, o)

		released, err := o.Cancel("admin", "customer request", testTime)

		require.NoError(t, err)
		require.Len(t, released, 2)
		assert.Equal(t, 2, released[0].Quantity)
		assert.Equal(t, 3, released[1].Quantity)
		assert.Empty(t, o.ReservedLines())
	})
}

func TestOrder_Backorder(t *testing.T) {
	shortfallFor := func(o *order.Order) []order.ShortfallLine {
		li := o.Lines()[1]
		return []order.ShortfallLine{{
			ProductID: li.ProductID(), SKU: li.SKU(),
			Requested: 3, Available: 1, Shortfall: 2,
		}}
	}

	t.Run("enter awaiting approval records shortfall", func(t *testing.T) {
		o := newTestOrder(t)

		require.NoError(t, o.EnterAwaitingApproval(shortfallFor(o), "system", testTime))

		assert.Equal(t, order.AwaitingApproval, o.Status())
		assert.Equal(t, order.BackorderPending, o.BackorderStatus())
		require.Len(t, o.Shortfalls(), 1)
		assert.Equal(t, 2, o.Shortfalls()[0].Shortfall)
		assert.Empty(t, o.ReservedLines())
	})

	t.Run("approve full reserves requested quantities", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.EnterAwaitingApproval(shortfallFor(o), "system", testTime))

		require.NoError(t, o.ApproveBackorderFull("admin", testTime))

		assert.Equal(t, order.Confirmed, o.Status())
		assert.Equal(t, order.BackorderApproved, o.BackorderStatus())
		require.Len(t, o.ReservedLines(), 2)
		assert.Equal(t, 3, o.ReservedLines()[1].Quantity)
	})

	t.Run("approval is a one-way gate", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.EnterAwaitingApproval(shortfallFor(o), "system", testTime))
		require.NoError(t, o.ApproveBackorderFull("admin", testTime))
		reservedBefore := o.ReservedLines()

		err := o.ApproveBackorderFull("admin", testTime)

		require.ErrorIs(t, err, errs.ErrAlreadyProcessed)
		assert.Equal(t, reservedBefore, o.ReservedLines())
	})

	t.Run("partial approval reduces quantities and recomputes totals", func(t *testing.T) {
		o := newTestOrder(t)
		shortfall := shortfallFor(o)
		require.NoError(t, o.EnterAwaitingApproval(shortfall, "system", testTime))

		err := o.ApproveBackorderPartial([]order.ReservedLine{
			{ProductID: shortfall[0].ProductID, Quantity: 1},
		}, "admin", testTime)

		require.NoError(t, err)
		assert.Equal(t, order.BackorderPartiallyApproved, o.BackorderStatus())
		assert.Equal(t, 1, o.Lines()[1].Quantity())
		// $25.00 x 2 + $18.00 x 1 = 6800; tax 10% of 1800 = 180
		assert.Equal(t, int64(6800), o.Subtotal().Amount())
		assert.Equal(t, int64(180), o.Tax().Amount())
		assert.Equal(t, int64(6980), o.Total().Amount())
		// reservation matches the reduced quantity
		assert.Equal(t, 1, o.ReservedLines()[1].Quantity)
	})

	t.Run("partial approval cannot exceed requested", func(t *testing.T) {
		o := newTestOrder(t)
		shortfall := shortfallFor(o)
		require.NoError(t, o.EnterAwaitingApproval(shortfall, "system", testTime))

		err := o.ApproveBackorderPartial([]order.ReservedLine{
			{ProductID: shortfall[0].ProductID, Quantity: 4},
		}, "admin", testTime)

		require.Error(t, err)
		assert.Equal(t, order.AwaitingApproval, o.Status())
	})

	t.Run("partial approval rejects a product without a shortfall", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.EnterAwaitingApproval(shortfallFor(o), "system", testTime))

		err := o.ApproveBackorderPartial([]order.ReservedLine{
			{ProductID: o.Lines()[0].ProductID(), Quantity: 1},
		}, "admin", testTime)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Equal(t, order.AwaitingApproval, o.Status())
		assert.Equal(t, order.BackorderPending, o.BackorderStatus())
	})

	t.Run("re-approving keeps the first approval's quantities", func(t *testing.T) {
		o := newTestOrder(t)
		shortfall := shortfallFor(o)
		require.NoError(t, o.EnterAwaitingApproval(shortfall, "system", testTime))
		require.NoError(t, o.ApproveBackorderPartial([]order.ReservedLine{
			{ProductID: shortfall[0].ProductID, Quantity: 2},
		}, "admin", testTime))

		err := o.ApproveBackorderPartial([]order.ReservedLine{
			{ProductID: shortfall[0].ProductID, Quantity: 3},
		}, "admin", testTime)

		require.ErrorIs(t, err, errs.ErrAlreadyProcessed)
		assert.Equal(t, 2, o.Lines()[1].Quantity())
	})

	t.Run("reject requires a minimum-length note", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.EnterAwaitingApproval(shortfallFor(o), "system", testTime))

		err := o.RejectBackorder("too short", "admin", testTime)
		require.ErrorIs(t, err, order.ErrRejectionNoteTooShort)
		assert.Equal(t, order.AwaitingApproval, o.Status())

		require.NoError(t, o.RejectBackorder("supplier cannot restock this quarter", "admin", testTime))
		assert.Equal(t, order.Cancelled, o.Status())
		assert.Equal(t, order.BackorderRejected, o.BackorderStatus())
		assert.Empty(t, o.ReservedLines())
	})
}

func TestOrder_Packing(t *testing.T) {
	t.Run("first pack auto-transitions confirmed to packing", func(t *testing.T) {
		o := newTestOrder(t)
		confirmOrder(t, o)

		require.NoError(t, o.MarkItemPacked("SKU-APPLE", 0, "packer", testTime))

		assert.Equal(t, order.Packing, o.Status())
		assert.True(t, o.IsItemPacked("SKU-APPLE"))
		assert.Equal(t, int64(1), o.Packing().Version)
	})

	t.Run("packing the last line auto-transitions to ready", func(t *testing.T) {
		o := newTestOrder(t)
		confirmOrder(t, o)

		packAll(t, o)

		assert.Equal(t, order.ReadyForDelivery, o.Status())
		assert.True(t, o.IsFullyPacked())
		assert.Equal(t, []string{"SKU-APPLE", "SKU-CHEESE"}, o.Packing().PackedSKUs)
	})

	t.Run("stale version is rejected", func(t *testing.T) {
		o := newTestOrder(t)
		confirmOrder(t, o)
		require.NoError(t, o.MarkItemPacked("SKU-APPLE", 0, "packer", testTime))

		err := o.MarkItemPacked("SKU-CHEESE", 0, "other packer", testTime)

		require.ErrorIs(t, err, errs.ErrVersionConflict)
		assert.False(t, o.IsItemPacked("SKU-CHEESE"))
	})

	t.Run("retry with fresh version succeeds and keeps both items", func(t *testing.T) {
		o := newTestOrder(t)
		confirmOrder(t, o)
		require.NoError(t, o.MarkItemPacked("SKU-APPLE", 0, "packer a", testTime))

		require.NoError(t, o.MarkItemPacked("SKU-CHEESE", o.Packing().Version, "packer b", testTime))

		assert.True(t, o.IsItemPacked("SKU-APPLE"))
		assert.True(t, o.IsItemPacked("SKU-CHEESE"))
	})

	t.Run("unpack removes from set", func(t *testing.T) {
		o := newTestOrder(t)
		confirmOrder(t, o)
		require.NoError(t, o.MarkItemPacked("SKU-APPLE", 0, "packer", testTime))

		require.NoError(t, o.MarkItemUnpacked("SKU-APPLE", o.Packing().Version, "packer", testTime))

		assert.False(t, o.IsItemPacked("SKU-APPLE"))
		assert.Equal(t, order.Packing, o.Status())
	})

	t.Run("unknown sku is rejected", func(t *testing.T) {
		o := newTestOrder(t)
		confirmOrder(t, o)

		err := o.MarkItemPacked("SKU-NOPE", 0, "packer", testTime)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("pack on pending order is rejected", func(t *testing.T) {
		o := newTestOrder(t)

		err := o.MarkItemPacked("SKU-APPLE", 0, "packer", testTime)

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
	})
}

func TestOrder_CorrectLineQuantity(t *testing.T) {
	t.Run("recomputes totals without touching packed flags", func(t *testing.T) {
		o := newTestOrder(t)
		confirmOrder(t, o)
		require.NoError(t, o.MarkItemPacked("SKU-CHEESE", 0, "packer", testTime))

		require.NoError(t, o.CorrectLineQuantity("SKU-CHEESE", 2, testTime))

		assert.True(t, o.IsItemPacked("SKU-CHEESE"))
		// $25.00 x 2 + $18.00 x 2 = 8600; tax 10% of 3600 = 360
		assert.Equal(t, int64(8600), o.Subtotal().Amount())
		assert.Equal(t, int64(360), o.Tax().Amount())
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		o := newTestOrder(t)
		confirmOrder(t, o)

		require.Error(t, o.CorrectLineQuantity("SKU-CHEESE", 0, testTime))
	})

	t.Run("bumps the packing version", func(t *testing.T) {
		o := newTestOrder(t)
		confirmOrder(t, o)
		before := o.Packing().Version

		require.NoError(t, o.CorrectLineQuantity("SKU-CHEESE", 2, testTime))

		assert.Equal(t, before+1, o.Packing().Version)
	})

	t.Run("fences out a packer holding the pre-correction version", func(t *testing.T) {
		o := newTestOrder(t)
		confirmOrder(t, o)
		staleVersion := o.Packing().Version

		require.NoError(t, o.CorrectLineQuantity("SKU-CHEESE", 2, testTime))

		err := o.MarkItemPacked("SKU-APPLE", staleVersion, "packer", testTime)
		require.ErrorIs(t, err, errs.ErrVersionConflict)
		assert.False(t, o.IsItemPacked("SKU-APPLE"))

		require.NoError(t, o.MarkItemPacked("SKU-APPLE", o.Packing().Version, "packer", testTime))
	})
}

func TestOrder_RevertIdlePacking(t *testing.T) {
	t.Run("reverts after idle window", func(t *testing.T) {
		o := newTestOrder(t)
		confirmOrder(t, o)
		require.NoError(t, o.MarkItemPacked("SKU-APPLE", 0, "packer", testTime))

		cutoff := testTime.Add(31 * time.Minute)
		reverted, err := o.RevertIdlePacking(cutoff, "system", cutoff)

		require.NoError(t, err)
		assert.True(t, reverted)
		assert.Equal(t, order.Confirmed, o.Status())
		// packed set survives the reversion
		assert.True(t, o.IsItemPacked("SKU-APPLE"))
	})

	t.Run("does not revert an actively worked order", func(t *testing.T) {
		o := newTestOrder(t)
		confirmOrder(t, o)
		require.NoError(t, o.MarkItemPacked("SKU-APPLE", 0, "packer", testTime))

		cutoff := testTime.Add(-time.Minute)
		reverted, err := o.RevertIdlePacking(cutoff, "system", testTime)

		require.NoError(t, err)
		assert.False(t, reverted)
		assert.Equal(t, order.Packing, o.Status())
	})
}

func TestOrder_DeliveryLifecycle(t *testing.T) {
	readyOrder := func(t *testing.T) *order.Order {
		o := newTestOrder(t)
		confirmOrder(t, o)
		packAll(t, o)
		return o
	}

	t.Run("assign driver requires ready status", func(t *testing.T) {
		o := newTestOrder(t)
		confirmOrder(t, o)

		err := o.AssignDriver(kernel.NewUUID())

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
	})

	t.Run("start delivery requires a driver", func(t *testing.T) {
		o := readyOrder(t)

		err := o.StartDelivery("driver", testTime)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("full happy path to delivered", func(t *testing.T) {
		o := readyOrder(t)
		driverID := kernel.NewUUID()

		require.NoError(t, o.AssignDriver(driverID))
		require.NoError(t, o.StartDelivery("driver", testTime))
		require.NoError(t, o.CompleteDelivery("signature:J.Citizen", "driver", testTime))

		assert.Equal(t, order.Delivered, o.Status())
		assert.Equal(t, "signature:J.Citizen", o.Delivery().ProofOfDelivery)
		require.NotNil(t, o.Delivery().DeliveredAt)
		assert.True(t, o.Delivery().DriverID.IsEqual(driverID))
	})

	t.Run("driver sequences require an assigned driver", func(t *testing.T) {
		o := readyOrder(t)

		require.Error(t, o.SetDriverSequences(1, 1))

		require.NoError(t, o.AssignDriver(kernel.NewUUID()))
		require.NoError(t, o.SetDriverSequences(2, 1))
		assert.Equal(t, 2, o.Delivery().DriverSequence)
		assert.Equal(t, 1, o.Delivery().DriverPacking)
	})
}

func TestOrder_SetRouteSequences(t *testing.T) {
	o := newTestOrder(t)
	confirmOrder(t, o)
	versionBefore := o.Packing().Version

	require.NoError(t, o.SetRouteSequences(3, 7))

	assert.Equal(t, 3, o.Delivery().Sequence)
	assert.Equal(t, 7, o.Packing().Sequence)
	// sequencing never bumps the packing version
	assert.Equal(t, versionBefore, o.Packing().Version)

	require.Error(t, o.SetRouteSequences(0, 1))
	require.Error(t, o.SetRouteSequences(1, 0))
}

func TestOrder_RecordCreditBypass(t *testing.T) {
	o := newTestOrder(t)

	require.Error(t, o.RecordCreditBypass("", "admin"))

	require.NoError(t, o.RecordCreditBypass("seasonal stock-up approved by sales", "admin"))
	bypass := o.CreditBypass()
	assert.True(t, bypass.Bypassed)
	assert.Equal(t, "admin", bypass.Actor)
}

func TestRestoreOrder(t *testing.T) {
	t.Run("round-trips aggregate state", func(t *testing.T) {
		original := newTestOrder(t)
		confirmOrder(t, original)
		require.NoError(t, original.MarkItemPacked("SKU-APPLE", 0, "packer", testTime))

		restored, err := order.RestoreOrder(order.RestoreOrderParams{
			ID:                 original.ID(),
			Number:             original.Number(),
			CustomerID:         original.CustomerID(),
			Lines:              original.Lines(),
			Address:            original.Address(),
			DeliveryDate:       original.DeliveryDate(),
			Status:             original.Status(),
			BackorderStatus:    original.BackorderStatus(),
			Reserved:           original.ReservedLines(),
			PackedSKUs:         original.Packing().PackedSKUs,
			PackingVersion:     original.Packing().Version,
			LastPackActivityAt: original.Packing().LastActivityAt,
			History:            original.History(),
		})

		require.NoError(t, err)
		require.NoError(t, restored.Validate())
		assert.True(t, restored.IsEqual(original))
		assert.Equal(t, original.Status(), restored.Status())
		assert.True(t, restored.IsItemPacked("SKU-APPLE"))
		assert.Equal(t, original.Packing().Version, restored.Packing().Version)
		assert.Equal(t, original.Total(), restored.Total())
	})

	t.Run("rejects invalid status", func(t *testing.T) {
		original := newTestOrder(t)

		_, err := order.RestoreOrder(order.RestoreOrderParams{
			ID:           original.ID(),
			Number:       original.Number(),
			CustomerID:   original.CustomerID(),
			Lines:        original.Lines(),
			Address:      original.Address(),
			DeliveryDate: original.DeliveryDate(),
			Status:       order.Status(42),
		})

		require.Error(t, err)
	})
}
