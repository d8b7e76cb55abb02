package commands_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/customer"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/product"

	"github.com/stretchr/testify/require"
)

var (
	testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
	testDate   = time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
)

func testCustomer(t *testing.T, limitCents int64) *customer.Customer {
	t.Helper()
	c, err := customer.NewCustomer(kernel.NewUUID(), "Fresh Grocer Pty Ltd", kernel.Money(0))
	require.NoError(t, err)
	require.NoError(t, c.ApproveCredit(kernel.Money(limitCents)))
	c.CompleteOnboarding()
	return c
}

func testProduct(t *testing.T, sku string, stock int) *product.Product {
	t.Helper()
	p, err := product.NewProduct(kernel.NewUUID(), sku, sku+" carton", stock, 5)
	require.NoError(t, err)
	return p
}

func testSubmitAddress() commands.SubmitOrderAddress {
	lat, lng := -33.8688, 151.2093
	return commands.SubmitOrderAddress{
		Street:    "1 George St",
		Suburb:    "Sydney",
		State:     "NSW",
		Postcode:  "2000",
		Zone:      kernel.ZoneNorth,
		Latitude:  &lat,
		Longitude: &lng,
	}
}

func testSubmitCommand(t *testing.T, customerID kernel.UUID) commands.SubmitOrderCommand {
	t.Helper()
	cmd, err := commands.NewSubmitOrderCommand(
		kernel.NewUUID(), customerID,
		[]commands.SubmitOrderLine{
			{SKU: "SKU-APPLE", Quantity: 2, UnitPrice: 2500, TaxRateBps: 0},
			{SKU: "SKU-CHEESE", Quantity: 3, UnitPrice: 1800, TaxRateBps: 1000},
		},
		testSubmitAddress(), testDate, false, "", "buyer",
	)
	require.NoError(t, err)
	return cmd
}

// awaitingOrder builds an order parked for approval with one shortfall line.
func awaitingOrder(t *testing.T, productID kernel.UUID) *order.Order {
	t.Helper()
	line, err := order.NewLineItem(productID, "SKU-APPLE", "Apples 1kg", 4, kernel.Money(2500), 0)
	require.NoError(t, err)
	addr, err := order.NewAddress("1 George St", "Sydney", "NSW", "2000", kernel.ZoneNorth, nil)
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), 3001, kernel.NewUUID(),
		[]order.LineItem{line}, addr, testDate, "buyer", testDate)
	require.NoError(t, err)
	require.NoError(t, o.EnterAwaitingApproval([]order.ShortfallLine{
		{ProductID: productID, SKU: "SKU-APPLE", Requested: 4, Available: 1, Shortfall: 3},
	}, "system", testDate))
	return o
}

// confirmedOrder builds a confirmed order with reserved stock.
func confirmedOrder(t *testing.T, productID kernel.UUID) *order.Order {
	t.Helper()
	line, err := order.NewLineItem(productID, "SKU-APPLE", "Apples 1kg", 2, kernel.Money(2500), 0)
	require.NoError(t, err)
	addr, err := order.NewAddress("1 George St", "Sydney", "NSW", "2000", kernel.ZoneNorth, nil)
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), 3002, kernel.NewUUID(),
		[]order.LineItem{line}, addr, testDate, "buyer", testDate)
	require.NoError(t, err)
	require.NoError(t, o.Confirm("system", testDate))
	return o
}
