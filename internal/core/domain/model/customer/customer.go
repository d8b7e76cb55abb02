package customer

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrCustomerIsNotConstructed is returned when a Customer bypassed its constructors.
var ErrCustomerIsNotConstructed = errors.New("Customer must be created via NewCustomer constructor")

// CreditStatus is the outcome of the customer's credit application.
type CreditStatus int

const (
	CreditUnknown CreditStatus = iota
	CreditPending
	CreditApproved
	CreditRejected
)

func creditStatusStrings() map[CreditStatus]string {
	return map[CreditStatus]string{
		CreditPending:  "pending",
		CreditApproved: "approved",
		CreditRejected: "rejected",
	}
}

// String returns the credit status name.
func (s CreditStatus) String() string {
	if str, ok := creditStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Validate checks the credit status is a declared value.
func (s CreditStatus) Validate() error {
	if _, ok := creditStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("creditStatus",
			fmt.Errorf("%d is not a valid credit status", int(s)))
	}
	return nil
}

// AccountStatus is the customer's account lifecycle state.
type AccountStatus int

const (
	AccountUnknown AccountStatus = iota
	AccountActive
	AccountSuspended
	AccountClosed
)

func accountStatusStrings() map[AccountStatus]string {
	return map[AccountStatus]string{
		AccountActive:    "active",
		AccountSuspended: "suspended",
		AccountClosed:    "closed",
	}
}

// String returns the account status name.
func (s AccountStatus) String() string {
	if str, ok := accountStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Validate checks the account status is a declared value.
func (s AccountStatus) Validate() error {
	if _, ok := accountStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("accountStatus",
			fmt.Errorf("%d is not a valid account status", int(s)))
	}
	return nil
}

// Customer is the account aggregate gating order creation. Orders may be
// created only when the account is active, credit is approved, and
// onboarding is complete.
type Customer struct {
	id            kernel.UUID
	businessName  string
	creditLimit   kernel.Money
	creditStatus  CreditStatus
	accountStatus AccountStatus
	onboarded     bool

	guard guard.ConstructorGuard
}

// NewCustomer creates a customer with pending credit and an active account.
func NewCustomer(id kernel.UUID, businessName string, creditLimit kernel.Money) (*Customer, error) {
	c := &Customer{
		creditStatus:  CreditPending,
		accountStatus: AccountActive,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setID(id),
		c.setBusinessName(businessName),
		c.setCreditLimit(creditLimit),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// RestoreCustomer reconstructs a customer from persistence.
func RestoreCustomer(
	id kernel.UUID,
	businessName string,
	creditLimit kernel.Money,
	creditStatus CreditStatus,
	accountStatus AccountStatus,
	onboarded bool,
) (*Customer, error) {
	c := &Customer{
		creditStatus:  creditStatus,
		accountStatus: accountStatus,
		onboarded:     onboarded,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setID(id),
		c.setBusinessName(businessName),
		c.setCreditLimit(creditLimit),
		creditStatus.Validate(),
		accountStatus.Validate(),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate ensures the customer was built through a constructor.
func (c *Customer) Validate() error {
	if c == nil {
		return ErrCustomerIsNotConstructed
	}
	return c.guard.Validate(ErrCustomerIsNotConstructed)
}

// ID returns the customer's unique identifier.
func (c *Customer) ID() kernel.UUID {
	return c.id
}

// BusinessName returns the trading name.
func (c *Customer) BusinessName() string {
	return c.businessName
}

// CreditLimit returns the approved credit limit.
func (c *Customer) CreditLimit() kernel.Money {
	return c.creditLimit
}

// CreditStatus returns the credit application state.
func (c *Customer) CreditStatus() CreditStatus {
	return c.creditStatus
}

// AccountStatus returns the account lifecycle state.
func (c *Customer) AccountStatus() AccountStatus {
	return c.accountStatus
}

// IsOnboarded reports whether onboarding is complete.
func (c *Customer) IsOnboarded() bool {
	return c.onboarded
}

// CanOrder reports whether the customer passes all order-creation gates:
// account active, credit approved, onboarding complete.
func (c *Customer) CanOrder() bool {
	return c.accountStatus == AccountActive &&
		c.creditStatus == CreditApproved &&
		c.onboarded
}

// ApproveCredit approves a pending credit application. Re-approving an
// approved application is an explicit idempotent no-op: the existing approved
// limit stays in place and AlreadyProcessedError is returned.
func (c *Customer) ApproveCredit(limit kernel.Money) error {
	if c.creditStatus == CreditApproved {
		return errs.NewAlreadyProcessedError("credit approval", c.id.String())
	}
	if limit.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("creditLimit",
			fmt.Errorf("%d is negative", limit.Amount()))
	}

	c.creditStatus = CreditApproved
	c.creditLimit = limit
	return nil
}

// RejectCredit rejects a pending credit application.
func (c *Customer) RejectCredit() error {
	if c.creditStatus != CreditPending {
		return errs.NewAlreadyProcessedError("credit resolution", c.id.String())
	}
	c.creditStatus = CreditRejected
	return nil
}

// CompleteOnboarding flags the account as fully onboarded.
func (c *Customer) CompleteOnboarding() {
	c.onboarded = true
}

// Suspend moves an active account to suspended. Suspending an already
// suspended account returns AlreadyProcessedError so callers can distinguish
// "nothing to do" from "succeeded".
func (c *Customer) Suspend() error {
	if c.accountStatus == AccountSuspended {
		return errs.NewAlreadyProcessedError("account suspension", c.id.String())
	}
	if c.accountStatus == AccountClosed {
		return errs.NewValueIsInvalidErrorWithCause("accountStatus",
			fmt.Errorf("closed account cannot be suspended"))
	}
	c.accountStatus = AccountSuspended
	return nil
}

// Reactivate returns a suspended account to active.
func (c *Customer) Reactivate() error {
	if c.accountStatus == AccountActive {
		return errs.NewAlreadyProcessedError("account reactivation", c.id.String())
	}
	if c.accountStatus == AccountClosed {
		return errs.NewValueIsInvalidErrorWithCause("accountStatus",
			fmt.Errorf("closed account cannot be reactivated"))
	}
	c.accountStatus = AccountActive
	return nil
}

func (c *Customer) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Customer) setBusinessName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("businessName")
	}
	c.businessName = name
	return nil
}

func (c *Customer) setCreditLimit(limit kernel.Money) error {
	if limit.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("creditLimit",
			fmt.Errorf("%d is negative", limit.Amount()))
	}
	c.creditLimit = limit
	return nil
}
