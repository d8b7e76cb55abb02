// Package customerrepo provides data transfer objects and mapping functions
// for customer persistence.
package customerrepo

import (
	"fulfillment/internal/core/domain/model/customer"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// CustomerDTO represents the database structure for persisting customer
// aggregates.
type CustomerDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	BusinessName  string
	CreditLimit   int64
	CreditStatus  int
	AccountStatus int
	Onboarded     bool
}

// TableName specifies the database table name for customer entities.
func (CustomerDTO) TableName() string {
	return "customers"
}

func fromDomain(c *customer.Customer) CustomerDTO {
	return CustomerDTO{
		ID:            c.ID().Bytes(),
		BusinessName:  c.BusinessName(),
		CreditLimit:   c.CreditLimit().Amount(),
		CreditStatus:  int(c.CreditStatus()),
		AccountStatus: int(c.AccountStatus()),
		Onboarded:     c.IsOnboarded(),
	}
}

func toDomain(dto CustomerDTO) (*customer.Customer, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return customer.RestoreCustomer(
		id,
		dto.BusinessName,
		kernel.Money(dto.CreditLimit),
		customer.CreditStatus(dto.CreditStatus),
		customer.AccountStatus(dto.AccountStatus),
		dto.Onboarded,
	)
}
