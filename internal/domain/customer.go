package domain

import "time"

// Customer is an identity record, immutable after registration.
type Customer struct {
	CustomerID string    `json:"customer_id" db:"customer_id"`
	Name       string    `json:"name" db:"name"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

type AddCustomerRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}
