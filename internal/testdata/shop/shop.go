// Package shop is a fixture for the generator tests.
package shop

import (
	"database/sql"
	"database/sql/driver"
	"strings"
	"time"

	"tablemap/sqlrow"
)

// Status of an order.
//
//tablemap:enum
type Status int

const (
	StatusNew Status = iota
	StatusPaid
	StatusShipped
)

// Priority is stored by its own value.
//
//tablemap:enum stable=true
type Priority int

const (
	PriorityLow  Priority = 10
	PriorityHigh Priority = 20
)

type SKU string

// Order is one placed order.
//
//tablemap:model table=orders check=schema.sql
type Order struct {
	ID       int64
	Customer string `sql:"customer_name"`
	SKU      SKU
	Status   Status
	Priority Priority
	Total    float64
	Paid     bool
	Note     *string
	Coupon   sql.NullString
	Placed   time.Time
	Receipt  []byte            `sql:"receipt,codec=ReceiptCodec"`
	Labels   Labels            `sql:",bind=BindLabels,extract=ExtractLabels"`
	Cache    map[string]string `sql:"-"`

	revision int
}

// OrderTotal is a projection of an aggregate query.
//
//tablemap:record
type OrderTotal struct {
	Customer string
	Total    float64
}

// Labels is stored as comma separated text.
type Labels []string

var ReceiptCodec = sqlrow.Blob

func BindLabels(l Labels) (driver.Value, error) {
	return strings.Join(l, ","), nil
}

func ExtractLabels(src any) (Labels, error) {
	s, err := sqlrow.Text.Extract(src)
	if err != nil || s == "" {
		return nil, err
	}
	return strings.Split(s, ","), nil
}

// Address is declared in YAML only.
type Address struct {
	Street string
	City   string
	Zip    string
}
