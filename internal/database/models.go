package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// Money is stored as integer minor units (cents) everywhere. Conversion
// to decimal strings happens only at the HTTP and message boundaries.

type AdminUser struct {
	ID             uuid.UUID
	Email          string
	HashedPassword string
	FullName       string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Category struct {
	ID        uuid.UUID
	Name      string
	SortOrder int32
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Product struct {
	ID           uuid.UUID
	CategoryID   uuid.UUID
	Name         string
	Description  pgtype.Text
	PriceCents   int64
	ImageUrl     pgtype.Text
	IsBestSeller bool
	IsPopular    bool
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProductOption is an add-on a customer can attach to a product
// (extra cheese, larger size). PriceDeltaCents is added to the
// product's unit price when selected.
type ProductOption struct {
	ID              uuid.UUID
	ProductID       uuid.UUID
	Name            string
	PriceDeltaCents int64
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DeliveryFee is an admin-curated zone: a neighborhood name mapped to a
// flat fee. Matching is case-insensitive on the trimmed name.
type DeliveryFee struct {
	ID           uuid.UUID
	Neighborhood string
	FeeCents     int64
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Customer struct {
	ID         uuid.UUID
	Phone      string
	Name       string
	IsArchived bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Order struct {
	ID               uuid.UUID
	ShortID          string
	CustomerName     string
	CustomerPhone    string
	SubtotalCents    int64
	DeliveryFeeCents int64
	TotalCents       int64
	Status           string
	PaymentStatus    string
	PaymentMethod    string
	IsPickup         bool
	ScheduledTime    pgtype.Text
	Street           pgtype.Text
	Number           pgtype.Text
	Complement       pgtype.Text
	Neighborhood     pgtype.Text
	City             pgtype.Text
	Observation      pgtype.Text
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// OrderItem is immutable after creation; product name and unit price are
// denormalized so menu edits never rewrite history.
type OrderItem struct {
	ID             uuid.UUID
	OrderID        uuid.UUID
	ProductName    string
	OptionsLabel   pgtype.Text
	Quantity       int32
	UnitPriceCents int64
}

type StoreConfig struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
