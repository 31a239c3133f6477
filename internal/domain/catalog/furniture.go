// Package catalog defines the furniture product catalog: a tagged-variant
// product type, per-kind discount rules, and the persistence contract.
package catalog

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Kind identifies a furniture variant. It is fixed at creation and selects
// which bonus discount rule applies.
type Kind string

const (
	KindChair   Kind = "chair"
	KindTable   Kind = "table"
	KindSofa    Kind = "sofa"
	KindBed     Kind = "bed"
	KindCabinet Kind = "cabinet"
)

// Attributes holds the kind-specific payload. Only the fields relevant to a
// product's kind are populated; the whole struct round-trips through the
// JSONB attributes column.
type Attributes struct {
	// Chair.
	MaxWeightCapacity int  `json:"max_weight_capacity,omitempty"`
	HasArmrests       bool `json:"has_armrests,omitempty"`
	IsAdjustable      bool `json:"is_adjustable,omitempty"`

	// Table. Shares MaxWeightCapacity with Chair.
	Shape        string `json:"shape,omitempty"`
	IsExtendable bool   `json:"is_extendable,omitempty"`

	// Sofa.
	Seats         int  `json:"seats,omitempty"`
	IsConvertible bool `json:"is_convertible,omitempty"`

	// Bed. Shares HasStorage with Sofa.
	HasStorage bool   `json:"has_storage,omitempty"`
	Size       string `json:"size,omitempty"`
	Material   string `json:"material,omitempty"`

	// Cabinet.
	NumDrawers int  `json:"num_drawers,omitempty"`
	NumShelves int  `json:"num_shelves,omitempty"`
	HasLock    bool `json:"has_lock,omitempty"`
}

// Furniture is a catalog item. Behaviour that differs per kind is looked up
// in dispatch tables keyed by Kind; there is no subtype hierarchy.
type Furniture struct {
	ID            int64
	Name          string
	Description   string
	Price         decimal.Decimal
	Dimensions    string
	StockQuantity int
	CategoryID    int64
	ImageURL      string
	Kind          Kind
	Attrs         Attributes
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

var hundred = decimal.NewFromInt(100)

// bonusRule is a per-kind extra discount: rate * price is added when the
// kind's flag is set on the attributes.
type bonusRule struct {
	rate    decimal.Decimal
	applies func(Attributes) bool
}

var bonusRules = map[Kind]bonusRule{
	KindChair:   {rate: decimal.NewFromFloat(0.05), applies: func(a Attributes) bool { return a.IsAdjustable }},
	KindTable:   {rate: decimal.NewFromFloat(0.03), applies: func(a Attributes) bool { return a.IsExtendable }},
	KindSofa:    {rate: decimal.NewFromFloat(0.07), applies: func(a Attributes) bool { return a.IsConvertible }},
	KindBed:     {rate: decimal.NewFromFloat(0.04), applies: func(a Attributes) bool { return a.HasStorage }},
	KindCabinet: {rate: decimal.NewFromFloat(0.02), applies: func(a Attributes) bool { return a.HasLock }},
}

// ComputeDiscount returns the per-product discount amount for the given base
// percentage: price * pct/100, plus the kind's bonus rate of the price when
// the kind's flag attribute is set. This is independent of the cart-wide
// discount strategies; callers pick one mechanism or the other.
func (f Furniture) ComputeDiscount(basePercentage decimal.Decimal) decimal.Decimal {
	amount := f.Price.Mul(basePercentage).Div(hundred)
	if rule, ok := bonusRules[f.Kind]; ok && rule.applies(f.Attrs) {
		amount = amount.Add(f.Price.Mul(rule.rate))
	}
	return amount.Round(2)
}

// Repository defines persistence operations for the furniture catalog.
type Repository interface {
	Create(ctx context.Context, f *Furniture) (int64, error)
	Update(ctx context.Context, f *Furniture) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*Furniture, error)
	List(ctx context.Context) ([]Furniture, error)
	// DecrementStock reduces a product's stock by the purchased quantity.
	DecrementStock(ctx context.Context, productID int64, quantity int) error
}
