package catalog

import (
	"fmt"
	"strings"
)

// UnknownKindError indicates an unrecognized furniture kind string. It always
// propagates to the caller as a catalog error; kinds are never defaulted.
type UnknownKindError struct {
	Kind string
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown furniture kind %q", e.Kind)
}

// ParseKind resolves a kind string case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindChair:
		return KindChair, nil
	case KindTable:
		return KindTable, nil
	case KindSofa:
		return KindSofa, nil
	case KindBed:
		return KindBed, nil
	case KindCabinet:
		return KindCabinet, nil
	default:
		return "", &UnknownKindError{Kind: s}
	}
}

// AttributeBag is a free-form attribute payload, typically decoded from JSON.
// Numeric values may arrive as float64 (JSON) or int.
type AttributeBag map[string]any

// New resolves a kind string and an attribute bag into a Furniture with the
// kind's documented defaults applied for absent attributes. The base carries
// the common catalog fields; its Kind and Attrs are overwritten.
func New(kind string, base Furniture, bag AttributeBag) (*Furniture, error) {
	k, err := ParseKind(kind)
	if err != nil {
		return nil, err
	}

	f := base
	f.Kind = k
	f.Attrs = defaultAttributes(k)
	applyBag(&f.Attrs, bag)
	return &f, nil
}

// defaultAttributes returns the per-kind defaults used when the attribute bag
// omits a field.
func defaultAttributes(k Kind) Attributes {
	switch k {
	case KindChair:
		return Attributes{MaxWeightCapacity: 100, HasArmrests: true}
	case KindTable:
		return Attributes{Shape: "rectangle", MaxWeightCapacity: 200}
	case KindSofa:
		return Attributes{Seats: 3}
	case KindBed:
		return Attributes{Size: "queen", Material: "wood"}
	default: // cabinet: zero drawers/shelves, no lock
		return Attributes{}
	}
}

func applyBag(a *Attributes, bag AttributeBag) {
	if bag == nil {
		return
	}
	setInt(bag, "max_weight_capacity", &a.MaxWeightCapacity)
	setBool(bag, "has_armrests", &a.HasArmrests)
	setBool(bag, "is_adjustable", &a.IsAdjustable)
	setString(bag, "shape", &a.Shape)
	setBool(bag, "is_extendable", &a.IsExtendable)
	setInt(bag, "seats", &a.Seats)
	setBool(bag, "is_convertible", &a.IsConvertible)
	setBool(bag, "has_storage", &a.HasStorage)
	setString(bag, "size", &a.Size)
	setString(bag, "material", &a.Material)
	setInt(bag, "num_drawers", &a.NumDrawers)
	setInt(bag, "num_shelves", &a.NumShelves)
	setBool(bag, "has_lock", &a.HasLock)
}

func setBool(bag AttributeBag, key string, dst *bool) {
	if v, ok := bag[key].(bool); ok {
		*dst = v
	}
}

func setString(bag AttributeBag, key string, dst *string) {
	if v, ok := bag[key].(string); ok {
		*dst = v
	}
}

func setInt(bag AttributeBag, key string, dst *int) {
	switch v := bag[key].(type) {
	case int:
		*dst = v
	case int64:
		*dst = int(v)
	case float64:
		*dst = int(v)
	}
}
