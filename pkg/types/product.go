package types

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Product is a catalogue item. Dimensions are exact decimals so that values
// read back from the store compare equal to the values written.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Weight      decimal.Decimal `json:"weight"`
	Height      decimal.Decimal `json:"height"`
	Width       decimal.Decimal `json:"width"`
	Length      decimal.Decimal `json:"length"`
}

var _ Record[Product] = Product{}

// Identity returns the product ID.
func (p Product) Identity() int64 { return p.ID }

// WithIdentity returns a copy of p with ID set to id.
func (p Product) WithIdentity(id int64) Product {
	p.ID = id
	return p
}

// Equal compares products field by field. Decimals compare by value, so 1.5
// and 1.50 are equal.
func (p Product) Equal(other Product) bool {
	return p.ID == other.ID &&
		p.Name == other.Name &&
		p.Description == other.Description &&
		p.Weight.Equal(other.Weight) &&
		p.Height.Equal(other.Height) &&
		p.Width.Equal(other.Width) &&
		p.Length.Equal(other.Length)
}

// Validate returns ErrInvalidName if the name is blank and
// ErrInvalidDimension if any dimension is negative.
func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrInvalidName
	}
	for _, d := range []decimal.Decimal{p.Weight, p.Height, p.Width, p.Length} {
		if d.IsNegative() {
			return ErrInvalidDimension
		}
	}
	return nil
}
