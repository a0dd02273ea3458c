package types

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func laptop() Product {
	return Product{
		ID:          7,
		Name:        "Laptop Dell XPS 13",
		Description: "Ultra-portable laptop",
		Weight:      decimal.RequireFromString("1.25"),
		Height:      decimal.RequireFromString("1.5"),
		Width:       decimal.RequireFromString("20.0"),
		Length:      decimal.RequireFromString("30.2"),
	}
}

func TestProductEqual(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Product)
		want   bool
	}{
		{name: "identical", mutate: func(p *Product) {}, want: true},
		{name: "trailing zeros are equal", mutate: func(p *Product) { p.Height = decimal.RequireFromString("1.50") }, want: true},
		{name: "different id", mutate: func(p *Product) { p.ID = 8 }, want: false},
		{name: "different name", mutate: func(p *Product) { p.Name = "Chair" }, want: false},
		{name: "different description", mutate: func(p *Product) { p.Description = "" }, want: false},
		{name: "different weight", mutate: func(p *Product) { p.Weight = decimal.NewFromInt(2) }, want: false},
		{name: "different length", mutate: func(p *Product) { p.Length = decimal.Zero }, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := laptop(), laptop()
			tt.mutate(&b)
			assert.Equal(t, tt.want, a.Equal(b))
		})
	}
}

func TestProductWithIdentity(t *testing.T) {
	p := laptop()
	q := p.WithIdentity(42)

	assert.Equal(t, int64(42), q.Identity())
	assert.Equal(t, int64(7), p.Identity(), "original is not modified")
}

func TestProductValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Product)
		wantErr error
	}{
		{name: "valid", mutate: func(p *Product) {}},
		{name: "zero dimensions are valid", mutate: func(p *Product) { p.Weight = decimal.Zero }},
		{name: "blank name", mutate: func(p *Product) { p.Name = "  " }, wantErr: ErrInvalidName},
		{name: "negative width", mutate: func(p *Product) { p.Width = decimal.NewFromInt(-1) }, wantErr: ErrInvalidDimension},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := laptop()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
