package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeDiscount(t *testing.T) {
	ten := decimal.NewFromInt(10)

	tests := []struct {
		name string
		f    Furniture
		base decimal.Decimal
		want string
	}{
		{
			name: "adjustable chair gets 5% bonus",
			f:    Furniture{Kind: KindChair, Price: decimal.NewFromInt(100), Attrs: Attributes{IsAdjustable: true}},
			base: ten,
			want: "15.00",
		},
		{
			name: "non-extendable table gets base only",
			f:    Furniture{Kind: KindTable, Price: decimal.NewFromInt(200)},
			base: ten,
			want: "20.00",
		},
		{
			name: "extendable table gets 3% bonus",
			f:    Furniture{Kind: KindTable, Price: decimal.NewFromInt(200), Attrs: Attributes{IsExtendable: true}},
			base: ten,
			want: "26.00",
		},
		{
			name: "convertible sofa gets 7% bonus",
			f:    Furniture{Kind: KindSofa, Price: decimal.NewFromInt(1000), Attrs: Attributes{IsConvertible: true}},
			base: ten,
			want: "170.00",
		},
		{
			name: "storage bed gets 4% bonus",
			f:    Furniture{Kind: KindBed, Price: decimal.NewFromInt(500), Attrs: Attributes{HasStorage: true}},
			base: ten,
			want: "70.00",
		},
		{
			name: "locked cabinet gets 2% bonus",
			f:    Furniture{Kind: KindCabinet, Price: decimal.NewFromInt(300), Attrs: Attributes{HasLock: true}},
			base: ten,
			want: "36.00",
		},
		{
			name: "zero base percentage leaves only the bonus",
			f:    Furniture{Kind: KindChair, Price: decimal.NewFromInt(100), Attrs: Attributes{IsAdjustable: true}},
			base: decimal.Zero,
			want: "5.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.f.ComputeDiscount(tt.base)
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("Chair")
	require.NoError(t, err)
	assert.Equal(t, KindChair, k)

	_, err = ParseKind("hammock")
	var ukErr *UnknownKindError
	require.ErrorAs(t, err, &ukErr)
	assert.Equal(t, "hammock", ukErr.Kind)
}
