package order

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ComputesTotalOnce(t *testing.T) {
	o, err := New("c1", []Line{
		{ProductID: 1, Quantity: 2, UnitPrice: decimal.RequireFromString("1200.00")},
		{ProductID: 2, Quantity: 3, UnitPrice: decimal.RequireFromString("25.00")},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPending, o.Status)
	assert.True(t, o.Total.Equal(decimal.RequireFromString("2475.00")), "total %s", o.Total)
	assert.Len(t, o.Lines, 2)
}

func TestNew_RejectsEmptyLines(t *testing.T) {
	_, err := New("c1", nil)
	assert.ErrorIs(t, err, ErrNoLines)
}

func TestNew_RejectsNonPositiveQuantity(t *testing.T) {
	_, err := New("c1", []Line{{ProductID: 1, Quantity: 0, UnitPrice: decimal.NewFromInt(1)}})
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestNew_CopiesLines(t *testing.T) {
	lines := []Line{{ProductID: 1, Quantity: 1, UnitPrice: decimal.NewFromInt(5)}}
	o, err := New("c1", lines)
	require.NoError(t, err)

	lines[0].Quantity = 42
	assert.Equal(t, 1, o.Lines[0].Quantity)
}

func TestTransitions(t *testing.T) {
	tests := []struct {
		status    Status
		canShip   bool
		canCancel bool
	}{
		{StatusPending, false, true},
		{StatusProcessed, true, true},
		{StatusShipped, false, false},
		{StatusCancelled, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			o := &Order{Status: tt.status}
			assert.Equal(t, tt.canShip, o.CanShip())
			assert.Equal(t, tt.canCancel, o.CanCancel())
		})
	}
}

func TestStockDeducted(t *testing.T) {
	assert.False(t, (&Order{Status: StatusPending}).StockDeducted())
	assert.True(t, (&Order{Status: StatusProcessed}).StockDeducted())
}

func TestClone_IsIndependent(t *testing.T) {
	o, err := New("c1", []Line{{ProductID: 1, Quantity: 1, UnitPrice: decimal.NewFromInt(5)}})
	require.NoError(t, err)

	clone := o.Clone()
	clone.Status = StatusShipped
	clone.Lines[0].Quantity = 9

	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, 1, o.Lines[0].Quantity)
}
