package pricing

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLine struct {
	price float64
	units int
}

func (l fakeLine) UnitPrice() float64 { return l.price }
func (l fakeLine) Units() int         { return l.units }

func TestCartTotal(t *testing.T) {
	lines := []fakeLine{
		{price: 19.99, units: 2},
		{price: 44.50, units: 1},
	}
	assert.InDelta(t, 84.48, CartTotal(lines), 0.001)
}

func TestCartTotal_Empty(t *testing.T) {
	assert.Equal(t, float64(0), CartTotal([]fakeLine{}))
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"plain number", "44.50", 44.50},
		{"dollar sign", "$59.99", 59.99},
		{"thousands separator", "1,299.00", 1299.00},
		{"currency symbol and separator", "₹1,299.00", 1299.00},
		{"garbage", "free!", 0},
		{"empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseAmount(tt.input), 0.001)
		})
	}
}

func TestAmount_UnmarshalNumber(t *testing.T) {
	var a Amount
	require.NoError(t, json.Unmarshal([]byte(`19.99`), &a))
	assert.InDelta(t, 19.99, float64(a), 0.001)
}

func TestAmount_UnmarshalString(t *testing.T) {
	var a Amount
	require.NoError(t, json.Unmarshal([]byte(`"$19.99"`), &a))
	assert.InDelta(t, 19.99, float64(a), 0.001)
}

func TestAmount_UnmarshalUnrecognizedShape(t *testing.T) {
	var a Amount
	require.NoError(t, json.Unmarshal([]byte(`{"value": 5}`), &a))
	assert.Equal(t, float64(0), float64(a))
}

func TestAmount_MarshalRoundTrip(t *testing.T) {
	out, err := json.Marshal(Amount(44.5))
	require.NoError(t, err)
	assert.Equal(t, "44.5", string(out))
}
