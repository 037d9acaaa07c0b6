// Package pricing normalizes monetary values coming from the two cart
// shapes the storefront deals with: server cart lines priced from a joined
// product, and guest cart lines carrying an embedded price that may have
// been serialized as display text ("₹1,299.00"). Display totals favor
// availability over precision: anything unparseable contributes zero.
package pricing

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Line is a priced quantity. Both model.CartItem and model.GuestLineItem
// satisfy it; each encapsulates its own unit-price fallback chain.
type Line interface {
	UnitPrice() float64
	Units() int
}

// CartTotal sums unit price times quantity across lines.
func CartTotal[L Line](lines []L) float64 {
	var total float64
	for _, l := range lines {
		total += l.UnitPrice() * float64(l.Units())
	}
	return total
}

// ParseAmount converts a price that arrived as text into a float. Currency
// symbols and thousands separators are stripped before parsing; a value
// that still fails to parse yields zero.
func ParseAmount(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return v
}

// Amount is a float64 that tolerates JSON string encodings of prices.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*a = Amount(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = Amount(ParseAmount(s))
		return nil
	}

	// Unrecognized shape (object, array, null) contributes zero.
	*a = 0
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(a))
}
