package insight

import (
	"fmt"
	"math"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/davetashner/tripdash/internal/aggregate"
)

// NA is rendered for any non-numeric or NaN value.
const NA = "N/A"

var paymentLabels = map[int]string{
	1: "Credit card",
	2: "Cash",
	3: "No charge",
	4: "Dispute",
	5: "Unknown",
	6: "Voided trip",
}

// FormatInt renders v with thousands separators. Fractional values keep
// their decimals.
func FormatInt(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NA
	}
	if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
		return humanize.Comma(int64(v))
	}
	return humanize.Commaf(v)
}

// FormatPct renders v with exactly two decimals and a "%" suffix.
func FormatPct(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NA
	}
	return fmt.Sprintf("%.2f%%", v)
}

// FormatNumber renders n with thousands separators, or N/A.
func FormatNumber(n aggregate.Number) string {
	return FormatInt(n.OrNaN())
}

// FormatMoney renders v as dollars with thousands separators and two
// decimals.
func FormatMoney(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NA
	}
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return sign + "$" + humanize.FormatFloat("#,###.##", v)
}

// PaymentLabel maps a payment type id to its label. Unknown ids render as
// "Type <id>".
func PaymentLabel(id int) string {
	if l, ok := paymentLabels[id]; ok {
		return l
	}
	return "Type " + strconv.Itoa(id)
}

// PaymentLabelNumber is PaymentLabel for a possibly non-integer id.
func PaymentLabelNumber(n aggregate.Number) string {
	if id, ok := n.Int(); ok {
		return PaymentLabel(id)
	}
	if v, ok := n.Float(); ok {
		return "Type " + strconv.FormatFloat(v, 'f', -1, 64)
	}
	return "Type " + NA
}
