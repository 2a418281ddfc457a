package export

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Money formatea un valor en pesos sin decimales con puntos de miles: 25000 → "$25.000".
func Money(d decimal.Decimal) string {
	s := d.Round(0).StringFixed(0)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	n := len(s)
	if n <= 3 {
		return sign + "$" + s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + "$" + string(buf)
}

// Date formatea como dd/mm/aaaa.
func Date(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format("02/01/2006")
}

// FileName {entity}-{YYYY-MM-DD}.{ext}
func FileName(entity string, at time.Time, format string) string {
	return entity + "-" + at.Format("2006-01-02") + "." + format
}
