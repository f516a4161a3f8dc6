package currency

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Currencies written with "." as the thousands separator.
var dotGrouped = map[string]bool{
	"IDR": true,
	"EUR": true,
	"VND": true,
}

// Format renders an amount with the currency code as prefix, e.g.
// "USD 1,250", "USD 12.50" or "IDR 1.250.000". Cents are shown only when
// non-zero. An empty code yields the bare number.
func Format(amount float64, code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	cents := int64(math.Round(amount * 100))

	negative := cents < 0
	if negative {
		cents = -cents
	}

	sep, decimal := ",", "."
	if dotGrouped[code] {
		sep, decimal = ".", ","
	}

	result := addThousandsSeparator(strconv.FormatInt(cents/100, 10), sep)
	if frac := cents % 100; frac != 0 {
		result += decimal + fmt.Sprintf("%02d", frac)
	}

	if code != "" {
		result = code + " " + result
	}
	if negative {
		result = "-" + result
	}

	return result
}

func addThousandsSeparator(s string, sep string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	numSeps := (n - 1) / 3
	result := make([]byte, n+numSeps)

	j := len(result) - 1
	for i := n - 1; i >= 0; i-- {
		result[j] = s[i]
		j--

		pos := n - i
		if pos%3 == 0 && i > 0 {
			result[j] = sep[0]
			j--
		}
	}

	return string(result)
}
