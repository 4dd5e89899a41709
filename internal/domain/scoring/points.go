package scoring

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
)

// Points is a fantasy point value with two decimal places, stored as hundredths.
type Points int64

func FromInt(n int64) Points {
	return Points(n * 100)
}

// ParsePoints parses a decimal string with at most two fractional digits.
func ParsePoints(raw string) (Points, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, fmt.Errorf("empty points value")
	}

	negative := false
	switch value[0] {
	case '-':
		negative = true
		value = value[1:]
	case '+':
		value = value[1:]
	}

	whole, frac, _ := strings.Cut(value, ".")
	if whole == "" {
		whole = "0"
	}
	if strings.ContainsAny(whole, "+-") || strings.ContainsAny(frac, "+-") {
		return 0, fmt.Errorf("points %q has a misplaced sign", raw)
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("points %q has more than two decimal places", raw)
	}
	for len(frac) < 2 {
		frac += "0"
	}

	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse points %q: %w", raw, err)
	}
	f, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse points %q: invalid fraction", raw)
	}

	out := w*100 + f
	if negative {
		out = -out
	}
	return Points(out), nil
}

func (p Points) String() string {
	sign := ""
	v := int64(p)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

func (p Points) MarshalJSON() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Points) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "null" {
		*p = 0
		return nil
	}
	parsed, err := ParsePoints(raw)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Value stores Points in a NUMERIC(10,2) column.
func (p Points) Value() (driver.Value, error) {
	return p.String(), nil
}

func (p *Points) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*p = 0
		return nil
	case int64:
		*p = FromInt(v)
		return nil
	case float64:
		return p.scanString(strconv.FormatFloat(v, 'f', 2, 64))
	case []byte:
		return p.scanString(string(v))
	case string:
		return p.scanString(v)
	default:
		return fmt.Errorf("cannot scan %T into points", src)
	}
}

func (p *Points) scanString(raw string) error {
	parsed, err := ParsePoints(raw)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// mulHundredths multiplies p by a multiplier expressed in hundredths and
// rounds half away from zero.
func (p Points) mulHundredths(multiplier int64) Points {
	product := int64(p) * multiplier
	if product >= 0 {
		return Points((product + 50) / 100)
	}
	return Points(-((-product + 50) / 100))
}
