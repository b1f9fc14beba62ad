// Package export renders computed overtime figures for people: pt-BR number
// formatting, confidential masking and spreadsheet files.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"overtimepay/calc"
)

// Masked replaces monetary figures in confidential mode.
const Masked = "••••••"

// Number formats v with pt-BR separators ("1.234,56"), rounding half away
// from zero.
func Number(v float64, places int32) string {
	s := decimal.NewFromFloat(v).StringFixed(places)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	out := b.String()
	if frac != "" {
		out += "," + frac
	}
	if neg && strings.Trim(out, "0.,") != "" {
		out = "-" + out
	}
	return out
}

func Money(v float64) string {
	return "R$ " + Number(v, 2)
}

func Hours(v float64) string {
	return Number(v, 1) + "h"
}

// Mask hides s when confidential is set.
func Mask(s string, confidential bool) string {
	if confidential {
		return Masked
	}
	return s
}

func MaskedMoney(v float64, confidential bool) string {
	if confidential {
		return "R$ " + Masked
	}
	return Money(v)
}

// Round2 rounds a figure to cents for numeric spreadsheet cells.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// DateBR turns "2024-01-05" into "05/01/2024". Unparsable input is returned
// unchanged.
func DateBR(iso string) string {
	t, ok := calc.ParseDate(iso)
	if !ok {
		return iso
	}
	return t.Format("02/01/2006")
}

var monthsBR = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// LongDateBR spells a date the way receipts are dated: "5 de janeiro de 2024".
func LongDateBR(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d", t.Day(), monthsBR[t.Month()-1], t.Year())
}
