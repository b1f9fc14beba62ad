// Package importer parses tab-separated text pasted from a spreadsheet into
// employees and overtime records. Each line is validated on its own; a bad
// line never rejects the rest of the batch.
package importer

import (
	"errors"
	"strconv"
	"strings"
)

var (
	ErrColumns         = errors.New("not enough columns")
	ErrBlankCode       = errors.New("code must not be blank")
	ErrDuplicateCode   = errors.New("code already exists")
	ErrBlankName       = errors.New("name must not be blank")
	ErrInvalidSalary   = errors.New("salary must be a positive number")
	ErrUnknownEmployee = errors.New("employee not found or inactive")
	ErrDateFormat      = errors.New("invalid date format, use DD/MM/YYYY")
	ErrInvalidDate     = errors.New("invalid date")
	ErrTimeFormat      = errors.New("invalid time format, use HH:MM:SS")
	ErrInvalidInterval = errors.New("end time must be after start time")
	ErrServiceType     = errors.New("invalid service type, use 60 or 100")
)

// Line is one non-blank input line.
type Line struct {
	Number int
	Text   string
}

// splitLines drops blank lines and keeps the 1-based position of the rest.
func splitLines(text string) []Line {
	var lines []Line
	for i, raw := range strings.Split(strings.TrimSpace(text), "\n") {
		raw = strings.TrimRight(raw, "\r")
		if strings.TrimSpace(raw) == "" {
			continue
		}
		lines = append(lines, Line{Number: i + 1, Text: raw})
	}
	return lines
}

func columns(line string) []string {
	cols := strings.Split(line, "\t")
	for i := range cols {
		cols[i] = strings.TrimSpace(cols[i])
	}
	return cols
}

// ParseCurrency reads pt-BR amounts such as "R$ 1.234,56", "1234,5" or
// "2200".
func ParseCurrency(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, "R$", ""))
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ".", "")
	s = strings.Replace(s, ",", ".", 1)
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
