package dataset

import (
	"strconv"
	"strings"
	"time"
)

// timeLayouts are the datetime formats recognized during inference,
// tried in order.
var timeLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ParseCell infers the type of a raw text value and returns the typed cell.
// Inference order: blank, bool, number (thousands separators stripped),
// datetime, then string as the fallback.
func ParseCell(raw string) Cell {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Blank()
	}

	switch strings.ToLower(trimmed) {
	case "true":
		return Cell{Kind: KindBool, Raw: trimmed, Bool: true}
	case "false":
		return Cell{Kind: KindBool, Raw: trimmed, Bool: false}
	}

	// Numbers may carry thousands separators from Excel exports
	numText := strings.ReplaceAll(trimmed, ",", "")
	if f, err := strconv.ParseFloat(numText, 64); err == nil {
		return Cell{Kind: KindNumber, Raw: trimmed, Number: f}
	}

	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, trimmed); err == nil {
			return Cell{Kind: KindTime, Raw: trimmed, Time: ts}
		}
	}

	return Cell{Kind: KindString, Raw: trimmed}
}

// formatNumber renders a float for raw text without trailing zero noise.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
