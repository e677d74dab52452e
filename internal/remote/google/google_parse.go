package google

import (
	"fmt"
	"strconv"
	"strings"

	"arha/internal/core"
)

// Column order of a collection tab. Row 1 carries these names as headers.
var columns = []string{
	"id", "date", "plate", "ownerName", "serviceType",
	"amountReceived", "processingCost", "profit", "notes", "processedBy", "createdAt",
}

const lastColumn = "K"

func headerRow() []any {
	row := make([]any, len(columns))
	for i, c := range columns {
		row[i] = c
	}
	return row
}

func toRow(t core.Transaction) []any {
	return []any{
		t.ID,
		t.Date.String(),
		t.Plate,
		t.OwnerName,
		string(t.ServiceType),
		t.AmountReceived.InexactFloat64(),
		t.ProcessingCost.InexactFloat64(),
		t.Profit.InexactFloat64(),
		t.Notes,
		t.ProcessedBy,
		t.CreatedAt,
	}
}

// parseRows converts data rows (header excluded) into transactions. Blank
// rows are ignored; rows that cannot be read are counted in skipped.
func parseRows(values [][]any) (out []core.Transaction, skipped int) {
	for _, row := range values {
		cols := toStrings(row)
		if strings.TrimSpace(safeGet(cols, 0)) == "" {
			continue
		}
		t, err := parseRow(cols)
		if err != nil {
			skipped++
			continue
		}
		out = append(out, t)
	}
	return out, skipped
}

func parseRow(cols []string) (core.Transaction, error) {
	date, err := core.ParseDate(safeGet(cols, 1))
	if err != nil {
		return core.Transaction{}, err
	}
	received, err := parseAmount(safeGet(cols, 5))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("amountReceived: %w", err)
	}
	cost, err := parseAmount(safeGet(cols, 6))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("processingCost: %w", err)
	}
	profit, err := parseAmount(safeGet(cols, 7))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("profit: %w", err)
	}
	var createdAt int64
	if s := safeGet(cols, 10); s != "" {
		createdAt, err = strconv.ParseInt(s, 10, 64)
		if err != nil {
			return core.Transaction{}, fmt.Errorf("createdAt: %w", err)
		}
	}

	return core.Transaction{
		ID:             safeGet(cols, 0),
		Date:           date,
		Plate:          safeGet(cols, 2),
		OwnerName:      safeGet(cols, 3),
		ServiceType:    core.ServiceType(safeGet(cols, 4)),
		AmountReceived: received,
		ProcessingCost: cost,
		Profit:         profit,
		Notes:          safeGet(cols, 8),
		ProcessedBy:    safeGet(cols, 9),
		CreatedAt:      createdAt,
	}, nil
}

func parseAmount(s string) (core.Money, error) {
	if s == "" {
		return core.Money{}, nil
	}
	return core.ParseMoney(s)
}

func indexOfID(values [][]any, id string) int {
	for i, row := range values {
		if len(row) > 0 && cellString(row[0]) == id {
			return i + 1
		}
	}
	return 0
}

func lessFor(field string) (func(a, b core.Transaction) bool, error) {
	switch field {
	case "createdAt":
		return func(a, b core.Transaction) bool { return a.CreatedAt < b.CreatedAt }, nil
	case "date":
		return func(a, b core.Transaction) bool { return a.Date.Before(b.Date.Time) }, nil
	default:
		return nil, fmt.Errorf("unsupported sort field %q", field)
	}
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = cellString(v)
	}
	return out
}

// cellString renders an unformatted cell without exponent notation.
func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}
