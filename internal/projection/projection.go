// Package projection derives what the list screen and the exported reports
// show from the full record set. Everything here is pure except the Engine's
// memo table.
package projection

import (
	"strings"

	"arha/internal/core"
)

// View is the filtered record sequence for one FilterSpec and the sum of its
// stored profits.
type View struct {
	Filter       core.FilterSpec    `json:"-"`
	Transactions []core.Transaction `json:"transactions"`
	TotalProfit  core.Money         `json:"totalProfit"`
}

func (v View) Count() int {
	return len(v.Transactions)
}

// Matches reports whether t passes every criterion of spec: same calendar
// month and year, plate containing the pattern case-insensitively, and the
// exact service type unless spec leaves it empty.
func Matches(t core.Transaction, spec core.FilterSpec) bool {
	if !t.Date.InMonth(spec.Month, spec.Year) {
		return false
	}
	if spec.PlatePattern != "" &&
		!strings.Contains(strings.ToLower(t.Plate), strings.ToLower(spec.PlatePattern)) {
		return false
	}
	if spec.ServiceType != "" && t.ServiceType != spec.ServiceType {
		return false
	}
	return true
}

// Filter returns the matching records in their original order.
func Filter(records []core.Transaction, spec core.FilterSpec) []core.Transaction {
	out := make([]core.Transaction, 0)
	for _, t := range records {
		if Matches(t, spec) {
			out = append(out, t)
		}
	}
	return out
}

// TotalProfit sums the stored profit of each record. Losses count as
// negative amounts.
func TotalProfit(records []core.Transaction) core.Money {
	var total core.Money
	for _, t := range records {
		total = total.Add(t.Profit)
	}
	return total
}

// Totals adds up the amounts received and the processing costs.
func Totals(records []core.Transaction) (received, cost core.Money) {
	for _, t := range records {
		received = received.Add(t.AmountReceived)
		cost = cost.Add(t.ProcessingCost)
	}
	return received, cost
}

// Project builds the View for spec.
func Project(records []core.Transaction, spec core.FilterSpec) View {
	filtered := Filter(records, spec)
	return View{
		Filter:       spec,
		Transactions: filtered,
		TotalProfit:  TotalProfit(filtered),
	}
}
