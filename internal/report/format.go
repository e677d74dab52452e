package report

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"arha/internal/core"
)

var idPrinter = message.NewPrinter(language.Indonesian)

// FormatRupiah groups thousands the Indonesian way: 1500000 → "1.500.000".
// Fractions are rounded away; the ledger only records whole rupiah.
func FormatRupiah(m core.Money) string {
	return idPrinter.Sprintf("%d", m.Round(0).IntPart())
}
