package report

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"arha/internal/projection"
)

var pdfColumns = []struct {
	title string
	width float64
	align string
}{
	{"NO", 12, "C"},
	{"TANGGAL", 25, "C"},
	{"NOPOL", 35, "C"},
	{"NAMA WAJIB PAJAK", 50, "L"},
	{"JENIS", 25, "C"},
	{"KEUNTUNGAN (RP)", 35, "R"},
}

const (
	marginLeft = 14.0
	rowHeight  = 7.0
)

// RenderPDF writes r as an A4 portrait document.
func RenderPDF(w io.Writer, r projection.Report) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginLeft, 14, marginLeft)
	pdf.SetAutoPageBreak(true, 14)
	pdf.SetTitle(r.Title, false)
	pdf.AddPage()

	// brand
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(79, 70, 229)
	pdf.Text(marginLeft, 18, "J A S A")
	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetTextColor(30, 41, 59)
	pdf.Text(marginLeft, 26, "ARHA")
	pdf.SetTextColor(79, 70, 229)
	pdf.Text(marginLeft+pdf.GetStringWidth("ARHA"), 26, ".")
	pdf.SetDrawColor(230, 230, 230)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, 32, 196, 32)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(30, 41, 59)
	pdf.Text(marginLeft, 45, r.Title)

	pdf.SetXY(marginLeft, 52)
	header := func() {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(79, 70, 229)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetDrawColor(200, 200, 200)
		for _, c := range pdfColumns {
			pdf.CellFormat(c.width, rowHeight+1, c.title, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}
	header()

	pdf.SetTextColor(30, 41, 59)
	for _, row := range r.Rows {
		if pdf.GetY()+rowHeight > 283 {
			pdf.AddPage()
			header()
			pdf.SetTextColor(30, 41, 59)
		}
		cells := []string{
			fmt.Sprint(row.No),
			row.Date.String(),
			row.Plate,
			row.OwnerName,
			row.ServiceType,
			FormatRupiah(row.Profit),
		}
		for i, c := range pdfColumns {
			style := ""
			if i == 2 || i == 5 {
				style = "B"
			}
			pdf.SetFont("Helvetica", style, 8)
			pdf.CellFormat(c.width, rowHeight, truncate(pdf, cells[i], c.width-2), "1", 0, c.align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	y := pdf.GetY()
	if y+40 > 283 {
		pdf.AddPage()
		y = pdf.GetY()
	}
	pdf.SetDrawColor(241, 245, 249)
	pdf.SetLineWidth(1)
	pdf.Line(marginLeft, y+8, 196, y+8)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(100, 116, 139)
	pdf.Text(marginLeft, y+18, "Total Terdaftar:")
	pdf.SetFont("Helvetica", "", 9)
	pdf.Text(42, y+18, fmt.Sprintf("%d Wajib Pajak", r.Count))

	pdf.SetFillColor(248, 250, 252)
	pdf.RoundedRect(110, y+12, 86, 25, 3, "1234", "F")
	pdf.SetFont("Helvetica", "B", 9)
	pdf.Text(115, y+20, "TOTAL KEUNTUNGAN BERSIH")
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(79, 70, 229)
	total := "Rp " + FormatRupiah(r.TotalProfit)
	pdf.Text(191-pdf.GetStringWidth(total), y+30, total)

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("layout pdf: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// truncate shortens s with an ellipsis so it fits in width at the current font.
func truncate(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > width {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}
