package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"arha/internal/projection"
)

const xlsxSheet = "Laporan"

var xlsxHeaders = []string{"NO", "TANGGAL", "NOPOL", "NAMA WAJIB PAJAK", "JENIS", "KEUNTUNGAN (RP)"}

// RenderXLSX returns r as a workbook with one sheet. Row 1 holds the title,
// row 3 the header, then one row per record and a totals row.
func RenderXLSX(r projection.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 3}) // #,##0
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}

	_ = f.SetCellValue(xlsxSheet, "A1", r.Title)
	_ = f.SetCellStyle(xlsxSheet, "A1", "A1", bold)

	for i, h := range xlsxHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		_ = f.SetCellValue(xlsxSheet, cell, h)
	}
	_ = f.SetCellStyle(xlsxSheet, "A3", "F3", bold)

	row := 4
	for _, rr := range r.Rows {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(xlsxSheet, cell, v)
		}
		write(1, rr.No)
		write(2, rr.Date.String())
		write(3, rr.Plate)
		write(4, rr.OwnerName)
		write(5, rr.ServiceType)
		write(6, rr.Profit.IntPart())
		row++
	}

	totalLabel, _ := excelize.CoordinatesToCellName(1, row)
	totalCell, _ := excelize.CoordinatesToCellName(6, row)
	_ = f.SetCellValue(xlsxSheet, totalLabel, fmt.Sprintf("TOTAL (%d Wajib Pajak)", r.Count))
	_ = f.SetCellValue(xlsxSheet, totalCell, r.TotalProfit.IntPart())
	_ = f.SetCellStyle(xlsxSheet, totalLabel, totalCell, bold)
	_ = f.SetCellStyle(xlsxSheet, "F4", totalCell, money)

	_ = f.SetColWidth(xlsxSheet, "A", "A", 6)
	_ = f.SetColWidth(xlsxSheet, "B", "B", 12)
	_ = f.SetColWidth(xlsxSheet, "C", "C", 14)
	_ = f.SetColWidth(xlsxSheet, "D", "D", 32)
	_ = f.SetColWidth(xlsxSheet, "E", "E", 18)
	_ = f.SetColWidth(xlsxSheet, "F", "F", 18)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
