package projection

import (
	"fmt"

	"arha/internal/core"
)

// ReportRow is one line of the monthly report.
type ReportRow struct {
	No          int        `json:"no"`
	Date        core.Date  `json:"date"`
	Plate       string     `json:"plate"`
	OwnerName   string     `json:"ownerName"`
	ServiceType string     `json:"serviceType"`
	Profit      core.Money `json:"profit"`
}

// Report is the exportable form of a View.
type Report struct {
	Title       string      `json:"title"`
	MonthName   string      `json:"monthName"`
	Year        int         `json:"year"`
	Rows        []ReportRow `json:"rows"`
	Count       int         `json:"count"`
	TotalProfit core.Money  `json:"totalProfit"`
	FileBase    string      `json:"fileBase"`
}

// NewReport lays out v as a report. It never filters on its own, so the
// report always lists exactly what the view shows.
func NewReport(v View) Report {
	month := core.MonthName(v.Filter.Month)
	rows := make([]ReportRow, len(v.Transactions))
	for i, t := range v.Transactions {
		rows[i] = ReportRow{
			No:          i + 1,
			Date:        t.Date,
			Plate:       t.Plate,
			OwnerName:   t.OwnerName,
			ServiceType: t.ServiceType.Label(),
			Profit:      t.Profit,
		}
	}
	return Report{
		Title:       fmt.Sprintf("LAPORAN TRANSAKSI BULAN %s %d", month, v.Filter.Year),
		MonthName:   month,
		Year:        v.Filter.Year,
		Rows:        rows,
		Count:       len(rows),
		TotalProfit: v.TotalProfit,
		FileBase:    fmt.Sprintf("Laporan_Arha_%s_%d", month, v.Filter.Year),
	}
}
