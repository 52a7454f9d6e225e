/*
Package report renders production estimates into downloadable reports
(PDF and CSV).
*/
package report

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/solarninja/solarninja/data"
)

// PDF writes a production estimate report. Layout: title, site and
// system summary, financial summary, monthly energy table, monthly
// best-tilt table.
func PDF(w io.Writer, site data.Site, est data.Estimate) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Solar Ninja -- Production Estimate",
		"", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)

	line := func(format string, args ...any) {
		pdf.CellFormat(0, 7, fmt.Sprintf(format, args...),
			"", 1, "L", false, 0, "")
	}

	desc := site.Description
	if desc == "" {
		desc = site.ID
	}

	line("Site: %v", desc)
	line("Location: lat=%.4f, lon=%.4f, altitude=%.0f m",
		site.Lat, site.Lon, site.Altitude)
	line("System power: %.2f kW", est.System.PowerKW)
	line("Tilt: %.1f deg, azimuth: %.0f deg, losses: %.0f%%",
		est.System.Tilt, est.System.Azimuth, est.System.Losses*100)
	line("Simulation year: %v (%v)", est.Year, est.WeatherSource)
	pdf.Ln(2)

	line("Annual energy (requested tilt): %.0f kWh", est.AnnualKWh)
	line("Annual optimal tilt: %v deg (%.0f kWh)",
		est.OptimalTilt, est.OptimalKWh)
	pdf.Ln(2)

	f := est.Financial
	if f.Capex > 0 {
		line("Capex: %.0f %v", f.Capex, f.Currency)
		line("Annual revenue: %.0f %v", f.AnnualRevenue, f.Currency)
		if f.PaybackYears < 0 {
			line("Payback: not reached within lifetime")
		} else {
			line("Payback: %.1f years", f.PaybackYears)
		}
		line("ROI over lifetime: %.0f%%", f.ROIPct)
		pdf.Ln(2)
	}

	monthlyTable(pdf, est.Monthly)

	return pdf.Output(w)
}

func monthlyTable(pdf *fpdf.Fpdf, monthly []data.MonthEnergy) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Monthly energy", "", 1, "L", false, 0, "")

	header := func(cells ...string) {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(229, 229, 229)
		for _, c := range cells {
			pdf.CellFormat(45, 7, c, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}

	header("Month", "Energy (kWh)", "Best tilt (deg)")

	pdf.SetFont("Helvetica", "", 10)
	for _, m := range monthly {
		pdf.CellFormat(45, 7, m.Month.String(), "1", 0, "L", false, 0, "")
		pdf.CellFormat(45, 7, fmt.Sprintf("%.2f", m.KWh),
			"1", 0, "R", false, 0, "")
		pdf.CellFormat(45, 7, fmt.Sprintf("%d", m.BestTilt),
			"1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
}
