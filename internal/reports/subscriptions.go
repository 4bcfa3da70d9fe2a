package reports

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jmrivas/tradeacademy/internal/domain/subscriptions"
)

// SubscriptionsXLSX renders the admin subscriptions report as an .xlsx
// workbook. Times are shown in loc so the sheet matches what admins see in
// the console.
func SubscriptionsXLSX(rows []subscriptions.ReportRow, loc *time.Location) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{
		"id",
		"Usuario",
		"Email",
		"Servicio",
		"Inicio",
		"Vencimiento",
		"Activa",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("reports: header: %w", err)
	}

	rowNum := 2
	for _, r := range rows {
		end := "—"
		if r.EndDate != nil {
			end = r.EndDate.In(loc).Format("02/01/2006 15:04")
		}
		active := "no"
		if r.Active {
			active = "sí"
		}
		excelRow := []interface{}{
			r.ID,
			r.UserName,
			r.UserEmail,
			r.Service,
			r.StartDate.In(loc).Format("02/01/2006 15:04"),
			end,
			active,
		}
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return nil, fmt.Errorf("reports: cell: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &excelRow); err != nil {
			return nil, fmt.Errorf("reports: row %d: %w", rowNum, err)
		}
		rowNum++
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("reports: write: %w", err)
	}
	return buf.Bytes(), nil
}
