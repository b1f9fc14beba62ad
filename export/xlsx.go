package export

import (
	"github.com/xuri/excelize/v2"

	"overtimepay/calc"
	"overtimepay/models"
)

const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type column struct {
	title string
	width float64
}

func writeSheet(sheet string, cols []column, rows [][]any) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	for c, col := range cols {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, col.title); err != nil {
			return nil, err
		}
		name, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheet, name, name, col.width); err != nil {
			return nil, err
		}
	}
	for r, values := range rows {
		for c, v := range values {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	last, err := excelize.CoordinatesToCellName(len(cols), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func moneyCell(v float64, confidential bool) any {
	if confidential {
		return Masked
	}
	return Round2(v)
}

// RecordsXLSX writes the overtime table as shown on screen.
func RecordsXLSX(views []calc.RecordView, confidential bool) ([]byte, error) {
	cols := []column{
		{"Employee", 30}, {"Date", 12}, {"Start", 8}, {"End", 8}, {"Hours", 8},
		{"Type", 8}, {"Observation", 40}, {"Total Value (R$)", 18},
	}
	rows := make([][]any, 0, len(views))
	for _, v := range views {
		rows = append(rows, []any{
			v.EmployeeName, DateBR(v.Date), v.StartTime, v.EndTime, Round2(v.Hours),
			string(v.ServiceType), v.Observation, moneyCell(v.Value, confidential),
		})
	}
	return writeSheet("Overtime", cols, rows)
}

// EmployeesXLSX writes the roster with its rate table.
func EmployeesXLSX(employees []models.Employee, confidential bool) ([]byte, error) {
	cols := []column{
		{"Code", 10}, {"Name", 35}, {"Base Salary (R$)", 18}, {"Hourly Rate (R$)", 18},
		{"Rate 60% (R$)", 16}, {"Rate 100% (R$)", 16}, {"Status", 10},
	}
	rows := make([][]any, 0, len(employees))
	for _, e := range employees {
		rows = append(rows, []any{
			e.Code, e.Name,
			moneyCell(e.BaseSalary, confidential),
			moneyCell(calc.HourlyRate(e.BaseSalary), confidential),
			moneyCell(calc.RateFor(e.BaseSalary, models.ServiceType60), confidential),
			moneyCell(calc.RateFor(e.BaseSalary, models.ServiceType100), confidential),
			e.Status(),
		})
	}
	return writeSheet("Employees", cols, rows)
}

// ReceiptsXLSX writes one line per receipt summary.
func ReceiptsXLSX(summaries []calc.ReceiptSummary, confidential bool) ([]byte, error) {
	cols := []column{
		{"Code", 10}, {"Employee", 35}, {"Hours", 10}, {"Total Value (R$)", 18}, {"Last Date", 12},
	}
	rows := make([][]any, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []any{
			s.EmployeeCode, s.EmployeeName, Round2(s.TotalHours),
			moneyCell(s.TotalValue, confidential), DateBR(s.LastDate),
		})
	}
	return writeSheet("Receipts", cols, rows)
}
