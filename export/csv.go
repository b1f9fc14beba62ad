package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"overtimepay/calc"
)

// RecordsCSV writes the overtime table as plain CSV.
func RecordsCSV(w io.Writer, views []calc.RecordView, confidential bool) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"Employee", "Date", "Start", "End", "Hours", "Type", "Observation", "Value"}); err != nil {
		return err
	}
	for _, v := range views {
		value := fmt.Sprintf("%.2f", Round2(v.Value))
		if err := writer.Write([]string{
			v.EmployeeName,
			v.Date,
			v.StartTime,
			v.EndTime,
			fmt.Sprintf("%.2f", Round2(v.Hours)),
			string(v.ServiceType),
			v.Observation,
			Mask(value, confidential),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

type receiptLine struct {
	Code     string `csv:"code"`
	Name     string `csv:"name"`
	Hours    string `csv:"hours"`
	Value    string `csv:"value"`
	LastDate string `csv:"last_date"`
}

// ReceiptsCSV writes receipt summaries with a header row.
func ReceiptsCSV(w io.Writer, summaries []calc.ReceiptSummary, confidential bool) error {
	lines := make([]receiptLine, 0, len(summaries))
	for _, s := range summaries {
		lines = append(lines, receiptLine{
			Code:     s.EmployeeCode,
			Name:     s.EmployeeName,
			Hours:    fmt.Sprintf("%.2f", Round2(s.TotalHours)),
			Value:    Mask(fmt.Sprintf("%.2f", Round2(s.TotalValue)), confidential),
			LastDate: s.LastDate,
		})
	}
	return gocsv.Marshal(&lines, w)
}
