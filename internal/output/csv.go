package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rgehrsitz/paygo/internal/domain"
)

// CSVSummarizer writes one row per payslip
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(batch *domain.PayrollBatch) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"RunID", "Period", "EmployeeID", "Name", "BaseSalary", "TotalAllowances", "TotalBonuses",
		"TotalEarnings", "TotalDeductions", "NetPay", "EmployeeContributions", "EmployerContributions",
		"Region", "MinimumWageCompliant"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, slip := range batch.Payslips {
		r := slip.Result
		employee, employer := "", ""
		if slip.Contributions != nil {
			employee = slip.Contributions.EmployeeTotal().StringFixed(2)
			employer = slip.Contributions.EmployerTotal().StringFixed(2)
		}
		region, compliant := "", ""
		if slip.MinimumWage != nil {
			region = slip.MinimumWage.RegionCode
			compliant = strconv.FormatBool(slip.MinimumWage.Compliant)
		}
		row := []string{
			batch.RunID,
			batch.Period,
			slip.EmployeeID,
			slip.Name,
			r.BaseSalary.StringFixed(2),
			r.TotalAllowances.StringFixed(2),
			r.TotalBonuses.StringFixed(2),
			r.TotalEarnings.StringFixed(2),
			r.TotalDeductions.StringFixed(2),
			r.NetPay.StringFixed(2),
			employee,
			employer,
			region,
			compliant,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// CSVLineWriter writes one row per payslip line item. Amounts keep their
// full precision.
type CSVLineWriter struct{}

func (c CSVLineWriter) Name() string { return "csv-lines" }

func (c CSVLineWriter) Format(batch *domain.PayrollBatch) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"EmployeeID", "Classification", "Source", "ComponentID", "Line", "Amount"}); err != nil {
		return nil, err
	}
	write := func(employeeID string, l domain.LineItem) error {
		componentID := ""
		if l.ComponentID != nil {
			componentID = strconv.FormatInt(*l.ComponentID, 10)
		}
		return w.Write([]string{employeeID, string(l.Classification), string(l.Source), componentID, l.Name, l.Amount.String()})
	}
	for _, slip := range batch.Payslips {
		for _, l := range slip.Result.Earnings {
			if err := write(slip.EmployeeID, l); err != nil {
				return nil, err
			}
		}
		for _, l := range slip.Result.Deductions {
			if err := write(slip.EmployeeID, l); err != nil {
				return nil, err
			}
		}
		if err := write(slip.EmployeeID, domain.LineItem{Name: "Net Pay", Amount: slip.Result.NetPay}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

