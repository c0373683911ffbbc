package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/paygo/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	colorPrimary = lipgloss.Color("#7D56F4")
	colorSuccess = lipgloss.Color("#04B575")
	colorDanger  = lipgloss.Color("#FF5F87")
	colorMuted   = lipgloss.Color("#626262")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	headerStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	netStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorSuccess)
	warningStyle = lipgloss.NewStyle().Bold(true).Foreground(colorDanger)
	slipStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorPrimary).Padding(0, 1)
)

const (
	nameWidth   = 30
	amountWidth = 15
)

// ConsoleFormatter renders payslips for a terminal. Plain drops all styling.
type ConsoleFormatter struct {
	Plain bool
}

func (c ConsoleFormatter) Name() string {
	if c.Plain {
		return "console-plain"
	}
	return "console"
}

func (c ConsoleFormatter) style(s lipgloss.Style, text string) string {
	if c.Plain {
		return text
	}
	return s.Render(text)
}

func (c ConsoleFormatter) Format(batch *domain.PayrollBatch) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, c.style(titleStyle, fmt.Sprintf("PAYROLL RUN %s", batch.Period)))
	fmt.Fprintln(&buf, c.style(mutedStyle, fmt.Sprintf("Run %s | policy %s | as of %s",
		batch.RunID, batch.Policy, batch.AsOf.Format("2006-01-02"))))
	fmt.Fprintln(&buf)

	for _, slip := range batch.Payslips {
		body := c.payslip(slip)
		if c.Plain {
			fmt.Fprintln(&buf, strings.Repeat("=", nameWidth+amountWidth+1))
			fmt.Fprint(&buf, body)
		} else {
			fmt.Fprintln(&buf, slipStyle.Render(strings.TrimRight(body, "\n")))
		}
		fmt.Fprintln(&buf)
	}

	fmt.Fprintf(&buf, "Employees: %d\n", len(batch.Payslips))
	fmt.Fprintln(&buf, c.style(netStyle, fmt.Sprintf("%-*s %*s", nameWidth, "TOTAL NET PAY",
		amountWidth, FormatCurrency(batch.TotalNetPay))))
	return buf.Bytes(), nil
}

func (c ConsoleFormatter) payslip(slip domain.Payslip) string {
	var sb strings.Builder
	r := slip.Result

	heading := slip.EmployeeID
	if slip.Name != "" {
		heading = fmt.Sprintf("%s  %s", slip.EmployeeID, slip.Name)
	}
	sb.WriteString(c.style(titleStyle, heading) + "\n\n")

	sb.WriteString(c.style(headerStyle, "EARNINGS") + "\n")
	writeLines(&sb, r.Earnings)
	writeRow(&sb, "Total earnings", r.TotalEarnings)
	sb.WriteString("\n")

	sb.WriteString(c.style(headerStyle, "DEDUCTIONS") + "\n")
	if len(r.Deductions) == 0 {
		sb.WriteString(c.style(mutedStyle, "  none") + "\n")
	}
	writeLines(&sb, r.Deductions)
	writeRow(&sb, "Total deductions", r.TotalDeductions)
	sb.WriteString("\n")

	sb.WriteString(c.style(netStyle, fmt.Sprintf("%-*s %*s", nameWidth, "NET PAY", amountWidth, FormatCurrency(r.NetPay))) + "\n")

	if slip.Contributions != nil {
		sb.WriteString("\n" + c.style(mutedStyle, fmt.Sprintf("Employer contributions: %s", FormatCurrency(slip.Contributions.EmployerTotal()))) + "\n")
	}
	if mw := slip.MinimumWage; mw != nil && mw.UnknownRegion {
		sb.WriteString(c.style(warningStyle, fmt.Sprintf("Minimum wage %s: unknown region (NOT VERIFIED)", mw.RegionCode)) + "\n")
	} else if mw != nil {
		line := fmt.Sprintf("Minimum wage %s: implied daily %s vs %s", mw.RegionCode,
			FormatCurrency(mw.ImpliedDaily), FormatCurrency(mw.MinimumDaily))
		if mw.Compliant {
			sb.WriteString(c.style(mutedStyle, line+" (ok)") + "\n")
		} else {
			sb.WriteString(c.style(warningStyle, line+" (BELOW MINIMUM)") + "\n")
		}
	}
	return sb.String()
}

func writeLines(sb *strings.Builder, lines []domain.LineItem) {
	for _, l := range lines {
		writeRow(sb, "  "+l.Name, l.Amount)
	}
}

func writeRow(sb *strings.Builder, label string, amount decimal.Decimal) {
	if len(label) > nameWidth {
		label = label[:nameWidth-1] + "~"
	}
	fmt.Fprintf(sb, "%-*s %*s\n", nameWidth, label, amountWidth, FormatCurrency(amount))
}
