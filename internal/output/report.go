package output

import (
	"os"
	"strings"

	"github.com/rgehrsitz/paygo/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// GenerateReport renders the batch in the named format
func GenerateReport(batch *domain.PayrollBatch, format string) ([]byte, error) {
	f := GetFormatterByName(format)
	if f == nil {
		return nil, &UnknownFormatError{Format: format}
	}
	return f.Format(batch)
}

// UnknownFormatError is returned for a format name with no formatter
type UnknownFormatError struct {
	Format string
}

func (e *UnknownFormatError) Error() string {
	return "unknown format " + e.Format + " (available: " + strings.Join(Names(), ", ") + ")"
}

func marshalYAML(batch *domain.PayrollBatch) ([]byte, error) {
	return yaml.Marshal(batch)
}

// SavePolicy writes a policy to a YAML file
func SavePolicy(policy *domain.StatutoryPolicy, filename string) error {
	data, err := yaml.Marshal(policy)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}

// FormatCurrency formats an amount with two decimals and thousands separators
func FormatCurrency(amount decimal.Decimal) string {
	s := amount.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + "." + frac
}
