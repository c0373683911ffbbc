package output

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rgehrsitz/paygo/internal/domain"
)

// Formatter renders a payroll batch
type Formatter interface {
	Name() string
	Format(batch *domain.PayrollBatch) ([]byte, error)
}

// FormatterFunc adapts a function to the Formatter interface
type FormatterFunc struct {
	ID string
	F  func(batch *domain.PayrollBatch) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(batch *domain.PayrollBatch) ([]byte, error) { return f.F(batch) }

// aliases maps accepted --format values to registry names
var aliases = map[string]string{
	"console":   "console",
	"table":     "console",
	"text":      "console",
	"plain":     "console-plain",
	"json":      "json",
	"json-raw":  "json-compact",
	"csv":       "csv",
	"csv-lines": "csv-lines",
	"yaml":      "yaml",
}

var registry = map[string]Formatter{
	"console":       ConsoleFormatter{},
	"console-plain": ConsoleFormatter{Plain: true},
	"json":          JSONFormatter{Pretty: true},
	"json-compact":  FormatterFunc{ID: "json-compact", F: JSONFormatter{}.Format},
	"csv":           CSVSummarizer{},
	"csv-lines":     CSVLineWriter{},
	"yaml":          FormatterFunc{ID: "yaml", F: marshalYAML},
}

// GetFormatterByName returns the formatter registered under name or one of
// its aliases, or nil
func GetFormatterByName(name string) Formatter {
	key := strings.ToLower(strings.TrimSpace(name))
	if target, ok := aliases[key]; ok {
		key = target
	}
	return registry[key]
}

// Names lists the accepted format names
func Names() []string {
	names := make([]string, 0, len(aliases))
	for name := range aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WriteFormatted renders the batch and writes it to payroll_<period>_<run>.<ext>
// in the working directory, returning the file name
func WriteFormatted(f Formatter, batch *domain.PayrollBatch, ext string) (string, error) {
	data, err := f.Format(batch)
	if err != nil {
		return "", fmt.Errorf("failed to format batch with %s: %w", f.Name(), err)
	}
	run := batch.RunID
	if len(run) > 8 {
		run = run[:8]
	}
	filename := fmt.Sprintf("payroll_%s_%s.%s", fileSafe(batch.Period), fileSafe(run), ext)
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return filename, nil
}

var unsafeFileChars = strings.NewReplacer("/", "-", "\\", "-", ":", "-", " ", "_")

// fileSafe keeps a label from escaping the working directory or splitting the name
func fileSafe(label string) string {
	label = unsafeFileChars.Replace(label)
	if label == "" || label == "." || label == ".." {
		return "run"
	}
	return label
}
