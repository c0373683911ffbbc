package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rgehrsitz/paygo/internal/config"
	"github.com/rgehrsitz/paygo/internal/logging"
	"github.com/rgehrsitz/paygo/internal/output"
	"github.com/rgehrsitz/paygo/internal/payroll"
	"github.com/rgehrsitz/paygo/internal/statutory"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "paygo %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

var rootCmd = &cobra.Command{
	Use:   "paygo",
	Short: "Payroll and statutory calculation CLI",
	Long: `Computes payslips from a salary component catalog and applies mandatory
contributions, withholding tax, premiums and minimum-wage checks.`,
	SilenceUsage: true,
}

// env carries what every command needs: settings, a logger and the
// statutory calculator
type env struct {
	settings *config.Settings
	logger   logging.Logger
	calc     *statutory.Calculator
	cleanup  func()
}

// close flushes the logger and releases its output
func (e *env) close() {
	if e.cleanup != nil {
		e.cleanup()
	}
}

func setup(cmd *cobra.Command) (*env, error) {
	configFile, _ := cmd.Flags().GetString("config")
	settings, err := config.LoadSettings(configFile)
	if err != nil {
		return nil, err
	}
	if debugMode, _ := cmd.Flags().GetBool("debug"); debugMode {
		settings.Log.Level = "debug"
	}
	if policyFile, _ := cmd.Flags().GetString("policy"); policyFile != "" {
		settings.PolicyFile = policyFile
	}

	logger, cleanup, err := logging.NewSugared(&settings.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	calc, err := loadCalculator(settings.PolicyFile)
	if err != nil {
		cleanup()
		return nil, err
	}
	logger.Debugf("using statutory policy %s", calc.Policy().Metadata)
	return &env{settings: settings, logger: logger, calc: calc, cleanup: cleanup}, nil
}

// loadCalculator uses the policy file when one is set and the built-in
// tables otherwise
func loadCalculator(policyFile string) (*statutory.Calculator, error) {
	if policyFile == "" {
		return statutory.NewDefaultCalculator(), nil
	}
	policy, err := config.NewInputParser().LoadPolicyFromFile(policyFile)
	if err != nil {
		return nil, err
	}
	return statutory.NewCalculator(policy)
}

var calculateCmd = &cobra.Command{
	Use:   "calculate [run-file]",
	Short: "Compute the payslips of a payroll run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		run, err := config.NewInputParser().LoadRunFromFile(args[0])
		if err != nil {
			return err
		}
		if asOf, _ := cmd.Flags().GetString("as-of"); asOf != "" {
			day, err := time.Parse("2006-01-02", asOf)
			if err != nil {
				return fmt.Errorf("invalid --as-of %q: expected YYYY-MM-DD", asOf)
			}
			run.AsOf = &day
		}

		runner := payroll.NewBatchRunner(e.calc)
		runner.SetLogger(e.logger)
		if e.settings.Batch.Concurrency > 0 {
			runner.Concurrency = e.settings.Batch.Concurrency
		}
		batch, err := runner.RunBatch(context.Background(), run)
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		f := output.GetFormatterByName(format)
		if f == nil {
			return &output.UnknownFormatError{Format: format}
		}

		if save, _ := cmd.Flags().GetBool("save"); save {
			filename, err := output.WriteFormatted(f, batch, extensionFor(f.Name()))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Payroll written to %s\n", filename)
			return nil
		}

		data, err := f.Format(batch)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func extensionFor(formatter string) string {
	switch {
	case strings.HasPrefix(formatter, "json"):
		return "json"
	case strings.HasPrefix(formatter, "csv"):
		return "csv"
	case formatter == "yaml":
		return "yaml"
	default:
		return "txt"
	}
}

var validateCmd = &cobra.Command{
	Use:   "validate [run-file]",
	Short: "Validate a payroll run file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		run, err := config.NewInputParser().LoadRunFromFile(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Run file %s is valid (%d components, %d assignments, %d employees)\n",
			args[0], len(run.Components), len(run.Assignments), len(run.Employees))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Settings file (default: ./paygo.yaml or ~/.config/paygo/paygo.yaml)")
	rootCmd.PersistentFlags().String("policy", "", "Statutory policy file (default: built-in tables)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	calculateCmd.Flags().StringP("format", "f", "console", "Output format ("+strings.Join(output.Names(), ", ")+")")
	calculateCmd.Flags().String("as-of", "", "Evaluate component assignments on this day (YYYY-MM-DD)")
	calculateCmd.Flags().Bool("save", false, "Write the report to payroll_<period>_<run>.<ext> instead of stdout")

	rootCmd.AddCommand(calculateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(contributionsCmd)
	rootCmd.AddCommand(taxCmd)
	rootCmd.AddCommand(policyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(versionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
