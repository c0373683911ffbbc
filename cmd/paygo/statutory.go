package main

import (
	"errors"
	"fmt"

	"github.com/rgehrsitz/paygo/internal/domain"
	"github.com/rgehrsitz/paygo/internal/output"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func decimalFlag(cmd *cobra.Command, name string) (decimal.Decimal, bool, error) {
	raw, _ := cmd.Flags().GetString(name)
	if raw == "" {
		return decimal.Zero, false, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("invalid --%s %q: %w", name, raw, err)
	}
	return d, true, nil
}

var contributionsCmd = &cobra.Command{
	Use:   "contributions",
	Short: "Show the mandatory contributions for a monthly salary",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.close()
		salary, ok, err := decimalFlag(cmd, "salary")
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("--salary is required")
		}

		c, err := e.calc.Contributions(salary)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Monthly salary: %s\n\n", output.FormatCurrency(salary))
		fmt.Fprintf(out, "%-18s %14s %14s %14s\n", "", "Employee", "Employer", "Total")
		rows := []struct {
			name  string
			share domain.ContributionShare
		}{
			{"Social insurance", c.SocialInsurance},
			{"Health insurance", c.HealthInsurance},
			{"Housing fund", c.HousingFund},
		}
		for _, row := range rows {
			fmt.Fprintf(out, "%-18s %14s %14s %14s\n", row.name, output.FormatCurrency(row.share.EmployeeShare),
				output.FormatCurrency(row.share.EmployerShare), output.FormatCurrency(row.share.Total))
		}
		employee, employer := c.EmployeeTotal(), c.EmployerTotal()
		fmt.Fprintf(out, "%-18s %14s %14s %14s\n", "Total",
			output.FormatCurrency(employee), output.FormatCurrency(employer), output.FormatCurrency(employee.Add(employer)))
		return nil
	},
}

var taxCmd = &cobra.Command{
	Use:   "tax",
	Short: "Compute withholding tax on an annual or monthly taxable income",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.close()
		annual, hasAnnual, err := decimalFlag(cmd, "annual")
		if err != nil {
			return err
		}
		monthly, hasMonthly, err := decimalFlag(cmd, "monthly")
		if err != nil {
			return err
		}
		if hasAnnual == hasMonthly {
			return errors.New("exactly one of --annual or --monthly is required")
		}

		out := cmd.OutOrStdout()
		if hasAnnual {
			tax, err := e.calc.WithholdingTax(annual)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Annual taxable income: %s\n", output.FormatCurrency(annual))
			fmt.Fprintf(out, "Annual withholding tax: %s\n", output.FormatCurrency(tax))
			return nil
		}

		tax, err := e.calc.MonthlyWithholdingTax(monthly)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Monthly taxable income: %s\n", output.FormatCurrency(monthly))
		fmt.Fprintf(out, "Monthly withholding tax: %s\n", output.FormatCurrency(tax))
		return nil
	},
}

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Print the statutory policy in use, or save it to a file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.close()
		policy := e.calc.Policy()

		if out, _ := cmd.Flags().GetString("out"); out != "" {
			if err := output.SavePolicy(policy, out); err != nil {
				return fmt.Errorf("failed to save policy: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Policy %s written to %s\n", policy.Metadata, out)
			return nil
		}

		data, err := yaml.Marshal(policy)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	contributionsCmd.Flags().String("salary", "", "Monthly salary")
	taxCmd.Flags().String("annual", "", "Annual taxable income")
	taxCmd.Flags().String("monthly", "", "Monthly taxable income")
	policyCmd.Flags().String("out", "", "Write the policy to this YAML file")
}
