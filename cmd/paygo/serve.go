package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rgehrsitz/paygo/internal/catalog"
	"github.com/rgehrsitz/paygo/internal/config"
	"github.com/rgehrsitz/paygo/internal/domain"
	handler "github.com/rgehrsitz/paygo/internal/handler/http"
	"github.com/rgehrsitz/paygo/internal/payroll"
	"github.com/rgehrsitz/paygo/internal/store/postgres"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the payroll and statutory API",
	Long: `Serve the payroll and statutory API over HTTP.

The component catalog comes from Postgres when database.dsn is set, and
from the run file given with --run otherwise. Employees of the run file
can be paid through /api/v1/employees/{id}/payslip.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.close()
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			e.settings.HTTP.Addr = addr
		}
		runFile, _ := cmd.Flags().GetString("run")

		ctx := context.Background()
		var (
			components  domain.ComponentReader
			assignments domain.AssignmentReader
			run         *domain.PayrollRun
		)
		if runFile != "" {
			run, err = config.NewInputParser().LoadRunFromFile(runFile)
			if err != nil {
				return err
			}
		}

		switch {
		case e.settings.Database.DSN != "":
			db, err := postgres.Open(ctx, e.settings.Database.DSN, e.settings.Database.MaxConns)
			if err != nil {
				return err
			}
			defer db.Close()
			store := postgres.NewCatalogStore(db)
			components, assignments = store, store
			e.logger.Infof("serving component catalog from Postgres")
		case run != nil:
			store, err := catalog.NewMemoryStoreFromRun(run)
			if err != nil {
				return err
			}
			components, assignments = store, store
			e.logger.Infof("serving component catalog from %s", runFile)
		default:
			return errors.New("no component catalog: set database.dsn or pass --run")
		}

		roster, err := payroll.NewRoster(run)
		if err != nil {
			return err
		}

		engine := catalog.NewEngine(components, assignments, catalog.WithLogger(e.logger))
		agg := payroll.NewAggregator(engine, e.calc)
		agg.SetLogger(e.logger)

		router := handler.NewRouter(handler.RouterConfig{
			AllowedOrigins: e.settings.HTTP.AllowedOrigins,
			Version:        version,
		}, handler.NewPayrollHandler(agg, engine, roster), handler.NewStatutoryHandler(e.calc))

		srv := handler.NewServer(e.settings.HTTP.Addr, router)
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		timeout := time.Duration(e.settings.HTTP.ShutdownTimeout) * time.Second
		return handler.Serve(srv, nil, quit, timeout, e.logger)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the component catalog tables in Postgres",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.close()
		if e.settings.Database.DSN == "" {
			return errors.New("database.dsn is not set (PAYGO_DATABASE_DSN)")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		db, err := postgres.Open(ctx, e.settings.Database.DSN, e.settings.Database.MaxConns)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := postgres.ApplySchema(ctx, db); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Schema applied")
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default from settings, :8080)")
	serveCmd.Flags().String("run", "", "Run file providing the catalog and the employee roster")
}
