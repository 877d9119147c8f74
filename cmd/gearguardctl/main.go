// Package main provides gearguardctl, the operator CLI for the GearGuard backend.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gearguard-backend/internal/api/routes"
	"gearguard-backend/internal/bootstrap"
	"gearguard-backend/internal/config"
	"gearguard-backend/internal/database"
	"gearguard-backend/internal/logger"
	"gearguard-backend/internal/repository"
	"gearguard-backend/internal/seed"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gearguardctl",
		Short: "Operate the GearGuard backend",
		Long: `Operator commands for the GearGuard backend.

Configuration is read from the environment (and .env when present), the same
way the server reads it.

Examples:
  gearguardctl migrate                  # Create tables and run SQL migrations
  gearguardctl seed --file seed.yaml    # Load users, categories, teams and equipment
  gearguardctl overdue                  # Run the overdue reminder job once
`,
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			_ = godotenv.Load()
		},
	}

	cmd.AddCommand(migrateCmd())
	cmd.AddCommand(seedCmd())
	cmd.AddCommand(overdueCmd())

	return cmd
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Setup(cfg.LogLevel)
	return cfg, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the schema and apply SQL migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := database.Initialize(cfg.DatabaseURL, nil)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load reference data from a YAML file",
		Long: `Load users, equipment categories, maintenance teams and equipment from a
YAML file. Records that already exist (matched by email, name or serial
number) are skipped, so the same file can be loaded repeatedly.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			data, err := seed.Parse(f)
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			infra, err := bootstrap.Open(cmd.Context(), cfg, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer infra.Close()

			db := infra.Deps.DB
			services := routes.NewServices(infra.Deps)
			loader := seed.NewLoader(
				seed.Repositories{
					Users:      repository.NewUserRepository(db),
					Categories: repository.NewCategoryRepository(db),
					Teams:      repository.NewTeamRepository(db),
					Equipment:  repository.NewEquipmentRepository(db),
				},
				seed.Services{
					Users:      services.User,
					Categories: services.Category,
					Teams:      services.Team,
					Equipment:  services.Equipment,
				},
			)

			res, err := loader.Load(data)
			if res != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Created %d, skipped %d\n", res.Created, res.Skipped)
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "config/seed.example.yaml", "Seed file to load")

	return cmd
}

func overdueCmd() *cobra.Command {
	var outputJSON bool

	cmd := &cobra.Command{
		Use:   "overdue",
		Short: "Send reminders for overdue maintenance requests once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			infra, err := bootstrap.Open(ctx, cfg, bootstrap.Options{SkipMigrations: true})
			if err != nil {
				return err
			}
			defer infra.Close()

			res, err := routes.NewServices(infra.Deps).Reminder.Run(ctx)
			if err != nil {
				return err
			}

			if outputJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%+v\n", *res)
			return nil
		},
	}

	cmd.Flags().BoolVar(&outputJSON, "json", false, "Output the run result as JSON")

	return cmd
}
