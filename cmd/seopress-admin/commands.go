package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"seopress/internal/app"
	"seopress/internal/config"
	"seopress/internal/infrastructure"
	"seopress/internal/options"
	"seopress/internal/security"
	"seopress/internal/services"
	"seopress/internal/views"
	"seopress/internal/wizard"
)

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "seopress-admin",
		Short:         "SEOPress setup wizard server",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       config.AppVersion,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")

	loadConfig := func() (*config.Config, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		return cfg, nil
	}

	rootCmd.AddCommand(
		newServeCmd(loadConfig),
		newStepsCmd(loadConfig),
		newOptionsCmd(loadConfig),
		newHashPasswordCmd(),
	)
	return rootCmd
}

type configLoader func() (*config.Config, error)

func newServeCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the admin panel and the setup wizard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}

			logger, err := infrastructure.InitializeLogger(cfg.Logging)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer infrastructure.CloseLogFile()

			ctx := cmd.Context()
			application, err := app.NewApplication(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := application.Close(ctx); err != nil {
					logger.Error("Shutdown error", slog.String("error", err.Error()))
				}
			}()

			return application.Run(ctx)
		},
	}
}

func newStepsCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "steps",
		Short: "Print the wizard progression",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}

			renderer, err := views.New()
			if err != nil {
				return err
			}
			setup, err := services.NewSetupService(services.SetupDeps{
				Store:    options.NewMemoryStore(),
				Renderer: renderer,
				Site:     cfg.Site,
				Wizard:   cfg.Wizard,
				Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
			})
			if err != nil {
				return err
			}

			registry, err := wizard.NewRegistryFromSteps(setup.Steps(), nil)
			if err != nil {
				return err
			}
			w := wizard.New(registry, cfg.Wizard)

			out := cmd.OutOrStdout()
			for i, step := range registry.List() {
				form := "view only"
				if step.HasHandler() {
					form = "form"
				}
				fmt.Fprintf(out, "%d. %-16s %-20s %-9s %s\n", i+1, step.Slug, step.Name, form, w.StepLink(step.Slug, nil))
			}
			return nil
		},
	}
}

func newOptionsCmd(load configLoader) *cobra.Command {
	optionsCmd := &cobra.Command{
		Use:   "options",
		Short: "Inspect stored option records",
	}

	optionsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored option names",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			store, err := options.Open(cmd.Context(), cfg.Storage)
			if err != nil {
				return err
			}
			defer store.Close()

			names, err := store.Names(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	})

	optionsCmd.AddCommand(&cobra.Command{
		Use:   "get <name>",
		Short: "Print one option record as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			store, err := options.Open(cmd.Context(), cfg.Storage)
			if err != nil {
				return err
			}
			defer store.Close()

			exists, err := options.Exists(cmd.Context(), store, args[0])
			if err != nil {
				return err
			}
			if !exists {
				return fmt.Errorf("option %q not found", args[0])
			}

			record, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			data, err := yaml.Marshal(map[string]any(record))
			if err != nil {
				return fmt.Errorf("failed to encode option: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	})

	return optionsCmd
}

func newHashPasswordCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Print the bcrypt hash of an admin password (read from stdin unless --password is set)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && err != io.EOF {
					return fmt.Errorf("failed to read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if password == "" {
				return fmt.Errorf("password cannot be empty")
			}

			hash, err := security.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "password to hash")
	return cmd
}
