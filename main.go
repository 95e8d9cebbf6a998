package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kastheco/hisect/app"
	cmd2 "github.com/kastheco/hisect/cmd"
	"github.com/kastheco/hisect/config"
	sentrypkg "github.com/kastheco/hisect/internal/sentry"
	"github.com/kastheco/hisect/log"
)

var (
	version     = "0.1.0"
	docFlag     string
	autoYesFlag bool
	rootCmd     = &cobra.Command{
		Use:   "hisect",
		Short: "hisect - section markers for outlines",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			cfg := config.LoadConfig()
			if err := sentrypkg.Init(version, cfg.IsTelemetryEnabled()); err != nil {
				// Non-fatal: sentry failure should not prevent startup
				_ = err
			}
			defer sentrypkg.Flush()
			defer sentrypkg.RecoverPanic()

			log.Initialize(cfg.IsTelemetryEnabled())
			defer log.Close()

			// AutoYes flag overrides config
			if autoYesFlag {
				cfg.AutoYes = true
			}
			document := docFlag
			if len(args) == 1 {
				document = args[0]
			}

			deps, release, err := cmd2.OpenDeps()
			if err != nil {
				return fmt.Errorf("open document store: %w", err)
			}
			defer release()

			configDir, err := config.GetConfigDir()
			if err != nil {
				log.WarningLog.Printf("settings live reload disabled: %v", err)
				configDir = ""
			}

			return app.Run(ctx, app.Options{
				Config:    cfg,
				ConfigDir: configDir,
				Store:     deps.Store,
				Audit:     deps.Audit,
				Document:  document,
			})
		},
	}

	debugCmd = &cobra.Command{
		Use:   "debug",
		Short: "Print debug information like config paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Initialize(false)
			defer log.Close()

			cfg := config.LoadConfig()

			configDir, err := config.GetConfigDir()
			if err != nil {
				return fmt.Errorf("failed to get config directory: %w", err)
			}
			configJson, _ := json.MarshalIndent(cfg, "", "  ")
			docsPath, _ := cfg.DocumentsDBPath()
			auditPath, _ := cfg.AuditDBPath()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config: %s\n%s\n", filepath.Join(configDir, config.ConfigFileName), configJson)
			fmt.Fprintf(out, "Settings overlay: %s\n", filepath.Join(configDir, config.TOMLConfigFileName))
			fmt.Fprintf(out, "Documents: %s\n", docsPath)
			fmt.Fprintf(out, "Audit log: %s\n", auditPath)
			fmt.Fprintf(out, "Log file: %s\n", log.FileName())

			return nil
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of hisect",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hisect version %s\n", version)
			fmt.Fprintf(cmd.OutOrStdout(), "https://github.com/kastheco/hisect/releases/tag/v%s\n", version)
		},
	}
)

// cliDeps opens the store for the non-interactive commands with logging set up.
func cliDeps() (cmd2.Deps, func(), error) {
	log.Initialize(false)
	deps, release, err := cmd2.OpenDeps()
	if err != nil {
		log.Close()
		return cmd2.Deps{}, nil, err
	}
	return deps, func() {
		release()
		log.Close()
	}, nil
}

func init() {
	rootCmd.Flags().StringVarP(&docFlag, "doc", "d", "",
		"Document to open (default: the first stored document)")
	rootCmd.Flags().BoolVarP(&autoYesFlag, "autoyes", "y", false,
		"Accept rescan and clear prompts without asking")

	rootCmd.AddCommand(debugCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cmd2.NewMarkersCmd(cliDeps))
	rootCmd.AddCommand(newDocsCmd(cliDeps))
	rootCmd.AddCommand(newCheckCmd(cliDeps))
	rootCmd.AddCommand(newColorsCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errUnhealthy) {
			os.Exit(1)
		}
		fmt.Println(err)
		os.Exit(1)
	}
}
