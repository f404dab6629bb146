package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/l1jgo/gameserver/internal/api"
	"github.com/l1jgo/gameserver/internal/config"
	"github.com/l1jgo/gameserver/internal/injector"
	"github.com/l1jgo/gameserver/internal/system"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultConfigPath = "config/server.toml"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cfgPath := defaultConfigPath
	if p := os.Getenv("GAMESERVER_CONFIG"); p != "" {
		cfgPath = p
	}

	root := &cobra.Command{
		Use:           "gameserver",
		Short:         "Run the game server HTTP API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cfgPath)
		},
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", cfgPath, "path to server.toml")

	root.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Load configuration and prototypes, initialize the systems, and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return check(cfgPath, cmd)
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "hash-token <token>",
		Short: "Print the bcrypt hash of an app token for auth.app_token_hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := api.HashToken(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	})
	return root
}

func run(parent context.Context, cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, cleanup, err := injector.InitializeApp(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	defer cleanup()

	return a.Run(ctx)
}

func check(cfgPath string, cmd *cobra.Command) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := zap.NewNop()
	table, err := injector.ProvidePrototypes(cfg, log)
	if err != nil {
		return err
	}
	if _, err := system.NewContainer(system.Options{Prototypes: table}, log); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "config ok: %d prototypes %v\n", table.Count(), table.Names())
	return nil
}
