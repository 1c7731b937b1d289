package main

import (
	"context"
	"fmt"
	"os"

	"walrus-extend/app"
	"walrus-extend/conf"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	env     string
	network string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "extendctl",
		Short: "Walrus blob search, funding status and tipping from the command line",
		Long: `extendctl drives the same services as the extend API server.

It reads conf/conf_<env>.yaml and opens the configured database, so it
cannot share a pebble data directory with a running server.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.env, "env", "mainnet", "Environment: loc/mainnet/testnet/example")
	root.PersistentFlags().StringVarP(&opts.network, "network", "n", "", "Network to use instead of the stored preference")

	root.AddCommand(
		newClassifyCommand(),
		newResolveCommand(opts),
		newSearchCommand(opts),
		newDownloadCommand(opts),
		newStatusCommand(opts),
		newGasPriceCommand(opts),
		newBalanceCommand(opts),
		newTipCommand(opts),
		newTipsCommand(opts),
	)
	return root
}

// openApp loads config for opts.env and builds the services, switching
// network first when --network was given
func openApp(ctx context.Context, opts *rootOptions) (*app.App, error) {
	env, err := conf.ParseEnvironment(opts.env)
	if err != nil {
		return nil, err
	}
	conf.SystemEnvironmentEnum = env
	if err := conf.InitConfig(); err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}

	a, err := app.New(ctx, conf.Cfg)
	if err != nil {
		return nil, err
	}
	if opts.network != "" {
		if _, err := a.Provider.Switch(opts.network); err != nil {
			a.Close()
			return nil, err
		}
	}
	return a, nil
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
