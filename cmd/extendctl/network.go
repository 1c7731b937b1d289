package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show current epoch and system state of the network",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.Close()

			status, err := a.Status.FetchNetworkStatus(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(status)
		},
	}
}

func newGasPriceCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "gas-price",
		Short: "Show the reference gas price in MIST",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.Close()

			fmt.Printf("%s: %d\n", a.Provider.Current(), a.Status.ReferenceGasPrice(cmd.Context()))
			return nil
		},
	}
}
