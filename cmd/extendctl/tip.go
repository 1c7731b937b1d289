package main

import (
	"fmt"
	"strconv"

	"walrus-extend/service/tip_service"

	"github.com/spf13/cobra"
)

func newBalanceCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "balance [address]",
		Short: "Show the WAL balance of an address or of the remembered wallet",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.Close()

			address := ""
			if len(args) == 1 {
				address = args[0]
			} else if account, ok := a.Session.Current(); ok {
				address = account.Address
			} else {
				return tip_service.ErrWalletNotConnected
			}

			balance, err := a.Balances.WalBalance(cmd.Context(), address)
			if err != nil {
				return err
			}
			return printJSON(balance)
		},
	}
}

func newTipCommand(opts *rootOptions) *cobra.Command {
	var (
		sender    string
		wallet    string
		recipient string
	)
	cmd := &cobra.Command{
		Use:   "tip <blobId> <amount>",
		Short: "Send a WAL tip to a blob through the configured signer",
		Long: `Send a WAL tip to a blob.

The amount is in the smallest WAL unit. The recipient defaults to the owner
of the blob object. The transaction is signed by the remote signer
configured under wallet.signer_url.`,
		Example: `  extendctl tip Xq3vU0SPkGiAgYdTzr0EW3Y1d7sbcJYwhTm2E1SS4e4 100000 --sender 0x7d20...`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.Close()

			if sender != "" {
				if _, err := a.Session.Connect(wallet, sender); err != nil {
					return err
				}
			}

			amount, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("%w: %q", tip_service.ErrInvalidAmount, args[1])
			}

			result, err := a.Tipper.SendTip(cmd.Context(), tip_service.TipRequest{
				BlobID:    args[0],
				Amount:    amount,
				Recipient: recipient,
			})
			if err != nil {
				return err
			}
			fmt.Printf("✅ Tipped %s WAL to %s (%s)\n", tip_service.FormatWALUnits(result.TipAmount), result.Recipient, result.RecipientSource)
			return printJSON(result)
		},
	}
	cmd.Flags().StringVar(&sender, "sender", "", "Sender address (default: the remembered wallet)")
	cmd.Flags().StringVar(&wallet, "wallet", "extendctl", "Wallet name recorded with the sender")
	cmd.Flags().StringVar(&recipient, "recipient", "", "Recipient address (default: blob owner)")
	return cmd
}

func newTipsCommand(opts *rootOptions) *cobra.Command {
	var (
		sender bool
		cursor int64
		size   int
	)
	cmd := &cobra.Command{
		Use:   "tips <blobId|address>",
		Short: "List recorded tips of a blob, or of a sender with --sender",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.Close()

			var page *tip_service.HistoryPage
			if sender {
				page, err = a.History.ListBySender(cmd.Context(), args[0], cursor, size)
			} else {
				page, err = a.History.ListByBlob(cmd.Context(), args[0], cursor, size)
			}
			if err != nil {
				return err
			}
			return printJSON(page)
		},
	}
	cmd.Flags().BoolVar(&sender, "sender", false, "Treat the argument as a sender address")
	cmd.Flags().Int64Var(&cursor, "cursor", 0, "Cursor from a previous page")
	cmd.Flags().IntVar(&size, "size", 20, "Page size")
	return cmd
}
