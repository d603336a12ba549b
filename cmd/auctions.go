package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"artisan-dex/chain"
	"artisan-dex/core"
	"artisan-dex/core/model"

	"github.com/spf13/cobra"
)

const commandTimeout = 5 * time.Minute

func (o *rootOptions) confirm(cmd *cobra.Command) chain.ConfirmFunc {
	if o.yes {
		return nil
	}
	return promptConfirm(cmd.InOrStdin(), cmd.ErrOrStderr())
}

// withMarket runs fn against a freshly loaded market.
func withMarket(cmd *cobra.Command, opts *rootOptions, load bool, fn func(ctx context.Context, m *core.Market) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()

	market, cleanup, err := buildMarket(ctx, opts.cfg, opts.confirm(cmd))
	if err != nil {
		return err
	}
	defer cleanup()

	if load {
		if err := market.Load(ctx); err != nil {
			return err
		}
	}
	return fn(ctx, market)
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var search, tab string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List auctions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMarket(cmd, opts, true, func(ctx context.Context, m *core.Market) error {
				printAuctions(cmd.OutOrStdout(), m, m.Filter(search, model.ParseTab(tab)))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "case-insensitive match on NFT id or auction id")
	cmd.Flags().StringVar(&tab, "tab", string(model.TabAll), "all, active or closed")
	return cmd
}

func printAuctions(out io.Writer, m *core.Market, auctions []*model.Auction) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNFT\tSTATUS\tOWNER\tCREATED\tENCRYPTED BID\tCLOSABLE")
	for _, a := range auctions {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%v\n",
			a.Id, a.NftId, a.Status, a.Owner,
			time.Unix(a.Timestamp, 0).UTC().Format(time.RFC3339),
			core.BidPreview(a.EncryptedBid), m.CanClose(a))
	}
	tw.Flush()
	stats := m.Stats()
	fmt.Fprintf(out, "\ntotal %d, active %d, closed %d, settled %d\n", stats.Total, stats.Active, stats.Closed, stats.Settled)
}

func newCreateCmd(opts *rootOptions) *cobra.Command {
	var params core.CreateAuctionParams
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a sealed-bid auction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMarket(cmd, opts, false, func(ctx context.Context, m *core.Market) error {
				a, err := m.Create(ctx, params)
				if err != nil {
					printStatus(cmd.ErrOrStderr(), m)
					return err
				}
				printStatus(cmd.ErrOrStderr(), m)
				return json.NewEncoder(cmd.OutOrStdout()).Encode(a)
			})
		},
	}
	cmd.Flags().StringVar(&params.NftId, "nft", "", "NFT identifier")
	cmd.Flags().Float64Var(&params.MinBid, "min-bid", 0, "minimum bid in ETH")
	return cmd
}

func newCloseCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "close <auction-id>",
		Short: "Close an active auction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMarket(cmd, opts, false, func(ctx context.Context, m *core.Market) error {
				err := m.Close(ctx, args[0])
				printStatus(cmd.ErrOrStderr(), m)
				return err
			})
		},
	}
}

func newRevealCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reveal <auction-id>",
		Short: "Sign the disclosure message and show the decrypted minimum bid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMarket(cmd, opts, true, func(ctx context.Context, m *core.Market) error {
				bid, err := m.RevealAuction(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%v ETH\n", bid)
				return nil
			})
		},
	}
}

func newSessionCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Print the message signed when revealing a bid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMarket(cmd, opts, false, func(ctx context.Context, m *core.Market) error {
				session := m.Session()
				fmt.Fprintf(cmd.OutOrStdout(), "wallet: %s\n%s\n", m.Wallet().Address(), session.Message())
				return nil
			})
		},
	}
}

func printStatus(out io.Writer, m *core.Market) {
	status := m.Board().Current()
	if status.Visible {
		fmt.Fprintf(out, "[%s] %s\n", status.Phase, status.Message)
	}
}
