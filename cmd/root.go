package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"artisan-dex/chain"
	"artisan-dex/config"
	"artisan-dex/core"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const appName = "artisan-dex"

type rootOptions struct {
	configFile string
	logLevel   string
	yes        bool
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Sealed-bid NFT auction marketplace client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			if err := v.BindPFlag("log.level", cmd.Flags().Lookup("log-level")); err != nil {
				return err
			}
			cfg, err := config.Load(v, opts.configFile)
			if err != nil {
				return err
			}
			if err := setupLogging(cfg.Log.Level); err != nil {
				return err
			}
			opts.cfg = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVarP(&opts.yes, "yes", "y", false, "approve every signature request without prompting")

	cmd.AddCommand(
		newServeCmd(opts),
		newListCmd(opts),
		newCreateCmd(opts),
		newCloseCmd(opts),
		newRevealCmd(opts),
		newSessionCmd(opts),
	)
	return cmd
}

func setupLogging(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return nil
}

// promptConfirm asks on in/out before every wallet signature.
func promptConfirm(in io.Reader, out io.Writer) chain.ConfirmFunc {
	reader := bufio.NewReader(in)
	return func(action string) bool {
		fmt.Fprintf(out, "%s\nApprove? [y/N]: ", action)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return false
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes"
	}
}

type closer func()

// buildMarket wires the configured store backend, wallet and status board.
func buildMarket(ctx context.Context, cfg *config.Config, confirm chain.ConfirmFunc) (*core.Market, closer, error) {
	wallet, err := chain.NewKeyWallet(cfg.Wallet.PrivateKey, confirm)
	if err != nil {
		return nil, nil, err
	}

	var (
		store   chain.DataStore
		chainID = cfg.Chain.ChainID
		cleanup = func() {}
	)
	switch cfg.Store.Backend {
	case config.BackendContract:
		bc, err := chain.NewBlockchainClient(cfg.Chain.RPCURL)
		if err != nil {
			return nil, nil, fmt.Errorf("dial %s: %w", cfg.Chain.RPCURL, err)
		}
		id, err := bc.ChainID(ctx)
		if err != nil {
			bc.Close()
			return nil, nil, err
		}
		chainID = id.Int64()
		cs, err := chain.NewContractStore(bc.Client(), cfg.Chain.ContractAddress, wallet, cfg.Store.WaitMined)
		if err != nil {
			bc.Close()
			return nil, nil, err
		}
		head, err := cs.LatestBlockNumber(ctx)
		if err != nil {
			bc.Close()
			return nil, nil, err
		}
		logrus.Infof("connected to chain %d at block %d, store %s", chainID, head, cs.Address())
		store = cs
		cleanup = bc.Close
	case config.BackendRedis:
		rs, err := chain.NewRedisStore(cfg.Store.RedisURL, cfg.Store.RedisNamespace, cfg.Chain.ContractAddress, wallet)
		if err != nil {
			return nil, nil, err
		}
		store = rs
		cleanup = func() { _ = rs.Close() }
	default:
		store = chain.NewMemoryStore(cfg.Chain.ContractAddress, wallet)
	}

	session, err := core.NewSignatureSession(store, chainID, cfg.Session.DurationDays, time.Now())
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	board := core.NewStatusBoard(cfg.Status.SuccessTTL, cfg.Status.ErrorTTL)
	market := core.NewMarket(store, wallet, board, core.MarketConfig{
		RevealDelay: cfg.Reveal.Delay,
		Session:     session,
	})
	logrus.Infof("store backend %s, chain id %d, wallet connected: %v", cfg.Store.Backend, chainID, wallet.Connected())
	return market, cleanup, nil
}
