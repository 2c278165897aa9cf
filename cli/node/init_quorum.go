package node

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ssvlabs/ssv-bridge/bridge"
	"github.com/ssvlabs/ssv-bridge/bridge/client"
	"github.com/ssvlabs/ssv-bridge/bridge/message"
	"github.com/ssvlabs/ssv-bridge/ledger"
	"github.com/ssvlabs/ssv-bridge/logging"
	"github.com/ssvlabs/ssv-bridge/logging/fields"
)

var InitQuorumCmd = &cobra.Command{
	Use:   "init-quorum",
	Short: "Creates the quorum config and replay counter from the configured beacons",
	Run: func(cmd *cobra.Command, args []string) {
		logger, err := setupGlobal()
		if err != nil {
			log.Fatal("could not create logger", err)
		}
		logger = logger.Named(logging.NameInitQuorum)

		defer logging.CapturePanic(logger)

		node, err := openLedger(cmd.Context(), logger, &cfg)
		if err != nil {
			logger.Fatal("could not open ledger", zap.Error(err))
		}
		defer func() {
			if err := node.Close(); err != nil {
				logger.Error("could not close database", zap.Error(err))
			}
		}()

		if _, err := node.initQuorum(cmd.Context(), logger, cfg.BridgeOptions); err != nil {
			logger.Fatal("could not initialize quorum", zap.Error(err))
		}
	},
}

// ParseBeacons decodes hex encoded beacon public keys, keeping their order.
func ParseBeacons(raw []string) ([]bridge.Beacon, error) {
	beacons := make([]bridge.Beacon, 0, len(raw))
	for i, s := range raw {
		b, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
		if err != nil {
			return nil, fmt.Errorf("beacon %d: %w", i, err)
		}
		beacon, err := message.ParseBeacon(b)
		if err != nil {
			return nil, fmt.Errorf("beacon %d: %w", i, err)
		}
		beacons = append(beacons, beacon)
	}
	return beacons, nil
}

// initQuorum runs the bootstrap instruction paid for by the configured payer.
func (n *bridgeNode) initQuorum(ctx context.Context, logger *zap.Logger, opts BridgeOptions) (*ledger.Receipt, error) {
	if opts.PayerKey == "" {
		return nil, errors.New("payer key is not configured")
	}
	payer, err := solana.PrivateKeyFromBase58(opts.PayerKey)
	if err != nil {
		return nil, fmt.Errorf("invalid payer key: %w", err)
	}
	beacons, err := ParseBeacons(opts.Beacons)
	if err != nil {
		return nil, err
	}

	ix, err := client.InitQuorum(n.programID, payer.PublicKey(), beacons)
	if err != nil {
		return nil, err
	}
	tx, err := ledger.NewTransaction([]solana.Instruction{ix}, payer)
	if err != nil {
		return nil, err
	}

	receipt, err := n.runtime.Execute(ctx, tx)
	for _, line := range receipt.Logs {
		logger.Debug(line, fields.TxID(receipt.TxID))
	}
	if err != nil {
		return receipt, err
	}
	logger.Info("initialized quorum", fields.Beacons(len(beacons)), fields.ProgramID(n.programID), fields.Took(receipt.Duration))
	return receipt, nil
}

// ensureQuorum bootstraps the quorum unless it already exists.
func (n *bridgeNode) ensureQuorum(ctx context.Context, logger *zap.Logger, opts BridgeOptions) error {
	_, err := client.LoadQuorum(n.store, n.programID)
	switch {
	case err == nil:
		logger.Debug("quorum already initialized")
		return nil
	case errors.Is(err, bridge.ErrInvalidAccountData), errors.Is(err, bridge.ErrBeaconsUninitialized):
		_, err = n.initQuorum(ctx, logger, opts)
		return err
	default:
		return err
	}
}
