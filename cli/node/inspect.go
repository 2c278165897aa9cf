package node

import (
	"encoding/json"
	"errors"
	"io"
	"log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ssvlabs/ssv-bridge/bridge"
	"github.com/ssvlabs/ssv-bridge/bridge/client"
	"github.com/ssvlabs/ssv-bridge/logging"
)

var InspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Prints the persisted quorum config and replay counter",
	Run: func(cmd *cobra.Command, args []string) {
		logger, err := setupGlobal()
		if err != nil {
			log.Fatal("could not create logger", err)
		}

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

		if err := node.inspect(cmd.OutOrStdout()); err != nil {
			logger.Fatal("could not inspect ledger", zap.Error(err))
		}
	},
}

type inspection struct {
	ProgramID   string   `json:"program_id"`
	Accounts    int64    `json:"accounts"`
	Quorum      string   `json:"quorum_config,omitempty"`
	Custody     string   `json:"custody_authority,omitempty"`
	BumpSeed    uint8    `json:"bump_seed"`
	Threshold   int      `json:"threshold"`
	Beacons     []string `json:"beacons"`
	Counter     string   `json:"replay_counter,omitempty"`
	NextNonce   uint64   `json:"next_nonce"`
	Initialized bool     `json:"initialized"`
}

// inspect writes the bridge records as indented JSON. A ledger that was never
// bootstrapped reports initialized false.
func (n *bridgeNode) inspect(w io.Writer) error {
	out := inspection{ProgramID: n.programID.String(), Beacons: []string{}}

	count, err := n.store.Count()
	if err != nil {
		return err
	}
	out.Accounts = count

	quorum, err := client.LoadQuorum(n.store, n.programID)
	switch {
	case err == nil:
		out.Initialized = true
		out.Quorum = quorum.Address.String()
		out.Custody = quorum.Custody.String()
		out.BumpSeed = quorum.Config.BumpSeed
		out.Threshold = bridge.QuorumThreshold(len(quorum.Config.Beacons)) + 1
		for _, b := range quorum.Config.Beacons {
			out.Beacons = append(out.Beacons, b.String())
		}
	case errors.Is(err, bridge.ErrInvalidAccountData), errors.Is(err, bridge.ErrBeaconsUninitialized):
	default:
		return err
	}

	if out.Initialized {
		counter, key, err := client.LoadCounter(n.store, n.programID)
		if err != nil {
			return err
		}
		out.Counter = key.String()
		out.NextNonce = counter.Counter
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
