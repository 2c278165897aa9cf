package processor

import (
	"go.uber.org/zap"

	"github.com/ssvlabs/ssv-bridge/bridge"
	"github.com/ssvlabs/ssv-bridge/bridge/address"
	"github.com/ssvlabs/ssv-bridge/bridge/instruction"
	"github.com/ssvlabs/ssv-bridge/bridge/state"
	"github.com/ssvlabs/ssv-bridge/ledger"
	"github.com/ssvlabs/ssv-bridge/logging/fields"
)

// initQuorum creates the quorum config and replay counter records.
//
// Accounts: quorum config target, replay counter target, authority (signer,
// payer), system program.
func (p *Processor) initQuorum(logger *zap.Logger, ic ledger.InvokeContext, it *accountIter, ix *instruction.InitQuorum) error {
	accounts, err := it.NextN(4)
	if err != nil {
		return err
	}
	quorum, counter, authority, systemProgram := accounts[0], accounts[1], accounts[2], accounts[3]

	if !authority.IsSigner {
		return bridge.ErrInvalidAuthorityAccount.Wrapf("authority %s did not sign", authority.Key)
	}

	programID := ic.ProgramID()
	quorumAddr, err := address.QuorumConfig(programID)
	if err != nil {
		return err
	}
	if !quorum.DataIsEmpty() || !quorum.Key.Equals(quorumAddr.Key) {
		return bridge.ErrPDAAccountCreated.Wrapf("quorum config target %s", quorum.Key)
	}

	custodyBump, err := address.FindCustodyBump(quorum.Key, programID)
	if err != nil {
		return err
	}
	cfg := state.QuorumConfig{
		Initialized: true,
		BumpSeed:    custodyBump,
		Beacons:     ix.Beacons,
	}
	cfgData, err := cfg.MarshalBinary()
	if err != nil {
		return err
	}
	if err := createRecord(ic, authority, quorum, systemProgram, len(cfgData), address.QuorumConfigSeed, quorumAddr.Bump); err != nil {
		return err
	}
	copy(quorum.Data, cfgData)

	counterAddr, err := address.ReplayCounter(programID)
	if err != nil {
		return err
	}
	if !counter.DataIsEmpty() || !counter.Key.Equals(counterAddr.Key) {
		return bridge.ErrPDAAccountCreated.Wrapf("replay counter target %s", counter.Key)
	}
	rc := state.ReplayCounter{Initialized: true}
	rcData, err := rc.MarshalBinary()
	if err != nil {
		return err
	}
	if err := createRecord(ic, authority, counter, systemProgram, len(rcData), address.ReplayCounterSeed, counterAddr.Bump); err != nil {
		return err
	}
	copy(counter.Data, rcData)

	logger.Info("quorum initialized",
		fields.Account(quorum.Key),
		fields.Beacons(len(ix.Beacons)),
		fields.Counter(0))
	return nil
}

// createRecord allocates a rent-exempt, program owned account of size bytes at
// the address derived from seed and bump.
func createRecord(ic ledger.InvokeContext, payer, target, systemProgram *ledger.AccountInfo, size int, seed []byte, bump uint8) error {
	err := ic.CreateAccount(ledger.CreateAccountParams{
		Payer:         payer,
		NewAccount:    target,
		SystemProgram: systemProgram,
		Lamports:      ic.MinimumBalance(size),
		Space:         uint64(size),
		Owner:         ic.ProgramID(),
		SignerSeeds:   [][]byte{seed, {bump}},
	})
	if err != nil {
		return bridge.ErrAccountCreationFailed.Wrapf("%s: %w", target.Key, err)
	}
	return nil
}
