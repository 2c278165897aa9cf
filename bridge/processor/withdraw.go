package processor

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/ssvlabs/ssv-bridge/bridge"
	"github.com/ssvlabs/ssv-bridge/bridge/address"
	"github.com/ssvlabs/ssv-bridge/bridge/instruction"
	"github.com/ssvlabs/ssv-bridge/bridge/message"
	"github.com/ssvlabs/ssv-bridge/bridge/state"
	"github.com/ssvlabs/ssv-bridge/ledger"
	"github.com/ssvlabs/ssv-bridge/logging/fields"
)

// withdraw releases custody funds to the listed destinations once a quorum of
// beacons signed the request for the current replay counter value.
//
// Accounts: vault, custody authority, replay counter, quorum config, token
// program, authority (signer), one destination per amount, then one refund
// account per destination when the vault holds the native mint.
func (p *Processor) withdraw(ctx context.Context, logger *zap.Logger, ic ledger.InvokeContext, it *accountIter, ix *instruction.Withdraw) error {
	accounts, err := it.NextN(6)
	if err != nil {
		return err
	}
	vault, custody, counter, quorum, tokenProgram, authority :=
		accounts[0], accounts[1], accounts[2], accounts[3], accounts[4], accounts[5]

	if !authority.IsSigner {
		return bridge.ErrInvalidAuthorityAccount.Wrapf("authority %s did not sign", authority.Key)
	}
	cfg, err := loadQuorum(quorum)
	if err != nil {
		return err
	}
	if len(ix.Amounts) == 0 {
		return bridge.ErrEmptyWithdrawList
	}
	destinations, err := it.NextN(len(ix.Amounts))
	if err != nil {
		return err
	}

	programID := ic.ProgramID()
	if err := checkProgramOwned(quorum, programID); err != nil {
		return err
	}
	mint, err := verifyVault(programID, quorum, cfg, vault)
	if err != nil {
		return err
	}

	if len(ix.Signatures) > len(cfg.Beacons) || !bridge.HasQuorum(len(ix.Signatures), len(cfg.Beacons)) {
		return bridge.ErrInvalidNumberOfSignature.Wrapf("%d signatures for %d beacons", len(ix.Signatures), len(cfg.Beacons))
	}

	// the counter is consumed before any signature is checked; a failed
	// withdrawal rolls it back with the rest of the transaction
	nonce, err := consumeCounter(programID, counter)
	if err != nil {
		return err
	}

	keys := make([]solana.PublicKey, 0, len(destinations))
	for _, dest := range destinations {
		keys = append(keys, dest.Key)
	}
	hash, err := message.New(ix.Amounts, keys, nonce).Hash()
	if err != nil {
		return fmt.Errorf("encode withdrawal message: %w", err)
	}
	if err := message.VerifyPositional(hash, ix.Signatures, cfg.Beacons); err != nil {
		return err
	}

	seeds := address.CustodySeeds(quorum.Key, cfg.BumpSeed)
	native := mint.Equals(solana.SolMint)
	for i, amount := range ix.Amounts {
		dest := destinations[i]
		if native && vault.Key.Equals(dest.Key) {
			return bridge.ErrInvalidTransferTokenData.Wrapf("vault %s is also destination %d", vault.Key, i)
		}

		err := ic.Transfer(ledger.TransferParams{
			Source:               vault,
			Destination:          dest,
			Authority:            custody,
			TokenProgram:         tokenProgram,
			Amount:               amount,
			AuthoritySignerSeeds: seeds,
		})
		if err != nil {
			return bridge.ErrTokenTransferFailed.Wrapf("destination %d: %w", i, err)
		}

		if !native {
			continue
		}
		refund, err := it.Next()
		if err != nil {
			return err
		}
		err = ic.CloseAccount(ledger.CloseParams{
			Account:              dest,
			Destination:          refund,
			Authority:            custody,
			TokenProgram:         tokenProgram,
			AuthoritySignerSeeds: seeds,
		})
		if err != nil {
			return bridge.ErrCloseTokenAccountFailed.Wrapf("destination %d: %w", i, err)
		}
	}

	recordWithdrawal(ctx, mint, ix.Amounts)
	logger.Debug("withdrawn",
		fields.Counter(nonce),
		fields.Mint(mint),
		fields.Count(len(ix.Amounts)),
		fields.Signatures(len(ix.Signatures)))
	return nil
}

// consumeCounter returns the replay counter's current value and advances the
// stored record.
func consumeCounter(programID solana.PublicKey, acc *ledger.AccountInfo) (uint64, error) {
	derived, err := address.ReplayCounter(programID)
	if err != nil {
		return 0, err
	}
	if !acc.Key.Equals(derived.Key) {
		return 0, bridge.ErrInvalidPDAAccount.Wrapf("replay counter %s, want %s", acc.Key, derived.Key)
	}
	if !acc.IsWritable {
		return 0, bridge.ErrInvalidPDAAccount.Wrapf("replay counter %s is not writable", acc.Key)
	}

	if len(acc.Data) == 0 {
		return 0, bridge.ErrCounterUninitialized
	}
	var counter state.ReplayCounter
	if err := counter.UnmarshalBinary(acc.Data); err != nil {
		return 0, err
	}
	if !counter.IsInitialized() {
		return 0, bridge.ErrCounterUninitialized
	}
	nonce, err := counter.ConsumeAndIncrement()
	if err != nil {
		return 0, err
	}
	data, err := counter.MarshalBinary()
	if err != nil {
		return 0, err
	}
	acc.Data = data
	return nonce, nil
}
