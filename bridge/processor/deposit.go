package processor

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/ssvlabs/ssv-bridge/bridge"
	"github.com/ssvlabs/ssv-bridge/bridge/instruction"
	"github.com/ssvlabs/ssv-bridge/ledger"
	"github.com/ssvlabs/ssv-bridge/logging/fields"
)

// depositLogFormat is parsed by the off-chain beacons; keep field order.
const depositLogFormat = "tc_owners,address,token,amount:%s,%s,%s,%d"

// deposit moves tokens from the depositor into the custody vault and logs the
// destination chain address for the beacons.
//
// Accounts: depositor token account, vault, quorum config, depositor (signer),
// token program.
func (p *Processor) deposit(ctx context.Context, logger *zap.Logger, ic ledger.InvokeContext, it *accountIter, ix *instruction.Deposit) error {
	accounts, err := it.NextN(4)
	if err != nil {
		return err
	}
	source, vault, quorum, depositor := accounts[0], accounts[1], accounts[2], accounts[3]
	if !depositor.IsSigner {
		return bridge.ErrMissingRequiredSignature.Wrapf("depositor %s", depositor.Key)
	}
	tokenProgram, err := it.Next()
	if err != nil {
		return err
	}

	programID := ic.ProgramID()
	if err := checkProgramOwned(quorum, programID); err != nil {
		return err
	}
	if !vault.Owner.Equals(solana.TokenProgramID) {
		return bridge.ErrIncorrectProgramID.Wrapf("vault %s is owned by %s", vault.Key, vault.Owner)
	}
	cfg, err := loadQuorum(quorum)
	if err != nil {
		return err
	}
	mint, err := verifyVault(programID, quorum, cfg, vault)
	if err != nil {
		return err
	}

	destination, ok := ix.Destination.Text()
	if !ok {
		return bridge.ErrInvalidDestinationAddress.Wrapf("%x is not valid UTF-8", ix.Destination[:])
	}

	err = ic.Transfer(ledger.TransferParams{
		Source:       source,
		Destination:  vault,
		Authority:    depositor,
		TokenProgram: tokenProgram,
		Amount:       ix.Amount,
	})
	if err != nil {
		return bridge.ErrTokenTransferFailed.Wrap(err)
	}

	ic.Log(fmt.Sprintf(depositLogFormat, quorum.Key, destination, mint, ix.Amount))
	recordDeposit(ctx, mint, ix.Amount)
	logger.Debug("deposited",
		fields.Account(depositor.Key),
		fields.Mint(mint),
		fields.Amount(ix.Amount),
		fields.Address(destination))
	return nil
}
