package processor

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/ssvlabs/ssv-bridge/bridge"
	"github.com/ssvlabs/ssv-bridge/bridge/instruction"
	"github.com/ssvlabs/ssv-bridge/ledger"
	"github.com/ssvlabs/ssv-bridge/logging"
	"github.com/ssvlabs/ssv-bridge/logging/fields"
)

// Processor is the bridge program. It is stateless; everything it reads and
// writes lives in the accounts passed to Process.
type Processor struct {
	logger *zap.Logger
}

var _ ledger.Program = (*Processor)(nil)

func New(logger *zap.Logger) *Processor {
	return &Processor{
		logger: logger.Named(logging.NameProcessor),
	}
}

// Process decodes data and runs the matching handler.
func (p *Processor) Process(ctx context.Context, ic ledger.InvokeContext, accounts []*ledger.AccountInfo, data []byte) error {
	start := time.Now()

	ix, err := instruction.Decode(data)
	if err != nil {
		recordInstruction(ctx, "unknown", time.Since(start), err)
		return err
	}

	logger := p.logger.With(fields.Instruction(ix.Tag().String()), fields.ProgramID(ic.ProgramID()))
	iter := newAccountIter(accounts)

	switch ix := ix.(type) {
	case *instruction.Deposit:
		ic.Log("Instruction: Deposit")
		err = p.deposit(ctx, logger, ic, iter, ix)
	case *instruction.Withdraw:
		ic.Log("Instruction: Withdraw")
		err = p.withdraw(ctx, logger, ic, iter, ix)
	case *instruction.InitQuorum:
		ic.Log("Instruction: InitQuorum")
		err = p.initQuorum(logger, ic, iter, ix)
	default:
		err = bridge.ErrInvalidInstruction
	}

	took := time.Since(start)
	recordInstruction(ctx, ix.Tag().String(), took, err)
	if err != nil {
		failure := []zap.Field{fields.Took(took), zap.Error(err)}
		var bridgeErr *bridge.Error
		if errors.As(err, &bridgeErr) {
			failure = append(failure, fields.Code(uint32(bridgeErr.Code), bridgeErr.Code.String()))
		}
		logger.Debug("instruction failed", failure...)
		return err
	}
	logger.Debug("instruction processed", fields.Took(took))
	return nil
}

// accountIter hands out the instruction's accounts in order.
type accountIter struct {
	accounts []*ledger.AccountInfo
	next     int
}

func newAccountIter(accounts []*ledger.AccountInfo) *accountIter {
	return &accountIter{accounts: accounts}
}

func (it *accountIter) Next() (*ledger.AccountInfo, error) {
	if it.next >= len(it.accounts) {
		return nil, bridge.ErrNotEnoughAccountKeys.Wrapf("wanted account %d of %d", it.next+1, len(it.accounts))
	}
	acc := it.accounts[it.next]
	it.next++
	return acc, nil
}

// NextN returns the next n accounts.
func (it *accountIter) NextN(n int) ([]*ledger.AccountInfo, error) {
	out := make([]*ledger.AccountInfo, 0, n)
	for range n {
		acc, err := it.Next()
		if err != nil {
			return nil, err
		}
		out = append(out, acc)
	}
	return out, nil
}
