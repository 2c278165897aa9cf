package ledger

import (
	"bytes"
	"context"
	"fmt"
	"hash/maphash"
	"sort"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ssvlabs/ssv-bridge/logging"
	"github.com/ssvlabs/ssv-bridge/logging/fields"
)

// Receipt describes an executed transaction. It is returned for failed
// transactions too, carrying the logs up to the failure.
type Receipt struct {
	TxID     string
	Logs     []string
	Duration time.Duration
	Err      error
}

// Runtime executes transactions against the store. Every transaction commits
// all of its writes or none of them, and transactions touching a common
// writable account never overlap.
type Runtime struct {
	logger   *zap.Logger
	store    *Store
	rent     Rent
	programs map[solana.PublicKey]Program

	lockSeed maphash.Seed
	locks    [lockStripes]sync.RWMutex
}

// lockStripes bounds the number of account locks; accounts hashing to the
// same stripe share a lock.
const lockStripes = 256

type RuntimeOption func(*Runtime)

func WithRent(rent Rent) RuntimeOption {
	return func(r *Runtime) {
		r.rent = rent
	}
}

// WithProgram registers program under id.
func WithProgram(id solana.PublicKey, program Program) RuntimeOption {
	return func(r *Runtime) {
		r.programs[id] = program
	}
}

func NewRuntime(logger *zap.Logger, store *Store, opts ...RuntimeOption) *Runtime {
	r := &Runtime{
		logger:   logger.Named(logging.NameLedger),
		store:    store,
		rent:     DefaultRent,
		programs: make(map[solana.PublicKey]Program),
		lockSeed: maphash.MakeSeed(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Store returns the runtime's account store.
func (r *Runtime) Store() *Store {
	return r.store
}

// Rent returns the rent parameters programs are charged with.
func (r *Runtime) Rent() Rent {
	return r.rent
}

type accountAccess struct {
	key      solana.PublicKey
	writable bool
}

// accessList merges the metas of all instructions; a key is writable or
// signer when any instruction marks it so.
func accessList(tx *Transaction) ([]accountAccess, map[solana.PublicKey]*solana.AccountMeta) {
	merged := make(map[solana.PublicKey]*solana.AccountMeta)
	for _, ix := range tx.Instructions {
		for _, meta := range ix.Accounts() {
			m, ok := merged[meta.PublicKey]
			if !ok {
				m = &solana.AccountMeta{PublicKey: meta.PublicKey}
				merged[meta.PublicKey] = m
			}
			m.IsSigner = m.IsSigner || meta.IsSigner
			m.IsWritable = m.IsWritable || meta.IsWritable
		}
	}

	list := make([]accountAccess, 0, len(merged))
	for key, m := range merged {
		list = append(list, accountAccess{key: key, writable: m.IsWritable})
	}
	// accounts load in key order
	sort.Slice(list, func(i, j int) bool {
		return bytes.Compare(list[i].key[:], list[j].key[:]) < 0
	})
	return list, merged
}

func (r *Runtime) stripe(key solana.PublicKey) int {
	return int(maphash.Comparable(r.lockSeed, key) % lockStripes)
}

// acquire locks the stripes of every account in list in ascending stripe
// order. A stripe is write locked when any of its accounts is writable.
func (r *Runtime) acquire(list []accountAccess) (release func()) {
	stripes := make(map[int]bool, len(list))
	for _, a := range list {
		i := r.stripe(a.key)
		stripes[i] = stripes[i] || a.writable
	}
	order := make([]int, 0, len(stripes))
	for i := range stripes {
		order = append(order, i)
	}
	sort.Ints(order)

	held := make([]func(), 0, len(order))
	for _, i := range order {
		l := &r.locks[i]
		if stripes[i] {
			l.Lock()
			held = append(held, l.Unlock)
		} else {
			l.RLock()
			held = append(held, l.RUnlock)
		}
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i]()
		}
	}
}

// Execute runs tx. On any failure nothing is written and the returned error
// is the first failure; the receipt is returned either way.
func (r *Runtime) Execute(ctx context.Context, tx *Transaction) (*Receipt, error) {
	start := time.Now()
	receipt := &Receipt{TxID: uuid.NewString()}
	logger := r.logger.With(fields.TxID(receipt.TxID))

	err := r.execute(ctx, logger, tx, receipt)
	receipt.Duration = time.Since(start)
	receipt.Err = err
	recordTransaction(ctx, receipt.Duration, err == nil)

	if err != nil {
		logger.Debug("transaction rolled back", fields.Took(receipt.Duration), zap.Error(err))
		return receipt, err
	}
	logger.Debug("transaction committed", fields.Took(receipt.Duration), fields.Count(len(tx.Instructions)))
	return receipt, nil
}

func (r *Runtime) execute(ctx context.Context, logger *zap.Logger, tx *Transaction, receipt *Receipt) error {
	if len(tx.Instructions) == 0 {
		return ErrEmptyTransaction
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	signers, err := tx.verify()
	if err != nil {
		return err
	}
	list, metas := accessList(tx)
	for key, meta := range metas {
		if _, ok := signers[key]; meta.IsSigner && !ok {
			return fmt.Errorf("%w: %s", ErrMissingSignature, key)
		}
	}

	release := r.acquire(list)
	defer release()

	txn := r.store.DB().Begin()
	defer txn.Discard()

	loaded := make(map[solana.PublicKey]*AccountInfo, len(list))
	snapshots := make(map[solana.PublicKey]*AccountInfo, len(list))
	var before uint128
	for _, a := range list {
		acc, err := r.store.Load(txn, a.key)
		if err != nil {
			return err
		}
		acc.IsWritable = a.writable
		acc.IsSigner = metas[a.key].IsSigner
		loaded[a.key] = acc
		snapshots[a.key] = acc.clone()
		before.add(acc.Lamports)
	}

	for i, ix := range tx.Instructions {
		programID := ix.ProgramID()
		program, ok := r.programs[programID]
		if !ok {
			return fmt.Errorf("%w: %s", ErrProgramNotFound, programID)
		}
		data, err := ix.Data()
		if err != nil {
			return fmt.Errorf("instruction %d data: %w", i, err)
		}
		accounts := make([]*AccountInfo, 0, len(ix.Accounts()))
		for _, meta := range ix.Accounts() {
			accounts = append(accounts, loaded[meta.PublicKey])
		}

		ic := &invokeContext{
			logger:    logger.With(fields.ProgramID(programID)),
			programID: programID,
			rent:      r.rent,
			logs:      &receipt.Logs,
		}
		receipt.Logs = append(receipt.Logs, fmt.Sprintf("Program %s invoke [1]", programID))
		if err := program.Process(ctx, ic, accounts, data); err != nil {
			receipt.Logs = append(receipt.Logs, fmt.Sprintf("Program %s failed: %v", programID, err))
			return err
		}
		receipt.Logs = append(receipt.Logs, fmt.Sprintf("Program %s success", programID))
	}

	var after uint128
	for _, a := range list {
		acc := loaded[a.key]
		after.add(acc.Lamports)
		if !a.writable && !acc.equalState(snapshots[a.key]) {
			return fmt.Errorf("%w: %s", ErrReadOnlyModified, a.key)
		}
	}
	if before != after {
		return ErrUnbalancedTransaction
	}

	for _, a := range list {
		if !a.writable {
			continue
		}
		acc := loaded[a.key]
		if acc.equalState(snapshots[a.key]) {
			continue
		}
		if err := r.store.Save(txn, acc); err != nil {
			return err
		}
	}
	if err := txn.Commit(); err != nil {
		return errors.Wrap(err, "could not commit transaction")
	}
	return nil
}

// Result pairs a receipt with the error of one batched transaction.
type Result struct {
	Receipt *Receipt
	Err     error
}

// ExecuteBatch runs independent transactions concurrently, at most limit at a
// time (no limit when limit <= 0). Results are in input order; one failing
// transaction does not affect the others.
func (r *Runtime) ExecuteBatch(ctx context.Context, txs []*Transaction, limit int) []Result {
	results := make([]Result, len(txs))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, tx := range txs {
		g.Go(func() error {
			receipt, err := r.Execute(ctx, tx)
			results[i] = Result{Receipt: receipt, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// uint128 sums lamport balances without overflow.
type uint128 struct {
	hi, lo uint64
}

func (u *uint128) add(v uint64) {
	lo := u.lo + v
	if lo < u.lo {
		u.hi++
	}
	u.lo = lo
}
