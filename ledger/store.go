package ledger

import (
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ssvlabs/ssv-bridge/logging"
	"github.com/ssvlabs/ssv-bridge/storage/basedb"
)

var accountsPrefix = []byte("accounts/")

// Store persists accounts keyed by public key.
type Store struct {
	logger *zap.Logger
	db     basedb.Database
}

func NewStore(logger *zap.Logger, db basedb.Database) *Store {
	return &Store{
		logger: logger.Named(logging.NameLedgerStore),
		db:     db,
	}
}

// DB returns the underlying database.
func (s *Store) DB() basedb.Database {
	return s.db
}

// Load returns the account at key. Accounts that were never written load as
// empty system accounts, which is how a fresh address looks on chain.
func (s *Store) Load(rw basedb.ReadWriter, key solana.PublicKey) (*AccountInfo, error) {
	obj, found, err := s.db.Using(rw).Get(accountsPrefix, key[:])
	if err != nil {
		return nil, errors.Wrapf(err, "could not load account %s", key)
	}
	if !found {
		return &AccountInfo{Key: key, Owner: solana.SystemProgramID}, nil
	}
	acc, err := decodeAccount(key, obj.Value)
	if err != nil {
		return nil, errors.Wrapf(err, "could not decode account %s", key)
	}
	return acc, nil
}

// Save writes acc, or removes it when it holds neither lamports nor data.
func (s *Store) Save(rw basedb.ReadWriter, acc *AccountInfo) error {
	if acc.isDead() {
		return s.db.Using(rw).Delete(accountsPrefix, acc.Key[:])
	}
	value, err := encodeAccount(acc)
	if err != nil {
		return errors.Wrapf(err, "could not encode account %s", acc.Key)
	}
	return s.db.Using(rw).Set(accountsPrefix, acc.Key[:], value)
}

// All calls fn for every stored account in key order.
func (s *Store) All(fn func(*AccountInfo) error) error {
	return s.db.GetAll(accountsPrefix, func(_ int, obj basedb.Obj) error {
		if len(obj.Key) != solana.PublicKeyLength {
			s.logger.Warn("skipping malformed account key", zap.Binary("key", obj.Key))
			return nil
		}
		acc, err := decodeAccount(solana.PublicKeyFromBytes(obj.Key), obj.Value)
		if err != nil {
			return errors.Wrap(err, "could not decode account")
		}
		return fn(acc)
	})
}

// Count returns the number of stored accounts.
func (s *Store) Count() (int64, error) {
	return s.db.CountPrefix(accountsPrefix)
}
