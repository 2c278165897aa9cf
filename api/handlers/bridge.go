package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/go-chi/chi/v5"

	"github.com/ssvlabs/ssv-bridge/api"
	"github.com/ssvlabs/ssv-bridge/bridge"
	"github.com/ssvlabs/ssv-bridge/bridge/address"
	"github.com/ssvlabs/ssv-bridge/bridge/client"
	"github.com/ssvlabs/ssv-bridge/ledger"
)

// Bridge serves the persisted bridge records of one program.
type Bridge struct {
	Store     *ledger.Store
	ProgramID solana.PublicKey
}

type quorumJSON struct {
	Address   string    `json:"address"`
	Custody   string    `json:"custody_authority"`
	BumpSeed  uint8     `json:"bump_seed"`
	Threshold int       `json:"threshold"`
	Beacons   []api.Hex `json:"beacons"`
	Lamports  uint64    `json:"lamports"`
}

type counterJSON struct {
	Address string `json:"address"`
	Counter uint64 `json:"counter"`
}

// String is the plain text form: the nonce the next withdrawal is signed for.
func (c *counterJSON) String() string {
	return strconv.FormatUint(c.Counter, 10)
}

type vaultJSON struct {
	Address  string `json:"address"`
	Mint     string `json:"mint"`
	Balance  uint64 `json:"balance"`
	Lamports uint64 `json:"lamports"`
}

type accountJSON struct {
	PubKey     string  `json:"pubkey"`
	Owner      string  `json:"owner"`
	Lamports   uint64  `json:"lamports"`
	Executable bool    `json:"executable"`
	Data       api.Hex `json:"data"`
}

// missingRecord maps errors of absent or uninitialized records to 404.
func missingRecord(err error) error {
	if errors.Is(err, bridge.ErrInvalidAccountData) ||
		errors.Is(err, bridge.ErrBeaconsUninitialized) ||
		errors.Is(err, bridge.ErrCounterUninitialized) {
		return api.NotFoundError(err)
	}
	return err
}

func pathKey(r *http.Request, param string) (solana.PublicKey, error) {
	key, err := solana.PublicKeyFromBase58(chi.URLParam(r, param))
	if err != nil {
		return solana.PublicKey{}, api.BadRequestError(fmt.Errorf("invalid %s: %w", param, err))
	}
	return key, nil
}

func (h *Bridge) Quorum(w http.ResponseWriter, r *http.Request) error {
	q, err := client.LoadQuorum(h.Store, h.ProgramID)
	if err != nil {
		return missingRecord(err)
	}
	beacons := make([]api.Hex, 0, len(q.Config.Beacons))
	for _, b := range q.Config.Beacons {
		beacons = append(beacons, api.Hex(b[:]))
	}
	return api.Render(w, r, &quorumJSON{
		Address:   q.Address.String(),
		Custody:   q.Custody.String(),
		BumpSeed:  q.Config.BumpSeed,
		Threshold: bridge.QuorumThreshold(len(q.Config.Beacons)) + 1,
		Beacons:   beacons,
		Lamports:  q.Lamports,
	})
}

func (h *Bridge) Counter(w http.ResponseWriter, r *http.Request) error {
	c, key, err := client.LoadCounter(h.Store, h.ProgramID)
	if err != nil {
		return missingRecord(err)
	}
	return api.Render(w, r, &counterJSON{Address: key.String(), Counter: c.Counter})
}

func (h *Bridge) Vault(w http.ResponseWriter, r *http.Request) error {
	mint, err := pathKey(r, "mint")
	if err != nil {
		return err
	}
	q, err := client.LoadQuorum(h.Store, h.ProgramID)
	if err != nil {
		return missingRecord(err)
	}
	key, err := address.Vault(q.Address, q.Config.BumpSeed, mint, h.ProgramID)
	if err != nil {
		return err
	}
	acc, err := h.Store.Load(nil, key)
	if err != nil {
		return err
	}
	resp := &vaultJSON{Address: key.String(), Mint: mint.String(), Lamports: acc.Lamports}
	if !acc.DataIsEmpty() {
		tok, err := ledger.DecodeTokenAccount(acc.Data)
		if err != nil {
			return err
		}
		resp.Balance = tok.Amount
	}
	return api.Render(w, r, resp)
}

func (h *Bridge) Account(w http.ResponseWriter, r *http.Request) error {
	key, err := pathKey(r, "pubkey")
	if err != nil {
		return err
	}
	acc, err := h.Store.Load(nil, key)
	if err != nil {
		return err
	}
	return api.Render(w, r, &accountJSON{
		PubKey:     acc.Key.String(),
		Owner:      acc.Owner.String(),
		Lamports:   acc.Lamports,
		Executable: acc.Executable,
		Data:       acc.Data,
	})
}
