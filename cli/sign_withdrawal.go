package cli

import (
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ssvlabs/ssv-bridge/bridge/client"
	"github.com/ssvlabs/ssv-bridge/bridge/instruction"
	"github.com/ssvlabs/ssv-bridge/cli/flags"
	"github.com/ssvlabs/ssv-bridge/logging"
	"github.com/ssvlabs/ssv-bridge/logging/fields"
)

var signWithdrawalCmd = &cobra.Command{
	Use:   "sign-withdrawal",
	Short: "Signs a withdrawal with beacon keys and prints the encoded Withdraw instruction",
	Run: func(cmd *cobra.Command, args []string) {
		if err := logging.SetGlobalLogger("info", "capital", "console", nil); err != nil {
			log.Fatal(err)
		}
		logger := zap.L().Named(logging.NameSignWithdrawal)

		keys, err := flags.GetKeysFlagValue(cmd)
		if err != nil {
			logger.Fatal("failed to get keys flag value", zap.Error(err))
		}
		amounts, err := flags.GetAmountsFlagValue(cmd)
		if err != nil {
			logger.Fatal("failed to get amounts flag value", zap.Error(err))
		}
		destinations, err := flags.GetDestinationsFlagValue(cmd)
		if err != nil {
			logger.Fatal("failed to get destinations flag value", zap.Error(err))
		}
		nonce, err := flags.GetNonceFlagValue(cmd)
		if err != nil {
			logger.Fatal("failed to get nonce flag value", zap.Error(err))
		}

		if err := signWithdrawal(cmd.OutOrStdout(), keys, amounts, destinations, nonce); err != nil {
			logger.Fatal("failed to sign withdrawal", zap.Error(err))
		}
		logger.Info("signed withdrawal", fields.Counter(nonce), fields.Signatures(len(keys)))
	},
}

// signWithdrawal prints one signature per key followed by the hex encoded
// instruction data carrying them.
func signWithdrawal(w io.Writer, hexKeys []string, amounts []uint64, rawDestinations []string, nonce uint64) error {
	if len(amounts) != len(rawDestinations) {
		return fmt.Errorf("%d amounts for %d destinations", len(amounts), len(rawDestinations))
	}
	destinations := make([]solana.PublicKey, 0, len(rawDestinations))
	for _, raw := range rawDestinations {
		dest, err := solana.PublicKeyFromBase58(raw)
		if err != nil {
			return fmt.Errorf("invalid destination %q: %w", raw, err)
		}
		destinations = append(destinations, dest)
	}

	keys := make([]*ecdsa.PrivateKey, 0, len(hexKeys))
	for i, raw := range hexKeys {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(raw, "0x"))
		if err != nil {
			return fmt.Errorf("invalid beacon key %d: %w", i, err)
		}
		keys = append(keys, key)
	}

	sigs, err := client.SignWithdrawal(amounts, destinations, nonce, keys)
	if err != nil {
		return err
	}
	for i, sig := range sigs {
		if _, err := fmt.Fprintf(w, "signature %d %s\n", i, hex.EncodeToString(sig[:])); err != nil {
			return err
		}
	}

	data, err := (&instruction.Withdraw{Amounts: amounts, Signatures: sigs}).MarshalBinary()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "instruction %s\n", hex.EncodeToString(data))
	return err
}

func init() {
	flags.AddKeysFlag(signWithdrawalCmd)
	flags.AddAmountsFlag(signWithdrawalCmd)
	flags.AddDestinationsFlag(signWithdrawalCmd)
	flags.AddNonceFlag(signWithdrawalCmd)

	RootCmd.AddCommand(signWithdrawalCmd)
}
