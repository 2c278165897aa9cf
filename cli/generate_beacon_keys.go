package cli

import (
	"encoding/hex"
	"fmt"
	"io"
	"log"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ssvlabs/ssv-bridge/bridge"
	"github.com/ssvlabs/ssv-bridge/bridge/message"
	"github.com/ssvlabs/ssv-bridge/cli/flags"
	"github.com/ssvlabs/ssv-bridge/logging"
	"github.com/ssvlabs/ssv-bridge/logging/fields"
)

var generateBeaconKeysCmd = &cobra.Command{
	Use:   "generate-beacon-keys",
	Short: "Generates secp256k1 beacon key pairs. For testing usage only",
	Run: func(cmd *cobra.Command, args []string) {
		if err := logging.SetGlobalLogger("debug", "capital", "console", nil); err != nil {
			log.Fatal(err)
		}
		logger := zap.L().Named(logging.NameGenerateBeacons)

		count, err := flags.GetCountFlagValue(cmd)
		if err != nil {
			logger.Fatal("failed to get count flag value", zap.Error(err))
		}
		if count == 0 || count > bridge.MaxBeacons {
			logger.Fatal("invalid beacon count", fields.Beacons(int(count)))
		}

		if err := writeBeaconKeys(cmd.OutOrStdout(), int(count)); err != nil {
			logger.Fatal("failed to generate beacon keys", zap.Error(err))
		}
		logger.Info("generated beacon keys", fields.Beacons(int(count)))
	},
}

// writeBeaconKeys prints count key pairs, one per line, as
// "<index> <private key hex> <beacon hex>".
func writeBeaconKeys(w io.Writer, count int) error {
	for i := 0; i < count; i++ {
		key, err := crypto.GenerateKey()
		if err != nil {
			return err
		}
		beacon := message.BeaconFromKey(&key.PublicKey)
		if _, err := fmt.Fprintf(w, "%d %s %s\n", i, hex.EncodeToString(crypto.FromECDSA(key)), beacon); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	flags.AddCountFlag(generateBeaconKeysCmd)

	RootCmd.AddCommand(generateBeaconKeysCmd)
}
