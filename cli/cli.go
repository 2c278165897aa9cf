package cli

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ssvlabs/ssv-bridge/cli/node"
)

// RootCmd represents the root command of the bridge CLI
var RootCmd = &cobra.Command{
	Use:   "bridgenode",
	Short: "bridge-node",
	Long:  `Bridge node is a CLI for running the custody bridge ledger and its beacon tooling.`,
}

// Execute executes the root command
func Execute(appName, version string) {
	RootCmd.Short = appName
	RootCmd.Version = version

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := RootCmd.ExecuteContext(ctx); err != nil {
		log.Fatal("failed to execute root command", zap.Error(err))
	}
}

func init() {
	RootCmd.AddCommand(node.StartNodeCmd)
	RootCmd.AddCommand(node.InitQuorumCmd)
	RootCmd.AddCommand(node.InspectCmd)
}
