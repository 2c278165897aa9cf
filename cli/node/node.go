package node

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/gagliardetto/solana-go"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ssvlabs/ssv-bridge/api/handlers"
	apiserver "github.com/ssvlabs/ssv-bridge/api/server"
	"github.com/ssvlabs/ssv-bridge/bridge/client"
	"github.com/ssvlabs/ssv-bridge/bridge/processor"
	globalconfig "github.com/ssvlabs/ssv-bridge/cli/config"
	"github.com/ssvlabs/ssv-bridge/ledger"
	"github.com/ssvlabs/ssv-bridge/logging"
	"github.com/ssvlabs/ssv-bridge/logging/fields"
	"github.com/ssvlabs/ssv-bridge/monitoring/metrics"
	"github.com/ssvlabs/ssv-bridge/observability"
	"github.com/ssvlabs/ssv-bridge/storage"
	"github.com/ssvlabs/ssv-bridge/storage/basedb"
)

type config struct {
	globalconfig.GlobalConfig `yaml:"global"`
	DBOptions                 basedb.Options `yaml:"db"`
	BridgeOptions             BridgeOptions  `yaml:"bridge"`
	Rent                      ledger.Rent    `yaml:"rent"`
	APIOptions                APIOptions     `yaml:"api"`

	MetricsAPIPort int  `yaml:"MetricsAPIPort" env:"METRICS_API_PORT" env-description:"Port to listen on for the metrics API."`
	EnableProfile  bool `yaml:"EnableProfile" env:"ENABLE_PROFILE" env-description:"flag that indicates whether go profiling tools are enabled"`
}

// BridgeOptions configures the bridge program hosted by the local ledger.
type BridgeOptions struct {
	ProgramID   string   `yaml:"ProgramID" env:"BRIDGE_PROGRAM_ID" env-required:"true" env-description:"Base58 id the bridge program is registered under"`
	Beacons     []string `yaml:"Beacons" env:"BRIDGE_BEACONS" env-description:"Hex encoded beacon public keys in quorum order, comma separated"`
	PayerKey    string   `yaml:"PayerKey" env:"BRIDGE_PAYER_KEY" env-description:"Base58 private key paying for the bridge records"`
	GenesisPath string   `yaml:"GenesisPath" env:"BRIDGE_GENESIS_PATH" env-description:"Path to the genesis accounts file applied to an empty ledger"`
	Bootstrap   bool     `yaml:"Bootstrap" env:"BRIDGE_BOOTSTRAP" env-description:"Whether start-node initializes the quorum when it is missing"`
}

type APIOptions struct {
	Port int `yaml:"Port" env:"API_PORT" env-default:"16000" env-description:"Port to listen on for the bridge state API, 0 disables it"`
}

var cfg config

var globalArgs globalconfig.Args

var StartNodeCmd = &cobra.Command{
	Use:   "start-node",
	Short: "Starts an instance of the bridge node",
	Run: func(cmd *cobra.Command, args []string) {
		logger, err := setupGlobal()
		if err != nil {
			log.Fatal("could not create logger", err)
		}

		defer logging.CapturePanic(logger)

		appName, version := cmd.Root().Short, cmd.Root().Version
		logger.Info("starting "+appName, zap.String("version", version), zap.String("program_id", cfg.BridgeOptions.ProgramID))

		observabilityShutdown, err := observability.Initialize(
			appName,
			version,
			observability.WithMetrics(),
			observability.WithLogger(logger),
		)
		if err != nil {
			logger.Fatal("could not initialize observability configuration", zap.Error(err))
		}
		defer func() {
			if err := observabilityShutdown(context.Background()); err != nil {
				logger.Error("could not shutdown observability object", zap.Error(err))
			}
		}()

		node, err := openLedger(cmd.Context(), logger, &cfg)
		if err != nil {
			logger.Fatal("could not open ledger", zap.Error(err))
		}
		defer func() {
			if err := node.Close(); err != nil {
				logger.Error("could not close database", zap.Error(err))
			}
		}()

		if cfg.BridgeOptions.Bootstrap {
			if err := node.ensureQuorum(cmd.Context(), logger, cfg.BridgeOptions); err != nil {
				logger.Fatal("could not initialize quorum", zap.Error(err))
			}
		}

		if err := node.serve(cmd.Context(), logger, cfg); err != nil {
			logger.Fatal("node stopped", zap.Error(err))
		}
		logger.Info("node stopped")
	},
}

func init() {
	globalconfig.ProcessArgs(&cfg, &globalArgs, StartNodeCmd)
	globalconfig.ProcessArgs(&cfg, &globalArgs, InitQuorumCmd)
	globalconfig.ProcessArgs(&cfg, &globalArgs, InspectCmd)
}

func setupGlobal() (*zap.Logger, error) {
	if globalArgs.ConfigPath != "" {
		if err := cleanenv.ReadConfig(globalArgs.ConfigPath, &cfg); err != nil {
			return nil, fmt.Errorf("could not read config: %w", err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("could not read config from env: %w", err)
	}

	fileOptions := &logging.LogFileOptions{
		FilePath:   cfg.LogFilePath,
		MaxSize:    cfg.LogFileSize,
		MaxBackups: cfg.LogFileBackups,
	}
	if err := logging.SetGlobalLogger(cfg.LogLevel, cfg.LogLevelFormat, cfg.LogFormat, fileOptions); err != nil {
		return nil, fmt.Errorf("logging.SetGlobalLogger: %w", err)
	}
	return zap.L().Named(logging.NameBridgeNode), nil
}

// bridgeNode is the local ledger with the bridge program registered.
type bridgeNode struct {
	db        basedb.Database
	store     *ledger.Store
	runtime   *ledger.Runtime
	programID solana.PublicKey
}

func openLedger(ctx context.Context, logger *zap.Logger, cfg *config) (*bridgeNode, error) {
	cfg.DBOptions.Ctx = ctx
	db, err := storage.Open(logger, cfg.DBOptions)
	if err != nil {
		return nil, fmt.Errorf("could not open %s db: %w", cfg.DBOptions.Engine, err)
	}
	node, err := newBridgeNode(logger, db, cfg.BridgeOptions, cfg.Rent)
	if err != nil {
		return nil, errors.Join(err, db.Close())
	}
	return node, nil
}

func newBridgeNode(logger *zap.Logger, db basedb.Database, opts BridgeOptions, rent ledger.Rent) (*bridgeNode, error) {
	programID, err := solana.PublicKeyFromBase58(opts.ProgramID)
	if err != nil {
		return nil, fmt.Errorf("invalid program id: %w", err)
	}

	store := ledger.NewStore(logger, db)
	if opts.GenesisPath != "" {
		if err := applyGenesis(logger, store, opts.GenesisPath, rent); err != nil {
			return nil, err
		}
	}

	return &bridgeNode{
		db:    db,
		store: store,
		runtime: ledger.NewRuntime(logger, store,
			ledger.WithRent(rent),
			ledger.WithProgram(programID, processor.New(logger)),
		),
		programID: programID,
	}, nil
}

// applyGenesis seeds an empty ledger; a ledger holding any account is left as is.
func applyGenesis(logger *zap.Logger, store *ledger.Store, path string, rent ledger.Rent) error {
	n, err := store.Count()
	if err != nil {
		return err
	}
	if n > 0 {
		logger.Debug("ledger is not empty, skipping genesis", fields.Count(int(n)))
		return nil
	}
	g, err := ledger.LoadGenesis(path)
	if err != nil {
		return err
	}
	return ledger.ApplyGenesis(logger.Named(logging.NameGenesis), store, g, rent)
}

func (n *bridgeNode) Close() error {
	return n.db.Close()
}

func (n *bridgeNode) healthChecks() metrics.Checks {
	return metrics.Checks{
		"storage": metrics.HealthCheckFunc(func() error {
			_, err := n.store.Count()
			return err
		}),
		"quorum": metrics.HealthCheckFunc(func() error {
			_, err := client.LoadQuorum(n.store, n.programID)
			return err
		}),
	}
}

// serve runs the metrics and state APIs until ctx is done.
func (n *bridgeNode) serve(ctx context.Context, logger *zap.Logger, cfg config) error {
	g, ctx := errgroup.WithContext(ctx)

	if cfg.MetricsAPIPort > 0 {
		handler := metrics.NewHandler(logger, n.db, nil, cfg.EnableProfile, n.healthChecks())
		g.Go(func() error {
			return handler.Start(ctx, fmt.Sprintf(":%d", cfg.MetricsAPIPort))
		})
	}
	if cfg.APIOptions.Port > 0 {
		server := apiserver.New(logger, fmt.Sprintf(":%d", cfg.APIOptions.Port), &handlers.Bridge{
			Store:     n.store,
			ProgramID: n.programID,
		})
		g.Go(func() error {
			return server.Run(ctx)
		})
	}
	return g.Wait()
}
