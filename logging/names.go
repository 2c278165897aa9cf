package logging

const (
	NameAPIServer      = "APIServer"
	NameBridgeNode     = "BridgeNode"
	NameLedger         = "Ledger"
	NameLedgerStore    = "LedgerStore"
	NameMetricsHandler = "MetricsHandler"
	NameProcessor      = "Processor"

	NameBadgerDBLog     = "BadgerDBLog"
	NamePebbleDBLog     = "PebbleDBLog"
	NameGenerateBeacons = "GenerateBeacons"
	NameGenesis         = "Genesis"
	NameInitQuorum      = "InitQuorum"
	NameSignWithdrawal  = "SignWithdrawal"
)
