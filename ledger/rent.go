package ledger

// accountStorageOverhead is charged on top of every account's data length.
const accountStorageOverhead = 128

// Rent prices account storage.
type Rent struct {
	LamportsPerByteYear uint64 `yaml:"LamportsPerByteYear" env:"RENT_LAMPORTS_PER_BYTE_YEAR" env-default:"3480" env-description:"Rent rate in lamports per byte-year"`
	ExemptionYears      uint64 `yaml:"ExemptionYears" env:"RENT_EXEMPTION_YEARS" env-default:"2" env-description:"Years of rent prepaid for exemption"`
}

// DefaultRent matches mainnet's rent parameters.
var DefaultRent = Rent{LamportsPerByteYear: 3480, ExemptionYears: 2}

// MinimumBalance returns the rent-exempt balance for dataLen bytes.
func (r Rent) MinimumBalance(dataLen int) uint64 {
	return (accountStorageOverhead + uint64(dataLen)) * r.LamportsPerByteYear * r.ExemptionYears
}
