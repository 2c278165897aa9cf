package fields

import (
	"strconv"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	FieldAccount     = "account"
	FieldAddress     = "address"
	FieldAmount      = "amount"
	FieldBeacons     = "beacons"
	FieldCode        = "code"
	FieldCount       = "count"
	FieldCounter     = "counter"
	FieldEngine      = "engine"
	FieldInstruction = "instruction"
	FieldMint        = "mint"
	FieldProgramID   = "program_id"
	FieldSignatures  = "signatures"
	FieldTook        = "took"
	FieldTxID        = "txid"
)

func Account(val solana.PublicKey) zapcore.Field {
	return zap.Stringer(FieldAccount, val)
}

func Address(val string) zapcore.Field {
	return zap.String(FieldAddress, val)
}

func Amount(val uint64) zapcore.Field {
	return zap.Uint64(FieldAmount, val)
}

func Beacons(count int) zapcore.Field {
	return zap.Int(FieldBeacons, count)
}

func Code(val uint32, name string) zapcore.Field {
	return zap.String(FieldCode, strconv.FormatUint(uint64(val), 10)+":"+name)
}

func Count(val int) zapcore.Field {
	return zap.Int(FieldCount, val)
}

func Counter(val uint64) zapcore.Field {
	return zap.Uint64(FieldCounter, val)
}

func Engine(val string) zapcore.Field {
	return zap.String(FieldEngine, val)
}

func Instruction(val string) zapcore.Field {
	return zap.String(FieldInstruction, val)
}

func Mint(val solana.PublicKey) zapcore.Field {
	return zap.Stringer(FieldMint, val)
}

func ProgramID(val solana.PublicKey) zapcore.Field {
	return zap.Stringer(FieldProgramID, val)
}

func Signatures(count int) zapcore.Field {
	return zap.Int(FieldSignatures, count)
}

func Took(duration time.Duration) zapcore.Field {
	return zap.String(FieldTook, FormatDuration(duration))
}

func TxID(val string) zapcore.Field {
	return zap.String(FieldTxID, val)
}

func FormatDuration(val time.Duration) string {
	return strconv.FormatFloat(val.Seconds(), 'f', 5, 64)
}
