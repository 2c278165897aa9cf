package observability

import "go.opentelemetry.io/otel/attribute"

func InstructionAttribute(name string) attribute.KeyValue {
	return attribute.String("bridge.instruction", name)
}

func ErrorCodeAttribute(name string) attribute.KeyValue {
	return attribute.String("bridge.error.code", name)
}

func MintAttribute(mint string) attribute.KeyValue {
	return attribute.String("bridge.mint", mint)
}

func OutcomeAttribute(committed bool) attribute.KeyValue {
	if committed {
		return attribute.String("ledger.tx.outcome", "committed")
	}
	return attribute.String("ledger.tx.outcome", "rolled_back")
}
