package processor_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ssvlabs/ssv-bridge/bridge"
	"github.com/ssvlabs/ssv-bridge/bridge/instruction"
	"github.com/ssvlabs/ssv-bridge/bridge/processor"
	"github.com/ssvlabs/ssv-bridge/ledger"
	"github.com/ssvlabs/ssv-bridge/ledger/mocks"
	"github.com/ssvlabs/ssv-bridge/logging/fields"
)

func TestProcessDispatch(t *testing.T) {
	programID := solana.NewWallet().PublicKey()

	encode := func(ix interface{ MarshalBinary() ([]byte, error) }) []byte {
		data, err := ix.MarshalBinary()
		require.NoError(t, err)
		return data
	}

	tt := []struct {
		name    string
		data    []byte
		wantLog string
		wantIx  string
		wantErr error
	}{
		{
			name:    "deposit",
			data:    encode(&instruction.Deposit{Amount: 1}),
			wantLog: "Instruction: Deposit",
			wantIx:  "Deposit",
			wantErr: bridge.ErrNotEnoughAccountKeys,
		},
		{
			name:    "withdraw",
			data:    encode(&instruction.Withdraw{Amounts: []uint64{1}}),
			wantLog: "Instruction: Withdraw",
			wantIx:  "Withdraw",
			wantErr: bridge.ErrNotEnoughAccountKeys,
		},
		{
			name:    "init quorum",
			data:    encode(&instruction.InitQuorum{}),
			wantLog: "Instruction: InitQuorum",
			wantIx:  "InitQuorum",
			wantErr: bridge.ErrNotEnoughAccountKeys,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			ic := mocks.NewMockInvokeContext(ctrl)
			ic.EXPECT().ProgramID().Return(programID).AnyTimes()
			ic.EXPECT().Log(tc.wantLog).Times(1)

			core, logs := observer.New(zapcore.DebugLevel)
			p := processor.New(zap.New(core))

			err := p.Process(context.Background(), ic, []*ledger.AccountInfo{}, tc.data)
			require.ErrorIs(t, err, tc.wantErr)

			entries := logs.FilterMessage("instruction failed").All()
			require.Len(t, entries, 1)
			require.Equal(t, tc.wantIx, entries[0].ContextMap()[fields.FieldInstruction])
			require.Equal(t, programID.String(), entries[0].ContextMap()[fields.FieldProgramID])
			require.Equal(t, fmt.Sprintf("%d:%s", bridge.CodeNotEnoughAccountKeys, bridge.CodeNotEnoughAccountKeys), entries[0].ContextMap()[fields.FieldCode])
		})
	}
}

func TestProcessRejectsUndecodable(t *testing.T) {
	ctrl := gomock.NewController(t)
	// nothing on the context is touched before the buffer decodes
	ic := mocks.NewMockInvokeContext(ctrl)

	core, logs := observer.New(zapcore.DebugLevel)
	p := processor.New(zap.New(core))

	tt := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "unknown tag", data: []byte{3}},
		{name: "truncated deposit", data: []byte{0, 1, 2}},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			err := p.Process(context.Background(), ic, nil, tc.data)
			require.ErrorIs(t, err, bridge.ErrInvalidInstruction)
		})
	}
	require.Zero(t, logs.Len())
}
