package flags

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestParseAmounts(t *testing.T) {
	tt := []struct {
		name    string
		input   string
		want    []uint64
		wantErr bool
	}{
		{name: "single", input: "500", want: []uint64{500}},
		{name: "spaces and empty items", input: " 1, 2,,3 ", want: []uint64{1, 2, 3}},
		{name: "max", input: "18446744073709551615", want: []uint64{18446744073709551615}},
		{name: "empty", input: "", want: []uint64{}},
		{name: "negative", input: "-1", wantErr: true},
		{name: "overflow", input: "18446744073709551616", wantErr: true},
		{name: "not a number", input: "1,x", wantErr: true},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseAmounts(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestWithdrawalFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	AddKeysFlag(cmd)
	AddAmountsFlag(cmd)
	AddDestinationsFlag(cmd)
	AddNonceFlag(cmd)

	require.NoError(t, cmd.ParseFlags([]string{
		"--keys", "aa,bb",
		"--amounts", "10,20",
		"--destinations", "A, B",
		"--nonce", "7",
	}))

	keys, err := GetKeysFlagValue(cmd)
	require.NoError(t, err)
	require.Equal(t, []string{"aa", "bb"}, keys)

	amounts, err := GetAmountsFlagValue(cmd)
	require.NoError(t, err)
	require.Equal(t, []uint64{10, 20}, amounts)

	dests, err := GetDestinationsFlagValue(cmd)
	require.NoError(t, err)
	require.Equal(t, []string{"A", "B"}, dests)

	nonce, err := GetNonceFlagValue(cmd)
	require.NoError(t, err)
	require.EqualValues(t, 7, nonce)
}
