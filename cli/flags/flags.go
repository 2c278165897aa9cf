package flags

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// Flag names.
const (
	countFlag        = "count"
	keysFlag         = "keys"
	amountsFlag      = "amounts"
	destinationsFlag = "destinations"
	nonceFlag        = "nonce"
)

// AddPersistentStringFlag adds a string flag to the command
func AddPersistentStringFlag(c *cobra.Command, flag string, value string, description string, isRequired bool) {
	c.PersistentFlags().String(flag, value, formatDescription(description, isRequired))
	markRequired(c, flag, isRequired)
}

// AddPersistentIntFlag adds a int flag to the command
func AddPersistentIntFlag(c *cobra.Command, flag string, value uint64, description string, isRequired bool) {
	c.PersistentFlags().Uint64(flag, value, formatDescription(description, isRequired))
	markRequired(c, flag, isRequired)
}

// formatDescription adds required suffix to description if needed
func formatDescription(description string, isRequired bool) string {
	const requiredSuffix = " (required)"
	if isRequired {
		return fmt.Sprintf("%s%s", description, requiredSuffix)
	}
	return description
}

// markRequired marks flag as required if needed, ignoring errors
func markRequired(c *cobra.Command, flag string, isRequired bool) {
	if isRequired {
		_ = c.MarkPersistentFlagRequired(flag)
	}
}

// AddCountFlag adds the beacon count flag to the command
func AddCountFlag(c *cobra.Command) {
	AddPersistentIntFlag(c, countFlag, 4, "Number of beacon key pairs to generate", false)
}

// GetCountFlagValue gets the beacon count flag from the command
func GetCountFlagValue(c *cobra.Command) (uint64, error) {
	return c.Flags().GetUint64(countFlag)
}

// AddKeysFlag adds the beacon private keys flag to the command
func AddKeysFlag(c *cobra.Command) {
	AddPersistentStringFlag(c, keysFlag, "", "Comma separated hex encoded beacon private keys, in quorum order", true)
}

// GetKeysFlagValue gets the beacon private keys flag from the command
func GetKeysFlagValue(c *cobra.Command) ([]string, error) {
	v, err := c.Flags().GetString(keysFlag)
	if err != nil {
		return nil, err
	}
	return splitList(v), nil
}

// AddAmountsFlag adds the withdrawal amounts flag to the command
func AddAmountsFlag(c *cobra.Command) {
	AddPersistentStringFlag(c, amountsFlag, "", "Comma separated withdrawal amounts in base units", true)
}

// GetAmountsFlagValue gets the withdrawal amounts flag from the command
func GetAmountsFlagValue(c *cobra.Command) ([]uint64, error) {
	v, err := c.Flags().GetString(amountsFlag)
	if err != nil {
		return nil, err
	}
	return ParseAmounts(v)
}

// AddDestinationsFlag adds the withdrawal destinations flag to the command
func AddDestinationsFlag(c *cobra.Command) {
	AddPersistentStringFlag(c, destinationsFlag, "", "Comma separated base58 destination token accounts", true)
}

// GetDestinationsFlagValue gets the withdrawal destinations flag from the command
func GetDestinationsFlagValue(c *cobra.Command) ([]string, error) {
	v, err := c.Flags().GetString(destinationsFlag)
	if err != nil {
		return nil, err
	}
	return splitList(v), nil
}

// AddNonceFlag adds the replay counter value flag to the command
func AddNonceFlag(c *cobra.Command) {
	AddPersistentIntFlag(c, nonceFlag, 0, "Replay counter value the withdrawal is signed for", false)
}

// GetNonceFlagValue gets the replay counter value flag from the command
func GetNonceFlagValue(c *cobra.Command) (uint64, error) {
	return c.Flags().GetUint64(nonceFlag)
}

// ParseAmounts parses a comma separated list of unsigned amounts.
func ParseAmounts(v string) ([]uint64, error) {
	parts := splitList(v)
	amounts := make([]uint64, 0, len(parts))
	for _, p := range parts {
		amount, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid amount %q: %w", p, err)
		}
		amounts = append(amounts, amount)
	}
	return amounts, nil
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
