package api

import (
	"encoding/hex"
	"encoding/json"
	"strings"
)

// Hex renders bytes as a hex JSON string. Decoding accepts an optional 0x prefix.
type Hex []byte

func (h Hex) String() string {
	return hex.EncodeToString(h)
}

func (h Hex) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

func (h *Hex) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return err
	}
	*h = b
	return nil
}
