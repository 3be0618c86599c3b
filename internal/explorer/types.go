package explorer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Action identifies an account endpoint of the explorer API.
type Action string

const (
	// ActionTxList lists native transactions.
	ActionTxList Action = "txlist"
	// ActionTxListInternal lists internal (contract) transactions.
	ActionTxListInternal Action = "txlistinternal"
	// ActionTokenTx lists ERC-20 token transfers.
	ActionTokenTx Action = "tokentx"
)

// Transaction is one row returned by the account endpoints. The upstream API
// encodes every field as a string; only the fields the pipeline reads are
// decoded.
type Transaction struct {
	Hash            string `json:"hash"`
	TimeStamp       string `json:"timeStamp"`
	From            string `json:"from"`
	To              string `json:"to"`
	Value           string `json:"value"`
	ContractAddress string `json:"contractAddress"`
	TokenSymbol     string `json:"tokenSymbol"`
	TokenName       string `json:"tokenName"`
	TokenDecimal    string `json:"tokenDecimal"`
	IsError         string `json:"isError"`
}

// Unix returns the row timestamp as epoch seconds, or zero when the field is
// absent or garbled.
func (t Transaction) Unix() int64 {
	ts, err := strconv.ParseInt(strings.TrimSpace(t.TimeStamp), 10, 64)
	if err != nil {
		return 0
	}
	return ts
}

// Window bounds a fetch to [Start, End] epoch seconds, inclusive.
type Window struct {
	Start int64
	End   int64
}

// Contains reports whether ts falls inside the window.
func (w Window) Contains(ts int64) bool {
	return ts >= w.Start && ts <= w.End
}

// WindowForDays derives the window covering a lookback of days ending
// offsetDays before now.
func WindowForDays(now time.Time, days, offsetDays int) Window {
	end := now.UTC().Unix() - int64(offsetDays)*86400
	return Window{Start: end - int64(days)*86400, End: end}
}

// WindowResult carries the rows of one windowed category fetch. Truncated
// means the upstream page ceiling was hit while pages were still full, so
// the rows are a lower bound on the wallet's real activity.
type WindowResult struct {
	Rows      []Transaction
	Truncated bool
}

// ValidateAddress rejects input that is not a 0x-prefixed 20-byte hex
// address and returns the EIP-55 checksummed form otherwise.
func ValidateAddress(addr string) (string, error) {
	addr = strings.TrimSpace(addr)
	if !common.IsHexAddress(addr) {
		return "", fmt.Errorf("%w: %q", ErrInvalidAddress, addr)
	}
	return common.HexToAddress(addr).Hex(), nil
}
