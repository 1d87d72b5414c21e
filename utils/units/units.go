// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package units

import "github.com/holiman/uint256"

// Token denominations. Every token on the ledger uses 18 decimals.
const (
	Wei   uint64 = 1
	Gwei  uint64 = 1_000_000_000 * Wei
	Token uint64 = 1_000_000_000 * Gwei
)

// Durations measured on the block clock, in seconds.
const (
	Second uint64 = 1
	Minute uint64 = 60 * Second
	Hour   uint64 = 60 * Minute
	Day    uint64 = 24 * Hour
	Week   uint64 = 7 * Day
	Year   uint64 = 365 * Day
)

// Tokens returns n whole tokens in base units.
func Tokens(n uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(n), uint256.NewInt(Token))
}

// Precision is the fixed-point scale used for rates and reward-per-token
// accounting.
func Precision() *uint256.Int {
	return uint256.NewInt(Token)
}
