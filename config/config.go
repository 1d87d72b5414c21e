// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config defines the deployment parameters of a locker system.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/holiman/uint256"
	"github.com/luxfi/ids"

	"github.com/luxfi/locker/utils/units"
)

// FeeDenominator is the basis-point scale of FeeBps: 10000 is 100%.
const FeeDenominator = 10_000

var (
	ErrFeeTooHigh          = errors.New("fee exceeds the fee denominator")
	ErrMissingCollector    = errors.New("a non-zero fee needs a collector")
	ErrNonPositiveDuration = errors.New("duration must be positive")
	ErrZeroConversionRate  = errors.New("conversion rate must be positive")
	ErrMinLockAboveMax     = errors.New("minimum migration lock exceeds the maximum lock")
)

// Config contains the parameters fixed when a system is deployed. FeeBps and
// Collector remain adjustable afterwards through the depositor's owner.
type Config struct {
	// FeeBps is the share of each deposit withheld for the collector
	FeeBps uint16 `json:"fee-bps"`
	// Collector receives the withheld share
	Collector ids.ShortID `json:"collector"`

	// RewardDuration is the length of each reward period
	RewardDuration time.Duration `json:"reward-duration"`
	// FeeInterval is the minimum time between two fee distributions
	FeeInterval time.Duration `json:"fee-interval"`
	// MaxLockDuration is the escrow's maximum lock, used for every relock
	MaxLockDuration time.Duration `json:"max-lock-duration"`

	// MinMigrationLockDuration is the remaining destination lock a migration
	// requires
	MinMigrationLockDuration time.Duration `json:"min-migration-lock-duration"`
	// ConversionRate is the successor tokens received per legacy token, scaled
	// by 1e18
	ConversionRate *uint256.Int `json:"conversion-rate"`

	// DelegationSpace names the voting space the operator delegates in
	DelegationSpace string `json:"delegation-space"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		FeeBps:                   0,
		RewardDuration:           7 * 24 * time.Hour,
		FeeInterval:              24 * time.Hour,
		MaxLockDuration:          4 * 365 * 24 * time.Hour,
		MinMigrationLockDuration: 3 * 365 * 24 * time.Hour,
		ConversionRate:           new(uint256.Int).Mul(uint256.NewInt(5), uint256.NewInt(units.Token)),
		DelegationSpace:          "gov.eth",
	}
}

// Parse returns the defaults overridden by the JSON in b.
func Parse(b []byte) (Config, error) {
	c := DefaultConfig()
	if len(b) == 0 {
		return c, nil
	}
	if err := json.Unmarshal(b, &c); err != nil {
		return Config{}, err
	}
	return c, c.Verify()
}

func (c Config) Verify() error {
	switch {
	case c.FeeBps > FeeDenominator:
		return fmt.Errorf("%w: %d > %d", ErrFeeTooHigh, c.FeeBps, FeeDenominator)
	case c.FeeBps > 0 && c.Collector == ids.ShortEmpty:
		return ErrMissingCollector
	case c.RewardDuration < time.Second:
		return fmt.Errorf("%w: reward-duration", ErrNonPositiveDuration)
	case c.FeeInterval < 0:
		return fmt.Errorf("%w: fee-interval", ErrNonPositiveDuration)
	case c.MaxLockDuration < time.Second:
		return fmt.Errorf("%w: max-lock-duration", ErrNonPositiveDuration)
	case c.MinMigrationLockDuration > c.MaxLockDuration:
		return ErrMinLockAboveMax
	case c.ConversionRate == nil || c.ConversionRate.IsZero():
		return ErrZeroConversionRate
	default:
		return nil
	}
}

// Seconds converts a duration to whole block-clock seconds.
func Seconds(d time.Duration) uint64 {
	return uint64(d / time.Second)
}
