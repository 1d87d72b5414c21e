// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rewards

import (
	"github.com/holiman/uint256"

	"github.com/luxfi/locker/utils/units"

	safemath "github.com/luxfi/locker/utils/math"
)

// RewardRecord is the accrual state of one reward asset.
type RewardRecord struct {
	RewardRate           uint256.Int `serialize:"true"`
	PeriodFinish         uint64      `serialize:"true"`
	LastUpdateTime       uint64      `serialize:"true"`
	RewardPerTokenStored uint256.Int `serialize:"true"`
}

// LastTimeApplicable is the latest time rewards have been streaming until.
func (r RewardRecord) LastTimeApplicable(now uint64) uint64 {
	return min(now, r.PeriodFinish)
}

// RewardPerToken returns the reward per staked token, scaled by 1e18,
// accumulated up to now. Nothing accrues while nothing is staked.
func RewardPerToken(r RewardRecord, totalStaked *uint256.Int, now uint64) (*uint256.Int, error) {
	stored := r.RewardPerTokenStored.Clone()
	applicable := r.LastTimeApplicable(now)
	if totalStaked.IsZero() || applicable <= r.LastUpdateTime {
		return stored, nil
	}
	streamed, err := safemath.Mul256(uint256.NewInt(applicable-r.LastUpdateTime), &r.RewardRate)
	if err != nil {
		return nil, err
	}
	increase, err := safemath.MulDiv(streamed, units.Precision(), totalStaked)
	if err != nil {
		return nil, err
	}
	return safemath.Add256(stored, increase)
}

// Earned returns the total claimable by a holder of balance whose
// checkpoint was paid and who had accrued already settled.
func Earned(balance, rewardPerToken, paid, accrued *uint256.Int) (*uint256.Int, error) {
	delta, err := safemath.Sub256(rewardPerToken, paid)
	if err != nil {
		return nil, err
	}
	pending, err := safemath.MulDiv(balance, delta, units.Precision())
	if err != nil {
		return nil, err
	}
	return safemath.Add256(pending, accrued)
}

// Accrue checkpoints r at now. While nothing is staked the record is held
// unchanged, so the unstreamed span stays available to later stakers or to
// the next period.
func Accrue(r RewardRecord, totalStaked *uint256.Int, now uint64) (RewardRecord, error) {
	if totalStaked.IsZero() {
		return r, nil
	}
	rpt, err := RewardPerToken(r, totalStaked, now)
	if err != nil {
		return RewardRecord{}, err
	}
	r.RewardPerTokenStored = *rpt
	r.LastUpdateTime = max(r.LastTimeApplicable(now), r.LastUpdateTime)
	return r, nil
}

// NextPeriod starts a new period at now distributing amount plus whatever the
// current period has not streamed yet. r must already be accrued to now.
func NextPeriod(r RewardRecord, amount *uint256.Int, duration, now uint64) (RewardRecord, error) {
	periodFinish, err := safemath.Add(now, duration)
	if err != nil {
		return RewardRecord{}, err
	}
	total := amount.Clone()
	if remaining := safemath.SaturatingSub(r.PeriodFinish, r.LastUpdateTime); remaining > 0 {
		leftover, err := safemath.Mul256(uint256.NewInt(remaining), &r.RewardRate)
		if err != nil {
			return RewardRecord{}, err
		}
		total, err = safemath.Add256(total, leftover)
		if err != nil {
			return RewardRecord{}, err
		}
	}
	r.RewardRate = *new(uint256.Int).Div(total, uint256.NewInt(duration))
	r.LastUpdateTime = now
	r.PeriodFinish = periodFinish
	return r, nil
}
