// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rewards

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/locker/ledger"
	"github.com/luxfi/locker/token"

	safemath "github.com/luxfi/locker/utils/math"
)

// Stake stakes amount of the caller's receipt tokens.
func (d *Distributor) Stake(ctx *ledger.Context, amount *uint256.Int) error {
	return d.stakeFor(ctx, ctx.Caller(), amount)
}

// StakeAll stakes the caller's whole receipt balance.
func (d *Distributor) StakeAll(ctx *ledger.Context) error {
	balance, err := d.stakingToken.BalanceOf(ctx, ctx.Caller())
	if err != nil {
		return err
	}
	return d.stakeFor(ctx, ctx.Caller(), balance)
}

// StakeFor stakes amount of the caller's receipt tokens on behalf of to.
func (d *Distributor) StakeFor(ctx *ledger.Context, to ids.ShortID, amount *uint256.Int) error {
	if to == ids.ShortEmpty {
		return ErrZeroAddress
	}
	return d.stakeFor(ctx, to, amount)
}

func (d *Distributor) stakeFor(ctx *ledger.Context, to ids.ShortID, amount *uint256.Int) error {
	if amount.IsZero() {
		return ErrZeroAmount
	}
	if err := d.updateReward(ctx, to); err != nil {
		return err
	}
	if err := d.adjustStake(ctx, to, amount, true); err != nil {
		return err
	}
	ctx.Log().Debug("staked",
		log.Stringer("account", to),
		log.Stringer("amount", amount),
	)
	return d.stakingToken.TransferFrom(ctx.As(d.address), ctx.Caller(), d.address, amount)
}

func (d *Distributor) adjustStake(ctx *ledger.Context, account ids.ShortID, amount *uint256.Int, increase bool) error {
	store := ctx.Store(d.address)
	balance, err := d.BalanceOf(ctx, account)
	if err != nil {
		return err
	}
	supply, err := d.TotalSupply(ctx)
	if err != nil {
		return err
	}
	if increase {
		balance, err = safemath.Add256(balance, amount)
		if err != nil {
			return err
		}
		supply, err = safemath.Add256(supply, amount)
	} else {
		if balance.Lt(amount) {
			return fmt.Errorf("%w: staked %s below %s", ledger.ErrInsufficientBalance, balance, amount)
		}
		balance = new(uint256.Int).Sub(balance, amount)
		supply, err = safemath.Sub256(supply, amount)
	}
	if err != nil {
		return err
	}
	if err := store.PutUint256(ledger.Key(balancePrefix, account[:]), balance); err != nil {
		return err
	}
	return store.PutUint256(supplyKey, supply)
}

// Withdraw unstakes amount of the caller's stake, optionally claiming all
// rewards in the same operation.
func (d *Distributor) Withdraw(ctx *ledger.Context, amount *uint256.Int, claim bool) error {
	if amount.IsZero() {
		return ErrZeroAmount
	}
	caller := ctx.Caller()
	if err := d.updateReward(ctx, caller); err != nil {
		return err
	}
	if err := d.adjustStake(ctx, caller, amount, false); err != nil {
		return err
	}
	var payouts []EarnedData
	if claim {
		var err error
		payouts, err = d.settle(ctx, caller)
		if err != nil {
			return err
		}
	}

	self := ctx.As(d.address)
	if err := d.stakingToken.Transfer(self, caller, amount); err != nil {
		return err
	}
	return d.pay(ctx, caller, payouts)
}

// GetReward pays holder everything it has accrued, for every asset. Anyone
// may trigger it; rewards always go to holder.
func (d *Distributor) GetReward(ctx *ledger.Context, holder ids.ShortID) ([]EarnedData, error) {
	if err := d.updateReward(ctx, holder); err != nil {
		return nil, err
	}
	payouts, err := d.settle(ctx, holder)
	if err != nil {
		return nil, err
	}
	return payouts, d.pay(ctx, holder, payouts)
}

// settle zeroes holder's accrued rewards and returns what must be paid out.
func (d *Distributor) settle(ctx *ledger.Context, holder ids.ShortID) ([]EarnedData, error) {
	assets, err := d.RewardTokens(ctx)
	if err != nil {
		return nil, err
	}
	store := ctx.Store(d.address)
	payouts := make([]EarnedData, 0, len(assets))
	for _, asset := range assets {
		key := ledger.Key(accruedPrefix, asset[:], holder[:])
		accrued, err := store.Uint256(key)
		if err != nil {
			return nil, err
		}
		if accrued.IsZero() {
			continue
		}
		if err := store.PutUint256(key, new(uint256.Int)); err != nil {
			return nil, err
		}
		payouts = append(payouts, EarnedData{Asset: asset, Amount: accrued})
	}
	return payouts, nil
}

func (d *Distributor) pay(ctx *ledger.Context, holder ids.ShortID, payouts []EarnedData) error {
	self := ctx.As(d.address)
	for _, payout := range payouts {
		asset, err := ledger.Resolve[token.ERC20](ctx, payout.Asset)
		if err != nil {
			return err
		}
		if err := asset.Transfer(self, holder, payout.Amount); err != nil {
			return err
		}
		ctx.Log().Debug("reward paid",
			log.Stringer("account", holder),
			log.Stringer("asset", payout.Asset),
			log.Stringer("amount", payout.Amount),
		)
	}
	return nil
}

// NotifyRewardAmount starts a new period for asset distributing amount plus
// the unstreamed remainder of the current period, then pulls amount from the
// caller. Approved distributors only.
func (d *Distributor) NotifyRewardAmount(ctx *ledger.Context, asset ids.ShortID, amount *uint256.Int) error {
	ok, err := d.IsDistributor(ctx, asset, ctx.Caller())
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotDistributor
	}
	if amount.IsZero() {
		return ErrZeroAmount
	}
	if err := d.updateReward(ctx, ids.ShortEmpty); err != nil {
		return err
	}
	r, err := d.RewardData(ctx, asset)
	if err != nil {
		return err
	}
	r, err = NextPeriod(r, amount, d.duration, ctx.Time())
	if err != nil {
		return err
	}
	if err := d.putRecord(ctx, asset, r); err != nil {
		return err
	}
	ctx.Log().Info("reward notified",
		log.Stringer("asset", asset),
		log.Stringer("amount", amount),
		log.Stringer("rewardRate", &r.RewardRate),
		log.Uint64("periodFinish", r.PeriodFinish),
	)

	rewardToken, err := ledger.Resolve[token.ERC20](ctx, asset)
	if err != nil {
		return err
	}
	return rewardToken.TransferFrom(ctx.As(d.address), ctx.Caller(), d.address, amount)
}
