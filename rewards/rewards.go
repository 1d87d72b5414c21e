// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package rewards implements the staking contract for receipt tokens:
// multi-asset, duration-weighted rewards settled lazily on every stake,
// withdraw and claim.
package rewards

import (
	"encoding/binary"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/locker/ledger"
	"github.com/luxfi/locker/ownership"
	"github.com/luxfi/locker/token"
)

var (
	assetCountKey     = []byte("assetCount")
	assetPrefix       = []byte("asset")
	recordPrefix      = []byte("record")
	distributorPrefix = []byte("distributor")
	balancePrefix     = []byte("balance")
	paidPrefix        = []byte("paid")
	accruedPrefix     = []byte("accrued")
	supplyKey         = []byte("supply")

	ErrZeroAmount     = fmt.Errorf("%w: zero amount", ledger.ErrInvalidParameter)
	ErrZeroAddress    = fmt.Errorf("%w: zero address", ledger.ErrInvalidParameter)
	ErrRewardExists   = fmt.Errorf("%w: reward asset already added", ledger.ErrInvalidParameter)
	ErrUnknownReward  = fmt.Errorf("%w: reward asset not added", ledger.ErrInvalidParameter)
	ErrInvalidReward  = fmt.Errorf("%w: invalid reward asset", ledger.ErrInvalidParameter)
	ErrNotDistributor = fmt.Errorf("%w: caller may not notify this reward", ledger.ErrUnauthorized)
)

// Owned reports the address allowed to administer the distributor.
type Owned interface {
	Owner(ctx *ledger.Context) (ids.ShortID, error)
}

// EarnedData is one asset's claimable amount.
type EarnedData struct {
	Asset  ids.ShortID
	Amount *uint256.Int
}

type Distributor struct {
	address      ids.ShortID
	stakingToken token.ERC20
	owner        Owned
	duration     uint64
}

// New returns a distributor staking stakingToken, administered by owner's
// owner, with reward periods of duration seconds.
func New(address ids.ShortID, stakingToken token.ERC20, owner Owned, duration uint64) *Distributor {
	return &Distributor{
		address:      address,
		stakingToken: stakingToken,
		owner:        owner,
		duration:     duration,
	}
}

func (d *Distributor) Address() ids.ShortID {
	return d.address
}

func (d *Distributor) StakingToken() ids.ShortID {
	return d.stakingToken.Address()
}

func (d *Distributor) Duration() uint64 {
	return d.duration
}

func (d *Distributor) Owner(ctx *ledger.Context) (ids.ShortID, error) {
	return d.owner.Owner(ctx)
}

func (d *Distributor) onlyOwner(ctx *ledger.Context) error {
	owner, err := d.Owner(ctx)
	if err != nil {
		return err
	}
	if owner == ids.ShortEmpty || ctx.Caller() != owner {
		return ownership.ErrNotOwner
	}
	return nil
}

func (d *Distributor) BalanceOf(ctx *ledger.Context, holder ids.ShortID) (*uint256.Int, error) {
	return ctx.Store(d.address).Uint256(ledger.Key(balancePrefix, holder[:]))
}

func (d *Distributor) TotalSupply(ctx *ledger.Context) (*uint256.Int, error) {
	return ctx.Store(d.address).Uint256(supplyKey)
}

// RewardTokens lists the reward assets in the order they were added.
func (d *Distributor) RewardTokens(ctx *ledger.Context) ([]ids.ShortID, error) {
	store := ctx.Store(d.address)
	count, err := store.Uint64(assetCountKey)
	if err != nil {
		return nil, err
	}
	assets := make([]ids.ShortID, count)
	for i := range assets {
		assets[i], err = store.Address(ledger.Key(assetPrefix, binary.BigEndian.AppendUint64(nil, uint64(i))))
		if err != nil {
			return nil, err
		}
	}
	return assets, nil
}

func (d *Distributor) RewardData(ctx *ledger.Context, asset ids.ShortID) (RewardRecord, error) {
	r, found, err := d.record(ctx, asset)
	if err == nil && !found {
		err = ErrUnknownReward
	}
	return r, err
}

func (d *Distributor) record(ctx *ledger.Context, asset ids.ShortID) (RewardRecord, bool, error) {
	var r RewardRecord
	found, err := ctx.Store(d.address).Get(ledger.Key(recordPrefix, asset[:]), &r)
	return r, found, err
}

func (d *Distributor) putRecord(ctx *ledger.Context, asset ids.ShortID, r RewardRecord) error {
	return ctx.Store(d.address).Put(ledger.Key(recordPrefix, asset[:]), &r)
}

func (d *Distributor) IsDistributor(ctx *ledger.Context, asset, distributor ids.ShortID) (bool, error) {
	return ctx.Store(d.address).Bool(ledger.Key(distributorPrefix, asset[:], distributor[:]))
}

// AddReward registers asset and approves distributor to notify it. Owner
// only.
func (d *Distributor) AddReward(ctx *ledger.Context, asset, distributor ids.ShortID) error {
	if err := d.onlyOwner(ctx); err != nil {
		return err
	}
	if asset == ids.ShortEmpty || asset == d.stakingToken.Address() {
		return ErrInvalidReward
	}
	if _, err := ledger.Resolve[token.ERC20](ctx, asset); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidReward, err)
	}
	_, found, err := d.record(ctx, asset)
	if err != nil {
		return err
	}
	if found {
		return ErrRewardExists
	}

	store := ctx.Store(d.address)
	count, err := store.Uint64(assetCountKey)
	if err != nil {
		return err
	}
	if err := store.PutAddress(ledger.Key(assetPrefix, binary.BigEndian.AppendUint64(nil, count)), asset); err != nil {
		return err
	}
	if err := store.PutUint64(assetCountKey, count+1); err != nil {
		return err
	}
	now := ctx.Time()
	if err := d.putRecord(ctx, asset, RewardRecord{LastUpdateTime: now, PeriodFinish: now}); err != nil {
		return err
	}
	ctx.Log().Info("reward added",
		log.Stringer("asset", asset),
		log.Stringer("distributor", distributor),
	)
	return store.PutBool(ledger.Key(distributorPrefix, asset[:], distributor[:]), true)
}

// ApproveRewardDistributor grants or revokes distributor's right to notify
// asset. Owner only.
func (d *Distributor) ApproveRewardDistributor(ctx *ledger.Context, asset, distributor ids.ShortID, approved bool) error {
	if err := d.onlyOwner(ctx); err != nil {
		return err
	}
	if _, err := d.RewardData(ctx, asset); err != nil {
		return err
	}
	return ctx.Store(d.address).PutBool(ledger.Key(distributorPrefix, asset[:], distributor[:]), approved)
}

// updateReward checkpoints every reward asset and, when account is set,
// settles account's accrued rewards.
func (d *Distributor) updateReward(ctx *ledger.Context, account ids.ShortID) error {
	assets, err := d.RewardTokens(ctx)
	if err != nil {
		return err
	}
	supply, err := d.TotalSupply(ctx)
	if err != nil {
		return err
	}
	var balance *uint256.Int
	if account != ids.ShortEmpty {
		balance, err = d.BalanceOf(ctx, account)
		if err != nil {
			return err
		}
	}

	store := ctx.Store(d.address)
	for _, asset := range assets {
		r, _, err := d.record(ctx, asset)
		if err != nil {
			return err
		}
		r, err = Accrue(r, supply, ctx.Time())
		if err != nil {
			return err
		}
		if err := d.putRecord(ctx, asset, r); err != nil {
			return err
		}
		if account == ids.ShortEmpty {
			continue
		}

		earned, err := d.earned(ctx, asset, account, balance, &r.RewardPerTokenStored)
		if err != nil {
			return err
		}
		if err := store.PutUint256(ledger.Key(accruedPrefix, asset[:], account[:]), earned); err != nil {
			return err
		}
		if err := store.PutUint256(ledger.Key(paidPrefix, asset[:], account[:]), &r.RewardPerTokenStored); err != nil {
			return err
		}
	}
	return nil
}

func (d *Distributor) earned(ctx *ledger.Context, asset, account ids.ShortID, balance, rpt *uint256.Int) (*uint256.Int, error) {
	store := ctx.Store(d.address)
	paid, err := store.Uint256(ledger.Key(paidPrefix, asset[:], account[:]))
	if err != nil {
		return nil, err
	}
	accrued, err := store.Uint256(ledger.Key(accruedPrefix, asset[:], account[:]))
	if err != nil {
		return nil, err
	}
	return Earned(balance, rpt, paid, accrued)
}

// ClaimableRewards returns what holder could claim now for every asset.
func (d *Distributor) ClaimableRewards(ctx *ledger.Context, holder ids.ShortID) ([]EarnedData, error) {
	assets, err := d.RewardTokens(ctx)
	if err != nil {
		return nil, err
	}
	supply, err := d.TotalSupply(ctx)
	if err != nil {
		return nil, err
	}
	balance, err := d.BalanceOf(ctx, holder)
	if err != nil {
		return nil, err
	}
	claimable := make([]EarnedData, len(assets))
	for i, asset := range assets {
		r, _, err := d.record(ctx, asset)
		if err != nil {
			return nil, err
		}
		rpt, err := RewardPerToken(r, supply, ctx.Time())
		if err != nil {
			return nil, err
		}
		amount, err := d.earned(ctx, asset, holder, balance, rpt)
		if err != nil {
			return nil, err
		}
		claimable[i] = EarnedData{Asset: asset, Amount: amount}
	}
	return claimable, nil
}
