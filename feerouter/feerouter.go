// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package feerouter implements the fee queue: claimed protocol fees collect
// here and are released on a fixed cadence, split between receipt stakers
// and the treasury by the router's emission weight.
package feerouter

//go:generate go run go.uber.org/mock/mockgen -package=${GOPACKAGE}mock -destination=${GOPACKAGE}mock/emission_authority.go -mock_names=EmissionAuthority=EmissionAuthority . EmissionAuthority

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/locker/ledger"
	"github.com/luxfi/locker/ownership"
	"github.com/luxfi/locker/token"

	safemath "github.com/luxfi/locker/utils/math"
)

var (
	treasuryKey         = []byte("treasury")
	intervalKey         = []byte("interval")
	lastDistributionKey = []byte("lastDistribution")

	ErrNotOperator = fmt.Errorf("%w: caller is not the operator", ledger.ErrUnauthorized)
)

// Proxy is the lock manager, whose operator may report claims and whose owner
// administers the router.
type Proxy interface {
	Owner(ctx *ledger.Context) (ids.ShortID, error)
	Operator(ctx *ledger.Context) (ids.ShortID, error)
}

type RewardNotifier interface {
	Address() ids.ShortID
	NotifyRewardAmount(ctx *ledger.Context, asset ids.ShortID, amount *uint256.Int) error
}

// EmissionAuthority weights the router's share of fees and pays it emissions.
type EmissionAuthority interface {
	Asset() ids.ShortID
	Weight(ctx *ledger.Context, receiver ids.ShortID) (uint64, error)
	TotalWeight(ctx *ledger.Context) (uint64, error)
	Claim(ctx *ledger.Context) (*uint256.Int, error)
}

// Distribution describes one release of held fees.
type Distribution struct {
	Staking  *uint256.Int
	Treasury *uint256.Int
	Emission *uint256.Int
}

type Router struct {
	address   ids.ShortID
	feeToken  token.ERC20
	proxy     Proxy
	rewards   RewardNotifier
	authority EmissionAuthority
}

func New(
	address ids.ShortID,
	feeToken token.ERC20,
	proxy Proxy,
	rewards RewardNotifier,
	authority EmissionAuthority,
) *Router {
	return &Router{
		address:   address,
		feeToken:  feeToken,
		proxy:     proxy,
		rewards:   rewards,
		authority: authority,
	}
}

func (r *Router) Address() ids.ShortID {
	return r.address
}

func (r *Router) onlyOwner(ctx *ledger.Context) error {
	owner, err := r.proxy.Owner(ctx)
	if err != nil {
		return err
	}
	if owner == ids.ShortEmpty || ctx.Caller() != owner {
		return ownership.ErrNotOwner
	}
	return nil
}

func (r *Router) Treasury(ctx *ledger.Context) (ids.ShortID, error) {
	return ctx.Store(r.address).Address(treasuryKey)
}

// SetTreasury sets where the non-staking share goes. Owner only.
func (r *Router) SetTreasury(ctx *ledger.Context, treasury ids.ShortID) error {
	if err := r.onlyOwner(ctx); err != nil {
		return err
	}
	ctx.Log().Info("treasury updated",
		log.Stringer("treasury", treasury),
	)
	return ctx.Store(r.address).PutAddress(treasuryKey, treasury)
}

// Interval is the minimum number of seconds between two distributions.
func (r *Router) Interval(ctx *ledger.Context) (uint64, error) {
	return ctx.Store(r.address).Uint64(intervalKey)
}

func (r *Router) SetInterval(ctx *ledger.Context, seconds uint64) error {
	if err := r.onlyOwner(ctx); err != nil {
		return err
	}
	return ctx.Store(r.address).PutUint64(intervalKey, seconds)
}

func (r *Router) LastDistribution(ctx *ledger.Context) (uint64, error) {
	return ctx.Store(r.address).Uint64(lastDistributionKey)
}

// OnFeesClaimed releases held fees if the cadence allows. Having nothing to
// release is not an error. Operator only.
func (r *Router) OnFeesClaimed(ctx *ledger.Context) error {
	operator, err := r.proxy.Operator(ctx)
	if err != nil {
		return err
	}
	if operator == ids.ShortEmpty || ctx.Caller() != operator {
		return ErrNotOperator
	}
	_, err = r.distribute(ctx)
	return err
}

func (r *Router) distribute(ctx *ledger.Context) (Distribution, error) {
	none := Distribution{
		Staking:  new(uint256.Int),
		Treasury: new(uint256.Int),
		Emission: new(uint256.Int),
	}
	balance, err := r.feeToken.BalanceOf(ctx, r.address)
	if err != nil {
		return none, err
	}
	if balance.IsZero() {
		ctx.Log().Debug("no fees to distribute")
		return none, nil
	}
	store := ctx.Store(r.address)
	last, err := store.Uint64(lastDistributionKey)
	if err != nil {
		return none, err
	}
	interval, err := r.Interval(ctx)
	if err != nil {
		return none, err
	}
	next, err := safemath.Add(last, interval)
	if err != nil {
		return none, err
	}
	now := ctx.Time()
	if last != 0 && now < next {
		ctx.Log().Debug("holding fees until the next distribution",
			log.Stringer("held", balance),
			log.Uint64("nextDistribution", next),
		)
		return none, nil
	}

	stakingShare, treasury, err := r.split(ctx, balance)
	if err != nil {
		return none, err
	}
	treasuryShare := new(uint256.Int).Sub(balance, stakingShare)
	if err := store.PutUint64(lastDistributionKey, now); err != nil {
		return none, err
	}

	self := ctx.As(r.address)
	if !stakingShare.IsZero() {
		if err := r.notify(self, r.feeToken, stakingShare); err != nil {
			return none, err
		}
	}
	if !treasuryShare.IsZero() {
		if err := r.feeToken.Transfer(self, treasury, treasuryShare); err != nil {
			return none, err
		}
	}

	emitted, err := r.authority.Claim(self)
	if err != nil {
		return none, err
	}
	if !emitted.IsZero() {
		emission, err := ledger.Resolve[token.ERC20](ctx, r.authority.Asset())
		if err != nil {
			return none, err
		}
		if err := r.notify(self, emission, emitted); err != nil {
			return none, err
		}
	}

	ctx.Log().Info("fees distributed",
		log.Stringer("staking", stakingShare),
		log.Stringer("treasury", treasuryShare),
		log.Stringer("emission", emitted),
	)
	return Distribution{
		Staking:  stakingShare,
		Treasury: treasuryShare,
		Emission: emitted,
	}, nil
}

// split returns the stakers' share of amount and the treasury. Without a
// treasury everything goes to stakers.
func (r *Router) split(ctx *ledger.Context, amount *uint256.Int) (*uint256.Int, ids.ShortID, error) {
	treasury, err := r.Treasury(ctx)
	if err != nil {
		return nil, ids.ShortEmpty, err
	}
	if treasury == ids.ShortEmpty {
		return amount.Clone(), treasury, nil
	}
	weight, err := r.authority.Weight(ctx, r.address)
	if err != nil {
		return nil, ids.ShortEmpty, err
	}
	total, err := r.authority.TotalWeight(ctx)
	if err != nil {
		return nil, ids.ShortEmpty, err
	}
	if total == 0 {
		return new(uint256.Int), treasury, nil
	}
	share, err := safemath.MulDiv(amount, uint256.NewInt(weight), uint256.NewInt(total))
	return share, treasury, err
}

func (r *Router) notify(self *ledger.Context, asset token.ERC20, amount *uint256.Int) error {
	if err := asset.Approve(self, r.rewards.Address(), amount); err != nil {
		return err
	}
	return r.rewards.NotifyRewardAmount(self, asset.Address(), amount)
}
