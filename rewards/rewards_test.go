// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rewards

import (
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/locker/ledger"
	"github.com/luxfi/locker/ledger/ledgertest"
	"github.com/luxfi/locker/ownership"
	"github.com/luxfi/locker/token"
	"github.com/luxfi/locker/utils/units"
)

type owner ids.ShortID

func (o owner) Owner(*ledger.Context) (ids.ShortID, error) {
	return ids.ShortID(o), nil
}

type fixture struct {
	l           *ledger.Ledger
	admin       ids.ShortID
	notifier    ids.ShortID
	stake       *token.Token
	reward      *token.Token
	distributor *Distributor
}

func newFixture(t *testing.T) *fixture {
	require := require.New(t)

	f := &fixture{
		l:        ledgertest.New(t),
		admin:    ids.GenerateTestShortID(),
		notifier: ids.GenerateTestShortID(),
		stake:    token.New(ids.GenerateTestShortID(), "Receipt", "R"),
		reward:   token.New(ids.GenerateTestShortID(), "Reward", "RWD"),
	}
	f.distributor = New(ids.GenerateTestShortID(), f.stake, owner(f.admin), duration)
	for _, c := range []interface{ Address() ids.ShortID }{f.stake, f.reward, f.distributor} {
		require.NoError(f.l.Deploy(c.Address(), c))
	}
	require.NoError(f.l.Execute(f.admin, "setup", func(ctx *ledger.Context) error {
		for _, tok := range []*token.Token{f.stake, f.reward} {
			if err := tok.InitOwner(ctx, f.admin); err != nil {
				return err
			}
			if err := tok.SetMinter(ctx, f.admin, true); err != nil {
				return err
			}
		}
		return f.distributor.AddReward(ctx, f.reward.Address(), f.notifier)
	}))
	return f
}

func (f *fixture) stakeFresh(t *testing.T, account ids.ShortID, amount *uint256.Int) {
	require.NoError(t, f.l.Execute(f.admin, "mint", func(ctx *ledger.Context) error {
		return f.stake.Mint(ctx, account, amount)
	}))
	require.NoError(t, f.l.Execute(account, "stake", func(ctx *ledger.Context) error {
		if err := f.stake.Approve(ctx, f.distributor.Address(), amount); err != nil {
			return err
		}
		return f.distributor.Stake(ctx, amount)
	}))
}

func (f *fixture) notify(t *testing.T, amount *uint256.Int) {
	require.NoError(t, f.l.Execute(f.admin, "mint", func(ctx *ledger.Context) error {
		return f.reward.Mint(ctx, f.notifier, amount)
	}))
	require.NoError(t, f.l.Execute(f.notifier, "notify", func(ctx *ledger.Context) error {
		if err := f.reward.Approve(ctx, f.distributor.Address(), amount); err != nil {
			return err
		}
		return f.distributor.NotifyRewardAmount(ctx, f.reward.Address(), amount)
	}))
}

func (f *fixture) claim(t *testing.T, holder ids.ShortID) *uint256.Int {
	require.NoError(t, f.l.Execute(holder, "getReward", func(ctx *ledger.Context) error {
		_, err := f.distributor.GetReward(ctx, holder)
		return err
	}))
	return f.balance(t, f.reward, holder)
}

func (f *fixture) balance(t *testing.T, tok *token.Token, holder ids.ShortID) *uint256.Int {
	var balance *uint256.Int
	ledgertest.View(t, f.l, func(ctx *ledger.Context) error {
		var err error
		balance, err = tok.BalanceOf(ctx, holder)
		return err
	})
	return balance
}

func (f *fixture) advance(seconds uint64) {
	f.l.Clock().Advance(time.Duration(seconds) * time.Second)
}

func TestAddReward(t *testing.T) {
	f := newFixture(t)
	other := token.New(ids.GenerateTestShortID(), "Other", "OTH")
	require.NoError(t, f.l.Deploy(other.Address(), other))

	tests := []struct {
		name        string
		caller      ids.ShortID
		asset       ids.ShortID
		expectedErr error
	}{
		{
			name:        "not owner",
			caller:      f.notifier,
			asset:       other.Address(),
			expectedErr: ownership.ErrNotOwner,
		},
		{
			name:        "staking token",
			caller:      f.admin,
			asset:       f.stake.Address(),
			expectedErr: ErrInvalidReward,
		},
		{
			name:        "zero asset",
			caller:      f.admin,
			asset:       ids.ShortEmpty,
			expectedErr: ErrInvalidReward,
		},
		{
			name:        "not a token",
			caller:      f.admin,
			asset:       ids.GenerateTestShortID(),
			expectedErr: ErrInvalidReward,
		},
		{
			name:        "duplicate",
			caller:      f.admin,
			asset:       f.reward.Address(),
			expectedErr: ErrRewardExists,
		},
		{
			name:   "new asset",
			caller: f.admin,
			asset:  other.Address(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.l.Execute(tt.caller, "addReward", func(ctx *ledger.Context) error {
				return f.distributor.AddReward(ctx, tt.asset, f.notifier)
			})
			require.ErrorIs(t, err, tt.expectedErr)
		})
	}

	ledgertest.View(t, f.l, func(ctx *ledger.Context) error {
		assets, err := f.distributor.RewardTokens(ctx)
		require.NoError(t, err)
		require.Equal(t, []ids.ShortID{f.reward.Address(), other.Address()}, assets)
		return nil
	})
}

func TestNotifyRewardAmountAuthorization(t *testing.T) {
	require := require.New(t)

	f := newFixture(t)
	stranger := ids.GenerateTestShortID()

	err := f.l.Execute(stranger, "notify", func(ctx *ledger.Context) error {
		return f.distributor.NotifyRewardAmount(ctx, f.reward.Address(), units.Tokens(1))
	})
	require.ErrorIs(err, ErrNotDistributor)

	require.NoError(f.l.Execute(f.admin, "approve", func(ctx *ledger.Context) error {
		return f.distributor.ApproveRewardDistributor(ctx, f.reward.Address(), f.notifier, false)
	}))
	err = f.l.Execute(f.notifier, "notify", func(ctx *ledger.Context) error {
		return f.distributor.NotifyRewardAmount(ctx, f.reward.Address(), units.Tokens(1))
	})
	require.ErrorIs(err, ErrNotDistributor)

	err = f.l.Execute(f.admin, "approve", func(ctx *ledger.Context) error {
		return f.distributor.ApproveRewardDistributor(ctx, ids.GenerateTestShortID(), f.notifier, true)
	})
	require.ErrorIs(err, ErrUnknownReward)
}

func TestRewardsProRata(t *testing.T) {
	require := require.New(t)

	f := newFixture(t)
	alice := ids.GenerateTestShortID()
	bob := ids.GenerateTestShortID()
	f.stakeFresh(t, alice, units.Tokens(100))
	f.stakeFresh(t, bob, units.Tokens(300))

	notified := uint256.NewInt(duration * 4 * units.Gwei)
	f.notify(t, notified)
	f.advance(duration)

	quarter := new(uint256.Int).Div(notified, uint256.NewInt(4))
	ledgertest.View(t, f.l, func(ctx *ledger.Context) error {
		claimable, err := f.distributor.ClaimableRewards(ctx, alice)
		require.NoError(err)
		require.Equal([]EarnedData{{Asset: f.reward.Address(), Amount: quarter}}, claimable)
		return nil
	})
	require.Equal(quarter, f.claim(t, alice))
	require.Equal(new(uint256.Int).Sub(notified, quarter), f.claim(t, bob))
	require.True(f.balance(t, f.reward, f.distributor.Address()).IsZero())

	// Claiming again pays nothing more.
	require.Equal(quarter, f.claim(t, alice))
}

func TestRewardsSecondNotificationFoldsRemainder(t *testing.T) {
	require := require.New(t)

	f := newFixture(t)
	alice := ids.GenerateTestShortID()
	f.stakeFresh(t, alice, units.Tokens(100))

	notified := uint256.NewInt(duration * 1000)
	f.notify(t, notified)
	f.advance(duration / 2)
	f.notify(t, notified)

	ledgertest.View(t, f.l, func(ctx *ledger.Context) error {
		r, err := f.distributor.RewardData(ctx, f.reward.Address())
		require.NoError(err)
		require.Equal(uint256.NewInt(1500), &r.RewardRate)
		require.Equal(ctx.Time()+duration, r.PeriodFinish)
		return nil
	})

	f.advance(2 * duration)
	require.Equal(new(uint256.Int).Mul(notified, uint256.NewInt(2)), f.claim(t, alice))
	require.True(f.balance(t, f.reward, f.distributor.Address()).IsZero())
}

func TestRewardsHeldWithoutStakers(t *testing.T) {
	require := require.New(t)

	f := newFixture(t)
	alice := ids.GenerateTestShortID()

	notified := uint256.NewInt(duration * 1000)
	f.notify(t, notified)
	f.advance(duration / 2)
	f.stakeFresh(t, alice, units.Tokens(10))
	f.advance(duration)

	require.Equal(notified, f.claim(t, alice))
}

func TestWithdraw(t *testing.T) {
	require := require.New(t)

	f := newFixture(t)
	alice := ids.GenerateTestShortID()
	f.stakeFresh(t, alice, units.Tokens(100))
	notified := uint256.NewInt(duration * units.Gwei)
	f.notify(t, notified)
	f.advance(duration)

	err := f.l.Execute(alice, "withdraw", func(ctx *ledger.Context) error {
		return f.distributor.Withdraw(ctx, units.Tokens(101), true)
	})
	require.ErrorIs(err, ledger.ErrInsufficientBalance)

	require.NoError(f.l.Execute(alice, "withdraw", func(ctx *ledger.Context) error {
		return f.distributor.Withdraw(ctx, units.Tokens(40), false)
	}))
	require.Equal(units.Tokens(40), f.balance(t, f.stake, alice))
	require.True(f.balance(t, f.reward, alice).IsZero())

	require.NoError(f.l.Execute(alice, "withdraw", func(ctx *ledger.Context) error {
		return f.distributor.Withdraw(ctx, units.Tokens(60), true)
	}))
	require.Equal(units.Tokens(100), f.balance(t, f.stake, alice))
	require.Equal(notified, f.balance(t, f.reward, alice))

	ledgertest.View(t, f.l, func(ctx *ledger.Context) error {
		supply, err := f.distributor.TotalSupply(ctx)
		require.NoError(err)
		require.True(supply.IsZero())
		return nil
	})
}

func TestStakeFor(t *testing.T) {
	require := require.New(t)

	f := newFixture(t)
	alice := ids.GenerateTestShortID()
	bob := ids.GenerateTestShortID()

	require.NoError(f.l.Execute(f.admin, "mint", func(ctx *ledger.Context) error {
		return f.stake.Mint(ctx, alice, units.Tokens(5))
	}))
	require.NoError(f.l.Execute(alice, "stakeFor", func(ctx *ledger.Context) error {
		if err := f.stake.Approve(ctx, f.distributor.Address(), units.Tokens(5)); err != nil {
			return err
		}
		return f.distributor.StakeFor(ctx, bob, units.Tokens(5))
	}))

	ledgertest.View(t, f.l, func(ctx *ledger.Context) error {
		staked, err := f.distributor.BalanceOf(ctx, bob)
		require.NoError(err)
		require.Equal(units.Tokens(5), staked)
		staked, err = f.distributor.BalanceOf(ctx, alice)
		require.NoError(err)
		require.True(staked.IsZero())
		return nil
	})

	err := f.l.Execute(alice, "stake", func(ctx *ledger.Context) error {
		return f.distributor.Stake(ctx, new(uint256.Int))
	})
	require.ErrorIs(err, ErrZeroAmount)

	err = f.l.Execute(bob, "stakeFor", func(ctx *ledger.Context) error {
		return f.distributor.StakeFor(ctx, ids.ShortEmpty, units.Tokens(1))
	})
	require.ErrorIs(err, ErrZeroAddress)
	ledgertest.View(t, f.l, func(ctx *ledger.Context) error {
		staked, err := f.distributor.BalanceOf(ctx, ids.ShortEmpty)
		require.NoError(err)
		require.True(staked.IsZero())
		return nil
	})
}
