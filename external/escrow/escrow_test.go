// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package escrow

import (
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/locker/external/whitelist"
	"github.com/luxfi/locker/ledger"
	"github.com/luxfi/locker/ledger/ledgertest"
	"github.com/luxfi/locker/token"
	"github.com/luxfi/locker/utils/units"
)

const maxTime = 4 * units.Year

type fixture struct {
	l      *ledger.Ledger
	admin  ids.ShortID
	gov    *token.Token
	escrow *VotingEscrow
}

func newFixture(t *testing.T, holders ...ids.ShortID) *fixture {
	require := require.New(t)

	f := &fixture{
		l:     ledgertest.New(t),
		admin: ids.GenerateTestShortID(),
		gov:   token.New(ids.GenerateTestShortID(), "Governance", "GOV"),
	}
	f.escrow = New(ids.GenerateTestShortID(), f.gov, maxTime)
	require.NoError(f.l.Deploy(f.gov.Address(), f.gov))
	require.NoError(f.l.Deploy(f.escrow.Address(), f.escrow))

	require.NoError(f.l.Execute(f.admin, "setup", func(ctx *ledger.Context) error {
		if err := f.gov.InitOwner(ctx, f.admin); err != nil {
			return err
		}
		if err := f.escrow.InitOwner(ctx, f.admin); err != nil {
			return err
		}
		return f.gov.SetMinter(ctx, f.admin, true)
	}))
	for _, holder := range holders {
		f.fund(t, holder, units.Tokens(1000))
	}
	return f
}

func (f *fixture) fund(t *testing.T, holder ids.ShortID, amount *uint256.Int) {
	require.NoError(t, f.l.Execute(f.admin, "mint", func(ctx *ledger.Context) error {
		return f.gov.Mint(ctx, holder, amount)
	}))
	require.NoError(t, f.l.Execute(holder, "approve", func(ctx *ledger.Context) error {
		return f.gov.Approve(ctx, f.escrow.Address(), amount)
	}))
}

func (f *fixture) now() uint64 {
	return f.l.Clock().Unix()
}

func TestCreateLock(t *testing.T) {
	require := require.New(t)

	alice := ids.GenerateTestShortID()
	f := newFixture(t, alice)
	amount := units.Tokens(100)
	unlock := f.now() + units.Year

	require.NoError(f.l.Execute(alice, "createLock", func(ctx *ledger.Context) error {
		return f.escrow.CreateLock(ctx, amount, unlock)
	}))

	err := f.l.Execute(alice, "createLock", func(ctx *ledger.Context) error {
		return f.escrow.CreateLock(ctx, amount, unlock)
	})
	require.ErrorIs(err, ErrLockExists)

	ledgertest.View(t, f.l, func(ctx *ledger.Context) error {
		lock, err := f.escrow.Locked(ctx, alice)
		require.NoError(err)
		require.Equal(*amount, lock.Amount)
		require.Equal(RoundToWeek(unlock), lock.End)

		held, err := f.gov.BalanceOf(ctx, f.escrow.Address())
		require.NoError(err)
		require.Equal(amount, held)

		total, err := f.escrow.TotalLocked(ctx)
		require.NoError(err)
		require.Equal(amount, total)

		power, err := f.escrow.BalanceOf(ctx, alice)
		require.NoError(err)
		expected := new(uint256.Int).Div(
			new(uint256.Int).Mul(amount, uint256.NewInt(lock.End-ctx.Time())),
			uint256.NewInt(maxTime),
		)
		require.Equal(expected, power)
		return nil
	})
}

func TestCreateLockBounds(t *testing.T) {
	alice := ids.GenerateTestShortID()

	tests := []struct {
		name        string
		amount      *uint256.Int
		unlock      func(now uint64) uint64
		expectedErr error
	}{
		{
			name:        "zero amount",
			amount:      new(uint256.Int),
			unlock:      func(now uint64) uint64 { return now + units.Year },
			expectedErr: ErrZeroAmount,
		},
		{
			name:        "unlock in the past",
			amount:      units.Tokens(1),
			unlock:      func(now uint64) uint64 { return now },
			expectedErr: ErrUnlockInPast,
		},
		{
			name:        "unlock beyond max",
			amount:      units.Tokens(1),
			unlock:      func(now uint64) uint64 { return now + maxTime + 2*units.Week },
			expectedErr: ErrUnlockTooLate,
		},
		{
			name:   "unlock at max",
			amount: units.Tokens(1),
			unlock: func(now uint64) uint64 { return now + maxTime },
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			f := newFixture(t, alice)
			err := f.l.Execute(alice, "createLock", func(ctx *ledger.Context) error {
				return f.escrow.CreateLock(ctx, test.amount, test.unlock(ctx.Time()))
			})
			require.ErrorIs(t, err, test.expectedErr)
		})
	}
}

func TestIncreaseUnlockTimeIsMonotonic(t *testing.T) {
	require := require.New(t)

	alice := ids.GenerateTestShortID()
	f := newFixture(t, alice)
	start := f.now()

	require.NoError(f.l.Execute(alice, "createLock", func(ctx *ledger.Context) error {
		return f.escrow.CreateLock(ctx, units.Tokens(10), start+2*units.Year)
	}))

	err := f.l.Execute(alice, "increaseUnlockTime", func(ctx *ledger.Context) error {
		return f.escrow.IncreaseUnlockTime(ctx, start+units.Year)
	})
	require.ErrorIs(err, ErrUnlockNotGreater)

	require.NoError(f.l.Execute(alice, "increaseUnlockTime", func(ctx *ledger.Context) error {
		return f.escrow.IncreaseUnlockTime(ctx, start+3*units.Year)
	}))
	ledgertest.View(t, f.l, func(ctx *ledger.Context) error {
		lock, err := f.escrow.Locked(ctx, alice)
		require.NoError(err)
		require.Equal(RoundToWeek(start+3*units.Year), lock.End)
		return nil
	})
}

func TestDepositForAndIncreaseAmount(t *testing.T) {
	require := require.New(t)

	alice := ids.GenerateTestShortID()
	bob := ids.GenerateTestShortID()
	f := newFixture(t, alice, bob)

	err := f.l.Execute(bob, "depositFor", func(ctx *ledger.Context) error {
		return f.escrow.DepositFor(ctx, alice, units.Tokens(5))
	})
	require.ErrorIs(err, ErrNoLock)

	require.NoError(f.l.Execute(alice, "createLock", func(ctx *ledger.Context) error {
		return f.escrow.CreateLock(ctx, units.Tokens(10), ctx.Time()+units.Year)
	}))
	require.NoError(f.l.Execute(bob, "depositFor", func(ctx *ledger.Context) error {
		return f.escrow.DepositFor(ctx, alice, units.Tokens(5))
	}))
	require.NoError(f.l.Execute(alice, "increaseAmount", func(ctx *ledger.Context) error {
		return f.escrow.IncreaseAmount(ctx, units.Tokens(1))
	}))

	ledgertest.View(t, f.l, func(ctx *ledger.Context) error {
		lock, err := f.escrow.Locked(ctx, alice)
		require.NoError(err)
		require.Equal(*units.Tokens(16), lock.Amount)

		bobBalance, err := f.gov.BalanceOf(ctx, bob)
		require.NoError(err)
		require.Equal(units.Tokens(995), bobBalance)
		return nil
	})

	f.l.Clock().Advance(time.Duration(units.Year+units.Week) * time.Second)
	err = f.l.Execute(alice, "increaseAmount", func(ctx *ledger.Context) error {
		return f.escrow.IncreaseAmount(ctx, units.Tokens(1))
	})
	require.ErrorIs(err, ErrLockExpired)
}

func TestWithdraw(t *testing.T) {
	require := require.New(t)

	alice := ids.GenerateTestShortID()
	f := newFixture(t, alice)

	require.NoError(f.l.Execute(alice, "createLock", func(ctx *ledger.Context) error {
		return f.escrow.CreateLock(ctx, units.Tokens(10), ctx.Time()+units.Year)
	}))

	err := f.l.Execute(alice, "withdraw", func(ctx *ledger.Context) error {
		_, err := f.escrow.Withdraw(ctx)
		return err
	})
	require.ErrorIs(err, ErrLockNotExpired)

	err = f.l.Execute(alice, "toggleEmergencyUnlock", func(ctx *ledger.Context) error {
		return f.escrow.ToggleEmergencyUnlock(ctx)
	})
	require.ErrorIs(err, ledger.ErrUnauthorized)

	require.NoError(f.l.Execute(f.admin, "toggleEmergencyUnlock", func(ctx *ledger.Context) error {
		return f.escrow.ToggleEmergencyUnlock(ctx)
	}))
	require.NoError(f.l.Execute(alice, "withdraw", func(ctx *ledger.Context) error {
		amount, err := f.escrow.Withdraw(ctx)
		require.Equal(units.Tokens(10), amount)
		return err
	}))

	ledgertest.View(t, f.l, func(ctx *ledger.Context) error {
		balance, err := f.gov.BalanceOf(ctx, alice)
		require.NoError(err)
		require.Equal(units.Tokens(1000), balance)

		total, err := f.escrow.TotalLocked(ctx)
		require.NoError(err)
		require.True(total.IsZero())
		return nil
	})
}

func TestContractsNeedWhitelist(t *testing.T) {
	require := require.New(t)

	contract := ids.GenerateTestShortID()
	f := newFixture(t, contract)
	require.NoError(f.l.Deploy(contract, struct{}{}))

	lock := func(ctx *ledger.Context) error {
		return f.escrow.CreateLock(ctx, units.Tokens(1), ctx.Time()+units.Year)
	}
	require.ErrorIs(f.l.Execute(contract, "createLock", lock), ErrWalletNotAllowed)

	checker := whitelist.New(ids.GenerateTestShortID())
	require.NoError(f.l.Deploy(checker.Address(), checker))
	require.NoError(f.l.Execute(f.admin, "setup", func(ctx *ledger.Context) error {
		if err := checker.InitOwner(ctx, f.admin); err != nil {
			return err
		}
		return f.escrow.SetWalletChecker(ctx, checker.Address())
	}))
	require.ErrorIs(f.l.Execute(contract, "createLock", lock), ErrWalletNotAllowed)

	require.NoError(f.l.Execute(f.admin, "approveWallet", func(ctx *ledger.Context) error {
		return checker.ApproveWallet(ctx, contract)
	}))
	require.NoError(f.l.Execute(contract, "createLock", lock))
}

func TestCheckpoint(t *testing.T) {
	require := require.New(t)

	f := newFixture(t)
	require.NoError(f.l.Execute(ids.GenerateTestShortID(), "checkpoint", f.escrow.Checkpoint))
	ledgertest.View(t, f.l, func(ctx *ledger.Context) error {
		last, err := f.escrow.LastCheckpoint(ctx)
		require.NoError(err)
		require.Equal(ctx.Time(), last)
		return nil
	})
}
