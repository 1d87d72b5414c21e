// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package emissions

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/locker/ledger"
	"github.com/luxfi/locker/ledger/ledgertest"
	"github.com/luxfi/locker/token"
)

func TestFundSplitsByWeight(t *testing.T) {
	require := require.New(t)

	l := ledgertest.New(t)
	admin := ids.GenerateTestShortID()
	a := ids.GenerateTestShortID()
	b := ids.GenerateTestShortID()

	asset := token.New(ids.GenerateTestShortID(), "Emission", "EMT")
	d := New(ids.GenerateTestShortID(), asset)
	require.NoError(l.Deploy(asset.Address(), asset))
	require.NoError(l.Deploy(d.Address(), d))

	require.NoError(l.Execute(admin, "setup", func(ctx *ledger.Context) error {
		if err := asset.InitOwner(ctx, admin); err != nil {
			return err
		}
		if err := asset.SetMinter(ctx, admin, true); err != nil {
			return err
		}
		if err := asset.Mint(ctx, admin, uint256.NewInt(1_000)); err != nil {
			return err
		}
		if err := asset.Approve(ctx, d.Address(), uint256.NewInt(1_000)); err != nil {
			return err
		}
		return d.InitOwner(ctx, admin)
	}))

	err := l.Execute(admin, "fund", func(ctx *ledger.Context) error {
		return d.Fund(ctx, uint256.NewInt(100))
	})
	require.ErrorIs(err, ErrNoWeight)

	err = l.Execute(a, "setWeight", func(ctx *ledger.Context) error {
		return d.SetWeight(ctx, a, 500)
	})
	require.ErrorIs(err, ledger.ErrUnauthorized)

	require.NoError(l.Execute(admin, "setWeight", func(ctx *ledger.Context) error {
		if err := d.SetWeight(ctx, a, 500); err != nil {
			return err
		}
		if err := d.SetWeight(ctx, b, 1_000); err != nil {
			return err
		}
		// Re-weighting replaces the receiver's previous weight.
		return d.SetWeight(ctx, b, 1_500)
	}))
	require.NoError(l.Execute(admin, "fund", func(ctx *ledger.Context) error {
		return d.Fund(ctx, uint256.NewInt(1_000))
	}))

	ledgertest.View(t, l, func(ctx *ledger.Context) error {
		total, err := d.TotalWeight(ctx)
		require.NoError(err)
		require.Equal(uint64(2_000), total)

		claimable, err := d.Claimable(ctx, a)
		require.NoError(err)
		require.Equal(uint256.NewInt(250), claimable)
		return nil
	})

	require.NoError(l.Execute(b, "claim", func(ctx *ledger.Context) error {
		amount, err := d.Claim(ctx)
		require.Equal(uint256.NewInt(750), amount)
		return err
	}))
	require.NoError(l.Execute(b, "claim", func(ctx *ledger.Context) error {
		amount, err := d.Claim(ctx)
		require.True(amount.IsZero())
		return err
	}))
	ledgertest.View(t, l, func(ctx *ledger.Context) error {
		balance, err := asset.BalanceOf(ctx, b)
		require.NoError(err)
		require.Equal(uint256.NewInt(750), balance)
		return nil
	})
}
