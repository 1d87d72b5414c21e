// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package feedistro

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/locker/ledger"
	"github.com/luxfi/locker/ledger/ledgertest"
	"github.com/luxfi/locker/token"
)

func TestFundAndClaim(t *testing.T) {
	require := require.New(t)

	l := ledgertest.New(t)
	admin := ids.GenerateTestShortID()
	recipient := ids.GenerateTestShortID()

	asset := token.New(ids.GenerateTestShortID(), "Governance", "GOV")
	d := New(ids.GenerateTestShortID(), asset)
	require.NoError(l.Deploy(asset.Address(), asset))
	require.NoError(l.Deploy(d.Address(), d))
	require.Equal(asset.Address(), d.Asset())

	require.NoError(l.Execute(admin, "setup", func(ctx *ledger.Context) error {
		if err := asset.InitOwner(ctx, admin); err != nil {
			return err
		}
		if err := asset.SetMinter(ctx, admin, true); err != nil {
			return err
		}
		if err := asset.Mint(ctx, admin, uint256.NewInt(60)); err != nil {
			return err
		}
		return asset.Approve(ctx, d.Address(), uint256.NewInt(60))
	}))

	err := l.Execute(admin, "fund", func(ctx *ledger.Context) error {
		return d.Fund(ctx, recipient, new(uint256.Int))
	})
	require.ErrorIs(err, ErrZeroAmount)

	require.NoError(l.Execute(admin, "fund", func(ctx *ledger.Context) error {
		if err := d.Fund(ctx, recipient, uint256.NewInt(40)); err != nil {
			return err
		}
		return d.Fund(ctx, recipient, uint256.NewInt(20))
	}))
	require.NoError(l.Execute(recipient, "claim", func(ctx *ledger.Context) error {
		amount, err := d.Claim(ctx)
		require.Equal(uint256.NewInt(60), amount)
		return err
	}))

	ledgertest.View(t, l, func(ctx *ledger.Context) error {
		balance, err := asset.BalanceOf(ctx, recipient)
		require.NoError(err)
		require.Equal(uint256.NewInt(60), balance)

		claimable, err := d.Claimable(ctx, recipient)
		require.NoError(err)
		require.True(claimable.IsZero())
		return nil
	})
}
