// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package operator

import (
	"errors"
	"testing"

	"github.com/holiman/uint256"
	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/luxfi/locker/ledger"
	"github.com/luxfi/locker/ledger/ledgertest"
	"github.com/luxfi/locker/operator/operatormock"
	"github.com/luxfi/locker/ownership"
	"github.com/luxfi/locker/utils/units"
)

var errProxy = errors.New("proxy failed")

// queue counts the notifications it receives.
type queue struct {
	notified []ids.ShortID
}

func (q *queue) OnFeesClaimed(ctx *ledger.Context) error {
	q.notified = append(q.notified, ctx.Caller())
	return nil
}

// source is a fee distro paying asset.
type source struct {
	asset ids.ShortID
}

func (s *source) Asset() ids.ShortID {
	return s.asset
}

type fixture struct {
	l        *ledger.Ledger
	owner    ids.ShortID
	proxy    *operatormock.Proxy
	operator *Operator
}

func newFixture(t *testing.T) *fixture {
	require := require.New(t)

	ctrl := gomock.NewController(t)
	proxy := operatormock.NewProxy(ctrl)
	proxyAddr := ids.GenerateTestShortID()
	proxy.EXPECT().Address().Return(proxyAddr).AnyTimes()

	f := &fixture{
		l:        ledgertest.New(t),
		owner:    ids.GenerateTestShortID(),
		proxy:    proxy,
		operator: New(ids.GenerateTestShortID(), proxy),
	}
	require.NoError(f.l.Deploy(f.operator.Address(), f.operator))
	require.NoError(f.l.Execute(f.owner, "init", func(ctx *ledger.Context) error {
		return f.operator.InitOwner(ctx, f.owner)
	}))
	return f
}

func (f *fixture) shutdown(t *testing.T) {
	require.NoError(t, f.l.Execute(f.owner, "shutdown", f.operator.ShutdownSystem))
}

// asOperator fails the test unless the proxy was called by the operator.
func (f *fixture) asOperator(t *testing.T, ctx *ledger.Context) {
	require.Equal(t, f.operator.Address(), ctx.Caller())
}

func TestProxy(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, f.proxy.Address(), f.operator.Proxy())
}

func TestShutdownSystem(t *testing.T) {
	require := require.New(t)

	f := newFixture(t)
	err := f.l.Execute(ids.GenerateTestShortID(), "shutdown", f.operator.ShutdownSystem)
	require.ErrorIs(err, ownership.ErrNotOwner)

	f.shutdown(t)
	err = f.l.Execute(f.owner, "shutdown", f.operator.ShutdownSystem)
	require.ErrorIs(err, ErrShutdown)

	ledgertest.View(t, f.l, func(ctx *ledger.Context) error {
		shutdown, err := f.operator.IsShutdown(ctx)
		require.NoError(err)
		require.True(shutdown)
		return nil
	})
}

func TestSetFeeQueue(t *testing.T) {
	require := require.New(t)

	f := newFixture(t)
	q := &queue{}
	qAddr := ids.GenerateTestShortID()
	require.NoError(f.l.Deploy(qAddr, q))
	notQueue := ids.GenerateTestShortID()

	tests := []struct {
		name        string
		caller      ids.ShortID
		queue       ids.ShortID
		enabled     bool
		expectedErr error
	}{
		{
			name:        "not owner",
			caller:      ids.GenerateTestShortID(),
			queue:       qAddr,
			enabled:     true,
			expectedErr: ownership.ErrNotOwner,
		},
		{
			name:        "unknown queue",
			caller:      f.owner,
			queue:       notQueue,
			enabled:     true,
			expectedErr: ErrInvalidFeeQueue,
		},
		{
			name:    "disabled queue is not probed",
			caller:  f.owner,
			queue:   notQueue,
			enabled: false,
		},
		{
			name:    "enabled",
			caller:  f.owner,
			queue:   qAddr,
			enabled: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.l.Execute(tt.caller, "setFeeQueue", func(ctx *ledger.Context) error {
				return f.operator.SetFeeQueue(ctx, tt.queue, tt.enabled)
			})
			require.ErrorIs(err, tt.expectedErr)
		})
	}

	ledgertest.View(t, f.l, func(ctx *ledger.Context) error {
		got, enabled, err := f.operator.FeeQueue(ctx)
		require.NoError(err)
		require.Equal(qAddr, got)
		require.True(enabled)
		return nil
	})
}

func TestSetFeeDistro(t *testing.T) {
	require := require.New(t)

	f := newFixture(t)
	distro := ids.GenerateTestShortID()
	require.NoError(f.l.Deploy(distro, &source{asset: ids.GenerateTestShortID()}))
	notDistro := ids.GenerateTestShortID()

	tests := []struct {
		name        string
		caller      ids.ShortID
		distro      ids.ShortID
		enabled     bool
		expectedErr error
	}{
		{
			name:        "not owner",
			caller:      ids.GenerateTestShortID(),
			distro:      distro,
			enabled:     true,
			expectedErr: ownership.ErrNotOwner,
		},
		{
			name:        "not a fee source",
			caller:      f.owner,
			distro:      notDistro,
			enabled:     true,
			expectedErr: ErrUnknownFeeDistro,
		},
		{
			name:    "disabling is not probed",
			caller:  f.owner,
			distro:  notDistro,
			enabled: false,
		},
		{
			name:    "enabled",
			caller:  f.owner,
			distro:  distro,
			enabled: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.l.Execute(tt.caller, "setFeeDistro", func(ctx *ledger.Context) error {
				return f.operator.SetFeeDistro(ctx, tt.distro, tt.enabled)
			})
			require.ErrorIs(err, tt.expectedErr)
		})
	}

	ledgertest.View(t, f.l, func(ctx *ledger.Context) error {
		enabled, err := f.operator.IsFeeDistro(ctx, distro)
		require.NoError(err)
		require.True(enabled)

		enabled, err = f.operator.IsFeeDistro(ctx, notDistro)
		require.NoError(err)
		require.False(enabled)
		return nil
	})
}

func TestClaimFees(t *testing.T) {
	require := require.New(t)

	f := newFixture(t)
	q := &queue{}
	qAddr := ids.GenerateTestShortID()
	require.NoError(f.l.Deploy(qAddr, q))
	asset := ids.GenerateTestShortID()
	distro := ids.GenerateTestShortID()
	require.NoError(f.l.Deploy(distro, &source{asset: asset}))
	anyone := ids.GenerateTestShortID()

	claim := func() (*uint256.Int, error) {
		var amount *uint256.Int
		err := f.l.Execute(anyone, "claimFees", func(ctx *ledger.Context) error {
			var err error
			amount, err = f.operator.ClaimFees(ctx, distro, asset)
			return err
		})
		return amount, err
	}

	_, err := claim()
	require.ErrorIs(err, ErrFeeQueueDisabled)

	require.NoError(f.l.Execute(f.owner, "setFeeQueue", func(ctx *ledger.Context) error {
		return f.operator.SetFeeQueue(ctx, qAddr, true)
	}))
	_, err = claim()
	require.ErrorIs(err, ErrUnknownFeeDistro)
	require.Empty(q.notified)

	require.NoError(f.l.Execute(f.owner, "setFeeDistro", func(ctx *ledger.Context) error {
		return f.operator.SetFeeDistro(ctx, distro, true)
	}))
	f.proxy.EXPECT().Checkpoint(gomock.Any()).DoAndReturn(func(ctx *ledger.Context) error {
		f.asOperator(t, ctx)
		return nil
	}).Times(2)
	f.proxy.EXPECT().ClaimFees(gomock.Any(), distro, asset, qAddr).DoAndReturn(
		func(ctx *ledger.Context, _, _, _ ids.ShortID) (*uint256.Int, error) {
			f.asOperator(t, ctx)
			return units.Tokens(7), nil
		},
	)
	amount, err := claim()
	require.NoError(err)
	require.Equal(units.Tokens(7), amount)
	require.Equal([]ids.ShortID{f.operator.Address()}, q.notified)

	f.proxy.EXPECT().ClaimFees(gomock.Any(), distro, asset, qAddr).Return(nil, errProxy)
	_, err = claim()
	require.ErrorIs(err, errProxy)
	require.Len(q.notified, 1)

	f.shutdown(t)
	_, err = claim()
	require.ErrorIs(err, ErrShutdown)
}

func TestRelease(t *testing.T) {
	require := require.New(t)

	f := newFixture(t)
	release := func(caller ids.ShortID) (*uint256.Int, error) {
		var released *uint256.Int
		err := f.l.Execute(caller, "release", func(ctx *ledger.Context) error {
			var err error
			released, err = f.operator.Release(ctx)
			return err
		})
		return released, err
	}

	_, err := release(ids.GenerateTestShortID())
	require.ErrorIs(err, ownership.ErrNotOwner)

	f.proxy.EXPECT().Release(gomock.Any()).DoAndReturn(func(ctx *ledger.Context) (*uint256.Int, error) {
		f.asOperator(t, ctx)
		return units.Tokens(12), nil
	})
	released, err := release(f.owner)
	require.NoError(err)
	require.Equal(units.Tokens(12), released)

	f.shutdown(t)
	_, err = release(f.owner)
	require.ErrorIs(err, ErrShutdown)
}

func TestDelegation(t *testing.T) {
	require := require.New(t)

	f := newFixture(t)
	registry := ids.GenerateTestShortID()
	delegate := ids.GenerateTestShortID()
	space := ids.GenerateTestID()

	err := f.l.Execute(delegate, "setDelegate", func(ctx *ledger.Context) error {
		return f.operator.SetDelegate(ctx, registry, delegate, space)
	})
	require.ErrorIs(err, ownership.ErrNotOwner)

	f.proxy.EXPECT().Delegate(gomock.Any(), registry, delegate, space).DoAndReturn(
		func(ctx *ledger.Context, _, _ ids.ShortID, _ ids.ID) error {
			f.asOperator(t, ctx)
			return nil
		},
	)
	require.NoError(f.l.Execute(f.owner, "setDelegate", func(ctx *ledger.Context) error {
		return f.operator.SetDelegate(ctx, registry, delegate, space)
	}))

	f.proxy.EXPECT().ClearDelegate(gomock.Any(), registry, space).Return(nil)
	require.NoError(f.l.Execute(f.owner, "clearDelegate", func(ctx *ledger.Context) error {
		return f.operator.ClearDelegate(ctx, registry, space)
	}))

	f.shutdown(t)
	err = f.l.Execute(f.owner, "setDelegate", func(ctx *ledger.Context) error {
		return f.operator.SetDelegate(ctx, registry, delegate, space)
	})
	require.ErrorIs(err, ErrShutdown)
	err = f.l.Execute(f.owner, "clearDelegate", func(ctx *ledger.Context) error {
		return f.operator.ClearDelegate(ctx, registry, space)
	})
	require.ErrorIs(err, ErrShutdown)
}

func TestRecoverERC20FromProxy(t *testing.T) {
	require := require.New(t)

	f := newFixture(t)
	asset := ids.GenerateTestShortID()
	to := ids.GenerateTestShortID()

	err := f.l.Execute(to, "recover", func(ctx *ledger.Context) error {
		return f.operator.RecoverERC20FromProxy(ctx, asset, units.Tokens(1), to)
	})
	require.ErrorIs(err, ownership.ErrNotOwner)

	// Rescues stay available after shutdown.
	f.shutdown(t)
	f.proxy.EXPECT().RecoverERC20(gomock.Any(), asset, units.Tokens(1), to).Return(nil)
	require.NoError(f.l.Execute(f.owner, "recover", func(ctx *ledger.Context) error {
		return f.operator.RecoverERC20FromProxy(ctx, asset, units.Tokens(1), to)
	}))
}

func TestMigrateLock(t *testing.T) {
	require := require.New(t)

	f := newFixture(t)
	controller := ids.GenerateTestShortID()
	key := ids.GenerateTestShortID()
	migrate := func(caller ids.ShortID) (*uint256.Int, error) {
		var migrated *uint256.Int
		err := f.l.Execute(caller, "migrateLock", func(ctx *ledger.Context) error {
			var err error
			migrated, err = f.operator.MigrateLock(ctx, controller, key)
			return err
		})
		return migrated, err
	}

	_, err := migrate(key)
	require.ErrorIs(err, ownership.ErrNotOwner)

	f.proxy.EXPECT().MigrateLock(gomock.Any(), controller, key).DoAndReturn(
		func(ctx *ledger.Context, _, _ ids.ShortID) (*uint256.Int, error) {
			f.asOperator(t, ctx)
			return units.Tokens(3), nil
		},
	)
	migrated, err := migrate(f.owner)
	require.NoError(err)
	require.Equal(units.Tokens(3), migrated)

	f.shutdown(t)
	_, err = migrate(f.owner)
	require.ErrorIs(err, ErrShutdown)
}
