// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package lockmanager

import (
	"github.com/holiman/uint256"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/locker/ledger"
	"github.com/luxfi/locker/token"

	safemath "github.com/luxfi/locker/utils/math"
)

// ClaimFees pulls the manager's accrued fees from distro and forwards the
// amount of asset received to to. asset must be the token distro pays.
// Balances the manager already held are not touched. Operator only.
func (l *LockManager) ClaimFees(ctx *ledger.Context, distro, asset, to ids.ShortID) (*uint256.Int, error) {
	if err := l.onlyOperator(ctx); err != nil {
		return nil, err
	}
	if to == ids.ShortEmpty {
		return nil, ErrZeroAddress
	}
	source, err := ledger.Resolve[FeeSource](ctx, distro)
	if err != nil {
		return nil, err
	}
	if source.Asset() != asset {
		return nil, ErrFeeAssetMismatch
	}
	assetToken, err := ledger.Resolve[token.ERC20](ctx, asset)
	if err != nil {
		return nil, err
	}

	self := ctx.As(l.address)
	before, err := assetToken.BalanceOf(ctx, l.address)
	if err != nil {
		return nil, err
	}
	if _, err := source.Claim(self); err != nil {
		return nil, err
	}
	after, err := assetToken.BalanceOf(ctx, l.address)
	if err != nil {
		return nil, err
	}
	received, err := safemath.Sub256(after, before)
	if err != nil {
		return nil, err
	}
	if received.IsZero() {
		return received, nil
	}
	ctx.Log().Info("fees claimed",
		log.Stringer("distro", distro),
		log.Stringer("asset", asset),
		log.Stringer("amount", received),
	)
	return received, assetToken.Transfer(self, to, received)
}

// Delegate sets the manager's voting delegate in space. Operator only.
func (l *LockManager) Delegate(ctx *ledger.Context, registry ids.ShortID, delegate ids.ShortID, space ids.ID) error {
	if err := l.onlyOperator(ctx); err != nil {
		return err
	}
	r, err := ledger.Resolve[DelegateRegistry](ctx, registry)
	if err != nil {
		return err
	}
	return r.SetDelegate(ctx.As(l.address), space, delegate)
}

func (l *LockManager) ClearDelegate(ctx *ledger.Context, registry ids.ShortID, space ids.ID) error {
	if err := l.onlyOperator(ctx); err != nil {
		return err
	}
	r, err := ledger.Resolve[DelegateRegistry](ctx, registry)
	if err != nil {
		return err
	}
	return r.ClearDelegate(ctx.As(l.address), space)
}

// RecoverERC20 sends tokens accidentally held by the manager to to. The
// governance token and the escrow position can never be recovered. Operator
// only.
func (l *LockManager) RecoverERC20(ctx *ledger.Context, asset ids.ShortID, amount *uint256.Int, to ids.ShortID) error {
	if err := l.onlyOperator(ctx); err != nil {
		return err
	}
	if l.protected().Contains(asset) {
		return ErrProtectedAsset
	}
	assetToken, err := ledger.Resolve[token.ERC20](ctx, asset)
	if err != nil {
		return err
	}
	ctx.Log().Info("recovering tokens",
		log.Stringer("asset", asset),
		log.Stringer("amount", amount),
		log.Stringer("to", to),
	)
	return assetToken.Transfer(ctx.As(l.address), to, amount)
}

// MigrateLock withdraws the expired lock and migrates every governance token
// the manager holds through controller, crediting key. Operator only.
func (l *LockManager) MigrateLock(ctx *ledger.Context, controller, key ids.ShortID) (*uint256.Int, error) {
	if err := l.onlyOperator(ctx); err != nil {
		return nil, err
	}
	m, err := ledger.Resolve[Migrator](ctx, controller)
	if err != nil {
		return nil, err
	}
	self := ctx.As(l.address)
	lock, err := l.escrow.Locked(ctx, l.address)
	if err != nil {
		return nil, err
	}
	if !lock.Amount.IsZero() {
		if _, err := l.escrow.Withdraw(self); err != nil {
			return nil, err
		}
	}
	balance, err := l.token.BalanceOf(ctx, l.address)
	if err != nil {
		return nil, err
	}
	if balance.IsZero() {
		return nil, ErrNothingToMigrate
	}
	if err := l.token.Approve(self, controller, balance); err != nil {
		return nil, err
	}
	ctx.Log().Info("migrating lock",
		log.Stringer("controller", controller),
		log.Stringer("key", key),
		log.Stringer("amount", balance),
	)
	return m.Migrate(self, balance, key)
}
