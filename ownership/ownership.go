// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ownership implements two-step ownership handoff.
package ownership

import (
	"fmt"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/locker/ledger"
)

var (
	ErrNotOwner        = fmt.Errorf("%w: caller is not the owner", ledger.ErrUnauthorized)
	ErrNotPendingOwner = fmt.Errorf("%w: caller is not the pending owner", ledger.ErrUnauthorized)
	ErrInitialized     = fmt.Errorf("%w: owner already initialized", ledger.ErrInvalidState)
)

// RoleState is the owner and the address, if any, proposed to replace it.
type RoleState struct {
	Owner        ids.ShortID `serialize:"true"`
	PendingOwner ids.ShortID `serialize:"true"`
}

// Propose returns the state after caller proposes pending as the next owner.
func (s RoleState) Propose(caller, pending ids.ShortID) (RoleState, error) {
	if s.Owner == ids.ShortEmpty || caller != s.Owner {
		return s, ErrNotOwner
	}
	s.PendingOwner = pending
	return s, nil
}

// Accept returns the state after caller claims ownership. Only the exact
// pending owner may do so, and promotion clears the pending slot.
func (s RoleState) Accept(caller ids.ShortID) (RoleState, error) {
	if s.PendingOwner == ids.ShortEmpty || caller != s.PendingOwner {
		return s, ErrNotPendingOwner
	}
	return RoleState{Owner: caller}, nil
}

var (
	roleKey        = []byte("role")
	initializedKey = []byte("initialized")
)

// Ownable stores the RoleState of a contract in that contract's storage.
type Ownable struct {
	contract ids.ShortID
}

func NewOwnable(contract ids.ShortID) Ownable {
	return Ownable{contract: contract}
}

func (o Ownable) load(ctx *ledger.Context) (RoleState, error) {
	var s RoleState
	_, err := ctx.Store(o.contract).Get(roleKey, &s)
	return s, err
}

func (o Ownable) store(ctx *ledger.Context, s RoleState) error {
	return ctx.Store(o.contract).Put(roleKey, &s)
}

// InitOwner sets the first owner. It succeeds at most once per contract,
// so a renounced contract stays ownerless.
func (o Ownable) InitOwner(ctx *ledger.Context, owner ids.ShortID) error {
	store := ctx.Store(o.contract)
	initialized, err := store.Bool(initializedKey)
	if err != nil {
		return err
	}
	if initialized {
		return ErrInitialized
	}
	if owner == ids.ShortEmpty {
		return fmt.Errorf("%w: zero owner", ledger.ErrInvalidParameter)
	}
	if err := store.PutBool(initializedKey, true); err != nil {
		return err
	}
	return o.store(ctx, RoleState{Owner: owner})
}

func (o Ownable) Owner(ctx *ledger.Context) (ids.ShortID, error) {
	s, err := o.load(ctx)
	return s.Owner, err
}

func (o Ownable) PendingOwner(ctx *ledger.Context) (ids.ShortID, error) {
	s, err := o.load(ctx)
	return s.PendingOwner, err
}

// OnlyOwner fails unless the caller is the owner.
func (o Ownable) OnlyOwner(ctx *ledger.Context) error {
	s, err := o.load(ctx)
	if err != nil {
		return err
	}
	if s.Owner == ids.ShortEmpty || ctx.Caller() != s.Owner {
		return ErrNotOwner
	}
	return nil
}

func (o Ownable) SetPendingOwner(ctx *ledger.Context, pending ids.ShortID) error {
	s, err := o.load(ctx)
	if err != nil {
		return err
	}
	next, err := s.Propose(ctx.Caller(), pending)
	if err != nil {
		return err
	}
	ctx.Log().Info("pending owner set",
		log.Stringer("contract", o.contract),
		log.Stringer("pendingOwner", pending),
	)
	return o.store(ctx, next)
}

func (o Ownable) AcceptPendingOwner(ctx *ledger.Context) error {
	s, err := o.load(ctx)
	if err != nil {
		return err
	}
	next, err := s.Accept(ctx.Caller())
	if err != nil {
		return err
	}
	ctx.Log().Info("ownership transferred",
		log.Stringer("contract", o.contract),
		log.Stringer("previousOwner", s.Owner),
		log.Stringer("owner", next.Owner),
	)
	return o.store(ctx, next)
}

// Renounce clears the owner. Owner-gated operations become unreachable.
func (o Ownable) Renounce(ctx *ledger.Context) error {
	if err := o.OnlyOwner(ctx); err != nil {
		return err
	}
	return o.store(ctx, RoleState{})
}
