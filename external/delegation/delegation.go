// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package delegation implements a vote-delegation registry keyed by voting
// space.
package delegation

import (
	"fmt"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/locker/ledger"
)

var (
	delegatePrefix = []byte("delegate")

	ErrSelfDelegation = fmt.Errorf("%w: can't delegate to self", ledger.ErrInvalidParameter)
	ErrZeroDelegate   = fmt.Errorf("%w: can't delegate to the zero address", ledger.ErrInvalidParameter)
	ErrAlreadySet     = fmt.Errorf("%w: already delegated to this address", ledger.ErrInvalidState)
	ErrNotDelegated   = fmt.Errorf("%w: no delegate set", ledger.ErrInvalidState)
)

// Space encodes a space name the way the registry keys it: the name's bytes,
// left aligned and zero padded.
func Space(name string) ids.ID {
	var space ids.ID
	copy(space[:], name)
	return space
}

type Registry struct {
	address ids.ShortID
}

func New(address ids.ShortID) *Registry {
	return &Registry{address: address}
}

func (r *Registry) Address() ids.ShortID {
	return r.address
}

func key(delegator ids.ShortID, space ids.ID) []byte {
	return ledger.Key(delegatePrefix, delegator[:], space[:])
}

// Delegation returns who delegator delegates to in space.
func (r *Registry) Delegation(ctx *ledger.Context, delegator ids.ShortID, space ids.ID) (ids.ShortID, error) {
	return ctx.Store(r.address).Address(key(delegator, space))
}

// SetDelegate delegates the caller's votes in space.
func (r *Registry) SetDelegate(ctx *ledger.Context, space ids.ID, delegate ids.ShortID) error {
	caller := ctx.Caller()
	switch {
	case delegate == caller:
		return ErrSelfDelegation
	case delegate == ids.ShortEmpty:
		return ErrZeroDelegate
	}
	current, err := r.Delegation(ctx, caller, space)
	if err != nil {
		return err
	}
	if current == delegate {
		return ErrAlreadySet
	}
	ctx.Log().Info("delegate set",
		log.Stringer("delegator", caller),
		log.Stringer("space", space),
		log.Stringer("delegate", delegate),
	)
	return ctx.Store(r.address).PutAddress(key(caller, space), delegate)
}

func (r *Registry) ClearDelegate(ctx *ledger.Context, space ids.ID) error {
	caller := ctx.Caller()
	current, err := r.Delegation(ctx, caller, space)
	if err != nil {
		return err
	}
	if current == ids.ShortEmpty {
		return ErrNotDelegated
	}
	return ctx.Store(r.address).PutAddress(key(caller, space), ids.ShortEmpty)
}
