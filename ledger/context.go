// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"fmt"

	"github.com/luxfi/database/prefixdb"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"
)

// Context is the execution frame of a single operation.
type Context struct {
	ledger *Ledger
	caller ids.ShortID
	time   uint64
}

// Caller is the account or contract that invoked the current frame.
func (c *Context) Caller() ids.ShortID {
	return c.caller
}

// Time is the block timestamp, fixed for the whole operation.
func (c *Context) Time() uint64 {
	return c.time
}

func (c *Context) Log() log.Logger {
	return c.ledger.log
}

// As returns the frame a contract uses to call another contract: the callee
// sees addr as its caller.
func (c *Context) As(addr ids.ShortID) *Context {
	return &Context{
		ledger: c.ledger,
		caller: addr,
		time:   c.time,
	}
}

// Store returns the storage namespace of contract.
func (c *Context) Store(contract ids.ShortID) *Store {
	return &Store{
		db: prefixdb.New(contract[:], c.ledger.db),
	}
}

// Contract returns the contract deployed at addr.
func (c *Context) Contract(addr ids.ShortID) (any, bool) {
	contract, ok := c.ledger.contracts[addr]
	return contract, ok
}

// IsContract reports whether code is deployed at addr.
func (c *Context) IsContract(addr ids.ShortID) bool {
	_, ok := c.ledger.contracts[addr]
	return ok
}

// Resolve returns the contract deployed at addr as a T.
func Resolve[T any](c *Context, addr ids.ShortID) (T, error) {
	var zero T
	contract, ok := c.Contract(addr)
	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrUnknownContract, addr)
	}
	typed, ok := contract.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s is %T", ErrUnknownContract, addr, contract)
	}
	return typed, nil
}
