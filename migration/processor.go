// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package migration

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/locker/ledger"
	"github.com/luxfi/locker/token"
)

var ErrNotController = fmt.Errorf("%w: caller is not the migration controller", ledger.ErrUnauthorized)

// Depositor is the successor deployment's deposit entrypoint.
type Depositor interface {
	Address() ids.ShortID
	Deposit(ctx *ledger.Context, amount *uint256.Int, lock bool) (*uint256.Int, error)
}

var _ Processor = (*DepositorProcessor)(nil)

// DepositorProcessor completes migrations into a successor locker: the
// converted tokens are deposited and locked, and the minted receipts go to
// the migrating account.
type DepositorProcessor struct {
	address    ids.ShortID
	controller ids.ShortID
	successor  token.ERC20
	depositor  Depositor
	receipt    token.ERC20
}

func NewDepositorProcessor(
	address ids.ShortID,
	controller ids.ShortID,
	successor token.ERC20,
	depositor Depositor,
	receipt token.ERC20,
) *DepositorProcessor {
	return &DepositorProcessor{
		address:    address,
		controller: controller,
		successor:  successor,
		depositor:  depositor,
		receipt:    receipt,
	}
}

func (p *DepositorProcessor) Address() ids.ShortID {
	return p.address
}

// Process deposits amount, which the controller has already transferred in,
// and forwards the receipts to recipient.
func (p *DepositorProcessor) Process(ctx *ledger.Context, recipient ids.ShortID, amount *uint256.Int) error {
	if ctx.Caller() != p.controller {
		return ErrNotController
	}
	self := ctx.As(p.address)
	if err := p.successor.Approve(self, p.depositor.Address(), amount); err != nil {
		return err
	}
	minted, err := p.depositor.Deposit(self, amount, true)
	if err != nil {
		return err
	}
	if err := p.receipt.Transfer(self, recipient, minted); err != nil {
		return err
	}
	ctx.Log().Debug("migration processed",
		log.Stringer("recipient", recipient),
		log.Stringer("amount", amount),
		log.Stringer("receipts", minted),
	)
	return nil
}
