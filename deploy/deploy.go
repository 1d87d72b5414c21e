// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package deploy creates a locker system on a ledger and wires its
// contracts to each other.
package deploy

import (
	"fmt"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/locker/burner"
	"github.com/luxfi/locker/config"
	"github.com/luxfi/locker/depositor"
	"github.com/luxfi/locker/external/delegation"
	"github.com/luxfi/locker/feerouter"
	"github.com/luxfi/locker/ledger"
	"github.com/luxfi/locker/lockmanager"
	"github.com/luxfi/locker/migration"
	"github.com/luxfi/locker/operator"
	"github.com/luxfi/locker/rewards"
	"github.com/luxfi/locker/token"
)

var ErrMaxLockMismatch = fmt.Errorf("%w: max lock duration differs from the escrow's", ledger.ErrInvalidParameter)

// Externals are the contracts a system plugs into. They must already be
// deployed on the ledger.
type Externals struct {
	Governance token.ERC20
	Escrow     lockmanager.Escrow
	Emissions  feerouter.EmissionAuthority
	// FeeDistro is the fee source the operator may claim from. Optional.
	FeeDistro ids.ShortID
	// Treasury receives the fee share not weighted to staking. Optional.
	Treasury ids.ShortID
}

type System struct {
	Name  string
	Space ids.ID

	Receipt   *token.Receipt
	Proxy     *lockmanager.LockManager
	Depositor *depositor.Depositor
	Operator  *operator.Operator
	Rewards   *rewards.Distributor
	Router    *feerouter.Router
	Burner    *burner.Burner
}

func contractAddress(name, contract string) ids.ShortID {
	return ledger.Address(name + "/" + contract)
}

// Deploy creates the contracts of the system called name, owned by deployer,
// and wires them in a single operation. The contracts stay registered if
// wiring fails, but hold no state.
func Deploy(
	l *ledger.Ledger,
	name string,
	cfg config.Config,
	deployer ids.ShortID,
	ext Externals,
) (*System, error) {
	if err := cfg.Verify(); err != nil {
		return nil, fmt.Errorf("%w: %w", ledger.ErrInvalidParameter, err)
	}
	if maxLock := config.Seconds(cfg.MaxLockDuration); maxLock != ext.Escrow.MaxTime() {
		return nil, fmt.Errorf("%w: %d != %d", ErrMaxLockMismatch, maxLock, ext.Escrow.MaxTime())
	}

	s := &System{
		Name:    name,
		Space:   delegation.Space(cfg.DelegationSpace),
		Receipt: token.NewReceipt(contractAddress(name, "receipt"), "Locked "+name, "l"+name),
		Proxy:   lockmanager.New(contractAddress(name, "lockManager"), ext.Governance, ext.Escrow),
	}
	s.Operator = operator.New(contractAddress(name, "operator"), s.Proxy)
	s.Depositor = depositor.New(contractAddress(name, "depositor"), ext.Governance, s.Receipt, s.Proxy)
	s.Rewards = rewards.New(contractAddress(name, "rewards"), s.Receipt, s.Proxy, config.Seconds(cfg.RewardDuration))
	s.Router = feerouter.New(contractAddress(name, "feeRouter"), ext.Governance, s.Proxy, s.Rewards, ext.Emissions)
	s.Burner = burner.New(contractAddress(name, "burner"), s.Receipt)

	for _, c := range s.contracts() {
		if err := l.Deploy(c.Address(), c); err != nil {
			return nil, err
		}
	}

	err := l.Execute(deployer, "deploy", func(ctx *ledger.Context) error {
		for _, init := range []func(*ledger.Context, ids.ShortID) error{
			s.Receipt.InitOwner,
			s.Proxy.InitOwner,
			s.Depositor.InitOwner,
			s.Operator.InitOwner,
		} {
			if err := init(ctx, deployer); err != nil {
				return err
			}
		}
		return s.wire(ctx, cfg, ext)
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *System) contracts() []interface{ Address() ids.ShortID } {
	return []interface{ Address() ids.ShortID }{
		s.Receipt,
		s.Proxy,
		s.Depositor,
		s.Operator,
		s.Rewards,
		s.Router,
		s.Burner,
	}
}

func (s *System) wire(ctx *ledger.Context, cfg config.Config, ext Externals) error {
	if err := s.Receipt.SetOperators(ctx, s.Depositor.Address(), s.Burner.Address()); err != nil {
		return err
	}
	if err := s.Proxy.SetDepositor(ctx, s.Depositor.Address()); err != nil {
		return err
	}
	if err := s.Proxy.SetOperator(ctx, s.Operator.Address()); err != nil {
		return err
	}
	if err := s.Operator.SetFeeQueue(ctx, s.Router.Address(), true); err != nil {
		return err
	}
	if ext.FeeDistro != ids.ShortEmpty {
		if err := s.Operator.SetFeeDistro(ctx, ext.FeeDistro, true); err != nil {
			return err
		}
	}

	if err := s.Rewards.AddReward(ctx, ext.Governance.Address(), s.Router.Address()); err != nil {
		return err
	}
	if emission := ext.Emissions.Asset(); emission != ext.Governance.Address() {
		if err := s.Rewards.AddReward(ctx, emission, s.Router.Address()); err != nil {
			return err
		}
	}
	if err := s.Router.SetInterval(ctx, config.Seconds(cfg.FeeInterval)); err != nil {
		return err
	}
	if ext.Treasury != ids.ShortEmpty {
		if err := s.Router.SetTreasury(ctx, ext.Treasury); err != nil {
			return err
		}
	}
	if err := s.Depositor.SetPlatformHoldings(ctx, cfg.FeeBps, cfg.Collector); err != nil {
		return err
	}

	ctx.Log().Info("deployed locker",
		log.String("name", s.Name),
		log.Stringer("receipt", s.Receipt.Address()),
		log.Stringer("lockManager", s.Proxy.Address()),
		log.Stringer("operator", s.Operator.Address()),
		log.Stringer("feeRouter", s.Router.Address()),
	)
	return nil
}

// DeployMigration creates a controller converting source into successor
// locks held in destination, owned by deployer. The source token's owner
// must still make the controller a minter before anyone migrates.
func DeployMigration(
	l *ledger.Ledger,
	name string,
	cfg config.Config,
	deployer ids.ShortID,
	source migration.Source,
	successor token.ERC20,
	destination migration.Destination,
) (*migration.Controller, error) {
	if err := cfg.Verify(); err != nil {
		return nil, fmt.Errorf("%w: %w", ledger.ErrInvalidParameter, err)
	}
	c := migration.New(
		contractAddress(name, "migration"),
		source,
		successor,
		destination,
		cfg.ConversionRate,
		config.Seconds(cfg.MinMigrationLockDuration),
	)
	if err := l.Deploy(c.Address(), c); err != nil {
		return nil, err
	}
	err := l.Execute(deployer, "deployMigration", func(ctx *ledger.Context) error {
		return c.InitOwner(ctx, deployer)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}
