// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ledger executes contract operations one at a time against a
// versioned database. An operation either commits every write it made or, on
// error, none of them.
package ledger

import (
	"fmt"
	"sync"
	"time"

	"github.com/luxfi/database"
	"github.com/luxfi/database/versiondb"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/luxfi/metric"

	"github.com/luxfi/locker/utils/timer/mockable"
)

// Ledger serializes operations and owns the deployed-contract registry.
type Ledger struct {
	mu sync.Mutex

	log     log.Logger
	clock   *mockable.Clock
	db      *versiondb.Database
	metrics *ledgerMetrics

	contracts map[ids.ShortID]any
}

// New returns a ledger persisting to db and timestamping operations with clock.
func New(
	db database.Database,
	clock *mockable.Clock,
	logger log.Logger,
	registerer metric.Registerer,
) (*Ledger, error) {
	m, err := newMetrics(registerer)
	if err != nil {
		return nil, fmt.Errorf("failed to register ledger metrics: %w", err)
	}
	return &Ledger{
		log:       logger,
		clock:     clock,
		db:        versiondb.New(db),
		metrics:   m,
		contracts: make(map[ids.ShortID]any),
	}, nil
}

// Clock returns the block clock.
func (l *Ledger) Clock() *mockable.Clock {
	return l.clock
}

// Deploy registers contract at addr. Deployed code is immutable.
func (l *Ledger) Deploy(addr ids.ShortID, contract any) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if addr == ids.ShortEmpty {
		return fmt.Errorf("%w: cannot deploy at the zero address", ErrInvalidParameter)
	}
	if _, ok := l.contracts[addr]; ok {
		return fmt.Errorf("%w: %s", ErrContractExists, addr)
	}
	l.contracts[addr] = contract
	l.log.Debug("deployed contract",
		log.Stringer("address", addr),
		log.String("type", fmt.Sprintf("%T", contract)),
	)
	return nil
}

// Execute runs fn as caller. Writes are committed when fn returns nil and
// discarded otherwise.
func (l *Ledger) Execute(caller ids.ShortID, op string, fn func(*Context) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	start := time.Now()
	ctx := l.newContext(caller)
	err := fn(ctx)
	if err == nil {
		err = l.db.Commit()
	} else {
		l.db.Abort()
	}
	l.metrics.observe(op, ctx.time, time.Since(start), err)
	if err != nil {
		l.log.Debug("operation reverted",
			log.String("op", op),
			log.Stringer("caller", caller),
			log.Err(err),
		)
		return err
	}
	return nil
}

// View runs fn against the current state. Any writes fn makes are discarded.
func (l *Ledger) View(fn func(*Context) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	defer l.db.Abort()
	return fn(l.newContext(ids.ShortEmpty))
}

func (l *Ledger) newContext(caller ids.ShortID) *Context {
	return &Context{
		ledger: l,
		caller: caller,
		time:   l.clock.Unix(),
	}
}
