// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ledgertest builds in-memory ledgers for tests.
package ledgertest

import (
	"testing"
	"time"

	"github.com/luxfi/database/memdb"
	"github.com/luxfi/log"
	"github.com/luxfi/metric"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/locker/ledger"
	"github.com/luxfi/locker/utils/timer/mockable"
)

// Genesis is the block time every test ledger starts at.
var Genesis = time.Unix(1_700_000_000, 0)

// New returns an empty ledger backed by memdb whose clock is set to Genesis.
func New(t testing.TB) *ledger.Ledger {
	clk := &mockable.Clock{}
	clk.Set(Genesis)
	l, err := ledger.New(memdb.New(), clk, log.NoLog{}, metric.NewRegistry())
	require.NoError(t, err)
	return l
}

// View runs fn against l and fails the test on error.
func View(t testing.TB, l *ledger.Ledger, fn func(*ledger.Context) error) {
	require.NoError(t, l.View(fn))
}
