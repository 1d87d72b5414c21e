// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"time"

	"github.com/luxfi/metric"

	"github.com/luxfi/locker/utils/wrappers"

	utilmetric "github.com/luxfi/locker/utils/metric"
)

const (
	opLabel     = "op"
	resultLabel = "result"

	resultCommitted = "committed"
	resultReverted  = "reverted"
)

var opLabels = []string{opLabel, resultLabel}

type ledgerMetrics struct {
	operations metric.CounterVec
	blockTime  metric.Gauge
	// wall-clock time spent in operations, in nanoseconds
	execution utilmetric.Averager
}

func newMetrics(registerer metric.Registerer) (*ledgerMetrics, error) {
	m := &ledgerMetrics{
		operations: metric.NewCounterVec(
			metric.CounterOpts{
				Name: "ledger_operations",
				Help: "number of executed operations by outcome",
			},
			opLabels,
		),
		blockTime: metric.NewGauge(metric.GaugeOpts{
			Name: "ledger_block_time",
			Help: "block timestamp of the last executed operation",
		}),
	}

	errs := wrappers.Errs{}
	m.execution = utilmetric.NewAveragerWithErrs(
		"ledger_execution_duration",
		"time spent executing operations",
		registerer,
		&errs,
	)
	errs.Add(
		registerer.Register(metric.AsCollector(m.operations)),
		registerer.Register(metric.AsCollector(m.blockTime)),
	)
	return m, errs.Err
}

func (m *ledgerMetrics) observe(op string, now uint64, elapsed time.Duration, err error) {
	result := resultCommitted
	if err != nil {
		result = resultReverted
	}
	m.operations.With(metric.Labels{
		opLabel:     op,
		resultLabel: result,
	}).Inc()
	m.blockTime.Set(float64(now))
	m.execution.Observe(float64(elapsed))
}
