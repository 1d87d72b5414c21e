// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utilmetric

import (
	"github.com/luxfi/metric"

	"github.com/luxfi/locker/utils/wrappers"
)

// Averager tracks the count and sum of observations so that their mean can
// be derived by the metrics consumer.
type Averager interface {
	Observe(float64)
}

type averager struct {
	count metric.Counter
	sum   metric.Gauge
}

func NewAverager(name, desc string, registerer metric.Registerer) (Averager, error) {
	errs := wrappers.Errs{}
	a := NewAveragerWithErrs(name, desc, registerer, &errs)
	return a, errs.Err
}

func NewAveragerWithErrs(name, desc string, registerer metric.Registerer, errs *wrappers.Errs) Averager {
	a := averager{
		count: metric.NewCounter(metric.CounterOpts{
			Name: AppendNamespace(name, "count"),
			Help: "Total # of observations of " + desc,
		}),
		sum: metric.NewGauge(metric.GaugeOpts{
			Name: AppendNamespace(name, "sum"),
			Help: "Sum of " + desc,
		}),
	}
	errs.Add(
		registerer.Register(metric.AsCollector(a.count)),
		registerer.Register(metric.AsCollector(a.sum)),
	)
	return &a
}

func (a *averager) Observe(v float64) {
	a.count.Inc()
	a.sum.Add(v)
}

// AppendNamespace joins a namespace and a name with an underscore, skipping
// an empty namespace.
func AppendNamespace(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "_" + name
}
