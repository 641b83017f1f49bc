// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package txpool

import "github.com/ethereum/go-ethereum/metrics"

// MetricsSystem is the pool's narrow view of the metrics it emits. The
// default implementation backs it with github.com/ethereum/go-ethereum/metrics;
// callers that already run a metrics registry of their own can supply a
// different implementation instead.
type MetricsSystem interface {
	// Counted increments the counter for a transaction crossing the given
	// pool boundary. reason is empty for admission (Added) and one of the
	// DropReason strings for removal.
	Counted(local bool, reason string)
	// Gauge reports the current size of one of the pool's tracked sets.
	Gauge(name string, value int64)
}

// sourceLocal and sourceRemote name this pool's two admission sources,
// used as the suffixes of the admission counter names.
const (
	sourceLocal  = "local"
	sourceRemote = "remote"
)

type goEthereumMetrics struct {
	added   map[bool]metrics.Counter
	dropped map[string]metrics.Counter
	gauges  map[string]metrics.Gauge
}

// NewMetricsSystem builds the default MetricsSystem, registering its
// counters and gauges under the go-ethereum/metrics default registry.
// Admission counters are kept per source (local or remote); removal
// counters are kept per DropReason only and do not separate local from
// remote transactions.
func NewMetricsSystem() MetricsSystem {
	m := &goEthereumMetrics{
		added: map[bool]metrics.Counter{
			true:  metrics.GetOrRegisterCounter("txpool/added/"+sourceLocal, nil),
			false: metrics.GetOrRegisterCounter("txpool/added/"+sourceRemote, nil),
		},
		dropped: map[string]metrics.Counter{
			DropReasonAddedToBlock.String():    metrics.GetOrRegisterCounter("txpool/dropped/added_to_block", nil),
			DropReasonInvalidated.String():     metrics.GetOrRegisterCounter("txpool/dropped/invalidated", nil),
			DropReasonEvictedOverflow.String(): metrics.GetOrRegisterCounter("txpool/dropped/evicted_overflow", nil),
			DropReasonReplaced.String():        metrics.GetOrRegisterCounter("txpool/dropped/replaced", nil),
		},
		gauges: map[string]metrics.Gauge{
			"static":  metrics.GetOrRegisterGauge("txpool/size/static", nil),
			"dynamic": metrics.GetOrRegisterGauge("txpool/size/dynamic", nil),
			"total":   metrics.GetOrRegisterGauge("txpool/size/total", nil),
			"senders": metrics.GetOrRegisterGauge("txpool/size/senders", nil),
		},
	}
	return m
}

func (m *goEthereumMetrics) Counted(local bool, reason string) {
	if reason == "" {
		m.added[local].Inc(1)
		return
	}
	if c, ok := m.dropped[reason]; ok {
		c.Inc(1)
	}
}

func (m *goEthereumMetrics) Gauge(name string, value int64) {
	if g, ok := m.gauges[name]; ok {
		g.Update(value)
	}
}

// noopMetrics discards everything; used as PriorityMempool's default so a
// caller never needs a metrics registry to construct a pool in tests.
type noopMetrics struct{}

func (noopMetrics) Counted(bool, string) {}
func (noopMetrics) Gauge(string, int64)  {}
