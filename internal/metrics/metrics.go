// Package metrics derives point-in-time and windowed-aggregate numbers from
// resource-usage snapshots. The derivation functions are pure; Aggregator
// adds bounded history on top of them.
package metrics

import (
	"strings"

	"github.com/dockwatch/dockwatch/internal/domain"
)

// CPUPercent computes CPU usage from the previous reading embedded in the
// sample itself, which is how the daemon intends single snapshots to be read.
func CPUPercent(s domain.StatsSample) float64 {
	return cpuPercent(s.PreCPU, s.CPU)
}

// CPUPercentBetween computes CPU usage across two independently pulled
// samples of the same subject. A counter that went backwards (subject
// restarted) yields 0, never a negative percentage.
func CPUPercentBetween(prev, curr domain.StatsSample) float64 {
	return cpuPercent(prev.CPU, curr.CPU)
}

func cpuPercent(prev, curr domain.CPUSnapshot) float64 {
	if curr.Usage.Total <= prev.Usage.Total || curr.SystemTotal <= prev.SystemTotal {
		return 0
	}
	cpuDelta := float64(curr.Usage.Total - prev.Usage.Total)
	sysDelta := float64(curr.SystemTotal - prev.SystemTotal)
	return cpuDelta / sysDelta * float64(onlineCPUs(curr)) * 100
}

func onlineCPUs(c domain.CPUSnapshot) int {
	if c.OnlineCPUs > 0 {
		return int(c.OnlineCPUs)
	}
	if n := len(c.Usage.PerCPU); n > 0 {
		return n
	}
	return 1
}

// MemoryUsedBytes is usage minus the page cache, floored at 0.
func MemoryUsedBytes(s domain.StatsSample) uint64 {
	cache := s.Memory.Cache()
	if cache > s.Memory.Usage {
		return 0
	}
	return s.Memory.Usage - cache
}

// MemoryPercent is used memory over the limit; 0 when no limit is set.
func MemoryPercent(s domain.StatsSample) float64 {
	if s.Memory.Limit == 0 {
		return 0
	}
	return float64(MemoryUsedBytes(s)) / float64(s.Memory.Limit) * 100
}

// NetworkRxBytes sums received bytes across all interfaces.
func NetworkRxBytes(s domain.StatsSample) uint64 {
	var total uint64
	for _, n := range s.Networks {
		total += n.RxBytes
	}
	return total
}

// NetworkTxBytes sums transmitted bytes across all interfaces.
func NetworkTxBytes(s domain.StatsSample) uint64 {
	var total uint64
	for _, n := range s.Networks {
		total += n.TxBytes
	}
	return total
}

// BlkioBytes sums block-I/O bytes for one operation, domain.BlkioRead or
// domain.BlkioWrite. Case-insensitive because cgroup v1 and v2 kernels
// disagree on capitalization.
func BlkioBytes(s domain.StatsSample, op string) uint64 {
	var total uint64
	for _, e := range s.Blkio {
		if strings.EqualFold(e.Op, op) {
			total += e.Value
		}
	}
	return total
}

// Metric selects one number out of a sample for aggregation.
type Metric func(domain.StatsSample) float64

var (
	MetricCPUPercent    Metric = CPUPercent
	MetricMemoryPercent Metric = MemoryPercent

	MetricMemoryUsed Metric = func(s domain.StatsSample) float64 { return float64(MemoryUsedBytes(s)) }
	MetricNetworkRx  Metric = func(s domain.StatsSample) float64 { return float64(NetworkRxBytes(s)) }
	MetricNetworkTx  Metric = func(s domain.StatsSample) float64 { return float64(NetworkTxBytes(s)) }
	MetricBlkioRead  Metric = func(s domain.StatsSample) float64 { return float64(BlkioBytes(s, domain.BlkioRead)) }
	MetricBlkioWrite Metric = func(s domain.StatsSample) float64 { return float64(BlkioBytes(s, domain.BlkioWrite)) }
)
