package domain

import "time"

// Blkio operation names as the daemon reports them.
const (
	BlkioRead  = "Read"
	BlkioWrite = "Write"
)

// CPUUsage is the cumulative CPU time consumed by one subject, in nanoseconds.
type CPUUsage struct {
	Total  uint64
	Kernel uint64
	User   uint64
	PerCPU []uint64
}

// CPUSnapshot pairs a subject's cumulative usage with the host-wide counter
// read at the same moment, which the percentage math divides by.
type CPUSnapshot struct {
	Usage       CPUUsage
	SystemTotal uint64
	OnlineCPUs  uint32
}

type MemorySnapshot struct {
	Usage uint64
	Limit uint64
	Stats map[string]uint64
}

// Cache returns the page-cache portion of usage, 0 when the kernel did not
// report one.
func (m MemorySnapshot) Cache() uint64 {
	return m.Stats["cache"]
}

type NetworkCounters struct {
	RxBytes   uint64
	RxPackets uint64
	TxBytes   uint64
	TxPackets uint64
}

type BlkioEntry struct {
	Op    string
	Value uint64
}

// StatsSample is one point-in-time usage snapshot for one monitored subject.
// The daemon embeds the previous reading (PreCPU, PreRead) in every snapshot,
// so a single sample is enough for delta math. Samples are never mutated
// after construction.
type StatsSample struct {
	ID       string
	Name     string
	Read     time.Time
	PreRead  time.Time
	CPU      CPUSnapshot
	PreCPU   CPUSnapshot
	Memory   MemorySnapshot
	Networks map[string]NetworkCounters
	Blkio    []BlkioEntry
	PIDs     uint64
}
