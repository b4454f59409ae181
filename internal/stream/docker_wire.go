package stream

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/events"

	"github.com/dockwatch/dockwatch/internal/domain"
)

// Decoding of the CLI's line-delimited JSON lives here and nowhere else.
// Event lines carry an events.Message, stats lines a container.StatsResponse;
// both are converted to domain types immediately and the wire structs are
// never retained.

func decodeEvent(line string) (domain.Event, error) {
	var msg events.Message
	if err := json.Unmarshal([]byte(line), &msg); err != nil {
		return nil, err
	}
	// Old daemons populate the legacy top-level fields instead of Actor.
	if msg.Actor.ID == "" {
		msg.Actor.ID = msg.ID
	}
	if msg.Action == "" {
		return nil, errors.New("event missing action")
	}
	if msg.Actor.ID == "" {
		return nil, errors.New("event missing actor id")
	}
	return domain.Classify(domain.Record{
		Kind:       domain.KindFrom(string(msg.Type)),
		Action:     string(msg.Action),
		ActorID:    msg.Actor.ID,
		Attributes: msg.Actor.Attributes,
		TimeSec:    msg.Time,
		TimeNano:   msg.TimeNano,
	}), nil
}

func decodeStats(line string) (domain.StatsSample, error) {
	var raw container.StatsResponse
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return domain.StatsSample{}, err
	}
	if raw.Read.IsZero() {
		return domain.StatsSample{}, errors.New("stats snapshot missing read timestamp")
	}

	sample := domain.StatsSample{
		ID:      raw.ID,
		Name:    strings.TrimPrefix(raw.Name, "/"),
		Read:    raw.Read,
		PreRead: raw.PreRead,
		CPU:     fromCPUStats(raw.CPUStats),
		PreCPU:  fromCPUStats(raw.PreCPUStats),
		Memory: domain.MemorySnapshot{
			Usage: raw.MemoryStats.Usage,
			Limit: raw.MemoryStats.Limit,
			Stats: raw.MemoryStats.Stats,
		},
		PIDs: raw.PidsStats.Current,
	}

	if len(raw.Networks) > 0 {
		sample.Networks = make(map[string]domain.NetworkCounters, len(raw.Networks))
		for name, n := range raw.Networks {
			sample.Networks[name] = domain.NetworkCounters{
				RxBytes:   n.RxBytes,
				RxPackets: n.RxPackets,
				TxBytes:   n.TxBytes,
				TxPackets: n.TxPackets,
			}
		}
	}

	if entries := raw.BlkioStats.IoServiceBytesRecursive; len(entries) > 0 {
		sample.Blkio = make([]domain.BlkioEntry, 0, len(entries))
		for _, e := range entries {
			sample.Blkio = append(sample.Blkio, domain.BlkioEntry{Op: e.Op, Value: e.Value})
		}
	}

	return sample, nil
}

func fromCPUStats(c container.CPUStats) domain.CPUSnapshot {
	return domain.CPUSnapshot{
		Usage: domain.CPUUsage{
			Total:  c.CPUUsage.TotalUsage,
			Kernel: c.CPUUsage.UsageInKernelmode,
			User:   c.CPUUsage.UsageInUsermode,
			PerCPU: c.CPUUsage.PercpuUsage,
		},
		SystemTotal: c.SystemUsage,
		OnlineCPUs:  c.OnlineCPUs,
	}
}
