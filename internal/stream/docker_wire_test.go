package stream

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dockwatch/dockwatch/internal/domain"
)

const (
	startEventLine = `{"Type":"container","Action":"start","Actor":{"ID":"c1","Attributes":{"name":"web","image":"nginx:latest"}},"time":100,"timeNano":100000000000}`

	statsLine = `{
		"read": "2025-03-01T10:00:01Z",
		"preread": "2025-03-01T10:00:00Z",
		"cpu_stats": {
			"cpu_usage": {"total_usage": 400, "percpu_usage": [250, 150], "usage_in_kernelmode": 120, "usage_in_usermode": 280},
			"system_cpu_usage": 2000,
			"online_cpus": 2
		},
		"precpu_stats": {
			"cpu_usage": {"total_usage": 200},
			"system_cpu_usage": 1000
		},
		"memory_stats": {"usage": 5000, "limit": 10000, "stats": {"cache": 1000}},
		"networks": {
			"eth0": {"rx_bytes": 10, "rx_packets": 1, "tx_bytes": 20, "tx_packets": 2},
			"eth1": {"rx_bytes": 30, "rx_packets": 3, "tx_bytes": 40, "tx_packets": 4}
		},
		"blkio_stats": {"io_service_bytes_recursive": [{"major": 8, "minor": 0, "op": "Read", "value": 7}, {"major": 8, "minor": 0, "op": "Write", "value": 8}]},
		"pids_stats": {"current": 12},
		"id": "c1",
		"name": "/web"
	}`
)

func TestDecodeEventRoundTrip(t *testing.T) {
	ev, err := decodeEvent(startEventLine)
	require.NoError(t, err)

	c, ok := ev.(domain.ContainerEvent)
	require.True(t, ok)
	assert.Equal(t, domain.KindContainer, c.Kind)
	assert.Equal(t, "start", c.Action)
	assert.Equal(t, "c1", c.ActorID)
	assert.Equal(t, "web", c.Name())
	assert.Equal(t, "nginx:latest", c.Image())
	assert.Equal(t, int64(100), c.TimeSec)
	assert.Equal(t, int64(100_000_000_000), c.TimeNano)
}

func TestDecodeEventUnknownKind(t *testing.T) {
	ev, err := decodeEvent(`{"Type":"plugin","Action":"enable","Actor":{"ID":"p1"},"time":5}`)
	require.NoError(t, err)
	assert.IsType(t, domain.UnknownEvent{}, ev)
	assert.Equal(t, "enable", ev.Base().Action)
}

func TestDecodeEventLegacyFields(t *testing.T) {
	// Old daemons report the actor in top-level fields.
	ev, err := decodeEvent(`{"status":"start","id":"c9","Type":"container","Action":"start","time":7}`)
	require.NoError(t, err)
	assert.Equal(t, "c9", ev.Base().ActorID)
}

func TestDecodeEventFailures(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{name: "not json", line: "not json"},
		{name: "wrong json shape", line: `["a","b"]`},
		{name: "missing action", line: `{"Type":"container","Actor":{"ID":"c1"}}`},
		{name: "missing actor id", line: `{"Type":"container","Action":"start"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeEvent(tt.line)
			assert.Error(t, err)
		})
	}
}

func TestDecodeStats(t *testing.T) {
	s, err := decodeStats(statsLine)
	require.NoError(t, err)

	assert.Equal(t, "c1", s.ID)
	assert.Equal(t, "web", s.Name, "leading slash is stripped")
	assert.Equal(t, time.Date(2025, 3, 1, 10, 0, 1, 0, time.UTC), s.Read)
	assert.Equal(t, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), s.PreRead)

	assert.Equal(t, uint64(400), s.CPU.Usage.Total)
	assert.Equal(t, []uint64{250, 150}, s.CPU.Usage.PerCPU)
	assert.Equal(t, uint64(120), s.CPU.Usage.Kernel)
	assert.Equal(t, uint64(280), s.CPU.Usage.User)
	assert.Equal(t, uint64(2000), s.CPU.SystemTotal)
	assert.Equal(t, uint32(2), s.CPU.OnlineCPUs)
	assert.Equal(t, uint64(200), s.PreCPU.Usage.Total)
	assert.Equal(t, uint64(1000), s.PreCPU.SystemTotal)

	assert.Equal(t, uint64(5000), s.Memory.Usage)
	assert.Equal(t, uint64(10000), s.Memory.Limit)
	assert.Equal(t, uint64(1000), s.Memory.Cache())

	require.Len(t, s.Networks, 2)
	assert.Equal(t, uint64(10), s.Networks["eth0"].RxBytes)
	assert.Equal(t, uint64(40), s.Networks["eth1"].TxBytes)

	require.Len(t, s.Blkio, 2)
	assert.Equal(t, domain.BlkioEntry{Op: "Read", Value: 7}, s.Blkio[0])
	assert.Equal(t, domain.BlkioEntry{Op: "Write", Value: 8}, s.Blkio[1])

	assert.Equal(t, uint64(12), s.PIDs)
}

func TestDecodeStatsFailures(t *testing.T) {
	_, err := decodeStats("{nope")
	assert.Error(t, err)

	_, err = decodeStats(`{"id":"c1"}`)
	assert.Error(t, err, "missing read timestamp is a parse failure")
}
