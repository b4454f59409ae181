package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		kind     Kind
		expected any
	}{
		{name: "container", kind: KindContainer, expected: ContainerEvent{}},
		{name: "image", kind: KindImage, expected: ImageEvent{}},
		{name: "network", kind: KindNetwork, expected: NetworkEvent{}},
		{name: "volume", kind: KindVolume, expected: VolumeEvent{}},
		{name: "unknown", kind: KindUnknown, expected: UnknownEvent{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := Classify(Record{Kind: tt.kind, Action: "create", ActorID: "x"})
			assert.IsType(t, tt.expected, ev)
			assert.Equal(t, tt.kind, ev.Base().Kind)
		})
	}
}

func TestKindFrom(t *testing.T) {
	assert.Equal(t, KindContainer, KindFrom("container"))
	assert.Equal(t, KindVolume, KindFrom("volume"))
	// Kinds we do not model map to unknown instead of failing.
	assert.Equal(t, KindUnknown, KindFrom("plugin"))
	assert.Equal(t, KindUnknown, KindFrom(""))
}

func TestContainerEventAccessors(t *testing.T) {
	ev := Classify(Record{
		Kind:    KindContainer,
		Action:  "start",
		ActorID: "c1",
		Attributes: map[string]string{
			"name":  "web",
			"image": "nginx:latest",
		},
	})
	c, ok := ev.(ContainerEvent)
	require.True(t, ok)
	assert.Equal(t, "web", c.Name())
	assert.Equal(t, "nginx:latest", c.Image())
}

func TestRecordTimestamp(t *testing.T) {
	withNanos := Record{TimeSec: 100, TimeNano: 100_000_000_000}
	assert.Equal(t, time.Unix(0, 100_000_000_000), withNanos.Timestamp())

	secondsOnly := Record{TimeSec: 100}
	assert.Equal(t, time.Unix(100, 0), secondsOnly.Timestamp())
}
