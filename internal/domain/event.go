package domain

import "time"

// Kind identifies which runtime resource an event is about.
type Kind string

const (
	KindContainer Kind = "container"
	KindImage     Kind = "image"
	KindNetwork   Kind = "network"
	KindVolume    Kind = "volume"
	KindUnknown   Kind = "unknown"
)

// KindFrom maps a wire-level type string to a Kind. Anything the daemon
// emits that we do not model (daemon, plugin, service, ...) is KindUnknown.
func KindFrom(s string) Kind {
	switch Kind(s) {
	case KindContainer, KindImage, KindNetwork, KindVolume:
		return Kind(s)
	}
	return KindUnknown
}

// Record holds the fields common to every lifecycle event.
type Record struct {
	Kind       Kind
	Action     string
	ActorID    string
	Attributes map[string]string
	TimeSec    int64
	TimeNano   int64
}

// Timestamp prefers the nanosecond field when it is populated.
func (r Record) Timestamp() time.Time {
	if r.TimeNano != 0 {
		return time.Unix(0, r.TimeNano)
	}
	return time.Unix(r.TimeSec, 0)
}

func (r Record) attribute(key string) string {
	return r.Attributes[key]
}

// Event is the closed set of lifecycle-event variants. The variant is picked
// from Record.Kind by Classify; type-switch on Event to recover it.
type Event interface {
	Base() Record
	sealed()
}

type ContainerEvent struct {
	Record
}

func (e ContainerEvent) Base() Record { return e.Record }
func (e ContainerEvent) sealed()      {}

// Name returns the container name from the actor attributes.
func (e ContainerEvent) Name() string { return e.attribute("name") }

// Image returns the image the container was created from.
func (e ContainerEvent) Image() string { return e.attribute("image") }

type ImageEvent struct {
	Record
}

func (e ImageEvent) Base() Record { return e.Record }
func (e ImageEvent) sealed()      {}

// Name returns the image reference the event is about.
func (e ImageEvent) Name() string { return e.attribute("name") }

type NetworkEvent struct {
	Record
}

func (e NetworkEvent) Base() Record { return e.Record }
func (e NetworkEvent) sealed()      {}

func (e NetworkEvent) Name() string { return e.attribute("name") }

// NetworkType returns the driver type (bridge, overlay, ...).
func (e NetworkEvent) NetworkType() string { return e.attribute("type") }

type VolumeEvent struct {
	Record
}

func (e VolumeEvent) Base() Record { return e.Record }
func (e VolumeEvent) sealed()      {}

func (e VolumeEvent) Driver() string { return e.attribute("driver") }

// UnknownEvent wraps records whose kind we do not model. Kept rather than
// dropped so a caller filtering by action still sees them.
type UnknownEvent struct {
	Record
}

func (e UnknownEvent) Base() Record { return e.Record }
func (e UnknownEvent) sealed()      {}

// Classify wraps a record in the variant matching its kind.
func Classify(r Record) Event {
	switch r.Kind {
	case KindContainer:
		return ContainerEvent{r}
	case KindImage:
		return ImageEvent{r}
	case KindNetwork:
		return NetworkEvent{r}
	case KindVolume:
		return VolumeEvent{r}
	}
	return UnknownEvent{r}
}
