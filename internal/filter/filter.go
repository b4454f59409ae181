// Package filter builds the argument list for the daemon CLI's event stream.
// A Filter is accumulated incrementally and frozen into arguments once a
// stream starts; the output is fully ordered so a given filter always
// reproduces the same invocation.
package filter

import (
	"strconv"
	"time"

	"github.com/dockwatch/dockwatch/internal/domain"
	"github.com/dockwatch/dockwatch/internal/util"
)

type Filter struct {
	kinds      map[string]struct{}
	containers map[string]struct{}
	images     map[string]struct{}
	networks   map[string]struct{}
	volumes    map[string]struct{}
	actions    map[string]struct{}
	labels     map[string]*string
	since      *time.Time
	until      *time.Time
}

func New() *Filter {
	return &Filter{
		kinds:      make(map[string]struct{}),
		containers: make(map[string]struct{}),
		images:     make(map[string]struct{}),
		networks:   make(map[string]struct{}),
		volumes:    make(map[string]struct{}),
		actions:    make(map[string]struct{}),
		labels:     make(map[string]*string),
	}
}

// Kinds restricts the stream to the given resource kinds. Adding the same
// kind twice is a no-op, as with every accumulator below.
func (f *Filter) Kinds(kinds ...domain.Kind) *Filter {
	for _, k := range kinds {
		f.kinds[string(k)] = struct{}{}
	}
	return f
}

func (f *Filter) Containers(ids ...string) *Filter {
	for _, id := range ids {
		f.containers[id] = struct{}{}
	}
	return f
}

func (f *Filter) Images(refs ...string) *Filter {
	for _, ref := range refs {
		f.images[ref] = struct{}{}
	}
	return f
}

func (f *Filter) Networks(ids ...string) *Filter {
	for _, id := range ids {
		f.networks[id] = struct{}{}
	}
	return f
}

func (f *Filter) Volumes(names ...string) *Filter {
	for _, name := range names {
		f.volumes[name] = struct{}{}
	}
	return f
}

func (f *Filter) Actions(actions ...string) *Filter {
	for _, a := range actions {
		f.actions[a] = struct{}{}
	}
	return f
}

// Label matches containers carrying the label key, regardless of value.
func (f *Filter) Label(key string) *Filter {
	f.labels[key] = nil
	return f
}

// LabelValue matches containers whose label key has exactly the given value.
func (f *Filter) LabelValue(key, value string) *Filter {
	f.labels[key] = &value
	return f
}

func (f *Filter) Since(t time.Time) *Filter {
	f.since = &t
	return f
}

func (f *Filter) Until(t time.Time) *Filter {
	f.until = &t
	return f
}

// Args freezes the filter into the CLI argument list. Output format is
// always line-delimited JSON. Filter keys are emitted in a fixed order and
// values sorted within each key, so the same filter yields the same argv.
func (f *Filter) Args() []string {
	args := []string{"--format", "json"}
	args = appendSet(args, "type", f.kinds)
	args = appendSet(args, "container", f.containers)
	args = appendSet(args, "image", f.images)
	args = appendSet(args, "network", f.networks)
	args = appendSet(args, "volume", f.volumes)
	args = appendSet(args, "event", f.actions)
	for _, key := range util.SortedKeys(f.labels) {
		pair := "label=" + key
		if value := f.labels[key]; value != nil {
			pair += "=" + *value
		}
		args = append(args, "--filter", pair)
	}
	if f.since != nil {
		args = append(args, "--since", strconv.FormatInt(f.since.Unix(), 10))
	}
	if f.until != nil {
		args = append(args, "--until", strconv.FormatInt(f.until.Unix(), 10))
	}
	return args
}

func appendSet(args []string, key string, set map[string]struct{}) []string {
	for _, value := range util.SortedKeys(set) {
		args = append(args, "--filter", key+"="+value)
	}
	return args
}
