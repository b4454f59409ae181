package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dockwatch/dockwatch/internal/domain"
	"github.com/dockwatch/dockwatch/internal/filter"
	"github.com/dockwatch/dockwatch/internal/stream"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Stream lifecycle events as JSON lines",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, log, opts := setup(cmd)

		f, err := eventFilterFromFlags(cmd)
		if err != nil {
			return err
		}

		ctx, cancel := signalContext(cmd.Context(), log)
		defer cancel()

		s, err := stream.Events(ctx, f, opts)
		if err != nil {
			return fmt.Errorf("opening event stream: %w", err)
		}
		defer s.Close()

		enc := json.NewEncoder(cmd.OutOrStdout())
		for {
			ev, err := s.Next(ctx)
			switch {
			case err == nil:
				if encErr := enc.Encode(printableEvent(ev)); encErr != nil {
					return encErr
				}
			case errors.Is(err, stream.ErrStreamEnded), errors.Is(err, context.Canceled):
				return nil
			default:
				var perr *stream.ParseError
				if errors.As(err, &perr) {
					continue
				}
				return err
			}
		}
	},
}

type eventOutput struct {
	Kind       string            `json:"kind"`
	Action     string            `json:"action"`
	ID         string            `json:"id"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Time       time.Time         `json:"time"`
}

func printableEvent(ev domain.Event) eventOutput {
	base := ev.Base()
	return eventOutput{
		Kind:       string(base.Kind),
		Action:     base.Action,
		ID:         base.ActorID,
		Attributes: base.Attributes,
		Time:       base.Timestamp(),
	}
}

func eventFilterFromFlags(cmd *cobra.Command) (*filter.Filter, error) {
	f := filter.New()

	kinds, _ := cmd.Flags().GetStringSlice("type")
	for _, k := range kinds {
		f.Kinds(domain.KindFrom(k))
	}
	containers, _ := cmd.Flags().GetStringSlice("container")
	f.Containers(containers...)
	images, _ := cmd.Flags().GetStringSlice("image")
	f.Images(images...)
	networks, _ := cmd.Flags().GetStringSlice("network")
	f.Networks(networks...)
	volumes, _ := cmd.Flags().GetStringSlice("volume")
	f.Volumes(volumes...)
	actions, _ := cmd.Flags().GetStringSlice("action")
	f.Actions(actions...)

	labels, _ := cmd.Flags().GetStringSlice("label")
	for _, l := range labels {
		if key, value, found := strings.Cut(l, "="); found {
			f.LabelValue(key, value)
		} else {
			f.Label(key)
		}
	}

	if since, _ := cmd.Flags().GetString("since"); since != "" {
		t, err := parseTimeFlag(since)
		if err != nil {
			return nil, fmt.Errorf("invalid --since: %w", err)
		}
		f.Since(t)
	}
	if until, _ := cmd.Flags().GetString("until"); until != "" {
		t, err := parseTimeFlag(until)
		if err != nil {
			return nil, fmt.Errorf("invalid --until: %w", err)
		}
		f.Until(t)
	}

	return f, nil
}

// parseTimeFlag accepts unix seconds or RFC3339.
func parseTimeFlag(s string) (time.Time, error) {
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0), nil
	}
	return time.Parse(time.RFC3339, s)
}

func init() {
	eventsCmd.Flags().StringSlice("type", nil, "restrict to resource kinds (container, image, network, volume)")
	eventsCmd.Flags().StringSlice("container", nil, "restrict to container IDs or names")
	eventsCmd.Flags().StringSlice("image", nil, "restrict to image references")
	eventsCmd.Flags().StringSlice("network", nil, "restrict to network IDs")
	eventsCmd.Flags().StringSlice("volume", nil, "restrict to volume names")
	eventsCmd.Flags().StringSlice("action", nil, "restrict to actions (start, stop, die, ...)")
	eventsCmd.Flags().StringSlice("label", nil, "restrict to labels, key or key=value")
	eventsCmd.Flags().String("since", "", "only events after this time (unix seconds or RFC3339)")
	eventsCmd.Flags().String("until", "", "only events before this time (unix seconds or RFC3339)")
	rootCmd.AddCommand(eventsCmd)
}
