package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dockwatch/dockwatch/internal/domain"
	"github.com/dockwatch/dockwatch/internal/filter"
	"github.com/dockwatch/dockwatch/internal/stream"
)

var waitCmd = &cobra.Command{
	Use:   "wait <container> <action>",
	Short: "Block until a container reports an action",
	Long:  "Blocks until the given container emits the given lifecycle action (e.g. start, die), then prints the matching event. Exits nonzero on timeout.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, log, opts := setup(cmd)
		id, action := args[0], args[1]
		timeout, _ := cmd.Flags().GetDuration("timeout")

		ctx, cancel := signalContext(cmd.Context(), log)
		defer cancel()

		f := filter.New().
			Kinds(domain.KindContainer).
			Containers(id).
			Actions(action)

		s, err := stream.Events(ctx, f, opts)
		if err != nil {
			return fmt.Errorf("opening event stream: %w", err)
		}
		defer s.Close()

		ev, err := stream.WaitForContainer(s, id, action, timeout)
		switch {
		case err == nil:
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s at %s\n", ev.Name(), ev.Action, ev.Timestamp().Format(time.RFC3339))
			return nil
		case errors.Is(err, stream.ErrWaitTimeout):
			return fmt.Errorf("container %s did not report %q within %s", id, action, timeout)
		case errors.Is(err, stream.ErrStreamEnded):
			return fmt.Errorf("event stream ended before container %s reported %q", id, action)
		default:
			return err
		}
	},
}

func init() {
	waitCmd.Flags().Duration("timeout", 30*time.Second, "how long to wait for the matching event")
	rootCmd.AddCommand(waitCmd)
}
