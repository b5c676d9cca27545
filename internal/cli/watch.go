package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/teslashibe/go-motion/pkg/control"
	"github.com/teslashibe/go-motion/pkg/protocol"
	"github.com/teslashibe/go-motion/pkg/web"
)

var watchURL string

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVar(&watchURL, "url", "ws://localhost:8090/ws/status", "dashboard websocket URL")
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow a running control loop's dashboard stream",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		err := web.Watch(cmd.Context(), watchURL, func(msg *protocol.Message) error {
			if jsonOutput {
				return writeJSON(out, msg)
			}
			return printMessage(out, msg)
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func printMessage(out io.Writer, msg *protocol.Message) error {
	switch msg.Type {
	case protocol.TypeTelemetry:
		var t control.Telemetry
		if err := msg.ParseData(&t); err != nil {
			return err
		}
		state := ""
		for _, e := range t.Executors {
			if e.Selected {
				state = fmt.Sprintf(" %s frame %d/%d", e.State, e.Frame, e.Frames)
			}
		}
		_, err := fmt.Fprintf(out, "cycle %-8d %-18s %-16s%s\n", t.Cycle, t.FallState, t.Motion, state)
		return err

	case protocol.TypeEvent:
		var ev control.Event
		if err := msg.ParseData(&ev); err != nil {
			return err
		}
		_, err := fmt.Fprintf(out, "event %-8d %s %s (%s)\n", ev.Cycle, ev.Motion, ev.Type, ev.PlaybackID)
		return err

	case protocol.TypeFallState:
		var data protocol.FallStateData
		if err := msg.ParseData(&data); err != nil {
			return err
		}
		if data.FallState == "" {
			_, err := fmt.Fprintln(out, "fall state override cleared")
			return err
		}
		_, err := fmt.Fprintf(out, "fall state override: %s\n", data.FallState)
		return err
	}
	return nil
}
