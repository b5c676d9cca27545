package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/teslashibe/go-motion/pkg/condition"
	"github.com/teslashibe/go-motion/pkg/joints"
	"github.com/teslashibe/go-motion/pkg/motion"
	"github.com/teslashibe/go-motion/pkg/motionfile"
)

var (
	playFile      string
	playStep      time.Duration
	playMax       time.Duration
	playGyro      float64
	playNoContact bool
	playEvery     int
)

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().StringVarP(&playFile, "file", "f", "", "play a motion file instead of a named motion")
	playCmd.Flags().DurationVar(&playStep, "step", 12*time.Millisecond, "simulated cycle duration")
	playCmd.Flags().DurationVar(&playMax, "max", time.Minute, "stop after this much simulated time")
	playCmd.Flags().Float64Var(&playGyro, "gyro", 0, "constant filtered angular velocity (rad/s)")
	playCmd.Flags().BoolVar(&playNoContact, "no-contact", false, "report the feet as unloaded")
	playCmd.Flags().IntVar(&playEvery, "every", 10, "print every Nth cycle")
}

var playCmd = &cobra.Command{
	Use:   "play [motion]",
	Short: "Replay a motion offline with synthetic cycles",
	Long: `Replay a motion through the playback state machine with a fixed cycle
duration and constant sensor input, printing the state and pose as it
goes. Nothing is sent to a robot.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		interp, err := playInterpolator(args)
		if err != nil {
			return err
		}
		if playStep <= 0 {
			return fmt.Errorf("--step must be positive")
		}

		input := condition.Input{
			FilteredAngularVelocity: condition.Vector3{X: playGyro},
			GroundContact:           !playNoContact,
		}
		samples := playback(interp, playStep, playMax, input)

		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), samples)
		}
		return writeSamples(cmd.OutOrStdout(), samples, playEvery)
	},
}

func playInterpolator(args []string) (*motion.Interpolator[joints.Joints], error) {
	if playFile != "" {
		mf, err := motionfile.FromPath[joints.Joints](playFile)
		if err != nil {
			return nil, err
		}
		mf.DefaultStabilizedTolerance(cfg.Motions.StabilizedTolerance)
		return motion.FromMotionFile(mf)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("name a motion or pass --file")
	}

	lib, err := loadLibrary(cfg.Motions.Dir, cfg.Motions.StabilizedTolerance)
	if err != nil {
		return nil, err
	}
	return lib.interpolator(args[0])
}

// sample is the playback state after one cycle.
type sample struct {
	Cycle   int           `json:"cycle"`
	TimeSec float64       `json:"time_sec"`
	State   string        `json:"state"`
	Frame   int           `json:"frame"`
	Pose    joints.Joints `json:"pose"`
}

// playback advances interp by step until it finishes or limit is reached.
// The first sample is the pose before the first cycle.
func playback(interp *motion.Interpolator[joints.Joints], step, limit time.Duration, input condition.Input) []sample {
	record := func(cycle int, elapsed time.Duration) sample {
		return sample{
			Cycle:   cycle,
			TimeSec: elapsed.Seconds(),
			State:   motion.StateName(interp.State()),
			Frame:   motion.FrameOf(interp.State()),
			Pose:    interp.Value(),
		}
	}

	samples := []sample{record(0, 0)}
	var elapsed time.Duration
	for cycle := 1; !interp.IsFinished() && elapsed < limit; cycle++ {
		interp.AdvanceBy(step, input)
		elapsed += step
		samples = append(samples, record(cycle, elapsed))
	}
	return samples
}

func writeSamples(out io.Writer, samples []sample, every int) error {
	if every <= 0 {
		every = 1
	}

	headers := []string{"CYCLE", "TIME", "STATE", "FRAME", "HEAD PITCH", "L HIP PITCH", "L KNEE", "R KNEE"}
	var rows [][]string
	for i, s := range samples {
		if i%every != 0 && i != len(samples)-1 {
			continue
		}
		rows = append(rows, []string{
			strconv.Itoa(s.Cycle),
			formatSeconds(s.TimeSec),
			s.State,
			strconv.Itoa(s.Frame),
			formatAngle(s.Pose.Head.Pitch),
			formatAngle(s.Pose.LeftLeg.HipPitch),
			formatAngle(s.Pose.LeftLeg.KneePitch),
			formatAngle(s.Pose.RightLeg.KneePitch),
		})
	}
	if err := writeTable(out, headers, rows); err != nil {
		return err
	}

	last := samples[len(samples)-1]
	_, err := fmt.Fprintf(out, "\n%s after %d cycles (%s)\n", last.State, last.Cycle, formatSeconds(last.TimeSec))
	return err
}

func formatAngle(rad float64) string {
	return strconv.FormatFloat(rad, 'f', 3, 64)
}
