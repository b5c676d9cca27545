package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/teslashibe/go-motion/internal/config"
	"github.com/teslashibe/go-motion/internal/log"
	"github.com/teslashibe/go-motion/pkg/behavior"
	"github.com/teslashibe/go-motion/pkg/bus"
	"github.com/teslashibe/go-motion/pkg/control"
	"github.com/teslashibe/go-motion/pkg/robot"
	"github.com/teslashibe/go-motion/pkg/web"
)

var runFall string

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("sim", false, "drive the in-memory simulator instead of a robot")
	runCmd.Flags().String("robot-ip", "", "robot IP (default $ROBOT_IP)")
	runCmd.Flags().Duration("cycle-period", 12*time.Millisecond, "control cycle period")
	runCmd.Flags().String("redis-addr", "", "publish outputs to this redis server")
	runCmd.Flags().Int("port", 8090, "dashboard port (0 disables the dashboard)")
	runCmd.Flags().StringVar(&runFall, "fall", "", "start the simulator fallen onto its front or back")
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the control loop",
	Long: `Run the control loop: read sensors, detect falls, run the matching
stand-up motion and send the commanded pose every cycle. Without a robot
IP the loop drives the in-memory simulator.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Robot.IP == "" {
			cfg.Robot.IP = config.RobotIP("")
		}
		return runLoop(cmd.Context(), cfg)
	},
}

func runLoop(ctx context.Context, cfg *config.Config) error {
	lib, err := loadLibrary(cfg.Motions.Dir, cfg.Motions.StabilizedTolerance)
	if err != nil {
		return err
	}
	executors, standPose, err := lib.executors()
	if err != nil {
		return err
	}

	var (
		sensors control.SensorSource
		target  robot.JointController
	)
	if cfg.UseSimulator() {
		sim := robot.NewSim(standPose)
		if runFall != "" {
			kind, err := parseKind(runFall)
			if err != nil {
				return err
			}
			sim.Fall(kind)
		}
		sensors, target = sim, sim
		log.Info("using simulated robot")
	} else {
		http := robot.NewHTTPController(cfg.Robot.IP, cfg.Robot.Timeout)
		http.MoveDuration = cfg.Loop.CyclePeriod
		status, err := http.GetDaemonStatus(ctx)
		if err != nil {
			return fmt.Errorf("robot at %s unreachable: %w", cfg.Robot.IP, err)
		}
		log.Info("connected to robot", "ip", cfg.Robot.IP, "daemon", status)
		sensors, target = http, http
	}

	loop, err := control.NewLoop(control.LoopConfig{
		Period:                cfg.Loop.CyclePeriod,
		GyroFilterCoefficient: cfg.Loop.GyroFilterCoefficient,
		FallDetector: behavior.FallDetectorConfig{
			FallingPitch: cfg.Loop.FallingPitch,
			FallenPitch:  cfg.Loop.FallenPitch,
		},
		StandPose: standPose,
	}, sensors, robot.NewDeadZoneController(target, cfg.Robot.DeadZone), executors)
	if err != nil {
		return err
	}

	var events web.EventStore
	if cfg.Redis.Enabled() {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()

		pub := bus.NewPublisher(client, cfg.Redis.Prefix, cfg.Redis.StreamLen)
		if err := pub.Ping(ctx); err != nil {
			return fmt.Errorf("redis %s: %w", cfg.Redis.Addr, err)
		}
		loop.AddSink(pub)
		events = pub
		log.Info("publishing outputs", "redis", cfg.Redis.Addr, "hash", pub.OutputsKey(), "stream", pub.EventsStream())
	}

	errc := make(chan error, 1)
	if cfg.Dashboard.Port > 0 {
		server := web.NewServer(web.Options{
			Port:        cfg.Dashboard.Port,
			Status:      loop,
			Events:      events,
			Motions:     lib.infos(),
			OnFallState: loop.SetFallStateOverride,
		})
		loop.AddSink(server)
		go func() {
			if err := server.Start(ctx); err != nil {
				errc <- err
			}
		}()
	}

	go func() {
		errc <- loop.Run(ctx)
	}()

	err = <-errc
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func parseKind(name string) (behavior.Kind, error) {
	switch name {
	case behavior.FacingDown.String():
		return behavior.FacingDown, nil
	case behavior.FacingUp.String():
		return behavior.FacingUp, nil
	default:
		return behavior.FacingDown, fmt.Errorf("unknown fall side %q (want %s or %s)", name, behavior.FacingDown, behavior.FacingUp)
	}
}
