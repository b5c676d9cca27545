// Command standup runs the fall detection and stand-up control loop.
//
// Usage:
//
//	standup run --sim --fall front
//	ROBOT_IP=192.168.1.40 standup run
//	standup play stand_up_back --step 12ms
//	standup validate ./motions
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/teslashibe/go-motion/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.Main(ctx)
}
