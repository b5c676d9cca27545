package config

import (
	"fmt"
	"os"
)

// DefaultRobotPort is the port of the robot's HTTP API.
const DefaultRobotPort = "8000"

// RobotIP returns the robot IP from the ROBOT_IP env var.
// Falls back to the provided default if not set.
func RobotIP(defaultIP string) string {
	if ip := os.Getenv("ROBOT_IP"); ip != "" {
		return ip
	}
	return defaultIP
}

// RobotAPIURL returns the robot HTTP API URL.
func RobotAPIURL(robotIP string) string {
	return fmt.Sprintf("http://%s:%s", robotIP, DefaultRobotPort)
}
