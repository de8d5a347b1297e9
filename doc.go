// Package mirobot provides serial control for the WLKATA Mirobot 6-axis
// robot arm.
//
// The driver speaks the controller's G-code derived protocol over a serial
// line: joint and cartesian moves, circular arcs, homing, the slide rail and
// conveyor accessories, and the pump, valve and gripper end effectors.
//
// # Installation
//
//	go install github.com/gwillem/mirobot/cmd/mirobot@latest
//
// # Usage
//
// First, run setup to find the arm's serial port:
//
//	mirobot setup
//
// Home the arm, then move it:
//
//	mirobot home
//	mirobot move --pose 200,0,150
//
// # Packages
//
// The module is organized into the following packages:
//
//   - cmd/mirobot: CLI with setup, status, home, move and monitor commands
//   - pkg/mirobot: Protocol driver, state cache, and configuration
//   - pkg/transport: Serial transport and port discovery
//   - pkg/monitor: Periodic status sampling for the live chart
package mirobot
