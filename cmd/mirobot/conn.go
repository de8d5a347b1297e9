package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gwillem/mirobot/pkg/mirobot"
	"github.com/gwillem/mirobot/pkg/transport"
)

// connect opens the configured serial port and wraps it in a driver. Used by
// every command except setup.
func connect() (*mirobot.Driver, *mirobot.Settings, error) {
	settings, err := mirobot.LoadSettings()
	if err != nil {
		fmt.Fprintln(os.Stderr, "No configuration found. Run 'mirobot setup' first.")
		os.Exit(1)
	}
	ser, err := transport.Open(settings.Port)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", settings.Port, err)
	}
	robot, err := mirobot.New(ser, mirobot.Config{DefaultSpeed: settings.DefaultSpeed})
	if err != nil {
		ser.Close()
		return nil, nil, err
	}
	return robot, settings, nil
}

// unlockIfNeeded releases the motor lock so query-style commands can run
// without a full homing cycle.
func unlockIfNeeded(ctx context.Context, robot *mirobot.Driver) error {
	if robot.Ready() {
		return nil
	}
	return robot.Unlock(ctx)
}
