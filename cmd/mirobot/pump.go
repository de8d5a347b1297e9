package main

import (
	"context"
	"fmt"
	"time"
)

type PumpCommand struct {
	Args struct {
		Action string `positional-arg-name:"action" choice:"suction" choice:"blow" choice:"off" choice:"valve-open" choice:"valve-close" required:"true"`
	} `positional-args:"true"`
}

func (c *PumpCommand) Execute(args []string) error {
	robot, _, err := connect()
	if err != nil {
		return err
	}
	defer robot.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := unlockIfNeeded(ctx, robot); err != nil {
		return err
	}

	switch c.Args.Action {
	case "suction":
		return robot.PumpSuction(ctx)
	case "blow":
		return robot.PumpBlow(ctx)
	case "off":
		return robot.PumpOff(ctx)
	case "valve-open":
		return robot.ValveOpen(ctx)
	case "valve-close":
		return robot.ValveClose(ctx)
	}
	return fmt.Errorf("unknown action %q", c.Args.Action)
}
