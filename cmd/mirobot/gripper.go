package main

import (
	"context"
	"fmt"
	"time"
)

type GripperCommand struct {
	Spacing *float64 `long:"spacing" description:"Jaw spacing in mm (0-30)"`
	Args    struct {
		Action string `positional-arg-name:"action" choice:"open" choice:"close" choice:"set"`
	} `positional-args:"true"`
}

func (c *GripperCommand) Execute(args []string) error {
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
	case "open":
		return robot.GripperOpen(ctx)
	case "close":
		return robot.GripperClose(ctx)
	case "set", "":
		if c.Spacing == nil {
			return fmt.Errorf("pass open, close, or --spacing")
		}
		return robot.SetGripperSpacing(ctx, *c.Spacing)
	}
	return fmt.Errorf("unknown action %q", c.Args.Action)
}
