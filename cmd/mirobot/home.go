package main

import (
	"context"
	"fmt"
	"time"
)

type HomeCommand struct {
	Axis       int  `long:"axis" description:"Home a single axis (1-7) instead of the whole arm"`
	Sequential bool `long:"sequential" description:"Home joints one at a time"`
	Zero       bool `long:"zero" description:"Drive to the zero posture after homing"`
}

func (c *HomeCommand) Execute(args []string) error {
	robot, settings, err := connect()
	if err != nil {
		return err
	}
	defer robot.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	fmt.Println("Homing, this can take a while...")
	switch {
	case c.Axis != 0:
		err = robot.HomeAxis(ctx, c.Axis)
	case c.Sequential:
		err = robot.HomeSequential(ctx)
	case settings.HasSlider:
		err = robot.HomeWithSlider(ctx)
	default:
		err = robot.Home(ctx)
	}
	if err != nil {
		return err
	}
	fmt.Println(successStyle.Render("Homing complete."))

	if c.Zero {
		fmt.Println("Moving to zero posture...")
		if err := robot.GoToZero(ctx); err != nil {
			return err
		}
		fmt.Println(successStyle.Render("Done."))
	}
	return nil
}
