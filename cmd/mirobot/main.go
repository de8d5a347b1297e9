package main

import (
	"os"

	"github.com/jessevdk/go-flags"
)

type Options struct {
	Setup   SetupCommand   `command:"setup" description:"Discover the arm's serial port and save configuration"`
	Status  StatusCommand  `command:"status" description:"Query and print the current robot state"`
	Home    HomeCommand    `command:"home" description:"Run a homing cycle"`
	Move    MoveCommand    `command:"move" description:"Move in joint or cartesian space"`
	Pump    PumpCommand    `command:"pump" description:"Control the air pump and valve"`
	Gripper GripperCommand `command:"gripper" description:"Control the gripper"`
	Monitor MonitorCommand `command:"monitor" description:"Live joint angle chart"`
}

var opts Options
var parser = flags.NewParser(&opts, flags.Default)

func main() {
	parser.LongDescription = "Mirobot - command line control for the WLKATA Mirobot 6-axis arm"

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}
}
