package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gwillem/mirobot/pkg/mirobot"
)

type MoveCommand struct {
	Joints   map[int]float64 `long:"joint" description:"Joint target as axis:angle, repeatable (axis 1-7)"`
	Pose     string          `long:"pose" description:"Cartesian target as x,y,z[,rx,ry,rz] in mm/deg"`
	Arc      string          `long:"arc" description:"Arc endpoint and radius as ex,ey,r in mm"`
	Door     string          `long:"door" description:"Door-style target as x,y,z in mm"`
	Slider   *float64        `long:"slider" description:"Slide rail position in mm"`
	Conveyor *float64        `long:"conveyor" description:"Conveyor position in mm"`
	Linear   bool            `long:"linear" description:"Linear interpolation for --pose (default point-to-point)"`
	CW       bool            `long:"cw" description:"Clockwise arc (default counter-clockwise)"`
	Relative bool            `long:"relative" short:"r" description:"Treat targets as offsets from the current position"`
	Speed    int             `long:"speed" description:"Feed rate in mm/min (default: configured speed)"`
}

func (c *MoveCommand) Execute(args []string) error {
	robot, _, err := connect()
	if err != nil {
		return err
	}
	defer robot.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := unlockIfNeeded(ctx, robot); err != nil {
		return err
	}

	switch {
	case len(c.Joints) > 0:
		return robot.SetJointAngles(ctx, mirobot.JointTarget{
			Angles:   c.Joints,
			Relative: c.Relative,
			Speed:    c.Speed,
		})

	case c.Pose != "":
		vals, err := parseFloats(c.Pose, 3, 6)
		if err != nil {
			return fmt.Errorf("--pose: %w", err)
		}
		pose := mirobot.ToolPose{
			X: vals[0], Y: vals[1], Z: vals[2],
			Relative: c.Relative,
			Speed:    c.Speed,
		}
		if len(vals) == 6 {
			pose.Roll, pose.Pitch, pose.Yaw = vals[3], vals[4], vals[5]
		}
		if c.Linear {
			pose.Mode = mirobot.ModeLinear
		}
		return robot.SetToolPose(ctx, pose)

	case c.Arc != "":
		vals, err := parseFloats(c.Arc, 3, 3)
		if err != nil {
			return fmt.Errorf("--arc: %w", err)
		}
		return robot.Arc(ctx, mirobot.CircularArc{
			EX: vals[0], EY: vals[1], Radius: vals[2],
			Clockwise: c.CW,
			Speed:     c.Speed,
		})

	case c.Door != "":
		vals, err := parseFloats(c.Door, 3, 3)
		if err != nil {
			return fmt.Errorf("--door: %w", err)
		}
		return robot.DoorInterpolation(ctx, mirobot.CompoundDoor{
			X: vals[0], Y: vals[1], Z: vals[2],
		})

	case c.Slider != nil:
		return robot.MoveLinearAxis(ctx, mirobot.LinearAxisTarget{
			Axis:     mirobot.Slider,
			Position: *c.Slider,
			Relative: c.Relative,
			Speed:    c.Speed,
		})

	case c.Conveyor != nil:
		return robot.MoveLinearAxis(ctx, mirobot.LinearAxisTarget{
			Axis:     mirobot.Conveyor,
			Position: *c.Conveyor,
			Relative: c.Relative,
			Speed:    c.Speed,
		})
	}
	return fmt.Errorf("nothing to do: pass --joint, --pose, --arc, --door, --slider or --conveyor")
}

func parseFloats(s string, min, max int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) < min || len(parts) > max {
		return nil, fmt.Errorf("want %d to %d comma-separated values, got %d", min, max, len(parts))
	}
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("value %d: %v", i+1, err)
		}
		out[i] = v
	}
	return out, nil
}
