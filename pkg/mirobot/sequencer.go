package mirobot

import (
	"context"
	"fmt"
)

// DefaultDoorLift is the lift height used when neither the request nor the
// configuration names one, millimeters.
const DefaultDoorLift = 20

// DoorInterpolation executes a door-style compound move: lift straight up,
// traverse to the target XY at the lifted height, then descend onto the
// target Z. Each segment is a full linear move with its own handshake; on
// failure the sequence stops with the arm wherever the failing segment left
// it, and the error names the segment.
func (r *Driver) DoorInterpolation(ctx context.Context, req CompoundDoor) error {
	lift := req.Lift
	if lift == 0 {
		lift = r.cache.snapshot().DoorLift
	}
	if lift == 0 {
		lift = DefaultDoorLift
	}
	if lift < 0 {
		return fmt.Errorf("door lift segment: %w: lift %s must be positive",
			ErrInvalidRequest, formatValue(lift))
	}

	start := r.cache.snapshot().Pose
	raised := start.Z + lift

	segments := []struct {
		name string
		pose ToolPose
	}{
		{"lift", ToolPose{
			X: start.X, Y: start.Y, Z: raised,
			Roll: start.Roll, Pitch: start.Pitch, Yaw: start.Yaw,
			Mode: ModeLinear,
		}},
		{"traverse", ToolPose{
			X: req.X, Y: req.Y, Z: raised,
			Roll: start.Roll, Pitch: start.Pitch, Yaw: start.Yaw,
			Mode: ModeLinear,
		}},
		{"descend", ToolPose{
			X: req.X, Y: req.Y, Z: req.Z,
			Roll: start.Roll, Pitch: start.Pitch, Yaw: start.Yaw,
			Mode: ModeLinear,
		}},
	}
	for _, seg := range segments {
		if err := r.SetToolPose(ctx, seg.pose); err != nil {
			return fmt.Errorf("door %s segment: %w", seg.name, err)
		}
	}
	return nil
}
