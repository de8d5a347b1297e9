package mirobot

import (
	"fmt"
	"math"
)

// Tool identifies the mounted end effector.
type Tool int

const (
	NoTool Tool = iota
	SuctionCup
	Gripper
	FlexibleClaw
)

func (t Tool) valid() bool { return t >= NoTool && t <= FlexibleClaw }

func (t Tool) String() string {
	switch t {
	case NoTool:
		return "none"
	case SuctionCup:
		return "suction cup"
	case Gripper:
		return "gripper"
	case FlexibleClaw:
		return "flexible claw"
	}
	return fmt.Sprintf("tool(%d)", int(t))
}

// Offset returns the tool-tip translation from the flange frame for the
// stock end effectors, millimeters.
func (t Tool) Offset() Offset {
	switch t {
	case SuctionCup:
		return Offset{Z: -55.5}
	case Gripper:
		return Offset{Z: -25.1}
	case FlexibleClaw:
		return Offset{Z: -61.2}
	}
	return Offset{}
}

// Gripper linkage geometry, millimeters. The jaws are driven by a servo horn
// of length linkA through a coupler of length linkB, with linkC between the
// jaw pivot and the jaw face.
const (
	linkA = 9.5
	linkB = 18.0
	linkC = 3.0

	// GripperMaxSpacing is the widest jaw opening, millimeters.
	GripperMaxSpacing = 30.0
)

// gripperPWM solves the linkage for the servo PWM that yields the requested
// jaw spacing. Spacing is the gap between the jaw faces, [0, 30] mm.
func gripperPWM(spacing float64) (int, error) {
	if spacing < 0 || spacing > GripperMaxSpacing {
		return 0, fmt.Errorf("%w: gripper spacing %s outside [0, %s] mm",
			ErrInvalidRequest, formatValue(spacing), formatValue(GripperMaxSpacing))
	}
	// The servo sweep maps linearly onto the PWM range between the close and
	// open stops.
	angle := hornAngle(spacing)
	openAngle := hornAngle(GripperMaxSpacing)
	closeAngle := hornAngle(0)
	frac := (angle - closeAngle) / (openAngle - closeAngle)
	pwm := GripperClosePWM + frac*(GripperOpenPWM-GripperClosePWM)
	return int(pwm), nil
}

// hornAngle is the servo horn angle in degrees that places the jaw faces at
// the given spacing.
func hornAngle(spacing float64) float64 {
	d := spacing/2 + linkC - linkA
	return math.Asin(d/linkB) * 180 / math.Pi
}
