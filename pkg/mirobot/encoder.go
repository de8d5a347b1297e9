package mirobot

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// G-code vocabulary of the WLKATA controller. Joint moves use M21, cartesian
// moves M20, conveyor moves M22; G90/G91 select absolute/relative mode.
const (
	cmdStatusQuery  = "?"
	cmdReset        = "%"
	cmdHomeAll      = "$H"
	cmdHomeSlider7  = "$H0"
	cmdHomeInTurn   = "$HH"
	cmdGoToZero     = "$M"
	cmdUnlockAxes   = "M50"
	cmdCalibStart   = "M40"
	cmdCalibFinish  = "M41"
	prefixJoint     = "M21"
	prefixCartesian = "M20"
	prefixConveyor  = "M22"
)

// EEPROM variable ids for configuration commands ($<id>=<value>).
const (
	varSoftLimit   = 20
	varHardLimit   = 21
	varToolOffsetX = 46
	varToolOffsetY = 47
	varToolOffsetZ = 48
	varDoorLift    = 49
	varToolType    = 50
	varConveyorMin = 51
	varConveyorMax = 52
)

// MaxSpeed is the upper bound of the feed rate override, mm/min.
const MaxSpeed = 3000

// axisLetters maps axis id 1..7 to its G-code field letter.
var axisLetters = [MaxAxis + 1]byte{0, 'X', 'Y', 'Z', 'A', 'B', 'C', 'D'}

// formatValue renders a float the way the controller expects: plain decimal,
// at most two fractional digits.
func formatValue(v float64) string {
	v = math.Round(v*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// gcode assembles an instruction plus letter-coded fields, skipping fields
// whose presence flag is false.
type fieldList struct {
	b strings.Builder
}

func newFieldList(instruction string) *fieldList {
	f := &fieldList{}
	f.b.WriteString(instruction)
	return f
}

func (f *fieldList) add(letter byte, value float64) {
	f.b.WriteByte(' ')
	f.b.WriteByte(letter)
	f.b.WriteString(formatValue(value))
}

func (f *fieldList) addSpeed(speed int) {
	f.b.WriteString(" F")
	f.b.WriteString(strconv.Itoa(speed))
}

func (f *fieldList) String() string { return f.b.String() }

// resolveSpeed validates an optional per-move speed override and falls back
// to the driver default. The valid range is (0, MaxSpeed].
func resolveSpeed(speed, fallback int) (int, error) {
	if speed == 0 {
		return fallback, nil
	}
	if speed < 0 || speed > MaxSpeed {
		return 0, fmt.Errorf("%w: speed %d outside (0, %d] mm/min", ErrInvalidRequest, speed, MaxSpeed)
	}
	return speed, nil
}

func modeFlag(relative bool) string {
	if relative {
		return "G91"
	}
	return "G90"
}

// encodeJointTarget builds an M21 joint move. One field is emitted per axis
// present in the map; absent axes are not zeroed.
func encodeJointTarget(t JointTarget, defaultSpeed int) (command, error) {
	if len(t.Angles) == 0 {
		return command{}, fmt.Errorf("%w: no axes in joint target", ErrInvalidRequest)
	}
	speed, err := resolveSpeed(t.Speed, defaultSpeed)
	if err != nil {
		return command{}, err
	}
	for axis := range t.Angles {
		if axis < MinAxis || axis > MaxAxis {
			return command{}, fmt.Errorf("%w: axis id %d outside [%d, %d]", ErrInvalidRequest, axis, MinAxis, MaxAxis)
		}
	}
	f := newFieldList(prefixJoint + " " + modeFlag(t.Relative))
	for axis := MinAxis; axis <= MaxAxis; axis++ {
		v, ok := t.Angles[axis]
		if !ok {
			continue
		}
		f.add(axisLetters[axis], v)
	}
	f.addSpeed(speed)
	return command{text: f.String(), wantAck: true, wantIdle: true, origin: "joint target"}, nil
}

// encodeToolPose builds an M20 cartesian move with the G0 (point-to-point)
// or G1 (linear) primitive. Position fields are always emitted; orientation
// defaults to 0.0.
func encodeToolPose(p ToolPose, defaultSpeed int) (command, error) {
	speed, err := resolveSpeed(p.Speed, defaultSpeed)
	if err != nil {
		return command{}, err
	}
	primitive := "G0"
	if p.Mode == ModeLinear {
		primitive = "G1"
	}
	f := newFieldList(prefixCartesian + " " + modeFlag(p.Relative) + " " + primitive)
	f.add('X', p.X)
	f.add('Y', p.Y)
	f.add('Z', p.Z)
	f.add('A', p.Roll)
	f.add('B', p.Pitch)
	f.add('C', p.Yaw)
	f.addSpeed(speed)
	return command{text: f.String(), wantAck: true, wantIdle: true, origin: "tool pose"}, nil
}

// encodeArc builds an M20 G2/G3 circular interpolation. The endpoint is
// always relative to the current pose. Fails before any transport write when
// the chord between the endpoints is longer than the circle's diameter.
func encodeArc(a CircularArc, defaultSpeed int) (command, error) {
	speed, err := resolveSpeed(a.Speed, defaultSpeed)
	if err != nil {
		return command{}, err
	}
	if a.Radius <= 0 {
		return command{}, fmt.Errorf("%w: arc radius %s must be positive", ErrInvalidRequest, formatValue(a.Radius))
	}
	if chord := math.Hypot(a.EX, a.EY); chord > 2*a.Radius {
		return command{}, fmt.Errorf("%w: chord %.2f exceeds diameter %.2f", ErrGeometry, chord, 2*a.Radius)
	}
	primitive := "G3"
	if a.Clockwise {
		primitive = "G2"
	}
	f := newFieldList(prefixCartesian + " G91 " + primitive)
	f.add('X', a.EX)
	f.add('Y', a.EY)
	f.add('R', a.Radius)
	f.addSpeed(speed)
	return command{text: f.String(), wantAck: true, wantIdle: true, origin: "circular arc"}, nil
}

// encodeLinearAxis builds a slide-rail (M21 D field) or conveyor (M22) move.
func encodeLinearAxis(t LinearAxisTarget, defaultSpeed int) (command, error) {
	speed, err := resolveSpeed(t.Speed, defaultSpeed)
	if err != nil {
		return command{}, err
	}
	switch t.Axis {
	case Slider:
		f := newFieldList(prefixJoint + " " + modeFlag(t.Relative))
		f.add('D', t.Position)
		f.addSpeed(speed)
		return command{text: f.String(), wantAck: true, wantIdle: true, origin: "slider target"}, nil
	case Conveyor:
		f := newFieldList(prefixConveyor + " " + modeFlag(t.Relative))
		f.add('D', t.Position)
		f.addSpeed(speed)
		return command{text: f.String(), wantAck: true, wantIdle: true, origin: "conveyor target"}, nil
	}
	return command{}, fmt.Errorf("%w: unknown linear axis %d", ErrInvalidRequest, t.Axis)
}

// encodeHoming builds the privileged homing commands. axis 0 homes the whole
// arm, SliderAxis the rail alone; any axis in [1,7] homes that axis only.
func encodeHoming(axis int, withSlider, inTurn bool) (command, error) {
	c := command{wantIdle: true, homing: true, force: true, origin: "homing"}
	switch {
	case axis == 0 && inTurn:
		c.text = cmdHomeInTurn
	case axis == 0 && withSlider:
		c.text = cmdHomeSlider7
	case axis == 0:
		c.text = cmdHomeAll
	case axis >= MinAxis && axis <= MaxAxis:
		c.text = "$H" + strconv.Itoa(axis)
	default:
		return command{}, fmt.Errorf("%w: homing axis %d outside [%d, %d]", ErrInvalidRequest, axis, MinAxis, MaxAxis)
	}
	return c, nil
}

// encodeVar builds a $<id>=<value> configuration command. Configuration
// commands block on acknowledgment only, never on motion completion.
func encodeVar(id int, value float64, origin string) command {
	return command{
		text:    "$" + strconv.Itoa(id) + "=" + formatValue(value),
		wantAck: true,
		origin:  origin,
	}
}

// encodeSpeed builds the standalone default feed rate command (F<v>).
func encodeSpeed(speed int) (command, error) {
	if speed <= 0 || speed > MaxSpeed {
		return command{}, fmt.Errorf("%w: speed %d outside (0, %d] mm/min", ErrInvalidRequest, speed, MaxSpeed)
	}
	return command{text: "F" + strconv.Itoa(speed), wantAck: true, origin: "set speed"}, nil
}

// encodePWM builds an M3S (pump/gripper) or M4E (valve) actuator command.
func encodePWM(prefix string, pwm int, origin string) command {
	return command{
		text:     prefix + strconv.Itoa(pwm),
		wantAck:  true,
		wantIdle: true,
		origin:   origin,
	}
}

func boolVar(on bool) float64 {
	if on {
		return 1
	}
	return 0
}
