package mirobot

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

// Actuator PWM levels used by the WLKATA firmware.
const (
	PumpSuctionPWM = 1000
	PumpBlowPWM    = 500
	PumpOffPWM     = 0

	ValveOpenPWM  = 40
	ValveClosePWM = 65

	GripperOpenPWM  = 40
	GripperClosePWM = 60
)

// DefaultSpeed is the feed rate used when a request carries none, mm/min.
const DefaultSpeed = 2000

// Config tunes a Driver. Zero values select the defaults below.
type Config struct {
	DefaultSpeed int           // mm/min, default 2000
	AckTimeout   time.Duration // default 5s
	IdleTimeout  time.Duration // default 60s
	PollInterval time.Duration // default 100ms
	NonBlocking  bool          // fail motion requests with ErrBusy instead of queueing
	Logger       *slog.Logger
}

func (c *Config) fill() {
	if c.DefaultSpeed == 0 {
		c.DefaultSpeed = DefaultSpeed
	}
	if c.AckTimeout == 0 {
		c.AckTimeout = 5 * time.Second
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 60 * time.Second
	}
	if c.PollInterval == 0 {
		c.PollInterval = 100 * time.Millisecond
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Driver is the protocol layer for one Mirobot arm. All motion methods block
// until the arm reports Idle; configuration methods block on acknowledgment
// only. A Driver is safe for concurrent use; commands are serialized through
// a single slot so they reach the controller in submission order.
type Driver struct {
	d     *dispatcher
	cache *stateCache
	log   *slog.Logger

	speed atomic.Int64 // default feed rate, mm/min
}

// New wraps an open transport. The arm starts locked: home or unlock it
// before issuing motion. A reset is sent so the session begins from a known
// controller state.
func New(t Transport, cfg Config) (*Driver, error) {
	cfg.fill()
	cache := &stateCache{}
	drv := &Driver{
		cache: cache,
		log:   cfg.Logger,
	}
	drv.speed.Store(int64(cfg.DefaultSpeed))
	drv.d = newDispatcher(t, cache, cfg.Logger, cfg)
	if err := t.WriteLine(cmdReset); err != nil {
		_ = drv.d.close()
		return nil, fmt.Errorf("reset: %w", err)
	}
	return drv, nil
}

// Close shuts the transport and stops the reader goroutine.
func (r *Driver) Close() error { return r.d.close() }

// State returns the last-known snapshot without touching the transport. It
// may be stale; call UpdateStatus for a fresh read.
func (r *Driver) State() RobotState { return r.cache.snapshot() }

// Ready reports whether the axes are unlocked for motion.
func (r *Driver) Ready() bool { return r.d.ready.Load() }

// UpdateStatus queries the controller and returns the refreshed snapshot.
func (r *Driver) UpdateStatus(ctx context.Context) (RobotState, error) {
	if _, err := r.d.queryStatus(ctx); err != nil {
		return RobotState{}, err
	}
	return r.cache.snapshot(), nil
}

// Reset reboots the controller firmware. The arm relocks and must be homed
// or unlocked again.
func (r *Driver) Reset(ctx context.Context) error {
	r.d.ready.Store(false)
	return r.d.submit(ctx, command{text: cmdReset, origin: "reset", force: true})
}

// Home runs the simultaneous homing cycle on the six arm joints.
func (r *Driver) Home(ctx context.Context) error {
	return r.home(ctx, 0, false, false)
}

// HomeWithSlider homes the slide rail together with the arm joints.
func (r *Driver) HomeWithSlider(ctx context.Context) error {
	return r.home(ctx, 0, true, false)
}

// HomeSequential homes the joints one at a time instead of simultaneously.
// Slower, but avoids self-collision from unfavorable start postures.
func (r *Driver) HomeSequential(ctx context.Context) error {
	return r.home(ctx, 0, false, true)
}

// HomeAxis homes a single axis, 1..7.
func (r *Driver) HomeAxis(ctx context.Context, axis int) error {
	return r.home(ctx, axis, false, false)
}

// HomeSlider homes the external slide rail alone.
func (r *Driver) HomeSlider(ctx context.Context) error {
	return r.home(ctx, SliderAxis, false, false)
}

func (r *Driver) home(ctx context.Context, axis int, withSlider, inTurn bool) error {
	cmd, err := encodeHoming(axis, withSlider, inTurn)
	if err != nil {
		return err
	}
	r.log.Info("homing", "cmd", cmd.text)
	return r.d.submit(ctx, cmd)
}

// Unlock releases the motor lock without homing. Positions reported after an
// unlock are only as good as the arm's last known calibration.
func (r *Driver) Unlock(ctx context.Context) error {
	return r.d.submit(ctx, command{
		text: cmdUnlockAxes, wantAck: true,
		origin: "unlock", homing: true, force: true,
	})
}

// GoToZero drives every joint to its zero posture.
func (r *Driver) GoToZero(ctx context.Context) error {
	return r.d.submit(ctx, command{
		text: cmdGoToZero, wantAck: true, wantIdle: true, origin: "go to zero",
	})
}

// SetJointAngles moves in joint space. Only axes present in the target map
// are commanded.
func (r *Driver) SetJointAngles(ctx context.Context, t JointTarget) error {
	cmd, err := encodeJointTarget(t, r.defaultSpeed())
	if err != nil {
		return err
	}
	return r.d.submit(ctx, cmd)
}

// SetToolPose moves the tool tip in cartesian space with point-to-point or
// linear interpolation.
func (r *Driver) SetToolPose(ctx context.Context, p ToolPose) error {
	cmd, err := encodeToolPose(p, r.defaultSpeed())
	if err != nil {
		return err
	}
	return r.d.submit(ctx, cmd)
}

// Arc traces a planar circular arc to a relative endpoint. The endpoint must
// lie within the circle's diameter of the current pose or ErrGeometry is
// returned before anything is written.
func (r *Driver) Arc(ctx context.Context, a CircularArc) error {
	cmd, err := encodeArc(a, r.defaultSpeed())
	if err != nil {
		return err
	}
	return r.d.submit(ctx, cmd)
}

// MoveLinearAxis positions the slide rail or the conveyor belt.
func (r *Driver) MoveLinearAxis(ctx context.Context, t LinearAxisTarget) error {
	cmd, err := encodeLinearAxis(t, r.defaultSpeed())
	if err != nil {
		return err
	}
	return r.d.submit(ctx, cmd)
}

// SetDefaultSpeed sets the feed rate used by requests that carry none. The
// controller is informed via a standalone F command and the value persists
// for the session.
func (r *Driver) SetDefaultSpeed(ctx context.Context, speed int) error {
	cmd, err := encodeSpeed(speed)
	if err != nil {
		return err
	}
	if err := r.d.submit(ctx, cmd); err != nil {
		return err
	}
	r.speed.Store(int64(speed))
	return nil
}

func (r *Driver) defaultSpeed() int { return int(r.speed.Load()) }

// SetSoftLimit toggles firmware soft limits on joint travel.
func (r *Driver) SetSoftLimit(ctx context.Context, on bool) error {
	return r.d.submit(ctx, encodeVar(varSoftLimit, boolVar(on), "soft limit"))
}

// SetHardLimit toggles the limit switch checks.
func (r *Driver) SetHardLimit(ctx context.Context, on bool) error {
	return r.d.submit(ctx, encodeVar(varHardLimit, boolVar(on), "hard limit"))
}

// SetToolType declares the mounted end effector so the firmware applies the
// matching tool-tip frame.
func (r *Driver) SetToolType(ctx context.Context, tool Tool) error {
	if !tool.valid() {
		return fmt.Errorf("%w: unknown tool %d", ErrInvalidRequest, tool)
	}
	if err := r.d.submit(ctx, encodeVar(varToolType, float64(tool), "tool type")); err != nil {
		return err
	}
	off := tool.Offset()
	r.cache.update(func(s *RobotState) { s.ToolOffset = off })
	return nil
}

// SetToolOffset overrides the tool-tip translation, millimeters per axis.
func (r *Driver) SetToolOffset(ctx context.Context, off Offset) error {
	fields := []struct {
		id int
		v  float64
	}{
		{varToolOffsetX, off.X},
		{varToolOffsetY, off.Y},
		{varToolOffsetZ, off.Z},
	}
	for _, f := range fields {
		if err := r.d.submit(ctx, encodeVar(f.id, f.v, "tool offset")); err != nil {
			return err
		}
	}
	r.cache.update(func(s *RobotState) { s.ToolOffset = off })
	return nil
}

// SetDoorLiftDistance sets the lift height used by door interpolation when a
// request leaves Lift at zero.
func (r *Driver) SetDoorLiftDistance(ctx context.Context, mm float64) error {
	if mm <= 0 {
		return fmt.Errorf("%w: door lift %s must be positive", ErrInvalidRequest, formatValue(mm))
	}
	if err := r.d.submit(ctx, encodeVar(varDoorLift, mm, "door lift")); err != nil {
		return err
	}
	r.cache.update(func(s *RobotState) { s.DoorLift = mm })
	return nil
}

// SetConveyorRange bounds the conveyor travel, millimeters.
func (r *Driver) SetConveyorRange(ctx context.Context, rng Range) error {
	if rng.Min >= rng.Max {
		return fmt.Errorf("%w: conveyor range [%s, %s] is empty", ErrInvalidRequest,
			formatValue(rng.Min), formatValue(rng.Max))
	}
	if err := r.d.submit(ctx, encodeVar(varConveyorMin, rng.Min, "conveyor range")); err != nil {
		return err
	}
	if err := r.d.submit(ctx, encodeVar(varConveyorMax, rng.Max, "conveyor range")); err != nil {
		return err
	}
	r.cache.update(func(s *RobotState) { s.Conveyor = rng })
	return nil
}

// PumpSuction switches the air pump to suction.
func (r *Driver) PumpSuction(ctx context.Context) error {
	return r.setPump(ctx, PumpSuctionPWM)
}

// PumpBlow switches the air pump to blow-off.
func (r *Driver) PumpBlow(ctx context.Context) error {
	return r.setPump(ctx, PumpBlowPWM)
}

// valvePulse is how long the valve vents before closing during PumpOff.
const valvePulse = time.Second

// PumpOff stops the pump and pulses the valve open so residual vacuum
// releases the workpiece, then closes it again.
func (r *Driver) PumpOff(ctx context.Context) error {
	if err := r.setPump(ctx, PumpOffPWM); err != nil {
		return err
	}
	if err := r.setValve(ctx, ValveOpenPWM); err != nil {
		return err
	}
	select {
	case <-time.After(valvePulse):
	case <-ctx.Done():
		return ctx.Err()
	}
	return r.setValve(ctx, ValveClosePWM)
}

// ValveOpen opens the solenoid valve.
func (r *Driver) ValveOpen(ctx context.Context) error {
	return r.setValve(ctx, ValveOpenPWM)
}

// ValveClose closes the solenoid valve.
func (r *Driver) ValveClose(ctx context.Context) error {
	return r.setValve(ctx, ValveClosePWM)
}

func (r *Driver) setPump(ctx context.Context, pwm int) error {
	return r.d.submit(ctx, encodePWM("M3S", pwm, "pump"))
}

func (r *Driver) setValve(ctx context.Context, pwm int) error {
	return r.d.submit(ctx, encodePWM("M4E", pwm, "valve"))
}

// GripperOpen drives the gripper to its widest spacing.
func (r *Driver) GripperOpen(ctx context.Context) error {
	return r.setGripper(ctx, GripperOpenPWM)
}

// GripperClose drives the gripper shut.
func (r *Driver) GripperClose(ctx context.Context) error {
	return r.setGripper(ctx, GripperClosePWM)
}

// SetGripperSpacing positions the gripper jaws at the given spacing in
// millimeters, solving the linkage geometry for the matching servo PWM.
func (r *Driver) SetGripperSpacing(ctx context.Context, mm float64) error {
	pwm, err := gripperPWM(mm)
	if err != nil {
		return err
	}
	return r.setGripper(ctx, pwm)
}

func (r *Driver) setGripper(ctx context.Context, pwm int) error {
	if err := r.d.submit(ctx, encodePWM("M3S", pwm, "gripper")); err != nil {
		return err
	}
	r.cache.update(func(s *RobotState) { s.GripperPWM = pwm })
	return nil
}

// StartCalibration begins the factory joint calibration procedure. The arm
// must be posed at its mechanical zero before finishing.
func (r *Driver) StartCalibration(ctx context.Context) error {
	return r.d.submit(ctx, command{text: cmdCalibStart, wantAck: true, origin: "calibration", force: true})
}

// FinishCalibration stores the current posture as the joint zero reference.
func (r *Driver) FinishCalibration(ctx context.Context) error {
	return r.d.submit(ctx, command{text: cmdCalibFinish, wantAck: true, origin: "calibration", force: true})
}
