package mirobot

import "sync"

// MachineState is the controller-reported machine state driving the
// completion-wait handshake.
type MachineState int

const (
	StateUnknown MachineState = iota
	StateAlarm
	StateHome
	StateIdle
	StateBusy
)

func parseMachineState(s string) MachineState {
	switch s {
	case "Alarm":
		return StateAlarm
	case "Home":
		return StateHome
	case "Idle":
		return StateIdle
	case "Busy", "Run":
		return StateBusy
	}
	return StateUnknown
}

func (s MachineState) String() string {
	switch s {
	case StateAlarm:
		return "Alarm"
	case StateHome:
		return "Home"
	case StateIdle:
		return "Idle"
	case StateBusy:
		return "Busy"
	}
	return "Unknown"
}

// Pose is a cartesian tool pose: position in millimeters, orientation in
// degrees.
type Pose struct {
	X, Y, Z          float64
	Roll, Pitch, Yaw float64
}

// Offset is a tool-frame translation in millimeters.
type Offset struct {
	X, Y, Z float64
}

// Range is a closed interval in millimeters.
type Range struct {
	Min, Max float64
}

// StatusRecord is one decoded status line. Joints[0] is joint 1; Joints[6]
// is the rail position in millimeters.
type StatusRecord struct {
	State    MachineState
	Joints   [7]float64
	Pose     Pose
	PumpPWM  int
	ValvePWM int
	Relative bool
}

// RobotState is the last-known snapshot of the arm. Reads never block on
// transport activity and may be stale until the next status refresh.
type RobotState struct {
	Machine    MachineState
	Joints     [7]float64 // index 0 = joint 1; index 6 = rail, mm
	Pose       Pose
	PumpPWM    int
	ValvePWM   int
	GripperPWM int
	Relative   bool
	ToolOffset Offset
	DoorLift   float64
	Conveyor   Range
}

// stateCache holds the last-known RobotState. The reader goroutine is the
// only writer of status-derived fields; configuration fields are recorded by
// the driver after the controller acknowledges the corresponding command.
type stateCache struct {
	mu sync.RWMutex
	s  RobotState
}

func (c *stateCache) apply(rec StatusRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.s.Machine = rec.State
	c.s.Joints = rec.Joints
	c.s.Pose = rec.Pose
	c.s.PumpPWM = rec.PumpPWM
	c.s.ValvePWM = rec.ValvePWM
	c.s.Relative = rec.Relative
}

func (c *stateCache) snapshot() RobotState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.s
}

func (c *stateCache) update(fn func(*RobotState)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.s)
}
