package mirobot

// Axis identifiers. Axes 1-6 are the arm joints (degrees), axis 7 is the
// external linear rail (millimeters).
const (
	MinAxis    = 1
	MaxAxis    = 7
	SliderAxis = 7
)

// InterpolationMode selects the trajectory primitive for a tool pose move.
type InterpolationMode int

const (
	// ModeP2P moves on the fastest path without constraining the trajectory.
	ModeP2P InterpolationMode = iota
	// ModeLinear constrains motion to a straight line between poses.
	ModeLinear
)

// JointTarget requests a move in joint space. Angles maps axis id (1..7) to
// the target value; axes absent from the map are not commanded. Axis 7
// carries millimeters, the rest degrees.
type JointTarget struct {
	Angles   map[int]float64
	Relative bool
	Speed    int // mm/min, 0 means the driver default
}

// ToolPose requests a move of the tool tip in cartesian space. Orientation
// angles left at zero are commanded as 0.0 degrees.
type ToolPose struct {
	X, Y, Z          float64
	Roll, Pitch, Yaw float64
	Mode             InterpolationMode
	Relative         bool
	Speed            int
}

// CircularArc requests a planar arc from the current pose to the relative
// endpoint (EX, EY) on a circle of the given radius.
type CircularArc struct {
	EX, EY    float64 // endpoint offset from the current pose, mm
	Radius    float64 // mm
	Clockwise bool
	Speed     int
}

// LinearAxis selects which external linear axis a target addresses.
type LinearAxis int

const (
	Slider LinearAxis = iota
	Conveyor
)

// LinearAxisTarget requests a move of the slide rail or conveyor belt.
type LinearAxisTarget struct {
	Axis     LinearAxis
	Position float64 // mm
	Relative bool
	Speed    int
}

// CompoundDoor requests a door-style move: lift, traverse at the lifted
// height, then descend onto the target. Executed as three sequential tool
// pose commands; see Driver.DoorInterpolation.
type CompoundDoor struct {
	X, Y, Z float64
	Lift    float64 // lift height, mm; 0 means the configured door lift distance
}

// command is a fully resolved protocol command plus the handshake metadata
// the dispatcher needs. Created by the encoder, consumed exactly once.
type command struct {
	text     string
	wantAck  bool
	wantIdle bool
	origin   string // request tag, used for error attribution
	homing   bool   // marks the axes ready on success
	force    bool   // admissible while the axes are locked
}
