package mirobot

import "errors"

// Errors returned by the driver. Encoder errors (ErrInvalidRequest,
// ErrGeometry) are detected before anything is written to the transport.
// Dispatcher errors never corrupt the command slot; it is always released
// for the next submission.
var (
	// ErrInvalidRequest means the caller supplied malformed or contradictory
	// input (axis id out of range, speed outside (0, 3000], empty target).
	ErrInvalidRequest = errors.New("invalid request")

	// ErrGeometry means an arc's endpoints cannot lie on a circle of the
	// given radius (chord longer than the diameter).
	ErrGeometry = errors.New("infeasible arc geometry")

	// ErrNotReady means the axes are still hardware-locked. Only homing and
	// unlock commands are accepted until a homing cycle succeeds.
	ErrNotReady = errors.New("axes locked, home the arm first")

	// ErrBusy means another command is in flight and the driver is in
	// non-blocking submission mode.
	ErrBusy = errors.New("command already in flight")

	// ErrTimeout means no acknowledgment or idle state was observed within
	// the configured bound. The command may still execute on the arm; bytes
	// already written cannot be recalled.
	ErrTimeout = errors.New("timed out waiting for controller")

	// ErrAlarm means the controller reported an alarm state (hard limit or
	// fault). The arm must be power-cycled and re-homed.
	ErrAlarm = errors.New("controller alarm")

	// ErrMalformedStatus means a status line failed to parse. The state
	// cache is left untouched; the next valid line self-heals.
	ErrMalformedStatus = errors.New("malformed status line")

	// ErrProtocol means the controller replied with an explicit error.
	ErrProtocol = errors.New("controller error")
)
