package mirobot

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// replyKind classifies one raw line from the controller.
type replyKind int

const (
	replyUnknown replyKind = iota
	replyAck
	replyStatus
	replyError
	replyReset
)

// reply is the classified form of a raw line. Ephemeral; not retained past
// classification.
type reply struct {
	kind    replyKind
	status  StatusRecord
	message string // error text for replyError
	err     error  // parse failure for a status-shaped line
}

const (
	ackToken    = "ok"
	errorPrefix = "error:"
	alarmPrefix = "ALARM:"
	resetNotice = "Using reset pos!"
)

// statusRE matches the fixed status layout reported in response to `?`.
// Surrounding angle brackets are optional; field separators tolerate spaces.
var statusRE = regexp.MustCompile(
	`^<?([^,<>]+),\s*Angle\(ABCDXYZ\):\s*([-+0-9.,\s]+),\s*Cartesian coordinate\(XYZ RxRyRz\):\s*([-+0-9.,\s]+),\s*Pump PWM:\s*(\d+),\s*Valve PWM:\s*(\d+),\s*Motion_MODE:\s*(\d)\s*>?$`)

// classify decides what a raw line is. Parsing is stateless; the same line
// always classifies identically.
func classify(line string) reply {
	line = strings.TrimSpace(line)
	switch {
	case line == ackToken:
		return reply{kind: replyAck}
	case strings.HasPrefix(line, errorPrefix):
		return reply{kind: replyError, message: strings.TrimSpace(strings.TrimPrefix(line, errorPrefix))}
	case strings.Contains(line, alarmPrefix):
		_, msg, _ := strings.Cut(line, alarmPrefix)
		return reply{kind: replyError, message: "alarm " + strings.TrimSpace(msg)}
	case strings.Contains(line, resetNotice):
		return reply{kind: replyReset}
	case strings.Contains(line, "Angle(ABCDXYZ)"):
		rec, err := parseStatus(line)
		if err != nil {
			return reply{kind: replyStatus, err: err}
		}
		return reply{kind: replyStatus, status: rec}
	}
	return reply{kind: replyUnknown}
}

// parseStatus decodes the fixed field layout into a StatusRecord. A field
// count mismatch yields ErrMalformedStatus and no partial result.
func parseStatus(line string) (StatusRecord, error) {
	m := statusRE.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return StatusRecord{}, fmt.Errorf("%w: %q", ErrMalformedStatus, line)
	}

	angles, err := parseFloatFields(m[2], 7)
	if err != nil {
		return StatusRecord{}, fmt.Errorf("%w: angles in %q: %v", ErrMalformedStatus, line, err)
	}
	cart, err := parseFloatFields(m[3], 6)
	if err != nil {
		return StatusRecord{}, fmt.Errorf("%w: cartesian in %q: %v", ErrMalformedStatus, line, err)
	}
	pump, err := strconv.Atoi(m[4])
	if err != nil {
		return StatusRecord{}, fmt.Errorf("%w: pump pwm in %q", ErrMalformedStatus, line)
	}
	valve, err := strconv.Atoi(m[5])
	if err != nil {
		return StatusRecord{}, fmt.Errorf("%w: valve pwm in %q", ErrMalformedStatus, line)
	}

	rec := StatusRecord{
		State:    parseMachineState(strings.TrimSpace(m[1])),
		PumpPWM:  pump,
		ValvePWM: valve,
		Relative: m[6] != "0",
	}
	copy(rec.Joints[:], angles)
	rec.Pose = Pose{
		X: cart[0], Y: cart[1], Z: cart[2],
		Roll: cart[3], Pitch: cart[4], Yaw: cart[5],
	}
	return rec, nil
}

func parseFloatFields(s string, want int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != want {
		return nil, fmt.Errorf("got %d fields, want %d", len(parts), want)
	}
	out := make([]float64, want)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("field %d: %v", i+1, err)
		}
		out[i] = v
	}
	return out, nil
}
