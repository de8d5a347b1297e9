package mirobot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const idleStatusLine = "Idle,Angle(ABCDXYZ):0.000,0.000,0.000,0.000,100.000,0.000,0.000," +
	"Cartesian coordinate(XYZ RxRyRz):-34.499,195.652,230.720,0.000,0.000,100.000," +
	"Pump PWM:0,Valve PWM:0,Motion_MODE:0"

func TestParseStatus(t *testing.T) {
	rec, err := parseStatus(idleStatusLine)
	require.NoError(t, err)

	assert.Equal(t, StateIdle, rec.State)
	assert.Equal(t, 100.0, rec.Joints[4]) // joint 5
	assert.Equal(t, 0.0, rec.Joints[6])   // rail
	assert.Equal(t, -34.499, rec.Pose.X)
	assert.Equal(t, 195.652, rec.Pose.Y)
	assert.Equal(t, 100.0, rec.Pose.Yaw)
	assert.Equal(t, 0, rec.PumpPWM)
	assert.Equal(t, 0, rec.ValvePWM)
	assert.False(t, rec.Relative)
}

func TestParseStatusBracketed(t *testing.T) {
	rec, err := parseStatus("<" + idleStatusLine + ">")
	require.NoError(t, err)
	assert.Equal(t, StateIdle, rec.State)
	assert.Equal(t, 100.0, rec.Joints[4])
}

func TestParseStatusStates(t *testing.T) {
	tests := []struct {
		raw  string
		want MachineState
	}{
		{"Idle", StateIdle},
		{"Alarm", StateAlarm},
		{"Home", StateHome},
		{"Busy", StateBusy},
		{"Run", StateBusy},
		{"Whatever", StateUnknown},
	}
	for _, tt := range tests {
		line := tt.raw + idleStatusLine[len("Idle"):]
		rec, err := parseStatus(line)
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, rec.State, tt.raw)
	}
}

func TestParseStatusMalformed(t *testing.T) {
	tests := []string{
		// Six joint values instead of seven.
		"Idle,Angle(ABCDXYZ):0.000,0.000,0.000,0.000,100.000,0.000," +
			"Cartesian coordinate(XYZ RxRyRz):-34.499,195.652,230.720,0.000,0.000,100.000," +
			"Pump PWM:0,Valve PWM:0,Motion_MODE:0",
		// Truncated line.
		"Idle,Angle(ABCDXYZ):0.000,0.000",
		// Garbage in a numeric field.
		"Idle,Angle(ABCDXYZ):0.000,0.000,0.000,0.000,abc,0.000,0.000," +
			"Cartesian coordinate(XYZ RxRyRz):-34.499,195.652,230.720,0.000,0.000,100.000," +
			"Pump PWM:0,Valve PWM:0,Motion_MODE:0",
	}
	for _, line := range tests {
		_, err := parseStatus(line)
		assert.ErrorIs(t, err, ErrMalformedStatus, line)
	}
}

func TestClassify(t *testing.T) {
	assert.Equal(t, replyAck, classify("ok").kind)
	assert.Equal(t, replyAck, classify("  ok \r").kind)
	assert.Equal(t, replyUnknown, classify("okay").kind)
	assert.Equal(t, replyUnknown, classify("").kind)

	r := classify("error: Invalid statement")
	assert.Equal(t, replyError, r.kind)
	assert.Equal(t, "Invalid statement", r.message)

	r = classify("ALARM: 2")
	assert.Equal(t, replyError, r.kind)
	assert.Contains(t, r.message, "alarm")

	assert.Equal(t, replyReset, classify("Using reset pos!").kind)

	r = classify(idleStatusLine)
	assert.Equal(t, replyStatus, r.kind)
	assert.NoError(t, r.err)

	// Status-shaped but broken: classified as status with a parse error so
	// the reader can log and drop it.
	r = classify("Idle,Angle(ABCDXYZ):nope")
	assert.Equal(t, replyStatus, r.kind)
	assert.ErrorIs(t, r.err, ErrMalformedStatus)
}

func TestClassifyIsStateless(t *testing.T) {
	a := classify(idleStatusLine)
	b := classify(idleStatusLine)
	assert.Equal(t, a.kind, b.kind)
	assert.Equal(t, a.status, b.status)
}
