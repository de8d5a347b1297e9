package mirobot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeJointTarget(t *testing.T) {
	tests := []struct {
		name   string
		target JointTarget
		want   string
	}{
		{
			name:   "single axis absolute",
			target: JointTarget{Angles: map[int]float64{1: 45}},
			want:   "M21 G90 X45 F2000",
		},
		{
			name:   "axes emitted in axis order",
			target: JointTarget{Angles: map[int]float64{3: 10.5, 1: -90}},
			want:   "M21 G90 X-90 Z10.5 F2000",
		},
		{
			name:   "relative rail move",
			target: JointTarget{Angles: map[int]float64{7: 50}, Relative: true},
			want:   "M21 G91 D50 F2000",
		},
		{
			name:   "speed override",
			target: JointTarget{Angles: map[int]float64{2: 30}, Speed: 1000},
			want:   "M21 G90 Y30 F1000",
		},
		{
			name:   "values rounded to two decimals",
			target: JointTarget{Angles: map[int]float64{1: 1.239}},
			want:   "M21 G90 X1.24 F2000",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := encodeJointTarget(tt.target, DefaultSpeed)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cmd.text)
			assert.True(t, cmd.wantAck)
			assert.True(t, cmd.wantIdle)
		})
	}
}

func TestEncodeJointTargetInvalid(t *testing.T) {
	_, err := encodeJointTarget(JointTarget{}, DefaultSpeed)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = encodeJointTarget(JointTarget{Angles: map[int]float64{8: 10}}, DefaultSpeed)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = encodeJointTarget(JointTarget{Angles: map[int]float64{0: 10}}, DefaultSpeed)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = encodeJointTarget(JointTarget{Angles: map[int]float64{1: 10}, Speed: MaxSpeed + 1}, DefaultSpeed)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = encodeJointTarget(JointTarget{Angles: map[int]float64{1: 10}, Speed: -5}, DefaultSpeed)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestEncodeToolPose(t *testing.T) {
	cmd, err := encodeToolPose(ToolPose{X: 200, Z: 150}, DefaultSpeed)
	require.NoError(t, err)
	assert.Equal(t, "M20 G90 G0 X200 Y0 Z150 A0 B0 C0 F2000", cmd.text)

	cmd, err = encodeToolPose(ToolPose{X: 200, Z: 150, Mode: ModeLinear}, DefaultSpeed)
	require.NoError(t, err)
	assert.Equal(t, "M20 G90 G1 X200 Y0 Z150 A0 B0 C0 F2000", cmd.text)

	cmd, err = encodeToolPose(ToolPose{X: 10, Relative: true, Speed: 500}, DefaultSpeed)
	require.NoError(t, err)
	assert.Equal(t, "M20 G91 G0 X10 Y0 Z0 A0 B0 C0 F500", cmd.text)
}

func TestEncodeArc(t *testing.T) {
	cmd, err := encodeArc(CircularArc{EX: 20, EY: 0, Radius: 15, Clockwise: true}, DefaultSpeed)
	require.NoError(t, err)
	assert.Equal(t, "M20 G91 G2 X20 Y0 R15 F2000", cmd.text)

	cmd, err = encodeArc(CircularArc{EX: 0, EY: 10, Radius: 15}, DefaultSpeed)
	require.NoError(t, err)
	assert.Equal(t, "M20 G91 G3 X0 Y10 R15 F2000", cmd.text)
}

func TestEncodeArcGeometry(t *testing.T) {
	// Chord longer than the diameter: no circle exists.
	_, err := encodeArc(CircularArc{EX: 50, EY: 0, Radius: 20}, DefaultSpeed)
	assert.ErrorIs(t, err, ErrGeometry)

	// Chord exactly the diameter is a half circle and fine.
	_, err = encodeArc(CircularArc{EX: 40, EY: 0, Radius: 20}, DefaultSpeed)
	assert.NoError(t, err)

	_, err = encodeArc(CircularArc{EX: 10, EY: 0, Radius: 0}, DefaultSpeed)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = encodeArc(CircularArc{EX: 10, EY: 0, Radius: -5}, DefaultSpeed)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestEncodeLinearAxis(t *testing.T) {
	cmd, err := encodeLinearAxis(LinearAxisTarget{Axis: Slider, Position: 50}, DefaultSpeed)
	require.NoError(t, err)
	assert.Equal(t, "M21 G90 D50 F2000", cmd.text)

	cmd, err = encodeLinearAxis(LinearAxisTarget{Axis: Conveyor, Position: 100, Relative: true}, DefaultSpeed)
	require.NoError(t, err)
	assert.Equal(t, "M22 G91 D100 F2000", cmd.text)

	_, err = encodeLinearAxis(LinearAxisTarget{Axis: LinearAxis(9)}, DefaultSpeed)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestEncodeHoming(t *testing.T) {
	tests := []struct {
		axis       int
		withSlider bool
		inTurn     bool
		want       string
	}{
		{0, false, false, "$H"},
		{0, true, false, "$H0"},
		{0, false, true, "$HH"},
		{3, false, false, "$H3"},
		{7, false, false, "$H7"},
	}
	for _, tt := range tests {
		cmd, err := encodeHoming(tt.axis, tt.withSlider, tt.inTurn)
		require.NoError(t, err)
		assert.Equal(t, tt.want, cmd.text)
		assert.True(t, cmd.homing)
	}

	_, err := encodeHoming(8, false, false)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestEncodeVarAndSpeed(t *testing.T) {
	cmd := encodeVar(varSoftLimit, 1, "soft limit")
	assert.Equal(t, "$20=1", cmd.text)
	assert.True(t, cmd.wantAck)
	assert.False(t, cmd.wantIdle)

	cmd, err := encodeSpeed(1500)
	require.NoError(t, err)
	assert.Equal(t, "F1500", cmd.text)

	_, err = encodeSpeed(0)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = encodeSpeed(MaxSpeed + 1)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}
