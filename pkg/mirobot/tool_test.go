package mirobot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGripperPWM(t *testing.T) {
	pwm, err := gripperPWM(0)
	require.NoError(t, err)
	assert.Equal(t, GripperClosePWM, pwm)

	pwm, err = gripperPWM(GripperMaxSpacing)
	require.NoError(t, err)
	assert.Equal(t, GripperOpenPWM, pwm)

	mid, err := gripperPWM(15)
	require.NoError(t, err)
	assert.Greater(t, mid, GripperOpenPWM)
	assert.Less(t, mid, GripperClosePWM)
}

func TestGripperPWMMonotonic(t *testing.T) {
	prev, err := gripperPWM(0)
	require.NoError(t, err)
	for mm := 3.0; mm <= GripperMaxSpacing; mm += 3 {
		pwm, err := gripperPWM(mm)
		require.NoError(t, err)
		assert.LessOrEqual(t, pwm, prev, "spacing %v", mm)
		prev = pwm
	}
}

func TestGripperPWMRange(t *testing.T) {
	_, err := gripperPWM(-1)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = gripperPWM(GripperMaxSpacing + 0.1)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestToolOffsets(t *testing.T) {
	assert.Equal(t, Offset{}, NoTool.Offset())
	assert.NotEqual(t, Offset{}, SuctionCup.Offset())
	assert.NotEqual(t, SuctionCup.Offset(), Gripper.Offset())
}

func TestToolString(t *testing.T) {
	assert.Equal(t, "gripper", Gripper.String())
	assert.Equal(t, "none", NoTool.String())
	assert.True(t, FlexibleClaw.valid())
	assert.False(t, Tool(9).valid())
}
