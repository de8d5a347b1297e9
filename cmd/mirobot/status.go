package main

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/gwillem/mirobot/pkg/mirobot"
)

type StatusCommand struct{}

func (c *StatusCommand) Execute(args []string) error {
	robot, settings, err := connect()
	if err != nil {
		return err
	}
	defer robot.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := unlockIfNeeded(ctx, robot); err != nil {
		return err
	}
	state, err := robot.UpdateStatus(ctx)
	if err != nil {
		return err
	}

	fmt.Println(headerStyle.Render("Mirobot on " + settings.Port))
	fmt.Println()

	stateStyle := successStyle
	if state.Machine == mirobot.StateAlarm {
		stateStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	}
	fmt.Printf("State: %s\n", stateStyle.Render(state.Machine.String()))
	mode := "absolute"
	if state.Relative {
		mode = "relative"
	}
	fmt.Printf("Mode:  %s\n", mode)
	fmt.Println()

	rows := make([][]string, 0, mirobot.MaxAxis)
	for i, v := range state.Joints {
		axis := i + 1
		unit := "deg"
		name := fmt.Sprintf("joint %d", axis)
		if axis == mirobot.SliderAxis {
			unit = "mm"
			name = "rail"
		}
		if axis == mirobot.SliderAxis && !settings.HasSlider {
			continue
		}
		rows = append(rows, []string{name, fmt.Sprintf("%.3f", v), unit})
	}

	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("Axis", "Position", "Unit").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return cellStyle.Bold(true)
			}
			return cellStyle
		})
	fmt.Println(t.Render())
	fmt.Println()

	p := state.Pose
	fmt.Printf("Tool pose: X %.3f  Y %.3f  Z %.3f mm\n", p.X, p.Y, p.Z)
	fmt.Printf("           Rx %.3f  Ry %.3f  Rz %.3f deg\n", p.Roll, p.Pitch, p.Yaw)
	fmt.Printf("Pump PWM:  %d   Valve PWM: %d\n", state.PumpPWM, state.ValvePWM)

	return nil
}
