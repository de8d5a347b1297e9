package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/gwillem/mirobot/pkg/mirobot"
	"github.com/gwillem/mirobot/pkg/transport"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type SetupCommand struct {
	Timeout int `long:"timeout" default:"3" description:"Per-port probe timeout in seconds"`
}

func (c *SetupCommand) Execute(args []string) error {
	fmt.Println(headerStyle.Render("Mirobot Setup"))
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━"))
	fmt.Println()

	fmt.Println("Scanning serial ports for a Mirobot...")
	ports, err := transport.Discover(time.Duration(c.Timeout) * time.Second)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing ports: %v\n", err)
		os.Exit(1)
	}
	if len(ports) == 0 {
		fmt.Println("No Mirobot found.")
		fmt.Println("Make sure the arm is connected and powered on.")
		os.Exit(1)
	}

	port := ports[0]
	if len(ports) > 1 {
		var options []huh.Option[string]
		for _, p := range ports {
			options = append(options, huh.NewOption(p, p))
		}
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Multiple Mirobots found. Which port?").
					Options(options...).
					Value(&port),
			),
		)
		if err := form.Run(); err != nil {
			return err
		}
	}
	fmt.Println(successStyle.Render("Found Mirobot on " + port))
	fmt.Println()

	settings := &mirobot.Settings{Port: port, DefaultSpeed: mirobot.DefaultSpeed}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Is a slide rail attached?").
				Value(&settings.HasSlider),
			huh.NewSelect[mirobot.Tool]().
				Title("Which end effector is mounted?").
				Options(
					huh.NewOption("None", mirobot.NoTool),
					huh.NewOption("Suction cup", mirobot.SuctionCup),
					huh.NewOption("Gripper", mirobot.Gripper),
					huh.NewOption("Flexible claw", mirobot.FlexibleClaw),
				).
				Value(&settings.Tool),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	if err := settings.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving settings: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━━━━━━━━━"))
	fmt.Println(successStyle.Render("Setup complete!"))
	fmt.Printf("Settings saved to %s\n", mirobot.DefaultSettingsFile)
	fmt.Println()
	fmt.Println("Home the arm with: " + headerStyle.Render("mirobot home"))

	return nil
}
