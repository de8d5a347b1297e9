package transport

import (
	"strings"
	"time"

	"go.bug.st/serial"
)

// Banner substrings the controller prints after a reset.
var bannerMarks = []string{"WLKATA", "Qinnew", "QinnewRobot"}

// ListPorts returns the serial port names worth probing, with macOS
// Bluetooth pseudo-ports filtered out.
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, err
	}
	var out []string
	for _, p := range ports {
		if strings.Contains(p, "Bluetooth") {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// Probe reports whether a Mirobot controller answers on the named port. It
// resets the controller and watches for the firmware banner.
func Probe(name string, timeout time.Duration) bool {
	s, err := Open(name)
	if err != nil {
		return false
	}
	defer s.Close()

	if err := s.WriteLine("%"); err != nil {
		return false
	}

	found := make(chan bool, 1)
	go func() {
		for {
			line, err := s.ReadLine()
			if err != nil {
				found <- false
				return
			}
			for _, mark := range bannerMarks {
				if strings.Contains(line, mark) {
					found <- true
					return
				}
			}
		}
	}()
	select {
	case ok := <-found:
		return ok
	case <-time.After(timeout):
		return false
	}
}

// Discover probes every candidate port and returns those with a Mirobot
// attached.
func Discover(timeout time.Duration) ([]string, error) {
	ports, err := ListPorts()
	if err != nil {
		return nil, err
	}
	var out []string
	for _, p := range ports {
		if Probe(p, timeout) {
			out = append(out, p)
		}
	}
	return out, nil
}
