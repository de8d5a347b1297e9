// Package transport provides the serial line transport for the Mirobot
// controller, plus port discovery.
package transport

import (
	"bufio"
	"fmt"
	"strings"

	"go.bug.st/serial"
)

// BaudRate is the fixed line speed of the WLKATA controller.
const BaudRate = 115200

// Serial is a line-oriented serial connection. Writes append CRLF; reads
// strip line endings. Not safe for concurrent writers.
type Serial struct {
	port serial.Port
	r    *bufio.Reader
}

// Open opens the named serial port at the controller's fixed 115200 8N1.
func Open(name string) (*Serial, error) {
	port, err := serial.Open(name, &serial.Mode{
		BaudRate: BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return &Serial{port: port, r: bufio.NewReader(port)}, nil
}

// WriteLine sends one command line terminated with CRLF.
func (s *Serial) WriteLine(line string) error {
	_, err := s.port.Write([]byte(line + "\r\n"))
	return err
}

// ReadLine blocks until a full line arrives and returns it without the
// terminator.
func (s *Serial) ReadLine() (string, error) {
	line, err := s.r.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Close closes the underlying port, unblocking any pending ReadLine.
func (s *Serial) Close() error {
	return s.port.Close()
}
