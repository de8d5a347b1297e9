// Package monitor provides a periodic status sampling loop for a Mirobot arm.
package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gwillem/mirobot/pkg/mirobot"
)

// Sample is one observed robot state.
type Sample struct {
	State     mirobot.RobotState
	Timestamp time.Time
	Error     error
}

// Controller manages the status sampling loop.
type Controller struct {
	robot *mirobot.Driver
	hz    int

	mu       sync.Mutex
	running  bool
	sampleCh chan Sample
	logCh    chan string
}

// Config holds configuration for the controller.
type Config struct {
	Robot *mirobot.Driver
	Hz    int
}

// NewController creates a new monitoring controller.
func NewController(cfg Config) (*Controller, error) {
	if cfg.Robot == nil {
		return nil, fmt.Errorf("monitor: no robot")
	}
	if cfg.Hz <= 0 {
		cfg.Hz = 10
	}
	return &Controller{
		robot:    cfg.Robot,
		hz:       cfg.Hz,
		sampleCh: make(chan Sample, 1),
		logCh:    make(chan string, 10),
	}, nil
}

// Samples returns a channel that receives state samples.
func (c *Controller) Samples() <-chan Sample {
	return c.sampleCh
}

// Logs returns a channel that receives log messages.
func (c *Controller) Logs() <-chan string {
	return c.logCh
}

// Hz returns the sampling frequency.
func (c *Controller) Hz() int {
	return c.hz
}

func (c *Controller) log(format string, args ...any) {
	msg := fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
	select {
	case c.logCh <- msg:
	default:
		// Drop if channel full
	}
}

// Start begins the sampling loop and blocks until the context is canceled.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return fmt.Errorf("already running")
	}
	c.running = true
	c.mu.Unlock()

	c.log("Monitoring started at %d Hz", c.hz)

	ticker := time.NewTicker(time.Second / time.Duration(c.hz))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.mu.Lock()
			c.running = false
			c.mu.Unlock()
			c.log("Monitoring stopped")
			return ctx.Err()
		case <-ticker.C:
			c.step(ctx)
		}
	}
}

func (c *Controller) step(ctx context.Context) {
	state, err := c.robot.UpdateStatus(ctx)
	if err != nil {
		c.log("Status error: %v", err)
		c.sendSample(Sample{Error: err, Timestamp: time.Now()})
		return
	}
	c.sendSample(Sample{State: state, Timestamp: time.Now()})
}

func (c *Controller) sendSample(s Sample) {
	select {
	case c.sampleCh <- s:
	default:
		// Drop old sample if channel full, replace with new
		select {
		case <-c.sampleCh:
		default:
		}
		c.sampleCh <- s
	}
}
