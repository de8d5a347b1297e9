package mirobot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Transport is the byte-stream boundary the driver talks through. The serial
// implementation lives in pkg/transport; tests substitute a channel-backed
// fake. ReadLine blocks until a full line arrives or the transport closes.
type Transport interface {
	WriteLine(line string) error
	ReadLine() (string, error)
	Close() error
}

// slot is the single in-flight command awaiting acknowledgment. At most one
// exists per driver; enforced by the dispatcher mutex.
type slot struct {
	ackCh chan error // buffered 1; nil = ok, non-nil = controller error
}

// dispatcher owns the protocol state machine for one physical link: the
// single command slot, the background reader, and the locked/ready latch.
type dispatcher struct {
	t     Transport
	cache *stateCache
	log   *slog.Logger

	ackTimeout   time.Duration
	idleTimeout  time.Duration
	pollInterval time.Duration
	nonBlocking  bool

	mu sync.Mutex // the command slot; held from write until resolution

	pendingMu sync.Mutex
	pending   *slot
	owed      int // replies still due to commands whose ack wait gave up

	ready  atomic.Bool // false until a homing or unlock command succeeds
	closed atomic.Bool

	statusCh chan StatusRecord // latest status, drop-old semantics
	done     chan struct{}
}

func newDispatcher(t Transport, cache *stateCache, log *slog.Logger, cfg Config) *dispatcher {
	d := &dispatcher{
		t:            t,
		cache:        cache,
		log:          log,
		ackTimeout:   cfg.AckTimeout,
		idleTimeout:  cfg.IdleTimeout,
		pollInterval: cfg.PollInterval,
		nonBlocking:  cfg.NonBlocking,
		statusCh:     make(chan StatusRecord, 1),
		done:         make(chan struct{}),
	}
	go d.readLoop()
	return d
}

// readLoop continuously classifies incoming lines and posts results to
// whichever wait is pending: acks and errors resolve the command slot,
// status records update the cache and feed the idle waiter.
func (d *dispatcher) readLoop() {
	defer close(d.done)
	for {
		line, err := d.t.ReadLine()
		if err != nil {
			return
		}
		switch r := classify(line); r.kind {
		case replyAck:
			d.resolve(nil)
		case replyError:
			d.resolve(fmt.Errorf("%w: %s", ErrProtocol, r.message))
		case replyStatus:
			if r.err != nil {
				// Non-fatal; the cache keeps its previous snapshot and the
				// next valid line self-heals.
				d.log.Warn("dropping status line", "err", r.err)
				continue
			}
			if r.status.State == StateAlarm {
				d.ready.Store(false)
			}
			d.cache.apply(r.status)
			d.publishStatus(r.status)
		case replyReset:
			d.ready.Store(false)
			d.pendingMu.Lock()
			d.owed = 0 // the firmware restarted; owed replies will never come
			d.pendingMu.Unlock()
			d.log.Warn("controller reset detected")
		default:
			if line != "" {
				d.log.Debug("unrecognized line", "line", line)
			}
		}
	}
}

func (d *dispatcher) resolve(err error) {
	d.pendingMu.Lock()
	if d.owed > 0 {
		// The controller answers in submission order, so this reply belongs
		// to a command whose wait already gave up, not to the pending one.
		d.owed--
		d.pendingMu.Unlock()
		d.log.Debug("dropping reply owed to a timed-out command")
		return
	}
	s := d.pending
	d.pending = nil
	d.pendingMu.Unlock()
	if s == nil {
		return // stray ok, e.g. from a command we stopped waiting on
	}
	s.ackCh <- err
}

func (d *dispatcher) arm() *slot {
	s := &slot{ackCh: make(chan error, 1)}
	d.pendingMu.Lock()
	d.pending = s
	d.pendingMu.Unlock()
	return s
}

func (d *dispatcher) disarm(s *slot) {
	d.pendingMu.Lock()
	if d.pending == s {
		d.pending = nil
	}
	d.pendingMu.Unlock()
}

// abandon releases a slot whose wait gave up. The command was written, so
// its reply may still arrive; it must not ack the next command.
func (d *dispatcher) abandon(s *slot) {
	d.pendingMu.Lock()
	if d.pending == s {
		d.pending = nil
		d.owed++
	}
	d.pendingMu.Unlock()
}

// publishStatus keeps only the latest record, mirroring a drop-old channel:
// a slow waiter sees the freshest state, never a backlog.
func (d *dispatcher) publishStatus(rec StatusRecord) {
	select {
	case d.statusCh <- rec:
	default:
		select {
		case <-d.statusCh:
		default:
		}
		d.statusCh <- rec
	}
}

// submit admits one command into the slot and runs its handshake. Commands
// are processed by the controller in submission order because no second
// command is admitted while one is outstanding.
func (d *dispatcher) submit(ctx context.Context, cmd command) error {
	if !d.ready.Load() && !cmd.force {
		return fmt.Errorf("%s: %w", cmd.origin, ErrNotReady)
	}
	if d.nonBlocking {
		if !d.mu.TryLock() {
			return fmt.Errorf("%s: %w", cmd.origin, ErrBusy)
		}
	} else {
		d.mu.Lock()
	}
	defer d.mu.Unlock()

	// Re-check after acquiring the slot: a prior command may have tripped an
	// alarm while we were queued.
	if !d.ready.Load() && !cmd.force {
		return fmt.Errorf("%s: %w", cmd.origin, ErrNotReady)
	}

	var s *slot
	if cmd.wantAck {
		s = d.arm()
		defer d.disarm(s)
	}
	if err := d.t.WriteLine(cmd.text); err != nil {
		return fmt.Errorf("%s: write: %w", cmd.origin, err)
	}

	if cmd.wantAck {
		select {
		case err := <-s.ackCh:
			if err != nil {
				return fmt.Errorf("%s: %w", cmd.origin, err)
			}
		case <-time.After(d.ackTimeout):
			d.abandon(s)
			return fmt.Errorf("%s: ack: %w", cmd.origin, ErrTimeout)
		case <-ctx.Done():
			d.abandon(s)
			return fmt.Errorf("%s: %w", cmd.origin, ctx.Err())
		}
	}
	if cmd.wantIdle {
		if err := d.waitUntilIdle(ctx); err != nil {
			return fmt.Errorf("%s: %w", cmd.origin, err)
		}
	}
	if cmd.homing {
		d.ready.Store(true)
	}
	return nil
}

// waitUntilIdle polls the controller state at a bounded interval until it
// reports Idle or Alarm. A local timeout only abandons the wait; bytes
// already written will still execute on the arm.
func (d *dispatcher) waitUntilIdle(ctx context.Context) error {
	// Discard any record that predates this wait; completion evidence must
	// come from this command's own polls.
	select {
	case <-d.statusCh:
	default:
	}
	deadline := time.After(d.idleTimeout)
	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	for {
		if err := d.t.WriteLine(cmdStatusQuery); err != nil {
			return fmt.Errorf("status query: %w", err)
		}
		var rec StatusRecord
		got := false
		select {
		case rec = <-d.statusCh:
			got = true
		case <-time.After(d.pollInterval):
			// Reply lost or delayed; query again.
		case <-deadline:
			return fmt.Errorf("idle wait: %w", ErrTimeout)
		case <-ctx.Done():
			return ctx.Err()
		}
		if got {
			switch rec.State {
			case StateIdle:
				return nil
			case StateAlarm:
				d.ready.Store(false)
				return ErrAlarm
			}
			// Busy, Home or Unknown: keep polling, paced by the ticker.
			select {
			case <-ticker.C:
			case <-deadline:
				return fmt.Errorf("idle wait: %w", ErrTimeout)
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// queryStatus requests one fresh status record through the command slot so
// it cannot interleave with a command in flight.
func (d *dispatcher) queryStatus(ctx context.Context) (StatusRecord, error) {
	if d.nonBlocking {
		if !d.mu.TryLock() {
			return StatusRecord{}, fmt.Errorf("status query: %w", ErrBusy)
		}
	} else {
		d.mu.Lock()
	}
	defer d.mu.Unlock()

	// Drain a stale record so we return one produced by this query.
	select {
	case <-d.statusCh:
	default:
	}
	deadline := time.After(d.ackTimeout)
	for {
		if err := d.t.WriteLine(cmdStatusQuery); err != nil {
			return StatusRecord{}, fmt.Errorf("status query: write: %w", err)
		}
		select {
		case rec := <-d.statusCh:
			return rec, nil
		case <-time.After(d.pollInterval):
		case <-deadline:
			return StatusRecord{}, fmt.Errorf("status query: %w", ErrTimeout)
		case <-ctx.Done():
			return StatusRecord{}, ctx.Err()
		}
	}
}

func (d *dispatcher) close() error {
	if d.closed.Swap(true) {
		return nil
	}
	err := d.t.Close()
	<-d.done
	return err
}
