// package device provides frame.Device implementations. Headless runs submissions on a worker
// pool without any graphics API and is used by tests, tools and the headless example program.
package device

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-frame/engine/frame"
	"github.com/Carmen-Shannon/oxy-frame/engine/logging"
	"github.com/charmbracelet/log"
)

// ErrUnknownToken is returned by WaitFor for a token that was never handed out.
var ErrUnknownToken = errors.New("device: unknown token")

// Executor consumes the commands of one submission on the device timeline. A returned error
// loses the device.
type Executor func(token frame.Token, commands []frame.Command) error

// Headless is a frame.Device whose timeline is a worker pool. Submissions complete strictly in
// order. Hold and Release pause the timeline so callers can observe backpressure.
type Headless interface {
	frame.Device

	// Present counts a presented frame.
	//
	// Returns:
	//   - error: a device-fatal error once the device is lost
	Present() error

	// Hold pauses the timeline before the next submission starts executing.
	Hold()

	// Release resumes a held timeline.
	Release()

	// Lose marks the device lost with cause. Pending and later waits fail with a device-fatal error.
	//
	// Parameters:
	//   - cause: the loss reason, typically frame.ErrDeviceLost
	Lose(cause error)

	// Presents returns the number of presented frames.
	Presents() uint64

	// Submitted returns the newest token handed out.
	Submitted() frame.Token

	// Completed returns the newest completed token.
	Completed() frame.Token
}

// headless is the implementation of the Headless interface.
type headless struct {
	mu   sync.Mutex
	cond *sync.Cond

	pool    worker.DynamicWorkerPool
	workers int

	next      frame.Token
	completed frame.Token
	done      map[frame.Token]chan struct{}
	tail      chan struct{}
	held      bool
	lost      error
	// lostCh is closed once lost is set.
	lostCh chan struct{}

	latency  time.Duration
	executor Executor
	presents atomic.Uint64
	logger   *log.Logger
}

var _ Headless = &headless{}

// NewHeadless creates a headless device.
//
// Parameters:
//   - options: a variadic list of HeadlessBuilderOption functions
//
// Returns:
//   - Headless: the device, ready for submissions
func NewHeadless(options ...HeadlessBuilderOption) Headless {
	d := &headless{
		workers: 1,
		done:    make(map[frame.Token]chan struct{}),
		lostCh:  make(chan struct{}),
	}
	d.cond = sync.NewCond(&d.mu)
	for _, opt := range options {
		opt(d)
	}
	if d.logger == nil {
		d.logger = logging.With("headless")
	}
	d.pool = worker.NewDynamicWorkerPool(max(d.workers, 1), 64, time.Second)
	return d
}

func (d *headless) Submit(cmd *frame.CommandList) (frame.Token, error) {
	d.mu.Lock()
	if d.lost != nil {
		err := d.lost
		d.mu.Unlock()
		return 0, frame.Fatal("submit", err)
	}

	d.next++
	token := d.next
	ch := make(chan struct{})
	d.done[token] = ch
	prev := d.tail
	d.tail = ch

	var commands []frame.Command
	if cmd != nil {
		commands = append(commands, cmd.Commands()...)
	}
	d.mu.Unlock()

	d.pool.SubmitTask(worker.Task{
		ID: int(token),
		Do: func() (any, error) {
			defer close(ch)
			if prev != nil {
				<-prev
			}
			err := d.execute(token, commands)
			d.finish(token, err)
			return token, err
		},
	})
	return token, nil
}

func (d *headless) execute(token frame.Token, commands []frame.Command) error {
	d.mu.Lock()
	for d.held && d.lost == nil {
		d.cond.Wait()
	}
	lost := d.lost
	d.mu.Unlock()
	if lost != nil {
		return lost
	}

	if d.latency > 0 {
		time.Sleep(d.latency)
	}
	if d.executor != nil {
		return d.executor(token, commands)
	}
	return nil
}

func (d *headless) finish(token frame.Token, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.done, token)
	if err != nil {
		if d.lost == nil {
			d.setLost(err)
			d.logger.Error("device lost", "token", token, "err", err)
		}
		return
	}
	if d.lost == nil {
		d.completed = token
	}
}

func (d *headless) HasCompleted(t frame.Token) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return t <= d.completed
}

func (d *headless) WaitFor(ctx context.Context, t frame.Token) error {
	d.mu.Lock()
	if t <= d.completed {
		d.mu.Unlock()
		return nil
	}
	if d.lost != nil {
		err := d.lost
		d.mu.Unlock()
		return frame.Fatal("wait", err)
	}
	if t > d.next {
		d.mu.Unlock()
		return fmt.Errorf("%w: %d, newest %d", ErrUnknownToken, t, d.next)
	}
	ch := d.done[t]
	d.mu.Unlock()

	if ch != nil {
		select {
		case <-ch:
		case <-d.lostCh:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if t <= d.completed {
		return nil
	}
	if d.lost != nil {
		return frame.Fatal("wait", d.lost)
	}
	return fmt.Errorf("%w: %d did not complete", ErrUnknownToken, t)
}

func (d *headless) Present() error {
	d.mu.Lock()
	lost := d.lost
	d.mu.Unlock()
	if lost != nil {
		return frame.Fatal("present", lost)
	}
	d.presents.Add(1)
	return nil
}

func (d *headless) Hold() {
	d.mu.Lock()
	d.held = true
	d.mu.Unlock()
}

func (d *headless) Release() {
	d.mu.Lock()
	d.held = false
	d.mu.Unlock()
	d.cond.Broadcast()
}

func (d *headless) Lose(cause error) {
	if cause == nil {
		cause = frame.ErrDeviceLost
	}
	d.mu.Lock()
	if d.lost == nil {
		d.setLost(cause)
	}
	pending := len(d.done)
	d.mu.Unlock()
	// held submissions stop waiting for Release once lost is set
	d.cond.Broadcast()
	d.logger.Warn("device marked lost", "err", cause, "pending", pending)
}

// setLost records the loss and releases every waiter. d.mu must be held and lost must be nil.
func (d *headless) setLost(err error) {
	d.lost = err
	close(d.lostCh)
}

func (d *headless) Presents() uint64 {
	return d.presents.Load()
}

func (d *headless) Submitted() frame.Token {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.next
}

func (d *headless) Completed() frame.Token {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.completed
}
