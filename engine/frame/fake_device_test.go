package frame

import (
	"context"
	"sync"
)

// fakeDevice completes tokens only when told to.
type fakeDevice struct {
	mu        sync.Mutex
	next      Token
	completed Token
	changed   chan struct{}
	waitErr   error
	submits   int
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{changed: make(chan struct{})}
}

func (d *fakeDevice) Submit(*CommandList) (Token, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.next++
	d.submits++
	return d.next, nil
}

func (d *fakeDevice) HasCompleted(t Token) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return t <= d.completed
}

func (d *fakeDevice) WaitFor(ctx context.Context, t Token) error {
	for {
		d.mu.Lock()
		if d.waitErr != nil {
			err := d.waitErr
			d.mu.Unlock()
			return err
		}
		if t <= d.completed {
			d.mu.Unlock()
			return nil
		}
		ch := d.changed
		d.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// complete marks every token up to t as done.
func (d *fakeDevice) complete(t Token) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t > d.completed {
		d.completed = t
	}
	close(d.changed)
	d.changed = make(chan struct{})
}

func (d *fakeDevice) lose(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.waitErr = err
	close(d.changed)
	d.changed = make(chan struct{})
}

func (d *fakeDevice) submitted() Token {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.next
}
