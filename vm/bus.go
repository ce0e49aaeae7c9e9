package vm

import (
	"context"
	"sync"
)

// Bus connects a fixed number of machines through unbounded FIFO pipes.
//
// Receivers block while their pipe is empty. When every party still on
// the bus is blocked on an empty pipe, nothing can ever be sent again and
// all receivers fail with ErrDeadlock.
type Bus struct {
	mu    sync.Mutex
	cond  *sync.Cond
	pipes []*Pipe
	live  int
	err   error
}

// NewBus creates a bus for the given number of parties.
func NewBus(parties int) *Bus {
	b := &Bus{live: parties}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Pipe creates a new link on the bus.
func (b *Bus) Pipe() *Pipe {
	b.mu.Lock()
	defer b.mu.Unlock()

	p := &Pipe{bus: b}
	b.pipes = append(b.pipes, p)
	return p
}

// Leave removes one party from the bus. Call it once a machine attached
// to the bus has stopped running.
func (b *Bus) Leave() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.live--
	b.check()
}

// Err returns the error the bus failed with, if any.
func (b *Bus) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}

// check fails the bus if every live party is blocked on an empty pipe.
// b.mu must be held.
func (b *Bus) check() {
	if b.err != nil {
		return
	}

	var blocked int
	for _, p := range b.pipes {
		if len(p.queue) == 0 {
			blocked += p.waiting
		}
	}

	if blocked > 0 && blocked >= b.live {
		b.err = ErrDeadlock
		b.cond.Broadcast()
	}
}

// Pipe is a FIFO link between two machines on a bus.
// Send never blocks; Recv blocks until a value is available.
type Pipe struct {
	bus     *Bus
	queue   []int64
	waiting int
	sent    int
}

// Send appends v to the pipe.
func (p *Pipe) Send(_ context.Context, v int64) error {
	b := p.bus
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.err != nil {
		return b.err
	}

	p.queue = append(p.queue, v)
	p.sent++
	b.cond.Broadcast()
	return nil
}

// Recv removes and returns the oldest value in the pipe, blocking until
// one is available, the bus deadlocks or ctx is done.
func (p *Pipe) Recv(ctx context.Context) (int64, error) {
	b := p.bus

	stop := context.AfterFunc(ctx, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.cond.Broadcast()
	})
	defer stop()

	b.mu.Lock()
	defer b.mu.Unlock()

	for len(p.queue) == 0 {
		if b.err != nil {
			return 0, b.err
		}
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		p.waiting++
		b.check()
		if b.err != nil {
			p.waiting--
			return 0, b.err
		}
		b.cond.Wait()
		p.waiting--
	}

	v := p.queue[0]
	p.queue = p.queue[1:]
	return v, nil
}

// Sent returns the number of values ever sent through p.
func (p *Pipe) Sent() int {
	p.bus.mu.Lock()
	defer p.bus.mu.Unlock()
	return p.sent
}

// Len returns the number of values waiting in p.
func (p *Pipe) Len() int {
	p.bus.mu.Lock()
	defer p.bus.mu.Unlock()
	return len(p.queue)
}
