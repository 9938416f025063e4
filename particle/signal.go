package particle

import (
	"sync"
)

/* signal.go implements the zero-argument change notifications that the
Store delivers to computes: a handler registry with stable ids so that a
compute can disconnect itself when it is destroyed. */

// Connection represents one registered signal handler. Disconnecting it
// removes the handler; disconnecting twice is harmless.
type Connection struct {
	set *signalSet
	id  int
}

// Disconnect removes the handler associated with c.
func (c Connection) Disconnect() {
	if c.set == nil {
		return
	}
	c.set.disconnect(c.id)
}

type signalSet struct {
	mu       sync.Mutex
	nextID   int
	handlers map[int]func()
}

func (sigs *signalSet) connect(f func()) Connection {
	sigs.mu.Lock()
	defer sigs.mu.Unlock()

	if sigs.handlers == nil {
		sigs.handlers = map[int]func(){}
	}
	id := sigs.nextID
	sigs.nextID++
	sigs.handlers[id] = f

	return Connection{sigs, id}
}

func (sigs *signalSet) disconnect(id int) {
	sigs.mu.Lock()
	defer sigs.mu.Unlock()
	delete(sigs.handlers, id)
}

func (sigs *signalSet) emit() {
	sigs.mu.Lock()
	fs := make([]func(), 0, len(sigs.handlers))
	for _, f := range sigs.handlers {
		fs = append(fs, f)
	}
	sigs.mu.Unlock()

	for _, f := range fs {
		f()
	}
}
