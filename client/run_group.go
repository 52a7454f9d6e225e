package client

import (
	"log"
	"sync"

	"github.com/oklog/run"
)

// RunGroup runs a set of RunStop clients as one unit: Run starts every
// client and blocks until a client fails or the group is stopped, at
// which point all clients are shut down. The server uses this to manage
// its built-in clients (metrics, tariff watcher) together.
type RunGroup struct {
	name     string
	clients  []RunStop
	stop     chan struct{}
	stopOnce sync.Once
}

// NewRunGroup creates an empty group with a name used in log output
func NewRunGroup(name string) *RunGroup {
	return &RunGroup{name: name, stop: make(chan struct{})}
}

// Add registers a client. Must be called before Run.
func (g *RunGroup) Add(c RunStop) {
	g.clients = append(g.clients, c)
}

// Run the group until a client returns or Stop is called
func (g *RunGroup) Run() error {
	var group run.Group

	for _, c := range g.clients {
		group.Add(c.Run, c.Stop)
	}

	// keep an empty group alive until stopped
	group.Add(func() error {
		<-g.stop
		return nil
	}, func(_ error) {
		g.Stop(nil)
	})

	err := group.Run()
	log.Printf("%v: stopped\n", g.name)
	return err
}

// Stop shuts all clients down. Safe to call more than once.
func (g *RunGroup) Stop(_ error) {
	g.stopOnce.Do(func() { close(g.stop) })
}
