package client

import (
	"testing"
	"time"
)

type fakeClient struct {
	running chan struct{}
	stop    chan struct{}
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		running: make(chan struct{}),
		stop:    make(chan struct{}),
	}
}

func (c *fakeClient) Run() error {
	close(c.running)
	<-c.stop
	return nil
}

func (c *fakeClient) Stop(_ error) {
	select {
	case <-c.stop:
	default:
		close(c.stop)
	}
}

func TestRunGroup(t *testing.T) {
	g := NewRunGroup("Test clients")

	c1 := newFakeClient()
	c2 := newFakeClient()
	g.Add(c1)
	g.Add(c2)

	done := make(chan error)
	go func() {
		done <- g.Run()
	}()

	for _, c := range []*fakeClient{c1, c2} {
		select {
		case <-c.running:
		case <-time.After(time.Second):
			t.Fatal("Timeout waiting for client to start")
		}
	}

	g.Stop(nil)
	// a second Stop must be harmless
	g.Stop(nil)

	select {
	case err := <-done:
		if err != nil {
			t.Fatal("Error running group: ", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Timeout waiting for group to stop")
	}
}

func TestRunGroupEmpty(t *testing.T) {
	g := NewRunGroup("Empty group")

	done := make(chan error)
	go func() {
		done <- g.Run()
	}()

	g.Stop(nil)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Timeout waiting for empty group to stop")
	}
}
