package server

import (
	"context"
	"fmt"
	"log"
	"os/exec"
	"time"

	"github.com/nats-io/nats.go"
)

var testServerOptions = Options{
	StoreFile:    "test.sqlite",
	NatsPort:     4990,
	HTTPPort:     "8990",
	NatsHTTPPort: 8991,
	NatsServer:   "nats://localhost:4990",
	DisableAuth:  true,
}

// TestServer starts a test server and returns a function to stop it
func TestServer() (*nats.Conn, func(), error) {
	exec.Command("sh", "-c", "rm test.sqlite*").Run()
	s, nc, err := NewServer(testServerOptions)

	if err != nil {
		return nil, nil, fmt.Errorf("Error starting test server: %v", err)
	}

	stopped := make(chan struct{})

	go func() {
		err := s.Run()
		if err != nil {
			log.Println("Test server Run returned: ", err)
		}
		close(stopped)
	}()

	stop := func() {
		s.Stop(nil)
		<-stopped
		exec.Command("sh", "-c", "rm test.sqlite*").Run()
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	err = s.WaitStart(ctx)
	cancel()
	if err != nil {
		return nil, stop, fmt.Errorf("Error waiting for test server to start: %v", err)
	}

	return nc, stop, nil
}
