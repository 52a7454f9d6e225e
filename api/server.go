package api

import (
	"context"
	"log"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
)

// ServerArgs can be used to configure the API server
type ServerArgs struct {
	Port    string
	Debug   bool
	JwtAuth Authorizer
	Nc      *nats.Conn
}

// Server represents the HTTP API server
type Server struct {
	args       ServerArgs
	httpServer *http.Server
}

// NewServer creates a new API server
func NewServer(args ServerArgs) *Server {
	return &Server{args: args}
}

// Start the api server and block until stopped
func (s *Server) Start() error {
	a := s.args

	mux := http.NewServeMux()

	mux.Handle("/auth", NewAuthHandler(a.Nc))
	mux.Handle("/v1/", http.StripPrefix("/v1", &V1{
		SitesHandler:     NewSitesHandler(a.Nc),
		EstimatesHandler: NewEstimatesHandler(a.Nc),
		Auth:             a.JwtAuth,
	}))

	var handler http.Handler = mux

	log.Println("HTTP: starting API server on port", a.Port)

	if a.Debug {
		handler = NewHTTPLogger("HTTP: ", true).Handler(handler)
	}

	s.httpServer = &http.Server{
		Addr:    ":" + a.Port,
		Handler: handler,
	}

	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}

	return err
}

// Stop the api server
func (s *Server) Stop(_ error) {
	if s.httpServer == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Println("HTTP: error shutting down: ", err)
	}
}

// V1 handles v1 api requests
type V1 struct {
	SitesHandler     http.Handler
	EstimatesHandler http.Handler
	Auth             Authorizer
}

// ServeHTTP routes v1 requests after checking authorization
func (h *V1) ServeHTTP(res http.ResponseWriter, req *http.Request) {
	if !h.Auth.Valid(req) {
		http.Error(res, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var head string
	head, req.URL.Path = ShiftPath(req.URL.Path)

	switch head {
	case "sites":
		h.SitesHandler.ServeHTTP(res, req)
	case "estimates":
		h.EstimatesHandler.ServeHTTP(res, req)
	default:
		http.Error(res, "Not Found", http.StatusNotFound)
	}
}

// ShiftPath splits off the first component of p, which will be cleaned of
// relative components before processing. head will never contain a slash and
// tail will always be a rooted path without trailing slash.
func ShiftPath(p string) (head, tail string) {
	p = path.Clean("/" + p)
	i := strings.Index(p[1:], "/") + 1
	if i <= 0 {
		return p[1:], "/"
	}
	return p[1:i], p[i:]
}
