package api

import (
	"bytes"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

// HTTPLogger logs http requests, optionally dumping request and
// response bodies. Only enabled with the -debugHttp option as report
// downloads make for noisy dumps.
type HTTPLogger struct {
	dumpBody bool
	*log.Logger
}

// NewHTTPLogger returns a http logger
func NewHTTPLogger(prefix string, dumpBody bool) *HTTPLogger {
	return &HTTPLogger{
		dumpBody: dumpBody,
		Logger:   log.New(os.Stdout, prefix, 0),
	}
}

// Handler wraps an HTTP handler and logs the request as necessary.
func (l *HTTPLogger) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var reqBody []byte

		if l.dumpBody {
			reqBody, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewBuffer(reqBody))
		}

		srw := statusResponseWriter{ResponseWriter: w, status: 200}
		if l.dumpBody {
			srw.buf = &bytes.Buffer{}
		}

		start := time.Now()
		next.ServeHTTP(&srw, r)

		if l.dumpBody {
			l.Printf("(%s) \"%s %s\" %d %v -> %v -> %v", r.RemoteAddr,
				r.Method, r.RequestURI, srw.status, time.Since(start),
				string(reqBody), srw.buf.String())
		} else {
			l.Printf("(%s) \"%s %s\" %d %v", r.RemoteAddr,
				r.Method, r.RequestURI, srw.status, time.Since(start))
		}
	})
}

type statusResponseWriter struct {
	http.ResponseWriter
	status int
	buf    *bytes.Buffer
}

func (s *statusResponseWriter) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

func (s *statusResponseWriter) Write(b []byte) (int, error) {
	if s.buf != nil {
		s.buf.Write(b)
	}
	return s.ResponseWriter.Write(b)
}

func (s *statusResponseWriter) Flush() {
	if f, ok := s.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
