package api

import (
	"net/http"

	"github.com/nats-io/nats.go"
	"github.com/solarninja/solarninja/client"
)

// Auth handles user authentication requests.
type Auth struct {
	nc *nats.Conn
}

// NewAuthHandler returns a new authentication handler
func NewAuthHandler(nc *nats.Conn) Auth {
	return Auth{nc: nc}
}

// ServeHTTP serves requests to authenticate.
func (auth Auth) ServeHTTP(res http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		http.Error(res, "only POST allowed", http.StatusMethodNotAllowed)
		return
	}

	email := req.FormValue("email")
	password := req.FormValue("password")

	ret, err := client.UserAuth(auth.nc, email, password)
	if err != nil {
		http.Error(res, "invalid login", http.StatusForbidden)
		return
	}

	encode(res, ret)
}
