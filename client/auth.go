package client

import (
	"github.com/nats-io/nats.go"
	"github.com/solarninja/solarninja/data"
)

// UserAuthRequest carries login credentials
type UserAuthRequest struct {
	Email string `json:"email"`
	Pass  string `json:"pass"`
}

// UserAuth exchanges credentials for an auth token
func UserAuth(nc *nats.Conn, email, pass string) (data.Auth, error) {
	var ret data.Auth
	err := request(nc, SubjectAuthUser,
		UserAuthRequest{Email: email, Pass: pass}, requestTimeout, &ret)
	return ret, err
}

// AdminStoreVerify asks the store to run sanity checks
func AdminStoreVerify(nc *nats.Conn) error {
	return request(nc, SubjectAdminStoreVerify, nil, requestTimeout, nil)
}
