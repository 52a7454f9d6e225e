package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/solarninja/solarninja/data"
)

// Response is the wire envelope the store replies with
type Response struct {
	Error  string          `json:"error,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
}

// EncodeResponse builds a reply payload from a result value and error
func EncodeResponse(result any, err error) []byte {
	var resp Response

	if err != nil {
		resp.Error = err.Error()
	} else if result != nil {
		b, err := json.Marshal(result)
		if err != nil {
			resp.Error = fmt.Sprintf("error encoding result: %v", err)
		} else {
			resp.Result = b
		}
	}

	b, err := json.Marshal(resp)
	if err != nil {
		// envelope of strings/raw JSON, should never happen
		return []byte(`{"error":"error encoding response"}`)
	}

	return b
}

// requestTimeout is used for simple store lookups. Estimate runs sweep
// 91 tilts over a year of hours and get a longer timeout.
var requestTimeout = time.Second * 5

// EstimateRunTimeout bounds how long an estimate run may take
var EstimateRunTimeout = time.Second * 60

func request(nc *nats.Conn, subject string, req any,
	timeout time.Duration, result any) error {

	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("error encoding %v request: %v", subject, err)
	}

	msg, err := nc.Request(subject, payload, timeout)
	if err != nil {
		return fmt.Errorf("%v request error: %w", subject, err)
	}

	var resp Response
	err = json.Unmarshal(msg.Data, &resp)
	if err != nil {
		return fmt.Errorf("error decoding %v response: %v", subject, err)
	}

	if resp.Error != "" {
		// map well-known errors back to sentinels
		switch resp.Error {
		case data.ErrSiteNotFound.Error():
			return data.ErrSiteNotFound
		case data.ErrEstimateNotFound.Error():
			return data.ErrEstimateNotFound
		}

		return errors.New(resp.Error)
	}

	if result != nil && len(resp.Result) > 0 {
		err = json.Unmarshal(resp.Result, result)
		if err != nil {
			return fmt.Errorf("error decoding %v result: %v", subject, err)
		}
	}

	return nil
}
