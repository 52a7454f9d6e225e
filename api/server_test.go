package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/solarninja/solarninja/data"
	"github.com/solarninja/solarninja/server"
)

const apiURL = "http://localhost:8990"

func httpJSON(t *testing.T, method, path string, body, result any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal("Error encoding request: ", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, apiURL+path, reader)
	if err != nil {
		t.Fatal("Error creating request: ", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal("Error sending request: ", err)
	}
	defer resp.Body.Close()

	if result != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			t.Fatal("Error decoding response: ", err)
		}
	}

	return resp
}

func TestAPISites(t *testing.T) {
	_, stop, err := server.TestServer()
	if err != nil {
		t.Fatal("Error starting test server: ", err)
	}
	defer stop()

	var site data.Site
	resp := httpJSON(t, "POST", "/v1/sites",
		data.Site{Description: "Kyiv rooftop", Lat: 50.45, Lon: 30.52},
		&site)

	if resp.StatusCode != http.StatusOK {
		t.Fatal("Error creating site, status: ", resp.StatusCode)
	}

	if site.ID == "" {
		t.Fatal("Expected site ID to be assigned")
	}

	var got data.Site
	resp = httpJSON(t, "GET", "/v1/sites/"+site.ID, nil, &got)
	if resp.StatusCode != http.StatusOK {
		t.Fatal("Error getting site, status: ", resp.StatusCode)
	}

	if got.Description != "Kyiv rooftop" {
		t.Error("Unexpected description: ", got.Description)
	}

	// update via PUT
	got.Description = "Kyiv rooftop east wing"
	resp = httpJSON(t, "PUT", "/v1/sites/"+site.ID, got, &got)
	if resp.StatusCode != http.StatusOK {
		t.Fatal("Error updating site, status: ", resp.StatusCode)
	}

	var sites []data.Site
	resp = httpJSON(t, "GET", "/v1/sites", nil, &sites)
	if resp.StatusCode != http.StatusOK {
		t.Fatal("Error listing sites, status: ", resp.StatusCode)
	}

	if len(sites) != 1 || sites[0].Description != "Kyiv rooftop east wing" {
		t.Error("Unexpected site list: ", sites)
	}

	resp = httpJSON(t, "DELETE", "/v1/sites/"+site.ID, nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatal("Error deleting site, status: ", resp.StatusCode)
	}

	resp = httpJSON(t, "GET", "/v1/sites/"+site.ID, nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Error("Expected 404 after delete, got: ", resp.StatusCode)
	}
}

func TestAPISiteValidation(t *testing.T) {
	_, stop, err := server.TestServer()
	if err != nil {
		t.Fatal("Error starting test server: ", err)
	}
	defer stop()

	resp := httpJSON(t, "POST", "/v1/sites", data.Site{Lat: 200}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Error("Expected 400 for invalid site, got: ", resp.StatusCode)
	}
}

func TestAPIEstimates(t *testing.T) {
	_, stop, err := server.TestServer()
	if err != nil {
		t.Fatal("Error starting test server: ", err)
	}
	defer stop()

	var site data.Site
	resp := httpJSON(t, "POST", "/v1/sites",
		data.Site{Description: "test", Lat: 50.45, Lon: 30.52}, &site)
	if resp.StatusCode != http.StatusOK {
		t.Fatal("Error creating site, status: ", resp.StatusCode)
	}

	var est data.Estimate
	resp = httpJSON(t, "POST", "/v1/sites/"+site.ID+"/estimates",
		data.EstimateRequest{
			System:     data.System{PowerKW: 5, Tilt: 30},
			CapexPerKW: 1000,
			Tariff:     &data.Tariff{RatePerKWh: 0.15},
		}, &est)

	if resp.StatusCode != http.StatusOK {
		t.Fatal("Error running estimate, status: ", resp.StatusCode)
	}

	if est.AnnualKWh <= 0 {
		t.Error("Expected positive annual energy, got: ", est.AnnualKWh)
	}

	var got data.Estimate
	resp = httpJSON(t, "GET", "/v1/estimates/"+est.ID, nil, &got)
	if resp.StatusCode != http.StatusOK {
		t.Fatal("Error getting estimate, status: ", resp.StatusCode)
	}

	if got.ID != est.ID {
		t.Error("Unexpected estimate: ", got.ID)
	}

	// listing filtered by site
	var ests []data.Estimate
	resp = httpJSON(t, "GET", "/v1/estimates?site="+url.QueryEscape(site.ID),
		nil, &ests)
	if resp.StatusCode != http.StatusOK {
		t.Fatal("Error listing estimates, status: ", resp.StatusCode)
	}

	if len(ests) != 1 {
		t.Error("Expected 1 estimate, got: ", len(ests))
	}

	// PDF report download
	resp, err = http.Get(apiURL + "/v1/estimates/" + est.ID + "/report")
	if err != nil {
		t.Fatal("Error getting report: ", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatal("Error getting report, status: ", resp.StatusCode)
	}

	if ct := resp.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Error("Unexpected report content type: ", ct)
	}

	pdf, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal("Error reading report: ", err)
	}

	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Error("Report does not look like a PDF")
	}

	// CSV report download
	resp, err = http.Get(apiURL + "/v1/estimates/" + est.ID + "/report.csv")
	if err != nil {
		t.Fatal("Error getting CSV report: ", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatal("Error getting CSV report, status: ", resp.StatusCode)
	}

	csv, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal("Error reading CSV report: ", err)
	}

	if !strings.HasPrefix(string(csv), "month,kwh,best_tilt") {
		t.Error("Unexpected CSV report: ", string(csv))
	}
}

func TestAPIAuth(t *testing.T) {
	_, stop, err := server.TestServer()
	if err != nil {
		t.Fatal("Error starting test server: ", err)
	}
	defer stop()

	resp, err := http.PostForm(apiURL+"/auth", url.Values{
		"email":    {"admin@admin.com"},
		"password": {"admin"},
	})
	if err != nil {
		t.Fatal("Error posting auth: ", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatal("Error authenticating, status: ", resp.StatusCode)
	}

	var auth data.Auth
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		t.Fatal("Error decoding auth response: ", err)
	}

	if auth.Token == "" {
		t.Error("Expected auth token")
	}

	// bad credentials
	resp, err = http.PostForm(apiURL+"/auth", url.Values{
		"email":    {"admin@admin.com"},
		"password": {"wrong"},
	})
	if err != nil {
		t.Fatal("Error posting auth: ", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Error("Expected 403 for bad login, got: ", resp.StatusCode)
	}
}

func TestAPINotFound(t *testing.T) {
	_, stop, err := server.TestServer()
	if err != nil {
		t.Fatal("Error starting test server: ", err)
	}
	defer stop()

	resp, err := http.Get(fmt.Sprintf("%v/v1/nonsense", apiURL))
	if err != nil {
		t.Fatal("Error sending request: ", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Error("Expected 404, got: ", resp.StatusCode)
	}
}
