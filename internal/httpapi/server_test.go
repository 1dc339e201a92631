package httpapi_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mashaer-transit/kiosk/internal/httpapi"
	"github.com/mashaer-transit/kiosk/internal/kiosk/codec"
	"github.com/mashaer-transit/kiosk/internal/kiosk/engine"
	"github.com/mashaer-transit/kiosk/internal/kiosk/feedback"
	"github.com/mashaer-transit/kiosk/internal/kiosk/metrics"
	"github.com/mashaer-transit/kiosk/internal/kiosk/recorder"
	"github.com/mashaer-transit/kiosk/internal/kiosk/registry"
	"github.com/mashaer-transit/kiosk/internal/kiosk/sensors/sim"
	"github.com/mashaer-transit/kiosk/internal/kiosk/store/memory"
)

// newTestServer wires up the full dependency graph using in-memory stores and
// simulated sensors, and returns an httptest.Server whose URL can be hit with
// a plain http.Client.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := log.New(io.Discard, "", 0)
	cc, err := codec.New([]byte("1234567890ABCDEF"))
	if err != nil {
		t.Fatalf("codec: %v", err)
	}

	reg := prometheus.NewRegistry()
	eng := engine.New(engine.Dependencies{
		Logger:   logger,
		Codec:    cc,
		Registry: registry.New(memory.NewPassengerStore()),
		Reader:   sim.NewCardReader(),
		Finger:   sim.NewFingerprintSensor(),
		Counter:  sim.NewHeadCounter(),
		Feedback: feedback.NewLogSink(logger),
		Trips:    recorder.New(memory.NewTripStore(), logger, ""),
		Events:   memory.NewBoardingEventStore(),
		Metrics:  metrics.New(reg),
	}, engine.Options{})

	srv := httpapi.NewServer(httpapi.Dependencies{
		Logger:  logger,
		Addr:    ":0",
		Engine:  eng,
		Metrics: reg,
	})

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, url string, body []byte) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeStatus(t *testing.T, r io.Reader) engine.Status {
	t.Helper()
	var cmdResp struct {
		OK    bool          `json:"ok"`
		State engine.Status `json:"status"`
	}
	if err := json.NewDecoder(r).Decode(&cmdResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !cmdResp.OK {
		t.Error("expected ok=true")
	}
	return cmdResp.State
}

// ── Status ───────────────────────────────────────────────────────────────────

func TestStatus(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/v1/status")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var st engine.Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.State != "BOARDING.IDLE" {
		t.Errorf("expected BOARDING.IDLE, got %q", st.State)
	}
	if !st.DoorOpen {
		t.Error("expected door open at startup")
	}
	if st.TripSequence != 1 {
		t.Errorf("expected trip sequence 1, got %d", st.TripSequence)
	}
}

// ── Door toggle and PIN gate ─────────────────────────────────────────────────

func TestDoorToggleEntersPinGate(t *testing.T) {
	ts := newTestServer(t)

	resp := post(t, ts.URL+"/v1/door/toggle", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	st := decodeStatus(t, resp.Body)
	if st.DoorOpen {
		t.Error("expected door closed after toggle")
	}
	if st.State != "TRIP.PIN_GATE" {
		t.Errorf("expected TRIP.PIN_GATE, got %q", st.State)
	}
}

func TestPinFlow(t *testing.T) {
	ts := newTestServer(t)
	post(t, ts.URL+"/v1/door/toggle", nil)

	typePin := func(pin string) {
		for _, d := range pin {
			resp := post(t, ts.URL+"/v1/pin/digit", []byte(`{"digit":"`+string(d)+`"}`))
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("digit %c: expected 200, got %d", d, resp.StatusCode)
			}
		}
	}

	// Wrong PIN is rejected and clears the buffer.
	typePin("0000")
	resp := post(t, ts.URL+"/v1/pin/submit", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for wrong PIN, got %d", resp.StatusCode)
	}

	typePin("9999")
	resp = post(t, ts.URL+"/v1/pin/submit", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for wrong PIN, got %d", resp.StatusCode)
	}

	// The default supervisor PIN opens the gate.
	typePin("1234")
	resp = post(t, ts.URL+"/v1/pin/submit", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for correct PIN, got %d", resp.StatusCode)
	}
	st := decodeStatus(t, resp.Body)
	if st.State != "TRIP.HEADCOUNT" {
		t.Errorf("expected TRIP.HEADCOUNT, got %q", st.State)
	}
}

func TestPinDigitValidation(t *testing.T) {
	ts := newTestServer(t)
	post(t, ts.URL+"/v1/door/toggle", nil)

	cases := map[string][]byte{
		"non-digit":      []byte(`{"digit":"x"}`),
		"multiple chars": []byte(`{"digit":"12"}`),
		"empty":          []byte(`{"digit":""}`),
		"unknown field":  []byte(`{"digit":"1","pin":"1234"}`),
		"bad json":       []byte(`{digit`),
	}
	for name, body := range cases {
		resp := post(t, ts.URL+"/v1/pin/digit", body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", name, resp.StatusCode)
		}
	}
}

func TestPinDigitOutsideGateIsConflict(t *testing.T) {
	ts := newTestServer(t)

	resp := post(t, ts.URL+"/v1/pin/digit", []byte(`{"digit":"1"}`))
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 during boarding, got %d", resp.StatusCode)
	}
}

// ── Trip commands ────────────────────────────────────────────────────────────

func TestTripEndOutsideActiveTripIsConflict(t *testing.T) {
	ts := newTestServer(t)

	resp := post(t, ts.URL+"/v1/trip/end", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}

	var errResp struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if errResp.Error != "wrong_state" {
		t.Errorf("expected error=wrong_state, got %q", errResp.Error)
	}
}

func TestTripStartNewOutsideCompleteIsConflict(t *testing.T) {
	ts := newTestServer(t)

	resp := post(t, ts.URL+"/v1/trip/start-new", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

// ── Metrics ──────────────────────────────────────────────────────────────────

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Contains(body, []byte("kiosk_trips_completed_total")) {
		t.Error("expected kiosk_trips_completed_total in metrics output")
	}
}

func TestUnknownRouteIs404(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/v1/nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
