package collect

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"percept/internal/sample/model"
)

type fakeCollector struct {
	collected chan model.Sample
}

func (f *fakeCollector) Collect(in ...model.Sample) error {
	for _, sample := range in {
		f.collected <- sample
	}
	return nil
}

func newTestHandler(t *testing.T) (http.Handler, *fakeCollector) {
	t.Helper()
	collector := &fakeCollector{collected: make(chan model.Sample, 16)}
	h, err := NewHandler(&Config{RequestTimeout: time.Minute}, collector)
	if err != nil {
		t.Fatal(err)
	}
	return h, collector
}

func postJSON(h http.Handler, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, "/collect", strings.NewReader(body))
	r.Header.Set("content-type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestHandler_Collect(t *testing.T) {
	t.Parallel()
	h, collector := newTestHandler(t)

	w := postJSON(h, `{
		"dataset": "fires",
		"data": [
			{"vector": [0.5, -0.5], "label": -1, "createdAt": "2020-09-02T10:00:00Z"},
			{"vector": [1, 1], "label": 1, "createdAt": "2020-09-01T10:00:00Z"}
		]
	}`)
	if w.Code != http.StatusOK {
		t.Fatalf("the status code got: %v, expected: %v", w.Code, http.StatusOK)
	}
	if body := w.Body.String(); body != `{"status": "ok"}` {
		t.Errorf("the response body got: %v, expected: %v", body, `{"status": "ok"}`)
	}

	var samples []model.Sample
	for len(samples) < 2 {
		select {
		case sample := <-collector.collected:
			samples = append(samples, sample)
		case <-time.After(2 * time.Second):
			t.Fatalf("the collected samples got: %v, expected: %v", len(samples), 2)
		}
	}

	// oldest first
	if samples[0].Class != 1 || samples[1].Class != -1 {
		t.Errorf("the collect order got: %v, %v, expected oldest sample first",
			samples[0].Class, samples[1].Class)
	}
	for _, sample := range samples {
		if sample.DatasetID != "fires" {
			t.Errorf("the sample dataset got: %v, expected: %v", sample.DatasetID, "fires")
		}
		if sample.Vec.Dimensions() != 2 {
			t.Errorf("the sample dimensions got: %v, expected: %v", sample.Vec.Dimensions(), 2)
		}
	}
}

func TestHandler_EmptyDataset(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)
	if w := postJSON(h, `{"data": [{"vector": [1, 1], "label": 1}]}`); w.Code != http.StatusBadRequest {
		t.Errorf("the status code got: %v, expected: %v", w.Code, http.StatusBadRequest)
	}
}

func TestHandler_MalformedJSON(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)
	if w := postJSON(h, `{"dataset": `); w.Code != http.StatusBadRequest {
		t.Errorf("the status code got: %v, expected: %v", w.Code, http.StatusBadRequest)
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)
	r := httptest.NewRequest(http.MethodGet, "/collect", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("the status code got: %v, expected: %v", w.Code, http.StatusMethodNotAllowed)
	}
}

func TestHandler_UnsupportedMediaType(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)
	r := httptest.NewRequest(http.MethodPost, "/collect", strings.NewReader(`{}`))
	r.Header.Set("content-type", "text/plain")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusUnsupportedMediaType {
		t.Errorf("the status code got: %v, expected: %v", w.Code, http.StatusUnsupportedMediaType)
	}
}
