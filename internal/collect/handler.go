package collect

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"percept/internal/geom"
	"percept/internal/httputil"
	"percept/internal/logging"
	"percept/internal/sample/model"
	"percept/internal/trainer"
)

const maxBodyBytes = 64 * 1024 * 1024

type request struct {
	DatasetID string `json:"dataset"`
	Data      []struct {
		Vec       []float64 `json:"vector"`
		Label     float64   `json:"label"`
		CreatedAt time.Time `json:"createdAt"`
	} `json:"data"`
}

func NewHandler(cfg *Config, collector trainer.Collector) (http.Handler, error) {
	return &handler{
		collector: collector,
		cfg:       cfg,
	}, nil
}

type handler struct {
	collector trainer.Collector
	cfg       *Config
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req request
	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.RequestTimeout)
	defer cancel()
	logger := logging.FromContext(ctx)

	if !httputil.RequireJSONPost(ctx, w, r) {
		return
	}

	defer r.Body.Close()

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	d := json.NewDecoder(r.Body)
	if err := d.Decode(&req); err != nil {
		httputil.DecodeErr(ctx, w, err)
		return
	}
	if req.DatasetID == "" {
		httputil.RespBadRequest(ctx, w, `{"error": "dataset must not be empty"}`)
		return
	}

	defer func() {
		logger.Infof("collected %d samples for dataset %s", len(req.Data), req.DatasetID)
	}()
	go func() {
		sort.Slice(req.Data, func(i, j int) bool {
			return req.Data[i].CreatedAt.Before(req.Data[j].CreatedAt)
		})
		for _, dat := range req.Data {
			if err := h.collector.Collect(
				model.NewSample(req.DatasetID, geom.NewPoint(dat.Vec), dat.Label, dat.CreatedAt),
			); err != nil {
				logger.Errorf("error sending to collect service: %v", err)
			}
		}
	}()
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, `{"status": "ok"}`)
}
