package predict

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/sync/errgroup"

	"percept/internal/classifier/perceptron"
	"percept/internal/geom"
	"percept/internal/httputil"
	"percept/internal/trainer"
)

const maxBodyBytes = 64 * 1024 * 1024

type request struct {
	DatasetID string `json:"dataset"`
	Data      []struct {
		Vec []float64 `json:"vector"`
	} `json:"data"`
}

type responseItem struct {
	Label      float64   `json:"label"`
	Activation float64   `json:"activation"`
	Vec        []float64 `json:"vector"`
}

type response struct {
	DatasetID string         `json:"dataset"`
	Data      []responseItem `json:"data"`
}

func NewHandler(cfg *Config, predictor trainer.Predictor) (http.Handler, error) {
	return &handler{
		cfg:       cfg,
		predictor: predictor,
	}, nil
}

type handler struct {
	predictor trainer.Predictor
	cfg       *Config
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req request
	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.RequestTimeout)
	defer cancel()

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
	if len(req.Data) > h.cfg.MaxDataItemsLen {
		httputil.RespBadRequest(ctx, w, `{"error": "data items is too large, max allowed len is %d"}`, h.cfg.MaxDataItemsLen)
		return
	}

	var respData []responseItem
	errGrp := errgroup.Group{}
	mtx := sync.Mutex{}
	for _, dat := range req.Data {
		dat := dat
		errGrp.Go(func() error {
			vec := geom.NewPoint(dat.Vec)
			result, err := h.predictor.Predict(req.DatasetID, vec)
			if err != nil {
				return fmt.Errorf("predict error: %w", err)
			}
			mtx.Lock()
			respData = append(respData, responseItem{
				Label:      result.Label,
				Activation: result.Activation,
				Vec:        vec.Points(),
			})
			mtx.Unlock()
			return nil
		})
	}
	if err := errGrp.Wait(); err != nil {
		if errors.Is(err, perceptron.ErrDimensionMismatch) {
			httputil.RespBadRequest(ctx, w, `{"error": "%v"}`, err)
			return
		}
		httputil.RespInternalError(ctx, w, `{"error": "predict processing error, %v"}`, err)
		return
	}
	resp := response{
		DatasetID: req.DatasetID,
	}
	resp.Data = respData
	bytes, err := json.Marshal(resp)
	if err != nil {
		httputil.RespInternalError(ctx, w, `{"error": "failed to encode output json %v"}`, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "%s", bytes)
}
