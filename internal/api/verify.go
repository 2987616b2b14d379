package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"github.com/tcfw/docverify/internal/utils/logging"
	"github.com/tcfw/docverify/pkg/document"
)

const headerReportID = "X-Report-Id"

type errorResponse struct {
	Error string `json:"error"`
}

func (a *Api) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleVerify answers POST /v1/verify. INVALID and ERROR reports are still
// a 200; non 2xx codes mean no report was produced.
func (a *Api) handleVerify(w http.ResponseWriter, r *http.Request) {
	log := logging.WithField("request_id", middleware.GetReqID(r.Context()))

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentSize))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: err.Error()})
		return
	}

	doc, err := document.Parse(body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	rep, err := a.v.Verify(r.Context(), doc, r.URL.Query().Get("network"))
	if err != nil {
		log.WithError(err).Warn("verification abandoned")

		status := http.StatusInternalServerError
		if errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		}

		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	if id, err := rep.ID(); err == nil {
		w.Header().Set(headerReportID, id.String())
	}

	log.WithField("status", rep.Status).Info("verified document")

	writeJSON(w, http.StatusOK, rep)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.WithError(err).Error("writing response")
	}
}
