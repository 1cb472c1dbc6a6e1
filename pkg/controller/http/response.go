package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/reachout/pkg/domain/interfaces"
	"github.com/secmon-lab/reachout/pkg/domain/model"
	"github.com/secmon-lab/reachout/pkg/service/provider"
	"github.com/secmon-lab/reachout/pkg/usecase"
	"github.com/secmon-lab/reachout/pkg/utils/errutil"
	"github.com/secmon-lab/reachout/pkg/utils/logging"
)

// maxBodySize bounds JSON request bodies
const maxBodySize = 1 << 20

// statusOf maps an error to the HTTP status returned to the caller
func statusOf(err error) int {
	switch {
	case errors.Is(err, usecase.ErrNotFound), errors.Is(err, interfaces.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrChannelNotConfigured), errors.Is(err, usecase.ErrMissingLinkedInProfile):
		return http.StatusUnprocessableEntity
	case errors.Is(err, interfaces.ErrConflict):
		return http.StatusConflict
	}
	if _, ok := provider.AsError(err); ok {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func handleError(ctx context.Context, w http.ResponseWriter, err error) {
	errutil.HandleHTTP(ctx, w, err, statusOf(err))
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.From(ctx).Error("failed to write response", "error", err.Error())
	}
}

// decodeJSON reads the request body into v. A malformed body is a validation error.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return goerr.Wrap(model.NewValidationError("request", "body", err.Error()), "failed to decode request body")
	}
	return nil
}

// queryInt parses an optional integer query parameter
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, model.NewValidationError("request", name, "must be a non-negative integer")
	}
	return n, nil
}

// queryString returns a pointer to a query parameter, or nil when it is absent
func queryString(r *http.Request, name string) *string {
	if !r.URL.Query().Has(name) {
		return nil
	}
	v := r.URL.Query().Get(name)
	return &v
}
