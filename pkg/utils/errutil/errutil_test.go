package errutil_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/reachout/pkg/utils/errutil"
)

func TestHandleReturnsSameError(t *testing.T) {
	err := goerr.New("boom", goerr.V("key", "value"))
	gt.Value(t, errutil.Handle(context.Background(), err, "failed")).Equal(error(err))
	gt.Value(t, errutil.Handle(context.Background(), nil, "failed")).Nil()
}

func TestHandleHTTPWritesJSON(t *testing.T) {
	w := httptest.NewRecorder()
	errutil.HandleHTTP(context.Background(), w, goerr.New("lead not found"), http.StatusNotFound)

	gt.Value(t, w.Code).Equal(http.StatusNotFound)
	gt.Value(t, w.Header().Get("Content-Type")).Equal("application/json")

	var body map[string]string
	gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &body)).Required()
	gt.Value(t, body["error"]).Equal("lead not found")
}
