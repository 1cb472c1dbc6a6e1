package provider_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/reachout/pkg/service/provider"
)

func TestClientDo(t *testing.T) {
	var gotAuth, gotContentType, gotQuery string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotQuery = r.URL.RawQuery
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c-1","name":"Spring"}`))
	}))
	defer srv.Close()

	client := provider.NewClient("test", srv.URL+"/", time.Second, provider.BearerAuth("secret"))

	var out struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	err := client.Do(context.Background(), provider.Request{
		Method: http.MethodPost,
		Path:   "/campaigns",
		Query:  url.Values{"limit": {"1"}},
		Body:   map[string]string{"name": "Spring"},
	}, &out)
	gt.NoError(t, err).Required()

	gt.Value(t, out.ID).Equal("c-1")
	gt.Value(t, gotAuth).Equal("Bearer secret")
	gt.Value(t, gotContentType).Equal("application/json")
	gt.Value(t, gotQuery).Equal("limit=1")
	gt.Value(t, gotBody["name"]).Equal(any("Spring"))
}

func TestClientErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/broken":
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"message":"upstream exploded"}`))
		case "/gated", "/missing":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"Not Found"}`))
		}
	}))
	defer srv.Close()

	client := provider.NewClient("test", srv.URL, time.Second, provider.HeaderAuth("x-api-key", "k"))
	ctx := context.Background()

	t.Run("non-2xx becomes provider error", func(t *testing.T) {
		err := client.Do(ctx, provider.Request{Method: http.MethodGet, Path: "/broken"}, nil)
		pe, ok := provider.AsError(err)
		gt.Bool(t, ok).True()
		gt.Number(t, pe.HTTPStatus).Equal(http.StatusInternalServerError)
		gt.Value(t, pe.Message).Equal("upstream exploded")
		gt.String(t, pe.Body).Contains("upstream exploded")
		gt.Bool(t, provider.IsTierUnsupported(err)).False()
	})

	t.Run("404 on gated endpoint is tier unsupported", func(t *testing.T) {
		err := client.Do(ctx, provider.Request{Method: http.MethodPost, Path: "/gated", Gated: true, Feature: "adding leads"}, nil)
		gt.Bool(t, provider.IsTierUnsupported(err)).True()
		gt.Error(t, err).Is(provider.ErrTierUnsupported)

		pe, ok := provider.AsError(err)
		gt.Bool(t, ok).True()
		gt.Value(t, pe.Message).Equal("adding leads is not available at this access tier")
	})

	t.Run("404 on regular endpoint is plain not found", func(t *testing.T) {
		err := client.Do(ctx, provider.Request{Method: http.MethodGet, Path: "/missing"}, nil)
		gt.Bool(t, provider.IsTierUnsupported(err)).False()
		pe, ok := provider.AsError(err)
		gt.Bool(t, ok).True()
		gt.Number(t, pe.HTTPStatus).Equal(http.StatusNotFound)
	})

	t.Run("transport error wraps cause", func(t *testing.T) {
		dead := provider.NewClient("test", "http://127.0.0.1:1", 200*time.Millisecond, nil)
		err := dead.Do(ctx, provider.Request{Method: http.MethodGet, Path: "/"}, nil)
		pe, ok := provider.AsError(err)
		gt.Bool(t, ok).True()
		gt.Number(t, pe.HTTPStatus).Equal(0)
		gt.String(t, err.Error()).Contains("request failed")
		gt.Array(t, pe.Unwrap()).Length(1)
	})
}

func TestClientTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := provider.NewClient("slow", srv.URL, 20*time.Millisecond, nil)
	err := client.Do(context.Background(), provider.Request{Method: http.MethodGet, Path: "/"}, nil)
	_, ok := provider.AsError(err)
	gt.Bool(t, ok).True()
}

func TestErrorMessage(t *testing.T) {
	gt.Value(t, provider.ErrorMessage([]byte(`{"error":{"message":"nested"}}`), "x")).Equal("nested")
	gt.Value(t, provider.ErrorMessage([]byte(`{"detail":"why"}`), "x")).Equal("why")
	gt.Value(t, provider.ErrorMessage([]byte(`plain text`), "x")).Equal("plain text")
	gt.Value(t, provider.ErrorMessage(nil, "Bad Gateway")).Equal("Bad Gateway")
}
