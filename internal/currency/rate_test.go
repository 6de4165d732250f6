package currency

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pizzeria-next/internal/config"
	"github.com/pizzeria-next/internal/models"
)

func newTestService(url string) *Service {
	return NewService(config.CurrencyConfig{RateURL: url, TimeoutMS: 2000})
}

func TestFetchRateParsesAverage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"title":"BCV","price":36.61,"promedio":36.58}`))
	}))
	defer srv.Close()

	rate := newTestService(srv.URL).FetchRate(context.Background())
	if rate == nil {
		t.Fatalf("expected a rate")
	}
	if got := rate.String(); got != "36.58" {
		t.Fatalf("expected 36.58, got %s", got)
	}
}

func TestFetchRateFallsBackToPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"price":36.61}`))
	}))
	defer srv.Close()

	rate := newTestService(srv.URL).FetchRate(context.Background())
	if rate == nil || rate.String() != "36.61" {
		t.Fatalf("expected 36.61, got %v", rate)
	}
}

func TestFetchRateNilOnBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if rate := newTestService(srv.URL).FetchRate(context.Background()); rate != nil {
		t.Fatalf("expected nil on 503, got %v", rate)
	}
}

func TestFetchRateNilOnBadBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	if rate := newTestService(srv.URL).FetchRate(context.Background()); rate != nil {
		t.Fatalf("expected nil on bad body, got %v", rate)
	}
}

func TestFetchRateNilOnNonPositiveValue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"promedio":0}`))
	}))
	defer srv.Close()

	if rate := newTestService(srv.URL).FetchRate(context.Background()); rate != nil {
		t.Fatalf("expected nil on zero rate, got %v", rate)
	}
}

func TestFetchRateNilOnUnreachableHost(t *testing.T) {
	if rate := newTestService("http://127.0.0.1:1/rate").FetchRate(context.Background()); rate != nil {
		t.Fatalf("expected nil on connection failure, got %v", rate)
	}
}

func TestConvert(t *testing.T) {
	rate := models.NewMoneyFromFloat(36.50)
	got := Convert(models.NewMoneyFromFloat(10), &rate)
	if got == nil || got.String() != "365.00" {
		t.Fatalf("expected 365.00, got %v", got)
	}
	if Convert(models.NewMoneyFromFloat(10), nil) != nil {
		t.Fatalf("nil rate must convert to nil")
	}
}
