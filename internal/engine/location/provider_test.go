package location

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIPLocatorSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","lat":25.2048,"lon":55.2708}`))
	}))
	defer server.Close()

	l := NewIPLocator(server.URL)
	coord, err := l.Locate(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if coord.Latitude != 25.2048 || coord.Longitude != 55.2708 {
		t.Errorf("got %+v", coord)
	}
}

func TestIPLocatorFailureStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"fail","message":"private range"}`))
	}))
	defer server.Close()

	l := NewIPLocator(server.URL)
	if _, err := l.Locate(context.Background()); err == nil {
		t.Error("fail status accepted")
	}
}

func TestIPLocatorHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	l := NewIPLocator(server.URL)
	if _, err := l.Locate(context.Background()); err == nil {
		t.Error("non-200 status accepted")
	}
}
