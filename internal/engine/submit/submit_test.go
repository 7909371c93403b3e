package submit

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/nbilal/homepin/internal/model"
)

func testDraft() model.PropertyDraft {
	return model.PropertyDraft{
		Title:       "2BR flat",
		Price:       "12000",
		City:        "Dubai",
		Type:        "apartment",
		Description: "near the marina",
		Zipcode:     "00000",
		Location:    &model.Coordinate{Latitude: 25.2048, Longitude: 55.2708},
		OwnerID:     "user-42",
	}
}

func TestSubmitSendsAllFields(t *testing.T) {
	var form *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parsing multipart: %v", err)
		}
		form = r
		w.Write([]byte(`{"id":"abc123"}`))
	}))
	defer server.Close()

	s := NewSubmitter(server.URL, "", nil)
	serverID, err := s.Submit(context.Background(), testDraft())
	if err != nil {
		t.Fatal(err)
	}
	if serverID != "abc123" {
		t.Errorf("server id %q, want abc123", serverID)
	}

	want := map[string]string{
		"Title":       "2BR flat",
		"Price":       "12000",
		"City":        "Dubai",
		"Type":        "apartment",
		"Description": "near the marina",
		"Zipcode":     "00000",
		"Longitude":   "55.2708",
		"Latitude":    "25.2048",
		"User_Id":     "user-42",
	}
	for name, value := range want {
		if got := form.FormValue(name); got != value {
			t.Errorf("field %s = %q, want %q", name, got, value)
		}
	}
	if len(form.MultipartForm.File["Image"]) != 0 {
		t.Error("image part present without media attached")
	}
}

func TestSubmitEmptyFieldsStillSent(t *testing.T) {
	var keys []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseMultipartForm(1 << 20)
		for k := range r.MultipartForm.Value {
			keys = append(keys, k)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	s := NewSubmitter(server.URL, "", nil)
	if _, err := s.Submit(context.Background(), model.PropertyDraft{}); err != nil {
		t.Fatal(err)
	}
	if len(keys) != 9 {
		t.Errorf("empty draft sent %d fields (%v), want 9", len(keys), keys)
	}
}

func TestSubmitImageNormalized(t *testing.T) {
	imgPath := filepath.Join(t.TempDir(), "photo.png")
	if err := os.WriteFile(imgPath, []byte("not-really-a-png"), 0644); err != nil {
		t.Fatal(err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parsing multipart: %v", err)
			return
		}
		files := r.MultipartForm.File["Image"]
		if len(files) != 1 {
			t.Errorf("got %d image parts, want 1", len(files))
			return
		}
		fh := files[0]
		// The wire name and type are fixed regardless of the source file.
		if fh.Filename != "property.jpg" {
			t.Errorf("filename %q, want property.jpg", fh.Filename)
		}
		if ct := fh.Header.Get("Content-Type"); ct != "image/jpeg" {
			t.Errorf("content type %q, want image/jpeg", ct)
		}
		f, _ := fh.Open()
		data, _ := io.ReadAll(f)
		f.Close()
		if string(data) != "not-really-a-png" {
			t.Error("image bytes do not match the source file")
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	draft := testDraft()
	draft.Media = &model.MediaRef{Path: imgPath, MimeType: "image/png", Filename: "photo.png"}

	s := NewSubmitter(server.URL, "", nil)
	if _, err := s.Submit(context.Background(), draft); err != nil {
		t.Fatal(err)
	}
}

func TestSubmitServerRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("price is required"))
	}))
	defer server.Close()

	s := NewSubmitter(server.URL, "", nil)
	_, err := s.Submit(context.Background(), testDraft())

	var serr *Error
	if !errors.As(err, &serr) {
		t.Fatalf("err = %v, want *Error", err)
	}
	if serr.Kind != ServerRejected {
		t.Errorf("kind %s, want server-rejected", serr.Kind)
	}
	if serr.Detail != "price is required" {
		t.Errorf("detail %q, want server body", serr.Detail)
	}
}

func TestSubmitNoResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	s := NewSubmitter(server.URL, "", nil)
	_, err := s.Submit(context.Background(), testDraft())

	var serr *Error
	if !errors.As(err, &serr) {
		t.Fatalf("err = %v, want *Error", err)
	}
	if serr.Kind != NoResponse {
		t.Errorf("kind %s, want no-response", serr.Kind)
	}
}

func TestSubmitMissingImageFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request sent despite unreadable image")
	}))
	defer server.Close()

	draft := testDraft()
	draft.Media = &model.MediaRef{Path: filepath.Join(t.TempDir(), "gone.jpg")}

	s := NewSubmitter(server.URL, "", nil)
	_, err := s.Submit(context.Background(), draft)

	var serr *Error
	if !errors.As(err, &serr) {
		t.Fatalf("err = %v, want *Error", err)
	}
	if serr.Kind != ClientError {
		t.Errorf("kind %s, want client-error", serr.Kind)
	}
}

func TestParseServerID(t *testing.T) {
	cases := []struct {
		body string
		want string
	}{
		{`{"id":"abc"}`, "abc"},
		{`{"_id":"64ff"}`, "64ff"},
		{`{"property_id":17}`, "17"},
		{`{"ok":true}`, ""},
		{`created`, ""},
	}
	for _, c := range cases {
		if got := parseServerID([]byte(c.body)); got != c.want {
			t.Errorf("parseServerID(%q) = %q, want %q", c.body, got, c.want)
		}
	}
}
