package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/nbilal/homepin/internal/model"
)

// ErrorKind classifies a failed submission for user-facing handling.
type ErrorKind int

const (
	// ServerRejected: the server answered with a non-2xx status.
	ServerRejected ErrorKind = iota
	// NoResponse: the request went out but no response arrived.
	NoResponse
	// ClientError: the request could not be constructed.
	ClientError
)

func (k ErrorKind) String() string {
	switch k {
	case ServerRejected:
		return "server-rejected"
	case NoResponse:
		return "no-response"
	case ClientError:
		return "client-error"
	}
	return "unknown"
}

// Error is a failed submission outcome. The draft stays intact so the user
// can retry without re-entering data.
type Error struct {
	Kind   ErrorKind
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("submission failed (%s): %s", e.Kind, e.Detail)
}

// Submitter posts property drafts to the listing-creation endpoint.
type Submitter struct {
	client  *http.Client
	baseURL string
	log     *zap.Logger
}

func NewSubmitter(baseURL, proxyURL string, log *zap.Logger) *Submitter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Submitter{
		client:  newHTTPClient(proxyURL),
		baseURL: baseURL,
		log:     log,
	}
}

// Submit encodes the draft as multipart form data and performs one POST.
// All text fields are sent as entered, even when empty. Returns the server
// id when the response body carries one.
func (s *Submitter) Submit(ctx context.Context, draft model.PropertyDraft) (string, error) {
	body, contentType, err := encodeDraft(draft)
	if err != nil {
		s.log.Error("encoding draft", zap.Error(err))
		return "", &Error{Kind: ClientError, Detail: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL, body)
	if err != nil {
		s.log.Error("building request", zap.Error(err))
		return "", &Error{Kind: ClientError, Detail: err.Error()}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Error("submission request failed", zap.Error(err))
		return "", &Error{Kind: NoResponse, Detail: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		s.log.Error("reading response", zap.Error(err))
		return "", &Error{Kind: NoResponse, Detail: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.log.Warn("server rejected submission",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", respBody))
		return "", &Error{Kind: ServerRejected, Detail: string(respBody)}
	}

	serverID := parseServerID(respBody)
	s.log.Info("property submitted",
		zap.String("title", draft.Title),
		zap.String("server_id", serverID))
	return serverID, nil
}

// encodeDraft builds the multipart payload. The image, when present, is
// always declared as property.jpg with type image/jpeg regardless of the
// source format, matching the backend's expectations.
func encodeDraft(draft model.PropertyDraft) (*bytes.Buffer, string, error) {
	var lng, lat string
	if draft.Location != nil {
		lng = strconv.FormatFloat(draft.Location.Longitude, 'f', -1, 64)
		lat = strconv.FormatFloat(draft.Location.Latitude, 'f', -1, 64)
	}

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	fields := []struct{ name, value string }{
		{"Title", draft.Title},
		{"Price", draft.Price},
		{"City", draft.City},
		{"Type", draft.Type},
		{"Description", draft.Description},
		{"Zipcode", draft.Zipcode},
		{"Longitude", lng},
		{"Latitude", lat},
		{"User_Id", draft.OwnerID},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", fmt.Errorf("writing field %s: %w", f.name, err)
		}
	}

	if draft.Media != nil {
		if err := writeImagePart(w, draft.Media.Path); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("closing payload: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}

func writeImagePart(w *multipart.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="Image"; filename="property.jpg"`)
	header.Set("Content-Type", "image/jpeg")

	part, err := w.CreatePart(header)
	if err != nil {
		return fmt.Errorf("creating image part: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("copying image: %w", err)
	}
	return nil
}

// parseServerID pulls an id out of the response body when it is JSON with
// an id-like field. The contract is implementation-defined, so absence is
// not an error.
func parseServerID(body []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	for _, key := range []string{"id", "Id", "_id", "property_id"} {
		switch v := payload[key].(type) {
		case string:
			return v
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}
