// Package vision implements lookup.Recognizer by uploading a cover photo to
// an HTTP recognition endpoint.
package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/blackwell-systems/bookgrid/internal/ingest"
	"github.com/blackwell-systems/bookgrid/internal/lookup"
)

// MaxImageBytes bounds the upload size.
const MaxImageBytes = 20 << 20

// Client posts images as multipart/form-data (field "image") and expects a
// JSON array of {"title", "publisher"} objects back.
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ lookup.Recognizer = (*Client)(nil)

// NewClient returns a client for endpoint. token is sent as a bearer token
// when non-empty. A nil logger means slog.Default().
func NewClient(endpoint, token string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		endpoint:   endpoint,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// RecognizeBooks uploads image, a local path or http(s) URL, and returns the
// books the endpoint saw. Hints without a title are dropped.
func (c *Client) RecognizeBooks(ctx context.Context, image string) ([]lookup.Hint, error) {
	src, err := ingest.Resolve(ctx, image, c.httpClient)
	if err != nil {
		return nil, err
	}
	body, contentType, digest, err := c.encode(ctx, src)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, err
	}
	reqID := uuid.NewString()
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.logger.Debug("recognizing image", "request_id", reqID, "name", src.Name, "sha256", digest)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("posting image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("recognition endpoint: status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var hints []lookup.Hint
	if err := json.NewDecoder(resp.Body).Decode(&hints); err != nil {
		return nil, fmt.Errorf("decoding recognition response: %w", err)
	}
	out := hints[:0]
	for _, h := range hints {
		h.Title = strings.TrimSpace(h.Title)
		h.Publisher = strings.TrimSpace(h.Publisher)
		if h.Title != "" {
			out = append(out, h)
		}
	}
	c.logger.Debug("recognition done", "request_id", reqID, "books", len(out))
	return out, nil
}

func (c *Client) encode(ctx context.Context, src *ingest.Source) (*bytes.Buffer, string, string, error) {
	if src.Size > MaxImageBytes {
		return nil, "", "", fmt.Errorf("%s: %w", src.Name, ingest.ErrTooLarge)
	}
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, "", "", fmt.Errorf("opening %s: %w", src.Name, err)
	}
	defer rc.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, src.Name))
	ctype := src.ContentType
	if ctype == "" {
		ctype = "application/octet-stream"
	}
	h.Set("Content-Type", ctype)
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, "", "", err
	}
	r := ingest.NewReader(rc, MaxImageBytes)
	if _, err := io.Copy(part, r); err != nil {
		return nil, "", "", fmt.Errorf("reading %s: %w", src.Name, err)
	}
	if err := mw.Close(); err != nil {
		return nil, "", "", err
	}
	return &buf, mw.FormDataContentType(), r.SHA256(), nil
}
