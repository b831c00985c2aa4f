// Package ingest turns a cover image reference (a local path or an http(s)
// URL) into a readable source for the recognition provider.
package ingest

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Source holds a resolved image ready for reading.
type Source struct {
	// Name is the original filename (no directory), sent as the upload name.
	Name string
	// Size is the byte count if known in advance (-1 if unknown).
	Size int64
	// ContentType is guessed from the extension; empty if unknown.
	ContentType string
	// Open returns a new ReadCloser. May be called once.
	Open func(ctx context.Context) (io.ReadCloser, error)
}

// Resolve determines the type of input and returns a Source.
// Supported formats:
//
//	/path/to/cover.jpg             local file
//	https://example.com/cover.jpg  HTTP URL
//
// A nil client means a client with a 30s timeout.
func Resolve(ctx context.Context, input string, client *http.Client) (*Source, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("no image given")
	}
	switch {
	case strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://"):
		if client == nil {
			client = &http.Client{Timeout: 30 * time.Second}
		}
		return resolveHTTP(ctx, input, client)
	default:
		return resolveFile(input)
	}
}

func resolveFile(path string) (*Source, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%q is a directory", path)
	}
	name := filepath.Base(path)
	return &Source{
		Name:        name,
		Size:        fi.Size(),
		ContentType: contentTypeOf(name),
		Open:        func(context.Context) (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

func resolveHTTP(ctx context.Context, url string, client *http.Client) (*Source, error) {
	// HEAD the URL to try to get Content-Length and Content-Type.
	size := int64(-1)
	name := guessFilenameFromURL(url)
	ctype := contentTypeOf(name)
	if req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil); err == nil {
		if resp, err := client.Do(req); err == nil {
			if resp.StatusCode == http.StatusOK {
				if cl := resp.ContentLength; cl > 0 {
					size = cl
				}
				if ct := resp.Header.Get("Content-Type"); ct != "" {
					ctype = ct
				}
			}
			resp.Body.Close()
		}
	}

	return &Source{
		Name:        name,
		Size:        size,
		ContentType: ctype,
		Open: func(ctx context.Context) (io.ReadCloser, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return nil, err
			}
			r, err := client.Do(req)
			if err != nil {
				return nil, err
			}
			if r.StatusCode != http.StatusOK {
				r.Body.Close()
				return nil, fmt.Errorf("GET %s: status %d", url, r.StatusCode)
			}
			return r.Body, nil
		},
	}, nil
}

func contentTypeOf(name string) string {
	return mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
}

func guessFilenameFromURL(rawURL string) string {
	if idx := strings.IndexAny(rawURL, "?#"); idx >= 0 {
		rawURL = rawURL[:idx]
	}
	rest := rawURL
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	}
	slash := strings.Index(rest, "/")
	if slash < 0 || slash == len(rest)-1 {
		return "image"
	}
	base := filepath.Base(rest[slash:])
	if base == "" || base == "." || base == "/" {
		return "image"
	}
	return base
}
