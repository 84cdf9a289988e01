package manifest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// ErrFetch marks a manifest that could not be read or parsed. Callers
// treat it as a blocking "cannot proceed" condition; there is no retry.
var ErrFetch = errors.New("manifest fetch failed")

const fetchTimeout = 15 * time.Second

// Load performs a single read of the manifest source and decodes it.
// source is either an http(s) URL or a local file path. The load is
// one-shot per session; no caching is done here.
func Load(ctx context.Context, source string) (*Manifest, error) {
	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		data, err = fetchHTTP(ctx, source)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrFetch, source, err)
	}
	return Parse(data)
}

// Parse decodes a manifest document. Missing top-level keys are treated
// as empty mappings, not errors; only malformed JSON is fatal.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: parsing manifest: %v", ErrFetch, err)
	}
	m.normalize()
	return &m, nil
}

func fetchHTTP(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, body)
	}
	return io.ReadAll(resp.Body)
}
