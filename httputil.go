package wealth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/rs/zerolog/log"
)

// contains http utils to deal with remote quote services

// GetJSON performs an HTTP GET request and unmarshals the JSON response into
// the provided data structure. Extra headers are added to the request.
func GetJSON(ctx context.Context, client *http.Client, addr string, header http.Header, data any) error {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "hsw/1.0")
	for k, v := range header {
		req.Header[k] = v
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	log.Debug().
		Str("method", req.Method).
		Str("host", req.URL.Host).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("http request")

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cannot http GET %v%v: %v", req.URL.Host, req.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return err
	}
	return json.Unmarshal(buf.Bytes(), data)
}

// JSONPath evaluates path on a decoded JSON document and returns the first
// match.
func JSONPath(path string, doc any) (any, error) {
	jval, err := jsonpath.Get(path, doc)
	if err != nil {
		return nil, fmt.Errorf("error parsing %q: %w", path, err)
	}
	// jsonpath is never clear about whether it returns a list of 1 answer, or a single answer:
	// keep the first one if any
	if jlist, ok := jval.([]any); ok {
		if len(jlist) == 0 {
			return nil, fmt.Errorf("error parsing %q: no match", path)
		}
		jval = jlist[0]
	}
	return jval, nil
}

// JSONFloat evaluates path like JSONPath and requires a positive number.
func JSONFloat(path string, doc any) (float64, error) {
	jval, err := JSONPath(path, doc)
	if err != nil {
		return 0, err
	}
	val, ok := jval.(float64)
	if !ok {
		return 0, fmt.Errorf("error parsing %q: not a number: %v", path, jval)
	}
	if val <= 0 {
		return 0, fmt.Errorf("error parsing %q: not a positive price: %v", path, val)
	}
	return val, nil
}
