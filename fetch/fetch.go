// Package fetch loads the raw byte stream that the HTML tokenizer
// consumes. It knows nothing about tags, tokens, or trees: its only job
// is turning a path, an http(s) URL, a data: URL, or a URL relative to
// a document's own location into bytes.
//
// Spec references:
// - HTML5 §2.5 URLs: URL resolution and resource fetching
// - RFC 2397: The "data" URL scheme
package fetch

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// Loader loads an HTML document's source from a file path, an http(s)
// URL, a data: URL, or a URL relative to BaseURL, and hands back the
// decoded character stream the tokenizer is built to consume. It
// carries no parsing behavior.
type Loader struct {
	// BaseURL is the absolute URL this document was itself loaded
	// from, if any. A reference passed to Load that is neither a
	// data: URL nor already an absolute http(s) URL is resolved
	// against it (HTML5 §2.5) before being fetched, the way a browser
	// resolves a relative resource reference against the page that
	// names it.
	BaseURL string
}

// NewLoader creates a Loader whose relative-reference resolution is
// anchored at baseURL. Pass "" if the caller has no base document (a
// bare file path or a fully-qualified URL is all that will ever be
// loaded through it).
func NewLoader(baseURL string) *Loader {
	return &Loader{BaseURL: baseURL}
}

// Load loads raw bytes from path, which may be a file path, an
// absolute http(s) URL, a data: URL (RFC 2397), or a reference
// resolved against BaseURL.
func (l *Loader) Load(path string) ([]byte, error) {
	switch {
	case isDataURL(path):
		return loadFromDataURL(path)
	case isHTTPURL(path):
		return loadFromHTTP(path)
	}
	if resolved, ok := l.resolveAgainstBase(path); ok {
		return loadFromHTTP(resolved)
	}
	return os.ReadFile(path)
}

// LoadString loads path and returns its content as a string, ready to
// hand to html.Parse.
func (l *Loader) LoadString(path string) (string, error) {
	data, err := l.Load(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// resolveAgainstBase reports whether ref is a relative reference that
// can be resolved into an absolute http(s) URL against BaseURL, and
// returns that resolved URL if so. A ref that is itself already
// absolute (it has a scheme, even a non-http(s) one) is left for Load's
// os.ReadFile fallback instead. A ref starting with '/' has no scheme,
// so it is resolved as a root-relative reference, not read as an
// absolute filesystem path.
func (l *Loader) resolveAgainstBase(ref string) (string, bool) {
	if l.BaseURL == "" {
		return "", false
	}
	base, err := url.Parse(l.BaseURL)
	if err != nil || !base.IsAbs() || (base.Scheme != "http" && base.Scheme != "https") {
		return "", false
	}
	relURL, err := url.Parse(ref)
	if err != nil || relURL.IsAbs() {
		return "", false
	}
	return base.ResolveReference(relURL).String(), true
}

func isHTTPURL(input string) bool {
	return strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://")
}

func isDataURL(input string) bool {
	return strings.HasPrefix(input, "data:")
}

func loadFromHTTP(urlStr string) ([]byte, error) {
	resp, err := http.Get(urlStr)
	if err != nil {
		return nil, fmt.Errorf("fetch: failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch: HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch: failed to read response body: %w", err)
	}
	return body, nil
}

// loadFromDataURL decodes a data URL and returns its content.
// RFC 2397: data:[<mediatype>][;base64],<data>
func loadFromDataURL(dataURL string) ([]byte, error) {
	parsedURL, err := url.Parse(dataURL)
	if err != nil {
		return nil, fmt.Errorf("fetch: failed to parse data URL: %w", err)
	}
	if parsedURL.Scheme != "data" {
		return nil, fmt.Errorf("fetch: not a data URL")
	}

	dataStr := parsedURL.Opaque
	commaIdx := strings.Index(dataStr, ",")
	if commaIdx == -1 {
		return nil, fmt.Errorf("fetch: invalid data URL: missing comma")
	}

	metadata := dataStr[:commaIdx]
	data := dataStr[commaIdx+1:]

	if strings.HasSuffix(metadata, ";base64") {
		decoded, err := base64.StdEncoding.DecodeString(data)
		if err != nil {
			return nil, fmt.Errorf("fetch: failed to decode base64 data: %w", err)
		}
		return decoded, nil
	}

	decoded, err := url.QueryUnescape(data)
	if err != nil {
		return nil, fmt.Errorf("fetch: failed to URL decode data: %w", err)
	}
	return []byte(decoded), nil
}
