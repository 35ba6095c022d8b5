package page

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/custodia-labs/findable/internal/core/domain"
	"github.com/custodia-labs/findable/internal/logger"
)

// Stdin is the source name that reads the page from standard input.
const Stdin = "-"

// DefaultTimeout bounds a page download.
const DefaultTimeout = 30 * time.Second

const userAgent = "findable/1.0 (+https://github.com/custodia-labs/findable)"

// Loader fetches pages from files, URLs or standard input.
type Loader struct {
	// Client performs HTTP requests. A client with DefaultTimeout is used when nil.
	Client *http.Client

	// Stdin is read for the "-" source. Defaults to os.Stdin.
	Stdin io.Reader
}

// Load reads src with a default Loader.
func Load(ctx context.Context, src string, opts ...Option) (*Page, error) {
	return (&Loader{}).Load(ctx, src, opts...)
}

// Load reads and parses src: a file path, a file:// or http(s):// URL, or
// "-" for standard input. URL pages resolve links against their address.
func (l *Loader) Load(ctx context.Context, src string, opts ...Option) (*Page, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, fmt.Errorf("%w: empty source", domain.ErrUnsupportedSource)
	}
	defer logger.Timed("load " + src)()

	if src == Stdin {
		in := l.Stdin
		if in == nil {
			in = os.Stdin
		}
		return Parse(in, opts...)
	}

	u, err := url.Parse(src)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// Plain paths, including Windows drive letters.
		return l.loadFile(src, opts)
	}

	switch u.Scheme {
	case "file":
		return l.loadFile(u.Path, opts)
	case "http", "https":
		return l.loadURL(ctx, u, opts)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedSource, u.Scheme)
	}
}

func (l *Loader) loadFile(path string, opts []Option) (*Page, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer f.Close()

	return Parse(f, opts...)
}

func (l *Loader) loadURL(ctx context.Context, u *url.URL, opts []Option) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	client := l.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetching %s: status %d", u, resp.StatusCode)
	}

	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", u, err)
	}

	base := u
	if resp.Request != nil && resp.Request.URL != nil {
		base = resp.Request.URL
	}
	return Parse(body, append([]Option{WithBaseURL(base)}, opts...)...)
}
