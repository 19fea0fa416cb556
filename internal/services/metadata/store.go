// Package metadata fetches NFT metadata documents for display.
package metadata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/wearedood/base-gaming-sdk-unity/common/cache"
)

const maxDocumentSize = 1 << 20

var (
	ErrUnsupportedURI = errors.New("unsupported metadata uri")
	ErrNotFound       = errors.New("metadata not found")
)

type Store interface {
	Fetch(ctx context.Context, uri string) ([]byte, error)
}

// HTTPStore reads metadata over HTTP(S). ipfs:// URIs are resolved
// through the configured gateway. Plain http(s) URIs, and every redirect,
// must point at the gateway host or one of the allowed hosts.
type HTTPStore struct {
	client  *http.Client
	gateway string
	hosts   map[string]struct{}
	cache   cache.Cache[[]byte]
	ttl     time.Duration
	logger  *zap.Logger
}

func NewHTTPStore(client *http.Client, gateway string, c cache.Cache[[]byte], ttl time.Duration, logger *zap.Logger, allowedHosts ...string) *HTTPStore {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &HTTPStore{
		gateway: strings.TrimSuffix(gateway, "/"),
		hosts:   make(map[string]struct{}),
		cache:   c,
		ttl:     ttl,
		logger:  logger,
	}
	if u, err := url.Parse(s.gateway); err == nil && u.Hostname() != "" {
		s.hosts[strings.ToLower(u.Hostname())] = struct{}{}
	}
	for _, host := range allowedHosts {
		if host = strings.ToLower(strings.TrimSpace(host)); host != "" {
			s.hosts[host] = struct{}{}
		}
	}

	own := *client
	own.CheckRedirect = s.checkRedirect
	s.client = &own
	return s
}

func (s *HTTPStore) allowed(u *url.URL) bool {
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	_, ok := s.hosts[strings.ToLower(u.Hostname())]
	return ok
}

func (s *HTTPStore) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= 5 {
		return fmt.Errorf("%w: too many redirects", ErrUnsupportedURI)
	}
	if !s.allowed(req.URL) {
		return fmt.Errorf("%w: redirect to %s", ErrUnsupportedURI, req.URL.Host)
	}
	return nil
}

func (s *HTTPStore) resolve(uri string) (string, error) {
	switch {
	case strings.HasPrefix(uri, "ipfs://"):
		if s.gateway == "" {
			return "", fmt.Errorf("%w: no ipfs gateway configured", ErrUnsupportedURI)
		}
		ref := strings.TrimPrefix(uri, "ipfs://")
		if ref == "" || strings.ContainsAny(ref, "?#\\") || path.Clean("/"+ref) != "/"+strings.TrimSuffix(ref, "/") {
			return "", fmt.Errorf("%w: %q", ErrUnsupportedURI, uri)
		}
		return s.gateway + "/ipfs/" + ref, nil
	case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		u, err := url.Parse(uri)
		if err != nil || !s.allowed(u) || u.User != nil {
			return "", fmt.Errorf("%w: host not allowed in %q", ErrUnsupportedURI, uri)
		}
		return u.String(), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedURI, uri)
	}
}

func (s *HTTPStore) Fetch(ctx context.Context, uri string) ([]byte, error) {
	if s.cache != nil {
		if doc, err := s.cache.Get(uri); err == nil {
			return doc, nil
		}
	}

	target, err := s.resolve(uri)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch metadata %s: %w", uri, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, uri)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("fetch metadata %s: unexpected status %d", uri, resp.StatusCode)
	}

	doc, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("read metadata %s: %w", uri, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(uri, doc, s.ttl); err != nil {
			s.logger.Warn("Failed to cache metadata", zap.String("uri", uri), zap.Error(err))
		}
	}
	return doc, nil
}
