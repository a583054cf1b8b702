package http

import (
	"context"
	"fmt"
	"mime"
	"net"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/NamanBalaji/filemat/internal/logger"
)

const (
	defaultConnectTimeout = 30 * time.Second
	defaultHeaderTimeout  = 30 * time.Second
	defaultIdleTimeout    = 90 * time.Second
	keepAlivePeriod       = 30 * time.Second
	maxIdleConns          = 100
	tlsHandshakeTimeout   = 10 * time.Second
	expectContinueTimeout = 1 * time.Second
	maxConnsPerHost       = 16

	DefaultUserAgent = "filemat/1.0"

	defaultResourceName = "resource"
)

type Client struct {
	*http.Client
}

// Metadata is what a HEAD request tells us about a remote object.
type Metadata struct {
	Name         string
	Size         int64
	ContentType  string
	LastModified time.Time
}

// ClientOption tunes the transport built by NewClient.
type ClientOption func(*http.Transport)

// WithResponseHeaderTimeout bounds the wait for response headers. Zero keeps the default.
func WithResponseHeaderTimeout(d time.Duration) ClientOption {
	return func(t *http.Transport) {
		if d > 0 {
			t.ResponseHeaderTimeout = d
		}
	}
}

// NewClient creates a new HTTP client with custom transport settings.
// Bodies are streamed, so there is no overall request timeout; only
// connecting and waiting for headers are bounded.
func NewClient(opts ...ClientOption) *Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   defaultConnectTimeout,
			KeepAlive: keepAlivePeriod,
		}).DialContext,
		MaxIdleConns:          maxIdleConns,
		IdleConnTimeout:       defaultIdleTimeout,
		TLSHandshakeTimeout:   tlsHandshakeTimeout,
		ExpectContinueTimeout: expectContinueTimeout,
		ResponseHeaderTimeout: defaultHeaderTimeout,
		DisableCompression:    true,
		MaxConnsPerHost:       maxConnsPerHost,
	}

	for _, opt := range opts {
		opt(transport)
	}

	return &Client{
		&http.Client{
			Transport: transport,
		},
	}
}

// Head performs a HEAD request and extracts the object's metadata.
func (c *Client) Head(ctx context.Context, urlStr string, headers map[string]string) (Metadata, error) {
	logger.Debugf("Sending HEAD request to %s", urlStr)

	resp, err := c.do(ctx, urlStr, http.MethodHead, headers)
	if err != nil {
		return Metadata{}, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Warnf("Failed to close response body: %v", err)
		}
	}()

	size := resp.ContentLength
	if size < 0 {
		size, _ = strconv.ParseInt(resp.Header.Get("Content-Length"), 10, 64)
	}

	return Metadata{
		Name:         GetFilename(resp),
		Size:         size,
		ContentType:  resp.Header.Get("Content-Type"),
		LastModified: ParseLastModified(resp.Header.Get("Last-Modified")),
	}, nil
}

// Get performs a GET request. The caller owns and must close the body.
func (c *Client) Get(ctx context.Context, urlStr string, headers map[string]string) (*http.Response, error) {
	logger.Debugf("Sending GET request to %s", urlStr)
	return c.do(ctx, urlStr, http.MethodGet, headers)
}

func (c *Client) do(ctx context.Context, urlStr, method string, headers map[string]string) (*http.Response, error) {
	req, err := generateRequest(ctx, urlStr, method, headers)
	if err != nil {
		return nil, err
	}

	resp, err := c.Do(req)
	if err != nil {
		logger.Errorf("%s request failed for %s: %v", method, urlStr, err)
		return nil, fmt.Errorf("%w: %v", ClassifyError(err), err)
	}

	logger.Debugf("%s response for %s: status=%d", method, urlStr, resp.StatusCode)

	if resp.StatusCode >= http.StatusBadRequest {
		resp.Body.Close()
		logger.Errorf("%s request returned error status %d for %s", method, resp.StatusCode, urlStr)
		return nil, ClassifyHTTPError(resp.StatusCode)
	}

	return resp, nil
}

// generateRequest creates a new HTTP request with the specified method and URL.
func generateRequest(ctx context.Context, urlStr, method string, headers map[string]string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, urlStr, http.NoBody)
	if err != nil {
		logger.Errorf("Failed to create %s request for %s: %v", method, urlStr, err)
		return nil, fmt.Errorf("%w: %v", ErrRequestCreation, err)
	}

	req.Header.Set("User-Agent", DefaultUserAgent)

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	return req, nil
}

// GetFilename tries extracts the filename from the Content-Disposition header or the URL.
func GetFilename(resp *http.Response) string {
	fileName, ok := getFileNameFromContentDisposition(resp.Header.Get("Content-Disposition"))
	if ok {
		return fileName
	}

	return FilenameFromURL(resp.Request.URL)
}

// FilenameFromURL derives a name from the filename query parameter or the
// last path segment.
func FilenameFromURL(u *url.URL) string {
	if u == nil {
		return defaultResourceName
	}

	if qname := u.Query().Get("filename"); qname != "" {
		return qname
	}

	base := path.Base(u.Path)
	if base != "" && base != "/" && base != "." {
		return base
	}

	return defaultResourceName
}

func getFileNameFromContentDisposition(header string) (string, bool) {
	if header == "" {
		return "", false
	}

	if _, params, err := mime.ParseMediaType(header); err == nil {
		if fName, ok := params["filename"]; ok {
			return fName, true
		}

		if fName, ok := params["filename*"]; ok {
			return fName, true
		}
	}

	return "", false
}

// ParseLastModified parses the Last-Modified header.
func ParseLastModified(header string) time.Time {
	if header == "" {
		return time.Time{}
	}

	t, err := http.ParseTime(header)
	if err != nil {
		logger.Debugf("Failed to parse Last-Modified header: %s, error: %v", header, err)
		return time.Time{}
	}

	return t
}
