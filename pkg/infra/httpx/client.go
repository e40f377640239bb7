package httpx

import (
	"fmt"
	"time"

	"github.com/valyala/fasthttp"
)

const (
	DefaultTimeout         = 10 * time.Second
	DefaultMaxConnsPerHost = 64
)

// Client is the minimal HTTP surface the audit sinks need.
type Client interface {
	// Post sends body to url and returns the response status code.
	Post(url, contentType string, body []byte) (int, error)
}

type fastHTTPClient struct {
	client  *fasthttp.Client
	timeout time.Duration
}

// NewClient returns a fasthttp-backed Client. A non-positive timeout falls
// back to the default.
func NewClient(timeout time.Duration) Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &fastHTTPClient{
		client: &fasthttp.Client{
			MaxConnsPerHost: DefaultMaxConnsPerHost,
			ReadTimeout:     timeout,
			WriteTimeout:    timeout,
		},
		timeout: timeout,
	}
}

func (c *fastHTTPClient) Post(url, contentType string, body []byte) (int, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType(contentType)
	req.SetBody(body)

	if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
		return 0, fmt.Errorf("http post %s: %w", url, err)
	}
	return resp.StatusCode(), nil
}
