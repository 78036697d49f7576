package utils

import (
	"log"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

const (
	DefaultTimeout = 10 * time.Second
	userAgent      = "abs-chapters/1.0"
)

// NewRestyClient returns a client for baseURL that sends bearer token auth,
// tags every request with an X-Request-ID and never retries.
func NewRestyClient(baseURL, token string, timeout time.Duration, verbose bool) *resty.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client := resty.New()
	client.SetTransport(&http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		TLSHandshakeTimeout: timeout,
	})
	client.SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetAuthToken(token).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", userAgent).
		SetDebug(verbose)

	if verbose {
		client.SetLogger(stdLogger{})
	} else {
		client.SetLogger(disableLogger{})
	}

	client.OnBeforeRequest(func(c *resty.Client, r *resty.Request) error {
		if r.Header.Get("X-Request-ID") == "" {
			r.SetHeader("X-Request-ID", uuid.NewString())
		}
		return nil
	})

	return client
}

type disableLogger struct{}

func (d disableLogger) Errorf(string, ...interface{}) {}
func (d disableLogger) Warnf(string, ...interface{})  {}
func (d disableLogger) Debugf(string, ...interface{}) {}

type stdLogger struct{}

func (l stdLogger) Errorf(format string, v ...interface{}) { log.Printf("ERROR "+format, v...) }
func (l stdLogger) Warnf(format string, v ...interface{})  { log.Printf("WARN "+format, v...) }
func (l stdLogger) Debugf(format string, v ...interface{}) { log.Printf("DEBUG "+format, v...) }
