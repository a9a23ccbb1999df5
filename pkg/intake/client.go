package intake

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/bft-labs/logship/pkg/log"
)

const inputEndpoint = "/v1/input/"

// Endpoint identifies the intake service and the API key used to
// authenticate against it.
type Endpoint struct {
	// Host is the intake hostname or address
	Host string

	// Port is the intake TCP port
	Port int

	// APIKey authenticates the sender; it becomes the final URL segment
	APIKey string
}

// URL returns the full intake URL for this endpoint.
func (e Endpoint) URL() string {
	return fmt.Sprintf("http://%s:%d%s%s", e.Host, e.Port, inputEndpoint, e.APIKey)
}

// Client POSTs encoded payloads to the intake service.
type Client struct {
	client   HTTPClient
	endpoint Endpoint
	logger   log.Logger
}

// NewClient creates a new intake client.
func NewClient(client HTTPClient, endpoint Endpoint, logger log.Logger) *Client {
	return &Client{
		client:   client,
		endpoint: endpoint,
		logger:   logger,
	}
}

// Send POSTs the payload to the input endpoint. The request carries
// Content-Type application/json, plus Content-Encoding gzip when the
// payload was compressed. Returns a *DeliveryError when the request
// cannot be completed or the service answers outside the 2xx range.
func (c *Client) Send(ctx context.Context, payload Payload) error {
	url := c.endpoint.URL()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload.Body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if payload.Compressed {
		req.Header.Set("Content-Encoding", "gzip")
	}

	c.logger.Debug("submitting payload",
		log.String("url", url),
		log.Int("bytes", len(payload.Body)),
		log.Int("records", payload.Records),
		log.Bool("compressed", payload.Compressed),
	)

	resp, err := c.client.Do(req)
	if err != nil {
		return &DeliveryError{URL: url, Payload: string(payload.Body), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		respBody, _ := io.ReadAll(resp.Body)
		return &DeliveryError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(respBody),
			Payload:    string(payload.Body),
			URL:        url,
		}
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Debug("read response body", log.Err(err))
		return nil
	}
	c.logger.Debug("payload accepted",
		log.Int("status", resp.StatusCode),
		log.String("response", string(respBody)),
	)
	return nil
}
