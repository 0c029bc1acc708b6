package empllo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
	"io"
	"net/http"
	"time"
)

const DefaultFeedURL = "https://empllo.com/api/v1"

var ErrNoJobsInResponse = errors.New("response has no jobs array")

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client struct {
	httpClient  HTTPClient
	rateLimiter *rate.Limiter
	feedURL     string
}

func NewClient() *Client {
	return &Client{httpClient: &http.Client{Timeout: 30 * time.Second}, feedURL: DefaultFeedURL}
}

func (c *Client) SetHTTPClient(client HTTPClient) {
	c.httpClient = client
}

func (c *Client) SetRateLimit(maxRequestsPerSecond float32) {
	c.rateLimiter = rate.NewLimiter(rate.Limit(maxRequestsPerSecond), 1)
}

func (c *Client) SetFeedURL(url string) {
	c.feedURL = url
}

func (c *Client) SetTimeout(timeout time.Duration) {
	if client, ok := c.httpClient.(*http.Client); ok {
		client.Timeout = timeout
	}
}

// GetJobs fetches the whole feed in one request. Postings keep feed order.
func (c *Client) GetJobs(ctx context.Context) ([]JobPosting, error) {

	body, err := c.sendRequest(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return nil, err
	}

	var jobsResponse getJobsResponse
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&jobsResponse); err != nil {
		return nil, fmt.Errorf("error decoding JSON response: %w", err)
	}

	if jobsResponse.Jobs == nil {
		return nil, ErrNoJobsInResponse
	}

	return *jobsResponse.Jobs, nil
}

func (c *Client) sendRequest(ctx context.Context, method string, url string, body io.Reader) ([]byte, error) {

	if c.rateLimiter != nil {
		err := c.rateLimiter.Wait(ctx)
		if err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	return c.handleResponse(resp)
}

func (c *Client) handleResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request failed with status %v, body: %v", resp.StatusCode, string(body))
	}

	return body, nil
}
