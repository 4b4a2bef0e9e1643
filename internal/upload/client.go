package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"woingest/internal"
	"woingest/internal/config"
)

const (
	endpoint     = "workorder"
	maxBodyBytes = 64 << 10
	maxBodyShown = 2000
)

// UploadError is a failed chunk POST: a non-2xx reply or a transport error.
type UploadError struct {
	Status int
	Size   int
	Body   string
	Err    error
}

func (e *UploadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upload of %d records failed: %v", e.Size, e.Err)
	}
	if e.Body != "" {
		return fmt.Sprintf("upload of %d records failed: status=%d body=%s", e.Size, e.Status, e.Body)
	}
	return fmt.Sprintf("upload of %d records failed: status=%d", e.Size, e.Status)
}

func (e *UploadError) Unwrap() error { return e.Err }

type Poster interface {
	PostChunk(ctx context.Context, records []internal.WorkOrder) error
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewClient(cfg config.Config) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.UploadTimeout()},
	}
	if cfg.UploadRateLimitRPS > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.UploadRateLimitRPS), 1)
	}
	return c
}

func (c *Client) URL() string {
	return c.baseURL + "/" + endpoint
}

// PostChunk sends records as one JSON array. It never retries.
func (c *Client) PostChunk(ctx context.Context, records []internal.WorkOrder) error {
	size := len(records)
	blob, err := json.Marshal(records)
	if err != nil {
		return &UploadError{Size: size, Err: err}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &UploadError{Size: size, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(), bytes.NewReader(blob))
	if err != nil {
		return &UploadError{Size: size, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &UploadError{Size: size, Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &UploadError{
			Status: resp.StatusCode,
			Size:   size,
			Body:   responseText(resp.Header.Get("Content-Type"), body),
		}
	}
	return nil
}

// responseText turns an error body into something readable in a log line.
// HTML error pages are reduced to their text.
func responseText(contentType string, body []byte) string {
	text := string(body)
	if strings.Contains(strings.ToLower(contentType), "html") || looksLikeHTML(text) {
		if doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body)); err == nil {
			doc.Find("script,style").Remove()
			parts := []string{}
			doc.Find("*").Each(func(_ int, el *goquery.Selection) {
				el.Contents().Each(func(_ int, n *goquery.Selection) {
					if goquery.NodeName(n) == "#text" {
						parts = append(parts, n.Text())
					}
				})
			})
			text = strings.Join(parts, " ")
		}
	}
	text = strings.Join(strings.Fields(text), " ")
	if len(text) > maxBodyShown {
		text = text[:maxBodyShown] + "..."
	}
	return text
}

func looksLikeHTML(text string) bool {
	head := strings.ToLower(strings.TrimSpace(text))
	return strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html")
}
