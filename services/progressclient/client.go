// Package progressclient pushes playback samples to the progress API over HTTP.
package progressclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/Powerhouse0784/Coaching-sub000/core/playback"
	"github.com/Powerhouse0784/Coaching-sub000/core/progress"
)

// Client is a playback.Writer calling the progress API on behalf of the token's user.
type Client struct {
	baseURL string
	token   string
	http    *rest.Client
}

var _ playback.Writer = (*Client)(nil)

func New(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		http:    &rest.Client{HTTPClient: &http.Client{Timeout: timeout}},
	}
}

func (c *Client) Sync(ctx context.Context, videoID string, upd progress.Update) error {
	body, err := json.Marshal(upd)
	if err != nil {
		return errors.Wrap(err, "encoding progress update")
	}
	return c.send(ctx, rest.Put, "/v1/videos/"+url.PathEscape(videoID)+"/progress", body)
}

func (c *Client) RecordView(ctx context.Context, videoID string) error {
	return c.send(ctx, rest.Post, "/v1/videos/"+url.PathEscape(videoID)+"/views", nil)
}

func (c *Client) send(ctx context.Context, method rest.Method, path string, body []byte) error {
	req := rest.Request{
		Method:  method,
		BaseURL: c.baseURL + path,
		Headers: map[string]string{
			"Authorization": "Bearer " + c.token,
			"Content-Type":  "application/json",
		},
		Body: body,
	}
	res, err := c.http.SendWithContext(ctx, req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return errors.Errorf("%s %s: status %d: %s", method, path, res.StatusCode, strings.TrimSpace(res.Body))
	}
	return nil
}
