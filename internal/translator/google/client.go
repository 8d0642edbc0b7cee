// Package google is a translator.Provider backed by the public Google
// Translate web endpoint.
package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"resty.dev/v3"

	"github.com/tiksanauto/cartitle/internal/translator"
)

const translatePath = "/translate_a/single"

type Config struct {
	BaseURL        string
	SourceLanguage string
	TargetLanguage string
	Timeout        time.Duration
}

type Client struct {
	httpClient     *resty.Client
	sourceLanguage string
	targetLanguage string
}

func NewClient(cfg Config) *Client {
	client := resty.New()
	client.SetBaseURL(cfg.BaseURL)
	client.SetHeader("Accept", "application/json")
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	return &Client{
		httpClient:     client,
		sourceLanguage: cfg.SourceLanguage,
		targetLanguage: cfg.TargetLanguage,
	}
}

func (client *Client) Close() error {
	return client.httpClient.Close()
}

// response is the positional array returned by the endpoint. The first
// element lists [translated, original, ...] segments.
type response []json.RawMessage

func (client *Client) Translate(ctx context.Context, text string) (string, error) {
	res, err := client.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"client": "gtx",
			"sl":     client.sourceLanguage,
			"tl":     client.targetLanguage,
			"dt":     "t",
			"q":      text,
		}).
		SetResult(&response{}).
		Get(translatePath)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: httpClient.Get > %w", translator.ErrTransient, err)
	}

	switch status := res.StatusCode(); {
	case status == http.StatusTooManyRequests:
		return "", fmt.Errorf("%w: response error %d", translator.ErrRateLimited, status)
	case status >= http.StatusInternalServerError:
		return "", fmt.Errorf("%w: response error %d", translator.ErrTransient, status)
	case res.IsError():
		return "", fmt.Errorf("response error %d: %s", status, res.String())
	}

	body, ok := res.Result().(*response)
	if !ok || body == nil {
		return "", fmt.Errorf("%w: unexpected response: %s", translator.ErrTransient, res.String())
	}
	translated, err := body.text()
	if err != nil {
		return "", fmt.Errorf("%w: %w", translator.ErrTransient, err)
	}
	return translated, nil
}

func (r response) text() (string, error) {
	if len(r) == 0 {
		return "", fmt.Errorf("empty response")
	}

	var segments [][]any
	if err := json.Unmarshal(r[0], &segments); err != nil {
		return "", fmt.Errorf("json.Unmarshal segments > %w", err)
	}

	var builder strings.Builder
	for _, segment := range segments {
		if len(segment) == 0 {
			continue
		}
		if s, ok := segment[0].(string); ok {
			builder.WriteString(s)
		}
	}

	translated := strings.TrimSpace(builder.String())
	if translated == "" {
		return "", fmt.Errorf("no translation in response")
	}
	return translated, nil
}
