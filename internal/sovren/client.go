package sovren

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cargo-backend/internal/shared/apperr"
)

const DefaultEndpoint = "https://rest.resumeparsing.com/v9/parser/resume"

// Options configures a Client. Timeout zero means no client-side deadline.
type Options struct {
	Endpoint   string
	AccountID  string
	ServiceKey string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client talks to the Sovren v9 résumé parser.
type Client struct {
	endpoint   string
	accountID  string
	serviceKey string
	httpClient *http.Client
	now        func() time.Time
}

func NewClient(opts Options) *Client {
	endpoint := strings.TrimSpace(opts.Endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{
		endpoint:   endpoint,
		accountID:  opts.AccountID,
		serviceKey: opts.ServiceKey,
		httpClient: httpClient,
		now:        time.Now,
	}
}

type parseRequest struct {
	DocumentAsBase64String string `json:"DocumentAsBase64String"`
	RevisionDate           string `json:"RevisionDate"`
}

type parseResponse struct {
	Info *struct {
		Code    string `json:"Code"`
		Message string `json:"Message"`
	} `json:"Info"`
	Value *struct {
		ParsedDocument string `json:"ParsedDocument"`
	} `json:"Value"`
}

// Parse submits document and reshapes the parsed résumé. Result.Code carries the
// remote HTTP status.
func (c *Client) Parse(ctx context.Context, document []byte) (Result, error) {
	payload, err := json.Marshal(parseRequest{
		DocumentAsBase64String: base64.StdEncoding.EncodeToString(document),
		RevisionDate:           c.now().Format("2006-01-02"),
	})
	if err != nil {
		return Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return Result{}, apperr.Wrap(apperr.ErrRemoteService, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Sovren-AccountId", c.accountID)
	req.Header.Set("Sovren-ServiceKey", c.serviceKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return Result{}, apperr.Wrap(apperr.ErrRemoteService, fmt.Errorf("sovren request timeout: %w", err))
		}
		return Result{}, apperr.Wrap(apperr.ErrRemoteService, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, apperr.Wrap(apperr.ErrRemoteService, err)
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, apperr.Wrapf(apperr.ErrRemoteService, "sovren status %d: %s", resp.StatusCode, snippet(body))
	}

	var parsed parseResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Result{}, apperr.Wrap(apperr.ErrRemoteService, fmt.Errorf("sovren response parse: %w", err))
	}
	if parsed.Value == nil || strings.TrimSpace(parsed.Value.ParsedDocument) == "" {
		msg := "missing parsed document"
		if parsed.Info != nil && parsed.Info.Message != "" {
			msg = parsed.Info.Code + ": " + parsed.Info.Message
		}
		return Result{}, apperr.Wrapf(apperr.ErrRemoteService, "sovren: %s", msg)
	}

	result, err := Reshape(parsed.Value.ParsedDocument)
	if err != nil {
		return Result{}, apperr.Wrap(apperr.ErrRemoteService, err)
	}
	result.Code = resp.StatusCode
	return result, nil
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 256 {
		return s[:256]
	}
	return s
}
