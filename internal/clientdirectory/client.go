// Package clientdirectory resolves client identities against the client service.
package clientdirectory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/go-petr/bank-ledger/internal/domain"
	"github.com/go-petr/bank-ledger/pkg/configpkg"
	"github.com/go-petr/bank-ledger/pkg/requestid"
)

// Client calls the client service over HTTP.
type Client struct {
	baseURL            string
	idPath             string
	identificationPath string
	timeout            time.Duration
	httpClient         *http.Client
	group              singleflight.Group
}

// DefaultTimeout bounds a call when the configuration sets no timeout.
const DefaultTimeout = 5 * time.Second

// New returns a Client configured from config.
func New(config configpkg.Config) *Client {
	timeout := config.ClientServiceTimeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL:            config.ClientServiceURL,
		idPath:             config.ClientIDPath,
		identificationPath: config.ClientIdentificationPath,
		timeout:            timeout,
		httpClient:         &http.Client{},
	}
}

type details struct {
	ID             int64  `json:"id"`
	Name           string `json:"nombre"`
	Identification string `json:"identificacion"`
}

type responseProcess struct {
	Code             string `json:"code"`
	ResultMessage    string `json:"resultMessage"`
	TechnicalMessage string `json:"technicalMessage"`
}

type envelope struct {
	Details         *details         `json:"details"`
	ResponseProcess *responseProcess `json:"responseProcess"`
}

// ResolveClientID returns the id of the client with the given national id.
func (c *Client) ResolveClientID(ctx context.Context, nationalID string) (int64, error) {
	d, err := c.lookup(ctx, c.identificationPath+nationalID)
	if err != nil {
		return 0, err
	}

	return d.ID, nil
}

// ResolveClientName returns the name of the client with the given id.
func (c *Client) ResolveClientName(ctx context.Context, clientID int64) (string, error) {
	d, err := c.lookup(ctx, c.idPath+strconv.FormatInt(clientID, 10))
	if err != nil {
		return "", err
	}

	return d.Name, nil
}

// lookup collapses concurrent requests for the same path into one call.
// The shared call is not cancelled by any single caller; each caller still
// returns as soon as its own context is done.
func (c *Client) lookup(ctx context.Context, path string) (details, error) {
	ch := c.group.DoChan(path, func() (any, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		return c.get(callCtx, path)
	})

	select {
	case <-ctx.Done():
		return details{}, fmt.Errorf("GET %s: %w: %w", path, domain.ErrDirectoryUnavailable, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return details{}, res.Err
		}

		return res.Val.(details), nil
	}
}

func (c *Client) get(ctx context.Context, path string) (details, error) {
	l := zerolog.Ctx(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		l.Error().Err(err).Str("path", path).Send()
		return details{}, fmt.Errorf("GET %s: %w: %w", path, domain.ErrDirectoryUnavailable, err)
	}

	req.Header.Set("Accept", "application/json")

	if id := requestid.FromContext(ctx); id != "-" {
		req.Header.Set(requestid.Header, id)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		l.Error().Err(err).Str("path", path).Msg("client service request failed")
		return details{}, fmt.Errorf("GET %s: %w: %w", path, domain.ErrDirectoryUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		l.Info().Str("path", path).Msg("client not found")
		return details{}, fmt.Errorf("GET %s: %w", path, domain.ErrClientNotFound)
	case resp.StatusCode != http.StatusOK:
		l.Error().Int("status_code", resp.StatusCode).Str("path", path).Msg("client service returned an error")
		return details{}, fmt.Errorf("GET %s: status %d: %w", path, resp.StatusCode, domain.ErrDirectoryUnavailable)
	}

	var body envelope
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		l.Error().Err(err).Str("path", path).Msg("decode client service response")
		return details{}, fmt.Errorf("GET %s: %w: %w", path, domain.ErrDirectoryUnavailable, err)
	}

	if p := body.ResponseProcess; p != nil && p.Code != "200" && p.Code != "0" {
		l.Info().Str("path", path).Str("code", p.Code).Str("message", p.TechnicalMessage).Msg("client not found")
		return details{}, fmt.Errorf("GET %s: code %s: %w", path, p.Code, domain.ErrClientNotFound)
	}

	if body.Details == nil {
		l.Info().Str("path", path).Msg("client not found")
		return details{}, fmt.Errorf("GET %s: %w", path, domain.ErrClientNotFound)
	}

	return *body.Details, nil
}
