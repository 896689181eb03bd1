// Package viacep resolves Brazilian postal codes (CEP) through the ViaCEP web service.
package viacep

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"library/config"
	"library/internal/domain/service"

	"github.com/pkg/errors"
)

const (
	defaultBaseURL = "https://viacep.com.br/ws"
	maxErrorBody   = 512
)

// lookupResponse is the ViaCEP JSON shape. Unknown codes answer 200 with {"erro": true}.
type lookupResponse struct {
	PostalCode string `json:"cep"`
	Street     string `json:"logradouro"`
	District   string `json:"bairro"`
	City       string `json:"localidade"`
	State      string `json:"uf"`
	Erro       any    `json:"erro"`
}

// notFound handles both the boolean and the string form of "erro".
func (r *lookupResponse) notFound() bool {
	switch v := r.Erro.(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(v, "true")
	default:
		return false
	}
}

type client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// New builds the AddressLookup from configuration.
func New(cfg *config.Config, logger *slog.Logger) service.AddressLookup {
	lookupCfg := cfg.AddressLookup
	if lookupCfg == nil {
		lookupCfg = &config.AddressLookupConfig{}
	}

	return NewClient(lookupCfg.BaseURL, &http.Client{Timeout: lookupCfg.Timeout}, logger)
}

// NewClient creates a ViaCEP client against baseURL.
func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger) service.AddressLookup {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger,
	}
}

// Lookup fetches <baseURL>/<postalCode>/json/.
func (c *client) Lookup(ctx context.Context, postalCode string) (*service.PostalAddress, error) {
	endpoint := fmt.Sprintf("%s/%s/json/", c.baseURL, postalCode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build address lookup request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "address lookup request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

		return nil, errors.Errorf("address lookup returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errors.Wrap(err, "failed to decode address lookup response")
	}

	if payload.notFound() {
		c.logger.DebugContext(ctx, "Postal code unknown to lookup service", slog.String("postal_code", postalCode))

		return nil, service.ErrPostalCodeNotFound
	}

	return &service.PostalAddress{
		Street:   payload.Street,
		District: payload.District,
		City:     payload.City,
		State:    payload.State,
	}, nil
}
