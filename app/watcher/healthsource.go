package watcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// HealthSource reports the current health ratio of a wallet's position in a
// protocol.
type HealthSource interface {
	HealthRatio(ctx context.Context, walletID, protocolID string) (float64, error)
}

// HTTPHealthSource reads health ratios from the risk engine's plain-text
// endpoint. The endpoint template takes protocol and wallet query parameters.
type HTTPHealthSource struct {
	Endpoint   string
	HttpClient *http.Client
}

func (s *HTTPHealthSource) HealthRatio(ctx context.Context, walletID, protocolID string) (float64, error) {
	url := fmt.Sprintf("%s?protocol=%s&user_id=%s", s.Endpoint, protocolID, walletID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, errors.Wrap(err, "failed to create a request")
	}

	client := s.HttpClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, errors.Wrap(err, "failed to fetch a health ratio")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 0, errors.Errorf("health ratio endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, errors.Wrap(err, "failed to read a response")
	}

	ratio, err := strconv.ParseFloat(strings.Trim(strings.TrimSpace(string(body)), `"`), 64)
	if err != nil {
		return 0, errors.Wrap(err, "failed to parse a health ratio")
	}
	return ratio, nil
}
