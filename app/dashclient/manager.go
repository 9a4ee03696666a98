package dashclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"

	"derisk/app/config"
	"derisk/app/models"
	"derisk/pkg/crypto"
)

const (
	signatureHeader = "x-signature"

	protocolIDsPath = "/api/protocol-ids"
	historyPath     = "/api/history"
	watcherPath     = "/api/liquidation-watcher"
)

// Manager talks to the dashboard backend on behalf of the terminal client.
type Manager struct {
	Config     config.Backend
	HttpClient *http.Client
}

func (m *Manager) ProtocolIDs(ctx context.Context) ([]string, error) {
	body, err := m.get(ctx, m.Config.BasePath+protocolIDsPath)
	if err != nil {
		return nil, err
	}

	ids := new(models.ProtocolIDs)
	if err = json.Unmarshal(body, ids); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal a response from the dashboard backend")
	}
	return ids.ProtocolIDs, nil
}

func (m *Manager) History(ctx context.Context, walletID string) ([]*models.TradeRecord, error) {
	body, err := m.get(ctx, m.Config.BasePath+historyPath+"?wallet_id="+walletID)
	if err != nil {
		return nil, err
	}

	var records []*models.TradeRecord
	if err = json.Unmarshal(body, &records); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal a response from the dashboard backend")
	}
	return records, nil
}

// CreateWatcher submits the liquidation-watcher form. A rejected submission
// with a well-formed body is returned as a response, not an error, so the
// caller can show the backend's messages verbatim.
func (m *Manager) CreateWatcher(ctx context.Context, request *models.SubscriptionRequest) (*models.WatcherResponse, error) {
	payload, err := json.Marshal(request)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal a request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.Config.BasePath+watcherPath, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.New("failed to create a post request")
	}
	req.Header.Set("Content-Type", "application/json")
	if m.Config.ApiKey != "" {
		req.Header.Set(signatureHeader, crypto.GetSHA256(request.WalletID, m.Config.ApiKey))
	}

	resp, err := m.httpClient().Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to perform a post request to the dashboard backend")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read a response body from the dashboard backend")
	}

	response := new(models.WatcherResponse)
	if err = json.Unmarshal(body, response); err != nil || len(response.Messages) == 0 {
		return nil, errors.Errorf("response has status code with error: %d", resp.StatusCode)
	}
	return response, nil
}

func (m *Manager) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.New("failed to create a get request")
	}

	resp, err := m.httpClient().Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to perform a get request to the dashboard backend")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("response has status code with error: %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

func (m *Manager) httpClient() *http.Client {
	if m.HttpClient != nil {
		return m.HttpClient
	}
	return http.DefaultClient
}
