package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/go-chi/jwtauth"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"derisk/app/auth"
	"derisk/app/models"
	"derisk/pkg/crypto"
)

type fakeHistory struct {
	records  []*models.TradeRecord
	recorded map[string][]*models.TradeRecord
	err      error
}

func (h *fakeHistory) TradeHistory(_ context.Context, walletID string) ([]*models.TradeRecord, error) {
	if walletID == "" {
		return nil, errors.New("empty wallet id provided")
	}
	return h.records, h.err
}

func (h *fakeHistory) RecordTrades(_ context.Context, walletID string, records []*models.TradeRecord) error {
	if h.err != nil {
		return h.err
	}
	if h.recorded == nil {
		h.recorded = make(map[string][]*models.TradeRecord)
	}
	h.recorded[walletID] = records
	return nil
}

type fakeWatcher struct {
	protocolIDs []string
	response    *models.WatcherResponse
	activations map[string]string
	err         error
}

func (w *fakeWatcher) ProtocolIDs(_ context.Context) *models.ProtocolIDs {
	return &models.ProtocolIDs{ProtocolIDs: w.protocolIDs}
}

func (w *fakeWatcher) Subscribe(_ context.Context, _ *models.SubscriptionRequest) (*models.WatcherResponse, error) {
	return w.response, w.err
}

func (w *fakeWatcher) Activate(_ context.Context, token, telegramID string) error {
	if w.err != nil {
		return w.err
	}
	if w.activations == nil {
		w.activations = make(map[string]string)
	}
	w.activations[token] = telegramID
	return nil
}

func (w *fakeWatcher) CheckAlerts(_ context.Context) error { return nil }

type fakeNotifier struct {
	subscribers []string
}

func (n *fakeNotifier) Subscribe(_ context.Context, subscriber *models.NewSubscriber) error {
	n.subscribers = append(n.subscribers, subscriber.ClientID)
	subscriber.ResponseWriter.WriteHeader(http.StatusOK)
	return nil
}

func (n *fakeNotifier) Notify(_ context.Context, _ *models.Notification) {}

type restFixture struct {
	server   *httptest.Server
	history  *fakeHistory
	watcher  *fakeWatcher
	notifier *fakeNotifier
	auth     *auth.Manager
}

func newRestFixture(t *testing.T) *restFixture {
	t.Helper()

	f := &restFixture{
		history:  &fakeHistory{},
		watcher:  &fakeWatcher{protocolIDs: []string{"zkLend", "Nostra"}},
		notifier: &fakeNotifier{},
		auth:     &auth.Manager{JWTAuth: jwtauth.New("HS256", []byte("test-secret"), nil)},
	}

	router := chi.NewRouter()
	rest := &Rest{
		Router:    router,
		History:   f.history,
		Watcher:   f.watcher,
		Notifier:  f.notifier,
		Auth:      f.auth,
		APISecret: "api-secret",
	}
	rest.Route()

	f.server = httptest.NewServer(router)
	t.Cleanup(f.server.Close)
	return f
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestProtocolIDsRoute(t *testing.T) {
	f := newRestFixture(t)

	resp, err := http.Get(f.server.URL + "/api/protocol-ids")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out models.ProtocolIDs
	decodeBody(t, resp, &out)
	require.Equal(t, []string{"zkLend", "Nostra"}, out.ProtocolIDs)
}

func TestTradeHistoryRoute(t *testing.T) {
	f := newRestFixture(t)
	f.history.records = []*models.TradeRecord{
		{Token: "ETH", Timestamp: "2024-05-01T10:00:00Z", Amount: 0.5, IsSell: true},
	}

	resp, err := http.Get(f.server.URL + "/api/history?wallet_id=0xabc")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out []*models.TradeRecord
	decodeBody(t, resp, &out)
	require.Len(t, out, 1)
	require.Equal(t, "ETH", out[0].Token)
}

func TestTradeHistoryRouteMissingWallet(t *testing.T) {
	f := newRestFixture(t)

	resp, err := http.Get(f.server.URL + "/api/history")
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var out models.WatcherResponse
	decodeBody(t, resp, &out)
	require.Equal(t, models.MessageTypeError, out.MessageType)
	require.Equal(t, []string{"empty wallet id provided"}, out.Messages)
}

func TestRecordTradesRoute(t *testing.T) {
	f := newRestFixture(t)

	body := `{"wallet_id":"0xabc","trades":[{"token":"ETH","timestamp":"2024-05-01T10:00:00Z","amount":1,"is_sell":false}]}`
	req, err := http.NewRequest(http.MethodPost, f.server.URL+"/api/history", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set(signatureHeader, crypto.GetSHA256("0xabc", "api-secret"))

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, f.history.recorded["0xabc"], 1)
}

func TestRecordTradesRouteBadSignature(t *testing.T) {
	f := newRestFixture(t)

	body := `{"wallet_id":"0xabc","trades":[]}`
	req, err := http.NewRequest(http.MethodPost, f.server.URL+"/api/history", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set(signatureHeader, "bogus")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Empty(t, f.history.recorded)
}

func TestCreateWatcherRoute(t *testing.T) {
	f := newRestFixture(t)
	f.watcher.response = &models.WatcherResponse{
		Messages:       []string{"Subscription created successfully"},
		MessageType:    models.MessageTypeSuccess,
		ActivationLink: "https://t.me/TestBot?start=token-123",
	}

	resp, err := http.Post(
		f.server.URL+"/api/liquidation-watcher",
		"application/json",
		strings.NewReader(`{"wallet_id":"0xabc","health_ratio_level":1.5,"protocol_id":"zkLend"}`),
	)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out models.WatcherResponse
	decodeBody(t, resp, &out)
	require.True(t, out.Succeeded())
	require.Equal(t, "https://t.me/TestBot?start=token-123", out.ActivationLink)
}

func TestCreateWatcherRouteRejected(t *testing.T) {
	f := newRestFixture(t)
	f.watcher.err = errors.New(`unknown protocol id: "Mystery"`)

	resp, err := http.Post(
		f.server.URL+"/api/liquidation-watcher",
		"application/json",
		strings.NewReader(`{"wallet_id":"0xabc","health_ratio_level":1.5,"protocol_id":"Mystery"}`),
	)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var out models.WatcherResponse
	decodeBody(t, resp, &out)
	require.Equal(t, models.MessageTypeError, out.MessageType)
	require.Equal(t, []string{`unknown protocol id: "Mystery"`}, out.Messages)
}

func TestActivateWatcherRoute(t *testing.T) {
	f := newRestFixture(t)

	resp, err := http.Get(f.server.URL + "/api/liquidation-watcher/activate?token=token-123&telegram_id=tg-42")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "tg-42", f.watcher.activations["token-123"])
}

func TestSubscribeRouteRequiresToken(t *testing.T) {
	f := newRestFixture(t)

	resp, err := http.Get(f.server.URL + "/api/subscribe")
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Empty(t, f.notifier.subscribers)
}

func TestSubscribeRouteWithToken(t *testing.T) {
	f := newRestFixture(t)

	token, err := f.auth.IssueActivationToken(context.Background(), "0xAbC", "sub-1")
	require.NoError(t, err)

	resp, err := http.Get(f.server.URL + "/api/subscribe?jwt=" + token)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, []string{"0xAbC"}, f.notifier.subscribers)
}
