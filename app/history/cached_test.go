package history

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"derisk/app/models"
)

type fakeSource struct {
	records []*models.TradeRecord
	err     error
	calls   int
}

func (s *fakeSource) History(_ context.Context, _ string) ([]*models.TradeRecord, error) {
	s.calls++
	return s.records, s.err
}

func TestCachedFetcherReturnsFresh(t *testing.T) {
	source := &fakeSource{records: []*models.TradeRecord{
		{Token: "ETH", Timestamp: "2024-05-01T10:00:00Z", Amount: 1.5, IsSell: false},
	}}
	fetcher := NewCachedFetcher(source)

	got, err := fetcher.History(context.Background(), "0xabc")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "ETH", got[0].Token)
	require.Equal(t, 1, source.calls)
}

func TestCachedFetcherServesStaleOnFailure(t *testing.T) {
	source := &fakeSource{records: []*models.TradeRecord{
		{Token: "STRK", Timestamp: "2024-05-01T10:00:00Z", Amount: 10, IsSell: true},
	}}
	fetcher := NewCachedFetcher(source)

	_, err := fetcher.History(context.Background(), "0xabc")
	require.NoError(t, err)

	source.err = errors.New("backend down")
	got, err := fetcher.History(context.Background(), "0xabc")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "STRK", got[0].Token)
}

func TestCachedFetcherFailsWithoutCache(t *testing.T) {
	source := &fakeSource{err: errors.New("backend down")}
	fetcher := NewCachedFetcher(source)

	_, err := fetcher.History(context.Background(), "0xabc")
	require.Error(t, err)

	_, found := fetcher.Cached("0xabc")
	require.False(t, found)
}

func TestCachedFetcherCachePerWallet(t *testing.T) {
	source := &fakeSource{records: []*models.TradeRecord{
		{Token: "ETH", Timestamp: "2024-05-01T10:00:00Z", Amount: 2, IsSell: false},
	}}
	fetcher := NewCachedFetcher(source)

	_, err := fetcher.History(context.Background(), "0xabc")
	require.NoError(t, err)

	source.err = errors.New("backend down")
	_, err = fetcher.History(context.Background(), "0xdef")
	require.Error(t, err)

	got, found := fetcher.Cached("0xabc")
	require.True(t, found)
	require.Len(t, got, 1)
}
