package market

import "context"

// API defines the interface for the market-data service.
// This interface enables mocking the client for testing purposes.
type API interface {
	// Close releases idle connections held by the client.
	Close() error

	// DisplayBaseURL returns a sanitized URL safe for display.
	DisplayBaseURL() string

	// Candles fetches one page of candles, normalized and sorted ascending.
	Candles(ctx context.Context, req CandleRequest) ([]Candle, error)

	// Metrics fetches the full snapshot history for the given series id.
	Metrics(ctx context.Context, id string) ([]Snapshot, error)

	// Instruments fetches all symbols known to the API, sorted alphabetically.
	Instruments(ctx context.Context) ([]Instrument, error)
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)
