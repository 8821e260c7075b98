// Package ingest consumes the companion service's push channel: a
// server-sent event stream that delivers barcodes scanned directly on the
// hardware. Each event is handed to the scan workflow as if the button had
// been pressed, targeting whichever folder is active at delivery time.
package ingest

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"smart-cart-backend/internal/model"
	"smart-cart-backend/internal/scanner"
)

// Ingestor receives barcodes pulled off the push channel.
type Ingestor interface {
	IngestBarcode(ctx context.Context, barcode string) (*model.ScannedItem, error)
}

// pushEvent is the payload of one stream event.
type pushEvent struct {
	Barcode string `json:"barcode" validate:"required"`
}

// Listener maintains a subscription to the event stream and feeds decoded
// barcodes to the ingestor one at a time, in arrival order.
type Listener struct {
	url      string
	client   *http.Client
	ingestor Ingestor
	validate *validator.Validate
	retry    time.Duration
	log      zerolog.Logger
}

// NewListener creates a listener for the stream at url. retry is the pause
// between reconnection attempts; zero means 5 seconds.
func NewListener(url string, ingestor Ingestor, retry time.Duration, log zerolog.Logger) *Listener {
	if retry <= 0 {
		retry = 5 * time.Second
	}
	return &Listener{
		url: url,
		// No overall timeout: the stream stays open indefinitely.
		client:   &http.Client{},
		ingestor: ingestor,
		validate: validator.New(),
		retry:    retry,
		log:      log.With().Str("component", "ingest").Logger(),
	}
}

// Run connects to the stream and processes events until ctx is cancelled,
// reconnecting after stream errors. It blocks; run it in a goroutine.
func (l *Listener) Run(ctx context.Context) {
	for {
		if err := l.consume(ctx); err != nil && !errors.Is(err, context.Canceled) {
			l.log.Warn().Err(err).Dur("retry_in", l.retry).Msg("event stream dropped")
		}

		select {
		case <-ctx.Done():
			l.log.Info().Msg("ingestion listener shutting down")
			return
		case <-time.After(l.retry):
		}
	}
}

// consume opens one stream connection and dispatches its events until the
// connection breaks or ctx is cancelled.
func (l *Listener) consume(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := l.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.New("event stream returned status " + resp.Status)
	}
	l.log.Info().Str("url", l.url).Msg("event stream connected")

	lines := bufio.NewScanner(resp.Body)
	var data strings.Builder
	for lines.Scan() {
		line := lines.Text()
		switch {
		case line == "":
			// Blank line terminates an event.
			if data.Len() > 0 {
				l.dispatch(ctx, data.String())
				data.Reset()
			}
		case strings.HasPrefix(line, "data:"):
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		default:
			// Comments and fields other than data are ignored.
		}
	}
	return lines.Err()
}

// dispatch decodes and validates one event payload, then hands the barcode
// to the ingestor. A malformed event is logged and skipped; the stream
// keeps flowing.
func (l *Listener) dispatch(ctx context.Context, payload string) {
	var event pushEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		l.log.Warn().Err(err).Str("payload", payload).Msg("dropping malformed push event")
		return
	}
	if err := l.validate.Struct(event); err != nil {
		l.log.Warn().Err(err).Str("payload", payload).Msg("dropping push event with missing barcode")
		return
	}

	if _, err := l.ingestor.IngestBarcode(ctx, event.Barcode); err != nil {
		if errors.Is(err, scanner.ErrNoActiveFolder) {
			l.log.Debug().Str("barcode", event.Barcode).Msg("push event ignored, no active cart")
			return
		}
		l.log.Error().Err(err).Str("barcode", event.Barcode).Msg("failed to ingest pushed barcode")
	}
}
