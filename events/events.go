// Package events publishes the result of every solved machine.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// DefaultSubject is the subject results are published on when none is given.
const DefaultSubject = "joltsat.results"

// flushTimeout bounds the time Close waits for pending results to reach the server.
const flushTimeout = 5 * time.Second

// ErrNotConnected is returned when publishing through a closed connection.
var ErrNotConnected = errors.New("nats not connected")

// An Event describes the result of a machine.
type Event struct {
	Run      string `json:"run"`
	Line     int    `json:"line"`
	Presses  int    `json:"presses"`
	Feasible bool   `json:"feasible"`
	Models   int    `json:"models"`
	Cached   bool   `json:"cached,omitempty"`
}

// Encode returns the JSON payload of e.
func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// A Publisher sends payloads on a subject.
type Publisher interface {
	Publish(ctx context.Context, subject string, payload []byte) error
	Close()
}

// Discard is a Publisher that drops everything.
var Discard Publisher = discard{}

type discard struct{}

func (discard) Publish(context.Context, string, []byte) error { return nil }
func (discard) Close()                                        {}

// NATSPublisher publishes payloads on a NATS server.
type NATSPublisher struct {
	nc  *nats.Conn
	url string
	log *zap.Logger
}

// Connect connects to the NATS server at url.
func Connect(url string, log *zap.Logger) (*NATSPublisher, error) {
	opts := []nats.Option{
		nats.Name("joltsat"),
		nats.Timeout(2 * time.Second),
		nats.MaxReconnects(3),
		nats.ReconnectWait(time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				log.Warn("nats disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("nats reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	}
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("could not connect to %s: %w", url, err)
	}
	return &NATSPublisher{nc: nc, url: url, log: log}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, subject string, payload []byte) error {
	if p.nc == nil || p.nc.IsClosed() {
		return ErrNotConnected
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.nc.Publish(subject, payload)
}

// Close flushes pending messages and closes the connection.
func (p *NATSPublisher) Close() {
	if p.nc == nil || p.nc.IsClosed() {
		return
	}
	if err := p.nc.FlushTimeout(flushTimeout); err != nil && p.log != nil {
		p.log.Warn("some results may not have been published", zap.String("url", p.url), zap.Error(err))
	}
	p.nc.Close()
}

// Dial returns a publisher to url, or Discard if url is empty or the server cannot be reached.
// Results are published on a best-effort basis: a failed connection never stops a run.
func Dial(url string, log *zap.Logger) Publisher {
	if url == "" {
		return Discard
	}
	p, err := Connect(url, log)
	if err != nil {
		log.Warn("results will not be published", zap.Error(err))
		return Discard
	}
	return p
}
