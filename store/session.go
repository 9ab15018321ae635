package store

import (
	"context"
	"errors"
	"time"

	"github.com/bitmark-inc/aqi-predictor/schema"
)

const DefaultSessionTTL = 24 * time.Hour

var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps one record per browser session
type SessionStore interface {
	Get(ctx context.Context, id string) (*schema.Session, error)
	Put(ctx context.Context, session *schema.Session) error
	Delete(ctx context.Context, id string) error
	Pinger
	Closer
}

// Closer - close the backing storage
type Closer interface {
	Close(ctx context.Context) error
}

// Pinger - ping the backing storage
type Pinger interface {
	Ping(ctx context.Context) error
}

// Indexer - create the indexes a store relies on
type Indexer interface {
	EnsureIndexes(ctx context.Context) error
}
