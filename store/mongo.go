package store

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bitmark-inc/aqi-predictor/schema"
)

const (
	mongoLogPrefix = "mongo"
	defaultTimeout = 5 * time.Second
)

type mongoDB struct {
	client   *mongo.Client
	database string
	ttl      time.Duration
}

// NewMongoStore - return a session store backed by mongodb. Expiry is left to
// a TTL index on expires_at, see EnsureIndexes.
func NewMongoStore(client *mongo.Client, database string, ttl time.Duration) SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &mongoDB{
		client:   client,
		database: database,
		ttl:      ttl,
	}
}

func (m *mongoDB) collection() *mongo.Collection {
	return m.client.Database(m.database).Collection(schema.SessionCollection)
}

// EnsureIndexes creates the TTL index expiring sessions
func (m *mongoDB) EnsureIndexes(ctx context.Context) error {
	_, err := m.collection().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"expires_at": 1},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	return err
}

func (m *mongoDB) Get(ctx context.Context, id string) (*schema.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var s schema.Session
	err := m.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSessionNotFound
		}
		log.WithFields(log.Fields{
			"prefix":  mongoLogPrefix,
			"session": id,
			"error":   err,
		}).Error("find session")
		return nil, err
	}

	// the ttl monitor runs once a minute
	if s.Expired(time.Now()) {
		return nil, ErrSessionNotFound
	}
	return &s, nil
}

func (m *mongoDB) Put(ctx context.Context, session *schema.Session) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	session.ExpiresAt = time.Now().Add(m.ttl).UTC()
	_, err := m.collection().ReplaceOne(ctx,
		bson.M{"_id": session.ID},
		session,
		options.Replace().SetUpsert(true))
	if err != nil {
		log.WithFields(log.Fields{
			"prefix":  mongoLogPrefix,
			"session": session.ID,
			"error":   err,
		}).Error("upsert session")
	}
	return err
}

func (m *mongoDB) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := m.collection().DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// Ping - ping mongo db
func (m *mongoDB) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

// Close - close mongo db connections
func (m *mongoDB) Close(ctx context.Context) error {
	log.WithField("prefix", mongoLogPrefix).Info("closing mongo db connections")
	return m.client.Disconnect(ctx)
}
