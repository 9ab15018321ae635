package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bitmark-inc/aqi-predictor/schema"
)

type SessionTestSuite struct {
	suite.Suite
	connURI      string
	testDBName   string
	mongoClient  *mongo.Client
	testDatabase *mongo.Database
	store        SessionStore
}

func NewSessionTestSuite(connURI, dbName string) *SessionTestSuite {
	return &SessionTestSuite{
		connURI:    connURI,
		testDBName: dbName,
	}
}

func (s *SessionTestSuite) SetupSuite() {
	if s.connURI == "" || s.testDBName == "" {
		s.T().Fatal("invalid test suite configuration")
	}

	opts := options.Client().ApplyURI(s.connURI)
	mongoClient, err := mongo.NewClient(opts)
	if nil != err {
		s.T().Fatalf("create mongo client with error: %s", err)
	}

	if err = mongoClient.Connect(context.Background()); nil != err {
		s.T().Fatalf("connect mongo database with error: %s", err.Error())
	}

	s.mongoClient = mongoClient
	s.testDatabase = mongoClient.Database(s.testDBName)
	s.store = NewMongoStore(mongoClient, s.testDBName, time.Hour)

	// make sure the test suite is run with a clean environment
	if err := s.testDatabase.Drop(context.Background()); err != nil {
		s.T().Fatal(err)
	}
	if err := s.store.(Indexer).EnsureIndexes(context.Background()); err != nil {
		s.T().Fatal(err)
	}
}

func (s *SessionTestSuite) TearDownSuite() {
	_ = s.testDatabase.Drop(context.Background())
	_ = s.mongoClient.Disconnect(context.Background())
}

func (s *SessionTestSuite) TestPutAndGet() {
	ctx := context.Background()

	session := &schema.Session{ID: "session-put-get"}
	session.Record(schema.NewPrediction(schema.DefaultReading(), 180.5, "Unhealthy", "#ff0000", "Wear a mask"))
	s.NoError(s.store.Put(ctx, session))

	actual, err := s.store.Get(ctx, session.ID)
	s.NoError(err)
	s.Equal(session.Last.ID, actual.Last.ID)
	s.Equal(session.Last.Reading, actual.Last.Reading)
	s.Equal(180.5, actual.Last.Score)
	s.Nil(actual.Previous)

	count, err := s.testDatabase.Collection(schema.SessionCollection).CountDocuments(ctx, bson.M{"_id": session.ID})
	s.NoError(err)
	s.Equal(int64(1), count)
}

func (s *SessionTestSuite) TestPutReplaces() {
	ctx := context.Background()

	session := &schema.Session{ID: "session-replace"}
	session.Record(schema.NewPrediction(schema.DefaultReading(), 40, "Good", "#00e400", ""))
	s.NoError(s.store.Put(ctx, session))
	session.Record(schema.NewPrediction(schema.DefaultReading(), 90, "Moderate", "#ffff00", ""))
	s.NoError(s.store.Put(ctx, session))

	actual, err := s.store.Get(ctx, session.ID)
	s.NoError(err)
	s.Equal(90.0, actual.Last.Score)
	s.Equal(40.0, actual.Previous.Score)
}

func (s *SessionTestSuite) TestDelete() {
	ctx := context.Background()

	s.NoError(s.store.Put(ctx, &schema.Session{ID: "session-delete"}))
	s.NoError(s.store.Delete(ctx, "session-delete"))

	_, err := s.store.Get(ctx, "session-delete")
	s.Equal(ErrSessionNotFound, err)
}

func (s *SessionTestSuite) TestPing() {
	s.NoError(s.store.Ping(context.Background()))
}

// TestMongoSessionStore runs against a real mongodb when AQI_TEST_MONGO_URI is set
func TestMongoSessionStore(t *testing.T) {
	uri := os.Getenv("AQI_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("AQI_TEST_MONGO_URI is not set")
	}
	suite.Run(t, NewSessionTestSuite(uri, "aqi-test-db"))
}
