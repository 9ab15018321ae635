package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bitmark-inc/aqi-predictor/api"
	"github.com/bitmark-inc/aqi-predictor/external/aqi"
	"github.com/bitmark-inc/aqi-predictor/model"
	"github.com/bitmark-inc/aqi-predictor/score"
	"github.com/bitmark-inc/aqi-predictor/store"
	"github.com/bitmark-inc/aqi-predictor/utils"
)

var (
	mu       sync.Mutex
	server   *api.Server
	sessions store.SessionStore
)

func initLog() {
	logLevel, err := log.ParseLevel(viper.GetString("log.level"))
	if err != nil {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(logLevel)
	}

	log.SetOutput(os.Stdout)

	log.SetFormatter(&prefixed.TextFormatter{
		ForceFormatting: true,
		FullTimestamp:   true,
	})
}

func loadConfig(file string) {
	// Config from file
	viper.SetConfigType("yaml")
	if file != "" {
		viper.SetConfigFile(file)
	}

	viper.AddConfigPath("/.config/")
	viper.AddConfigPath(".")
	err := viper.ReadInConfig()
	if err != nil {
		fmt.Println("No config file. Read config from env.")
		viper.AllowEmptyEnv(false)
	}

	// Config from env if possible
	viper.AutomaticEnv()
	viper.SetEnvPrefix("aqi")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("model.path", "aqi_model.msgpack")
	viper.SetDefault("aqi.scale", score.StandardScale.Name)
	viper.SetDefault("session.backend", "memory")
	viper.SetDefault("session.ttl", store.DefaultSessionTTL)
	viper.SetDefault("mongo.database", "aqi")
	viper.SetDefault("mongo.pool", 10)
}

func initSessionStore(ctx context.Context) store.SessionStore {
	ttl := viper.GetDuration("session.ttl")

	switch backend := viper.GetString("session.backend"); backend {
	case "memory":
		return store.NewMemoryStore(ttl)
	case "mongo":
		// initialise mongodb connections
		opts := options.Client().ApplyURI(viper.GetString("mongo.conn"))
		opts.SetMaxPoolSize(viper.GetUint64("mongo.pool"))
		mongoClient, err := mongo.NewClient(opts)
		if nil != err {
			log.Panicf("create mongo client with error: %s", err)
		}

		err = mongoClient.Connect(ctx)
		if nil != err {
			log.Panicf("connect mongo database with error: %s", err)
		}

		s := store.NewMongoStore(mongoClient, viper.GetString("mongo.database"), ttl)
		if indexer, ok := s.(store.Indexer); ok {
			if err := indexer.EnsureIndexes(ctx); err != nil {
				log.Panicf("create session indexes with error: %s", err)
			}
		}
		return s
	default:
		log.Panicf("unknown session backend: %s", backend)
	}
	return nil
}

func main() {
	var configFile string

	initialCtx, cancelInitialization := context.WithCancel(context.Background())
	initialized := make(chan struct{})

	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info("Server is preparing to shutdown")

		select {
		case <-initialized:
		default:
			log.Info("Cancelling initialization")
			cancelInitialization()
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		mu.Lock()
		defer mu.Unlock()

		if server != nil {
			log.Info("Shutdown http server")
			if err := server.Shutdown(ctx); err != nil {
				log.Error("Server Shutdown:", err)
			}
		}

		if sessions != nil {
			log.Info("Shutting down session store")
			if err := sessions.Close(ctx); err != nil {
				log.Error(err)
			}
		}

		sentry.Flush(2 * time.Second)
		os.Exit(1)
	}()

	flag.StringVar(&configFile, "c", "./config.yaml", "[optional] path of configuration file")
	flag.Parse()

	loadConfig(configFile)

	initLog()

	utils.InitI18NBundle()

	// Sentry
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              viper.GetString("sentry.dsn"),
		AttachStacktrace: true,
		Environment:      viper.GetString("sentry.environment"),
		Dist:             viper.GetString("sentry.dist"),
	}); err != nil {
		log.Error(err)
	}
	log.WithField("prefix", "init").Info("Initialized sentry")

	// The regressor is loaded once and shared by every request
	regressor, err := model.Load(viper.GetString("model.path"))
	if err != nil {
		log.Panic(err)
	}
	log.WithField("prefix", "init").Info("Loaded model")

	scale, err := score.ScaleByName(viper.GetString("aqi.scale"))
	if err != nil {
		log.Panic(err)
	}
	log.WithField("prefix", "init").Info("AQI scale: ", scale.Name)

	mu.Lock()
	sessions = initSessionStore(initialCtx)
	mu.Unlock()
	log.WithField("prefix", "init").Info("Initialized session store: ", viper.GetString("session.backend"))

	var stations aqi.AQI
	if token := viper.GetString("waqi.token"); token != "" {
		stations = aqi.New(token, viper.GetString("waqi.url"), &http.Client{
			Timeout: 10 * time.Second,
		})
		log.WithField("prefix", "init").Info("Initialized station client")
	}

	// Init http server
	mu.Lock()
	server = api.NewServer(
		sessions,
		regressor,
		scale,
		stations)
	mu.Unlock()
	log.WithField("prefix", "init").Info("Initialized http server")

	close(initialized)

	log.Fatal(server.Run(":" + viper.GetString("server.port")))
}
