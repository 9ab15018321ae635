package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bitmark-inc/aqi-predictor/model"
)

var logger *zap.Logger

func init() {
	logger = buildLogger()
}

func buildLogger() *zap.Logger {
	config := zap.NewDevelopmentConfig()
	config.Level.SetLevel(zapcore.InfoLevel)

	logger, err := config.Build()
	if err != nil {
		panic("Failed to setup logger")
	}

	return logger
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

	defaults := model.DefaultForestOptions()
	viper.SetDefault("model.path", "aqi_model.msgpack")
	viper.SetDefault("training.kind", string(model.KindForest))
	viper.SetDefault("training.trees", defaults.Trees)
	viper.SetDefault("training.max_depth", defaults.MaxDepth)
	viper.SetDefault("training.seed", defaults.Seed)
	viper.SetDefault("training.lambda", model.DefaultLinearOptions().Lambda)
}

func loadDataset(path string) (model.Dataset, error) {
	if path == "" {
		logger.Info("No dataset given. Train on the sample rows.")
		return model.SampleDataset(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return model.Dataset{}, err
	}
	defer f.Close()

	return model.ReadDataset(f)
}

func main() {
	var configFile, dataFile, outFile, kind string
	flag.StringVar(&configFile, "c", "./config.yaml", "[optional] path of configuration file")
	flag.StringVar(&dataFile, "data", "", "[optional] training csv with PM2.5,PM10,NO,NO2,CO,SO2,O3,AQI columns")
	flag.StringVar(&outFile, "out", "", "[optional] output path, defaults to model.path")
	flag.StringVar(&kind, "kind", "", "[optional] forest or linear, defaults to training.kind")
	flag.Parse()

	loadConfig(configFile)

	if outFile == "" {
		outFile = viper.GetString("model.path")
	}
	if kind == "" {
		kind = viper.GetString("training.kind")
	}

	ds, err := loadDataset(dataFile)
	if err != nil {
		logger.Panic("load dataset with error", zap.Error(err))
	}

	opts := model.DefaultTrainOptions()
	opts.Forest.Trees = viper.GetInt("training.trees")
	opts.Forest.MaxDepth = viper.GetInt("training.max_depth")
	opts.Forest.Seed = viper.GetInt64("training.seed")
	opts.Linear.Lambda = viper.GetFloat64("training.lambda")

	artifact, err := model.Train(model.Kind(kind), ds, opts)
	if err != nil {
		logger.Panic("train model with error", zap.Error(err))
	}

	for i, x := range ds.X {
		score, err := artifact.Predict(x)
		if err != nil {
			logger.Panic("predict training row with error", zap.Int("row", i), zap.Error(err))
		}
		logger.Info("training row", zap.Int("row", i), zap.Float64("target", ds.Y[i]), zap.Float64("predicted", score))
	}

	if err := artifact.Save(outFile); err != nil {
		logger.Panic("save model with error", zap.Error(err))
	}

	logger.Info("Model saved.",
		zap.String("path", outFile),
		zap.String("kind", kind),
		zap.Int("rows", ds.Len()))
}
