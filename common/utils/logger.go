package utils

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Logger *ServiceLogger

// ServiceLogger is the process-wide zap logger, optionally teed into an
// Elasticsearch index.
type ServiceLogger struct {
	*zap.Logger
	esClient  *elasticsearch.Client
	indexName string
}

func newProductionConfig() zap.Config {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return config
}

func InitLogger(serviceName string) {
	zapLogger, err := newProductionConfig().Build()
	if err != nil {
		panic(err)
	}

	if serviceName != "" {
		zapLogger = zapLogger.With(zap.String("service", serviceName))
	}
	Logger = &ServiceLogger{Logger: zapLogger}
}

// InitElasticLogger writes every entry both to stdout and to the index named
// by the "index" query parameter of elasticUrl.
func InitElasticLogger(elasticUrl, serviceName string) error {
	u, err := url.Parse(elasticUrl)
	if err != nil {
		return fmt.Errorf("parse elastic url: %w", err)
	}

	password, _ := u.User.Password()
	esClient, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{u.Scheme + "://" + u.Host},
		Username:  u.User.Username(),
		Password:  password,
	})
	if err != nil {
		return fmt.Errorf("create elastic client: %w", err)
	}

	indexName := u.Query().Get("index")
	config := newProductionConfig()
	encoder := zapcore.NewJSONEncoder(config.EncoderConfig)

	consoleCore := zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(os.Stdout)), config.Level)
	elasticCore := zapcore.NewCore(encoder, zapcore.AddSync(&ElasticWriter{client: esClient, indexName: indexName}), config.Level)

	zapLogger := zap.New(zapcore.NewTee(consoleCore, elasticCore)).With(zap.String("service", serviceName))
	Logger = &ServiceLogger{Logger: zapLogger, esClient: esClient, indexName: indexName}
	return nil
}

// Named returns the process logger, or a no-op logger when InitLogger has
// not been called (tests).
func Named(name string) *zap.Logger {
	if Logger == nil {
		return zap.NewNop()
	}
	return Logger.Named(name)
}

func (l *ServiceLogger) String(key string, value string) zap.Field {
	return zap.String(key, value)
}

// ElasticWriter implements zapcore.WriteSyncer.
type ElasticWriter struct {
	client    *elasticsearch.Client
	indexName string
}

func (ew *ElasticWriter) Write(p []byte) (n int, err error) {
	// zap reuses p after Write returns
	body := make([]byte, len(p))
	copy(body, p)

	res, err := ew.client.Index(
		ew.indexName,
		bytes.NewReader(body),
		ew.client.Index.WithContext(context.Background()),
		ew.client.Index.WithDocumentID(strconv.FormatInt(time.Now().UnixNano(), 10)),
	)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, fmt.Errorf("elastic index: %s", res.Status())
	}

	return len(p), nil
}

func (ew *ElasticWriter) Sync() error {
	return nil
}
