// analyzer is the Spin component serving the analyzer API on top of a Spin KV store.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	spinhttp "github.com/spinframework/spin-go-sdk/v2/http"
	spinvars "github.com/spinframework/spin-go-sdk/v2/variables"

	"github.com/timgluz/dva/api"
	"github.com/timgluz/dva/response"
	"github.com/timgluz/dva/sample"
	"github.com/timgluz/dva/storage"
	"github.com/timgluz/dva/storage/spinkv"
)

type AnalyzerAppConfig struct {
	StoreName string
	Codec     string
	LogLevel  string
}

func newAnalyzerAppConfigFromSpinVariables() (*AnalyzerAppConfig, error) {
	storeName, err := spinvars.Get("store_name")
	if err != nil {
		return nil, fmt.Errorf("failed to get store_name from Spin variables: %w", err)
	}

	codec, err := spinvars.Get("snapshot_codec")
	if err != nil {
		codec = storage.CodecJSON
	}

	logLevel, err := spinvars.Get("log_level")
	if err != nil {
		logLevel = "info"
	}

	return &AnalyzerAppConfig{
		StoreName: storeName,
		Codec:     codec,
		LogLevel:  logLevel,
	}, nil
}

func newLogger(config *AnalyzerAppConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(config.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With("component", "analyzer")
}

func init() {
	spinhttp.Handle(func(w http.ResponseWriter, r *http.Request) {
		config, err := newAnalyzerAppConfigFromSpinVariables()
		if err != nil {
			response.RenderFatal(w, fmt.Errorf("failed to load analyzer configuration: %w", err))
			return
		}
		logger := newLogger(config)

		codec, err := storage.NewCodec(config.Codec)
		if err != nil {
			response.RenderFatal(w, err)
			return
		}

		repo, err := spinkv.NewRepository(config.StoreName, codec, logger)
		if err != nil {
			response.RenderFatal(w, fmt.Errorf("failed to open analyzer store"))
			return
		}
		defer repo.Close()

		// every request runs in a fresh instance, so the workspace is loaded per request
		workspace := storage.NewWorkspace()
		if _, err := workspace.LoadOrSeed(context.Background(), repo, sample.DefaultSamples()); err != nil {
			logger.Error("Failed to load workspace", "error", err)
			response.RenderFatal(w, err)
			return
		}

		server := api.NewServer(workspace, repo, logger)
		if !server.IsReady() {
			response.RenderFatal(w, fmt.Errorf("analyzer components are not ready"))
			return
		}

		server.Router().ServeHTTP(w, r)
	})
}

func main() {}
