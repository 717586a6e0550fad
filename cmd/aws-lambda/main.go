package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Philanthropists/income-alerts/internal/logging"
	"github.com/Philanthropists/income-alerts/internal/sync"
	"github.com/Philanthropists/income-alerts/internal/sync/types"
)

const (
	credentialsFile = "credentials.json"
	versionFile     = "version"

	awsLambdaTimeout = 140 * time.Second
)

func getVersion() string {
	raw, err := os.ReadFile(versionFile)
	if err != nil {
		return "dev"
	}

	if v := strings.TrimSpace(string(raw)); v != "" {
		return v
	}
	return "dev"
}

func configureLogger(version string) error {
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		return err
	}

	logging.SetCustomGlobalLogger(logger.With(zap.String("version", version)))

	return nil
}

func HandleRequest(ctx context.Context) (sync.Summary, error) {
	version := getVersion()

	if err := configureLogger(version); err != nil {
		return sync.Summary{}, err
	}

	log := logging.New()
	defer func() { _ = log.Sync() }()

	config, err := types.LoadConfig(credentialsFile)
	if err != nil {
		log.Error("failed to get credentials", logging.Error(err))
		return sync.Summary{}, err
	}

	ctx = context.WithValue(ctx, types.VersionCtxKey{}, version)
	ctx, cancel := context.WithTimeout(ctx, awsLambdaTimeout)
	defer cancel()

	s := &sync.Sync{
		Config: config,
		DryRun: false,
	}

	return s.Run(log.GetContext(ctx))
}

func main() {
	lambda.Start(HandleRequest)
}
