//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/finsight/coverage-console/internal/bootstrap"
	"github.com/finsight/coverage-console/internal/domain/coverage"
	"github.com/finsight/coverage-console/internal/infra/config"
	"github.com/finsight/coverage-console/internal/infra/marketdata/restclient"
	httpiface "github.com/finsight/coverage-console/internal/interface/http"
	"github.com/finsight/coverage-console/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideCoverageConfig,
		provideSnapshotClient,
		provideActionRunner,
		provideSnapshotCache,
		provideHistoryRepository,
		provideSnapshotArchiver,
		coverage.NewService,
		wire.Bind(new(coverage.SnapshotClient), new(*restclient.Client)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
