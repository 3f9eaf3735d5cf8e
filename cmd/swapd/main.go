package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/nftswap-network/swapd/internal/config"
	"github.com/nftswap-network/swapd/internal/core/application"
	"github.com/nftswap-network/swapd/internal/core/ports"
	webhookpubsub "github.com/nftswap-network/swapd/internal/infrastructure/pubsub/webhook"
	registryevm "github.com/nftswap-network/swapd/internal/infrastructure/registry/evm"
	registryinmemory "github.com/nftswap-network/swapd/internal/infrastructure/registry/inmemory"
	dbbadger "github.com/nftswap-network/swapd/internal/infrastructure/storage/db/badger"
	"github.com/nftswap-network/swapd/internal/infrastructure/storage/db/inmemory"
	httpinterface "github.com/nftswap-network/swapd/internal/interfaces/http"
	"github.com/nftswap-network/swapd/pkg/stats"
)

func main() {
	if err := config.InitConfig(); err != nil {
		log.WithError(err).Fatal("invalid config")
	}
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repoManager, err := newRepoManager()
	if err != nil {
		log.WithError(err).Fatal("error while opening db")
	}
	defer repoManager.Close()

	registry, err := newAssetRegistry(ctx)
	if err != nil {
		log.WithError(err).Fatal("error while connecting to asset registry")
	}

	var pubsub ports.PubSub
	if !config.GetBool(config.NoWebhooksKey) {
		pubsub = webhookpubsub.NewWebhookPubSubService()
		defer pubsub.Close()
	}

	if config.GetBool(config.EnableProfilerKey) {
		stats.EnableMemoryStatistics(ctx, 1*time.Minute, config.GetDatadir())
	}

	tradeSvc := application.NewTradeService(repoManager, registry, pubsub)
	operatorSvc := application.NewOperatorService(repoManager, pubsub)

	server := httpinterface.NewServer(httpinterface.ServerOpts{
		TradeService:    tradeSvc,
		OperatorService: operatorSvc,
		OperatorAPIKey:  config.GetString(config.OperatorAPIKeyKey),
		NoAuth:          config.GetBool(config.NoOperatorAuthKey),
		EnableProfiler:  config.GetBool(config.EnableProfilerKey),
	})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		sig := <-sigChan
		log.WithField("signal", sig.String()).Info("shutting down daemon")
		cancel()
	}()

	addr := fmt.Sprintf(":%d", config.GetInt(config.HTTPListeningPortKey))
	log.WithField("addr", addr).Info("starting daemon")
	if err := server.Serve(ctx, addr); err != nil {
		log.WithError(err).Fatal("error while serving http interface")
	}
}

func newRepoManager() (ports.RepoManager, error) {
	switch config.GetString(config.DBTypeKey) {
	case config.DBInMemory:
		return inmemory.NewRepoManager(), nil
	default:
		dbDir := filepath.Join(config.GetDatadir(), config.DbLocation)
		return dbbadger.NewRepoManager(dbDir, nil)
	}
}

func newAssetRegistry(ctx context.Context) (ports.AssetRegistry, error) {
	switch config.GetString(config.RegistryTypeKey) {
	case config.RegistryEVM:
		keyFile := config.GetString(config.OperatorKeyFileKey)
		buf, err := os.ReadFile(keyFile)
		if err != nil {
			return nil, fmt.Errorf("reading operator key file: %w", err)
		}
		return registryevm.NewAssetRegistry(
			ctx,
			config.GetString(config.RegistryRPCAddrKey),
			strings.TrimSpace(string(buf)),
		)
	default:
		return registryinmemory.NewAssetRegistry(), nil
	}
}
