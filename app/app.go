package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"walrus-extend/conf"
	"walrus-extend/controller/handler"
	"walrus-extend/database"
	"walrus-extend/model/dao"
	"walrus-extend/service/blob_service"
	"walrus-extend/service/dialog_service"
	"walrus-extend/service/network_service"
	"walrus-extend/service/query_service"
	"walrus-extend/service/tip_service"
	"walrus-extend/storage"
	"walrus-extend/tool"
)

// App every long-lived component of the extend service
type App struct {
	Cfg       *conf.Config
	DB        database.Database
	Redis     *database.RedisCache
	Storage   storage.Storage
	Prefs     *dao.PreferencesDAO
	Tips      *dao.TipRecordDAO
	Provider  *network_service.Provider
	Session   *network_service.WalletSession
	Cache     *query_service.QueryCache
	Status    *network_service.StatusService
	Resolver  *blob_service.Resolver
	Blobs     *blob_service.BlobService
	Tipper    *tip_service.TipService
	Balances  *tip_service.BalanceService
	History   *tip_service.HistoryService
	Refresher *query_service.Refresher
}

// New builds every component from cfg. Redis is optional: a failed
// connection disables the shared cache tier instead of failing startup.
func New(ctx context.Context, cfg *conf.Config) (*App, error) {
	a := &App{Cfg: cfg}
	tool.SetTimeout(time.Duration(cfg.Rpc.TimeoutSec) * time.Second)

	stor, err := storage.NewStorage(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	a.Storage = stor
	log.Printf("Storage initialized: type=%s", cfg.Storage.Type)

	db, err := database.NewDatabaseFromConfig(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	a.DB = db
	a.Prefs = dao.NewPreferencesDAO(db)
	a.Tips = dao.NewTipRecordDAO(db)

	a.Redis, err = database.NewRedisCache(ctx, cfg.Redis, cfg.Query.StaleTime)
	if err != nil {
		log.Printf("⚠️  Redis initialization failed (shared cache will be disabled): %v", err)
		a.Redis = nil
	}

	a.Cache = query_service.NewQueryCache(query_service.OptionsFromConfig(cfg.Query), a.Redis)

	a.Provider, err = network_service.NewProvider(network_service.ProviderConfig{
		Networks: cfg.Networks,
		Default:  cfg.Net,
		Factory:  network_service.DefaultClientFactory(cfg.Rpc, stor),
	}, a.Prefs)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create network provider: %w", err)
	}
	a.Provider.OnSwitch(func(from, to network_service.Network) {
		removed := a.Cache.InvalidateNetwork(context.Background(), string(from))
		log.Printf("Dropped %d cached queries of %s", removed, from)
	})

	a.Session = network_service.NewWalletSession(a.Prefs)
	if account, err := a.Session.AutoConnect(); err == nil && account != nil {
		log.Printf("✅ Reconnected wallet %s (%s)", account.Wallet, account.Address)
	}

	retry := query_service.OptionsFromConfig(cfg.Query).Retry
	a.Status = network_service.NewStatusService(a.Provider, a.Cache, query_service.FetchOptions{
		StaleTime:         cfg.Query.NetworkStatusStaleTime,
		ServeStaleOnError: true,
	})
	a.Resolver = blob_service.NewResolver(a.Provider, a.Cache, retry)
	a.Blobs = blob_service.NewBlobService(a.Provider, a.Cache, a.Resolver,
		cfg.Query.BlobSearchStaleTime, cfg.Query.BlobSearchRetry)
	a.Balances = tip_service.NewBalanceService(a.Provider, a.Cache,
		cfg.Query.BalanceStaleTime, cfg.Query.BalanceRetry)
	a.History = tip_service.NewHistoryService(a.Provider, a.Cache, a.Tips)

	signer := tip_service.NewRemoteSigner(cfg.Wallet.SignerUrl, time.Duration(cfg.Wallet.TimeoutSec)*time.Second)
	a.Tipper = tip_service.NewTipService(a.Provider, a.Cache, a.Session, signer, a.Status, a.Tips,
		tip_service.OptionsFromConfig(cfg.Tip))

	a.Refresher = query_service.NewRefresher(
		a.Status.RefreshTask(cfg.Query.NetworkStatusRefetch),
		a.Balances.RefreshTask(a.Session, cfg.Query.BalanceRefetch),
	)
	return a, nil
}

// Services handler dependencies backed by this app
func (a *App) Services() handler.Services {
	return handler.Services{
		Provider: a.Provider,
		Status:   a.Status,
		Session:  a.Session,
		Prefs:    a.Prefs,
		Cache:    a.Cache,
		Blobs:    a.Blobs,
		Tips:     a.Tipper,
		Balances: a.Balances,
		History:  a.History,
		Dialog:   dialog_service.NewDialog(),
		Form:     dialog_service.NewTipForm(nil),
	}
}

// Close releases everything New opened; safe on a partially built App
func (a *App) Close() {
	if a.Refresher != nil {
		a.Refresher.Stop()
	}
	if a.Provider != nil {
		a.Provider.Close()
	}
	if a.Cache != nil {
		a.Cache.Stop()
	}
	if err := a.Redis.Close(); err != nil {
		log.Printf("Failed to close Redis: %v", err)
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}
}
