package conf

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config application configuration structure
type Config struct {
	// Default network: testnet, mainnet, devnet
	Net            string
	Port           string
	SwaggerBaseUrl string

	// Per-network identifiers
	Networks map[string]NetworkConfig

	Tip      TipConfig
	Query    QueryConfig
	Rpc      RpcConfig
	Wallet   WalletConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Storage  StorageConfig
}

// NetworkConfig identifiers and endpoints of one network
type NetworkConfig struct {
	Name           string `mapstructure:"name"`
	RpcUrl         string `mapstructure:"rpc_url"`
	AggregatorUrl  string `mapstructure:"aggregator_url"`
	SystemObjectId string `mapstructure:"system_object_id"`
	StakingPoolId  string `mapstructure:"staking_pool_id"`
	PackageId      string `mapstructure:"package_id"`
	WalTokenType   string `mapstructure:"wal_token_type"`

	// Filled from TipConfig so a NetworkConfig is self-contained
	TipModuleName   string `mapstructure:"-"`
	TipFunctionName string `mapstructure:"-"`
}

// TipConfig funding contract entry point
type TipConfig struct {
	ModuleName       string
	FunctionName     string
	DefaultGasBudget uint64
	OwnerFallback    string // sender or fail
}

// QueryConfig query cache timings
type QueryConfig struct {
	StaleTime              time.Duration
	GcTime                 time.Duration
	Retry                  int
	RetryBase              time.Duration
	RetryMax               time.Duration
	NetworkStatusRefetch   time.Duration
	NetworkStatusStaleTime time.Duration
	BalanceStaleTime       time.Duration
	BalanceRefetch         time.Duration
	BlobSearchStaleTime    time.Duration
	BlobSearchRetry        int
	BalanceRetry           int
}

// RpcConfig chain RPC client settings
type RpcConfig struct {
	TimeoutSec int
	RateLimit  float64 // requests per second
	Burst      int
}

// WalletConfig external signer settings
type WalletConfig struct {
	SignerUrl  string
	TimeoutSec int
}

// DatabaseConfig database configuration
type DatabaseConfig struct {
	Type         string // pebble, mysql
	Dsn          string // MySQL DSN
	MaxOpenConns int    // MySQL max open connections
	MaxIdleConns int    // MySQL max idle connections
	DataDir      string // PebbleDB data directory
}

// RedisConfig redis configuration
type RedisConfig struct {
	Enabled  bool   // Enable Redis cache tier
	Host     string // Redis host
	Port     int    // Redis port
	Password string // Redis password (optional)
	DB       int    // Redis database number
	CacheTTL int    // Cache TTL in seconds, 0 = use query stale time
}

// StorageConfig blob byte cache configuration
type StorageConfig struct {
	Type  string
	Local LocalStorageConfig
	OSS   OSSStorageConfig
	S3    S3StorageConfig
	MinIO MinIOStorageConfig
}

// LocalStorageConfig local storage configuration
type LocalStorageConfig struct {
	BasePath string
}

// OSSStorageConfig OSS storage configuration
type OSSStorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
}

// S3StorageConfig AWS S3 storage configuration
type S3StorageConfig struct {
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	Endpoint  string // Optional custom endpoint
}

// MinIOStorageConfig MinIO storage configuration
type MinIOStorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
}

const (
	NetworkTestnet = "testnet"
	NetworkMainnet = "mainnet"
	NetworkDevnet  = "devnet"

	testnetSystemObjectId = "0x98ebc47370603fe81d9e15491b2f1443d619d1dab720d586e429ed233e1255c1"
	testnetStakingPoolId  = "0x20266a17b4f1a216727f3eef5772f8d486a9e3b5e319af80a5b75809c035561d"

	DefaultGasBudget uint64 = 10_000_000
)

// Cfg global configuration instance
var Cfg *Config

// InitConfig initialize configuration
func InitConfig() error {
	viper.SetConfigFile(GetYaml())
	viper.SetEnvPrefix("EXTEND")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("Fatal error config file: %s", err)
		}
		fmt.Printf("⚠️  Config file %s not found, using defaults and EXTEND_* environment\n", GetYaml())
	}

	Cfg = &Config{
		Net:            viper.GetString("net"),
		Port:           viper.GetString("port"),
		SwaggerBaseUrl: viper.GetString("swagger_base_url"),

		Tip: TipConfig{
			ModuleName:       viper.GetString("tip.module_name"),
			FunctionName:     viper.GetString("tip.function_name"),
			DefaultGasBudget: viper.GetUint64("tip.default_gas_budget"),
			OwnerFallback:    viper.GetString("tip.owner_fallback"),
		},

		Query: QueryConfig{
			StaleTime:              time.Duration(viper.GetInt64("query.stale_time_ms")) * time.Millisecond,
			GcTime:                 time.Duration(viper.GetInt64("query.gc_time_ms")) * time.Millisecond,
			Retry:                  viper.GetInt("query.retry"),
			RetryBase:              time.Duration(viper.GetInt64("query.retry_base_ms")) * time.Millisecond,
			RetryMax:               time.Duration(viper.GetInt64("query.retry_max_ms")) * time.Millisecond,
			NetworkStatusRefetch:   time.Duration(viper.GetInt64("query.network_status_refetch_ms")) * time.Millisecond,
			NetworkStatusStaleTime: time.Duration(viper.GetInt64("query.network_status_stale_time_ms")) * time.Millisecond,
			BalanceStaleTime:       time.Duration(viper.GetInt64("query.balance_stale_time_ms")) * time.Millisecond,
			BalanceRefetch:         time.Duration(viper.GetInt64("query.balance_refetch_ms")) * time.Millisecond,
			BlobSearchStaleTime:    time.Duration(viper.GetInt64("query.blob_search_stale_time_ms")) * time.Millisecond,
			BlobSearchRetry:        viper.GetInt("query.blob_search_retry"),
			BalanceRetry:           viper.GetInt("query.balance_retry"),
		},

		Rpc: RpcConfig{
			TimeoutSec: viper.GetInt("rpc.timeout_sec"),
			RateLimit:  viper.GetFloat64("rpc.rate_limit"),
			Burst:      viper.GetInt("rpc.burst"),
		},

		Wallet: WalletConfig{
			SignerUrl:  viper.GetString("wallet.signer_url"),
			TimeoutSec: viper.GetInt("wallet.timeout_sec"),
		},

		Database: DatabaseConfig{
			Type:         viper.GetString("database.type"),
			Dsn:          viper.GetString("database.dsn"),
			MaxOpenConns: viper.GetInt("database.max_open_conns"),
			MaxIdleConns: viper.GetInt("database.max_idle_conns"),
			DataDir:      viper.GetString("database.data_dir"),
		},

		Redis: RedisConfig{
			Enabled:  viper.GetBool("redis.enabled"),
			Host:     viper.GetString("redis.host"),
			Port:     viper.GetInt("redis.port"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
			CacheTTL: viper.GetInt("redis.cache_ttl"),
		},

		Storage: StorageConfig{
			Type: viper.GetString("storage.type"),
			Local: LocalStorageConfig{
				BasePath: viper.GetString("storage.local.base_path"),
			},
			OSS: OSSStorageConfig{
				Endpoint:  viper.GetString("storage.oss.endpoint"),
				AccessKey: viper.GetString("storage.oss.access_key"),
				SecretKey: viper.GetString("storage.oss.secret_key"),
				Bucket:    viper.GetString("storage.oss.bucket"),
			},
			S3: S3StorageConfig{
				Region:    viper.GetString("storage.s3.region"),
				AccessKey: viper.GetString("storage.s3.access_key"),
				SecretKey: viper.GetString("storage.s3.secret_key"),
				Bucket:    viper.GetString("storage.s3.bucket"),
				Endpoint:  viper.GetString("storage.s3.endpoint"),
			},
			MinIO: MinIOStorageConfig{
				Endpoint:  viper.GetString("storage.minio.endpoint"),
				AccessKey: viper.GetString("storage.minio.access_key"),
				SecretKey: viper.GetString("storage.minio.secret_key"),
				Bucket:    viper.GetString("storage.minio.bucket"),
			},
		},
	}

	// Per-network identifiers; keys missing from the file keep built-in defaults
	loaded := map[string]NetworkConfig{}
	if viper.IsSet("networks") {
		if err := viper.UnmarshalKey("networks", &loaded); err != nil {
			fmt.Printf("❌ Warning: failed to parse networks: %v\n", err)
		}
	}
	Cfg.Networks = mergeNetworks(DefaultNetworks(), loaded)
	for _, name := range SupportedNetworks() {
		overrideNetworkFromEnv(Cfg.Networks, name)
	}

	ApplyDefaults(Cfg)

	fmt.Printf("✅ Config loaded: net=%s, networks=%v\n", Cfg.Net, SupportedNetworks())
	return nil
}

// NewDefaultConfig returns a configuration with every default applied
func NewDefaultConfig() *Config {
	cfg := &Config{Networks: DefaultNetworks()}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero values with defaults
func ApplyDefaults(cfg *Config) {
	if cfg.Net == "" {
		cfg.Net = NetworkMainnet
	}
	if cfg.Port == "" {
		cfg.Port = "7291"
	}
	if cfg.SwaggerBaseUrl == "" {
		cfg.SwaggerBaseUrl = "localhost:" + cfg.Port
	}
	if cfg.Networks == nil {
		cfg.Networks = DefaultNetworks()
	}

	if cfg.Tip.DefaultGasBudget == 0 {
		cfg.Tip.DefaultGasBudget = DefaultGasBudget
	}
	if cfg.Tip.OwnerFallback == "" {
		cfg.Tip.OwnerFallback = "sender"
	}
	for name, n := range cfg.Networks {
		n.Name = name
		n.TipModuleName = cfg.Tip.ModuleName
		n.TipFunctionName = cfg.Tip.FunctionName
		cfg.Networks[name] = n
	}

	q := &cfg.Query
	if q.StaleTime <= 0 {
		q.StaleTime = 30 * time.Second
	}
	if q.GcTime <= 0 {
		q.GcTime = 10 * time.Minute
	}
	if q.Retry <= 0 {
		q.Retry = 3
	}
	if q.RetryBase <= 0 {
		q.RetryBase = time.Second
	}
	if q.RetryMax <= 0 {
		q.RetryMax = 30 * time.Second
	}
	if q.NetworkStatusRefetch <= 0 {
		q.NetworkStatusRefetch = time.Minute
	}
	if q.NetworkStatusStaleTime <= 0 {
		q.NetworkStatusStaleTime = 30 * time.Second
	}
	if q.BalanceStaleTime <= 0 {
		q.BalanceStaleTime = 30 * time.Second
	}
	if q.BalanceRefetch <= 0 {
		q.BalanceRefetch = time.Minute
	}
	if q.BlobSearchStaleTime <= 0 {
		q.BlobSearchStaleTime = 30 * time.Second
	}
	if q.BlobSearchRetry <= 0 {
		q.BlobSearchRetry = 1
	}
	if q.BalanceRetry <= 0 {
		q.BalanceRetry = 2
	}

	if cfg.Rpc.TimeoutSec == 0 {
		cfg.Rpc.TimeoutSec = 30
	}
	if cfg.Rpc.RateLimit == 0 {
		cfg.Rpc.RateLimit = 20
	}
	if cfg.Rpc.Burst == 0 {
		cfg.Rpc.Burst = 10
	}
	if cfg.Wallet.TimeoutSec == 0 {
		cfg.Wallet.TimeoutSec = 120
	}

	if cfg.Database.Type == "" {
		cfg.Database.Type = "pebble"
	}
	if cfg.Database.DataDir == "" {
		cfg.Database.DataDir = "./data"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 20
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = "local"
	}
	if cfg.Storage.Local.BasePath == "" {
		cfg.Storage.Local.BasePath = "./data/blobs"
	}
}

// DefaultNetworks built-in network table
func DefaultNetworks() map[string]NetworkConfig {
	return map[string]NetworkConfig{
		NetworkTestnet: {
			Name:           NetworkTestnet,
			RpcUrl:         "https://fullnode.testnet.sui.io:443",
			AggregatorUrl:  "https://aggregator.walrus-testnet.walrus.space",
			SystemObjectId: testnetSystemObjectId,
			StakingPoolId:  testnetStakingPoolId,
			PackageId:      testnetSystemObjectId,
		},
		NetworkMainnet: {
			Name:          NetworkMainnet,
			RpcUrl:        "https://fullnode.mainnet.sui.io:443",
			AggregatorUrl: "https://aggregator.walrus-mainnet.walrus.space",
		},
		NetworkDevnet: {
			Name:          NetworkDevnet,
			RpcUrl:        "https://fullnode.devnet.sui.io:443",
			AggregatorUrl: "https://aggregator.walrus-testnet.walrus.space",
		},
	}
}

func mergeNetworks(defaults, loaded map[string]NetworkConfig) map[string]NetworkConfig {
	for name, n := range loaded {
		name = strings.ToLower(name)
		d := defaults[name]
		if n.RpcUrl != "" {
			d.RpcUrl = n.RpcUrl
		}
		if n.AggregatorUrl != "" {
			d.AggregatorUrl = n.AggregatorUrl
		}
		if n.SystemObjectId != "" {
			d.SystemObjectId = n.SystemObjectId
		}
		if n.StakingPoolId != "" {
			d.StakingPoolId = n.StakingPoolId
		}
		if n.PackageId != "" {
			d.PackageId = n.PackageId
		}
		if n.WalTokenType != "" {
			d.WalTokenType = n.WalTokenType
		}
		d.Name = name
		defaults[name] = d
	}
	return defaults
}

// AutomaticEnv does not reach into UnmarshalKey maps, so env keys are read one by one
func overrideNetworkFromEnv(networks map[string]NetworkConfig, name string) {
	n := networks[name]
	prefix := "networks." + name + "."
	if v := viper.GetString(prefix + "rpc_url"); v != "" {
		n.RpcUrl = v
	}
	if v := viper.GetString(prefix + "aggregator_url"); v != "" {
		n.AggregatorUrl = v
	}
	if v := viper.GetString(prefix + "system_object_id"); v != "" {
		n.SystemObjectId = v
	}
	if v := viper.GetString(prefix + "staking_pool_id"); v != "" {
		n.StakingPoolId = v
	}
	if v := viper.GetString(prefix + "package_id"); v != "" {
		n.PackageId = v
	}
	if v := viper.GetString(prefix + "wal_token_type"); v != "" {
		n.WalTokenType = v
	}
	n.Name = name
	networks[name] = n
}

// SupportedNetworks returns the network names in stable order
func SupportedNetworks() []string {
	names := []string{NetworkTestnet, NetworkMainnet, NetworkDevnet}
	sort.Strings(names)
	return names
}

// GetNetworkConfig returns the config of the named network
func GetNetworkConfig(name string) (*NetworkConfig, bool) {
	if Cfg == nil {
		return nil, false
	}
	return Cfg.Network(name)
}

// Network returns the config of the named network
func (c *Config) Network(name string) (*NetworkConfig, bool) {
	n, ok := c.Networks[name]
	if !ok {
		return nil, false
	}
	return &n, true
}

// ResolverReady reports whether pricing and package identifiers are configured
func (n *NetworkConfig) ResolverReady() bool {
	return n != nil && n.SystemObjectId != "" && n.PackageId != ""
}

// TipReady reports whether every identifier needed to build a tip is configured
func (n *NetworkConfig) TipReady() bool {
	return n != nil && n.PackageId != "" && n.WalTokenType != "" &&
		n.TipModuleName != "" && n.TipFunctionName != ""
}

// TipEventType move event type emitted by the tip entry point
func (n *NetworkConfig) TipEventType() string {
	return n.PackageId + "::tip::TipEvent"
}

// TipTarget fully qualified move call target
func (n *NetworkConfig) TipTarget() string {
	return fmt.Sprintf("%s::%s::%s", n.PackageId, n.TipModuleName, n.TipFunctionName)
}
