package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

const (
	// HTTPListeningPortKey is the port where the HTTP interface will listen on
	HTTPListeningPortKey = "HTTP_LISTENING_PORT"
	// DatadirKey is the local data directory to store the internal state of daemon
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// DBTypeKey is used to switch database type between those supported
	DBTypeKey = "DB_TYPE"
	// RegistryTypeKey is used to switch the asset registry client between those supported
	RegistryTypeKey = "REGISTRY_TYPE"
	// RegistryRPCAddrKey is the RPC address of the EVM node backing the asset registry client
	RegistryRPCAddrKey = "REGISTRY_RPC_ADDR"
	// OperatorKeyFileKey is the path of the file holding the hex private key the daemon signs registry transfers with
	OperatorKeyFileKey = "OPERATOR_KEY_FILE"
	// OperatorAPIKeyKey is the static key gating the operator HTTP endpoints
	OperatorAPIKeyKey = "OPERATOR_API_KEY"
	// NoOperatorAuthKey is used to start the daemon without authentication on the operator HTTP endpoints
	NoOperatorAuthKey = "NO_OPERATOR_AUTH"
	// NoWebhooksKey is used to start the daemon without the webhook notification service
	NoWebhooksKey = "NO_WEBHOOKS"
	// EnableProfilerKey enables profiler that can be used to investigate performance issues
	EnableProfilerKey = "ENABLE_PROFILER"

	// DBBadger and DBInMemory are the supported DB_TYPE values
	DBBadger   = "badger"
	DBInMemory = "inmemory"
	// RegistryEVM and RegistryInMemory are the supported REGISTRY_TYPE values
	RegistryEVM      = "evm"
	RegistryInMemory = "inmemory"

	DbLocation = "db"
)

var vip *viper.Viper

func defaultDatadir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".swapd"
	}
	return filepath.Join(home, ".swapd")
}

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("SWAPD")
	vip.AutomaticEnv()

	vip.SetDefault(HTTPListeningPortKey, 9945)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(DatadirKey, defaultDatadir())
	vip.SetDefault(DBTypeKey, DBBadger)
	vip.SetDefault(RegistryTypeKey, RegistryInMemory)
	vip.SetDefault(NoOperatorAuthKey, false)
	vip.SetDefault(NoWebhooksKey, false)
	vip.SetDefault(EnableProfilerKey, false)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetDuration(key string) time.Duration {
	return vip.GetDuration(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	switch dbType := GetString(DBTypeKey); dbType {
	case DBBadger, DBInMemory:
	default:
		return fmt.Errorf("unsupported db type %s", dbType)
	}

	switch registryType := GetString(RegistryTypeKey); registryType {
	case RegistryInMemory:
	case RegistryEVM:
		if len(GetString(RegistryRPCAddrKey)) <= 0 {
			return fmt.Errorf("missing registry rpc address")
		}
		if len(GetString(OperatorKeyFileKey)) <= 0 {
			return fmt.Errorf("missing operator key file")
		}
	default:
		return fmt.Errorf("unsupported registry type %s", registryType)
	}

	if !GetBool(NoOperatorAuthKey) && len(GetString(OperatorAPIKeyKey)) <= 0 {
		return fmt.Errorf(
			"missing operator api key, set %s or explicitly disable "+
				"authentication with %s", OperatorAPIKeyKey, NoOperatorAuthKey,
		)
	}

	return nil
}

func initDatadir() error {
	datadir := GetDatadir()
	return makeDirectoryIfNotExists(filepath.Join(datadir, DbLocation))
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
