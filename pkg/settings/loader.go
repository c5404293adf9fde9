package settings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables overriding file values,
// e.g. MONGOAPI_MONGODB_URI.
const EnvPrefix = "MONGOAPI"

const (
	defaultHost        = "localhost"
	defaultPort        = 27017
	defaultDatabase    = "MockData"
	defaultTimeout     = 10
	defaultMaxPoolSize = 100
	defaultLogLevel    = "debug"
	defaultLogFile     = "logs/mongoapi.log"
	defaultLogMaxSize  = 100 // Megabytes
	defaultLogBackups  = 7
	defaultLogMaxAge   = 30 // Days
)

// Load reads the configuration from path (any format viper understands).
// An empty path searches ./config.yaml and ./configs/config.yaml; a missing
// file is not an error and leaves the defaults in place.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaultConfig(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

func setDefaultConfig(v *viper.Viper) {
	v.SetDefault("mongodb.uri", "")
	v.SetDefault("mongodb.host", defaultHost)
	v.SetDefault("mongodb.port", defaultPort)
	v.SetDefault("mongodb.username", "")
	v.SetDefault("mongodb.password", "")
	v.SetDefault("mongodb.auth_source", "")
	v.SetDefault("mongodb.database", defaultDatabase)
	v.SetDefault("mongodb.timeout", defaultTimeout)
	v.SetDefault("mongodb.max_pool_size", defaultMaxPoolSize)
	v.SetDefault("mongodb.min_pool_size", 0)
	v.SetDefault("mongodb.max_conn_idle_time", 0)

	v.SetDefault("logger.log_level", defaultLogLevel)
	v.SetDefault("logger.file_log_name", defaultLogFile)
	v.SetDefault("logger.max_size", defaultLogMaxSize)
	v.SetDefault("logger.max_backups", defaultLogBackups)
	v.SetDefault("logger.max_age", defaultLogMaxAge)
	v.SetDefault("logger.compress", false)
	v.SetDefault("logger.console", true)
}
