package settings

type Config struct {
	MongoDB MongoDB `mapstructure:"mongodb"`
	Logger  Logger  `mapstructure:"logger"`
}

// MongoDB is the configuration for MongoDB
type MongoDB struct {
	URI             string `mapstructure:"uri"`
	Host            string `mapstructure:"host"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	AuthSource      string `mapstructure:"auth_source"`
	MaxPoolSize     uint64 `mapstructure:"max_pool_size"`
	MinPoolSize     uint64 `mapstructure:"min_pool_size"`
	MaxConnIdleTime uint64 `mapstructure:"max_conn_idle_time"` // Seconds
	Port            int    `mapstructure:"port"`
	Timeout         int    `mapstructure:"timeout"` // Seconds
}

// Logger is the configuration for the logger
type Logger struct {
	LogLevel    string `mapstructure:"log_level"`
	FileLogName string `mapstructure:"file_log_name"`
	MaxBackups  int    `mapstructure:"max_backups"`
	MaxAge      int    `mapstructure:"max_age"`
	MaxSize     int    `mapstructure:"max_size"`
	Compress    bool   `mapstructure:"compress"`
	Console     bool   `mapstructure:"console"`
}
