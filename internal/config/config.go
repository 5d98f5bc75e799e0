package config

import "time"

// Config is the root application configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Poll     PollConfig     `yaml:"poll"`
	Sweeper  SweeperConfig  `yaml:"sweeper"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	MigrateOnStart  bool          `yaml:"migrate_on_start"   env:"DATABASE_MIGRATE_ON_START"   env-default:"true"`
}

// PollConfig holds poll lifecycle and validation settings.
type PollConfig struct {
	Duration         time.Duration `yaml:"duration"           env:"POLL_DURATION"           env-default:"168h"`
	DailyLimit       int           `yaml:"daily_limit"        env:"POLL_DAILY_LIMIT"        env-default:"2"`
	QuestionMinLen   int           `yaml:"question_min_len"   env:"POLL_QUESTION_MIN_LEN"   env-default:"10"`
	QuestionMaxLen   int           `yaml:"question_max_len"   env:"POLL_QUESTION_MAX_LEN"   env-default:"500"`
	CommentMaxLen    int           `yaml:"comment_max_len"    env:"POLL_COMMENT_MAX_LEN"    env-default:"1000"`
	EndingSoonWindow time.Duration `yaml:"ending_soon_window" env:"POLL_ENDING_SOON_WINDOW" env-default:"24h"`
}

// SweeperConfig holds the poll-archival background task settings.
type SweeperConfig struct {
	Interval  time.Duration `yaml:"interval"   env:"SWEEPER_INTERVAL"   env-default:"1m"`
	BatchSize int           `yaml:"batch_size" env:"SWEEPER_BATCH_SIZE" env-default:"500"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
