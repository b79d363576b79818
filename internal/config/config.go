package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ThevergeOn/reservation-app/internal/schedule"
	"github.com/ThevergeOn/reservation-app/internal/server"
	"github.com/ThevergeOn/reservation-app/pkg/kafka"
	"github.com/ThevergeOn/reservation-app/pkg/logger"
	"github.com/ThevergeOn/reservation-app/pkg/postgres"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
)

type StoreDriver string

const (
	StoreMemory   StoreDriver = "memory"
	StorePostgres StoreDriver = "postgres"
)

type Config struct {
	Server   server.Config   `yaml:"server"`
	Database postgres.Config `yaml:"database"`
	Calendar schedule.Config `yaml:"calendar"`
	Kafka    kafka.Config    `yaml:"kafka"`
	Log      logger.Log      `yaml:"log"`
	Store    StoreDriver     `yaml:"store" envconfig:"STORE_DRIVER" default:"memory"`
}

var (
	once sync.Once
	cfg  Config
)

// NewConfig reads config from environment.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		if err := envconfig.Process("", &config); err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = config
		printConfig(cfg)
	})

	return &cfg
}

type Option func(*Config)

func WithLogLevel(level zapcore.Level) Option {
	return func(c *Config) {
		c.Log.LogLevel = level
	}
}

func WithWriteTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Server.WriteTimeout = d
	}
}

func printConfig(cfg Config) {
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
