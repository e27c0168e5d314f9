// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package config is an adapter which accepts yaml formatted config
// files from its users and allows the taxiweb to instantiate different
// components, from the adapter or use cases layers, using those loaded
// configuration settings.
// The parsed and validated configurations are passed to their
// ultimate components as a series of individual params (for the
// mandatory items) and a series of functional options (for the
// optional items), so they may be validated again by the relevant
// end-component such as a UseCase instance.
//
// A few settings may be overridden by environment variables, which
// may be kept in a .env file too:
//   - DATABASE_URL overrides database.url (and selects postgres),
//   - TAXIWEB_JWT_SECRET overrides auth.jwt-secret, and
//   - REDIS_ADDR overrides redis.addr (and enables the cache).
package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"time"
	_ "time/tzdata" // timezone settings do not depend on the host

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/momeni/taxiweb/pkg/adapter/cache/rediscache"
	"github.com/momeni/taxiweb/pkg/adapter/config/settings"
	"github.com/momeni/taxiweb/pkg/adapter/db/memory"
	"github.com/momeni/taxiweb/pkg/adapter/db/postgres"
	"github.com/momeni/taxiweb/pkg/adapter/db/postgres/shiftsrp"
	"github.com/momeni/taxiweb/pkg/adapter/db/postgres/taxisrp"
	"github.com/momeni/taxiweb/pkg/adapter/db/postgres/usersrp"
	"github.com/momeni/taxiweb/pkg/adapter/restful/gin"
	"github.com/momeni/taxiweb/pkg/core/log"
	"github.com/momeni/taxiweb/pkg/core/model"
	"github.com/momeni/taxiweb/pkg/core/repo"
	"github.com/momeni/taxiweb/pkg/core/usecase/appuc"
	"github.com/momeni/taxiweb/pkg/core/usecase/shiftsuc"
	"github.com/momeni/taxiweb/pkg/core/usecase/taxisuc"
	"gopkg.in/yaml.v3"
)

// Names of the environment variables which override the settings.
const (
	EnvDatabaseURL = "DATABASE_URL"
	EnvJWTSecret   = "TAXIWEB_JWT_SECRET"
	EnvRedisAddr   = "REDIS_ADDR"
)

// Default values of the optional settings.
const (
	DefaultTokenTTL = 12 * time.Hour
	DefaultCacheTTL = time.Minute
	MinMaxDuration  = 30 * time.Minute
)

// Config contains all settings which are required by different parts
// of the project, such as adapters or use cases. It is preferred to
// implement Config with primitive fields or other structs which are
// defined locally, not models or structs which are defined in lower
// layers, so the configuration format can be kept intact while other
// layers can change freely.
type Config struct {
	Database Database `yaml:"database"`
	Gin      Gin      `yaml:"gin"`
	Log      Log      `yaml:"log"`
	Auth     Auth     `yaml:"auth"`
	Redis    *Redis   `yaml:"redis" validate:"omitempty"`
	Usecases Usecases `yaml:"usecases"`

	loc   *time.Location
	cache *rediscache.Cache
}

// Database contains the store connection settings.
type Database struct {
	// Driver is either postgres or memory. The memory driver keeps
	// all data in the process and is suitable for development only.
	Driver string `yaml:"driver" validate:"required,oneof=postgres memory"`
	URL    string `yaml:"url" validate:"required_if=Driver postgres"`
}

// Gin contains the gin-gonic related configuration settings.
// Fields are defined as pointers, so it is possible to detect if they
// are or are not initialized and fill them by their default values.
type Gin struct {
	Mode     string `yaml:"mode" validate:"omitempty,oneof=debug release test"`
	Logger   *bool  `yaml:"logger"`   // Whether to log every request
	Recovery *bool  `yaml:"recovery"` // Whether to recover from panics
}

// Log contains the process logger settings.
type Log struct {
	Format *string `yaml:"format" validate:"omitempty,oneof=text json"`
	Level  *string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
}

// Auth contains the bearer tokens settings.
type Auth struct {
	JWTSecret string             `yaml:"jwt-secret" validate:"required,min=32"`
	TokenTTL  *settings.Duration `yaml:"token-ttl"`
}

// Redis contains the optional active taxis cache settings.
type Redis struct {
	Addr     string             `yaml:"addr" validate:"required,hostname_port"`
	Password string             `yaml:"password"`
	DB       int                `yaml:"db" validate:"gte=0"`
	TTL      *settings.Duration `yaml:"ttl"`
}

// Usecases contains the configuration settings for all use cases.
type Usecases struct {
	Shifts Shifts `yaml:"shifts"`
}

// Shifts contains the configuration settings for the shifts use cases.
type Shifts struct {
	// MaxDuration is the longest acceptable shift. It defaults to
	// (and may not exceed) the model.MaxShiftDuration.
	MaxDuration *settings.Duration `yaml:"max-duration"`
	// Timezone is the IANA name of the location which calendar dates
	// and clock times are interpreted in, e.g., Europe/Berlin.
	// The process local time zone is used by default.
	Timezone string `yaml:"timezone"`
}

// Load function loads the .env file (if exists) into the process
// environment, reads the path configuration file, and parses it using
// the Parse function.
func Load(path string) (*Config, error) {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env file: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse unmarshals the data byte slice as a Config instance, applies
// the environment variable overrides, and validates and normalizes
// the result. Extra items in the data will be ignored and missing
// optional items will take their default values.
func Parse(data []byte) (*Config, error) {
	n := &yaml.Node{}
	if err := yaml.Unmarshal(data, n); err != nil {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}
	if l := len(n.Content); l != 1 {
		return nil, fmt.Errorf(
			"found %d children nodes, instead of 1 mapping child", l,
		)
	}
	c := &Config{}
	if err := n.Decode(c); err != nil {
		return nil, fmt.Errorf("decoding yaml node: %w", err)
	}
	c.overrideByEnv()
	if err := c.ValidateAndNormalize(); err != nil {
		return nil, fmt.Errorf("validating configs: %w", err)
	}
	return c, nil
}

func (c *Config) overrideByEnv() {
	if u, ok := os.LookupEnv(EnvDatabaseURL); ok && u != "" {
		c.Database.Driver = "postgres"
		c.Database.URL = u
	}
	if s, ok := os.LookupEnv(EnvJWTSecret); ok && s != "" {
		c.Auth.JWTSecret = s
	}
	if a, ok := os.LookupEnv(EnvRedisAddr); ok && a != "" {
		if c.Redis == nil {
			c.Redis = &Redis{}
		}
		c.Redis.Addr = a
	}
}

// ValidateAndNormalize validates the configuration settings and
// returns an error if they were not acceptable. It also replaces
// the missing optional settings with their default values.
func (c *Config) ValidateAndNormalize() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	settings.OverwriteNil(&c.Gin.Logger, true)
	settings.OverwriteNil(&c.Gin.Recovery, true)
	settings.OverwriteNil(&c.Log.Format, "text")
	settings.OverwriteNil(&c.Log.Level, "info")
	settings.OverwriteNil(&c.Auth.TokenTTL, settings.Duration(DefaultTokenTTL))
	if c.Redis != nil {
		settings.OverwriteNil(&c.Redis.TTL, settings.Duration(DefaultCacheTTL))
	}
	ttlMin := settings.Duration(time.Minute)
	ttl := settings.Range[settings.Duration]{Key: "auth.token-ttl", Min: &ttlMin}
	if err := ttl.Clamp(&c.Auth.TokenTTL); err != nil {
		return err
	}
	s := &c.Usecases.Shifts
	minb := settings.Duration(MinMaxDuration)
	maxb := settings.Duration(model.MaxShiftDuration)
	maxDuration := settings.Range[settings.Duration]{
		Key: "usecases.shifts.max-duration", Min: &minb, Max: &maxb,
	}
	if err := maxDuration.Clamp(&s.MaxDuration); err != nil {
		return err
	}
	settings.OverwriteNil(&s.MaxDuration, maxb)
	loc := time.Local
	if s.Timezone != "" {
		var err error
		loc, err = time.LoadLocation(s.Timezone)
		if err != nil {
			return fmt.Errorf("loading timezone %q: %w", s.Timezone, err)
		}
	}
	c.loc = loc
	return nil
}

// LogValue implements slog.LogValuer, reporting the effective settings
// except for the secrets.
func (c *Config) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("database", c.Database.Driver),
		slog.String("log-level", *c.Log.Level),
		slog.Any("token-ttl", c.Auth.TokenTTL),
		slog.Any("max-duration", c.Usecases.Shifts.MaxDuration),
		slog.String("timezone", c.loc.String()),
	}
	if c.Redis != nil {
		attrs = append(attrs,
			slog.String("redis", c.Redis.Addr),
			slog.Any("cache-ttl", c.Redis.TTL),
		)
	}
	return slog.GroupValue(attrs...)
}

// SetupLogger installs the configured slog logger, writing to w,
// as the default logger and returns it.
func (c *Config) SetupLogger(w io.Writer) (*slog.Logger, error) {
	return log.Setup(w, *c.Log.Format, *c.Log.Level)
}

// JWTSecret returns the key which bearer tokens are signed with.
func (c *Config) JWTSecret() []byte {
	return []byte(c.Auth.JWTSecret)
}

// TokenTTL returns the lifetime of the issued bearer tokens.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(*c.Auth.TokenTTL)
}

// Location returns the time zone of the calendar dates.
func (c *Config) Location() *time.Location {
	return c.loc
}

// ConnectionPool creates a store connection pool, based on the
// database driver, alongside the matching repositories.
func (c *Config) ConnectionPool(ctx context.Context) (
	repo.Pool, appuc.Repos, error,
) {
	switch c.Database.Driver {
	case "memory":
		return memory.NewPool(), appuc.Repos{
			Taxis:  memory.Taxis{},
			Shifts: memory.Shifts{},
			Users:  memory.Users{},
		}, nil
	case "postgres":
		p, err := postgres.NewPool(ctx, c.Database.URL)
		if err != nil {
			return nil, appuc.Repos{}, fmt.Errorf("postgres.NewPool: %w", err)
		}
		return p, appuc.Repos{
			Taxis:  taxisrp.New(),
			Shifts: shiftsrp.New(),
			Users:  usersrp.New(),
		}, nil
	default:
		return nil, appuc.Repos{}, fmt.Errorf(
			"unsupported database driver: %q", c.Database.Driver,
		)
	}
}

// OpenCache connects to the Redis server, if it is configured, so the
// taxis use cases which are created afterwards may cache the active
// taxis list. It is a no-op without a redis section.
func (c *Config) OpenCache(ctx context.Context) error {
	if c.Redis == nil || c.cache != nil {
		return nil
	}
	rc, err := rediscache.New(
		ctx, c.Redis.Addr, c.Redis.Password, c.Redis.DB,
		time.Duration(*c.Redis.TTL),
	)
	if err != nil {
		return fmt.Errorf("rediscache.New: %w", err)
	}
	c.cache = rc
	return nil
}

// Close releases the resources which are opened by OpenCache.
func (c *Config) Close() error {
	if c.cache == nil {
		return nil
	}
	err := c.cache.Close()
	c.cache = nil
	return err
}

// NewEngine instantiates a new gin-gonic engine instance based on
// the gin settings, logging using the l logger.
func (c *Config) NewEngine(l *slog.Logger) *gin.Engine {
	if c.Gin.Mode != "" {
		gin.SetMode(c.Gin.Mode)
	}
	middlewares := make([]gin.HandlerFunc, 0, 2)
	if *c.Gin.Logger {
		middlewares = append(middlewares, gin.Logger(l))
	}
	if *c.Gin.Recovery {
		middlewares = append(middlewares, gin.Recovery(l))
	}
	return gin.New(middlewares...)
}

// NewShiftsUseCase instantiates a new shifts use case based on the
// settings in the c struct.
func (c *Config) NewShiftsUseCase(
	p repo.Pool, r appuc.Repos,
) (*shiftsuc.UseCase, error) {
	return shiftsuc.New(
		p, r.Shifts, r.Taxis, r.Users,
		shiftsuc.WithMaxDuration(time.Duration(*c.Usecases.Shifts.MaxDuration)),
		shiftsuc.WithLocation(c.loc),
	)
}

// NewTaxisUseCase instantiates a new taxis use case which caches the
// active taxis if OpenCache was called successfully before.
func (c *Config) NewTaxisUseCase(
	p repo.Pool, r appuc.Repos,
) (*taxisuc.UseCase, error) {
	opts := make([]taxisuc.Option, 0, 1)
	if c.cache != nil {
		opts = append(opts, taxisuc.WithActiveCache(c.cache))
	}
	return taxisuc.New(p, r.Taxis, r.Shifts, opts...)
}
