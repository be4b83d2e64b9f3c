package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Shop option keys. The resolver reads its two flags on every call, so
// a config file edit takes effect without a restart.
const (
	keyShippingOnlyToBilling = "shipping.only_to_billing"
	keyTaxFromShipping       = "tax.shipping"
)

// Options wraps viper so callers always see the latest loaded values.
type Options struct {
	v *viper.Viper
}

// Load reads the yaml config at path (optional; defaults apply when the
// file is absent), overlays SHOP_* environment variables and watches the
// file for changes.
func Load(path string, log zerolog.Logger) (*Options, error) {
	v := viper.New()

	v.SetDefault(keyShippingOnlyToBilling, false)
	v.SetDefault(keyTaxFromShipping, false)
	v.SetDefault("http.port", "8080")
	v.SetDefault("http.request_timeout", 30*time.Second)
	v.SetDefault("http.shutdown_timeout", 10*time.Second)
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "shopdb")
	v.SetDefault("mongo.connect_timeout", 10*time.Second)
	v.SetDefault("mongo.selection_timeout", 5*time.Second)
	v.SetDefault("mongo.max_pool_size", 100)
	v.SetDefault("mongo.min_pool_size", 10)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.orders_topic", "orders-outbox")
	v.SetDefault("sqlite.path", "shop.db")
	v.SetDefault("sqlite.migrations", "./internal/product/migrations")

	v.SetEnvPrefix("SHOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		v.OnConfigChange(func(e fsnotify.Event) {
			log.Info().Str("file", e.Name).Msg("config reloaded")
		})
		v.WatchConfig()
	}

	return &Options{v: v}, nil
}

// ShippingOnlyToBilling reports whether shipping calculations must use
// the order's billing address instead of its shipping address.
func (o *Options) ShippingOnlyToBilling() bool {
	return o.v.GetBool(keyShippingOnlyToBilling)
}

// TaxFromShippingAddress reports whether tax calculations follow the
// order's shipping address instead of its billing address.
func (o *Options) TaxFromShippingAddress() bool {
	return o.v.GetBool(keyTaxFromShipping)
}

func (o *Options) HTTPPort() string               { return o.v.GetString("http.port") }
func (o *Options) RequestTimeout() time.Duration  { return o.v.GetDuration("http.request_timeout") }
func (o *Options) ShutdownTimeout() time.Duration { return o.v.GetDuration("http.shutdown_timeout") }
func (o *Options) MongoURI() string               { return o.v.GetString("mongo.uri") }
func (o *Options) MongoDatabase() string          { return o.v.GetString("mongo.database") }
func (o *Options) MongoConnectTimeout() time.Duration {
	return o.v.GetDuration("mongo.connect_timeout")
}
func (o *Options) MongoSelectionTimeout() time.Duration {
	return o.v.GetDuration("mongo.selection_timeout")
}
func (o *Options) MongoMaxPoolSize() uint64 { return o.v.GetUint64("mongo.max_pool_size") }
func (o *Options) MongoMinPoolSize() uint64 { return o.v.GetUint64("mongo.min_pool_size") }
func (o *Options) RedisAddr() string              { return o.v.GetString("redis.addr") }
func (o *Options) RedisPassword() string          { return o.v.GetString("redis.password") }
func (o *Options) KafkaBrokers() []string         { return o.v.GetStringSlice("kafka.brokers") }
func (o *Options) KafkaOrdersTopic() string       { return o.v.GetString("kafka.orders_topic") }
func (o *Options) SQLitePath() string             { return o.v.GetString("sqlite.path") }
func (o *Options) SQLiteMigrations() string       { return o.v.GetString("sqlite.migrations") }

// Set overrides a single option in place. Used by tests to flip the
// resolver flags between calls.
func (o *Options) Set(key string, value any) {
	o.v.Set(key, value)
}
