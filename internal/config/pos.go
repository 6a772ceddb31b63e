package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// POSConfig carries operator-tunable point-of-sale policy. It is read from
// pos.yml and applied to newly created restaurants; existing rows keep
// whatever they were created with.
type POSConfig struct {
	// DefaultMoneyToPoint is the money amount that earns 1 loyalty point.
	DefaultMoneyToPoint int64 `mapstructure:"defaultMoneyToPoint"`
	// DefaultPointToMoney is the money value of 1 loyalty point.
	DefaultPointToMoney int64 `mapstructure:"defaultPointToMoney"`
	// DefaultVATRate is a percentage (0-100).
	DefaultVATRate    float64 `mapstructure:"defaultVatRate"`
	DefaultVATEnabled bool    `mapstructure:"defaultVatEnabled"`
	ReceiptFooter     string  `mapstructure:"receiptFooter"`
}

func DefaultPOSConfig() POSConfig {
	return POSConfig{
		DefaultMoneyToPoint: 100_000,
		DefaultPointToMoney: 1_000,
		DefaultVATRate:      10,
		DefaultVATEnabled:   false,
		ReceiptFooter:       "Thank you, see you again!",
	}
}

type POSConfigHolder struct {
	current atomic.Value // holds POSConfig
}

func NewPOSConfigHolder() (*POSConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("pos")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/tabletab/config")
	v.AddConfigPath("/etc/tabletab")
	v.AddConfigPath(".")

	v.SetEnvPrefix("TABLETAB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultPOSConfig()
		v.SetDefault("pos.defaultMoneyToPoint", defaults.DefaultMoneyToPoint)
		v.SetDefault("pos.defaultPointToMoney", defaults.DefaultPointToMoney)
		v.SetDefault("pos.defaultVatRate", defaults.DefaultVATRate)
		v.SetDefault("pos.defaultVatEnabled", defaults.DefaultVATEnabled)
		v.SetDefault("pos.receiptFooter", defaults.ReceiptFooter)
	}

	var cfg POSConfig
	if err := v.UnmarshalKey("pos", &cfg); err != nil {
		return nil, err
	}
	if err := validatePOSConfig(cfg); err != nil {
		return nil, err
	}

	holder := &POSConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated POSConfig
		if err := v.UnmarshalKey("pos", &updated); err != nil {
			log.Printf("[pos-config] reload failed: %v", err)
			return
		}
		if err := validatePOSConfig(updated); err != nil {
			log.Printf("[pos-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[pos-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *POSConfigHolder) Current() POSConfig {
	if h == nil {
		return DefaultPOSConfig()
	}
	if cfg, ok := h.current.Load().(POSConfig); ok {
		return cfg
	}
	return DefaultPOSConfig()
}

func validatePOSConfig(cfg POSConfig) error {
	if cfg.DefaultMoneyToPoint <= 0 {
		return errors.New("pos config: defaultMoneyToPoint must be positive")
	}
	if cfg.DefaultPointToMoney < 0 {
		return errors.New("pos config: defaultPointToMoney must not be negative")
	}
	if cfg.DefaultVATRate < 0 || cfg.DefaultVATRate > 100 {
		return errors.New("pos config: defaultVatRate must be within 0-100")
	}
	return nil
}
