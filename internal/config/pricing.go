package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// ModelPrice describes one generation model and its credit cost.
type ModelPrice struct {
	Name        string `mapstructure:"name"`
	DisplayName string `mapstructure:"displayName"`
	Credits     int64  `mapstructure:"credits"`
}

type PricingConfig struct {
	DefaultModel   string       `mapstructure:"defaultModel"`
	DefaultCredits int64        `mapstructure:"defaultCredits"`
	Models         []ModelPrice `mapstructure:"models"`
}

func DefaultPricingConfig() PricingConfig {
	return PricingConfig{
		DefaultModel:   "flux",
		DefaultCredits: 1,
		Models: []ModelPrice{
			{Name: "flux", DisplayName: "Flux", Credits: 1},
			{Name: "flux-realism", DisplayName: "Flux Realism", Credits: 1},
			{Name: "flux-anime", DisplayName: "Flux Anime", Credits: 1},
			{Name: "turbo", DisplayName: "Turbo", Credits: 2},
		},
	}
}

// CreditsFor returns the credit cost of generating with the given model.
func (c PricingConfig) CreditsFor(model string) int64 {
	for _, m := range c.Models {
		if m.Name == model {
			return m.Credits
		}
	}
	return c.DefaultCredits
}

// PricingConfigHolder exposes the current pricing config and hot-reloads
// it when the backing file changes.
type PricingConfigHolder struct {
	current atomic.Value // holds PricingConfig
}

func NewPricingConfigHolder() (*PricingConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("pricing")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/visiora")
	v.AddConfigPath(".")

	v.SetEnvPrefix("VISIORA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// if config file not found, use defaults
		defaults := DefaultPricingConfig()
		v.SetDefault("pricing.defaultModel", defaults.DefaultModel)
		v.SetDefault("pricing.defaultCredits", defaults.DefaultCredits)
		v.SetDefault("pricing.models", defaults.Models)
	}

	var cfg PricingConfig
	if err := v.UnmarshalKey("pricing", &cfg); err != nil {
		return nil, err
	}
	if err := validatePricingConfig(cfg); err != nil {
		return nil, err
	}

	holder := &PricingConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated PricingConfig
		if err := v.UnmarshalKey("pricing", &updated); err != nil {
			log.Printf("[pricing-config] reload failed: %v", err)
			return
		}
		if err := validatePricingConfig(updated); err != nil {
			log.Printf("[pricing-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[pricing-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *PricingConfigHolder) Get() PricingConfig {
	return h.current.Load().(PricingConfig)
}

func validatePricingConfig(cfg PricingConfig) error {
	if cfg.DefaultCredits <= 0 {
		return errors.New("pricing.defaultCredits must be positive")
	}
	if strings.TrimSpace(cfg.DefaultModel) == "" {
		return errors.New("pricing.defaultModel cannot be empty")
	}
	for _, m := range cfg.Models {
		if m.Credits <= 0 {
			return errors.New("pricing.models credits must be positive")
		}
	}
	return nil
}
