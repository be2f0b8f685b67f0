package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/go-mailroom/mailroom/pkg/log"
)

/**
 * @time: 2025/6/25
 * @file: config.go
 * @description: 控制台配置。TOML 文件 + MAILROOM_ 环境变量覆盖。
 */

// ServerConfig points the console at a backend.
type ServerConfig struct {
	URL   string
	Token string
}

// AppConfig is the console configuration tree.
type AppConfig struct {
	Server ServerConfig
	Log    log.Conf
}

// Defaults returns the configuration used when no file is present.
func Defaults() AppConfig {
	return AppConfig{
		Server: ServerConfig{URL: "http://127.0.0.1:8025"},
		Log:    *log.SetDefaults(),
	}
}

// Load reads the config file at path, layering MAILROOM_* environment
// variables on top. An empty path yields the defaults (env still applies).
// The file is watched; changes re-unmarshal into the returned pointer.
func Load(path string) (*AppConfig, error) {
	cfg := Defaults()

	v := viper.New()
	v.SetEnvPrefix("MAILROOM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		applyEnv(v, &cfg)
		return &cfg, nil
	}

	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration file: %w", err)
	}
	applyEnv(v, &cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		if err := v.Unmarshal(&cfg); err != nil {
			log.GetLogger().Errorw("config reload failed", "file", e.Name, "err", err)
			return
		}
		log.GetLogger().Infow("config reloaded", "file", e.Name)
	})

	return &cfg, nil
}

// applyEnv overrides the fields that make sense per invocation.
func applyEnv(v *viper.Viper, cfg *AppConfig) {
	if s := v.GetString("server.url"); s != "" {
		cfg.Server.URL = s
	}
	if s := v.GetString("server.token"); s != "" {
		cfg.Server.Token = s
	}
	if s := v.GetString("log.level"); s != "" {
		cfg.Log.Level = s
	}
}
