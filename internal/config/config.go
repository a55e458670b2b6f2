package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	API      API      `mapstructure:"api"`
	Database Database `mapstructure:"database"`
	RabbitMQ RabbitMQ `mapstructure:"rabbitmq"`
	Twilio   Twilio   `mapstructure:"twilio"`
	Credits  Credits  `mapstructure:"credits"`
	Collect  Collect  `mapstructure:"collect"`
	Sweeper  Sweeper  `mapstructure:"sweeper"`
}

type API struct {
	Port string `mapstructure:"port"`
}

type Database struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

type RabbitMQ struct {
	Enable bool   `mapstructure:"enable"`
	URL    string `mapstructure:"url"`
}

type Twilio struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type Credits struct {
	SignupGrant int64 `mapstructure:"signup_grant"`
}

// Collect controls the synchronous wait loop of the outbound orchestrator.
type Collect struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
	WaitCeiling  time.Duration `mapstructure:"wait_ceiling"`
}

type Sweeper struct {
	Interval time.Duration `mapstructure:"interval"`
}

func Load() (cfg *Config, err error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AddConfigPath("./config")

	viper.SetDefault("twilio.base_url", "https://api.twilio.com")
	viper.SetDefault("twilio.timeout", 15*time.Second)
	viper.SetDefault("credits.signup_grant", 10)
	viper.SetDefault("collect.poll_interval", 2*time.Second)
	viper.SetDefault("collect.wait_ceiling", 5*time.Minute)
	viper.SetDefault("sweeper.interval", time.Minute)

	err = viper.ReadInConfig()
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}

	err = viper.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
