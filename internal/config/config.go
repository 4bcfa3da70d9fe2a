package config

import (
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

type Config struct {
	App struct {
		Env      string
		Timezone string
	} `mapstructure:"app"`

	HTTP struct {
		Addr string
	} `mapstructure:"http"`

	Postgres struct {
		DSN string
	} `mapstructure:"postgres"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`

	Auth struct {
		JWTSecret string `mapstructure:"jwt_secret"`
	} `mapstructure:"auth"`

	Telegram struct {
		Token       string
		AdminChatID int64 `mapstructure:"admin_chat_id"`
	} `mapstructure:"telegram"`

	Payments struct {
		BaseURL string `mapstructure:"base_url"`
	} `mapstructure:"payments"`

	Tracker struct {
		ReminderLead time.Duration `mapstructure:"reminder_lead"`
	} `mapstructure:"tracker"`
}

func Load(path string) (Config, error) {
	// local overrides live in .env; a missing file is fine
	_ = gotenv.Load()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()

	v.SetDefault("app.timezone", "America/New_York")
	v.SetDefault("tracker.reminder_lead", 15*time.Minute)

	var c Config
	if err := v.ReadInConfig(); err != nil {
		return c, err
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, nil
}

// Location resolves the reference timezone in which session times are interpreted.
func (c Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.App.Timezone)
}
