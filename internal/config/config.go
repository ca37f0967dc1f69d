package config

import (
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

type Config struct {
	App struct {
		Env      string
		Timezone string
	} `mapstructure:"app"`

	Telegram struct {
		Token       string
		AdminChatID int64 `mapstructure:"admin_chat_id"`
	} `mapstructure:"telegram"`

	HTTP struct {
		Addr string
	} `mapstructure:"http"`

	Postgres struct {
		DSN string
	} `mapstructure:"postgres"`

	Sheets struct {
		CredentialsFile string `mapstructure:"credentials_file"`
		SpreadsheetID   string `mapstructure:"spreadsheet_id"`

		// имена листов
		Channels          string `mapstructure:"channels"`
		Payments          string `mapstructure:"payments"`
		ExpenseCategories string `mapstructure:"expense_categories"`
		Reference         string `mapstructure:"reference"`
		Prices            string `mapstructure:"prices"`
		Sales             string `mapstructure:"sales"`
		Expenses          string `mapstructure:"expenses"`
	} `mapstructure:"sheets"`

	Cache struct {
		TTLSeconds int `mapstructure:"ttl_seconds"`
	} `mapstructure:"cache"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`
}

func Load(path string) (Config, error) {
	// локальный .env с токенами (если есть) — до чтения ENV
	_ = gotenv.Load()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()

	var c Config
	if err := v.ReadInConfig(); err != nil {
		return c, err
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	if c.Cache.TTLSeconds <= 0 {
		c.Cache.TTLSeconds = 300
	}
	return c, nil
}
