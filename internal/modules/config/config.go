package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"hybrid_bot/internal/helper"

	"gopkg.in/yaml.v2"
)

const (
	configFilePathENV = "CONFIG_FILE"
	tokenTelegramENV  = "TELEGRAM_TOKEN"
	databaseDSN       = "DATABASE_DSN"
	nobitexTokenENV   = "NOBITEX_TOKEN"
	wallexKeyENV      = "WALLEX_API_KEY"
)

// Config ...
type Config struct {
	Telegram struct {
		Token  string `yaml:"token"`
		ChatID int64  `yaml:"chat_id"`
	} `yaml:"telegram"`
	DB      string `yaml:"db_dsn"`
	Service struct {
		Host       string `yaml:"host"`
		PublicPort int    `yaml:"public_port"`
		AdminPort  int    `yaml:"admin_port"`
	} `yaml:"service"`

	Jaeger struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"jaeger"`

	// Риск. Проценты как доли: 0.03 => 3% от цены входа.
	Risk RiskConfig `yaml:"risk"`

	// Агрегатор мнений
	Strategy StrategyConfig `yaml:"strategy"`

	// Бэктест
	Backtest BacktestConfig `yaml:"backtest"`

	// Живой наблюдатель сигналов
	Watcher WatcherConfig `yaml:"watcher"`

	Exchange ExchangeConfig `yaml:"exchange"`
}

type RiskConfig struct {
	StopLossPct    float64 `yaml:"stop_loss_pct"`    // дистанция SL от входа
	TakeProfitPct  float64 `yaml:"take_profit_pct"`  // дистанция TP от входа
	MaxPositionPct float64 `yaml:"max_position_pct"` // жёсткий потолок доли депозита
}

type StrategyConfig struct {
	ConfidenceThreshold float64 `yaml:"confidence_threshold"`
	// параметры технического источника
	RSIPeriod     int     `yaml:"rsi_period"`
	RSIOverbought float64 `yaml:"rsi_overbought"`
	RSIOversold   float64 `yaml:"rsi_oversold"`
	EMAShort      int     `yaml:"ema_short"`
	EMALong       int     `yaml:"ema_long"`
	ROCPeriod     int     `yaml:"roc_period"`
	// канал пробоя
	BreakoutPeriod int `yaml:"breakout_period"`
	TrendEMA       int `yaml:"trend_ema"`
}

type BacktestConfig struct {
	InitialBalance float64 `yaml:"initial_balance"`
	Warmup         int     `yaml:"warmup"` // минимум истории до первого сигнала
}

type WatcherConfig struct {
	Pairs         []string      `yaml:"pairs"`
	Timeframe     string        `yaml:"timeframe"`
	CheckInterval time.Duration `yaml:"check_interval"`
	HistoryLimit  int           `yaml:"history_limit"`
}

type ExchangeConfig struct {
	Name         string `yaml:"name"` // nobitex | wallex
	NobitexToken string `yaml:"nobitex_token"`
	WallexKey    string `yaml:"wallex_key"`
}

func NewConfig() (*Config, error) {
	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = "values_local.yaml"
	}
	file, err := os.Open("configs/" + configFileName)
	if err != nil {
		log.Fatalf("Failed to open config file: %v", err)
	}

	defer func() {
		_ = file.Close()
	}()

	decoder := yaml.NewDecoder(file)
	config := Config{
		Risk: RiskConfig{
			StopLossPct:    floatFromEnv("STOP_LOSS_PCT", 0.03),
			TakeProfitPct:  floatFromEnv("TAKE_PROFIT_PCT", 0.05),
			MaxPositionPct: floatFromEnv("MAX_POSITION_PCT", 0.20),
		},
		Strategy: StrategyConfig{
			ConfidenceThreshold: floatFromEnv("CONFIDENCE_THRESHOLD", 0.7),
			RSIPeriod:           intFromEnv("RSI_PERIOD", 14),
			RSIOverbought:       floatFromEnv("RSI_OVERBOUGHT", 70),
			RSIOversold:         floatFromEnv("RSI_OVERSOLD", 30),
			EMAShort:            intFromEnv("EMA_SHORT", 9),
			EMALong:             intFromEnv("EMA_LONG", 21),
			ROCPeriod:           intFromEnv("ROC_PERIOD", 10),
			BreakoutPeriod:      intFromEnv("BREAKOUT_PERIOD", 20),
			TrendEMA:            intFromEnv("TREND_EMA", 50),
		},
		Backtest: BacktestConfig{
			InitialBalance: floatFromEnv("INITIAL_BALANCE", 100_000_000),
			Warmup:         intFromEnv("BACKTEST_WARMUP", 50),
		},
		Watcher: WatcherConfig{
			Timeframe:     getenvDefault("TIMEFRAME", "1h"),
			CheckInterval: durationFromEnv("CHECK_INTERVAL", "5m"),
			HistoryLimit:  intFromEnv("HISTORY_LIMIT", 200),
		},
		Exchange: ExchangeConfig{
			Name: getenvDefault("EXCHANGE", "nobitex"),
		},
	}
	err = decoder.Decode(&config)
	if err != nil {
		log.Fatalf("Failed to decode config file: %v", err)
	}

	if token := os.Getenv(tokenTelegramENV); token != "" {
		config.Telegram.Token = token
	}
	if dsn := os.Getenv(databaseDSN); dsn != "" {
		config.DB = dsn
	}
	if t := os.Getenv(nobitexTokenENV); t != "" {
		config.Exchange.NobitexToken = t
	}
	if k := os.Getenv(wallexKeyENV); k != "" {
		config.Exchange.WallexKey = k
	}
	config.Watcher.Timeframe = helper.NormTF(config.Watcher.Timeframe)

	return &config, nil
}

func intFromEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func floatFromEnv(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationFromEnv(key, def string) time.Duration {
	val := getenvDefault(key, def)
	d, err := time.ParseDuration(val)
	if err != nil {
		d, _ = time.ParseDuration(def)
	}
	return d
}
