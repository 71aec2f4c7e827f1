package config

import (
	"log"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config 全局配置结构
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	MySQL    MySQLConfig    `mapstructure:"mysql"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Business BusinessConfig `mapstructure:"business"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type MySQLConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type KafkaConfig struct {
	Brokers []string         `mapstructure:"brokers"`
	Topic   KafkaTopicConfig `mapstructure:"topic"`
}

type KafkaTopicConfig struct {
	WalletEvents string `mapstructure:"wallet_events"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

// BusinessConfig 业务参数
type BusinessConfig struct {
	DailyLimits      DailyLimitConfig `mapstructure:"daily_limits"`
	MaxRetryCount    int              `mapstructure:"max_retry_count"`
	StatementMaxDays int              `mapstructure:"statement_max_days"`
	StatementPerPage int              `mapstructure:"statement_per_page"`
}

// DailyLimitConfig 各类别的默认日限额（每账户每自然日）
type DailyLimitConfig struct {
	Deposit  float64 `mapstructure:"deposit"`
	Withdraw float64 `mapstructure:"withdraw"`
	Transfer float64 `mapstructure:"transfer"`
}

// DepositCap 存款日限额
func (c DailyLimitConfig) DepositCap() decimal.Decimal {
	return decimal.NewFromFloat(c.Deposit)
}

// WithdrawCap 取款日限额
func (c DailyLimitConfig) WithdrawCap() decimal.Decimal {
	return decimal.NewFromFloat(c.Withdraw)
}

// TransferCap 转账日限额（只约束转出方）
func (c DailyLimitConfig) TransferCap() decimal.Decimal {
	return decimal.NewFromFloat(c.Transfer)
}

var GlobalConfig *Config

// LoadConfig 加载配置文件
func LoadConfig(configPath string) *Config {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("读取配置文件失败: %v", err)
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	GlobalConfig = config
	return config
}
