package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	QueueDriverSQS    = "sqs"
	QueueDriverLmstfy = "lmstfy"

	StoreDriverDynamoDB = "dynamodb"
	StoreDriverPostgres = "postgres"

	TriggerTicker = "ticker"
	TriggerZeebe  = "zeebe"
)

// DefaultDelaySeconds applies when queue.delay_seconds is absent.
const DefaultDelaySeconds = 2

func Load() (*Config, error) {
	loadEnvFile()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like QUEUE_SQS_QUEUE_URL
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	viper.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = viper.MergeInConfig() // ignore error if not found

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal {
				v.Set(key, expanded)
			}
		}
	}
}

// Direct override if secrets are still empty after expansion
func overrideEmptyConfig(cfg *Config) {
	if cfg.Queue.SQS.QueueURL == "" {
		if val := os.Getenv("SQS_QUEUE_URL"); val != "" {
			cfg.Queue.SQS.QueueURL = val
		}
	}
	if cfg.Queue.Lmstfy.Token == "" {
		if val := os.Getenv("LMSTFY_TOKEN"); val != "" {
			cfg.Queue.Lmstfy.Token = val
		}
	}
	if cfg.Database.Elasticsearch.Password == "" {
		if val := os.Getenv("ES_PASSWORD"); val != "" {
			cfg.Database.Elasticsearch.Password = val
		}
	}
	if cfg.Database.Postgres.User == "" {
		if val := os.Getenv("DB_USER"); val != "" {
			cfg.Database.Postgres.User = val
		}
	}
	if cfg.Database.Postgres.Password == "" {
		if val := os.Getenv("DB_PASSWORD"); val != "" {
			cfg.Database.Postgres.Password = val
		}
	}
	if cfg.AWS.Region == "" {
		if val := os.Getenv("AWS_REGION"); val != "" {
			cfg.AWS.Region = val
		}
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "dining-concierge"
	}
	if cfg.AWS.Region == "" {
		cfg.AWS.Region = "us-east-1"
	}

	if cfg.Camunda.MaxJobsActive == 0 {
		cfg.Camunda.MaxJobsActive = 1
	}
	if cfg.Camunda.Timeout == 0 {
		cfg.Camunda.Timeout = 30000
	}
	if cfg.Camunda.RequestTimeout == 0 {
		cfg.Camunda.RequestTimeout = 30000
	}

	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 10
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 2
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}

	es := &cfg.Database.Elasticsearch
	if es.URL == "" && len(es.Addresses) > 0 {
		es.URL = es.Addresses[0]
	}
	if len(es.Addresses) == 0 && es.URL != "" {
		es.Addresses = []string{es.URL}
	}
	if es.Index == "" {
		es.Index = "restaurants"
	}
	if es.CategoryField == "" {
		es.CategoryField = "categories.title"
	}
	if es.MaxCandidates == 0 {
		es.MaxCandidates = 50
	}

	if cfg.Database.DynamoDB.Table == "" {
		cfg.Database.DynamoDB.Table = "YelpRestaurant"
	}

	if cfg.Queue.Driver == "" {
		cfg.Queue.Driver = QueueDriverSQS
	}
	if cfg.Queue.DelaySeconds == nil {
		delay := DefaultDelaySeconds
		cfg.Queue.DelaySeconds = &delay
	}
	if cfg.Queue.Lmstfy.Port == 0 {
		cfg.Queue.Lmstfy.Port = 7777
	}
	if cfg.Queue.Lmstfy.Queue == "" {
		cfg.Queue.Lmstfy.Queue = "restaurantQueue"
	}
	if cfg.Queue.Lmstfy.TTL == 0 {
		cfg.Queue.Lmstfy.TTL = 86400
	}

	if cfg.Store.Driver == "" {
		cfg.Store.Driver = StoreDriverDynamoDB
	}

	if cfg.Dialog.ListenAddress == "" {
		cfg.Dialog.ListenAddress = ":8081"
	}
	if cfg.Dialog.TimeZone == "" {
		cfg.Dialog.TimeZone = "America/New_York"
	}
	if cfg.Dialog.SessionTTL == 0 {
		cfg.Dialog.SessionTTL = 15 * 60 * 1000
	}

	if cfg.Fulfillment.Trigger == "" {
		cfg.Fulfillment.Trigger = TriggerTicker
	}
	if cfg.Fulfillment.PollInterval == 0 {
		cfg.Fulfillment.PollInterval = 60000
	}
	if cfg.Fulfillment.Timeout == 0 {
		cfg.Fulfillment.Timeout = 30000
	}

	if cfg.Notifications.SMS.CountryCode == "" {
		cfg.Notifications.SMS.CountryCode = "+1"
	}
	if cfg.Notifications.SMS.SMSType == "" {
		cfg.Notifications.SMS.SMSType = "Transactional"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	if cfg.Metrics.Address == "" {
		cfg.Metrics.Address = ":8080"
	}

	if cfg.Workers == nil {
		cfg.Workers = map[string]WorkerConfig{}
	}
	for key, worker := range cfg.Workers {
		if worker.MaxJobsActive == 0 {
			worker.MaxJobsActive = 1
		}
		if worker.Timeout == 0 {
			worker.Timeout = cfg.Fulfillment.Timeout
		}
		cfg.Workers[key] = worker
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	switch cfg.Queue.Driver {
	case QueueDriverSQS:
		if cfg.Queue.SQS.QueueURL == "" {
			return fmt.Errorf("queue.sqs.queue_url is required")
		}
	case QueueDriverLmstfy:
		if cfg.Queue.Lmstfy.Host == "" {
			return fmt.Errorf("queue.lmstfy.host is required")
		}
		if cfg.Queue.Lmstfy.Namespace == "" {
			return fmt.Errorf("queue.lmstfy.namespace is required")
		}
	default:
		return fmt.Errorf("queue.driver %q is not supported", cfg.Queue.Driver)
	}
	if d := cfg.Queue.DelaySeconds; d != nil && (*d < 0 || *d > 900) {
		return fmt.Errorf("queue.delay_seconds must be between 0 and 900")
	}
	if cfg.Queue.VisibilityTimeout < 0 {
		return fmt.Errorf("queue.visibility_timeout must not be negative")
	}

	switch cfg.Store.Driver {
	case StoreDriverDynamoDB:
	case StoreDriverPostgres:
		if cfg.Database.Postgres.Host == "" {
			return fmt.Errorf("database.postgres.host is required")
		}
		if cfg.Database.Postgres.Database == "" {
			return fmt.Errorf("database.postgres.database is required")
		}
	default:
		return fmt.Errorf("store.driver %q is not supported", cfg.Store.Driver)
	}

	if len(cfg.Database.Elasticsearch.Addresses) == 0 {
		return fmt.Errorf("database.elasticsearch.addresses or url is required")
	}

	if cfg.Database.Redis.Address == "" {
		return fmt.Errorf("database.redis.address is required")
	}

	switch cfg.Fulfillment.Trigger {
	case TriggerTicker:
		if cfg.Fulfillment.PollInterval <= 0 {
			return fmt.Errorf("fulfillment.poll_interval must be positive")
		}
	case TriggerZeebe:
		if cfg.Camunda.BrokerAddress == "" {
			return fmt.Errorf("camunda.broker_address is required when fulfillment.trigger is zeebe")
		}
	default:
		return fmt.Errorf("fulfillment.trigger %q is not supported", cfg.Fulfillment.Trigger)
	}

	if cfg.Fulfillment.Timeout <= 0 {
		return fmt.Errorf("fulfillment.timeout must be positive")
	}

	if _, err := time.LoadLocation(cfg.Dialog.TimeZone); err != nil {
		return fmt.Errorf("dialog.timezone: %w", err)
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetWorkerConfig retrieves worker-specific configuration with fallback to defaults
func GetWorkerConfig(cfg *Config, workerName string) WorkerConfig {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker
	}

	return WorkerConfig{
		Enabled:       true,
		MaxJobsActive: 1,
		Timeout:       cfg.Fulfillment.Timeout,
		MaxRetries:    0,
	}
}
