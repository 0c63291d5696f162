package config

import (
	"fmt"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig               `mapstructure:"app"`
	AWS           AWSConfig               `mapstructure:"aws"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Database      DatabaseConfig          `mapstructure:"database"`
	Queue         QueueConfig             `mapstructure:"queue"`
	Store         StoreConfig             `mapstructure:"store"`
	Dialog        DialogConfig            `mapstructure:"dialog"`
	Fulfillment   FulfillmentConfig       `mapstructure:"fulfillment"`
	Catalog       CatalogConfig           `mapstructure:"catalog"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	Logging       LoggingConfig           `mapstructure:"logging"`
	Notifications NotificationConfig      `mapstructure:"notifications"`
	Metrics       MetricsConfig           `mapstructure:"metrics"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// AWSConfig is shared by the SQS, SNS and DynamoDB clients.
type AWSConfig struct {
	Region string `mapstructure:"region"`
	// Endpoint overrides the service endpoint, e.g. a localstack URL.
	Endpoint string `mapstructure:"endpoint"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
	DynamoDB      DynamoDBConfig      `mapstructure:"dynamodb"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses     []string `mapstructure:"addresses"`
	Username      string   `mapstructure:"username"`
	Password      string   `mapstructure:"password"`
	URL           string   `mapstructure:"url"` // Single URL for backwards compatibility
	Index         string   `mapstructure:"index"`
	CategoryField string   `mapstructure:"category_field"`
	MaxCandidates int      `mapstructure:"max_candidates"`
}

// GetURL returns the first address or the URL field
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DynamoDBConfig struct {
	Table string `mapstructure:"table"`
}

// QueueConfig selects the queue backend shared by the producer and the consumer.
type QueueConfig struct {
	Driver            string       `mapstructure:"driver"` // "sqs" or "lmstfy"
	DelaySeconds      *int         `mapstructure:"delay_seconds"` // nil means the 2s default; 0 is honored
	VisibilityTimeout int          `mapstructure:"visibility_timeout"` // seconds
	WaitTimeSeconds   int          `mapstructure:"wait_time_seconds"`
	SQS               SQSConfig    `mapstructure:"sqs"`
	Lmstfy            LmstfyConfig `mapstructure:"lmstfy"`
}

// Delay returns the producer's enqueue delay.
func (q QueueConfig) Delay() time.Duration {
	if q.DelaySeconds == nil {
		return DefaultDelaySeconds * time.Second
	}
	return time.Duration(*q.DelaySeconds) * time.Second
}

type SQSConfig struct {
	QueueURL string `mapstructure:"queue_url"`
}

type LmstfyConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Namespace string `mapstructure:"namespace"`
	Token     string `mapstructure:"token"`
	Queue     string `mapstructure:"queue"`
	TTL       int    `mapstructure:"ttl"` // seconds
}

// StoreConfig selects where restaurant details are read from.
type StoreConfig struct {
	Driver   string `mapstructure:"driver"` // "dynamodb" or "postgres"
	CacheTTL int    `mapstructure:"cache_ttl"` // milliseconds, 0 disables the redis cache
}

type DialogConfig struct {
	ListenAddress string `mapstructure:"listen_address"`
	TimeZone      string `mapstructure:"timezone"`
	SessionTTL    int    `mapstructure:"session_ttl"` // milliseconds
}

type FulfillmentConfig struct {
	Trigger      string `mapstructure:"trigger"` // "ticker" or "zeebe"
	PollInterval int    `mapstructure:"poll_interval"` // milliseconds
	Timeout      int    `mapstructure:"timeout"`       // milliseconds
}

// CatalogConfig points at the supported areas/cuisines registry. Inline lists win over the file.
type CatalogConfig struct {
	RegistryPath string   `mapstructure:"registry_path"`
	Locations    []string `mapstructure:"locations"`
	Cuisines     []string `mapstructure:"cuisines"`
}

// WorkerConfig holds the core settings applicable to every Zeebe worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// NotificationConfig holds SMS delivery settings.
type NotificationConfig struct {
	SMS struct {
		Enabled     bool   `mapstructure:"enabled"`
		CountryCode string `mapstructure:"country_code"`
		SMSType     string `mapstructure:"sms_type"`
		SenderID    string `mapstructure:"sender_id"`
	} `mapstructure:"sms"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type MetricsConfig struct {
	Address string `mapstructure:"address"`
}
