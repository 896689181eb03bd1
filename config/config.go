package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/slighter12/go-lib/database/postgres"
)

const (
	defaultPath               = "."
	defaultMaxRequestBodySize = "4MB"
	defaultMaxCoverSize       = 2 << 20
	defaultBcryptCost         = 10
	defaultTokenTTL           = time.Hour
	defaultAddressLookupURL   = "https://viacep.com.br/ws"
	defaultAddressTimeout     = 5 * time.Second
	defaultUploadDir          = "uploads"
	defaultUploadURLPrefix    = "/uploads"
)

// EnvDevelop disables push token verification for local runs.
const EnvDevelop = "develop"

const (
	defaultWorkerPort     = 8081
	defaultWorkerPrefetch = 10
)

// Storage providers for cover images.
const (
	StorageProviderLocal = "local"
	StorageProviderS3    = "s3"
)

// Event publisher providers.
const (
	PubSubProviderLocal    = "local"
	PubSubProviderGoogle   = "google"
	PubSubProviderRabbitMQ = "rabbitmq"
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port               int    `json:"port" yaml:"port"`
		MaxRequestBodySize string `json:"maxRequestBodySize" yaml:"maxRequestBodySize"`
		Timeouts           struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
		// AllowOrigins lists the browser origins allowed by CORS; empty allows any
		AllowOrigins []string `json:"allowOrigins" yaml:"allowOrigins"`
	} `json:"http" yaml:"http"`

	Postgres *postgres.DBConn `json:"postgres" yaml:"postgres" mapstructure:"postgres"`

	// Migrations controls applying the embedded schema migrations at startup
	Migrations *MigrationsConfig `json:"migrations" yaml:"migrations"`

	SecretKey struct {
		Access string `json:"access" yaml:"access"`
	} `json:"secretKey" yaml:"secretKey"`

	Auth *AuthConfig `json:"auth" yaml:"auth"`

	// AddressLookup configures the postal code lookup used at registration
	AddressLookup *AddressLookupConfig `json:"addressLookup" yaml:"addressLookup"`

	// Storage configuration for book cover images
	Storage *StorageConfig `json:"storage" yaml:"storage"`

	// Upload limits for multipart requests
	Upload *UploadConfig `json:"upload" yaml:"upload"`

	// QRCode configuration for reservation pickup QR codes
	QRCode *QRCodeConfig `json:"qrcode" yaml:"qrcode"`

	// PubSub configuration for event publishing
	PubSub *PubSubConfig `json:"pubsub" yaml:"pubsub"`

	// Worker configuration for the circulation event worker
	Worker *WorkerConfig `json:"worker" yaml:"worker"`
}

// WorkerConfig defines the event worker endpoints
type WorkerConfig struct {
	Port int `json:"port" yaml:"port"`
	// PushAudience overrides the audience expected in Pub/Sub push tokens.
	// When empty the audience is the URL of the push request.
	PushAudience string `json:"pushAudience" yaml:"pushAudience"`
	// Prefetch bounds unacknowledged RabbitMQ deliveries
	Prefetch int `json:"prefetch" yaml:"prefetch"`
}

// AuthConfig defines authentication-related configuration
type AuthConfig struct {
	BcryptCost int           `json:"bcryptCost" yaml:"bcryptCost"`
	TokenTTL   time.Duration `json:"tokenTTL" yaml:"tokenTTL"`
	// AdminEmails are registered with the admin role
	AdminEmails []string `json:"adminEmails" yaml:"adminEmails"`
}

// IsAdminEmail reports whether email belongs to a configured administrator.
func (c *AuthConfig) IsAdminEmail(email string) bool {
	if c == nil {
		return false
	}
	for _, admin := range c.AdminEmails {
		if strings.EqualFold(strings.TrimSpace(admin), strings.TrimSpace(email)) {
			return true
		}
	}

	return false
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// MigrationsConfig defines schema migration behaviour
type MigrationsConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// AddressLookupConfig defines the postal code lookup client
type AddressLookupConfig struct {
	BaseURL string        `json:"baseUrl" yaml:"baseUrl"`
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// StorageConfig selects where cover images are written
type StorageConfig struct {
	// Provider type: "local" for the filesystem or "s3" for S3/MinIO
	Provider string `json:"provider" yaml:"provider"`

	Local LocalStorageConfig `json:"local" yaml:"local"`
	S3    S3StorageConfig    `json:"s3" yaml:"s3"`
}

// LocalStorageConfig stores covers in a directory served under URLPrefix
type LocalStorageConfig struct {
	Dir       string `json:"dir" yaml:"dir"`
	URLPrefix string `json:"urlPrefix" yaml:"urlPrefix"`
}

// S3StorageConfig defines an S3 compatible bucket (AWS or MinIO)
type S3StorageConfig struct {
	Endpoint        string `json:"endpoint" yaml:"endpoint"`
	Region          string `json:"region" yaml:"region"`
	Bucket          string `json:"bucket" yaml:"bucket"`
	AccessKeyID     string `json:"accessKeyId" yaml:"accessKeyId"`
	SecretAccessKey string `json:"secretAccessKey" yaml:"secretAccessKey"`
	UseSSL          bool   `json:"useSsl" yaml:"useSsl"`
	// PublicURL is prefixed to object keys in stored cover links
	PublicURL string `json:"publicUrl" yaml:"publicUrl"`
}

// UploadConfig defines multipart upload limits
type UploadConfig struct {
	MaxCoverSize int64 `json:"maxCoverSize" yaml:"maxCoverSize"`
}

// QRCodeConfig defines QR code generation configuration
type QRCodeConfig struct {
	Size                 int    `json:"size" yaml:"size"`
	ErrorCorrectionLevel string `json:"errorCorrectionLevel" yaml:"errorCorrectionLevel"`
}

// PubSubConfig defines Pub/Sub configuration for event publishing
type PubSubConfig struct {
	// Provider type: "local" for local HTTP, "google" for Google Pub/Sub or "rabbitmq"
	Provider string `json:"provider" yaml:"provider"`

	// Google Cloud project ID (for google provider)
	ProjectID string `json:"projectId" yaml:"projectId"`

	// Pub/Sub topic ID (for google provider)
	TopicID string `json:"topicId" yaml:"topicId"`

	// Service account key file; application default credentials when empty (for google provider)
	CredentialsFile string `json:"credentialsFile" yaml:"credentialsFile"`

	// Local HTTP endpoint for development (for local provider)
	LocalEndpoint string `json:"localEndpoint" yaml:"localEndpoint"`

	// RabbitMQ connection URL and durable queue name (for rabbitmq provider)
	RabbitMQURL string `json:"rabbitmqUrl" yaml:"rabbitmqUrl"`
	QueueName   string `json:"queueName" yaml:"queueName"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			abs := filepath.Join(pwd, path)
			searchPaths = append(searchPaths, abs)
		}
	}

	// Try to find and load the config file
	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	// Load YAML config file
	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// Load environment variables
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// Convert ENV_VAR_NAME to path and align each segment with existing YAML keys.
			// Example: POSTGRES_SSLMODE -> postgres.sslMode (not postgres.sslmode)
			key := canonicalizeEnvKey(k, existingConfigMap)

			return key, v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	// Unmarshal into the config struct (case-insensitive to match env vars)
	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			MatchName: func(mapKey, fieldName string) bool {
				// Case-insensitive matching for env var overrides
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	// A local .env file is optional; real environment variables win.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, errors.Wrap(err, "load .env file")
		}
	}

	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	// Build replicas from environment variables (POSTGRES_REPLICAS_0_HOST, POSTGRES_REPLICAS_0_PORT, etc.)
	if cfg.Postgres != nil {
		cfg.Postgres.Replicas = buildReplicasFromEnv()
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.HTTP.MaxRequestBodySize) == "" {
		cfg.HTTP.MaxRequestBodySize = defaultMaxRequestBodySize
	}

	if cfg.Auth == nil {
		cfg.Auth = &AuthConfig{}
	}
	if cfg.Auth.BcryptCost == 0 {
		cfg.Auth.BcryptCost = defaultBcryptCost
	}
	if cfg.Auth.TokenTTL == 0 {
		cfg.Auth.TokenTTL = defaultTokenTTL
	}

	if cfg.AddressLookup == nil {
		cfg.AddressLookup = &AddressLookupConfig{}
	}
	if cfg.AddressLookup.BaseURL == "" {
		cfg.AddressLookup.BaseURL = defaultAddressLookupURL
	}
	if cfg.AddressLookup.Timeout == 0 {
		cfg.AddressLookup.Timeout = defaultAddressTimeout
	}

	if cfg.Storage == nil {
		cfg.Storage = &StorageConfig{}
	}
	if cfg.Storage.Provider == "" {
		cfg.Storage.Provider = StorageProviderLocal
	}
	if cfg.Storage.Local.Dir == "" {
		cfg.Storage.Local.Dir = defaultUploadDir
	}
	if cfg.Storage.Local.URLPrefix == "" {
		cfg.Storage.Local.URLPrefix = defaultUploadURLPrefix
	}

	if cfg.Upload == nil {
		cfg.Upload = &UploadConfig{}
	}
	if cfg.Upload.MaxCoverSize <= 0 {
		cfg.Upload.MaxCoverSize = defaultMaxCoverSize
	}

	if cfg.Migrations == nil {
		cfg.Migrations = &MigrationsConfig{}
	}

	if cfg.Worker == nil {
		cfg.Worker = &WorkerConfig{}
	}
	if cfg.Worker.Port == 0 {
		cfg.Worker.Port = defaultWorkerPort
	}
	if cfg.Worker.Prefetch <= 0 {
		cfg.Worker.Prefetch = defaultWorkerPrefetch
	}
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}

// buildReplicasFromEnv builds the replicas slice from environment variables.
// Environment variable format: POSTGRES_REPLICAS_{index}_{field}
// Example: POSTGRES_REPLICAS_0_HOST, POSTGRES_REPLICAS_0_PORT, POSTGRES_REPLICAS_0_USERNAME, POSTGRES_REPLICAS_0_PASSWORD
func buildReplicasFromEnv() []postgres.ConnectionConfig {
	var replicas []postgres.ConnectionConfig

	for i := 0; ; i++ {
		prefix := "POSTGRES_REPLICAS_" + strconv.Itoa(i) + "_"

		host := os.Getenv(prefix + "HOST")
		port := os.Getenv(prefix + "PORT")
		if host == "" || port == "" {
			// No more replicas or incomplete configuration.
			break
		}

		replica := postgres.ConnectionConfig{
			Host:     host,
			Port:     port,
			UserName: os.Getenv(prefix + "USERNAME"),
			Password: os.Getenv(prefix + "PASSWORD"),
		}

		replicas = append(replicas, replica)
	}

	return replicas
}
