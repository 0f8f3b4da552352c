package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StorageBackendMinio = "minio"
	StorageBackendS3    = "s3"
)

// Config contains server configuration parameters.
type Config struct {
	LogLevel   int     `env:"LOG_LEVEL" envDefault:"0"`
	LogJSON    bool    `env:"LOG_JSON" envDefault:"false"`
	BcryptCost int     `env:"BCRYPT_COST" envDefault:"10"`
	HTTP       HTTP    `envPrefix:"HTTP_"`
	Mongo      Mongo   `envPrefix:"MONGO_"`
	JWT        JWT     `envPrefix:"JWT_"`
	Storage    Storage `envPrefix:"STORAGE_"`
	Minio      Minio   `envPrefix:"MINIO_"`
	S3         S3      `envPrefix:"S3_"`
	Cookie     Cookie  `envPrefix:"COOKIE_"`
}

// HTTP contains HTTP server parameters.
type HTTP struct {
	Port               string `env:"PORT" envDefault:"8000"`
	EnableHTTPS        bool   `env:"ENABLE_HTTPS" envDefault:"false"`
	CertFileName       string `env:"CERT_FILE_NAME" envDefault:"cert.pem"`
	PrivateKeyFileName string `env:"PRIVATE_KEY_FILE_NAME" envDefault:"key.pem"`
	// UploadDir holds multipart files until the use-case returns. Empty means os.TempDir().
	UploadDir   string `env:"UPLOAD_DIR"`
	BodyLimitMB int    `env:"BODY_LIMIT_MB" envDefault:"16"`
}

// Mongo contains document store connection parameters.
type Mongo struct {
	URI            string        `env:"URI" envDefault:"mongodb://localhost:27017"`
	Database       string        `env:"DATABASE" envDefault:"streamhub"`
	ConnectTimeout time.Duration `env:"CONNECT_TIMEOUT" envDefault:"10s"`
}

// JWT contains token signing parameters. Access and refresh tokens use
// distinct secrets.
type JWT struct {
	AccessSecret  string        `env:"ACCESS_SECRET" envDefault:"dev-access-secret"`
	AccessTTL     time.Duration `env:"ACCESS_TTL" envDefault:"24h"`
	RefreshSecret string        `env:"REFRESH_SECRET" envDefault:"dev-refresh-secret"`
	RefreshTTL    time.Duration `env:"REFRESH_TTL" envDefault:"240h"`
}

// Storage contains upload parameters shared by all backends.
type Storage struct {
	Backend           string        `env:"BACKEND" envDefault:"minio"`
	Bucket            string        `env:"BUCKET_NAME" envDefault:"streamhub-media"`
	PublicURL         string        `env:"PUBLIC_URL" envDefault:"http://localhost:9000"`
	MaxImageDimension int           `env:"MAX_IMAGE_DIMENSION" envDefault:"1024"`
	BreakerFailures   uint32        `env:"BREAKER_FAILURES" envDefault:"5"`
	BreakerTimeout    time.Duration `env:"BREAKER_TIMEOUT" envDefault:"30s"`
}

// Minio contains MinIO connection parameters.
type Minio struct {
	Endpoint  string `env:"ENDPOINT" envDefault:"localhost:9000"`
	AccessKey string `env:"ACCESS_KEY" envDefault:"streamhub-access-key"`
	SecretKey string `env:"SECRET_KEY" envDefault:"streamhub-secret-key"`
	UseSSL    bool   `env:"USE_SSL" envDefault:"false"`
}

// S3 contains AWS S3 parameters. Credentials come from the default AWS chain.
type S3 struct {
	Region       string `env:"REGION" envDefault:"us-east-1"`
	Endpoint     string `env:"ENDPOINT"`
	UsePathStyle bool   `env:"USE_PATH_STYLE" envDefault:"false"`
}

// Cookie contains auth cookie scope.
type Cookie struct {
	Domain string `env:"DOMAIN"`
	Path   string `env:"PATH" envDefault:"/"`
}

// NewConfig loads configuration from an optional .env file and environment variables.
func NewConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.JWT.AccessSecret == "" || c.JWT.RefreshSecret == "" {
		return errors.New("jwt secrets must be set")
	}
	if c.JWT.AccessSecret == c.JWT.RefreshSecret {
		return errors.New("access and refresh secrets must differ")
	}
	if c.JWT.AccessTTL <= 0 || c.JWT.RefreshTTL <= 0 {
		return errors.New("token ttls must be positive")
	}
	switch c.Storage.Backend {
	case StorageBackendMinio, StorageBackendS3:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	return nil
}
