package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rxtech-lab/argo-insight/pkg/errors"
)

// Secrets are provider credentials read from the environment.
type Secrets struct {
	PolygonAPIKey    string `envconfig:"POLYGON_API_KEY"`
	BinanceAPIKey    string `envconfig:"BINANCE_API_KEY"`
	BinanceSecretKey string `envconfig:"BINANCE_SECRET_KEY"`
}

// LoadSecrets loads a .env file when present and maps the environment onto Secrets.
func LoadSecrets() (Secrets, error) {
	// a missing .env is normal outside development
	_ = godotenv.Load()

	var secrets Secrets
	if err := envconfig.Process("", &secrets); err != nil {
		return Secrets{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to read secrets from environment", err)
	}

	return secrets, nil
}

// Require checks that the credential a provider needs is present.
func (s Secrets) Require(provider Provider) error {
	if provider == ProviderPolygon && s.PolygonAPIKey == "" {
		return errors.New(errors.ErrCodeInvalidConfiguration, "POLYGON_API_KEY is required for the polygon provider")
	}

	return nil
}
