package config

import (
	"encoding/json"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-insight/internal/indicator"
	"github.com/rxtech-lab/argo-insight/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Provider names where bars come from.
type Provider string

const (
	ProviderFile    Provider = "file"
	ProviderPolygon Provider = "polygon"
	ProviderBinance Provider = "binance"
)

// AllProviders lists every supported provider for schema enums.
var AllProviders = []any{string(ProviderFile), string(ProviderPolygon), string(ProviderBinance)}

type ServerConfig struct {
	Address string `yaml:"address" json:"address" validate:"required" jsonschema:"title=Address,description=Listen address of the HTTP API,default=:8080"`
}

type BatchConfig struct {
	Concurrency int `yaml:"concurrency" json:"concurrency" validate:"gte=1,lte=64" jsonschema:"title=Concurrency,description=Number of analyses run in parallel,minimum=1,maximum=64"`
}

// Config describes one analysis run.
type Config struct {
	Symbol       string                     `yaml:"symbol" json:"symbol" validate:"required" jsonschema:"title=Symbol,description=Security identifier to analyse"`
	Provider     Provider                   `yaml:"provider" json:"provider" validate:"required,oneof=file polygon binance" jsonschema:"title=Provider,description=Where bars are loaded from"`
	DataPath     string                     `yaml:"data_path" json:"data_path" validate:"required_if=Provider file" jsonschema:"title=Data Path,description=CSV or Parquet bar file when provider is file"`
	StartTime    optional.Option[time.Time] `yaml:"start_time" json:"start_time" jsonschema:"title=Start Time,description=Optional first day of the history window"`
	EndTime      optional.Option[time.Time] `yaml:"end_time" json:"end_time" jsonschema:"title=End Time,description=Optional last day of the history window"`
	LookbackDays int                        `yaml:"lookback_days" json:"lookback_days" validate:"gte=1" jsonschema:"title=Lookback Days,description=Calendar days of history when no start time is set,minimum=1"`
	ForecastDays int                        `yaml:"forecast_days" json:"forecast_days" validate:"gte=1,lte=10" jsonschema:"title=Forecast Days,description=Number of trading days to predict,minimum=1,maximum=10"`
	LogLevel     string                     `yaml:"log_level" json:"log_level" validate:"oneof=debug info warn error" jsonschema:"title=Log Level,enum=debug,enum=info,enum=warn,enum=error"`
	Server       ServerConfig               `yaml:"server" json:"server"`
	Batch        BatchConfig                `yaml:"batch" json:"batch"`
	Indicators   indicator.Settings         `yaml:"indicators" json:"indicators"`
}

// UnmarshalYAML implements custom unmarshaling for Config. Keys missing from
// the document keep their current values, so decoding into Default() fills defaults.
func (c *Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type raw struct {
		Symbol       string       `yaml:"symbol"`
		Provider     Provider     `yaml:"provider"`
		DataPath     string       `yaml:"data_path"`
		StartTime    *time.Time   `yaml:"start_time"`
		EndTime      *time.Time   `yaml:"end_time"`
		LookbackDays int          `yaml:"lookback_days"`
		ForecastDays int          `yaml:"forecast_days"`
		LogLevel     string       `yaml:"log_level"`
		Server       ServerConfig       `yaml:"server"`
		Batch        BatchConfig        `yaml:"batch"`
		Indicators   indicator.Settings `yaml:"indicators"`
	}

	config := raw{
		Symbol:       c.Symbol,
		Provider:     c.Provider,
		DataPath:     c.DataPath,
		LookbackDays: c.LookbackDays,
		ForecastDays: c.ForecastDays,
		LogLevel:     c.LogLevel,
		Server:       c.Server,
		Batch:        c.Batch,
		Indicators:   c.Indicators,
	}

	if err := unmarshal(&config); err != nil {
		return err
	}

	c.Symbol = config.Symbol
	c.Provider = config.Provider
	c.DataPath = config.DataPath
	c.LookbackDays = config.LookbackDays
	c.ForecastDays = config.ForecastDays
	c.LogLevel = config.LogLevel
	c.Server = config.Server
	c.Batch = config.Batch
	c.Indicators = config.Indicators

	if config.StartTime != nil {
		c.StartTime = optional.Some(*config.StartTime)
	}

	if config.EndTime != nil {
		c.EndTime = optional.Some(*config.EndTime)
	}

	return nil
}

// Default returns a Config with default values.
func Default() Config {
	return Config{
		Provider:     ProviderFile,
		StartTime:    optional.None[time.Time](),
		EndTime:      optional.None[time.Time](),
		LookbackDays: 180,
		ForecastDays: 5,
		LogLevel:     "info",
		Server:       ServerConfig{Address: ":8080"},
		Batch:        BatchConfig{Concurrency: 4},
		Indicators:   indicator.DefaultSettings(),
	}
}

// Load reads a YAML file on top of Default and validates the result.
func Load(path string) (Config, error) {
	config, err := Read(path)
	if err != nil {
		return Config{}, err
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

// Read decodes a YAML file on top of Default without validating it, for
// callers that complete the configuration before validation.
func Read(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config %s", path)
	}

	return decode(data)
}

// Parse decodes a YAML document on top of Default and validates the result.
func Parse(data []byte) (Config, error) {
	config, err := decode(data)
	if err != nil {
		return Config{}, err
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func decode(data []byte) (Config, error) {
	config := Default()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse config", err)
	}

	return config, nil
}

// Validate checks field constraints and the time window ordering.
func (c Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid configuration", err)
	}

	if c.StartTime.IsSome() && c.EndTime.IsSome() && !c.StartTime.Unwrap().Before(c.EndTime.Unwrap()) {
		return errors.Newf(errors.ErrCodeInvalidConfiguration, "start_time %s must be before end_time %s",
			c.StartTime.Unwrap().Format(time.DateOnly), c.EndTime.Unwrap().Format(time.DateOnly))
	}

	return nil
}

// Window resolves the history window. A missing end defaults to now and a
// missing start to LookbackDays before the end.
func (c Config) Window(now time.Time) (time.Time, time.Time) {
	end := c.EndTime.TakeOr(now)
	start := c.StartTime.TakeOr(end.AddDate(0, 0, -c.LookbackDays))

	return start, end
}

// GenerateSchema generates a JSON schema for the Config
func (c *Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t.String() == "optional.Option[time.Time]" {
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date-time",
				}
			}

			if strings.HasSuffix(t.String(), "config.Provider") {
				return &jsonschema.Schema{
					Type: "string",
					Enum: AllProviders,
				}
			}

			return nil
		},
	}

	schema := reflector.Reflect(c)

	schema.Title = "argo-insight-config"
	schema.Description = "Configuration schema for an argo-insight analysis run"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates a JSON schema string for the Config
func (c *Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}
