package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// envToPath maps the environment variables the original deployment scripts
// export to configuration paths. Anything else is picked up through the
// POLICY_ prefix transform.
var envToPath = map[string]string{
	"DATABASE_URL":       "database.conn_string",
	"OPENSTATES_API_KEY": "openstates.api_key",
	"SLACK_WEBHOOK_URL":  "slack.webhook_url",
	"DEFAULT_QUERY":      "openstates.query",
	"DEFAULT_STATES":     "openstates.jurisdictions",
	"DEFAULT_SINCE_DAYS": "openstates.since_days",
	"FEEDS_PATH":         "ingest.feeds_path",
	"DRY_RUN":            "ingest.dry_run",
}

// Load builds a Config from struct defaults overlaid with environment
// variables, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	if err := k.Load(env.Provider(".", env.Opt{
		TransformFunc: func(key string, value string) (string, any) {
			if path, ok := envToPath[key]; ok {
				return path, value
			}
			if rest, ok := strings.CutPrefix(key, "POLICY_"); ok {
				return strings.ReplaceAll(strings.ToLower(rest), "_", "."), value
			}
			return "", nil
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}
	return unmarshalAndValidate(k)
}

func unmarshalAndValidate(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &cfg,
			TagName:          "koanf",
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}
