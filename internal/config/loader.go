package config

import (
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering sources. Order of precedence
// (low -> high):
//  1. defaults (New())
//  2. YAML file, when path is non-empty
//  3. env (prefix OSBP_)
//
// Threshold validation happens later in domain.DetectionConfig.Validate,
// after flag overrides are applied.
func Load(path string) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Environment variables: OSBP_MIN_IRIO, OSBP_POSTGRES_DSN, ...
	// Keys keep their underscores to match the koanf struct tags.
	envProvider := env.Provider("OSBP_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "osbp_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}
	return &cfg, nil
}
