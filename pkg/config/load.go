package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hjson/hjson-go/v4"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned for config files with an unsupported extension
var ErrUnknownFormat = errors.New("unknown config format")

// validate is a singleton validator instance
var validate = validator.New()

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Load reads a YAML (.yaml, .yml) or HJSON (.hjson, .json) file on top of the defaults
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg, err := Parse(data, strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data in the given format (yaml, yml, hjson, json) on top of the defaults
func Parse(data []byte, format string) (*Config, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	cfg := Default()

	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	case "hjson", "json":
		if err := hjson.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse hjson: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every section against its constraints
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Report the first failure
	for _, e := range validationErrs {
		field := e.Namespace()
		switch e.Tag() {
		case "oneof":
			return fmt.Errorf("%s: must be one of [%s], got %v", field, e.Param(), e.Value())
		case "gt":
			return fmt.Errorf("%s: must be greater than %s, got %v", field, e.Param(), e.Value())
		case "gte", "min":
			return fmt.Errorf("%s: must be at least %s, got %v", field, e.Param(), e.Value())
		case "lte":
			return fmt.Errorf("%s: must not exceed %s, got %v", field, e.Param(), e.Value())
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}
	return err
}
