package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidateConfig checks the assembled configuration against its struct tags
// and reports every failing field at once, addressed by its config-file key
// (e.g. "router.breaker.max_failures") so the message points at the exact
// line to fix.
func ValidateConfig(cfg *Config) error {
	err := newConfigValidator().Struct(cfg)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed '%s' (value: '%v')",
			configKey(fe.Namespace()), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config values: %s", strings.Join(msgs, "; "))
}

// newConfigValidator builds a validator whose field names follow the
// mapstructure tags, so reported namespaces match the YAML keys
func newConfigValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		tag := strings.SplitN(field.Tag.Get("mapstructure"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return field.Name
		}
		return tag
	})
	return v
}

// configKey strips the root struct name off a validator namespace, leaving
// the dotted config-file key
func configKey(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}
