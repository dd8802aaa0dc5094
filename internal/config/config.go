// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"github.com/alvinbaena/pwd-analyzer/internal/util"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"io/fs"
	"reflect"
	"strings"
	"time"
)

type Config struct {
	Port            uint16        `mapstructure:"PORT" validate:"required"`
	SelfTLS         bool          `mapstructure:"SELF_TLS"`
	TLSCert         string        `mapstructure:"TLS_CERT" validate:"required_with=TLSKey"`
	TLSKey          string        `mapstructure:"TLS_KEY" validate:"required_with=TLSCert"`
	Insecure        bool          `mapstructure:"INSECURE"`
	Debug           bool          `mapstructure:"DEBUG"`
	HibpURL         string        `mapstructure:"HIBP_URL" validate:"required,url"`
	BreachTimeout   time.Duration `mapstructure:"BREACH_TIMEOUT" validate:"gt=0"`
	BreachCacheTTL  time.Duration `mapstructure:"BREACH_CACHE_TTL" validate:"gt=0"`
	BreachCacheSize int64         `mapstructure:"BREACH_CACHE_SIZE" validate:"gt=0"`
	RedisURL        string        `mapstructure:"REDIS_URL" validate:"omitempty,url"`
	DatabaseURL     string        `mapstructure:"DATABASE_URL"`
	JWTSecret       string        `mapstructure:"JWT_SECRET" validate:"omitempty,min=16"`
}

var defaults = map[string]interface{}{
	"PORT":              3100,
	"HIBP_URL":          "https://api.pwnedpasswords.com",
	"BREACH_TIMEOUT":    "5s",
	"BREACH_CACHE_TTL":  "1h",
	"BREACH_CACHE_SIZE": 10000,
}

// flagKeys maps serve flags to the configuration key they override.
var flagKeys = map[string]string{
	"port":     "PORT",
	"self-tls": "SELF_TLS",
	"tls-cert": "TLS_CERT",
	"tls-key":  "TLS_KEY",
	"insecure": "INSECURE",
}

func bindEnvs(v *viper.Viper, iface interface{}, parts ...string) {
	ifv := reflect.ValueOf(iface)
	ift := reflect.TypeOf(iface)
	for i := 0; i < ift.NumField(); i++ {
		fv := ifv.Field(i)
		t := ift.Field(i)
		tv, ok := t.Tag.Lookup("mapstructure")
		if !ok {
			continue
		}
		switch fv.Kind() {
		case reflect.Struct:
			bindEnvs(v, fv.Interface(), append(parts, tv)...)
		default:
			_ = v.BindEnv(strings.Join(append(parts, tv), "."))
		}
	}
}

func msgForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "required_with":
		return fmt.Sprintf("This field requires the presence of %s", util.ToScreamingSnakeCase(fe.Param()))
	case "url":
		return "This field must be a valid URL"
	case "gt":
		return fmt.Sprintf("This field must be greater than %s", fe.Param())
	case "min":
		return fmt.Sprintf("This field must be at least %s characters long", fe.Param())
	}
	return fe.Error() // default error
}

// Load reads the configuration from the environment, a .env file in the working directory
// and the flags given, in increasing order of precedence.
func Load(flags *pflag.FlagSet) (config Config, err error) {
	if err = godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("error reading .env file")
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// Viper does not unmarshal env variables it doesn't know about, so every key is bound
	// without requiring a config file.
	// https://github.com/spf13/viper/issues/188#issuecomment-399884438
	config = Config{}
	bindEnvs(v, config)

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err = v.BindPFlag(key, f); err != nil {
					return
				}
			}
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return
	}

	err = validate(config)
	return
}

func validate(config Config) error {
	err := validator.New().Struct(&config)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	var msgs []string
	for _, fe := range ve {
		msgs = append(msgs, fmt.Sprintf("%s: %s", util.ToScreamingSnakeCase(fe.Field()), msgForTag(fe)))
	}
	return errors.New(strings.Join(msgs, ". "))
}
