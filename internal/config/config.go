package config

import (
	"errors"
	"fmt"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"os"
)

type Config struct {
	Logger       LoggerConfig       `mapstructure:"logger"`
	DB           DBConfig           `mapstructure:"db"`
	Server       ServerConfig       `mapstructure:"server"`
	Gemini       GeminiConfig       `mapstructure:"gemini"`
	Quota        QuotaConfig        `mapstructure:"quota"`
	ResumeParser ResumeParserConfig `mapstructure:"resume_parser"`
}

var configFile = "./configs/config.yaml"

func Get() *Config {

	if value, ok := os.LookupEnv("CONFIG_PATH"); ok && value != "" {
		configFile = value
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warnf("couldn't load .env file: %v", err)
	}

	config, err := loadConfig(configFile)
	if err != nil {
		log.Fatal(err)
	}

	return config
}

func loadConfig(file string) (*Config, error) {

	viper.SetConfigFile(file)
	viper.AutomaticEnv()

	viper.SetDefault("MODE", "release")

	err := bindEnvironmentVariables()
	if err != nil {
		return nil, err
	}

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config := Config{}
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	err = config.validate()
	if err != nil {
		return nil, err
	}

	return &config, nil
}

type section interface {
	bindEnvironmentVariables() error
}

func bindEnvironmentVariables() error {
	var errs []error

	sections := map[string]section{
		"LoggerConfig":       LoggerConfig{},
		"DBConfig":           DBConfig{},
		"ServerConfig":       ServerConfig{},
		"GeminiConfig":       GeminiConfig{},
		"QuotaConfig":        QuotaConfig{},
		"ResumeParserConfig": ResumeParserConfig{},
	}

	for name, s := range sections {
		if err := s.bindEnvironmentVariables(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}

	return nil
}

func (config Config) validate() error {
	var errs []error

	if err := config.DB.validate(); err != nil {
		errs = append(errs, fmt.Errorf("DBConfig: %w", err))
	}

	if err := config.Logger.validate(); err != nil {
		errs = append(errs, fmt.Errorf("LoggerConfig: %w", err))
	}

	if err := config.Server.validate(); err != nil {
		errs = append(errs, fmt.Errorf("ServerConfig: %w", err))
	}

	if err := config.Gemini.validate(); err != nil {
		errs = append(errs, fmt.Errorf("GeminiConfig: %w", err))
	}

	if err := config.Quota.validate(); err != nil {
		errs = append(errs, fmt.Errorf("QuotaConfig: %w", err))
	}

	if err := config.ResumeParser.validate(); err != nil {
		errs = append(errs, fmt.Errorf("ResumeParserConfig: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}

	return nil
}

func bindAll(bindings map[string]string) error {
	var errs []error
	for key, env := range bindings {
		if err := viper.BindEnv(key, env); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
