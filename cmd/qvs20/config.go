package main

import (
	"errors"
	"fmt"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	configFileName = ".qvs20"
	configFileType = "yaml"
	envPrefix      = "QVS20"

	cfgKeyLogLevel      = "log_level"
	cfgKeyLogFile       = "log_file"
	cfgKeyStrictEscapes = "strict_escapes"
	cfgKeyRowDelimiter  = "row_delimiter"
	cfgKeySQLitePath    = "sqlite_path"

	defaultLogLevel   = "warning"
	defaultSQLitePath = "~/.qvs20.db"
)

// newConfig returns a viper instance with defaults and environment
// variables bound. Flags are bound by the root command.
func newConfig() *viper.Viper {
	v := viper.New()
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetDefault(cfgKeyStrictEscapes, true)
	v.SetDefault(cfgKeySQLitePath, defaultSQLitePath)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	return v
}

// readConfig reads configFile, or $HOME/.qvs20.yaml when configFile is
// empty. A missing default config file is not an error.
func readConfig(v *viper.Viper, configFile string) error {
	if configFile != "" {
		path, err := homedir.Expand(configFile)
		if err != nil {
			return err
		}
		v.SetConfigFile(path)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return fmt.Errorf("home directory: %w", err)
		}
		v.AddConfigPath(home)
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// parseDelimiter accepts a single byte or one of the escapes \n, \r, \t.
// The empty string keeps each table's own delimiter.
func parseDelimiter(s string) (byte, error) {
	switch s {
	case "":
		return 0, nil
	case `\n`:
		return '\n', nil
	case `\r`:
		return '\r', nil
	case `\t`:
		return '\t', nil
	}
	if len(s) != 1 {
		return 0, fmt.Errorf("row delimiter %q is not a single byte", s)
	}
	return s[0], nil
}
