package main

import (
	"fmt"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/shapestone/shape-qvs20/pkg/qvs20"
)

// app carries the configuration shared by all subcommands.
type app struct {
	v          *viper.Viper
	configFile string
}

func newRootCmd() *cobra.Command {
	a := &app{v: newConfig()}

	root := &cobra.Command{
		Use:           "qvs20",
		Short:         "Validate, format and convert QVS20 tables",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := readConfig(a.v, a.configFile); err != nil {
				return err
			}
			if err := setupLogging(cmd.ErrOrStderr(), a.v.GetString(cfgKeyLogLevel), a.v.GetString(cfgKeyLogFile)); err != nil {
				return fmt.Errorf("%s: %w", cfgKeyLogLevel, err)
			}
			if used := a.v.ConfigFileUsed(); used != "" {
				log.Debugf("using config file %s", used)
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default: $HOME/.qvs20.yaml)")
	flags.String("log-level", defaultLogLevel, "log level: debug, info, notice, warning, error, critical")
	flags.String("log-file", "", "also write logs to this rotating file")
	flags.Bool("strict", true, "reject unknown escape sequences")
	flags.String("delimiter", "", `row delimiter for written tables, a single byte or \n, \r, \t`)
	a.bind(cfgKeyLogLevel, root, "log-level")
	a.bind(cfgKeyLogFile, root, "log-file")
	a.bind(cfgKeyStrictEscapes, root, "strict")
	a.bind(cfgKeyRowDelimiter, root, "delimiter")

	root.AddCommand(
		newValidateCmd(a),
		newFmtCmd(a),
		newDumpCmd(a),
		newConvertCmd(a),
		newCratesCmd(a),
		newSQLiteCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) bind(key string, cmd *cobra.Command, flag string) {
	if err := a.v.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func (a *app) readerOptions() qvs20.ReaderOptions {
	opts := qvs20.DefaultReaderOptions()
	opts.StrictEscapes = a.v.GetBool(cfgKeyStrictEscapes)
	return opts
}

func (a *app) writerOptions() (qvs20.WriterOptions, error) {
	opts := qvs20.DefaultWriterOptions()
	delim, err := parseDelimiter(a.v.GetString(cfgKeyRowDelimiter))
	if err != nil {
		return opts, err
	}
	opts.RowDelimiter = delim
	return opts, opts.Validate()
}

func (a *app) sqlitePath() (string, error) {
	return homedir.Expand(a.v.GetString(cfgKeySQLitePath))
}
