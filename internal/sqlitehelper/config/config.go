package config

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"strings"

	"github.com/alexflint/go-arg"
	logpkg "github.com/nsqlite/sqlitehelper/internal/log"
	"github.com/nsqlite/sqlitehelper/internal/sqlitec"
	"github.com/nsqlite/sqlitehelper/internal/sqlitehelper/demo"
	"github.com/nsqlite/sqlitehelper/internal/version"
)

// DemoCmd runs the example programs.
type DemoCmd struct {
	Scenarios []string `arg:"positional" help:"Scenarios to run in order (create, insert, select, update, closed, unicode); all of them when empty"`
}

// IndexCmd stores hash and entropy of the files below a directory.
type IndexCmd struct {
	Root       string `arg:"positional,required" help:"Directory to scan"`
	Workers    int    `arg:"--workers,env:SQLITEHELPER_WORKERS" help:"Number of files read at the same time" default:"4"`
	NoProgress bool   `arg:"--no-progress" help:"Do not show the progress bar" default:"false"`
}

// ReportCmd prints filename and entropy of the stored files.
type ReportCmd struct{}

// ShellCmd starts the interactive SQL shell.
type ShellCmd struct {
	HistoryFile string `arg:"--history-file,env:SQLITEHELPER_HISTORY_FILE" help:"File where the shell keeps its history (default to a file in the temp directory)"`
}

// InfoCmd prints engine version and threading mode.
type InfoCmd struct{}

// Config represents the configuration for sqlitehelper.
type Config struct {
	Database  string `arg:"--database,-d,env:SQLITEHELPER_DATABASE" help:"Path of the SQLite database, :memory: for a private in-memory database" default:"files.db"`
	Engine    string `arg:"--engine,env:SQLITEHELPER_ENGINE" help:"SQLite engine (mattn, modernc)" default:"mattn"`
	LogFormat string `arg:"--log-format,env:SQLITEHELPER_LOG_FORMAT" help:"Log format (json, text)" default:"text"`
	LogLevel  string `arg:"--log-level,env:SQLITEHELPER_LOG_LEVEL" help:"Log level (debug, info, warn, error)" default:"warn"`

	Demo   *DemoCmd   `arg:"subcommand:demo" help:"Run the example programs"`
	Index  *IndexCmd  `arg:"subcommand:index" help:"Hash and measure the files of a directory into filetable"`
	Report *ReportCmd `arg:"subcommand:report" help:"Print filename and entropy from filetable"`
	Shell  *ShellCmd  `arg:"subcommand:shell" help:"Start the interactive SQL shell"`
	Info   *InfoCmd   `arg:"subcommand:info" help:"Show engine version and threading mode"`

	EngineKind   sqlitec.EngineKind `arg:"-"`
	LoggerOption logpkg.Options     `arg:"-"`
	Scenarios    []demo.Scenario    `arg:"-"`
}

func (Config) Version() string {
	return fmt.Sprintf("%s\n", version.CLIVersion())
}

// MustParse parses and validates the configuration from the command
// line arguments. It returns a Config struct or exits the program
// with an error.
func MustParse(args []string) Config {
	cfg := Config{}

	parser, err := arg.NewParser(
		arg.Config{Program: "sqlitehelper"},
		&cfg,
	)
	if err != nil {
		log.Fatal(err)
	}
	parser.MustParse(args[1:])

	if parser.Subcommand() == nil {
		parser.Fail("missing command, one of: demo, index, report, shell, info")
	}

	if err := cfg.validate(); err != nil {
		parser.Fail(err.Error())
	}

	return cfg
}

// validate checks every field and fills the derived ones.
func (cfg *Config) validate() error {
	if strings.TrimSpace(cfg.Database) == "" {
		return errors.New("database path is required")
	}

	kind, err := sqlitec.ParseEngineKind(cfg.Engine)
	if err != nil {
		return err
	}
	cfg.EngineKind = kind

	if err := validateLogFormat(cfg.LogFormat); err != nil {
		return err
	}
	level, err := validateLogLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	cfg.LoggerOption = logpkg.Options{Format: cfg.LogFormat, Level: level}

	if cfg.Index != nil {
		if err := validateWorkers(cfg.Index.Workers); err != nil {
			return err
		}
	}

	if cfg.Demo != nil {
		scenarios, err := demo.ParseScenarios(cfg.Demo.Scenarios)
		if err != nil {
			return err
		}
		cfg.Scenarios = scenarios
	}

	return nil
}

// validateLogFormat validates if format is a supported log format.
func validateLogFormat(format string) error {
	valid := []string{logpkg.FormatJSON, logpkg.FormatText}

	for _, v := range valid {
		if format == v {
			return nil
		}
	}

	return fmt.Errorf(
		"invalid log format, valid values are: %s",
		strings.Join(valid, ", "),
	)
}

// validateLogLevel validates and converts the log level.
func validateLogLevel(level string) (slog.Level, error) {
	lvl, err := logpkg.ParseLevel(level)
	if err != nil {
		return 0, errors.New("invalid log level, valid values are: debug, info, warn, error")
	}
	return lvl, nil
}

// validateWorkers validates the number of concurrent file readers.
func validateWorkers(workers int) error {
	if workers < 1 || workers > 256 {
		return errors.New("invalid workers, valid values are 1-256")
	}
	return nil
}
