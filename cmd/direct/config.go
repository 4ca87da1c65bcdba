package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/osudirect/direct"
)

// config is assembled from, in increasing precedence: direct.yaml, the
// environment (DIRECT_*, optionally seeded from .env) and flags.
type config struct {
	Server   string        `mapstructure:"server"`
	URL      string        `mapstructure:"url"`
	Dir      string        `mapstructure:"dir"`
	Quota    int           `mapstructure:"quota"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Retries  int           `mapstructure:"retries"`
	RPS      int           `mapstructure:"rps"`
	Burst    int           `mapstructure:"burst"`
	LogLevel string        `mapstructure:"log-level"`

	// download
	Video        bool   `mapstructure:"video"`
	Dest         string `mapstructure:"dest"`
	MD5          string `mapstructure:"md5"`
	SkipExisting bool   `mapstructure:"skip-existing"`
	Progress     bool   `mapstructure:"progress"`

	// search
	Limit  int      `mapstructure:"limit"`
	Offset int      `mapstructure:"offset"`
	Status []int    `mapstructure:"status"`
	Mode   int      `mapstructure:"mode"`
	Sort   []string `mapstructure:"sort"`
}

func newFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("direct", pflag.ContinueOnError)
	flags.SetOutput(io.Discard)

	flags.String("config", "", "path to a config file (default ./direct.yaml)")
	flags.String("server", string(direct.Automatic), "mirror region, e.g. europe, us-west, japan")
	flags.String("url", "", "custom mirror base URL; implies --server custom")
	flags.String("dir", ".", "directory downloads are written to")
	flags.Int("quota", direct.DefaultQuota, "maximum number of downloads")
	flags.Duration("timeout", 0, "per-request timeout, 0 for none")
	flags.Int("retries", 3, "attempts per request on transport failure")
	flags.Int("rps", 0, "requests per second, 0 disables throttling")
	flags.Int("burst", 1, "throttle burst size")
	flags.String("log-level", "info", "debug, info, warn or error")

	flags.Bool("video", false, "download the variant including video")
	flags.String("dest", "", "destination file, single download only")
	flags.String("md5", "", "expected md5 of the archive")
	flags.Bool("skip-existing", false, "do not overwrite existing files")
	flags.Bool("progress", true, "draw a progress bar on stderr")

	flags.Int("limit", 0, "search page size")
	flags.Int("offset", 0, "search offset")
	flags.IntSlice("status", nil, "ranked statuses to include, e.g. 1,4")
	flags.Int("mode", -1, "game mode 0-3, -1 for any")
	flags.StringSlice("sort", nil, "sort keys, e.g. ranked_date:desc")

	return flags
}

// loadConfig parses args and layers the other sources under them. It
// returns the positional arguments left after flag parsing.
func loadConfig(args []string) (config, []string, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config{}, nil, fmt.Errorf("loading .env: %w", err)
	}

	flags := newFlagSet()
	if err := flags.Parse(args); err != nil {
		return config{}, nil, err
	}

	v := viper.New()
	v.SetEnvPrefix("DIRECT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return config{}, nil, fmt.Errorf("binding flags: %w", err)
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("direct")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/direct")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config{}, nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return config{}, nil, fmt.Errorf("decoding config: %w", err)
	}

	return cfg, flags.Args(), nil
}

// server resolves the configured region. A custom URL wins over any
// valid region.
func (cfg config) server() (direct.Server, error) {
	srv, err := direct.ParseServer(cfg.Server)
	if err != nil {
		return "", err
	}
	if cfg.URL != "" {
		return direct.Custom, nil
	}

	return srv, nil
}

func (cfg config) level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}

	return lvl, nil
}

func (cfg config) searchQuery(terms []string) *direct.SearchQuery {
	q := &direct.SearchQuery{
		Query:  strings.Join(terms, " "),
		Limit:  cfg.Limit,
		Offset: cfg.Offset,
		Sort:   cfg.Sort,
	}
	for _, s := range cfg.Status {
		q.Ranked = append(q.Ranked, direct.RankStatus(s))
	}
	if cfg.Mode >= 0 {
		mode := direct.Mode(cfg.Mode)
		q.Mode = &mode
	}

	return q
}
