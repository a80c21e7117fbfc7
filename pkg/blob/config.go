package blob

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	BackendDiskv  = "diskv"
	BackendSQLite = "sqlite"

	DefaultPath      = "~/.gapflow"
	DefaultInviteURL = "https://gapflow.app/join"
)

type Config interface {
	BasePath() string
	Backend() string
	TeamPath() string
	InviteURL() string
}

// LoadConfig reads .gapflow.yaml from GAPFLOW_CONFIG_PATH or the working
// directory, with GAPFLOW_* environment overrides.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetDefault("path", DefaultPath)
	v.SetDefault("backend", BackendDiskv)
	v.SetDefault("team", "")
	v.SetDefault("invite_url", DefaultInviteURL)
	v.SetConfigName(".gapflow") // .yaml is implicit
	v.SetEnvPrefix("GAPFLOW")
	v.AutomaticEnv()

	if override := os.Getenv("GAPFLOW_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("blob: read config: %w", err)
		}
	}

	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("blob: expand path: %w", err)
	}
	team, err := homedir.Expand(v.GetString("team"))
	if err != nil {
		return nil, fmt.Errorf("blob: expand team path: %w", err)
	}

	return &FileConfig{
		Path:    path,
		Store:   strings.ToLower(v.GetString("backend")),
		Team:    team,
		Invite:  v.GetString("invite_url"),
		UsedCfg: v.ConfigFileUsed(),
	}, nil
}

// FileConfig is the resolved configuration.
type FileConfig struct {
	Path    string `json:"path"`
	Store   string `json:"backend"`
	Team    string `json:"team,omitempty"`
	Invite  string `json:"inviteURL"`
	UsedCfg string `json:"configFile,omitempty"`
}

func (f *FileConfig) BasePath() string {
	return f.Path
}

func (f *FileConfig) Backend() string {
	if f.Store == "" {
		return BackendDiskv
	}
	return f.Store
}

func (f *FileConfig) TeamPath() string {
	return f.Team
}

func (f *FileConfig) InviteURL() string {
	if f.Invite == "" {
		return DefaultInviteURL
	}
	return f.Invite
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open builds the Store the configuration selects. The returned closer must
// be called once the store is no longer needed.
func Open(cfg Config) (Store, io.Closer, error) {
	if cfg.BasePath() == "" {
		return nil, nil, errors.New("blob: base path unknown")
	}
	switch cfg.Backend() {
	case BackendDiskv:
		return NewDiskv(cfg.BasePath()), nopCloser{}, nil
	case BackendSQLite:
		s, err := OpenSQLite(cfg.BasePath())
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	default:
		return nil, nil, fmt.Errorf("blob: unknown backend %q", cfg.Backend())
	}
}
