package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/payerdesk/internal/reconcile"
)

const (
	defaultBaseURL        = "http://localhost:8080"
	defaultTimeoutSeconds = 30
	profileFileName       = ".payerctl.yaml"
)

// Profile is the on-disk console configuration. Flags override it.
type Profile struct {
	BaseURL          string  `yaml:"base_url"`
	PerPage          PerPage `yaml:"per_page"`
	FullFetchPerPage int     `yaml:"full_fetch_per_page"`
	TimeoutSeconds   int     `yaml:"timeout_seconds"`
}

type PerPage struct {
	Unmapped int `yaml:"unmapped"`
	Payers   int `yaml:"payers"`
	Groups   int `yaml:"groups"`
}

func defaultProfilePath() string {
	dir, err := os.UserHomeDir()
	if err != nil {
		return profileFileName
	}
	return filepath.Join(dir, profileFileName)
}

// LoadProfile reads path. A missing file yields the defaults.
func LoadProfile(path string) (Profile, error) {
	p := Profile{}
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return Profile{}, fmt.Errorf("read profile %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(b, &p); err != nil {
			return Profile{}, fmt.Errorf("parse profile %s: %w", path, err)
		}
	}
	return p.withDefaults(), nil
}

func (p Profile) withDefaults() Profile {
	if p.BaseURL == "" {
		p.BaseURL = defaultBaseURL
	}
	if p.TimeoutSeconds <= 0 {
		p.TimeoutSeconds = defaultTimeoutSeconds
	}
	return p
}

func (p Profile) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

func (p Profile) SessionConfig() reconcile.Config {
	return reconcile.Config{
		UnmappedPerPage:  p.PerPage.Unmapped,
		PayersPerPage:    p.PerPage.Payers,
		GroupsPerPage:    p.PerPage.Groups,
		FullFetchPerPage: p.FullFetchPerPage,
	}
}
