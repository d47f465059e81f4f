package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/kursadbilgin/logurl/internal/domain"
	"gopkg.in/yaml.v3"
)

// Settings holds the notifier directives of one scope. Nil fields are unset
// and inherit from the enclosing scope.
type Settings struct {
	Enable         *bool   `yaml:"enable"`
	Host           *string `yaml:"host"`
	Port           *int    `yaml:"port"`
	BaseURL        *string `yaml:"baseurl"`
	RequestTimeout *int    `yaml:"request_timeout"`
}

// MergeInto overlays the set fields onto parent.
func (s Settings) MergeInto(parent domain.NotifierConfig) domain.NotifierConfig {
	merged := parent
	if s.Enable != nil {
		merged.Enabled = *s.Enable
	}
	if s.Host != nil {
		merged.Host = *s.Host
	}
	if s.Port != nil {
		merged.Port = *s.Port
	}
	if s.BaseURL != nil {
		merged.BasePath = *s.BaseURL
	}
	if s.RequestTimeout != nil {
		merged.RequestTimeoutSeconds = *s.RequestTimeout
	}
	return merged
}

// Location is a path-prefix scope; nested locations must extend the parent prefix.
type Location struct {
	Prefix    string     `yaml:"prefix"`
	LogURL    Settings   `yaml:"logurl"`
	Locations []Location `yaml:"locations"`
}

type scopesDocument struct {
	StaticHosts map[string]string `yaml:"static_hosts"`
	Locations   []Location        `yaml:"locations"`
}

type resolvedScope struct {
	prefix string
	cfg    domain.NotifierConfig
}

// Scopes maps request paths to merged notifier configuration. It is built
// once and read concurrently afterwards.
type Scopes struct {
	server      domain.NotifierConfig
	locations   []resolvedScope // longest prefix first
	staticHosts map[string]string
}

// LoadScopes reads a YAML scopes file. An empty path yields the server scope only.
func LoadScopes(path string, server domain.NotifierConfig) (*Scopes, error) {
	if strings.TrimSpace(path) == "" {
		return NewScopes(server, nil, nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scopes file: %w", err)
	}
	return ParseScopes(data, server)
}

func ParseScopes(data []byte, server domain.NotifierConfig) (*Scopes, error) {
	var doc scopesDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse scopes: %w", err)
	}
	return NewScopes(server, doc.Locations, doc.StaticHosts)
}

func NewScopes(server domain.NotifierConfig, locations []Location, staticHosts map[string]string) (*Scopes, error) {
	if err := server.Validate(); err != nil {
		return nil, fmt.Errorf("server scope: %w", err)
	}

	s := &Scopes{server: server, staticHosts: staticHosts}
	seen := make(map[string]struct{})
	if err := s.flatten("", server, locations, seen); err != nil {
		return nil, err
	}

	sort.SliceStable(s.locations, func(i, j int) bool {
		return len(s.locations[i].prefix) > len(s.locations[j].prefix)
	})

	return s, nil
}

func (s *Scopes) flatten(parentPrefix string, parent domain.NotifierConfig, locations []Location, seen map[string]struct{}) error {
	for _, loc := range locations {
		prefix := strings.TrimSpace(loc.Prefix)
		if !strings.HasPrefix(prefix, "/") {
			return fmt.Errorf("%w: location prefix %q must start with /", domain.ErrValidation, loc.Prefix)
		}
		if parentPrefix != "" && !strings.HasPrefix(prefix, parentPrefix) {
			return fmt.Errorf("%w: location %q is not nested under %q", domain.ErrValidation, prefix, parentPrefix)
		}
		if _, dup := seen[prefix]; dup {
			return fmt.Errorf("%w: duplicate location %q", domain.ErrValidation, prefix)
		}
		seen[prefix] = struct{}{}

		merged := loc.LogURL.MergeInto(parent)
		if err := merged.Validate(); err != nil {
			return fmt.Errorf("location %q: %w", prefix, err)
		}
		s.locations = append(s.locations, resolvedScope{prefix: prefix, cfg: merged})

		if err := s.flatten(prefix, merged, loc.Locations, seen); err != nil {
			return err
		}
	}
	return nil
}

// Resolve returns the configuration of the longest location prefix matching path.
func (s *Scopes) Resolve(path string) domain.NotifierConfig {
	if s == nil {
		return domain.DefaultNotifierConfig()
	}
	for _, loc := range s.locations {
		if strings.HasPrefix(path, loc.prefix) {
			return loc.cfg
		}
	}
	return s.server
}

// StaticHosts returns host overrides for the resolver.
func (s *Scopes) StaticHosts() map[string]string {
	if s == nil {
		return nil
	}
	return s.staticHosts
}
