// Package rules applies per-bundle placement rules to newly opened windows.
//
// Rules are read from a YAML file:
//
//	rules:
//	  - match: "com.example.video*"
//	    maximized: true
//	  - match: "com.example.**"
//	    width: 800
//	    height: 600
//
// The first rule whose pattern matches the bundle id wins.
package rules

import (
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/goccy/go-yaml"

	"github.com/GriffinCanCode/vwhost/internal/shared/types"
)

// Rule sets the initial placement of matching windows
type Rule struct {
	Match     string `yaml:"match" json:"match"`
	Maximized bool   `yaml:"maximized" json:"maximized"`
	Width     int    `yaml:"width" json:"width"`
	Height    int    `yaml:"height" json:"height"`
}

// Size returns the requested size; zero fields mean the default
func (r Rule) Size() types.Size {
	return types.Size{Width: r.Width, Height: r.Height}
}

// Set is an ordered list of rules
type Set struct {
	Rules []Rule `yaml:"rules" json:"rules"`
}

// New builds a set and validates every pattern
func New(rules ...Rule) (*Set, error) {
	s := &Set{Rules: rules}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load reads a rules file. An empty path yields an empty set.
func Load(path string) (*Set, error) {
	if path == "" {
		return &Set{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	return Parse(data)
}

// Parse decodes rules from YAML
func Parse(data []byte) (*Set, error) {
	var s Set
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks patterns and sizes
func (s *Set) Validate() error {
	for i, r := range s.Rules {
		if r.Match == "" {
			return fmt.Errorf("rule %d: match is required", i)
		}
		if !doublestar.ValidatePattern(r.Match) {
			return fmt.Errorf("rule %d: invalid pattern %q", i, r.Match)
		}
		if r.Width < 0 || r.Height < 0 {
			return fmt.Errorf("rule %d: negative size", i)
		}
	}
	return nil
}

// Match returns the first rule matching bundleID
func (s *Set) Match(bundleID string) (Rule, bool) {
	if s == nil {
		return Rule{}, false
	}
	for _, r := range s.Rules {
		if ok, _ := doublestar.Match(r.Match, bundleID); ok {
			return r, true
		}
	}
	return Rule{}, false
}

// Len returns the number of rules
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Rules)
}
