// Package config loads approximation plans: which instances of the
// multiplier run their approximate script, which outputs are dropped, and
// how the result is evaluated.
package config

import (
	"os"
	"runtime"

	"github.com/PolyhedraZK/ApproxSwitchCompiler/component"
	"github.com/PolyhedraZK/ApproxSwitchCompiler/multiplier"
	"github.com/PolyhedraZK/ApproxSwitchCompiler/utils"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

type Evaluation struct {
	// pairs drawn per operand band
	Samples int   `yaml:"samples"`
	Seed    int64 `yaml:"seed"`
	Workers int   `yaml:"workers"`
}

type Plan struct {
	Approximate []string            `yaml:"approximate"`
	Drops       map[string][]string `yaml:"drops"`
	Evaluation  Evaluation          `yaml:"evaluation"`
}

const DefaultSamples = 200

// Load reads and validates the plan at path. Environment variables in the
// path are expanded.
func Load(path string) (*Plan, error) {
	d, err := os.ReadFile(os.ExpandEnv(path))
	if err != nil {
		return nil, err
	}
	p, err := Parse(d)
	if err != nil {
		return nil, errors.WithMessage(err, path)
	}
	return p, nil
}

func Parse(d []byte) (*Plan, error) {
	var p Plan
	if err := yaml.UnmarshalStrict(d, &p); err != nil {
		return nil, err
	}
	p.setDefaults()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Plan) setDefaults() {
	if p.Evaluation.Samples == 0 {
		p.Evaluation.Samples = DefaultSamples
	}
	if p.Evaluation.Seed == 0 {
		p.Evaluation.Seed = 1
	}
	if p.Evaluation.Workers == 0 {
		p.Evaluation.Workers = runtime.NumCPU()
	}
}

// Validate checks the plan on its own; ids and tags are only resolved by Apply.
func (p *Plan) Validate() error {
	seen := make(map[string]bool, len(p.Approximate))
	for _, id := range p.Approximate {
		if seen[id] {
			return errors.Errorf("approximate: %s listed twice", id)
		}
		seen[id] = true
	}
	for id, tags := range p.Drops {
		dup := make(map[string]bool, len(tags))
		for _, tag := range tags {
			if tag == component.PrimaryTag {
				return errors.Wrapf(component.ErrInvalidArgument, "drops: %s.%s cannot be dropped", id, tag)
			}
			if dup[tag] {
				return errors.Errorf("drops: %s.%s listed twice", id, tag)
			}
			dup[tag] = true
		}
	}
	if p.Evaluation.Samples < 0 || p.Evaluation.Workers < 0 {
		return errors.New("evaluation: samples and workers must not be negative")
	}
	return nil
}

// Apply converts the listed instances first, then drops outputs, both in
// sorted id order. m is left partially modified on error.
func (p *Plan) Apply(m *multiplier.Multiplier) error {
	ids := append([]string(nil), p.Approximate...)
	utils.SortIDs(ids)
	for _, id := range ids {
		if err := m.ConvertMode(id); err != nil {
			return errors.WithMessage(err, "approximate")
		}
	}
	ids = ids[:0]
	for id := range p.Drops {
		ids = append(ids, id)
	}
	utils.SortIDs(ids)
	for _, id := range ids {
		for _, tag := range p.Drops[id] {
			if err := m.DropOutput(id, tag); err != nil {
				return errors.WithMessage(err, "drops")
			}
		}
	}
	return nil
}

// Build returns a fresh multiplier with the plan applied.
func (p *Plan) Build() (*multiplier.Multiplier, error) {
	m, err := multiplier.New()
	if err != nil {
		return nil, err
	}
	if err := p.Apply(m); err != nil {
		return nil, err
	}
	return m, nil
}
