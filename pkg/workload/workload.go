// Package workload generates synthetic two-field record streams with known
// distribution shapes for exercising the estimation engine.
package workload

import (
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"
)

// Distribution names accepted by Case.
const (
	Uniform    = "uniform"
	Skewed     = "skewed"
	Sequential = "sequential"
	Constant   = "constant"
	Duplicates = "duplicates"
)

// Case describes one synthetic stream. ValueRange bounds the generated
// field values where the distribution uses it; Seed makes the stream
// reproducible.
type Case struct {
	Name         string `yaml:"name" json:"name"`
	Tuples       int    `yaml:"tuples" json:"tuples"`
	Distribution string `yaml:"distribution" json:"distribution"`
	ValueRange   int    `yaml:"value_range" json:"value_range,omitempty"`
	Seed         int64  `yaml:"seed" json:"seed,omitempty"`
}

// Suite is an ordered list of cases.
type Suite struct {
	Cases []Case `yaml:"cases" json:"cases"`
}

// LoadSuite reads a YAML suite file.
func LoadSuite(path string) (*Suite, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read suite: %w", err)
	}
	var s Suite
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse suite %s: %w", path, err)
	}
	if len(s.Cases) == 0 {
		return nil, fmt.Errorf("suite %s has no cases", path)
	}
	return &s, nil
}

// DefaultSuite covers the classic estimator stress cases: a uniform base
// case, a heavy-tail skew, tiny and large cardinalities, a constant worst
// case, strictly sequential values, and a duplicate-heavy stream.
func DefaultSuite() *Suite {
	return &Suite{Cases: []Case{
		{Name: "uniform", Tuples: 1000000, Distribution: Uniform, ValueRange: 100000, Seed: 1},
		{Name: "skewed", Tuples: 1000000, Distribution: Skewed, ValueRange: 100000, Seed: 2},
		{Name: "small-cardinality", Tuples: 100, Distribution: Uniform, ValueRange: 50, Seed: 3},
		{Name: "large-cardinality", Tuples: 2000000, Distribution: Uniform, ValueRange: 1000000, Seed: 4},
		{Name: "constant", Tuples: 1000000, Distribution: Constant, Seed: 5},
		{Name: "sequential", Tuples: 1000000, Distribution: Sequential, Seed: 6},
		{Name: "many-duplicates", Tuples: 1000000, Distribution: Duplicates, ValueRange: 1000, Seed: 7},
	}}
}

// Generator returns a deterministic tuple source for the case. The same
// seed always yields the same stream.
func (c Case) Generator() (func() (int32, int32), error) {
	rng := rand.New(rand.NewSource(c.Seed))

	switch c.Distribution {
	case Uniform:
		vr := c.ValueRange
		if vr <= 0 {
			vr = 100000
		}
		return func() (int32, int32) {
			return int32(rng.Intn(vr + 1)), int32(rng.Intn(vr + 1))
		}, nil

	case Skewed:
		// Heavy-tail first field with a small uniform offset on the
		// second, so duplicates cluster near the low end of the range.
		vr := c.ValueRange
		if vr <= 0 {
			vr = 100000
		}
		return func() (int32, int32) {
			v := int32(int(rng.ExpFloat64()*float64(vr)/10.0) % vr)
			return v, v + int32(rng.Intn(1001))
		}, nil

	case Sequential:
		var next int32
		return func() (int32, int32) {
			a, b := next, next+1
			next += 2
			return a, b
		}, nil

	case Constant:
		return func() (int32, int32) {
			return 42, 42
		}, nil

	case Duplicates:
		// Uniform over a deliberately small range.
		vr := c.ValueRange
		if vr <= 0 {
			vr = 1000
		}
		return func() (int32, int32) {
			return int32(rng.Intn(vr + 1)), int32(rng.Intn(vr + 1))
		}, nil

	default:
		return nil, fmt.Errorf("unknown distribution %q", c.Distribution)
	}
}
