// Copyright 2025 Certen Protocol
//
// YAML-driven defaults for reader.VerificationContext. The core
// verification pipeline never depends on this package; it exists so a
// deployment can source its tunable knobs from a config file instead
// of constructing a VerificationContext by hand.

package ppconfig

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/certen-io/proofpack/pkg/reader"
)

// Duration wraps time.Duration so it can be written as "24h" or "90s"
// in YAML instead of a raw nanosecond count.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// SignatureRequirement mirrors reader.SignatureRequirement as a YAML
// string ("at-least-one", "all", "skip") rather than an int, so config
// files stay readable.
type SignatureRequirement string

const (
	SignatureRequirementAtLeastOne SignatureRequirement = "at-least-one"
	SignatureRequirementAll        SignatureRequirement = "all"
	SignatureRequirementSkip       SignatureRequirement = "skip"
)

// Resolve converts the YAML form into reader.SignatureRequirement. An
// empty or unrecognized value defaults to AtLeastOne.
func (s SignatureRequirement) Resolve() reader.SignatureRequirement {
	switch s {
	case SignatureRequirementAll:
		return reader.SignatureRequireAll
	case SignatureRequirementSkip:
		return reader.SignatureRequireSkip
	default:
		return reader.SignatureRequireAtLeastOne
	}
}

// Config holds the subset of reader.VerificationContext that is safe
// to source from a file: the knobs with no function-typed fields.
// HasValidNonce, AttestationFactory, and Resolver are always supplied
// by the caller in code.
type Config struct {
	Reader ReaderSettings `yaml:"reader"`
}

// ReaderSettings configures reader.VerificationContext's static
// fields.
type ReaderSettings struct {
	MaxAge               Duration             `yaml:"max_age"`
	SignatureRequirement SignatureRequirement `yaml:"signature_requirement"`
	StrictSignatureShape bool                 `yaml:"strict_signature_shape"`
	AllowedAlgorithms    []string             `yaml:"allowed_algorithms"`
}

// Apply copies MaxAge (when positive), SignatureRequirement, and
// StrictSignatureShape onto vctx, leaving HasValidNonce,
// AttestationFactory, Resolver, and Logger untouched.
// AllowedAlgorithms is parsed but not applied: VerificationContext has
// no algorithm allow-list field.
func (c Config) Apply(vctx reader.VerificationContext) reader.VerificationContext {
	if c.Reader.MaxAge > 0 {
		vctx.MaxAge = c.Reader.MaxAge.Duration()
	}
	vctx.SignatureRequirement = c.Reader.SignatureRequirement.Resolve()
	vctx.StrictSignatureShape = c.Reader.StrictSignatureShape
	return vctx
}

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-(.*?))?\}`)

func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		varName := groups[1]
		defaultValue := ""
		if len(groups) >= 4 {
			defaultValue = groups[3]
		}
		if value := os.Getenv(varName); value != "" {
			return value
		}
		return defaultValue
	})
}

// Load reads a YAML config file from path, substituting ${VAR} and
// ${VAR:-default} references against the process environment before
// parsing.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ppconfig: read %s: %w", path, err)
	}
	expanded := substituteEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("ppconfig: parse %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadInto reads path and applies it on top of base, returning the
// merged VerificationContext.
func LoadInto(path string, base reader.VerificationContext) (reader.VerificationContext, error) {
	cfg, err := Load(path)
	if err != nil {
		return base, err
	}
	return cfg.Apply(base), nil
}
