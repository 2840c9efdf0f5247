// Package settingsio loads ValidatorSettings and FormatterSettings from
// layered configuration sources: built-in defaults, an optional TOML
// config file discovered by walking up from the target Dockerfile, and
// DOCKFILELINT_*-prefixed environment variables. Explicit overrides such as
// CLI flags can be passed to LoadWithOverrides as a final layer, giving
// flags-then-env-then-file-then-defaults precedence.
package settingsio

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	gotoml "github.com/pelletier/go-toml/v2"

	"github.com/wharflab/dockfilelint/internal/diagnostic"
)

// ConfigFileNames are searched, in priority order, at each directory level
// while discovering a config file.
var ConfigFileNames = []string{".dockfilelint.toml", "dockfilelint.toml"}

// EnvPrefix is the prefix recognized for environment variable overrides.
const EnvPrefix = "DOCKFILELINT_"

// Rule keys with configurable severities.
const (
	RuleDeprecatedMaintainer           = "deprecatedMaintainer"
	RuleDirectiveCasing                = "directiveCasing"
	RuleEmptyContinuationLine          = "emptyContinuationLine"
	RuleInstructionCasing              = "instructionCasing"
	RuleInstructionCmdMultiple         = "instructionCmdMultiple"
	RuleInstructionEntrypointMultiple  = "instructionEntrypointMultiple"
	RuleInstructionHealthcheckMultiple = "instructionHealthcheckMultiple"
	RuleInstructionJSONInSingleQuotes  = "instructionJSONInSingleQuotes"
	RuleInstructionWorkdirRelative     = "instructionWorkdirRelative"
)

// ValidatorSettings maps a rule key to its configured Severity. Keys
// absent from the map fall back to DefaultValidatorSettings' value for
// that key when resolved through Severity.
type ValidatorSettings struct {
	Rules map[string]diagnostic.Severity `koanf:"rules" toml:"rules"`
}

// Severity resolves the effective severity for a rule key, falling back
// to the built-in default when the key is unset in v.
func (v ValidatorSettings) Severity(key string) diagnostic.Severity {
	if v.Rules != nil {
		if s, ok := v.Rules[key]; ok {
			return s
		}
	}
	return DefaultValidatorSettings().Rules[key]
}

// DefaultValidatorSettings returns the built-in defaults: every
// configurable rule key at WARNING.
func DefaultValidatorSettings() ValidatorSettings {
	return ValidatorSettings{Rules: map[string]diagnostic.Severity{
		RuleDeprecatedMaintainer:           diagnostic.SeverityWarning,
		RuleDirectiveCasing:                diagnostic.SeverityWarning,
		RuleEmptyContinuationLine:          diagnostic.SeverityWarning,
		RuleInstructionCasing:              diagnostic.SeverityWarning,
		RuleInstructionCmdMultiple:         diagnostic.SeverityWarning,
		RuleInstructionEntrypointMultiple:  diagnostic.SeverityWarning,
		RuleInstructionHealthcheckMultiple: diagnostic.SeverityWarning,
		RuleInstructionJSONInSingleQuotes:  diagnostic.SeverityWarning,
		RuleInstructionWorkdirRelative:     diagnostic.SeverityWarning,
	}}
}

// FormatterSettings configures the formatter.
type FormatterSettings struct {
	InsertSpaces                bool `koanf:"insert-spaces" toml:"insert-spaces"`
	TabSize                     uint `koanf:"tab-size" toml:"tab-size"`
	IgnoreMultilineInstructions bool `koanf:"ignore-multiline-instructions" toml:"ignore-multiline-instructions"`
}

// DefaultFormatterSettings returns a tab-indented, 4-space-equivalent
// default, matching common Dockerfile formatting conventions.
func DefaultFormatterSettings() FormatterSettings {
	return FormatterSettings{InsertSpaces: false, TabSize: 4, IgnoreMultilineInstructions: false}
}

// IndentUnit returns the literal text inserted for one indentation level.
func (f FormatterSettings) IndentUnit() string {
	if f.InsertSpaces {
		return strings.Repeat(" ", int(f.TabSize))
	}
	return "\t"
}

// Config is the complete on-disk/env-overridable configuration.
type Config struct {
	Validator ValidatorSettings `koanf:"validator" toml:"validator"`
	Formatter FormatterSettings `koanf:"formatter" toml:"formatter"`
	// ConfigFile records which file (if any) contributed to this Config.
	ConfigFile string `koanf:"-" toml:"-"`
}

// MarshalTOML renders c as a TOML document whose keys round-trip through
// Load, suitable for seeding a new config file.
func (c *Config) MarshalTOML() ([]byte, error) {
	return gotoml.Marshal(c)
}

// Default returns the built-in configuration with no file or environment
// overrides applied.
func Default() *Config {
	return &Config{Validator: DefaultValidatorSettings(), Formatter: DefaultFormatterSettings()}
}

// Load discovers the closest config file for targetPath, then layers
// environment variables on top, returning the resolved Config.
func Load(targetPath string) (*Config, error) {
	return loadFrom(Discover(targetPath), nil)
}

// LoadFromFile loads configuration from an explicit file path, skipping
// discovery.
func LoadFromFile(path string) (*Config, error) {
	return loadFrom(path, nil)
}

// LoadWithOverrides is Load plus a final layer of explicit overrides
// (typically CLI flags), keyed by koanf path, e.g. "formatter.tab-size".
func LoadWithOverrides(targetPath string, overrides map[string]any) (*Config, error) {
	return loadFrom(Discover(targetPath), overrides)
}

func loadFrom(configPath string, overrides map[string]any) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, err
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, err
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(k, v string) (string, any) {
			return envKeyTransform(k), v
		},
	}), nil); err != nil {
		return nil, err
	}

	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	cfg.ConfigFile = configPath
	return cfg, nil
}

// envKeyTransform converts DOCKFILELINT_FORMATTER_TAB_SIZE into
// formatter.tab-size, and DOCKFILELINT_VALIDATOR_RULES_WORKDIR_RELATIVE
// style keys are left for the caller to set directly on the rules map
// (environment overrides target Formatter fields; Validator rule-level
// overrides are expected via config file, which preserves hyphenation).
func envKeyTransform(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "_", ".")
	for pattern, replacement := range knownHyphenatedKeys {
		s = strings.ReplaceAll(s, pattern, replacement)
	}
	return s
}

var knownHyphenatedKeys = map[string]string{
	"insert.spaces":                 "insert-spaces",
	"tab.size":                      "tab-size",
	"ignore.multiline.instructions": "ignore-multiline-instructions",
}

// Discover walks up from targetPath's directory looking for a config
// file, returning "" if none is found.
func Discover(targetPath string) string {
	absPath, err := filepath.Abs(targetPath)
	if err != nil {
		return ""
	}
	dir := filepath.Dir(absPath)
	for {
		for _, name := range ConfigFileNames {
			candidate := filepath.Join(dir, name)
			if fileExists(candidate) {
				return candidate
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
