// Package config loads the optional YAML file that tunes the cost model and
// data layout.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/raymyers/isacc/pkg/backend"
	"github.com/raymyers/isacc/pkg/isa"
	"github.com/raymyers/isacc/pkg/lower"
)

// Filename is the config file picked up from the working directory when no
// --config flag is given.
const Filename = "isacc.yml"

const maxConfigSize = 1024 * 1024

// Config is the on-disk configuration. Zero values mean "use the default".
type Config struct {
	ElementSize int                       `yaml:"element_size"`
	JumpTable   string                    `yaml:"jump_table"`
	ISA         map[string]WidthsOverride `yaml:"isa"`

	// overrides keyed by parsed ID, filled by Validate
	widths map[isa.ID]WidthsOverride
}

// WidthsOverride replaces selected fields of an ISA's default widths.
// Pointers distinguish unset from zero.
type WidthsOverride struct {
	OpcodeBits       *int  `yaml:"opcode_bits"`
	OperandBits      *int  `yaml:"operand_bits"`
	InstructionBytes *int  `yaml:"instruction_bytes"`
	ImplicitAccess   *bool `yaml:"implicit_access"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		ElementSize: backend.DefaultLayout().ElementSize,
		JumpTable:   lower.DefaultJumpTable,
	}
}

// Load reads and validates the file at path.
func Load(path string) (Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Config{}, err
	}
	if info.Size() > maxConfigSize {
		return Config{}, fmt.Errorf("config %s: file too large (%d bytes)", path, info.Size())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOptional loads path if it exists and returns the defaults otherwise.
func LoadOptional(path string) (Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Parse decodes YAML on top of the defaults. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and resolves ISA names.
func (c *Config) Validate() error {
	if c.ElementSize == 0 {
		c.ElementSize = backend.DefaultLayout().ElementSize
	}
	if c.ElementSize < 0 {
		return fmt.Errorf("element_size must be positive, got %d", c.ElementSize)
	}
	if c.JumpTable == "" {
		c.JumpTable = lower.DefaultJumpTable
	}

	c.widths = make(map[isa.ID]WidthsOverride, len(c.ISA))
	for name, o := range c.ISA {
		id, err := isa.Parse(name)
		if err != nil {
			return err
		}
		for field, v := range map[string]*int{
			"opcode_bits":       o.OpcodeBits,
			"operand_bits":      o.OperandBits,
			"instruction_bytes": o.InstructionBytes,
		} {
			if v != nil && *v < 0 {
				return fmt.Errorf("isa %s: %s must not be negative, got %d", name, field, *v)
			}
		}
		if _, dup := c.widths[id]; dup {
			return fmt.Errorf("isa %s: configured more than once", id)
		}
		c.widths[id] = o
	}
	return nil
}

// Widths returns the cost model widths for id with overrides applied.
func (c Config) Widths(id isa.ID) isa.Widths {
	w := isa.DefaultWidths(id)
	o, ok := c.widths[id]
	if !ok {
		return w
	}
	if o.OpcodeBits != nil {
		w.OpcodeBits = *o.OpcodeBits
	}
	if o.OperandBits != nil {
		w.OperandBits = *o.OperandBits
	}
	if o.InstructionBytes != nil {
		w.InstructionBytes = *o.InstructionBytes
	}
	if o.ImplicitAccess != nil {
		w.ImplicitAccess = *o.ImplicitAccess
	}
	return w
}

// Layout returns the data layout for the back-ends.
func (c Config) Layout() backend.Layout {
	return backend.Layout{ElementSize: c.ElementSize}
}

// Options returns the compiler options this configuration implies for id.
func (c Config) Options(id isa.ID) []lower.Option {
	return []lower.Option{
		lower.WithWidths(c.Widths(id)),
		lower.WithJumpTable(c.JumpTable),
	}
}
