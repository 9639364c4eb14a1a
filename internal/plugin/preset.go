// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package plugin

import (
	"fmt"
	"math"
	"os"

	"github.com/invopop/jsonschema"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"

	"github.com/holomush/lvhost/internal/param"
)

// Preset is a saved set of parameter values for one plugin.
type Preset struct {
	Plugin      string         `yaml:"plugin" json:"plugin" jsonschema:"minLength=1,maxLength=64,pattern=^[a-z]([a-z0-9_-]*[a-z0-9])?$"`
	Type        string         `yaml:"type" json:"type" jsonschema:"enum=input,enum=actor,enum=morph"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Params      map[string]any `yaml:"params,omitempty" json:"params,omitempty"`
}

// JSONSchemaExtend restricts parameter values to scalars.
func (Preset) JSONSchemaExtend(s *jsonschema.Schema) {
	params, ok := s.Properties.Get("params")
	if !ok {
		return
	}
	params.AdditionalProperties = &jsonschema.Schema{
		AnyOf: []*jsonschema.Schema{
			{Type: "string"},
			{Type: "number"},
			{Type: "boolean"},
		},
	}
}

// ParsePreset parses and validates YAML preset data.
func ParsePreset(data []byte) (*Preset, error) {
	if err := ValidatePresetSchema(data); err != nil {
		return nil, oops.Code("PRESET_INVALID").
			With("reason", FormatSchemaError(err)).
			Wrap(fmt.Errorf("%w: %w", ErrInvalidPreset, err))
	}

	var p Preset
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, oops.Code("PRESET_INVALID").Wrap(fmt.Errorf("%w: %w", ErrInvalidPreset, err))
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// LoadPreset reads and parses a preset file.
func LoadPreset(path string) (*Preset, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is chosen by the operator
	if err != nil {
		return nil, oops.Code("PRESET_INVALID").With("path", path).Wrap(err)
	}
	p, err := ParsePreset(data)
	if err != nil {
		return nil, oops.With("path", path).Wrap(err)
	}
	return p, nil
}

// Validate checks the preset fields that the schema cannot express.
func (p *Preset) Validate() error {
	if !namePattern.MatchString(p.Plugin) || len(p.Plugin) > maxNameLength {
		return oops.Code("PRESET_INVALID").With("plugin", p.Plugin).Wrapf(ErrInvalidPreset, "invalid plugin name")
	}
	if _, err := ParseType(p.Type); err != nil {
		return oops.Code("PRESET_INVALID").With("type", p.Type).Wrap(fmt.Errorf("%w: %w", ErrInvalidPreset, err))
	}
	return nil
}

// ApplyPreset sets every parameter named in p. Presets may be applied only to
// the plugin they name, after Realize has declared its parameters. Every value
// is checked before any is stored, so on error the parameters keep their
// previous values and no event is queued.
func (i *Instance) ApplyPreset(p *Preset) error {
	if i.unloaded {
		return i.errUnloaded("apply_preset")
	}
	if p.Plugin != i.info.Name || p.Type != i.info.Type.String() {
		return oops.Code("PRESET_MISMATCH").
			With("plugin", i.info.Name).
			With("preset_plugin", p.Plugin).
			With("preset_type", p.Type).
			Wrap(ErrPresetMismatch)
	}

	values := make(map[string]param.Value, len(p.Params))
	for name, raw := range p.Params {
		e, ok := i.params.Entry(name)
		if !ok {
			return oops.Code("PARAM_NOT_FOUND").With("plugin", i.info.Name).With("param", name).Wrap(param.ErrNotFound)
		}
		v, err := presetValue(e, raw)
		if err != nil {
			return err
		}
		values[name] = v
	}

	if err := i.params.SetMany(values); err != nil {
		return oops.With("plugin", i.info.Name).Wrap(err)
	}

	i.logger.Debug("preset applied", "params", len(values))
	return nil
}

// presetValue converts a decoded YAML scalar to a value for e.
func presetValue(e *param.Entry, raw any) (param.Value, error) {
	switch e.Type() {
	case param.TypeString:
		if s, ok := raw.(string); ok {
			return param.String(s), nil
		}
	case param.TypeEnum:
		if s, ok := raw.(string); ok {
			return param.Enum(s), nil
		}
	case param.TypeInt:
		switch v := raw.(type) {
		case int:
			return param.Int(v), nil
		case bool:
			if v {
				return param.Int(1), nil
			}
			return param.Int(0), nil
		case float64:
			if v == math.Trunc(v) && math.Abs(v) <= math.MaxInt32 {
				return param.Int(int(v)), nil
			}
		}
	case param.TypeFloat:
		switch v := raw.(type) {
		case int:
			return param.Float(float64(v)), nil
		case float64:
			return param.Float(v), nil
		}
	}
	return param.Value{}, oops.Code("PARAM_TYPE_MISMATCH").
		With("param", e.Name()).
		With("want", e.Type().String()).
		With("got", fmt.Sprintf("%T", raw)).
		Wrap(param.ErrTypeMismatch)
}
