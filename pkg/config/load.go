package config

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/flowbench/pkg/errors"
	"github.com/matzehuels/flowbench/pkg/render"
	"github.com/matzehuels/flowbench/pkg/style"
)

// Find returns the first of FileNames present in dir, or "" if none is.
func Find(dir string) string {
	for _, name := range FileNames {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// Load reads the config at path, applies defaults and validates it.
// The format follows the extension: .toml, or .yaml and .yml.
// An empty path probes the working directory and falls back to Default.
func Load(path string) (*Config, error) {
	if path == "" {
		path = Find(".")
		if path == "" {
			return Default(), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	c := &Config{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		md, err := toml.Decode(string(data), c)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(c); err != nil && !stderrors.Is(err, io.EOF) {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unsupported config format %q", filepath.Ext(path))
	}

	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("backend", func(fl validator.FieldLevel) bool {
		name := fl.Field().String()
		for _, b := range render.Backends {
			if b == name {
				return true
			}
		}
		return false
	})
	return v
}

// Validate checks field constraints and the style override keys.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if stderrors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return errors.New(errors.ErrCodeInvalidConfig, "%s: failed %q check (value %v)",
				fe.Namespace(), fe.Tag(), fe.Value())
		}
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "validate config")
	}

	for format, types := range c.Styles {
		if _, ok := style.ParseFormat(format); !ok {
			return errors.New(errors.ErrCodeInvalidConfig, "styles: unknown format %q", format)
		}
		for typ, s := range types {
			if err := validate.Struct(s); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidConfig, err, "styles.%s.%s", format, typ)
			}
		}
	}
	return nil
}

// StyleResolver returns a resolver that applies the configured overrides.
func (c *Config) StyleResolver() *style.Resolver {
	if len(c.Styles) == 0 {
		return style.Default()
	}
	overrides := make(style.Overrides, len(c.Styles))
	for format, types := range c.Styles {
		f, ok := style.ParseFormat(format)
		if !ok {
			continue
		}
		m := make(map[string]style.Style, len(types))
		for typ, s := range types {
			m[typ] = style.Style{Shape: s.Shape, Fill: s.Fill, Stroke: s.Stroke, StrokeWidth: s.StrokeWidth}
		}
		overrides[f] = m
	}
	return style.NewResolver(overrides)
}
