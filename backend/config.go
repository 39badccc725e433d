package backend

import (
	"bytes"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/ffi-bindgen/errors"
)

// Config holds per-target settings that shape the generated code without
// affecting the native component.
type Config struct {
	PackageName string `yaml:"package_name"`
	CdylibName  string `yaml:"cdylib_name"`
}

// MergeWith returns c with unset fields filled from other.
func (c Config) MergeWith(other Config) Config {
	if c.PackageName == "" {
		c.PackageName = other.PackageName
	}
	if c.CdylibName == "" {
		c.CdylibName = other.CdylibName
	}
	return c
}

func (c Config) IsZero() bool {
	return c == Config{}
}

// FileConfig is the bindgen.yaml document:
//
//	bindings:
//	  kotlin:
//	    package_name: com.example.math
//	  go:
//	    cdylib_name: math
type FileConfig struct {
	Bindings map[string]Config `yaml:"bindings"`
}

// For returns the settings for target; missing targets yield a zero Config.
func (f FileConfig) For(target string) Config {
	return f.Bindings[target]
}

// ParseConfig decodes a bindgen.yaml document. Empty input is a valid,
// empty configuration.
func ParseConfig(data []byte) (FileConfig, error) {
	var fc FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && err != io.EOF {
		return FileConfig{}, errors.ParseFailed("binding config", err)
	}
	return fc, nil
}

// LoadConfig reads a bindgen.yaml file.
func LoadConfig(path string) (FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, errors.Load("read "+path, err)
	}
	return ParseConfig(data)
}
