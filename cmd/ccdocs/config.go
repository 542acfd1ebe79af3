package main

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/chrisboden/ccdocs"
	"gopkg.in/yaml.v3"
)

// LoadConfig returns the default configuration overlaid with the YAML file
// at path. Environment variables in the file are expanded. An empty path
// yields the defaults; unknown keys are rejected.
func LoadConfig(path string) (*ccdocs.Config, error) {
	cfg := ccdocs.DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ccdocs.WrapErrorf(err, ccdocs.EINVALID, "failed to read config file %s", path)
	}

	dec := yaml.NewDecoder(strings.NewReader(os.ExpandEnv(string(data))))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, ccdocs.WrapErrorf(err, ccdocs.EINVALID, "failed to parse config file %s", path)
	}
	return cfg, nil
}
