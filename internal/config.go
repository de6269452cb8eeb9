package internal

import (
	"fmt"
	"io/ioutil"
	"os"

	"gopkg.in/yaml.v2"
)

// Config carries the optional driver settings read from opslang.yaml.
// A missing file yields the zero value.
type Config struct {
	// Trace enables debug logging of tokens, emitted instructions and
	// machine steps.
	Trace bool `yaml:"trace"`
	// Quiet suppresses the interactive prompt before each input.
	Quiet bool `yaml:"quiet"`
}

func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := ioutil.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %v", path, err)
	}
	return cfg, nil
}
