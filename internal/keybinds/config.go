package keybinds

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the user's keybinding overrides.
// Each section maps an action to a comma-separated list of keys.
type Config struct {
	Global  map[string]string `yaml:"global,omitempty"`
	Results map[string]string `yaml:"results,omitempty"`
	Search  map[string]string `yaml:"search,omitempty"`
	Form    map[string]string `yaml:"form,omitempty"`
	Charts  map[string]string `yaml:"charts,omitempty"`
	Modal   map[string]string `yaml:"modal,omitempty"`
	Help    map[string]string `yaml:"help,omitempty"`
}

// sections maps contexts to the config sections
func (c *Config) sections() map[Context]map[string]string {
	return map[Context]map[string]string{
		ContextGlobal:  c.Global,
		ContextResults: c.Results,
		ContextSearch:  c.Search,
		ContextForm:    c.Form,
		ContextCharts:  c.Charts,
		ContextModal:   c.Modal,
		ContextHelp:    c.Help,
	}
}

// LoadConfig loads keybinding overrides from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid keybinds file format: %w", err)
	}

	return &config, nil
}

// SaveConfig saves keybinding overrides to a YAML file
func SaveConfig(config *Config, path string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ParseKeys splits a comma-separated key list. A lone "," binds the comma key.
func ParseKeys(list string) []string {
	if strings.TrimSpace(list) == "," {
		return []string{","}
	}
	var keys []string
	for _, k := range strings.Split(list, ",") {
		if k == " " {
			keys = append(keys, k)
			continue
		}
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// ApplyConfig applies user overrides to a registry.
// The keys of each overridden action replace its default keys in that context.
func ApplyConfig(registry *Registry, config *Config) error {
	for context, section := range config.sections() {
		for actionStr, keyList := range section {
			action := Action(actionStr)
			if err := ValidateAction(actionStr); err != nil {
				return fmt.Errorf("%s.%s: %w", context, actionStr, err)
			}
			keys := ParseKeys(keyList)
			for _, key := range keys {
				if err := ValidateKey(key); err != nil {
					return fmt.Errorf("%s.%s: %w", context, actionStr, err)
				}
			}
			registry.Unbind(context, action)
			registry.RegisterMultiple(context, keys, action)
		}
	}
	return nil
}

// LoadOrDefault loads user overrides if configPath exists, otherwise returns the default registry
func LoadOrDefault(configPath string) (*Registry, error) {
	registry := NewDefaultRegistry()
	if configPath == "" {
		return registry, nil
	}

	if _, err := os.Stat(configPath); err == nil {
		config, err := LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load keybinds file: %w", err)
		}
		if err := ApplyConfig(registry, config); err != nil {
			return nil, fmt.Errorf("failed to apply keybinds config: %w", err)
		}
	}
	// If config doesn't exist, that's fine - use defaults

	return registry, nil
}

// ExportDefaults exports the default keybindings as a config
func ExportDefaults() *Config {
	registry := NewDefaultRegistry()
	config := &Config{}
	sections := map[Context]*map[string]string{
		ContextGlobal:  &config.Global,
		ContextResults: &config.Results,
		ContextSearch:  &config.Search,
		ContextForm:    &config.Form,
		ContextCharts:  &config.Charts,
		ContextModal:   &config.Modal,
		ContextHelp:    &config.Help,
	}

	for context, section := range sections {
		grouped := make(map[string][]string)
		for _, b := range registry.ListBindings(context) {
			grouped[string(b.Action)] = append(grouped[string(b.Action)], b.Key)
		}
		if len(grouped) == 0 {
			continue
		}
		*section = make(map[string]string, len(grouped))
		for action, keys := range grouped {
			(*section)[action] = strings.Join(keys, ",")
		}
	}
	return config
}
