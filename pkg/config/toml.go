package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

func decodeFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	var raw map[string]any
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return raw, nil
}

// LoadEditorConfig loads the global editor scope from a TOML file such as
// config.toml. Options may sit at the document root or under an [editor]
// table; root-level keys win when both set the same option, so a flat
// config and an [editor] section can coexist.
func (s *ConfigStore) LoadEditorConfig(path string) error {
	raw, err := decodeFile(path)
	if err != nil {
		return err
	}

	if editorSection, ok := raw["editor"].(map[string]any); ok {
		for key, val := range editorSection {
			if _, exists := raw[key]; !exists {
				raw[key] = val
			}
		}
	}
	delete(raw, "editor")

	for key, val := range raw {
		if err := s.Set(s.globalScope, key, val); err != nil {
			return fmt.Errorf("applying editor config %q: %w", key, err)
		}
	}
	return nil
}

// LoadEditorConfigIfExists is LoadEditorConfig, but treats a missing file
// as success.
func (s *ConfigStore) LoadEditorConfigIfExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return s.LoadEditorConfig(path)
}

func asTableSlice(v any) []map[string]any {
	switch t := v.(type) {
	case []map[string]any:
		return t
	case []any:
		tables := make([]map[string]any, 0, len(t))
		for _, item := range t {
			if m, ok := item.(map[string]any); ok {
				tables = append(tables, m)
			}
		}
		return tables
	default:
		return nil
	}
}

// languageServerIgnoredKeys are language-server.toml fields that describe
// how to launch the server rather than options it exposes, so they're
// filtered out before being applied as config values.
var languageServerIgnoredKeys = map[string]bool{
	"command":     true,
	"args":        true,
	"timeout":     true,
	"config":      true,
	"environment": true,
}

// LoadLanguagesConfig loads per-language and per-language-server
// configuration from a TOML file such as languages.toml: a [[language]]
// array of tables (each requiring a "name" field, which is not itself a
// config option) and [language-server.NAME] tables (whose launch-related
// fields are filtered out, leaving only actual config options).
func (s *ConfigStore) LoadLanguagesConfig(path string) error {
	raw, err := decodeFile(path)
	if err != nil {
		return err
	}

	for _, lang := range asTableSlice(raw["language"]) {
		name, ok := lang["name"].(string)
		if !ok || name == "" {
			return fmt.Errorf("each [[language]] entry must have a \"name\" field")
		}
		id := s.GetOrCreateLanguage(name)
		scope := s.LanguageScope(id)
		for key, val := range lang {
			if key == "name" {
				continue
			}
			if err := s.Set(scope, key, val); err != nil {
				return fmt.Errorf("applying config for language %q: %w", name, err)
			}
		}
	}

	if servers, ok := raw["language-server"].(map[string]any); ok {
		for serverName, serverValue := range servers {
			serverMap, ok := serverValue.(map[string]any)
			if !ok {
				return fmt.Errorf("language server config for %q must be a table", serverName)
			}
			scope := s.GetOrCreateLanguageServer(serverName)
			for key, val := range serverMap {
				if languageServerIgnoredKeys[key] {
					continue
				}
				if err := s.Set(scope, key, val); err != nil {
					return fmt.Errorf("applying config for language server %q: %w", serverName, err)
				}
			}
		}
	}

	return nil
}

// LoadLanguagesConfigIfExists is LoadLanguagesConfig, but treats a missing
// file as success.
func (s *ConfigStore) LoadLanguagesConfigIfExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return s.LoadLanguagesConfig(path)
}
