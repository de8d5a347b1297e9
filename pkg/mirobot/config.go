package mirobot

import (
	"encoding/json"
	"os"
)

const DefaultSettingsFile = "mirobot.json"

// Settings holds the persisted session configuration
type Settings struct {
	Port         string `json:"port"`
	HasSlider    bool   `json:"has_slider,omitempty"`
	DefaultSpeed int    `json:"default_speed,omitempty"`
	Tool         Tool   `json:"tool,omitempty"`
}

// LoadSettings loads settings from the default settings file
func LoadSettings() (*Settings, error) {
	return LoadSettingsFrom(DefaultSettingsFile)
}

// LoadSettingsFrom loads settings from a specific file
func LoadSettingsFrom(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Save saves settings to the default settings file
func (s *Settings) Save() error {
	return s.SaveTo(DefaultSettingsFile)
}

// SaveTo saves settings to a specific file
func (s *Settings) SaveTo(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SettingsExist returns true if the default settings file exists
func SettingsExist() bool {
	_, err := os.Stat(DefaultSettingsFile)
	return err == nil
}
