/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"dirpx.dev/acx/apis"
)

var (
	// ErrUnknownFormat is returned when a configuration format cannot be determined.
	ErrUnknownFormat = errors.New("acx(config): unknown configuration format")
	// ErrPrefixClash is returned when getter and setter prefixes are identical.
	ErrPrefixClash = errors.New("acx(config): getter and setter prefixes must differ")
	// ErrEmptySetterPrefix is returned when the setter prefix is empty.
	ErrEmptySetterPrefix = errors.New("acx(config): setter prefix must not be empty")
)

// Format is a configuration file encoding.
type Format string

const (
	// FormatYAML decodes with gopkg.in/yaml.v3.
	FormatYAML Format = "yaml"
	// FormatJSON decodes with github.com/goccy/go-json.
	FormatJSON Format = "json"
)

// FormatOf infers the Format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, path)
	}
}

// Load decodes data over DefaultConfig, so absent keys keep their defaults.
func Load(data []byte, format Format) (apis.Config, error) {
	cfg := DefaultConfig()

	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &cfg)
	case FormatJSON:
		err = json.Unmarshal(data, &cfg)
	default:
		return apis.Config{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return apis.Config{}, fmt.Errorf("acx(config): decode %s: %w", format, err)
	}

	if err := Validate(cfg); err != nil {
		return apis.Config{}, err
	}
	if cfg.MaxEmbedDepth < 0 {
		cfg.MaxEmbedDepth = DefaultMaxEmbedDepth
	}
	return cfg, nil
}

// LoadFile reads path and decodes it according to its extension.
func LoadFile(path string) (apis.Config, error) {
	format, err := FormatOf(path)
	if err != nil {
		return apis.Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return apis.Config{}, fmt.Errorf("acx(config): read %s: %w", path, err)
	}
	return Load(data, format)
}

// Validate reports configurations that can never discover a setter.
func Validate(cfg apis.Config) error {
	if cfg.SetterPrefix == "" {
		return ErrEmptySetterPrefix
	}
	if cfg.GetterPrefix == cfg.SetterPrefix {
		return ErrPrefixClash
	}
	return nil
}
