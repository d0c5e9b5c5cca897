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

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/acx/apis"
	"dirpx.dev/acx/config"
)

func TestLoad_YAML_OverridesDefaults(t *testing.T) {
	data := []byte(`
getterPrefix: ""
setterPrefix: With
cache: none
preferFields: true
`)
	cfg, err := config.Load(data, config.FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, "", cfg.GetterPrefix)
	assert.Equal(t, "With", cfg.SetterPrefix)
	assert.Equal(t, apis.CacheNone, cfg.Cache)
	assert.True(t, cfg.PreferFields)
	assert.Equal(t, config.DefaultMaxEmbedDepth, cfg.MaxEmbedDepth, "absent keys keep defaults")
}

func TestLoad_JSON(t *testing.T) {
	data := []byte(`{"includeUnexported": true, "maxEmbedDepth": 2, "cache": "Memoize"}`)
	cfg, err := config.Load(data, config.FormatJSON)
	require.NoError(t, err)

	assert.True(t, cfg.IncludeUnexported)
	assert.Equal(t, 2, cfg.MaxEmbedDepth)
	assert.Equal(t, apis.CacheMemoize, cfg.Cache)
	assert.Equal(t, config.DefaultGetterPrefix, cfg.GetterPrefix)
}

func TestLoad_Errors(t *testing.T) {
	_, err := config.Load([]byte(`cache: lru`), config.FormatYAML)
	assert.Error(t, err, "unknown cache mode")

	_, err = config.Load([]byte(`{"setterPrefix": "Get"}`), config.FormatJSON)
	assert.ErrorIs(t, err, config.ErrPrefixClash)

	_, err = config.Load([]byte(`setterPrefix: ""`), config.FormatYAML)
	assert.ErrorIs(t, err, config.ErrEmptySetterPrefix)

	_, err = config.Load([]byte(`{}`), config.Format("toml"))
	assert.ErrorIs(t, err, config.ErrUnknownFormat)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	yml := filepath.Join(dir, "acx.yml")
	require.NoError(t, os.WriteFile(yml, []byte("maxEmbedDepth: 1\n"), 0o600))
	cfg, err := config.LoadFile(yml)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.MaxEmbedDepth)

	js := filepath.Join(dir, "acx.json")
	require.NoError(t, os.WriteFile(js, []byte(`{"preferFields": true}`), 0o600))
	cfg, err = config.LoadFile(js)
	require.NoError(t, err)
	assert.True(t, cfg.PreferFields)

	_, err = config.LoadFile(filepath.Join(dir, "acx.ini"))
	assert.ErrorIs(t, err, config.ErrUnknownFormat)

	_, err = config.LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
