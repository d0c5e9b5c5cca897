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

package apis

// Config carries read-only discovery and synthesis knobs.
// It is passed by value and should be treated as immutable by implementations.
type Config struct {
	// GetterPrefix is the method name prefix of read accessors ("Get" -> GetItems).
	// An empty prefix makes every exported zero-argument, single-result method a getter.
	GetterPrefix string `yaml:"getterPrefix" json:"getterPrefix"`

	// SetterPrefix is the method name prefix of write accessors ("Set" -> SetItems).
	SetterPrefix string `yaml:"setterPrefix" json:"setterPrefix"`

	// IncludeUnexported exposes unexported struct fields as descriptors.
	IncludeUnexported bool `yaml:"includeUnexported" json:"includeUnexported"`

	// MaxEmbedDepth limits how many embedded structs are walked for promoted fields.
	// Acts as a safety guard against pathological nesting.
	MaxEmbedDepth int `yaml:"maxEmbedDepth" json:"maxEmbedDepth"`

	// PreferFields makes struct fields win over a getter/setter method pair of the same name.
	PreferFields bool `yaml:"preferFields" json:"preferFields"`

	// Cache selects whether synthesized accessors are memoized.
	Cache CacheMode `yaml:"cache" json:"cache"`
}
