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

package table

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"dirpx.dev/acx/apis"
)

// KeyFunc derives a discriminant key from a member descriptor.
type KeyFunc[K comparable] func(d apis.Descriptor) (K, error)

// LastDigit keys a member by the decimal digit that ends its name,
// so "List3" maps to 3.
func LastDigit(d apis.Descriptor) (int, error) {
	r, _ := utf8.DecodeLastRuneInString(d.Name)
	if r < '0' || r > '9' {
		return 0, fmt.Errorf("%w: %s does not end with a digit", ErrKeyExtraction, d)
	}
	return int(r - '0'), nil
}

// Suffix keys a member by the decimal number that ends its name,
// so "Bucket12" maps to 12.
func Suffix(d apis.Descriptor) (int, error) {
	i := len(d.Name)
	for i > 0 && d.Name[i-1] >= '0' && d.Name[i-1] <= '9' {
		i--
	}
	if i == len(d.Name) {
		return 0, fmt.Errorf("%w: %s has no numeric suffix", ErrKeyExtraction, d)
	}
	n, err := strconv.Atoi(d.Name[i:])
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrKeyExtraction, d, err)
	}
	return n, nil
}

// ByName keys a member by its canonical name.
func ByName(d apis.Descriptor) (string, error) {
	return d.Name, nil
}
