/* Copyright 2025 Libris Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package prompt

import (
	"strings"
	"testing"

	"github.com/i200219/library-management/pkg/assert"
)

func TestFormatQuestion(t *testing.T) {
	assert.Equal(t, FormatQuestion("Delete the book?", false), "Delete the book? (y/N)", "pessimistic question mismatch")
	assert.Equal(t, FormatQuestion("Continue?", true), "Continue? (Y/n)", "optimistic question mismatch")
}

func TestReadYesNo(t *testing.T) {
	testCases := []struct {
		input      string
		optimistic bool
		expected   bool
	}{
		{input: "y\n", optimistic: false, expected: true},
		{input: "Y\n", optimistic: false, expected: true},
		{input: "n\n", optimistic: false, expected: false},
		{input: "\n", optimistic: false, expected: false},
		{input: "\n", optimistic: true, expected: true},
		{input: "n\n", optimistic: true, expected: false},
		{input: "garbage\n", optimistic: true, expected: false},
	}

	for _, tc := range testCases {
		got, err := ReadYesNo(strings.NewReader(tc.input), tc.optimistic)
		if err != nil {
			t.Fatalf("reading input %q: %v", tc.input, err)
		}

		assert.Equal(t, got, tc.expected, "answer mismatch for input "+tc.input)
	}
}
