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

package config

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/i200219/library-management/pkg/assert"
)

func TestNewDefaults(t *testing.T) {
	c, err := New(Params{})
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating config"))
	}

	assert.Equal(t, c.AppEnv, AppEnvProduction, "AppEnv mismatch")
	assert.Equal(t, c.Port, "3001", "Port mismatch")
	assert.Equal(t, c.WebURL, "http://localhost:3001", "WebURL mismatch")
	assert.Equal(t, c.LogLevel, "info", "LogLevel mismatch")
	assert.Equal(t, c.IsProd(), true, "IsProd mismatch")
}

func TestNewParamsOverrideEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")

	c, err := New(Params{Port: "8080"})
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating config"))
	}

	assert.Equal(t, c.Port, "8080", "explicit param should win over env")
	assert.Equal(t, c.LogLevel, "debug", "env should win over default")
}

func TestNewInvalidWebURL(t *testing.T) {
	_, err := New(Params{WebURL: "not a url"})
	assert.Equal(t, errors.Is(err, ErrWebURLInvalid), true, "expected ErrWebURLInvalid")
}

func TestNewMissingDB(t *testing.T) {
	t.Setenv("DBPath", "")
	t.Setenv("DATABASE_URL", "")

	orig := DefaultDBPath
	DefaultDBPath = ""
	defer func() { DefaultDBPath = orig }()

	_, err := New(Params{})
	assert.Equal(t, errors.Is(err, ErrDBMissingPath), true, "expected ErrDBMissingPath")
}
