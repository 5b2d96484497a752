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

package database

import (
	"testing"
	"testing/fstest"

	"github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/i200219/library-management/pkg/assert"
)

func TestValidateMigrationFilename(t *testing.T) {
	testCases := []struct {
		name  string
		valid bool
	}{
		{name: "001-initial.sql", valid: true},
		{name: "123-add-index.sql", valid: true},
		{name: "001-initial", valid: false},
		{name: "1-initial.sql", valid: false},
		{name: "abc-initial.sql", valid: false},
		{name: "001-.sql", valid: false},
		{name: "001.sql", valid: false},
	}

	for _, tc := range testCases {
		err := validateMigrationFilename(tc.name)
		assert.Equal(t, err == nil, tc.valid, "validation mismatch for "+tc.name)
	}
}

func TestGetMigrationFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"002-second.sql": {Data: []byte("SELECT 1;")},
		"001-first.sql":  {Data: []byte("SELECT 1;")},
		"010-tenth.sql":  {Data: []byte("SELECT 1;")},
	}

	files, err := getMigrationFiles(fsys)
	if err != nil {
		t.Fatal(errors.Wrap(err, "getting migration files"))
	}

	assert.Equal(t, len(files), 3, "file count mismatch")
	assert.Equal(t, files[0].version, 1, "first version mismatch")
	assert.Equal(t, files[1].version, 2, "second version mismatch")
	assert.Equal(t, files[2].version, 10, "third version mismatch")
}

func TestGetMigrationFilesDuplicateVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"001-first.sql": {Data: []byte("SELECT 1;")},
		"001-other.sql": {Data: []byte("SELECT 1;")},
	}

	_, err := getMigrationFiles(fsys)
	assert.NotEqual(t, err, nil, "expected duplicate version error")
}

func TestMigrate(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatal(errors.Wrap(err, "opening in-memory database"))
	}

	fsys := fstest.MapFS{
		"001-create-table.sql": {Data: []byte("CREATE TABLE migration_probe (id INTEGER PRIMARY KEY);")},
		"002-add-column.sql":   {Data: []byte("ALTER TABLE migration_probe ADD COLUMN label TEXT;")},
	}

	if err := migrate(db, fsys); err != nil {
		t.Fatal(errors.Wrap(err, "running migrations"))
	}

	// Running again should be a no-op
	if err := migrate(db, fsys); err != nil {
		t.Fatal(errors.Wrap(err, "re-running migrations"))
	}

	var version int
	row := db.Raw("SELECT MAX(version) FROM schema_migrations").Row()
	if err := row.Scan(&version); err != nil {
		t.Fatal(errors.Wrap(err, "reading schema version"))
	}

	assert.Equal(t, version, 2, "schema version mismatch")
}
