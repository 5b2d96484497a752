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
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/i200219/library-management/pkg/server/database/migrations"
	"github.com/i200219/library-management/pkg/server/log"
)

type migrationFile struct {
	filename string
	version  int
}

// validateMigrationFilename checks if filename follows format: NNN-description.sql
func validateMigrationFilename(name string) error {
	if !strings.HasSuffix(name, ".sql") {
		return errors.Errorf("invalid migration filename: must end with .sql")
	}

	name = strings.TrimSuffix(name, ".sql")
	parts := strings.SplitN(name, "-", 2)
	if len(parts) != 2 {
		return errors.Errorf("invalid migration filename: must be NNN-description.sql")
	}

	version, description := parts[0], parts[1]

	if len(version) != 3 {
		return errors.Errorf("invalid migration filename: version must be 3 digits, got %s", version)
	}
	for _, c := range version {
		if c < '0' || c > '9' {
			return errors.Errorf("invalid migration filename: version must be numeric, got %s", version)
		}
	}

	if description == "" {
		return errors.Errorf("invalid migration filename: description is required")
	}

	return nil
}

// Migrate runs the migrations using the embedded migration files
func Migrate(db *gorm.DB) error {
	return migrate(db, migrations.Files)
}

// getMigrationFiles reads, validates, and sorts migration files
func getMigrationFiles(fsys fs.FS) ([]migrationFile, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, errors.Wrap(err, "reading migration directory")
	}

	var files []migrationFile
	seen := make(map[int]string)
	for _, e := range entries {
		name := e.Name()

		if err := validateMigrationFilename(name); err != nil {
			return nil, err
		}

		var v int
		fmt.Sscanf(name, "%d", &v)

		if existing, found := seen[v]; found {
			return nil, errors.Errorf("duplicate migration version %d: %s and %s", v, existing, name)
		}
		seen[v] = name

		files = append(files, migrationFile{
			filename: name,
			version:  v,
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].version < files[j].version
	})

	return files, nil
}

// migrate runs pending migrations from the provided filesystem
func migrate(db *gorm.DB, fsys fs.FS) error {
	if err := db.Exec(`
			CREATE TABLE IF NOT EXISTS schema_migrations (
					version INTEGER PRIMARY KEY,
					applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`).Error; err != nil {
		return errors.Wrap(err, "creating schema_migrations table")
	}

	files, err := getMigrationFiles(fsys)
	if err != nil {
		return errors.Wrap(err, "getting migration files")
	}

	var currentVersion int
	row := db.Raw("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Row()
	if err := row.Scan(&currentVersion); err != nil {
		return errors.Wrap(err, "getting current migration version")
	}

	for _, f := range files {
		if f.version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, f.filename)
		if err != nil {
			return errors.Wrapf(err, "reading migration %s", f.filename)
		}

		tx := db.Begin()
		if err := tx.Exec(string(content)).Error; err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "running migration %s", f.filename)
		}
		if err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", f.version).Error; err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "recording migration %s", f.filename)
		}
		if err := tx.Commit().Error; err != nil {
			return errors.Wrapf(err, "committing migration %s", f.filename)
		}

		log.WithFields(log.Fields{
			"version":  f.version,
			"filename": f.filename,
		}).Info("applied migration")
	}

	return nil
}
