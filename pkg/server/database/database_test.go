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
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/i200219/library-management/pkg/assert"
)

func initTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatal(errors.Wrap(err, "opening in-memory database"))
	}

	InitSchema(db)
	if err := Migrate(db); err != nil {
		t.Fatal(errors.Wrap(err, "running migrations"))
	}

	return db
}

func TestInitSchema(t *testing.T) {
	db := initTestDB(t)

	for _, table := range []string{"users", "books", "borrow_records", "reservations", "tokens", "sessions"} {
		if !db.Migrator().HasTable(table) {
			t.Errorf("table %s is missing", table)
		}
	}
}

func TestUniqueActiveBorrowIndex(t *testing.T) {
	db := initTestDB(t)

	book := Book{UUID: "book-uuid", Title: "Operating Systems", TotalCopies: 2, AvailableCopies: 2}
	if err := db.Create(&book).Error; err != nil {
		t.Fatal(errors.Wrap(err, "creating book"))
	}
	user := User{UUID: "user-uuid", FullName: "Test User", Email: ToNullString("user@test.com")}
	if err := db.Create(&user).Error; err != nil {
		t.Fatal(errors.Wrap(err, "creating user"))
	}

	now := time.Now()
	first := BorrowRecord{
		UUID:       "borrow-1",
		UserID:     user.ID,
		BookID:     book.ID,
		BorrowDate: now,
		DueDate:    now.AddDate(0, 0, 7),
		Status:     BorrowStatusBorrowed,
	}
	if err := db.Create(&first).Error; err != nil {
		t.Fatal(errors.Wrap(err, "creating first borrow record"))
	}

	second := BorrowRecord{
		UUID:       "borrow-2",
		UserID:     user.ID,
		BookID:     book.ID,
		BorrowDate: now,
		DueDate:    now.AddDate(0, 0, 7),
		Status:     BorrowStatusBorrowed,
	}
	err := db.Create(&second).Error
	assert.NotEqual(t, err, nil, "second active borrow for the same user and book should violate the unique index")

	// A returned record for the same pair is fine
	returnDate := now
	third := BorrowRecord{
		UUID:       "borrow-3",
		UserID:     user.ID,
		BookID:     book.ID,
		BorrowDate: now.AddDate(0, 0, -14),
		DueDate:    now.AddDate(0, 0, -7),
		ReturnDate: &returnDate,
		Status:     BorrowStatusReturned,
	}
	if err := db.Create(&third).Error; err != nil {
		t.Fatal(errors.Wrap(err, "creating returned borrow record"))
	}
}
