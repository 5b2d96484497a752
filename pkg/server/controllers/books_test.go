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

package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/pkg/errors"

	"github.com/i200219/library-management/pkg/assert"
	"github.com/i200219/library-management/pkg/server/app"
	"github.com/i200219/library-management/pkg/server/database"
	"github.com/i200219/library-management/pkg/server/presenters"
	"github.com/i200219/library-management/pkg/server/testutils"
)

func TestGetBooks(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	a := app.NewTest(db)
	server := MustNewServer(t, &a)
	defer server.Close()

	testutils.SetupBookData(db, "The Go Programming Language", 3, 3)
	testutils.SetupBookData(db, "Clean Architecture", 2, 2)

	req := testutils.MakeReq(server.URL, "GET", "/api/v1/books", "")
	res := testutils.HTTPDo(t, req)

	assert.StatusCodeEquals(t, res, http.StatusOK, "")

	var payload []presenters.Book
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		t.Fatal(errors.Wrap(err, "decoding payload"))
	}

	assert.Equal(t, len(payload), 2, "result count mismatch")
}

func TestGetBooks_Search(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	a := app.NewTest(db)
	server := MustNewServer(t, &a)
	defer server.Close()

	testutils.SetupBookData(db, "The Go Programming Language", 3, 3)
	testutils.SetupBookData(db, "Clean Architecture", 2, 2)

	req := testutils.MakeReq(server.URL, "GET", "/api/v1/books?search=Architecture", "")
	res := testutils.HTTPDo(t, req)

	assert.StatusCodeEquals(t, res, http.StatusOK, "")

	var payload []presenters.Book
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		t.Fatal(errors.Wrap(err, "decoding payload"))
	}

	assert.Equal(t, len(payload), 1, "result count mismatch")
	assert.Equal(t, payload[0].Title, "Clean Architecture", "title mismatch")
}

func TestGetBook(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	a := app.NewTest(db)
	server := MustNewServer(t, &a)
	defer server.Close()

	book := testutils.SetupBookData(db, "The Go Programming Language", 3, 3)

	t.Run("existing", func(t *testing.T) {
		req := testutils.MakeReq(server.URL, "GET", fmt.Sprintf("/api/v1/books/%s", book.UUID), "")
		res := testutils.HTTPDo(t, req)

		assert.StatusCodeEquals(t, res, http.StatusOK, "")

		var payload presenters.Book
		if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
			t.Fatal(errors.Wrap(err, "decoding payload"))
		}

		assert.Equal(t, payload.UUID, book.UUID, "uuid mismatch")
		assert.Equal(t, payload.Title, "The Go Programming Language", "title mismatch")
		assert.Equal(t, payload.TotalCopies, 3, "total copies mismatch")
	})

	t.Run("nonexistent", func(t *testing.T) {
		req := testutils.MakeReq(server.URL, "GET", fmt.Sprintf("/api/v1/books/%s", testutils.MustUUID(t)), "")
		res := testutils.HTTPDo(t, req)

		assert.StatusCodeEquals(t, res, http.StatusNotFound, "")
	})
}

func TestGetBookAvailability(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	a := app.NewTest(db)
	server := MustNewServer(t, &a)
	defer server.Close()

	book := testutils.SetupBookData(db, "The Go Programming Language", 3, 2)

	req := testutils.MakeReq(server.URL, "GET", fmt.Sprintf("/api/v1/books/%s/availability", book.UUID), "")
	res := testutils.HTTPDo(t, req)

	assert.StatusCodeEquals(t, res, http.StatusOK, "")

	var payload app.Availability
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		t.Fatal(errors.Wrap(err, "decoding payload"))
	}

	assert.Equal(t, payload.IsAvailable, true, "availability mismatch")
	assert.Equal(t, payload.Reason, "2 copies available for borrowing", "reason mismatch")
	assert.Equal(t, payload.Details.TotalCopies, 3, "total copies mismatch")
	assert.Equal(t, payload.Details.AvailableCopies, 2, "available copies mismatch")
}

func TestCreateBook(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	a := app.NewTest(db)
	server := MustNewServer(t, &a)
	defer server.Close()

	admin := testutils.SetupAdminData(db, "Admin", "admin@example.com", "pass1234")
	user := testutils.SetupUserData(db, "Alice Kim", "alice@example.com", "pass1234")

	dat := `{"title": "Dune", "author": "Frank Herbert", "genre": "Science Fiction", "total_copies": 4}`

	t.Run("as admin", func(t *testing.T) {
		req := testutils.MakeReq(server.URL, "POST", "/api/v1/books", dat)
		res := testutils.HTTPAuthDo(t, db, req, admin)

		assert.StatusCodeEquals(t, res, http.StatusCreated, "")

		var payload presenters.Book
		if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
			t.Fatal(errors.Wrap(err, "decoding payload"))
		}

		assert.Equal(t, payload.Title, "Dune", "title mismatch")
		assert.Equal(t, payload.TotalCopies, 4, "total copies mismatch")
		assert.Equal(t, payload.AvailableCopies, 4, "available copies mismatch")
	})

	t.Run("as regular user", func(t *testing.T) {
		req := testutils.MakeReq(server.URL, "POST", "/api/v1/books", dat)
		res := testutils.HTTPAuthDo(t, db, req, user)

		assert.StatusCodeEquals(t, res, http.StatusForbidden, "")
	})

	t.Run("as guest", func(t *testing.T) {
		req := testutils.MakeReq(server.URL, "POST", "/api/v1/books", dat)
		res := testutils.HTTPDo(t, req)

		assert.StatusCodeEquals(t, res, http.StatusUnauthorized, "")
	})
}

func TestUpdateBook(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	a := app.NewTest(db)
	server := MustNewServer(t, &a)
	defer server.Close()

	admin := testutils.SetupAdminData(db, "Admin", "admin@example.com", "pass1234")
	book := testutils.SetupBookData(db, "The Go Programming Language", 3, 3)

	dat := `{"title": "The Go Programming Language, 2nd Edition", "total_copies": 5}`
	req := testutils.MakeReq(server.URL, "PATCH", fmt.Sprintf("/api/v1/books/%s", book.UUID), dat)
	res := testutils.HTTPAuthDo(t, db, req, admin)

	assert.StatusCodeEquals(t, res, http.StatusOK, "")

	var record database.Book
	testutils.MustExec(t, db.Where("id = ?", book.ID).First(&record), "finding book")
	assert.Equal(t, record.Title, "The Go Programming Language, 2nd Edition", "title mismatch")
	assert.Equal(t, record.TotalCopies, 5, "total copies mismatch")
	assert.Equal(t, record.AvailableCopies, 5, "available copies mismatch")
}

func TestDeleteBook(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	a := app.NewTest(db)
	server := MustNewServer(t, &a)
	defer server.Close()

	admin := testutils.SetupAdminData(db, "Admin", "admin@example.com", "pass1234")

	t.Run("without active borrows", func(t *testing.T) {
		book := testutils.SetupBookData(db, "Dune", 2, 2)

		req := testutils.MakeReq(server.URL, "DELETE", fmt.Sprintf("/api/v1/books/%s", book.UUID), "")
		res := testutils.HTTPAuthDo(t, db, req, admin)

		assert.StatusCodeEquals(t, res, http.StatusNoContent, "")

		var count int64
		testutils.MustExec(t, db.Model(&database.Book{}).Where("id = ?", book.ID).Count(&count), "counting books")
		assert.Equal(t, count, int64(0), "book should be deleted")
	})

	t.Run("with active borrows", func(t *testing.T) {
		book := testutils.SetupBookData(db, "Neuromancer", 2, 1)
		user := testutils.SetupUserData(db, "Alice Kim", "alice@example.com", "pass1234")

		record := database.BorrowRecord{
			UUID:       testutils.MustUUID(t),
			UserID:     user.ID,
			BookID:     book.ID,
			BorrowDate: a.Clock.Now(),
			DueDate:    a.Clock.Now().Add(app.BorrowPeriod),
			Status:     database.BorrowStatusBorrowed,
		}
		testutils.MustExec(t, db.Create(&record), "preparing borrow record")

		req := testutils.MakeReq(server.URL, "DELETE", fmt.Sprintf("/api/v1/books/%s", book.UUID), "")
		res := testutils.HTTPAuthDo(t, db, req, admin)

		assert.StatusCodeEquals(t, res, http.StatusConflict, "")

		var count int64
		testutils.MustExec(t, db.Model(&database.Book{}).Where("id = ?", book.ID).Count(&count), "counting books")
		assert.Equal(t, count, int64(1), "book should remain")
	})
}
