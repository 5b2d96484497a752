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

func TestListUsers(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	a := app.NewTest(db)
	server := MustNewServer(t, &a)
	defer server.Close()

	admin := testutils.SetupAdminData(db, "Admin", "admin@example.com", "pass1234")
	user := testutils.SetupUserData(db, "Alice Kim", "alice@example.com", "pass1234")

	t.Run("as admin", func(t *testing.T) {
		req := testutils.MakeReq(server.URL, "GET", "/api/v1/admin/users", "")
		res := testutils.HTTPAuthDo(t, db, req, admin)

		assert.StatusCodeEquals(t, res, http.StatusOK, "")

		var payload []presenters.User
		if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
			t.Fatal(errors.Wrap(err, "decoding payload"))
		}

		assert.Equal(t, len(payload), 2, "result count mismatch")
	})

	t.Run("as regular user", func(t *testing.T) {
		req := testutils.MakeReq(server.URL, "GET", "/api/v1/admin/users", "")
		res := testutils.HTTPAuthDo(t, db, req, user)

		assert.StatusCodeEquals(t, res, http.StatusForbidden, "")
	})
}

func TestUpdateUser(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	a := app.NewTest(db)
	server := MustNewServer(t, &a)
	defer server.Close()

	admin := testutils.SetupAdminData(db, "Admin", "admin@example.com", "pass1234")

	t.Run("approve pending user", func(t *testing.T) {
		user := testutils.SetupUserDataWithRole(db, "Alice Kim", "alice@example.com", "pass1234", database.UserRoleUser, database.UserStatusPending)

		dat := fmt.Sprintf(`{"status": %q}`, database.UserStatusApproved)
		req := testutils.MakeReq(server.URL, "PATCH", fmt.Sprintf("/api/v1/admin/users/%s", user.UUID), dat)
		res := testutils.HTTPAuthDo(t, db, req, admin)

		assert.StatusCodeEquals(t, res, http.StatusOK, "")

		var record database.User
		testutils.MustExec(t, db.Where("id = ?", user.ID).First(&record), "finding user")
		assert.Equal(t, record.Status, database.UserStatusApproved, "status mismatch")
		assert.Equal(t, record.Role, database.UserRoleUser, "role should be unchanged")
	})

	t.Run("promote to admin", func(t *testing.T) {
		user := testutils.SetupUserData(db, "Bob Lee", "bob@example.com", "pass1234")

		dat := fmt.Sprintf(`{"role": %q}`, database.UserRoleAdmin)
		req := testutils.MakeReq(server.URL, "PATCH", fmt.Sprintf("/api/v1/admin/users/%s", user.UUID), dat)
		res := testutils.HTTPAuthDo(t, db, req, admin)

		assert.StatusCodeEquals(t, res, http.StatusOK, "")

		var record database.User
		testutils.MustExec(t, db.Where("id = ?", user.ID).First(&record), "finding user")
		assert.Equal(t, record.Role, database.UserRoleAdmin, "role mismatch")
	})
}

func TestRemoveUser(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	a := app.NewTest(db)
	server := MustNewServer(t, &a)
	defer server.Close()

	admin := testutils.SetupAdminData(db, "Admin", "admin@example.com", "pass1234")

	t.Run("without active borrows", func(t *testing.T) {
		user := testutils.SetupUserData(db, "Alice Kim", "alice@example.com", "pass1234")

		req := testutils.MakeReq(server.URL, "DELETE", fmt.Sprintf("/api/v1/admin/users/%s", user.UUID), "")
		res := testutils.HTTPAuthDo(t, db, req, admin)

		assert.StatusCodeEquals(t, res, http.StatusNoContent, "")

		var count int64
		testutils.MustExec(t, db.Model(&database.User{}).Where("id = ?", user.ID).Count(&count), "counting users")
		assert.Equal(t, count, int64(0), "user should be removed")
	})

	t.Run("with active borrows", func(t *testing.T) {
		user := testutils.SetupUserData(db, "Bob Lee", "bob@example.com", "pass1234")
		book := testutils.SetupBookData(db, "The Go Programming Language", 2, 1)

		record := database.BorrowRecord{
			UUID:       testutils.MustUUID(t),
			UserID:     user.ID,
			BookID:     book.ID,
			BorrowDate: a.Clock.Now(),
			DueDate:    a.Clock.Now().Add(app.BorrowPeriod),
			Status:     database.BorrowStatusBorrowed,
		}
		testutils.MustExec(t, db.Create(&record), "preparing borrow record")

		req := testutils.MakeReq(server.URL, "DELETE", fmt.Sprintf("/api/v1/admin/users/%s", user.UUID), "")
		res := testutils.HTTPAuthDo(t, db, req, admin)

		assert.StatusCodeEquals(t, res, http.StatusConflict, "")

		var count int64
		testutils.MustExec(t, db.Model(&database.User{}).Where("id = ?", user.ID).Count(&count), "counting users")
		assert.Equal(t, count, int64(1), "user should remain")
	})
}

func TestGetStats(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	a := app.NewTest(db)
	server := MustNewServer(t, &a)
	defer server.Close()

	admin := testutils.SetupAdminData(db, "Admin", "admin@example.com", "pass1234")
	user := testutils.SetupUserData(db, "Alice Kim", "alice@example.com", "pass1234")
	book := testutils.SetupBookData(db, "The Go Programming Language", 2, 1)

	record := database.BorrowRecord{
		UUID:       testutils.MustUUID(t),
		UserID:     user.ID,
		BookID:     book.ID,
		BorrowDate: a.Clock.Now(),
		DueDate:    a.Clock.Now().Add(app.BorrowPeriod),
		Status:     database.BorrowStatusBorrowed,
	}
	testutils.MustExec(t, db.Create(&record), "preparing borrow record")

	req := testutils.MakeReq(server.URL, "GET", "/api/v1/admin/stats", "")
	res := testutils.HTTPAuthDo(t, db, req, admin)

	assert.StatusCodeEquals(t, res, http.StatusOK, "")

	var payload app.Stats
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		t.Fatal(errors.Wrap(err, "decoding payload"))
	}

	assert.Equal(t, payload.TotalBooks, int64(1), "total books mismatch")
	assert.Equal(t, payload.TotalUsers, int64(2), "total users mismatch")
	assert.Equal(t, payload.ActiveBorrows, int64(1), "active borrows mismatch")
}

func TestExpireReservations(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	a := app.NewTest(db)
	server := MustNewServer(t, &a)
	defer server.Close()

	admin := testutils.SetupAdminData(db, "Admin", "admin@example.com", "pass1234")
	user := testutils.SetupUserData(db, "Alice Kim", "alice@example.com", "pass1234")
	book := testutils.SetupBookData(db, "The Go Programming Language", 1, 0)

	now := a.Clock.Now()
	reservation := database.Reservation{
		UUID:             testutils.MustUUID(t),
		UserID:           user.ID,
		BookID:           book.ID,
		ReservationDate:  now.Add(-2 * app.ReservationPeriod),
		ExpiryDate:       now.Add(-app.ReservationPeriod),
		PriorityPosition: 1,
		Status:           database.ReservationStatusActive,
	}
	testutils.MustExec(t, db.Create(&reservation), "preparing reservation")

	req := testutils.MakeReq(server.URL, "POST", "/api/v1/admin/reservations/expire", "")
	res := testutils.HTTPAuthDo(t, db, req, admin)

	assert.StatusCodeEquals(t, res, http.StatusOK, "")

	var payload struct {
		Expired int64 `json:"expired"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		t.Fatal(errors.Wrap(err, "decoding payload"))
	}

	assert.Equal(t, payload.Expired, int64(1), "expired count mismatch")

	var record database.Reservation
	testutils.MustExec(t, db.Where("id = ?", reservation.ID).First(&record), "finding reservation")
	assert.Equal(t, record.Status, database.ReservationStatusExpired, "status mismatch")
}
