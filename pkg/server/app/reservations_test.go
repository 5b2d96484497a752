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

package app

import (
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/i200219/library-management/pkg/assert"
	"github.com/i200219/library-management/pkg/clock"
	"github.com/i200219/library-management/pkg/server/database"
	"github.com/i200219/library-management/pkg/server/mailer"
	"github.com/i200219/library-management/pkg/server/testutils"
)

func TestCreateReservation(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		user := testutils.SetupUserData(db, "Alice Kim", "alice@example.com", "pass1234")
		book := testutils.SetupBookData(db, "The Go Programming Language", 1, 0)

		a := NewTest(db)
		c := clock.NewMock()
		now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		c.SetNow(now)
		a.Clock = c

		reservation, err := a.CreateReservation(user, book.UUID)
		if err != nil {
			t.Fatal(errors.Wrap(err, "executing"))
		}

		assert.Equal(t, reservation.Status, database.ReservationStatusActive, "status mismatch")
		assert.Equal(t, reservation.PriorityPosition, 1, "position mismatch")
		assert.Equal(t, reservation.ExpiryDate, now.Add(ReservationPeriod), "expiry mismatch")
	})

	t.Run("queue positions are ticket numbers", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		alice := testutils.SetupUserData(db, "Alice Kim", "alice@example.com", "pass1234")
		bob := testutils.SetupUserData(db, "Bob Ross", "bob@example.com", "pass1234")
		carol := testutils.SetupUserData(db, "Carol Chan", "carol@example.com", "pass1234")
		book := testutils.SetupBookData(db, "The Go Programming Language", 1, 0)

		a := NewTest(db)
		first, err := a.CreateReservation(alice, book.UUID)
		if err != nil {
			t.Fatal(errors.Wrap(err, "reserving"))
		}
		second, err := a.CreateReservation(bob, book.UUID)
		if err != nil {
			t.Fatal(errors.Wrap(err, "reserving"))
		}

		assert.Equal(t, first.PriorityPosition, 1, "first position mismatch")
		assert.Equal(t, second.PriorityPosition, 2, "second position mismatch")

		// Cancelling the head of the queue does not renumber the rest
		if _, err := a.CancelReservation(alice, first.UUID); err != nil {
			t.Fatal(errors.Wrap(err, "cancelling"))
		}

		third, err := a.CreateReservation(carol, book.UUID)
		if err != nil {
			t.Fatal(errors.Wrap(err, "reserving"))
		}

		assert.Equal(t, third.PriorityPosition, 2, "third position mismatch")

		var bobRecord database.Reservation
		testutils.MustExec(t, db.Where("id = ?", second.ID).First(&bobRecord), "finding reservation")
		assert.Equal(t, bobRecord.PriorityPosition, 2, "bob position mismatch")
	})

	t.Run("book available", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		user := testutils.SetupUserData(db, "Alice Kim", "alice@example.com", "pass1234")
		book := testutils.SetupBookData(db, "The Go Programming Language", 1, 1)

		a := NewTest(db)
		_, err := a.CreateReservation(user, book.UUID)

		assert.Equal(t, err, ErrBookAvailable, "error mismatch")
	})

	t.Run("duplicate reservation", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		user := testutils.SetupUserData(db, "Alice Kim", "alice@example.com", "pass1234")
		book := testutils.SetupBookData(db, "The Go Programming Language", 1, 0)

		a := NewTest(db)
		if _, err := a.CreateReservation(user, book.UUID); err != nil {
			t.Fatal(errors.Wrap(err, "reserving"))
		}

		_, err := a.CreateReservation(user, book.UUID)
		assert.Equal(t, err, ErrDuplicateReservation, "error mismatch")
	})

	t.Run("holder of the book", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		alice := testutils.SetupUserData(db, "Alice Kim", "alice@example.com", "pass1234")
		book := testutils.SetupBookData(db, "The Go Programming Language", 1, 1)

		a := NewTest(db)
		if _, err := a.BorrowBook(alice, book.UUID); err != nil {
			t.Fatal(errors.Wrap(err, "borrowing"))
		}

		_, err := a.CreateReservation(alice, book.UUID)
		assert.Equal(t, err, ErrAlreadyBorrowed, "error mismatch")
	})

	t.Run("pending account", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		user := testutils.SetupUserDataWithRole(db, "Alice Kim", "alice@example.com", "pass1234", database.UserRoleUser, database.UserStatusPending)
		book := testutils.SetupBookData(db, "The Go Programming Language", 1, 0)

		a := NewTest(db)
		_, err := a.CreateReservation(user, book.UUID)

		assert.Equal(t, err, ErrNotEligible, "error mismatch")
	})
}

func TestCancelReservation(t *testing.T) {
	t.Run("own reservation", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		user := testutils.SetupUserData(db, "Alice Kim", "alice@example.com", "pass1234")
		book := testutils.SetupBookData(db, "The Go Programming Language", 1, 0)

		a := NewTest(db)
		reservation, err := a.CreateReservation(user, book.UUID)
		if err != nil {
			t.Fatal(errors.Wrap(err, "reserving"))
		}

		cancelled, err := a.CancelReservation(user, reservation.UUID)
		if err != nil {
			t.Fatal(errors.Wrap(err, "executing"))
		}

		assert.Equal(t, cancelled.Status, database.ReservationStatusCancelled, "status mismatch")
	})

	t.Run("somebody else's reservation", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		alice := testutils.SetupUserData(db, "Alice Kim", "alice@example.com", "pass1234")
		bob := testutils.SetupUserData(db, "Bob Ross", "bob@example.com", "pass1234")
		book := testutils.SetupBookData(db, "The Go Programming Language", 1, 0)

		a := NewTest(db)
		reservation, err := a.CreateReservation(alice, book.UUID)
		if err != nil {
			t.Fatal(errors.Wrap(err, "reserving"))
		}

		_, err = a.CancelReservation(bob, reservation.UUID)
		assert.Equal(t, err, ErrReservationNotOwned, "error mismatch")
	})

	t.Run("admin cancels any reservation", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		alice := testutils.SetupUserData(db, "Alice Kim", "alice@example.com", "pass1234")
		admin := testutils.SetupAdminData(db, "Ada Min", "admin@example.com", "pass1234")
		book := testutils.SetupBookData(db, "The Go Programming Language", 1, 0)

		a := NewTest(db)
		reservation, err := a.CreateReservation(alice, book.UUID)
		if err != nil {
			t.Fatal(errors.Wrap(err, "reserving"))
		}

		cancelled, err := a.CancelReservation(admin, reservation.UUID)
		if err != nil {
			t.Fatal(errors.Wrap(err, "executing"))
		}

		assert.Equal(t, cancelled.Status, database.ReservationStatusCancelled, "status mismatch")
	})

	t.Run("terminal reservation", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		user := testutils.SetupUserData(db, "Alice Kim", "alice@example.com", "pass1234")
		book := testutils.SetupBookData(db, "The Go Programming Language", 1, 0)

		a := NewTest(db)
		reservation, err := a.CreateReservation(user, book.UUID)
		if err != nil {
			t.Fatal(errors.Wrap(err, "reserving"))
		}
		if _, err := a.CancelReservation(user, reservation.UUID); err != nil {
			t.Fatal(errors.Wrap(err, "cancelling"))
		}

		_, err = a.CancelReservation(user, reservation.UUID)
		assert.Equal(t, err, ErrReservationNotActive, "error mismatch")
	})
}

func TestFulfillReservation(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		user := testutils.SetupUserData(db, "Alice Kim", "alice@example.com", "pass1234")
		book := testutils.SetupBookData(db, "The Go Programming Language", 1, 0)

		a := NewTest(db)
		mockBackend := &testutils.MockEmailbackendImplementation{}
		a.EmailBackend = mockBackend

		reservation, err := a.CreateReservation(user, book.UUID)
		if err != nil {
			t.Fatal(errors.Wrap(err, "reserving"))
		}

		fulfilled, err := a.FulfillReservation(reservation.UUID)
		if err != nil {
			t.Fatal(errors.Wrap(err, "executing"))
		}

		assert.Equal(t, fulfilled.Status, database.ReservationStatusFulfilled, "status mismatch")

		assert.Equal(t, len(mockBackend.Emails), 1, "email count mismatch")
		assert.Equal(t, mockBackend.Emails[0].TemplateType, mailer.EmailTypeReservationReady, "email type mismatch")
		assert.DeepEqual(t, mockBackend.Emails[0].To, []string{"alice@example.com"}, "email recipient mismatch")
	})

	t.Run("terminal reservation", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		user := testutils.SetupUserData(db, "Alice Kim", "alice@example.com", "pass1234")
		book := testutils.SetupBookData(db, "The Go Programming Language", 1, 0)

		a := NewTest(db)
		reservation, err := a.CreateReservation(user, book.UUID)
		if err != nil {
			t.Fatal(errors.Wrap(err, "reserving"))
		}
		if _, err := a.FulfillReservation(reservation.UUID); err != nil {
			t.Fatal(errors.Wrap(err, "fulfilling"))
		}

		_, err = a.FulfillReservation(reservation.UUID)
		assert.Equal(t, err, ErrReservationNotActive, "error mismatch")
	})

	t.Run("nonexistent reservation", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		a := NewTest(db)
		_, err := a.FulfillReservation("3da808b9-5924-4c75-8b53-e467e4050f24")

		assert.Equal(t, err, ErrReservationNotFound, "error mismatch")
	})
}

func TestReservationExpiry(t *testing.T) {
	t.Run("reads do not lapse an overdue slot", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		user := testutils.SetupUserData(db, "Alice Kim", "alice@example.com", "pass1234")
		book := testutils.SetupBookData(db, "The Go Programming Language", 1, 0)

		a := NewTest(db)
		c := clock.NewMock()
		now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		c.SetNow(now)
		a.Clock = c

		reservation, err := a.CreateReservation(user, book.UUID)
		if err != nil {
			t.Fatal(errors.Wrap(err, "reserving"))
		}

		c.SetNow(now.Add(8 * 24 * time.Hour))

		got, err := a.GetReservationByUUID(reservation.UUID)
		if err != nil {
			t.Fatal(errors.Wrap(err, "executing"))
		}

		assert.Equal(t, got.Status, database.ReservationStatusActive, "status mismatch")
	})

	t.Run("overdue slot can still be cancelled", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		user := testutils.SetupUserData(db, "Alice Kim", "alice@example.com", "pass1234")
		book := testutils.SetupBookData(db, "The Go Programming Language", 1, 0)

		a := NewTest(db)
		c := clock.NewMock()
		now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		c.SetNow(now)
		a.Clock = c

		reservation, err := a.CreateReservation(user, book.UUID)
		if err != nil {
			t.Fatal(errors.Wrap(err, "reserving"))
		}

		c.SetNow(now.Add(8 * 24 * time.Hour))

		got, err := a.CancelReservation(user, reservation.UUID)
		if err != nil {
			t.Fatal(errors.Wrap(err, "cancelling"))
		}

		assert.Equal(t, got.Status, database.ReservationStatusCancelled, "status mismatch")
	})

	t.Run("swept slot cannot be fulfilled", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		user := testutils.SetupUserData(db, "Alice Kim", "alice@example.com", "pass1234")
		book := testutils.SetupBookData(db, "The Go Programming Language", 1, 0)

		a := NewTest(db)
		c := clock.NewMock()
		now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		c.SetNow(now)
		a.Clock = c

		reservation, err := a.CreateReservation(user, book.UUID)
		if err != nil {
			t.Fatal(errors.Wrap(err, "reserving"))
		}

		c.SetNow(now.Add(8 * 24 * time.Hour))

		if _, err := a.ExpireOverdueReservations(); err != nil {
			t.Fatal(errors.Wrap(err, "sweeping"))
		}

		_, err = a.FulfillReservation(reservation.UUID)
		assert.Equal(t, err, ErrReservationNotActive, "error mismatch")
	})

	t.Run("overdue slot still counts toward positions", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		alice := testutils.SetupUserData(db, "Alice Kim", "alice@example.com", "pass1234")
		bob := testutils.SetupUserData(db, "Bob Ross", "bob@example.com", "pass1234")
		book := testutils.SetupBookData(db, "The Go Programming Language", 1, 0)

		a := NewTest(db)
		c := clock.NewMock()
		now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		c.SetNow(now)
		a.Clock = c

		if _, err := a.CreateReservation(alice, book.UUID); err != nil {
			t.Fatal(errors.Wrap(err, "reserving"))
		}

		c.SetNow(now.Add(8 * 24 * time.Hour))

		reservation, err := a.CreateReservation(bob, book.UUID)
		if err != nil {
			t.Fatal(errors.Wrap(err, "reserving"))
		}

		assert.Equal(t, reservation.PriorityPosition, 2, "position mismatch")
	})
}

func TestExpireOverdueReservations(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	alice := testutils.SetupUserData(db, "Alice Kim", "alice@example.com", "pass1234")
	bob := testutils.SetupUserData(db, "Bob Ross", "bob@example.com", "pass1234")
	book1 := testutils.SetupBookData(db, "The Go Programming Language", 1, 0)
	book2 := testutils.SetupBookData(db, "Learning SQL", 1, 0)

	a := NewTest(db)
	c := clock.NewMock()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	c.SetNow(now)
	a.Clock = c

	if _, err := a.CreateReservation(alice, book1.UUID); err != nil {
		t.Fatal(errors.Wrap(err, "reserving"))
	}

	c.SetNow(now.Add(3 * 24 * time.Hour))
	if _, err := a.CreateReservation(bob, book2.UUID); err != nil {
		t.Fatal(errors.Wrap(err, "reserving"))
	}

	// Only the first slot is past its expiry
	c.SetNow(now.Add(8 * 24 * time.Hour))

	count, err := a.ExpireOverdueReservations()
	if err != nil {
		t.Fatal(errors.Wrap(err, "executing"))
	}

	assert.Equal(t, count, int64(1), "expired count mismatch")

	var activeCount int64
	testutils.MustExec(t, db.Model(&database.Reservation{}).Where("status = ?", database.ReservationStatusActive).Count(&activeCount), "counting active")
	assert.Equal(t, activeCount, int64(1), "active count mismatch")
}

func TestGetBookQueue(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	alice := testutils.SetupUserData(db, "Alice Kim", "alice@example.com", "pass1234")
	bob := testutils.SetupUserData(db, "Bob Ross", "bob@example.com", "pass1234")
	book := testutils.SetupBookData(db, "The Go Programming Language", 1, 0)

	a := NewTest(db)
	if _, err := a.CreateReservation(alice, book.UUID); err != nil {
		t.Fatal(errors.Wrap(err, "reserving"))
	}
	if _, err := a.CreateReservation(bob, book.UUID); err != nil {
		t.Fatal(errors.Wrap(err, "reserving"))
	}

	queue, err := a.GetBookQueue(book.ID)
	if err != nil {
		t.Fatal(errors.Wrap(err, "executing"))
	}

	assert.Equal(t, len(queue), 2, "queue length mismatch")
	assert.Equal(t, queue[0].User.FullName, "Alice Kim", "first holder mismatch")
	assert.Equal(t, queue[1].User.FullName, "Bob Ross", "second holder mismatch")
}

func TestSingleCopyContention(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	alice := testutils.SetupUserData(db, "Alice Kim", "alice@example.com", "pass1234")
	bob := testutils.SetupUserData(db, "Bob Ross", "bob@example.com", "pass1234")
	book := testutils.SetupBookData(db, "The Go Programming Language", 1, 1)

	a := NewTest(db)

	if _, err := a.BorrowBook(alice, book.UUID); err != nil {
		t.Fatal(errors.Wrap(err, "borrowing"))
	}

	_, err := a.BorrowBook(bob, book.UUID)
	assert.Equal(t, errors.Is(err, ErrBookUnavailable), true, "second borrow error mismatch")

	reservation, err := a.CreateReservation(bob, book.UUID)
	if err != nil {
		t.Fatal(errors.Wrap(err, "reserving"))
	}
	assert.Equal(t, reservation.PriorityPosition, 1, "position mismatch")
	assert.Equal(t, reservation.Status, database.ReservationStatusActive, "reservation status mismatch")

	if _, err := a.ReturnBook(alice, book.UUID); err != nil {
		t.Fatal(errors.Wrap(err, "returning"))
	}

	availability, err := a.GetBookAvailability(book.UUID)
	if err != nil {
		t.Fatal(errors.Wrap(err, "checking availability"))
	}

	assert.Equal(t, availability.IsAvailable, true, "availability mismatch")
	assert.Equal(t, availability.Reason, "1 copy available for borrowing", "reason mismatch")

	var bookRecord database.Book
	testutils.MustExec(t, db.Where("id = ?", book.ID).First(&bookRecord), "finding book")
	assert.Equal(t, bookRecord.AvailableCopies, 1, "available copies mismatch")
}
