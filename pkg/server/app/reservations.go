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
	"errors"
	"time"

	pkgErrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/i200219/library-management/pkg/server/database"
	"github.com/i200219/library-management/pkg/server/helpers"
	"github.com/i200219/library-management/pkg/server/log"
	"github.com/i200219/library-management/pkg/server/permissions"
)

// ReservationPeriod is how long a queue slot stays active before it lapses
const ReservationPeriod = 7 * 24 * time.Hour

// CreateReservation places the user in the reservation queue of the book
// with the given uuid. The queue position is a ticket number taken at
// creation time; positions of existing slots never shift.
func (a *App) CreateReservation(user database.User, bookUUID string) (database.Reservation, error) {
	if user.Status != database.UserStatusApproved {
		return database.Reservation{}, ErrNotEligible
	}

	book, err := a.GetBookByUUID(bookUUID)
	if err != nil {
		return database.Reservation{}, err
	}

	if book.AvailableCopies > 0 {
		return database.Reservation{}, ErrBookAvailable
	}

	tx := a.DB.Begin()

	var count int64
	err = tx.Model(database.BorrowRecord{}).
		Where("user_id = ? AND book_id = ? AND status = ?", user.ID, book.ID, database.BorrowStatusBorrowed).
		Count(&count).Error
	if err != nil {
		tx.Rollback()
		return database.Reservation{}, pkgErrors.Wrap(err, "counting active borrows")
	}
	if count > 0 {
		tx.Rollback()
		return database.Reservation{}, ErrAlreadyBorrowed
	}

	now := a.Clock.Now()

	err = tx.Model(database.Reservation{}).
		Where("user_id = ? AND book_id = ? AND status = ?", user.ID, book.ID, database.ReservationStatusActive).
		Count(&count).Error
	if err != nil {
		tx.Rollback()
		return database.Reservation{}, pkgErrors.Wrap(err, "counting user reservations")
	}
	if count > 0 {
		tx.Rollback()
		return database.Reservation{}, ErrDuplicateReservation
	}

	err = tx.Model(database.Reservation{}).
		Where("book_id = ? AND status = ?", book.ID, database.ReservationStatusActive).
		Count(&count).Error
	if err != nil {
		tx.Rollback()
		return database.Reservation{}, pkgErrors.Wrap(err, "counting queue")
	}

	uuid, err := helpers.GenUUID()
	if err != nil {
		tx.Rollback()
		return database.Reservation{}, err
	}

	reservation := database.Reservation{
		UUID:             uuid,
		UserID:           user.ID,
		BookID:           book.ID,
		ReservationDate:  now,
		ExpiryDate:       now.Add(ReservationPeriod),
		PriorityPosition: int(count) + 1,
		Status:           database.ReservationStatusActive,
	}
	if err := tx.Create(&reservation).Error; err != nil {
		tx.Rollback()
		return database.Reservation{}, pkgErrors.Wrap(err, "inserting reservation")
	}

	tx.Commit()

	reservation.User = user
	reservation.Book = book

	return reservation, nil
}

// GetReservationByUUID finds a reservation with the given uuid. Reads never
// change reservation state; an overdue slot stays ACTIVE until the sweep or
// an admin expires it.
func (a *App) GetReservationByUUID(uuid string) (database.Reservation, error) {
	var reservation database.Reservation
	err := a.DB.Preload("User").Preload("Book").Where("uuid = ?", uuid).First(&reservation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return database.Reservation{}, ErrReservationNotFound
	} else if err != nil {
		return database.Reservation{}, pkgErrors.Wrap(err, "finding reservation")
	}

	return reservation, nil
}

// CancelReservation gives up the queue slot with the given uuid. Users may
// cancel their own slots only; managing others' slots requires the admin
// role.
func (a *App) CancelReservation(caller database.User, uuid string) (database.Reservation, error) {
	reservation, err := a.GetReservationByUUID(uuid)
	if err != nil {
		return database.Reservation{}, err
	}

	if !permissions.ManageReservation(&caller, reservation) {
		return database.Reservation{}, ErrReservationNotOwned
	}

	if reservation.Status != database.ReservationStatusActive {
		return database.Reservation{}, ErrReservationNotActive
	}

	err = a.DB.Model(&reservation).Update("status", database.ReservationStatusCancelled).Error
	if err != nil {
		return database.Reservation{}, pkgErrors.Wrap(err, "cancelling reservation")
	}

	reservation.Status = database.ReservationStatusCancelled

	return reservation, nil
}

// FulfillReservation marks the queue slot with the given uuid as handled.
// The slot holder is notified by email. Fulfillment does not move a copy;
// the holder still borrows the book through the normal flow.
func (a *App) FulfillReservation(uuid string) (database.Reservation, error) {
	reservation, err := a.GetReservationByUUID(uuid)
	if err != nil {
		return database.Reservation{}, err
	}

	if reservation.Status != database.ReservationStatusActive {
		return database.Reservation{}, ErrReservationNotActive
	}

	err = a.DB.Model(&reservation).Update("status", database.ReservationStatusFulfilled).Error
	if err != nil {
		return database.Reservation{}, pkgErrors.Wrap(err, "fulfilling reservation")
	}

	reservation.Status = database.ReservationStatusFulfilled

	if reservation.User.Email.Valid {
		err := a.SendReservationReadyEmail(reservation.User.FullName, reservation.User.Email.String, reservation.Book.Title)
		if err != nil {
			log.ErrorWrap(err, "sending reservation notification")
		}
	}

	return reservation, nil
}

// GetUserReservations returns the user's reservations, newest first
func (a *App) GetUserReservations(userID int) ([]database.Reservation, error) {
	var reservations []database.Reservation
	err := a.DB.Preload("Book").
		Where("user_id = ?", userID).
		Order("reservation_date DESC").
		Find(&reservations).Error
	if err != nil {
		return nil, pkgErrors.Wrap(err, "finding reservations")
	}

	return reservations, nil
}

// GetBookQueue returns the active reservation queue of the book with the
// given id in priority order. Overdue slots remain in the queue until they
// are expired by the sweep or an admin.
func (a *App) GetBookQueue(bookID int) ([]database.Reservation, error) {
	var reservations []database.Reservation
	err := a.DB.Preload("User").
		Where("book_id = ? AND status = ?", bookID, database.ReservationStatusActive).
		Order("priority_position ASC").
		Find(&reservations).Error
	if err != nil {
		return nil, pkgErrors.Wrap(err, "finding reservations")
	}

	return reservations, nil
}

// ExpireOverdueReservations lapses every active reservation past its expiry
// date. It returns the number of lapsed slots.
func (a *App) ExpireOverdueReservations() (int64, error) {
	res := a.DB.Model(database.Reservation{}).
		Where("status = ? AND expiry_date < ?", database.ReservationStatusActive, a.Clock.Now()).
		Update("status", database.ReservationStatusExpired)
	if res.Error != nil {
		return 0, pkgErrors.Wrap(res.Error, "expiring reservations")
	}

	return res.RowsAffected, nil
}
