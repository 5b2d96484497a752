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
)

// BorrowPeriod is how long a borrowed copy may be kept before it is due
const BorrowPeriod = 7 * 24 * time.Hour

// BorrowBook checks out one copy of the book with the given uuid to the user.
// The available count is decremented with a guarded update so that two
// concurrent borrows of the last copy cannot both succeed.
func (a *App) BorrowBook(user database.User, bookUUID string) (database.BorrowRecord, error) {
	if user.Status != database.UserStatusApproved {
		return database.BorrowRecord{}, ErrNotEligible
	}

	book, err := a.GetBookByUUID(bookUUID)
	if err != nil {
		return database.BorrowRecord{}, err
	}

	tx := a.DB.Begin()

	var count int64
	err = tx.Model(database.BorrowRecord{}).
		Where("user_id = ? AND book_id = ? AND status = ?", user.ID, book.ID, database.BorrowStatusBorrowed).
		Count(&count).Error
	if err != nil {
		tx.Rollback()
		return database.BorrowRecord{}, pkgErrors.Wrap(err, "counting active borrows")
	}
	if count > 0 {
		tx.Rollback()
		return database.BorrowRecord{}, ErrAlreadyBorrowed
	}

	// The WHERE clause guards against borrowing a copy that another
	// transaction took first. Zero affected rows means no copy was free.
	res := tx.Model(database.Book{}).
		Where("id = ? AND available_copies > 0", book.ID).
		Update("available_copies", gorm.Expr("available_copies - 1"))
	if res.Error != nil {
		tx.Rollback()
		return database.BorrowRecord{}, pkgErrors.Wrap(res.Error, "decrementing available copies")
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		return database.BorrowRecord{}, ErrBookUnavailable
	}

	uuid, err := helpers.GenUUID()
	if err != nil {
		tx.Rollback()
		return database.BorrowRecord{}, err
	}

	now := a.Clock.Now()
	record := database.BorrowRecord{
		UUID:       uuid,
		UserID:     user.ID,
		BookID:     book.ID,
		BorrowDate: now,
		DueDate:    now.Add(BorrowPeriod),
		Status:     database.BorrowStatusBorrowed,
	}
	if err := tx.Create(&record).Error; err != nil {
		tx.Rollback()
		return database.BorrowRecord{}, pkgErrors.Wrap(err, "inserting borrow record")
	}

	tx.Commit()

	record.User = user
	record.Book = book

	return record, nil
}

// ReturnBook completes the user's active checkout of the book with the given
// uuid. The freed copy goes back to the available pool. Reservation holders
// are not assigned the copy automatically; an admin fulfills reservations
// explicitly.
func (a *App) ReturnBook(user database.User, bookUUID string) (database.BorrowRecord, error) {
	book, err := a.GetBookByUUID(bookUUID)
	if err != nil {
		return database.BorrowRecord{}, err
	}

	tx := a.DB.Begin()

	var record database.BorrowRecord
	err = tx.Where("user_id = ? AND book_id = ? AND status = ?", user.ID, book.ID, database.BorrowStatusBorrowed).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		tx.Rollback()
		return database.BorrowRecord{}, ErrNoActiveBorrow
	} else if err != nil {
		tx.Rollback()
		return database.BorrowRecord{}, pkgErrors.Wrap(err, "finding borrow record")
	}

	now := a.Clock.Now()
	err = tx.Model(&record).
		Updates(map[string]interface{}{
			"status":      database.BorrowStatusReturned,
			"return_date": &now,
		}).Error
	if err != nil {
		tx.Rollback()
		return database.BorrowRecord{}, pkgErrors.Wrap(err, "updating borrow record")
	}

	// The guard keeps the available count from exceeding the total if the
	// book shrank while this copy was out. Zero affected rows means the
	// count is already at the cap.
	err = tx.Model(database.Book{}).
		Where("id = ? AND available_copies < total_copies", book.ID).
		Update("available_copies", gorm.Expr("available_copies + 1")).Error
	if err != nil {
		tx.Rollback()
		return database.BorrowRecord{}, pkgErrors.Wrap(err, "incrementing available copies")
	}

	tx.Commit()

	record.Status = database.BorrowStatusReturned
	record.ReturnDate = &now
	record.User = user
	record.Book = book

	return record, nil
}

// GetActiveBorrow returns the user's active borrow record for the book with
// the given uuid, or ErrNotFound if the user has no copy checked out.
func (a *App) GetActiveBorrow(user database.User, bookUUID string) (database.BorrowRecord, error) {
	book, err := a.GetBookByUUID(bookUUID)
	if err != nil {
		return database.BorrowRecord{}, err
	}

	var record database.BorrowRecord
	err = a.DB.Preload("Book").
		Where("user_id = ? AND book_id = ? AND status = ?", user.ID, book.ID, database.BorrowStatusBorrowed).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return database.BorrowRecord{}, ErrNotFound
	} else if err != nil {
		return database.BorrowRecord{}, pkgErrors.Wrap(err, "finding borrow record")
	}

	return record, nil
}

// GetUserBorrows returns the user's borrow history, newest first
func (a *App) GetUserBorrows(userID int) ([]database.BorrowRecord, error) {
	var records []database.BorrowRecord
	err := a.DB.Preload("Book").
		Where("user_id = ?", userID).
		Order("borrow_date DESC").
		Find(&records).Error
	if err != nil {
		return nil, pkgErrors.Wrap(err, "finding borrow records")
	}

	return records, nil
}

// GetBookBorrows returns the borrow history of the book with the given id,
// newest first
func (a *App) GetBookBorrows(bookID int) ([]database.BorrowRecord, error) {
	var records []database.BorrowRecord
	err := a.DB.Preload("User").
		Where("book_id = ?", bookID).
		Order("borrow_date DESC").
		Find(&records).Error
	if err != nil {
		return nil, pkgErrors.Wrap(err, "finding borrow records")
	}

	return records, nil
}

// ListBorrows returns all borrow records, newest first. Optionally filters
// by status.
func (a *App) ListBorrows(status string) ([]database.BorrowRecord, error) {
	conn := a.DB.Preload("User").Preload("Book").Order("borrow_date DESC")
	if status != "" {
		conn = conn.Where("status = ?", status)
	}

	var records []database.BorrowRecord
	if err := conn.Find(&records).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "finding borrow records")
	}

	return records, nil
}
