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

	pkgErrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/i200219/library-management/pkg/server/database"
	"github.com/i200219/library-management/pkg/server/helpers"
)

// CreateBookParams holds the fields for adding a book to the catalog
type CreateBookParams struct {
	Title       string
	Author      string
	Genre       string
	Description string
	Summary     string
	Rating      float64
	CoverURL    string
	CoverColor  string
	VideoURL    string
	TotalCopies int
}

// CreateBook adds a book to the catalog. All copies start available.
func (a *App) CreateBook(params CreateBookParams) (database.Book, error) {
	if params.Title == "" {
		return database.Book{}, ErrBookTitleRequired
	}
	if params.TotalCopies < 1 {
		return database.Book{}, ErrBookCopiesInvalid
	}

	uuid, err := helpers.GenUUID()
	if err != nil {
		return database.Book{}, err
	}

	book := database.Book{
		UUID:            uuid,
		Title:           params.Title,
		Author:          params.Author,
		Genre:           params.Genre,
		Description:     params.Description,
		Summary:         params.Summary,
		Rating:          params.Rating,
		CoverURL:        params.CoverURL,
		CoverColor:      params.CoverColor,
		VideoURL:        params.VideoURL,
		TotalCopies:     params.TotalCopies,
		AvailableCopies: params.TotalCopies,
	}
	if err := a.DB.Create(&book).Error; err != nil {
		return book, pkgErrors.Wrap(err, "inserting book")
	}

	return book, nil
}

// GetBookByUUID finds a book with the given uuid
func (a *App) GetBookByUUID(uuid string) (database.Book, error) {
	var book database.Book
	err := a.DB.Where("uuid = ?", uuid).First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return database.Book{}, ErrBookNotFound
	} else if err != nil {
		return database.Book{}, pkgErrors.Wrap(err, "finding book")
	}

	return book, nil
}

// BookQuery holds the filters for listing books
type BookQuery struct {
	Search string
	Genre  string
}

// ListBooks returns catalog books matching the given query, newest first
func (a *App) ListBooks(q BookQuery) ([]database.Book, error) {
	conn := a.DB.Order("created_at DESC")

	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		conn = conn.Where("title LIKE ? OR author LIKE ? OR genre LIKE ?", pattern, pattern, pattern)
	}
	if q.Genre != "" {
		conn = conn.Where("genre = ?", q.Genre)
	}

	var books []database.Book
	if err := conn.Find(&books).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "finding books")
	}

	return books, nil
}

// UpdateBookParams holds the fields an admin may change on a book
type UpdateBookParams struct {
	Title       *string
	Author      *string
	Genre       *string
	Description *string
	Summary     *string
	Rating      *float64
	CoverURL    *string
	CoverColor  *string
	VideoURL    *string
	TotalCopies *int
}

// UpdateBook applies the given changes to the book with the given uuid.
// Changing the total copy count shifts the available count by the same
// amount, clamped so that 0 <= available <= total always holds.
func (a *App) UpdateBook(uuid string, params UpdateBookParams) (database.Book, error) {
	tx := a.DB.Begin()

	var book database.Book
	err := tx.Where("uuid = ?", uuid).First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		tx.Rollback()
		return database.Book{}, ErrBookNotFound
	} else if err != nil {
		tx.Rollback()
		return database.Book{}, pkgErrors.Wrap(err, "finding book")
	}

	if params.Title != nil {
		if *params.Title == "" {
			tx.Rollback()
			return database.Book{}, ErrBookTitleRequired
		}
		book.Title = *params.Title
	}
	if params.Author != nil {
		book.Author = *params.Author
	}
	if params.Genre != nil {
		book.Genre = *params.Genre
	}
	if params.Description != nil {
		book.Description = *params.Description
	}
	if params.Summary != nil {
		book.Summary = *params.Summary
	}
	if params.Rating != nil {
		book.Rating = *params.Rating
	}
	if params.CoverURL != nil {
		book.CoverURL = *params.CoverURL
	}
	if params.CoverColor != nil {
		book.CoverColor = *params.CoverColor
	}
	if params.VideoURL != nil {
		book.VideoURL = *params.VideoURL
	}
	if params.TotalCopies != nil {
		if *params.TotalCopies < 1 {
			tx.Rollback()
			return database.Book{}, ErrBookCopiesInvalid
		}

		delta := *params.TotalCopies - book.TotalCopies
		book.TotalCopies = *params.TotalCopies
		book.AvailableCopies += delta
		if book.AvailableCopies < 0 {
			book.AvailableCopies = 0
		}
		if book.AvailableCopies > book.TotalCopies {
			book.AvailableCopies = book.TotalCopies
		}
	}

	if err := tx.Save(&book).Error; err != nil {
		tx.Rollback()
		return database.Book{}, pkgErrors.Wrap(err, "updating the book")
	}

	tx.Commit()

	return book, nil
}

// DeleteBook removes the book with the given uuid from the catalog.
// A book with active checkouts cannot be removed. Reservations for the
// book are cancelled.
func (a *App) DeleteBook(uuid string) error {
	book, err := a.GetBookByUUID(uuid)
	if err != nil {
		return err
	}

	var count int64
	err = a.DB.Model(database.BorrowRecord{}).
		Where("book_id = ? AND status = ?", book.ID, database.BorrowStatusBorrowed).
		Count(&count).Error
	if err != nil {
		return pkgErrors.Wrap(err, "counting active borrows")
	}
	if count > 0 {
		return ErrBookHasActiveBorrows
	}

	tx := a.DB.Begin()

	err = tx.Model(database.Reservation{}).
		Where("book_id = ? AND status = ?", book.ID, database.ReservationStatusActive).
		Update("status", database.ReservationStatusCancelled).Error
	if err != nil {
		tx.Rollback()
		return pkgErrors.Wrap(err, "cancelling reservations")
	}

	if err := tx.Delete(&book).Error; err != nil {
		tx.Rollback()
		return pkgErrors.Wrap(err, "deleting book")
	}

	tx.Commit()

	return nil
}
