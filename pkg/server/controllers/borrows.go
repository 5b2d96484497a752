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
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/i200219/library-management/pkg/server/app"
	"github.com/i200219/library-management/pkg/server/context"
	"github.com/i200219/library-management/pkg/server/presenters"
)

// NewBorrows creates a new Borrows controller
func NewBorrows(app *app.App) *Borrows {
	return &Borrows{app: app}
}

// Borrows is a borrow ledger controller
type Borrows struct {
	app *app.App
}

// Borrow handles checking out a book
func (b *Borrows) Borrow(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		handleJSONError(w, app.ErrLoginRequired, "No authenticated user found")
		return
	}

	vars := mux.Vars(r)
	bookUUID := vars["bookUUID"]

	record, err := b.app.BorrowBook(*user, bookUUID)
	if err != nil {
		handleJSONError(w, err, "borrowing book")
		return
	}

	respondJSON(w, http.StatusCreated, presenters.PresentBorrowRecord(record))
}

// Return handles returning a borrowed book
func (b *Borrows) Return(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		handleJSONError(w, app.ErrLoginRequired, "No authenticated user found")
		return
	}

	vars := mux.Vars(r)
	bookUUID := vars["bookUUID"]

	record, err := b.app.ReturnBook(*user, bookUUID)
	if err != nil {
		handleJSONError(w, err, "returning book")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentBorrowRecord(record))
}

type borrowStatusResponse struct {
	IsBorrowedByUser bool                     `json:"is_borrowed_by_user"`
	BorrowRecord     *presenters.BorrowRecord `json:"borrow_record"`
}

// Status reports whether the caller currently has the book checked out
func (b *Borrows) Status(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		handleJSONError(w, app.ErrLoginRequired, "No authenticated user found")
		return
	}

	vars := mux.Vars(r)
	bookUUID := vars["bookUUID"]

	record, err := b.app.GetActiveBorrow(*user, bookUUID)
	if errors.Is(err, app.ErrNotFound) {
		// The book itself must exist for the answer to be meaningful
		if _, bookErr := b.app.GetBookByUUID(bookUUID); bookErr != nil {
			handleJSONError(w, bookErr, "finding book")
			return
		}

		respondJSON(w, http.StatusOK, borrowStatusResponse{IsBorrowedByUser: false})
		return
	} else if err != nil {
		handleJSONError(w, err, "finding borrow record")
		return
	}

	presented := presenters.PresentBorrowRecord(record)
	respondJSON(w, http.StatusOK, borrowStatusResponse{
		IsBorrowedByUser: true,
		BorrowRecord:     &presented,
	})
}

// Mine handles listing the caller's borrow history
func (b *Borrows) Mine(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		handleJSONError(w, app.ErrLoginRequired, "No authenticated user found")
		return
	}

	records, err := b.app.GetUserBorrows(user.ID)
	if err != nil {
		handleJSONError(w, err, "listing borrows")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentBorrowRecords(records))
}

// BookHistory handles listing a book's borrow ledger
func (b *Borrows) BookHistory(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookUUID := vars["bookUUID"]

	book, err := b.app.GetBookByUUID(bookUUID)
	if err != nil {
		handleJSONError(w, err, "finding book")
		return
	}

	records, err := b.app.GetBookBorrows(book.ID)
	if err != nil {
		handleJSONError(w, err, "listing borrows")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentBorrowRecords(records))
}

// Index handles listing borrow records across the library
func (b *Borrows) Index(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")

	records, err := b.app.ListBorrows(status)
	if err != nil {
		handleJSONError(w, err, "listing borrows")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentBorrowRecords(records))
}
