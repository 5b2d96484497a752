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
	"net/http"

	"github.com/gorilla/mux"

	"github.com/i200219/library-management/pkg/server/app"
	"github.com/i200219/library-management/pkg/server/context"
	"github.com/i200219/library-management/pkg/server/presenters"
)

// NewBooks creates a new Books controller
func NewBooks(app *app.App) *Books {
	return &Books{app: app}
}

// Books is a book controller
type Books struct {
	app *app.App
}

// Index handles listing catalog books
func (b *Books) Index(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	books, err := b.app.ListBooks(app.BookQuery{
		Search: query.Get("search"),
		Genre:  query.Get("genre"),
	})
	if err != nil {
		handleJSONError(w, err, "listing books")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentBooks(books))
}

// Show handles getting a single book
func (b *Books) Show(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookUUID := vars["bookUUID"]

	book, err := b.app.GetBookByUUID(bookUUID)
	if err != nil {
		handleJSONError(w, err, "finding book")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentBook(book))
}

// Availability handles evaluating a book's availability
func (b *Books) Availability(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookUUID := vars["bookUUID"]

	result, err := b.app.GetBookAvailability(bookUUID)
	if err != nil {
		handleJSONError(w, err, "evaluating availability")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Eligibility handles checking whether the caller may borrow a book
func (b *Books) Eligibility(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		handleJSONError(w, app.ErrLoginRequired, "No authenticated user found")
		return
	}

	vars := mux.Vars(r)
	bookUUID := vars["bookUUID"]

	availability, err := b.app.GetBookAvailability(bookUUID)
	if err != nil {
		handleJSONError(w, err, "evaluating availability")
		return
	}

	result := app.CheckBorrowingEligibility(availability, user.Status)

	respondJSON(w, http.StatusOK, result)
}

type bookForm struct {
	Title       *string  `schema:"title" json:"title"`
	Author      *string  `schema:"author" json:"author"`
	Genre       *string  `schema:"genre" json:"genre"`
	Description *string  `schema:"description" json:"description"`
	Summary     *string  `schema:"summary" json:"summary"`
	Rating      *float64 `schema:"rating" json:"rating"`
	CoverURL    *string  `schema:"cover_url" json:"cover_url"`
	CoverColor  *string  `schema:"cover_color" json:"cover_color"`
	VideoURL    *string  `schema:"video_url" json:"video_url"`
	TotalCopies *int     `schema:"total_copies" json:"total_copies"`
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

// Create handles adding a book to the catalog
func (b *Books) Create(w http.ResponseWriter, r *http.Request) {
	var form bookForm
	if err := parseRequestData(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	params := app.CreateBookParams{
		Title:       strOrEmpty(form.Title),
		Author:      strOrEmpty(form.Author),
		Genre:       strOrEmpty(form.Genre),
		Description: strOrEmpty(form.Description),
		Summary:     strOrEmpty(form.Summary),
		CoverURL:    strOrEmpty(form.CoverURL),
		CoverColor:  strOrEmpty(form.CoverColor),
		VideoURL:    strOrEmpty(form.VideoURL),
	}
	if form.Rating != nil {
		params.Rating = *form.Rating
	}
	if form.TotalCopies != nil {
		params.TotalCopies = *form.TotalCopies
	}

	book, err := b.app.CreateBook(params)
	if err != nil {
		handleJSONError(w, err, "creating book")
		return
	}

	respondJSON(w, http.StatusCreated, presenters.PresentBook(book))
}

// Update handles changing a book's catalog entry
func (b *Books) Update(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookUUID := vars["bookUUID"]

	var form bookForm
	if err := parseRequestData(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	book, err := b.app.UpdateBook(bookUUID, app.UpdateBookParams{
		Title:       form.Title,
		Author:      form.Author,
		Genre:       form.Genre,
		Description: form.Description,
		Summary:     form.Summary,
		Rating:      form.Rating,
		CoverURL:    form.CoverURL,
		CoverColor:  form.CoverColor,
		VideoURL:    form.VideoURL,
		TotalCopies: form.TotalCopies,
	})
	if err != nil {
		handleJSONError(w, err, "updating book")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentBook(book))
}

// Delete handles removing a book from the catalog
func (b *Books) Delete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookUUID := vars["bookUUID"]

	if err := b.app.DeleteBook(bookUUID); err != nil {
		handleJSONError(w, err, "deleting book")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
