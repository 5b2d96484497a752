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

package presenters

import (
	"time"

	"github.com/i200219/library-management/pkg/server/database"
)

// Book is a result of PresentBook
type Book struct {
	UUID            string    `json:"uuid"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	Genre           string    `json:"genre"`
	Description     string    `json:"description"`
	Summary         string    `json:"summary"`
	Rating          float64   `json:"rating"`
	CoverURL        string    `json:"cover_url"`
	CoverColor      string    `json:"cover_color"`
	VideoURL        string    `json:"video_url"`
	TotalCopies     int       `json:"total_copies"`
	AvailableCopies int       `json:"available_copies"`
}

// PresentBook presents a book
func PresentBook(book database.Book) Book {
	return Book{
		UUID:            book.UUID,
		CreatedAt:       FormatTS(book.CreatedAt),
		UpdatedAt:       FormatTS(book.UpdatedAt),
		Title:           book.Title,
		Author:          book.Author,
		Genre:           book.Genre,
		Description:     book.Description,
		Summary:         book.Summary,
		Rating:          book.Rating,
		CoverURL:        book.CoverURL,
		CoverColor:      book.CoverColor,
		VideoURL:        book.VideoURL,
		TotalCopies:     book.TotalCopies,
		AvailableCopies: book.AvailableCopies,
	}
}

// PresentBooks presents books
func PresentBooks(books []database.Book) []Book {
	ret := []Book{}

	for _, book := range books {
		p := PresentBook(book)
		ret = append(ret, p)
	}

	return ret
}
