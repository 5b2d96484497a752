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
	"database/sql"
	"database/sql/driver"
	"time"
)

// Model is the base model definition
type Model struct {
	ID        int       `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Book is a model for a book in the catalog
type Book struct {
	Model
	UUID            string  `json:"uuid" gorm:"uniqueIndex;type:text"`
	Title           string  `json:"title" gorm:"index"`
	Author          string  `json:"author" gorm:"index"`
	Genre           string  `json:"genre" gorm:"index"`
	Description     string  `json:"description"`
	Summary         string  `json:"summary"`
	Rating          float64 `json:"rating"`
	CoverURL        string  `json:"cover_url"`
	CoverColor      string  `json:"cover_color"`
	VideoURL        string  `json:"video_url"`
	TotalCopies     int     `json:"total_copies"`
	AvailableCopies int     `json:"available_copies"`
}

// BorrowRecord is a model for a single checkout event of a book by a user
type BorrowRecord struct {
	Model
	UUID       string     `json:"uuid" gorm:"uniqueIndex;type:text"`
	UserID     int        `json:"user_id" gorm:"index"`
	User       User       `json:"-"`
	BookID     int        `json:"book_id" gorm:"index"`
	Book       Book       `json:"-"`
	BorrowDate time.Time  `json:"borrow_date"`
	DueDate    time.Time  `json:"due_date"`
	ReturnDate *time.Time `json:"return_date"`
	Status     string     `json:"status" gorm:"index"`
}

// Reservation is a model for a queue slot for an unavailable book
type Reservation struct {
	Model
	UUID             string    `json:"uuid" gorm:"uniqueIndex;type:text"`
	UserID           int       `json:"user_id" gorm:"index"`
	User             User      `json:"-"`
	BookID           int       `json:"book_id" gorm:"index"`
	Book             Book      `json:"-"`
	ReservationDate  time.Time `json:"reservation_date"`
	ExpiryDate       time.Time `json:"expiry_date"`
	PriorityPosition int       `json:"priority_position"`
	Status           string    `json:"status" gorm:"index"`
}

// User is a model for a user
type User struct {
	Model
	UUID        string     `json:"uuid" gorm:"type:text;index"`
	FullName    string     `json:"full_name"`
	Email       NullString `gorm:"index"`
	Password    NullString `json:"-"`
	Role        string     `json:"role" gorm:"default:USER"`
	Status      string     `json:"status" gorm:"default:PENDING"`
	LastLoginAt *time.Time `json:"-"`
}

// Token is a model for a token
type Token struct {
	Model
	UserID int    `gorm:"index"`
	Value  string `gorm:"index"`
	Type   string
	UsedAt *time.Time
}

// Session represents a user session
type Session struct {
	Model
	UserID     int    `gorm:"index"`
	Key        string `gorm:"index"`
	LastUsedAt time.Time
	ExpiresAt  time.Time
}

// NullString is a nullable string column that serializes to a plain string
type NullString struct {
	sql.NullString
}

// ToNullString converts the given string into a valid NullString
func ToNullString(s string) NullString {
	return NullString{sql.NullString{String: s, Valid: true}}
}

// Value implements the driver.Valuer interface
func (s NullString) Value() (driver.Value, error) {
	if !s.Valid {
		return nil, nil
	}

	return s.String, nil
}
