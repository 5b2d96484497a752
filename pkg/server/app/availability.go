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
	"fmt"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/i200219/library-management/pkg/server/database"
)

// Borrower describes one active holder of a book copy
type Borrower struct {
	UserName  string    `json:"user_name"`
	DueDate   time.Time `json:"due_date"`
	IsOverdue bool      `json:"is_overdue"`
}

// AvailabilityDetails holds the copy counts backing an availability result
type AvailabilityDetails struct {
	TotalCopies     int        `json:"total_copies"`
	AvailableCopies int        `json:"available_copies"`
	BorrowedCopies  int        `json:"borrowed_copies"`
	BorrowedBy      []Borrower `json:"borrowed_by,omitempty"`
}

// Availability is the result of evaluating a book's availability.
// It is a read-side projection recomputed on every call because the
// underlying counts change on every borrow and return.
type Availability struct {
	IsAvailable bool                `json:"is_available"`
	Reason      string              `json:"reason"`
	Details     AvailabilityDetails `json:"details"`
}

// dueDateFormat is the format for due dates in human-readable messages
const dueDateFormat = "2006-01-02"

// GetBookAvailability evaluates the availability of the book with the given uuid
func (a *App) GetBookAvailability(bookUUID string) (Availability, error) {
	var book database.Book
	err := a.DB.Where("uuid = ?", bookUUID).First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Availability{}, ErrBookNotFound
	} else if err != nil {
		return Availability{}, errors.Wrap(err, "finding book")
	}

	return a.getAvailability(book)
}

func (a *App) getAvailability(book database.Book) (Availability, error) {
	var records []database.BorrowRecord
	err := a.DB.Preload("User").
		Where("book_id = ? AND status = ?", book.ID, database.BorrowStatusBorrowed).
		Find(&records).Error
	if err != nil {
		return Availability{}, errors.Wrap(err, "finding borrow records")
	}

	now := a.Clock.Now()

	borrowedBy := make([]Borrower, 0, len(records))
	for _, record := range records {
		borrowedBy = append(borrowedBy, Borrower{
			UserName:  record.User.FullName,
			DueDate:   record.DueDate,
			IsOverdue: now.After(record.DueDate),
		})
	}

	details := AvailabilityDetails{
		TotalCopies:     book.TotalCopies,
		AvailableCopies: book.AvailableCopies,
		BorrowedCopies:  len(records),
	}
	if len(borrowedBy) > 0 {
		details.BorrowedBy = borrowedBy
	}

	isAvailable := book.AvailableCopies > 0

	return Availability{
		IsAvailable: isAvailable,
		Reason:      availabilityReason(isAvailable, details),
		Details:     details,
	}, nil
}

// availabilityReason derives the human-readable explanation for an
// availability result. The first matching rule wins.
func availabilityReason(isAvailable bool, details AvailabilityDetails) string {
	if isAvailable {
		if details.AvailableCopies == 1 {
			return "1 copy available for borrowing"
		}
		return fmt.Sprintf("%d copies available for borrowing", details.AvailableCopies)
	}

	if details.TotalCopies == 1 && len(details.BorrowedBy) > 0 {
		borrower := details.BorrowedBy[0]
		due := borrower.DueDate.Format(dueDateFormat)

		if borrower.IsOverdue {
			return fmt.Sprintf("This book is currently borrowed by %s and is overdue (was due: %s)", borrower.UserName, due)
		}
		return fmt.Sprintf("This book is currently borrowed by %s (due: %s)", borrower.UserName, due)
	}

	if details.BorrowedCopies >= details.TotalCopies {
		var overdueCount int
		for _, b := range details.BorrowedBy {
			if b.IsOverdue {
				overdueCount++
			}
		}

		if overdueCount == 1 {
			return fmt.Sprintf("All %d copies are borrowed. 1 copy is overdue.", details.TotalCopies)
		}
		if overdueCount > 1 {
			return fmt.Sprintf("All %d copies are borrowed. %d copies are overdue.", details.TotalCopies, overdueCount)
		}
		return fmt.Sprintf("All %d copies are currently borrowed", details.TotalCopies)
	}

	return "No copies are currently available"
}

// Eligibility is the result of checking whether a user may borrow a book
type Eligibility struct {
	IsEligible bool   `json:"is_eligible"`
	Message    string `json:"message"`
}

// CheckBorrowingEligibility decides whether a user with the given status may
// borrow a book with the given availability. It unifies the borrow decision
// and its explanatory message. Eligibility is derived from both user approval
// and availability; it is distinct from role-based authorization.
func CheckBorrowingEligibility(availability Availability, userStatus string) Eligibility {
	if userStatus != database.UserStatusApproved {
		return Eligibility{
			IsEligible: false,
			Message:    "You are not eligible to borrow books. Please contact the administrator.",
		}
	}

	if !availability.IsAvailable {
		return Eligibility{
			IsEligible: false,
			Message:    availability.Reason,
		}
	}

	return Eligibility{
		IsEligible: true,
		Message:    "You can borrow this book",
	}
}
