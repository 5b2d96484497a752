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

import "github.com/pkg/errors"

var (
	// ErrNotFound is an error for an unfound resource
	ErrNotFound = errors.New("not found")
	// ErrLoginInvalid is an error for invalid credentials
	ErrLoginInvalid = errors.New("Wrong email and password combination")
	// ErrEmailRequired is an error for missing email
	ErrEmailRequired = errors.New("Please enter an email")
	// ErrPasswordRequired is an error for missing password
	ErrPasswordRequired = errors.New("Please enter a password")
	// ErrFullNameRequired is an error for missing full name
	ErrFullNameRequired = errors.New("Please enter your full name")
	// ErrPasswordTooShort is an error for a password that is too short
	ErrPasswordTooShort = errors.New("Password should be longer than 8 characters")
	// ErrPasswordConfirmationMismatch is an error for a password that does not match its confirmation
	ErrPasswordConfirmationMismatch = errors.New("Password does not match the confirmation")
	// ErrDuplicateEmail is an error for an email that is already registered
	ErrDuplicateEmail = errors.New("The email is already registered")
	// ErrUserHasActiveBorrows is an error for removing a user that still holds books
	ErrUserHasActiveBorrows = errors.New("The user still has borrowed books")

	// ErrBookNotFound is an error for an unfound book
	ErrBookNotFound = errors.New("Book not found")
	// ErrBookTitleRequired is an error for missing book title
	ErrBookTitleRequired = errors.New("Please enter a book title")
	// ErrBookCopiesInvalid is an error for a non-positive number of copies
	ErrBookCopiesInvalid = errors.New("Total copies must be at least 1")
	// ErrBookHasActiveBorrows is an error for deleting a book with active checkouts
	ErrBookHasActiveBorrows = errors.New("Cannot delete book while it has active borrows")

	// ErrBookUnavailable is an error for borrowing a book with no free copies
	ErrBookUnavailable = errors.New("Book is not available for borrowing")
	// ErrAlreadyBorrowed is an error for borrowing or reserving a book the user already holds
	ErrAlreadyBorrowed = errors.New("You currently have this book borrowed")
	// ErrNoActiveBorrow is an error for returning a book the user does not hold
	ErrNoActiveBorrow = errors.New("No active borrow record found")

	// ErrDuplicateReservation is an error for reserving a book the user already reserved
	ErrDuplicateReservation = errors.New("You already have an active reservation for this book")
	// ErrBookAvailable is an error for reserving a book that has free copies
	ErrBookAvailable = errors.New("This book is currently available for borrowing. Please borrow it directly instead of making a reservation.")
	// ErrReservationNotFound is an error for an unfound reservation
	ErrReservationNotFound = errors.New("Reservation not found")
	// ErrReservationNotActive is an error for acting on a terminal reservation
	ErrReservationNotActive = errors.New("This reservation is no longer active")
	// ErrReservationNotOwned is an error for cancelling somebody else's reservation
	ErrReservationNotOwned = errors.New("You can only cancel your own reservations")
)

var (
	// ErrLoginRequired is an error for operations that require login
	ErrLoginRequired = errors.New("Please login")
	// ErrNotEligible is an error for borrowing without an approved account
	ErrNotEligible = errors.New("You are not eligible to borrow books. Please contact the administrator.")
	// ErrInvalidToken is an error for an invalid token
	ErrInvalidToken = errors.New("This token is invalid")
	// ErrPasswordResetTokenExpired is an error for an expired password reset token
	ErrPasswordResetTokenExpired = errors.New("This password reset link has expired")
	// ErrInvalidPassword is an error for invalid password
	ErrInvalidPassword = errors.New("Wrong password")
	// ErrInvalidPasswordChangeInput is an error for invalid params for password change
	ErrInvalidPasswordChangeInput = errors.New("Please provide the old password and a new password")
	// ErrInvalidSMTPConfig is an error for invalid SMTP configuration
	ErrInvalidSMTPConfig = errors.New("SMTP is not configured")
)
