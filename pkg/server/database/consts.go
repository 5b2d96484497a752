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

const (
	// TokenTypeResetPassword is a type of a token for resetting password
	TokenTypeResetPassword = "reset_password"
)

const (
	// BorrowStatusBorrowed indicates an active checkout
	BorrowStatusBorrowed = "BORROWED"
	// BorrowStatusReturned indicates a completed checkout
	BorrowStatusReturned = "RETURNED"
)

const (
	// ReservationStatusActive indicates a still-waiting queue slot
	ReservationStatusActive = "ACTIVE"
	// ReservationStatusFulfilled indicates an admin handled the reserved copy
	ReservationStatusFulfilled = "FULFILLED"
	// ReservationStatusCancelled indicates the holder gave up the slot
	ReservationStatusCancelled = "CANCELLED"
	// ReservationStatusExpired indicates the slot lapsed past its expiry date
	ReservationStatusExpired = "EXPIRED"
)

const (
	// UserRoleUser is the default role
	UserRoleUser = "USER"
	// UserRoleAdmin grants access to admin-only operations
	UserRoleAdmin = "ADMIN"
)

const (
	// UserStatusPending indicates an account awaiting admin approval
	UserStatusPending = "PENDING"
	// UserStatusApproved indicates an account eligible to borrow
	UserStatusApproved = "APPROVED"
)
