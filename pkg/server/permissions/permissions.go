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

// Package permissions provides pure authorization predicates.
// Authorization (role and ownership) is distinct from borrowing
// eligibility, which also depends on book availability.
package permissions

import (
	"github.com/i200219/library-management/pkg/server/database"
)

// IsAdmin checks if the given user has the admin role
func IsAdmin(user *database.User) bool {
	if user == nil {
		return false
	}

	return user.Role == database.UserRoleAdmin
}

// ManageReservation checks if the given user can cancel or otherwise
// manage the given reservation
func ManageReservation(user *database.User, reservation database.Reservation) bool {
	if user == nil {
		return false
	}
	if IsAdmin(user) {
		return true
	}

	return reservation.UserID == user.ID
}

// ViewBorrowRecord checks if the given user can view the given borrow record
func ViewBorrowRecord(user *database.User, record database.BorrowRecord) bool {
	if user == nil {
		return false
	}
	if IsAdmin(user) {
		return true
	}

	return record.UserID == user.ID
}
