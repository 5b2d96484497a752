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
	"github.com/pkg/errors"

	"github.com/i200219/library-management/pkg/server/database"
)

// Stats summarizes the state of the library for the admin dashboard
type Stats struct {
	TotalBooks         int64 `json:"total_books"`
	TotalUsers         int64 `json:"total_users"`
	PendingUsers       int64 `json:"pending_users"`
	ActiveBorrows      int64 `json:"active_borrows"`
	OverdueBorrows     int64 `json:"overdue_borrows"`
	ActiveReservations int64 `json:"active_reservations"`
}

// GetStats computes library statistics
func (a *App) GetStats() (Stats, error) {
	var stats Stats

	if err := a.DB.Model(database.Book{}).Count(&stats.TotalBooks).Error; err != nil {
		return Stats{}, errors.Wrap(err, "counting books")
	}
	if err := a.DB.Model(database.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return Stats{}, errors.Wrap(err, "counting users")
	}

	err := a.DB.Model(database.User{}).
		Where("status = ?", database.UserStatusPending).
		Count(&stats.PendingUsers).Error
	if err != nil {
		return Stats{}, errors.Wrap(err, "counting pending users")
	}

	err = a.DB.Model(database.BorrowRecord{}).
		Where("status = ?", database.BorrowStatusBorrowed).
		Count(&stats.ActiveBorrows).Error
	if err != nil {
		return Stats{}, errors.Wrap(err, "counting active borrows")
	}

	err = a.DB.Model(database.BorrowRecord{}).
		Where("status = ? AND due_date < ?", database.BorrowStatusBorrowed, a.Clock.Now()).
		Count(&stats.OverdueBorrows).Error
	if err != nil {
		return Stats{}, errors.Wrap(err, "counting overdue borrows")
	}

	err = a.DB.Model(database.Reservation{}).
		Where("status = ?", database.ReservationStatusActive).
		Count(&stats.ActiveReservations).Error
	if err != nil {
		return Stats{}, errors.Wrap(err, "counting active reservations")
	}

	return stats, nil
}
