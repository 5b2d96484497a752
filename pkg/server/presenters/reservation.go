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

// Reservation is a result of PresentReservation
type Reservation struct {
	UUID             string    `json:"uuid"`
	BookUUID         string    `json:"book_uuid"`
	BookTitle        string    `json:"book_title"`
	UserUUID         string    `json:"user_uuid"`
	UserName         string    `json:"user_name"`
	ReservationDate  time.Time `json:"reservation_date"`
	ExpiryDate       time.Time `json:"expiry_date"`
	PriorityPosition int       `json:"priority_position"`
	Status           string    `json:"status"`
}

// PresentReservation presents a reservation
func PresentReservation(reservation database.Reservation) Reservation {
	return Reservation{
		UUID:             reservation.UUID,
		BookUUID:         reservation.Book.UUID,
		BookTitle:        reservation.Book.Title,
		UserUUID:         reservation.User.UUID,
		UserName:         reservation.User.FullName,
		ReservationDate:  FormatTS(reservation.ReservationDate),
		ExpiryDate:       FormatTS(reservation.ExpiryDate),
		PriorityPosition: reservation.PriorityPosition,
		Status:           reservation.Status,
	}
}

// PresentReservations presents reservations
func PresentReservations(reservations []database.Reservation) []Reservation {
	ret := []Reservation{}

	for _, reservation := range reservations {
		p := PresentReservation(reservation)
		ret = append(ret, p)
	}

	return ret
}
