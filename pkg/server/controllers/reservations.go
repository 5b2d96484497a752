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
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/i200219/library-management/pkg/server/app"
	"github.com/i200219/library-management/pkg/server/context"
	"github.com/i200219/library-management/pkg/server/permissions"
	"github.com/i200219/library-management/pkg/server/presenters"
)

// NewReservations creates a new Reservations controller
func NewReservations(app *app.App) *Reservations {
	return &Reservations{app: app}
}

// Reservations is a reservation queue controller
type Reservations struct {
	app *app.App
}

type createReservationResponse struct {
	Message     string                 `json:"message"`
	Reservation presenters.Reservation `json:"reservation"`
}

// Create handles joining a book's reservation queue
func (c *Reservations) Create(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		handleJSONError(w, app.ErrLoginRequired, "No authenticated user found")
		return
	}

	vars := mux.Vars(r)
	bookUUID := vars["bookUUID"]

	reservation, err := c.app.CreateReservation(*user, bookUUID)
	if err != nil {
		handleJSONError(w, err, "creating reservation")
		return
	}

	respondJSON(w, http.StatusCreated, createReservationResponse{
		Message:     fmt.Sprintf("Reservation created successfully. You are #%d in the queue.", reservation.PriorityPosition),
		Reservation: presenters.PresentReservation(reservation),
	})
}

// Mine handles listing the caller's reservations
func (c *Reservations) Mine(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		handleJSONError(w, app.ErrLoginRequired, "No authenticated user found")
		return
	}

	reservations, err := c.app.GetUserReservations(user.ID)
	if err != nil {
		handleJSONError(w, err, "listing reservations")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentReservations(reservations))
}

// Show handles getting a single reservation
func (c *Reservations) Show(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		handleJSONError(w, app.ErrLoginRequired, "No authenticated user found")
		return
	}

	vars := mux.Vars(r)
	reservationUUID := vars["reservationUUID"]

	reservation, err := c.app.GetReservationByUUID(reservationUUID)
	if err != nil {
		handleJSONError(w, err, "finding reservation")
		return
	}

	if !permissions.ManageReservation(user, reservation) {
		handleJSONError(w, app.ErrReservationNotOwned, "unauthorized reservation access")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentReservation(reservation))
}

// Cancel handles cancelling a reservation
func (c *Reservations) Cancel(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		handleJSONError(w, app.ErrLoginRequired, "No authenticated user found")
		return
	}

	vars := mux.Vars(r)
	reservationUUID := vars["reservationUUID"]

	reservation, err := c.app.CancelReservation(*user, reservationUUID)
	if err != nil {
		handleJSONError(w, err, "cancelling reservation")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentReservation(reservation))
}

// Fulfill handles marking a reservation ready for pickup
func (c *Reservations) Fulfill(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	reservationUUID := vars["reservationUUID"]

	reservation, err := c.app.FulfillReservation(reservationUUID)
	if err != nil {
		handleJSONError(w, err, "fulfilling reservation")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentReservation(reservation))
}

// Queue handles listing a book's reservation queue in priority order
func (c *Reservations) Queue(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookUUID := vars["bookUUID"]

	book, err := c.app.GetBookByUUID(bookUUID)
	if err != nil {
		handleJSONError(w, err, "finding book")
		return
	}

	queue, err := c.app.GetBookQueue(book.ID)
	if err != nil {
		handleJSONError(w, err, "listing queue")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentReservations(queue))
}
