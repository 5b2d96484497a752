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
	"github.com/i200219/library-management/pkg/server/presenters"
)

// NewAdmin creates a new Admin controller
func NewAdmin(app *app.App) *Admin {
	return &Admin{app: app}
}

// Admin is a controller for administrative operations
type Admin struct {
	app *app.App
}

// ListUsers handles listing registered users
func (a *Admin) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.app.ListUsers()
	if err != nil {
		handleJSONError(w, err, "listing users")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentUsers(users))
}

// ShowUser handles getting a single user
func (a *Admin) ShowUser(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userUUID := vars["userUUID"]

	user, err := a.app.GetUserByUUID(userUUID)
	if err != nil {
		handleJSONError(w, err, "finding user")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentUser(user))
}

type updateUserForm struct {
	Role   *string `schema:"role" json:"role"`
	Status *string `schema:"status" json:"status"`
}

// UpdateUser handles changing a user's role or account status
func (a *Admin) UpdateUser(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userUUID := vars["userUUID"]

	var form updateUserForm
	if err := parseRequestData(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	user, err := a.app.UpdateUser(userUUID, app.UpdateUserParams{
		Role:   form.Role,
		Status: form.Status,
	})
	if err != nil {
		handleJSONError(w, err, "updating user")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentUser(user))
}

// RemoveUser handles removing a user's account
func (a *Admin) RemoveUser(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userUUID := vars["userUUID"]

	if err := a.app.RemoveUser(userUUID); err != nil {
		handleJSONError(w, err, "removing user")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Stats handles reporting library-wide counts
func (a *Admin) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.app.GetStats()
	if err != nil {
		handleJSONError(w, err, "computing stats")
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

// ExpireReservations handles sweeping overdue reservations
func (a *Admin) ExpireReservations(w http.ResponseWriter, r *http.Request) {
	expired, err := a.app.ExpireOverdueReservations()
	if err != nil {
		handleJSONError(w, err, "expiring reservations")
		return
	}

	respondJSON(w, http.StatusOK, struct {
		Expired int64 `json:"expired"`
	}{Expired: expired})
}
