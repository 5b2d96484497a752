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
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/schema"
	pkgErrors "github.com/pkg/errors"

	"github.com/i200219/library-management/pkg/server/app"
	"github.com/i200219/library-management/pkg/server/database"
	"github.com/i200219/library-management/pkg/server/log"
	"github.com/i200219/library-management/pkg/server/presenters"
)

var formDecoder = schema.NewDecoder()

func init() {
	formDecoder.IgnoreUnknownKeys(true)
}

// parseForm parses the request form into dst
func parseForm(r *http.Request, dst interface{}) error {
	if err := r.ParseForm(); err != nil {
		return pkgErrors.Wrap(err, "parsing form")
	}

	if err := formDecoder.Decode(dst, r.PostForm); err != nil {
		return pkgErrors.Wrap(err, "decoding form")
	}

	return nil
}

// parseRequestData parses the request payload into dst. JSON payloads and
// URL-encoded forms are both accepted.
func parseRequestData(r *http.Request, dst interface{}) error {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "application/json") {
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
			return pkgErrors.Wrap(err, "decoding json")
		}

		return nil
	}

	return parseForm(r, dst)
}

// errorResponse is the payload of an error response
type errorResponse struct {
	Error string `json:"error"`
}

// statusCodeForError maps an application error to an HTTP status code.
// Unrecognized errors are treated as internal.
func statusCodeForError(err error) int {
	cause := pkgErrors.Cause(err)

	switch cause {
	case app.ErrNotFound, app.ErrBookNotFound, app.ErrReservationNotFound:
		return http.StatusNotFound
	case app.ErrLoginInvalid, app.ErrLoginRequired:
		return http.StatusUnauthorized
	case app.ErrNotEligible, app.ErrReservationNotOwned:
		return http.StatusForbidden
	case app.ErrBookUnavailable, app.ErrAlreadyBorrowed, app.ErrNoActiveBorrow,
		app.ErrDuplicateReservation, app.ErrBookAvailable, app.ErrReservationNotActive,
		app.ErrDuplicateEmail, app.ErrUserHasActiveBorrows, app.ErrBookHasActiveBorrows:
		return http.StatusConflict
	case app.ErrEmailRequired, app.ErrPasswordRequired, app.ErrFullNameRequired,
		app.ErrPasswordTooShort, app.ErrPasswordConfirmationMismatch,
		app.ErrBookTitleRequired, app.ErrBookCopiesInvalid,
		app.ErrInvalidToken, app.ErrPasswordResetTokenExpired,
		app.ErrInvalidPassword, app.ErrInvalidPasswordChangeInput:
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

// handleJSONError logs the error and responds with its message as JSON
func handleJSONError(w http.ResponseWriter, err error, message string) {
	statusCode := statusCodeForError(err)

	if statusCode >= 500 {
		log.ErrorWrap(err, message)
		respondJSON(w, statusCode, errorResponse{Error: http.StatusText(statusCode)})
		return
	}

	log.WithFields(log.Fields{
		"statusCode": statusCode,
	}).Info(message)

	respondJSON(w, statusCode, errorResponse{Error: pkgErrors.Cause(err).Error()})
}

// respondJSON responds with the JSON-encoding of the given interface
func respondJSON(w http.ResponseWriter, statusCode int, i interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(i); err != nil {
		log.ErrorWrap(err, "encoding response")
	}
}

// sessionResponse is the response payload for a session
type sessionResponse struct {
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
	User      presenters.User `json:"user"`
}

func respondWithSession(w http.ResponseWriter, statusCode int, session *database.Session, user database.User) {
	respondJSON(w, statusCode, sessionResponse{
		Key:       session.Key,
		ExpiresAt: session.ExpiresAt,
		User:      presenters.PresentUser(user),
	})
}

