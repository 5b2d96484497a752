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
	"errors"
	"net/http"
	"time"

	"gorm.io/gorm"
	pkgErrors "github.com/pkg/errors"

	"github.com/i200219/library-management/pkg/server/app"
	"github.com/i200219/library-management/pkg/server/context"
	"github.com/i200219/library-management/pkg/server/database"
	"github.com/i200219/library-management/pkg/server/log"
	mw "github.com/i200219/library-management/pkg/server/middleware"
	"github.com/i200219/library-management/pkg/server/presenters"
	"github.com/i200219/library-management/pkg/server/token"
)

// NewUsers creates a new Users controller
func NewUsers(app *app.App) *Users {
	return &Users{app: app}
}

// Users is a user controller
type Users struct {
	app *app.App
}

// RegistrationForm is the form data for registering
type RegistrationForm struct {
	FullName             string `schema:"full_name" json:"full_name"`
	Email                string `schema:"email" json:"email"`
	Password             string `schema:"password" json:"password"`
	PasswordConfirmation string `schema:"password_confirmation" json:"password_confirmation"`
}

// Register handles registration. The new account starts pending and waits
// for admin approval.
func (u *Users) Register(w http.ResponseWriter, r *http.Request) {
	var form RegistrationForm
	if err := parseRequestData(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	user, err := u.app.CreateUser(form.FullName, form.Email, form.Password, form.PasswordConfirmation)
	if err != nil {
		handleJSONError(w, err, "creating user")
		return
	}

	session, err := u.app.SignIn(&user)
	if err != nil {
		handleJSONError(w, err, "signing in a user")
		return
	}

	if err := u.app.SendWelcomeEmail(form.FullName, form.Email); err != nil {
		log.ErrorWrap(err, "sending welcome email")
	}

	respondWithSession(w, http.StatusCreated, session, user)
}

// LoginForm is the form data for log in
type LoginForm struct {
	Email    string `schema:"email" json:"email"`
	Password string `schema:"password" json:"password"`
}

func (u *Users) login(form LoginForm) (*database.User, *database.Session, error) {
	if form.Email == "" {
		return nil, nil, app.ErrEmailRequired
	}
	if form.Password == "" {
		return nil, nil, app.ErrPasswordRequired
	}

	user, err := u.app.Authenticate(form.Email, form.Password)
	if err != nil {
		// If the user is not found, treat it as invalid login
		if err == app.ErrNotFound {
			return nil, nil, app.ErrLoginInvalid
		}

		return nil, nil, err
	}

	s, err := u.app.SignIn(user)
	if err != nil {
		return nil, nil, err
	}

	return user, s, nil
}

// Login handles login
func (u *Users) Login(w http.ResponseWriter, r *http.Request) {
	var form LoginForm
	if err := parseRequestData(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	user, session, err := u.login(form)
	if err != nil {
		handleJSONError(w, err, "logging in user")
		return
	}

	respondWithSession(w, http.StatusOK, session, *user)
}

// Logout handles logout
func (u *Users) Logout(w http.ResponseWriter, r *http.Request) {
	key, err := mw.GetCredential(r)
	if err != nil {
		handleJSONError(w, err, "getting credentials")
		return
	}

	if key != "" {
		if err = u.app.DeleteSession(key); err != nil {
			handleJSONError(w, err, "deleting session")
			return
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

// Me returns the authenticated user
func (u *Users) Me(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		handleJSONError(w, app.ErrLoginRequired, "No authenticated user found")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentUser(*user))
}

type createResetTokenPayload struct {
	Email string `schema:"email" json:"email"`
}

// CreateResetToken generates a password reset token and emails it.
// Unknown emails are ignored without an error so that the endpoint does
// not reveal which addresses are registered.
func (u *Users) CreateResetToken(w http.ResponseWriter, r *http.Request) {
	var form createResetTokenPayload
	if err := parseRequestData(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	if form.Email == "" {
		handleJSONError(w, app.ErrEmailRequired, "email is not provided")
		return
	}

	var user database.User
	err := u.app.DB.Where("email = ?", form.Email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		handleJSONError(w, err, "finding user")
		return
	}

	resetToken, err := token.Create(u.app.DB, user.ID, database.TokenTypeResetPassword)
	if err != nil {
		handleJSONError(w, err, "generating token")
		return
	}

	if err := u.app.SendPasswordResetEmail(user.Email.String, resetToken.Value); err != nil {
		handleJSONError(w, err, "sending password reset email")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type resetPasswordPayload struct {
	Password             string `schema:"password" json:"password"`
	PasswordConfirmation string `schema:"password_confirmation" json:"password_confirmation"`
	Token                string `schema:"token" json:"token"`
}

// PasswordReset resets the password using a reset token
func (u *Users) PasswordReset(w http.ResponseWriter, r *http.Request) {
	var params resetPasswordPayload
	if err := parseRequestData(r, &params); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	if params.Password != params.PasswordConfirmation {
		handleJSONError(w, app.ErrPasswordConfirmationMismatch, "password mismatch")
		return
	}

	var tok database.Token
	err := u.app.DB.Where("value = ? AND type = ? AND used_at IS NULL", params.Token, database.TokenTypeResetPassword).First(&tok).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		handleJSONError(w, app.ErrInvalidToken, "invalid token")
		return
	}
	if err != nil {
		handleJSONError(w, err, "finding token")
		return
	}

	// Expire after 10 minutes
	if time.Since(tok.CreatedAt).Minutes() > 10 {
		handleJSONError(w, app.ErrPasswordResetTokenExpired, "expired token")
		return
	}

	var user database.User
	if err := u.app.DB.Where("id = ?", tok.UserID).First(&user).Error; err != nil {
		handleJSONError(w, err, "finding user")
		return
	}

	tx := u.app.DB.Begin()

	if err := app.UpdateUserPassword(tx, &user, params.Password); err != nil {
		tx.Rollback()
		handleJSONError(w, err, "updating password")
		return
	}

	if err := tx.Model(&tok).Update("used_at", time.Now()).Error; err != nil {
		tx.Rollback()
		handleJSONError(w, pkgErrors.Wrap(err, "updating token"), "updating password reset token")
		return
	}

	if err := u.app.DeleteUserSessions(tx, user.ID); err != nil {
		tx.Rollback()
		handleJSONError(w, err, "deleting user sessions")
		return
	}

	tx.Commit()

	if err := u.app.SendPasswordResetAlertEmail(user.Email.String); err != nil {
		log.ErrorWrap(err, "sending password reset alert email")
	}

	w.WriteHeader(http.StatusNoContent)
}
