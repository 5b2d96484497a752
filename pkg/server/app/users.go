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
	"errors"

	pkgErrors "github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/i200219/library-management/pkg/server/database"
	"github.com/i200219/library-management/pkg/server/helpers"
	"github.com/i200219/library-management/pkg/server/log"
)

// TouchLastLoginAt updates the last login timestamp
func (a *App) TouchLastLoginAt(user database.User, tx *gorm.DB) error {
	t := a.Clock.Now()
	if err := tx.Model(&user).Update("last_login_at", &t).Error; err != nil {
		return pkgErrors.Wrap(err, "updating last_login_at")
	}

	return nil
}

// CreateUser registers a new account. The account starts in the pending
// status and cannot borrow until an admin approves it.
func (a *App) CreateUser(fullName, email, password, passwordConfirmation string) (database.User, error) {
	if fullName == "" {
		return database.User{}, ErrFullNameRequired
	}
	if email == "" {
		return database.User{}, ErrEmailRequired
	}
	if len(password) < 8 {
		return database.User{}, ErrPasswordTooShort
	}
	if password != passwordConfirmation {
		return database.User{}, ErrPasswordConfirmationMismatch
	}

	tx := a.DB.Begin()

	var count int64
	if err := tx.Model(database.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		tx.Rollback()
		return database.User{}, pkgErrors.Wrap(err, "counting user")
	}
	if count > 0 {
		tx.Rollback()
		return database.User{}, ErrDuplicateEmail
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		tx.Rollback()
		return database.User{}, pkgErrors.Wrap(err, "hashing password")
	}

	uuid, err := helpers.GenUUID()
	if err != nil {
		tx.Rollback()
		return database.User{}, err
	}

	user := database.User{
		UUID:     uuid,
		FullName: fullName,
		Email:    database.ToNullString(email),
		Password: database.ToNullString(string(hashedPassword)),
		Role:     database.UserRoleUser,
		Status:   database.UserStatusPending,
	}
	if err = tx.Save(&user).Error; err != nil {
		tx.Rollback()
		return database.User{}, pkgErrors.Wrap(err, "saving user")
	}

	if err := a.TouchLastLoginAt(user, tx); err != nil {
		tx.Rollback()
		return database.User{}, pkgErrors.Wrap(err, "updating last login")
	}

	tx.Commit()

	return user, nil
}

// Authenticate authenticates a user
func (a *App) Authenticate(email, password string) (*database.User, error) {
	var user database.User
	err := a.DB.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.Password.String), []byte(password))
	if err != nil {
		return nil, ErrLoginInvalid
	}

	return &user, nil
}

// SignIn signs in a user
func (a *App) SignIn(user *database.User) (*database.Session, error) {
	err := a.TouchLastLoginAt(*user, a.DB)
	if err != nil {
		log.ErrorWrap(err, "touching login timestamp")
	}

	session, err := a.CreateSession(user.ID)
	if err != nil {
		return nil, pkgErrors.Wrap(err, "creating session")
	}

	return &session, nil
}

// UpdateUserPassword hashes and updates the password of the given user
func UpdateUserPassword(db *gorm.DB, user *database.User, password string) error {
	if len(password) < 8 {
		return ErrPasswordTooShort
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return pkgErrors.Wrap(err, "hashing password")
	}

	user.Password = database.ToNullString(string(hashedPassword))
	if err := db.Save(user).Error; err != nil {
		return pkgErrors.Wrap(err, "saving user")
	}

	return nil
}

// GetUserByUUID finds a user with the given uuid
func (a *App) GetUserByUUID(uuid string) (database.User, error) {
	var user database.User
	err := a.DB.Where("uuid = ?", uuid).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return database.User{}, ErrNotFound
	} else if err != nil {
		return database.User{}, pkgErrors.Wrap(err, "finding user")
	}

	return user, nil
}

// GetUserByEmail finds a user with the given email
func (a *App) GetUserByEmail(email string) (database.User, error) {
	var user database.User
	err := a.DB.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return database.User{}, ErrNotFound
	} else if err != nil {
		return database.User{}, pkgErrors.Wrap(err, "finding user")
	}

	return user, nil
}

// ListUsers returns all users ordered by registration time
func (a *App) ListUsers() ([]database.User, error) {
	var users []database.User
	if err := a.DB.Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "finding users")
	}

	return users, nil
}

// UpdateUserParams holds the user fields an admin may change
type UpdateUserParams struct {
	Role   *string
	Status *string
}

// UpdateUser applies the given role and status changes to the user with the
// given uuid. Approving a pending account makes it eligible to borrow.
func (a *App) UpdateUser(uuid string, params UpdateUserParams) (database.User, error) {
	user, err := a.GetUserByUUID(uuid)
	if err != nil {
		return database.User{}, err
	}

	if params.Role != nil {
		user.Role = *params.Role
	}
	if params.Status != nil {
		user.Status = *params.Status
	}

	if err := a.DB.Save(&user).Error; err != nil {
		return database.User{}, pkgErrors.Wrap(err, "saving user")
	}

	return user, nil
}

// RemoveUser deletes the user with the given uuid along with their sessions.
// A user holding borrowed books cannot be removed.
func (a *App) RemoveUser(uuid string) error {
	user, err := a.GetUserByUUID(uuid)
	if err != nil {
		return err
	}

	var count int64
	err = a.DB.Model(database.BorrowRecord{}).
		Where("user_id = ? AND status = ?", user.ID, database.BorrowStatusBorrowed).
		Count(&count).Error
	if err != nil {
		return pkgErrors.Wrap(err, "counting active borrows")
	}
	if count > 0 {
		return ErrUserHasActiveBorrows
	}

	tx := a.DB.Begin()

	if err := a.DeleteUserSessions(tx, user.ID); err != nil {
		tx.Rollback()
		return pkgErrors.Wrap(err, "deleting sessions")
	}
	if err := tx.Where("user_id = ?", user.ID).Delete(&database.Token{}).Error; err != nil {
		tx.Rollback()
		return pkgErrors.Wrap(err, "deleting tokens")
	}
	if err := tx.Delete(&user).Error; err != nil {
		tx.Rollback()
		return pkgErrors.Wrap(err, "deleting user")
	}

	tx.Commit()

	return nil
}
