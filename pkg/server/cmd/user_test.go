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

package cmd

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/i200219/library-management/pkg/assert"
	"github.com/i200219/library-management/pkg/server/database"
	"github.com/i200219/library-management/pkg/server/testutils"
)

func TestUserCreateCmd(t *testing.T) {
	tmpDB := t.TempDir() + "/test.db"

	userCreateCmd([]string{"--dbPath", tmpDB, "--fullName", "Test User", "--email", "test@example.com", "--password", "password123"})

	db := testutils.InitDB(tmpDB)
	defer func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	}()

	var count int64
	testutils.MustExec(t, db.Model(&database.User{}).Count(&count), "counting users")
	assert.Equal(t, count, int64(1), "should have 1 user")

	var user database.User
	testutils.MustExec(t, db.Where("email = ?", "test@example.com").First(&user), "finding user")
	assert.Equal(t, user.Email.String, "test@example.com", "email mismatch")
	assert.Equal(t, user.FullName, "Test User", "full name mismatch")
	assert.Equal(t, user.Status, database.UserStatusApproved, "status mismatch")
	assert.Equal(t, user.Role, database.UserRoleUser, "role mismatch")
}

func TestUserCreateCmd_Admin(t *testing.T) {
	tmpDB := t.TempDir() + "/test.db"

	userCreateCmd([]string{"--dbPath", tmpDB, "--fullName", "Admin User", "--email", "admin@example.com", "--password", "password123", "--admin"})

	db := testutils.InitDB(tmpDB)
	defer func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	}()

	var user database.User
	testutils.MustExec(t, db.Where("email = ?", "admin@example.com").First(&user), "finding user")
	assert.Equal(t, user.Role, database.UserRoleAdmin, "role mismatch")
}

func TestUserRemoveCmd(t *testing.T) {
	tmpDB := t.TempDir() + "/test.db"

	db := testutils.InitDB(tmpDB)
	testutils.SetupUserData(db, "Test User", "test@example.com", "password123")
	sqlDB, _ := db.DB()
	sqlDB.Close()

	mockStdin := strings.NewReader("y\n")
	userRemoveCmd([]string{"--dbPath", tmpDB, "--email", "test@example.com"}, mockStdin)

	db2 := testutils.InitDB(tmpDB)
	defer func() {
		sqlDB2, _ := db2.DB()
		sqlDB2.Close()
	}()

	var count int64
	testutils.MustExec(t, db2.Model(&database.User{}).Count(&count), "counting users")
	assert.Equal(t, count, int64(0), "should have 0 users")
}

func TestUserResetPasswordCmd(t *testing.T) {
	tmpDB := t.TempDir() + "/test.db"

	db := testutils.InitDB(tmpDB)
	user := testutils.SetupUserData(db, "Test User", "test@example.com", "oldpassword123")
	oldPasswordHash := user.Password.String
	sqlDB, _ := db.DB()
	sqlDB.Close()

	userResetPasswordCmd([]string{"--dbPath", tmpDB, "--email", "test@example.com", "--password", "newpassword123"})

	db2 := testutils.InitDB(tmpDB)
	defer func() {
		sqlDB2, _ := db2.DB()
		sqlDB2.Close()
	}()

	var updatedUser database.User
	testutils.MustExec(t, db2.Where("email = ?", "test@example.com").First(&updatedUser), "finding user")

	assert.NotEqual(t, updatedUser.Password.String, oldPasswordHash, "password hash should be different")

	err := bcrypt.CompareHashAndPassword([]byte(updatedUser.Password.String), []byte("newpassword123"))
	assert.Equal(t, err, nil, "new password should match")

	err = bcrypt.CompareHashAndPassword([]byte(updatedUser.Password.String), []byte("oldpassword123"))
	assert.Equal(t, err != nil, true, "old password should not match")
}
