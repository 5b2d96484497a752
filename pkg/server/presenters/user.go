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

// User is a result of PresentUser
type User struct {
	UUID      string    `json:"uuid"`
	CreatedAt time.Time `json:"created_at"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
}

// PresentUser presents a user
func PresentUser(user database.User) User {
	return User{
		UUID:      user.UUID,
		CreatedAt: FormatTS(user.CreatedAt),
		FullName:  user.FullName,
		Email:     user.Email.String,
		Role:      user.Role,
		Status:    user.Status,
	}
}

// PresentUsers presents users
func PresentUsers(users []database.User) []User {
	ret := []User{}

	for _, user := range users {
		p := PresentUser(user)
		ret = append(ret, p)
	}

	return ret
}
