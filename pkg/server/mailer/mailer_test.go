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

package mailer

import (
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/i200219/library-management/pkg/assert"
)

func TestExecuteWelcome(t *testing.T) {
	T := NewTemplates()

	subject, body, err := T.Execute(EmailTypeWelcome, EmailKindText, WelcomeTmplData{
		FullName: "Sarah Chen",
		WebURL:   "http://localhost:3001",
	})
	if err != nil {
		t.Fatal(errors.Wrap(err, "executing welcome template"))
	}

	assert.Equal(t, subject, "Welcome to the library", "subject mismatch")
	assert.Equal(t, strings.Contains(body, "Sarah Chen"), true, "body should contain the full name")
	assert.Equal(t, strings.Contains(body, "http://localhost:3001"), true, "body should contain the web url")
}

func TestExecuteResetPassword(t *testing.T) {
	T := NewTemplates()

	subject, body, err := T.Execute(EmailTypeResetPassword, EmailKindText, EmailResetPasswordTmplData{
		AccountEmail: "user@example.com",
		Token:        "some-token",
		WebURL:       "http://localhost:3001",
	})
	if err != nil {
		t.Fatal(errors.Wrap(err, "executing reset password template"))
	}

	assert.Equal(t, subject, "Reset your library password", "subject mismatch")
	assert.Equal(t, strings.Contains(body, "/password-reset/some-token"), true, "body should contain the reset link")
}

func TestExecuteReservationReady(t *testing.T) {
	T := NewTemplates()

	subject, body, err := T.Execute(EmailTypeReservationReady, EmailKindText, ReservationReadyTmplData{
		FullName:  "Sarah Chen",
		BookTitle: "The Go Programming Language",
		WebURL:    "http://localhost:3001",
	})
	if err != nil {
		t.Fatal(errors.Wrap(err, "executing reservation ready template"))
	}

	assert.Equal(t, subject, "Your reserved book is ready", "subject mismatch")
	assert.Equal(t, strings.Contains(body, "The Go Programming Language"), true, "body should contain the book title")
}

func TestExecuteUnknownTemplate(t *testing.T) {
	T := NewTemplates()

	_, _, err := T.Execute("nonexistent", EmailKindText, nil)
	assert.NotEqual(t, err, nil, "expected error for unknown template")
}
