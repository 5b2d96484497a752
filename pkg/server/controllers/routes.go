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
	"github.com/pkg/errors"

	"github.com/i200219/library-management/pkg/server/app"
	mw "github.com/i200219/library-management/pkg/server/middleware"
)

// Route represents a single route
type Route struct {
	Method    string
	Pattern   string
	Handler   http.HandlerFunc
	RateLimit bool
}

// RouteConfig is the configuration for routes
type RouteConfig struct {
	Controllers *Controllers
	APIRoutes   []Route
}

// NewAPIRoutes returns the api routes
func NewAPIRoutes(a *app.App, c *Controllers) []Route {
	ret := []Route{
		{"POST", "/login", c.Users.Login, true},
		{"POST", "/logout", c.Users.Logout, true},
		{"GET", "/me", mw.Auth(a.DB, c.Users.Me), true},
		{"POST", "/reset-token", c.Users.CreateResetToken, true},
		{"PATCH", "/password-reset", c.Users.PasswordReset, true},

		{"GET", "/books", c.Books.Index, true},
		{"GET", "/books/{bookUUID}", c.Books.Show, true},
		{"GET", "/books/{bookUUID}/availability", c.Books.Availability, true},
		{"GET", "/books/{bookUUID}/eligibility", mw.Auth(a.DB, c.Books.Eligibility), true},
		{"POST", "/books", mw.AdminOnly(a.DB, c.Books.Create), true},
		{"PATCH", "/books/{bookUUID}", mw.AdminOnly(a.DB, c.Books.Update), true},
		{"DELETE", "/books/{bookUUID}", mw.AdminOnly(a.DB, c.Books.Delete), true},

		{"POST", "/books/{bookUUID}/borrow", mw.Auth(a.DB, c.Borrows.Borrow), true},
		{"POST", "/books/{bookUUID}/return", mw.Auth(a.DB, c.Borrows.Return), true},
		{"GET", "/books/{bookUUID}/borrow-status", mw.Auth(a.DB, c.Borrows.Status), true},
		{"GET", "/borrows", mw.Auth(a.DB, c.Borrows.Mine), true},
		{"GET", "/books/{bookUUID}/borrows", mw.AdminOnly(a.DB, c.Borrows.BookHistory), true},
		{"GET", "/admin/borrows", mw.AdminOnly(a.DB, c.Borrows.Index), true},

		{"POST", "/books/{bookUUID}/reservations", mw.Auth(a.DB, c.Reservations.Create), true},
		{"GET", "/reservations", mw.Auth(a.DB, c.Reservations.Mine), true},
		{"GET", "/reservations/{reservationUUID}", mw.Auth(a.DB, c.Reservations.Show), true},
		{"DELETE", "/reservations/{reservationUUID}", mw.Auth(a.DB, c.Reservations.Cancel), true},
		{"POST", "/reservations/{reservationUUID}/fulfill", mw.AdminOnly(a.DB, c.Reservations.Fulfill), true},
		{"GET", "/books/{bookUUID}/queue", mw.AdminOnly(a.DB, c.Reservations.Queue), true},

		{"GET", "/admin/users", mw.AdminOnly(a.DB, c.Admin.ListUsers), true},
		{"GET", "/admin/users/{userUUID}", mw.AdminOnly(a.DB, c.Admin.ShowUser), true},
		{"PATCH", "/admin/users/{userUUID}", mw.AdminOnly(a.DB, c.Admin.UpdateUser), true},
		{"DELETE", "/admin/users/{userUUID}", mw.AdminOnly(a.DB, c.Admin.RemoveUser), true},
		{"GET", "/admin/stats", mw.AdminOnly(a.DB, c.Admin.Stats), true},
		{"POST", "/admin/reservations/expire", mw.AdminOnly(a.DB, c.Admin.ExpireReservations), true},

		{"GET", "/health", c.Health.Index, true},
	}

	if !a.DisableRegistration {
		ret = append(ret, Route{"POST", "/register", c.Users.Register, true})
	}

	return ret
}

func registerRoutes(router *mux.Router, routes []Route) {
	for _, route := range routes {
		handler := mw.ApplyLimit(route.Handler, route.RateLimit)

		router.
			Handle(route.Pattern, handler).
			Methods(route.Method)
	}
}

// NewRouter creates and returns a new router
func NewRouter(a *app.App, rc RouteConfig) (http.Handler, error) {
	if err := a.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating the app parameters")
	}

	router := mux.NewRouter().StrictSlash(true)

	apiRouter := router.PathPrefix("/api/v1").Subrouter()
	registerRoutes(apiRouter, rc.APIRoutes)

	router.HandleFunc("/health", rc.Controllers.Health.Index)
	router.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("User-agent: *\nAllow: /"))
	})

	return mw.Global(router), nil
}
