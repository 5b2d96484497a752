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

// Package client provides interfaces for interacting with the API server
// and the data structures for responses
package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/i200219/library-management/pkg/cli/context"
	"github.com/i200219/library-management/pkg/cli/log"
)

// ErrInvalidLogin is an error for invalid credentials for login
var ErrInvalidLogin = errors.New("wrong credentials")

// ErrContentTypeMismatch is an error for an unexpected response content type
var ErrContentTypeMismatch = errors.New("content type mismatch")

// HTTPError represents an HTTP error response from the server
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf(`response %d "%s"`, e.StatusCode, e.Message)
}

// IsConflict returns true if the error is a 409 Conflict error
func (e *HTTPError) IsConflict() bool {
	return e.StatusCode == 409
}

var contentTypeApplicationJSON = "application/json"
var contentTypeNone = ""

// requestOptions contains options for requests
type requestOptions struct {
	HTTPClient *http.Client
	// ExpectedContentType is the Content-Type that the client is expecting from the server
	ExpectedContentType *string
}

const (
	// clientRateLimitPerSecond is the max requests per second the client will make
	clientRateLimitPerSecond = 50
	// clientRateLimitBurst is the burst capacity for rate limiting
	clientRateLimitBurst = 100
)

// rateLimitedTransport wraps an http.RoundTripper with rate limiting
type rateLimitedTransport struct {
	transport http.RoundTripper
	limiter   *rate.Limiter
}

func (t *rateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.transport.RoundTrip(req)
}

// NewRateLimitedHTTPClient creates an HTTP client with rate limiting
func NewRateLimitedHTTPClient() *http.Client {
	interval := time.Second / time.Duration(clientRateLimitPerSecond)

	transport := &rateLimitedTransport{
		transport: http.DefaultTransport,
		limiter:   rate.NewLimiter(rate.Every(interval), clientRateLimitBurst),
	}
	return &http.Client{
		Transport: transport,
	}
}

func getHTTPClient(ctx context.LibrisCtx, options *requestOptions) *http.Client {
	if options != nil && options.HTTPClient != nil {
		return options.HTTPClient
	}

	if ctx.HTTPClient != nil {
		return ctx.HTTPClient
	}

	return &http.Client{}
}

func getExpectedContentType(options *requestOptions) string {
	if options != nil && options.ExpectedContentType != nil {
		return *options.ExpectedContentType
	}

	return contentTypeApplicationJSON
}

func getReq(ctx context.LibrisCtx, path, method, body string) (*http.Request, error) {
	endpoint := fmt.Sprintf("%s%s", ctx.APIEndpoint, path)
	req, err := http.NewRequest(method, endpoint, strings.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "constructing http request")
	}

	req.Header.Set("CLI-Version", ctx.Version)
	if body != "" {
		req.Header.Set("Content-Type", contentTypeApplicationJSON)
	}

	if ctx.SessionKey != "" {
		credential := fmt.Sprintf("Bearer %s", ctx.SessionKey)
		req.Header.Set("Authorization", credential)
	}

	return req, nil
}

// checkRespErr checks if the given http response indicates an error. It returns
// a decoded error if so.
func checkRespErr(res *http.Response) error {
	if res.StatusCode < 400 {
		return nil
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return errors.Wrapf(err, "server responded with %d but client could not read the response body", res.StatusCode)
	}

	message := strings.TrimRight(string(body), "\n")

	// Error payloads are JSON; fall back to the raw body
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		message = payload.Error
	}

	return &HTTPError{
		StatusCode: res.StatusCode,
		Message:    message,
	}
}

func checkContentType(res *http.Response, options *requestOptions) error {
	expected := getExpectedContentType(options)
	if expected == contentTypeNone {
		return nil
	}

	got := res.Header.Get("Content-Type")
	if got != expected {
		return errors.Wrapf(ErrContentTypeMismatch, "got: '%s' want: '%s'. Did you configure your endpoint correctly?", got, expected)
	}

	return nil
}

// doReq does a http request to the given path in the api endpoint
func doReq(ctx context.LibrisCtx, method, path, body string, options *requestOptions) (*http.Response, error) {
	req, err := getReq(ctx, path, method, body)
	if err != nil {
		return nil, errors.Wrap(err, "getting request")
	}

	log.Debug("HTTP %s %s\n", method, path)

	hc := getHTTPClient(ctx, options)
	res, err := hc.Do(req)
	if err != nil {
		return res, errors.Wrap(err, "making http request")
	}

	log.Debug("HTTP %d %s\n", res.StatusCode, res.Status)

	if err = checkRespErr(res); err != nil {
		return res, errors.Wrap(err, "server responded with an error")
	}

	if err = checkContentType(res, options); err != nil {
		return res, errors.Wrap(err, "unexpected Content-Type")
	}

	return res, nil
}

// doAuthorizedReq does a http request to the given path in the api endpoint as a user,
// with the appropriate headers. The given path should include the preceding slash.
func doAuthorizedReq(ctx context.LibrisCtx, method, path, body string, options *requestOptions) (*http.Response, error) {
	if ctx.SessionKey == "" {
		return nil, errors.New("no session key found")
	}

	return doReq(ctx, method, path, body, options)
}

// RespUser is a user in a response
type RespUser struct {
	UUID      string    `json:"uuid"`
	CreatedAt time.Time `json:"created_at"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
}

// SigninPayload is a payload for the signin endpoint
type SigninPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SigninResponse is a response from the signin endpoint
type SigninResponse struct {
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
	User      RespUser  `json:"user"`
}

// Signin requests a session token
func Signin(ctx context.LibrisCtx, email, password string) (SigninResponse, error) {
	payload := SigninPayload{
		Email:    email,
		Password: password,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return SigninResponse{}, errors.Wrap(err, "marshaling payload")
	}
	res, err := doReq(ctx, "POST", "/login", string(b), nil)
	if err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusUnauthorized {
			return SigninResponse{}, ErrInvalidLogin
		}
		return SigninResponse{}, errors.Wrap(err, "making http request")
	}

	var resp SigninResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return SigninResponse{}, errors.Wrap(err, "decoding payload")
	}

	return resp, nil
}

// Signout deletes a user session on the server side
func Signout(ctx context.LibrisCtx) error {
	opts := requestOptions{
		ExpectedContentType: &contentTypeNone,
	}
	_, err := doAuthorizedReq(ctx, "POST", "/logout", "", &opts)
	if err != nil {
		return errors.Wrap(err, "making http request")
	}

	return nil
}

// RespBook is a book in a response
type RespBook struct {
	UUID            string    `json:"uuid"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	Genre           string    `json:"genre"`
	Description     string    `json:"description"`
	Summary         string    `json:"summary"`
	Rating          float64   `json:"rating"`
	TotalCopies     int       `json:"total_copies"`
	AvailableCopies int       `json:"available_copies"`
}

// GetBooks gets books from the server, optionally filtered by a search term
func GetBooks(ctx context.LibrisCtx, search string) ([]RespBook, error) {
	path := "/books"
	if search != "" {
		v := url.Values{}
		v.Set("search", search)
		path = fmt.Sprintf("%s?%s", path, v.Encode())
	}

	res, err := doReq(ctx, "GET", path, "", nil)
	if err != nil {
		return nil, errors.Wrap(err, "making http request")
	}

	var resp []RespBook
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return nil, errors.Wrap(err, "decoding payload")
	}

	return resp, nil
}

// RespAvailability is the availability evaluation in a response
type RespAvailability struct {
	IsAvailable bool   `json:"is_available"`
	Reason      string `json:"reason"`
	Details     struct {
		TotalCopies     int `json:"total_copies"`
		AvailableCopies int `json:"available_copies"`
		BorrowedCopies  int `json:"borrowed_copies"`
	} `json:"details"`
}

// GetBookAvailability evaluates a book's availability on the server
func GetBookAvailability(ctx context.LibrisCtx, bookUUID string) (RespAvailability, error) {
	path := fmt.Sprintf("/books/%s/availability", bookUUID)
	res, err := doReq(ctx, "GET", path, "", nil)
	if err != nil {
		return RespAvailability{}, errors.Wrap(err, "making http request")
	}

	var resp RespAvailability
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return RespAvailability{}, errors.Wrap(err, "decoding payload")
	}

	return resp, nil
}

// GetUsers lists registered users. Requires an admin session.
func GetUsers(ctx context.LibrisCtx) ([]RespUser, error) {
	res, err := doAuthorizedReq(ctx, "GET", "/admin/users", "", nil)
	if err != nil {
		return nil, errors.Wrap(err, "making http request")
	}

	var resp []RespUser
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return nil, errors.Wrap(err, "decoding payload")
	}

	return resp, nil
}

type updateUserPayload struct {
	Role   *string `json:"role,omitempty"`
	Status *string `json:"status,omitempty"`
}

// UpdateUserStatus changes a user's account status. Requires an admin session.
func UpdateUserStatus(ctx context.LibrisCtx, userUUID, status string) (RespUser, error) {
	payload := updateUserPayload{Status: &status}
	b, err := json.Marshal(payload)
	if err != nil {
		return RespUser{}, errors.Wrap(err, "marshaling payload")
	}

	path := fmt.Sprintf("/admin/users/%s", userUUID)
	res, err := doAuthorizedReq(ctx, "PATCH", path, string(b), nil)
	if err != nil {
		return RespUser{}, errors.Wrap(err, "making http request")
	}

	var resp RespUser
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return RespUser{}, errors.Wrap(err, "decoding payload")
	}

	return resp, nil
}

// RespStats holds library-wide counts
type RespStats struct {
	TotalBooks         int64 `json:"total_books"`
	TotalUsers         int64 `json:"total_users"`
	PendingUsers       int64 `json:"pending_users"`
	ActiveBorrows      int64 `json:"active_borrows"`
	OverdueBorrows     int64 `json:"overdue_borrows"`
	ActiveReservations int64 `json:"active_reservations"`
}

// GetStats reports library-wide counts. Requires an admin session.
func GetStats(ctx context.LibrisCtx) (RespStats, error) {
	res, err := doAuthorizedReq(ctx, "GET", "/admin/stats", "", nil)
	if err != nil {
		return RespStats{}, errors.Wrap(err, "making http request")
	}

	var resp RespStats
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return RespStats{}, errors.Wrap(err, "decoding payload")
	}

	return resp, nil
}
