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

package login

import (
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/i200219/library-management/pkg/cli/client"
	"github.com/i200219/library-management/pkg/cli/config"
	"github.com/i200219/library-management/pkg/cli/context"
	"github.com/i200219/library-management/pkg/cli/infra"
	"github.com/i200219/library-management/pkg/cli/log"
	"github.com/i200219/library-management/pkg/cli/ui"
)

var example = `
  libris login`

var apiEndpointFlag string

// NewCmd returns a new login command
func NewCmd(ctx context.LibrisCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "login",
		Short:   "Login to the server",
		Example: example,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.StringVar(&apiEndpointFlag, "apiEndpoint", "", "API endpoint to connect to (defaults to value in config)")

	return cmd
}

// getServerDisplayURL derives a user-facing server URL from the API endpoint
func getServerDisplayURL(ctx context.LibrisCtx) string {
	u, err := url.Parse(ctx.APIEndpoint)
	if err != nil {
		return ""
	}
	if u.Scheme == "" || u.Host == "" {
		return ""
	}

	return strings.TrimSuffix(ctx.APIEndpoint, u.Path)
}

// Do dials the server with the given credentials and stores the session
func Do(ctx context.LibrisCtx, email, password string) error {
	resp, err := client.Signin(ctx, email, password)
	if err != nil {
		return errors.Wrap(err, "requesting login")
	}

	session := config.Session{
		Key:       resp.Key,
		ExpiresAt: resp.ExpiresAt.Unix(),
	}
	if err := config.WriteSession(ctx, session); err != nil {
		return errors.Wrap(err, "storing session")
	}

	return nil
}

func newRun(ctx context.LibrisCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		if apiEndpointFlag != "" {
			ctx.APIEndpoint = apiEndpointFlag
		}

		if serverURL := getServerDisplayURL(ctx); serverURL != "" {
			log.Infof("logging in to %s\n", serverURL)
		}

		var email, password string
		if err := ui.PromptInput("email", &email); err != nil {
			return errors.Wrap(err, "getting email input")
		}
		if email == "" {
			return errors.New("email is empty")
		}

		if err := ui.PromptPassword("password", &password); err != nil {
			return errors.Wrap(err, "getting password input")
		}
		if password == "" {
			return errors.New("password is empty")
		}

		err := Do(ctx, email, password)
		if errors.Is(err, client.ErrInvalidLogin) {
			log.Error("wrong credentials\n")
			return nil
		} else if err != nil {
			return err
		}

		log.Success("logged in\n")

		return nil
	}
}
