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

package logout

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/i200219/library-management/pkg/cli/client"
	"github.com/i200219/library-management/pkg/cli/config"
	"github.com/i200219/library-management/pkg/cli/context"
	"github.com/i200219/library-management/pkg/cli/infra"
	"github.com/i200219/library-management/pkg/cli/log"
)

var example = `
  libris logout`

var apiEndpointFlag string

// NewCmd returns a new logout command
func NewCmd(ctx context.LibrisCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "logout",
		Short:   "Logout from the server",
		Example: example,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.StringVar(&apiEndpointFlag, "apiEndpoint", "", "API endpoint to connect to (defaults to value in config)")

	return cmd
}

// Do performs logout
func Do(ctx context.LibrisCtx) error {
	if ctx.SessionKey == "" {
		return config.ErrNotLoggedIn
	}

	if err := client.Signout(ctx); err != nil {
		return errors.Wrap(err, "requesting logout")
	}

	if err := config.DeleteSession(ctx); err != nil {
		return errors.Wrap(err, "deleting session")
	}

	return nil
}

func newRun(ctx context.LibrisCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		if apiEndpointFlag != "" {
			ctx.APIEndpoint = apiEndpointFlag
		}

		err := Do(ctx)
		if errors.Is(err, config.ErrNotLoggedIn) {
			log.Error("not logged in\n")
			return nil
		} else if err != nil {
			return errors.Wrap(err, "logging out")
		}

		log.Success("logged out\n")

		return nil
	}
}
