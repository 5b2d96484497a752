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

package users

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/i200219/library-management/pkg/cli/client"
	"github.com/i200219/library-management/pkg/cli/context"
	"github.com/i200219/library-management/pkg/cli/infra"
	"github.com/i200219/library-management/pkg/cli/log"
)

var example = `
  * List registered users
  libris users

  * List only users awaiting approval
  libris users --pending

  * Approve a user
  libris users approve 5a2c67e5-6b21-41d7-9a43-13e9a2c67e56`

var pendingFlag bool

// NewCmd returns a new users command. All subcommands require an
// admin session.
func NewCmd(ctx context.LibrisCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Short:   "Manage library members",
		Example: example,
		RunE:    newListRun(ctx),
	}

	f := cmd.Flags()
	f.BoolVar(&pendingFlag, "pending", false, "only show users awaiting approval")

	cmd.AddCommand(newApproveCmd(ctx))

	return cmd
}

func newListRun(ctx context.LibrisCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		users, err := client.GetUsers(ctx)
		if err != nil {
			return errors.Wrap(err, "getting users")
		}

		shown := 0
		for _, user := range users {
			if pendingFlag && user.Status != "PENDING" {
				continue
			}
			shown++

			var status string
			switch user.Status {
			case "APPROVED":
				status = log.ColorGreen.Sprint(user.Status)
			case "PENDING":
				status = log.ColorYellow.Sprint(user.Status)
			default:
				status = log.ColorRed.Sprint(user.Status)
			}

			log.Plainf("%s <%s> %s %s %s\n",
				user.FullName, user.Email, user.Role, status, log.ColorGray.Sprint(user.UUID))
		}

		if shown == 0 {
			log.Plain("no users found\n")
		}

		return nil
	}
}

func newApproveCmd(ctx context.LibrisCtx) *cobra.Command {
	return &cobra.Command{
		Use:   "approve <user uuid>",
		Short: "Approve a pending user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := client.UpdateUserStatus(ctx, args[0], "APPROVED")
			if err != nil {
				return errors.Wrap(err, "approving user")
			}

			log.Successf("approved %s <%s>\n", user.FullName, user.Email)

			return nil
		},
	}
}
