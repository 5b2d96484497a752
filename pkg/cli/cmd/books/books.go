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

package books

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/i200219/library-management/pkg/cli/client"
	"github.com/i200219/library-management/pkg/cli/context"
	"github.com/i200219/library-management/pkg/cli/infra"
	"github.com/i200219/library-management/pkg/cli/log"
)

var example = `
  * List all books in the catalog
  libris books

  * Search the catalog
  libris books --search golang

  * Check a book's availability
  libris books availability 5a2c67e5-6b21-41d7-9a43-13e9a2c67e56`

var searchFlag string

// NewCmd returns a new books command
func NewCmd(ctx context.LibrisCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "books",
		Short:   "Browse the book catalog",
		Example: example,
		RunE:    newListRun(ctx),
	}

	f := cmd.Flags()
	f.StringVar(&searchFlag, "search", "", "filter books by title, author or genre")

	cmd.AddCommand(newAvailabilityCmd(ctx))

	return cmd
}

func newListRun(ctx context.LibrisCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		books, err := client.GetBooks(ctx, searchFlag)
		if err != nil {
			return errors.Wrap(err, "getting books")
		}

		if len(books) == 0 {
			log.Plain("no books found\n")
			return nil
		}

		for _, book := range books {
			var marker string
			if book.AvailableCopies > 0 {
				marker = log.ColorGreen.Sprint("●")
			} else {
				marker = log.ColorRed.Sprint("●")
			}

			log.Plainf("%s %s by %s (%d/%d available) %s\n",
				marker, book.Title, book.Author, book.AvailableCopies, book.TotalCopies, log.ColorGray.Sprint(book.UUID))
		}

		return nil
	}
}

func newAvailabilityCmd(ctx context.LibrisCtx) *cobra.Command {
	return &cobra.Command{
		Use:   "availability <book uuid>",
		Short: "Check a book's availability",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			availability, err := client.GetBookAvailability(ctx, args[0])
			if err != nil {
				return errors.Wrap(err, "getting availability")
			}

			if availability.IsAvailable {
				log.Successf("%s\n", availability.Reason)
			} else {
				log.Warnf("%s\n", availability.Reason)
			}

			return nil
		},
	}
}
