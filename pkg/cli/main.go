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

package main

import (
	"os"

	"github.com/pkg/errors"

	"github.com/i200219/library-management/pkg/cli/infra"
	"github.com/i200219/library-management/pkg/cli/log"

	// commands
	"github.com/i200219/library-management/pkg/cli/cmd/books"
	"github.com/i200219/library-management/pkg/cli/cmd/login"
	"github.com/i200219/library-management/pkg/cli/cmd/logout"
	"github.com/i200219/library-management/pkg/cli/cmd/root"
	"github.com/i200219/library-management/pkg/cli/cmd/users"
	"github.com/i200219/library-management/pkg/cli/cmd/version"
)

// apiEndpoint and versionTag are populated during link time
var apiEndpoint string
var versionTag = "master"

func main() {
	ctx, err := infra.Init(versionTag, apiEndpoint)
	if err != nil {
		panic(errors.Wrap(err, "initializing context"))
	}

	root.Register(login.NewCmd(*ctx))
	root.Register(logout.NewCmd(*ctx))
	root.Register(books.NewCmd(*ctx))
	root.Register(users.NewCmd(*ctx))
	root.Register(version.NewCmd(*ctx))

	if err := root.Execute(); err != nil {
		log.Errorf("%s\n", err.Error())
		os.Exit(1)
	}
}
