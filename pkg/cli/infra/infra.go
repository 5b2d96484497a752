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

// Package infra initializes the CLI runtime
package infra

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/i200219/library-management/pkg/cli/client"
	"github.com/i200219/library-management/pkg/cli/config"
	"github.com/i200219/library-management/pkg/cli/consts"
	"github.com/i200219/library-management/pkg/cli/context"
	"github.com/i200219/library-management/pkg/clock"
	"github.com/i200219/library-management/pkg/dirs"
)

// RunEFunc is a command runner
type RunEFunc func(*cobra.Command, []string) error

const defaultAPIEndpoint = "http://localhost:3001/api/v1"

func initDirs(ctx context.LibrisCtx) error {
	configDir := fmt.Sprintf("%s/%s", ctx.Paths.Config, consts.LibrisDirName)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return errors.Wrapf(err, "creating %s", configDir)
	}

	dataDir := fmt.Sprintf("%s/%s", ctx.Paths.Data, consts.LibrisDirName)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return errors.Wrapf(err, "creating %s", dataDir)
	}

	return nil
}

func initConfig(ctx context.LibrisCtx, apiEndpoint string) (config.Config, error) {
	cf, err := config.Read(ctx)
	if err == nil {
		return cf, nil
	}
	if !os.IsNotExist(errors.Cause(err)) {
		return config.Config{}, errors.Wrap(err, "reading config")
	}

	if apiEndpoint == "" {
		apiEndpoint = defaultAPIEndpoint
	}

	cf = config.Config{APIEndpoint: apiEndpoint}
	if err := config.Write(ctx, cf); err != nil {
		return config.Config{}, errors.Wrap(err, "writing initial config")
	}

	return cf, nil
}

// Init initializes the CLI context: directory layout, config file,
// and the stored session if any.
func Init(versionTag, apiEndpoint string) (*context.LibrisCtx, error) {
	ctx := context.LibrisCtx{
		Paths: context.Paths{
			Home:   dirs.Home,
			Config: dirs.ConfigHome,
			Data:   dirs.DataHome,
		},
		Version:    versionTag,
		Clock:      clock.New(),
		HTTPClient: client.NewRateLimitedHTTPClient(),
	}

	if err := initDirs(ctx); err != nil {
		return nil, errors.Wrap(err, "initializing directories")
	}

	cf, err := initConfig(ctx, apiEndpoint)
	if err != nil {
		return nil, errors.Wrap(err, "initializing config")
	}
	ctx.APIEndpoint = cf.APIEndpoint

	session, err := config.ReadSession(ctx)
	if err == nil {
		ctx.SessionKey = session.Key
		ctx.SessionKeyExpiry = session.ExpiresAt
	} else if !errors.Is(err, config.ErrNotLoggedIn) {
		return nil, errors.Wrap(err, "reading session")
	}

	return &ctx, nil
}
