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

package config

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/i200219/library-management/pkg/cli/consts"
	"github.com/i200219/library-management/pkg/cli/context"
)

// ErrNotLoggedIn is an error for reading a session when none is stored
var ErrNotLoggedIn = errors.New("not logged in")

// Session holds the stored server session
type Session struct {
	Key       string `yaml:"key"`
	ExpiresAt int64  `yaml:"expiresAt"`
}

// GetSessionPath returns the path to the libris session file
func GetSessionPath(ctx context.LibrisCtx) string {
	return fmt.Sprintf("%s/%s/%s", ctx.Paths.Data, consts.LibrisDirName, consts.SessionFilename)
}

// ReadSession reads the stored session
func ReadSession(ctx context.LibrisCtx) (Session, error) {
	var ret Session

	b, err := os.ReadFile(GetSessionPath(ctx))
	if os.IsNotExist(err) {
		return ret, ErrNotLoggedIn
	} else if err != nil {
		return ret, errors.Wrap(err, "reading session file")
	}

	if err := yaml.Unmarshal(b, &ret); err != nil {
		return ret, errors.Wrap(err, "unmarshalling session")
	}

	if ret.Key == "" {
		return ret, ErrNotLoggedIn
	}

	return ret, nil
}

// WriteSession stores the session. The file is only readable by the owner
// because it holds a credential.
func WriteSession(ctx context.LibrisCtx, s Session) error {
	b, err := yaml.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "marshalling session into YAML")
	}

	if err := os.WriteFile(GetSessionPath(ctx), b, 0600); err != nil {
		return errors.Wrap(err, "writing the session file")
	}

	return nil
}

// DeleteSession removes the stored session
func DeleteSession(ctx context.LibrisCtx) error {
	err := os.Remove(GetSessionPath(ctx))
	if os.IsNotExist(err) {
		return ErrNotLoggedIn
	} else if err != nil {
		return errors.Wrap(err, "removing session file")
	}

	return nil
}
