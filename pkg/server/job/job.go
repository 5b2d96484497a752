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

// Package job provides recurring background tasks for the server
package job

import (
	"github.com/pkg/errors"
	"github.com/robfig/cron"

	"github.com/i200219/library-management/pkg/server/app"
	"github.com/i200219/library-management/pkg/server/log"
)

// Runner schedules and runs recurring jobs against an app
type Runner struct {
	app      *app.App
	schedule string
	c        *cron.Cron
}

// NewRunner returns a runner that sweeps overdue reservations on the
// given cron schedule
func NewRunner(a *app.App, schedule string) *Runner {
	return &Runner{
		app:      a,
		schedule: schedule,
		c:        cron.New(),
	}
}

// sweepReservations expires reservations that are past their expiry date
func (r *Runner) sweepReservations() {
	count, err := r.app.ExpireOverdueReservations()
	if err != nil {
		log.ErrorWrap(err, "sweeping overdue reservations")
		return
	}

	if count > 0 {
		log.WithFields(log.Fields{
			"count": count,
		}).Info("expired overdue reservations")
	}
}

// Start registers the jobs and begins the schedule. It returns an error
// if the schedule expression cannot be parsed.
func (r *Runner) Start() error {
	if err := r.c.AddFunc(r.schedule, r.sweepReservations); err != nil {
		return errors.Wrap(err, "adding reservation sweep job")
	}

	r.c.Start()

	log.WithFields(log.Fields{
		"schedule": r.schedule,
	}).Info("job runner started")

	return nil
}

// Stop stops the schedule. Running jobs are not interrupted.
func (r *Runner) Stop() {
	r.c.Stop()
}
