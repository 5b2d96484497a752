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

package cmd

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/i200219/library-management/pkg/server/buildinfo"
	"github.com/i200219/library-management/pkg/server/config"
	"github.com/i200219/library-management/pkg/server/controllers"
	"github.com/i200219/library-management/pkg/server/database"
	"github.com/i200219/library-management/pkg/server/job"
	"github.com/i200219/library-management/pkg/server/log"
)

func startCmd(args []string) {
	fs := setupFlagSet("start", "libris-server start")

	port := fs.String("port", "", "Server port (env: PORT, default: 3001)")
	webURL := fs.String("webUrl", "", "Full URL to server without trailing slash (env: WebURL, default: http://localhost:3001)")
	dbPath := fs.String("dbPath", "", "Path to SQLite database file (env: DBPath, default: $XDG_DATA_HOME/libris/server.db)")
	databaseURL := fs.String("databaseUrl", "", "PostgreSQL connection string; overrides dbPath (env: DATABASE_URL)")
	disableRegistration := fs.Bool("disableRegistration", false, "Disable user registration (env: DisableRegistration, default: false)")
	expirySweepSchedule := fs.String("expirySweepSchedule", "", "Cron schedule for expiring overdue reservations (env: ExpirySweepSchedule)")
	logLevel := fs.String("logLevel", "", "Log level: debug, info, warn, or error (env: LOG_LEVEL, default: info)")

	fs.Parse(args)

	cfg, err := config.New(config.Params{
		Port:                *port,
		WebURL:              *webURL,
		DBPath:              *dbPath,
		DatabaseURL:         *databaseURL,
		DisableRegistration: *disableRegistration,
		ExpirySweepSchedule: *expirySweepSchedule,
		LogLevel:            *logLevel,
	})
	if err != nil {
		fmt.Printf("Error: %s\n\n", err)
		fs.Usage()
		os.Exit(1)
	}

	log.SetLevel(cfg.LogLevel)

	app := initApp(cfg)
	defer func() {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}()

	// SQLite needs periodic WAL checkpointing and vacuuming. Postgres
	// handles its own maintenance.
	if cfg.DatabaseURL == "" {
		database.StartWALCheckpointing(app.DB, 5*time.Minute)
		database.StartPeriodicVacuum(app.DB, 24*time.Hour)
	}

	if cfg.ExpirySweepSchedule != "" {
		runner := job.NewRunner(&app, cfg.ExpirySweepSchedule)
		if err := runner.Start(); err != nil {
			log.ErrorWrap(err, "starting job runner")
			os.Exit(1)
		}
		defer runner.Stop()
	}

	ctl := controllers.New(&app)
	rc := controllers.RouteConfig{
		APIRoutes:   controllers.NewAPIRoutes(&app, ctl),
		Controllers: ctl,
	}

	r, err := controllers.NewRouter(&app, rc)
	if err != nil {
		panic(errors.Wrap(err, "initializing router"))
	}

	log.WithFields(log.Fields{
		"version": buildinfo.Version,
		"port":    cfg.Port,
	}).Info("Libris server starting")

	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.ErrorWrap(err, "server failed")
		os.Exit(1)
	}
}
