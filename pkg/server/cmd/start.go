/* Copyright 2025 Pastoapp Authors
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

	"github.com/joho/godotenv"
	"github.com/pastoapp/pastoapp/pkg/server/buildinfo"
	"github.com/pastoapp/pastoapp/pkg/server/config"
	"github.com/pastoapp/pastoapp/pkg/server/controllers"
	"github.com/pastoapp/pastoapp/pkg/server/database"
	"github.com/pastoapp/pastoapp/pkg/server/log"
	"github.com/pkg/errors"
)

func startCmd(args []string) {
	// load environment from a .env file if present
	godotenv.Load()

	fs := setupFlagSet("start", "pastoapp-server start")

	appEnv := fs.String("appEnv", "", "Application environment (env: APP_ENV, default: PRODUCTION)")
	port := fs.String("port", "", "Server port (env: PORT, default: 3001)")
	dbDriver := fs.String("dbDriver", "", "Database driver: sqlite or postgres (env: DB_DRIVER, default: sqlite)")
	dbPath := fs.String("dbPath", "", "Path to SQLite database file (env: DBPath, default: $XDG_DATA_HOME/pastoapp/server.db)")
	databaseURL := fs.String("databaseUrl", "", "Postgres connection string (env: DATABASE_URL)")
	mediaRoot := fs.String("mediaRoot", "", "Root directory for photo blobs (env: MEDIA_ROOT, default: $XDG_DATA_HOME/pastoapp/media)")
	blobBackend := fs.String("blobBackend", "", "Photo blob backend: fs or s3 (env: BLOB_BACKEND, default: fs)")
	timeZone := fs.String("timeZone", "", "Reference timezone for mutation timestamps (env: TIME_ZONE, default: America/Bogota)")
	logLevel := fs.String("logLevel", "", "Log level: debug, info, warn, or error (env: LOG_LEVEL, default: info)")

	fs.Parse(args)

	cfg, err := config.New(config.Params{
		AppEnv:      *appEnv,
		Port:        *port,
		DBDriver:    *dbDriver,
		DBPath:      *dbPath,
		DatabaseURL: *databaseURL,
		MediaRoot:   *mediaRoot,
		BlobBackend: *blobBackend,
		TimeZone:    *timeZone,
		LogLevel:    *logLevel,
	})
	if err != nil {
		fmt.Printf("Error: %s\n\n", err)
		fs.Usage()
		os.Exit(1)
	}

	// Set log level
	log.SetLevel(cfg.LogLevel)

	app, err := initApp(cfg)
	if err != nil {
		fmt.Printf("Error: %s\n", err)
		os.Exit(1)
	}
	defer func() {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}()

	if cfg.DBDriver == database.DriverSQLite {
		// Start WAL checkpointing to prevent WAL file from growing unbounded.
		database.StartWALCheckpointing(app.DB, 5*time.Minute)

		// Start periodic VACUUM to reclaim space and defragment database.
		database.StartPeriodicVacuum(app.DB, 24*time.Hour)
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
	}).Info("Pastoapp server starting")

	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.ErrorWrap(err, "server failed")
		os.Exit(1)
	}
}

func versionCmd() {
	fmt.Printf("pastoapp-server-%s\n", buildinfo.Version)
}
