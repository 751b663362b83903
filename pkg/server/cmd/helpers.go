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
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/pastoapp/pastoapp/pkg/clock"
	"github.com/pastoapp/pastoapp/pkg/server/app"
	"github.com/pastoapp/pastoapp/pkg/server/blob"
	"github.com/pastoapp/pastoapp/pkg/server/config"
	"github.com/pastoapp/pastoapp/pkg/server/database"
	"github.com/pastoapp/pastoapp/pkg/server/log"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

func initDB(cfg config.Config) *gorm.DB {
	db := database.Open(cfg.DBDriver, cfg.DSN(), cfg.LogLevel)
	database.InitSchema(db)

	if err := database.Migrate(db); err != nil {
		panic(errors.Wrap(err, "running migrations"))
	}

	return db
}

func initBlobStore(cfg config.Config) (blob.Store, error) {
	switch cfg.BlobBackend {
	case config.BlobBackendS3:
		return blob.NewS3Store(context.Background(), blob.S3Params{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	default:
		return blob.NewFileStore(cfg.MediaRoot)
	}
}

func initTimeZone(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		// the tz database may be missing on minimal hosts
		log.WithFields(log.Fields{
			"timeZone": name,
		}).Warn("could not load timezone, falling back to fixed UTC-5")
		return time.FixedZone(name, -5*60*60)
	}

	return loc
}

func initApp(cfg config.Config) (app.App, error) {
	db := initDB(cfg)

	blobStore, err := initBlobStore(cfg)
	if err != nil {
		return app.App{}, errors.Wrap(err, "initializing blob store")
	}

	return app.App{
		DB:       db,
		Clock:    clock.New(),
		Blob:     blobStore,
		TimeZone: initTimeZone(cfg.TimeZone),
		AppEnv:   cfg.AppEnv,
		Port:     cfg.Port,
		DBDriver: cfg.DBDriver,
	}, nil
}

// printFlags prints flags with -- prefix for consistency with CLI
func printFlags(fs *flag.FlagSet) {
	fs.VisitAll(func(f *flag.Flag) {
		fmt.Printf("  --%s", f.Name)

		// Print type hint for non-boolean flags
		name, usage := flag.UnquoteUsage(f)
		if name != "" {
			fmt.Printf(" %s", name)
		}
		fmt.Println()

		// Print usage description with indentation
		if usage != "" {
			fmt.Printf("    \t%s", usage)
			if f.DefValue != "" && f.DefValue != "false" {
				fmt.Printf(" (default: %s)", f.DefValue)
			}
			fmt.Println()
		}
	})
}

// setupFlagSet creates a FlagSet with standard usage format
func setupFlagSet(name, usageCmd string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Printf(`Usage:
  %s [flags]

Flags:
`, usageCmd)
		printFlags(fs)
	}
	return fs
}
