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

package database

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pastoapp/pastoapp/pkg/server/log"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// getDBLogLevel maps the application log level to a gorm log level
func getDBLogLevel(level string) logger.LogLevel {
	switch level {
	case log.LevelDebug:
		return logger.Info
	case log.LevelWarn:
		return logger.Warn
	case log.LevelError:
		return logger.Error
	default:
		return logger.Silent
	}
}

// Open initializes the database connection for the given driver. For
// SQLite the dsn is a file path and the parent directory is created if
// missing; for Postgres it is a connection string.
func Open(driver, dsn, logLevel string) *gorm.DB {
	var dialector gorm.Dialector

	switch driver {
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	case DriverSQLite, "":
		if !strings.HasPrefix(dsn, "file:") && dsn != ":memory:" {
			dir := filepath.Dir(dsn)
			if err := os.MkdirAll(dir, 0755); err != nil {
				panic(errors.Wrapf(err, "creating database directory at %s", dir))
			}
		}
		dialector = sqlite.Open(dsn)
	default:
		panic(errors.Errorf("unsupported database driver %s", driver))
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(getDBLogLevel(logLevel)),
	})
	if err != nil {
		panic(errors.Wrap(err, "opening database connection"))
	}

	return db
}

// InitSchema migrates database schema to reflect the latest model definition
func InitSchema(db *gorm.DB) {
	if err := db.AutoMigrate(
		&Entry{},
		&Photo{},
		&SyncState{},
	); err != nil {
		panic(err)
	}
}
