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

package config

import (
	"os"
	"path/filepath"

	"github.com/pastoapp/pastoapp/pkg/dirs"
	"github.com/pastoapp/pastoapp/pkg/server/database"
	"github.com/pkg/errors"
)

const (
	// AppEnvProduction represents an app environment for production.
	AppEnvProduction string = "PRODUCTION"
	// DefaultDataDir is the default directory name for Pastoapp data
	DefaultDataDir = "pastoapp"
	// DefaultDBFilename is the default database filename
	DefaultDBFilename = "server.db"
	// DefaultMediaDirname is the default directory name for photo blobs
	DefaultMediaDirname = "media"

	// BlobBackendFS stores photo bytes on the local filesystem
	BlobBackendFS = "fs"
	// BlobBackendS3 stores photo bytes in an S3-compatible bucket
	BlobBackendS3 = "s3"

	// DefaultTimeZone is the reference timezone for mutation timestamps
	DefaultTimeZone = "America/Bogota"
)

var (
	// DefaultDBPath is the default path to the database file
	DefaultDBPath = filepath.Join(dirs.DataHome, DefaultDataDir, DefaultDBFilename)
	// DefaultMediaRoot is the default root directory for photo blobs
	DefaultMediaRoot = filepath.Join(dirs.DataHome, DefaultDataDir, DefaultMediaDirname)
)

var (
	// ErrDBMissingPath is an error for an incomplete configuration missing the database path
	ErrDBMissingPath = errors.New("DB Path is empty")
	// ErrDBMissingURL is an error for a postgres configuration missing the database URL
	ErrDBMissingURL = errors.New("DATABASE_URL is empty")
	// ErrPortInvalid is an error for an incomplete configuration with invalid port
	ErrPortInvalid = errors.New("Invalid Port")
	// ErrMediaRootMissing is an error for a filesystem blob configuration missing the media root
	ErrMediaRootMissing = errors.New("Media root is empty")
	// ErrS3BucketMissing is an error for an S3 blob configuration missing the bucket
	ErrS3BucketMissing = errors.New("S3 bucket is empty")
	// ErrBlobBackendInvalid is an error for an unknown blob backend
	ErrBlobBackendInvalid = errors.New("Invalid blob backend")
)

// getOrEnv returns value if non-empty, otherwise env var, otherwise default
func getOrEnv(value, envKey, defaultVal string) string {
	if value != "" {
		return value
	}
	if env := os.Getenv(envKey); env != "" {
		return env
	}
	return defaultVal
}

// Config is an application configuration
type Config struct {
	AppEnv      string
	Port        string
	DBDriver    string
	DBPath      string
	DatabaseURL string
	MediaRoot   string
	BlobBackend string
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	TimeZone    string
	LogLevel    string
}

// Params are the configuration parameters for creating a new Config
type Params struct {
	AppEnv      string
	Port        string
	DBDriver    string
	DBPath      string
	DatabaseURL string
	MediaRoot   string
	BlobBackend string
	TimeZone    string
	LogLevel    string
}

// New constructs and returns a new validated config.
// Empty string params will fall back to environment variables and defaults.
func New(p Params) (Config, error) {
	c := Config{
		AppEnv:      getOrEnv(p.AppEnv, "APP_ENV", AppEnvProduction),
		Port:        getOrEnv(p.Port, "PORT", "3001"),
		DBDriver:    getOrEnv(p.DBDriver, "DB_DRIVER", database.DriverSQLite),
		DBPath:      getOrEnv(p.DBPath, "DBPath", DefaultDBPath),
		DatabaseURL: getOrEnv(p.DatabaseURL, "DATABASE_URL", ""),
		MediaRoot:   getOrEnv(p.MediaRoot, "MEDIA_ROOT", DefaultMediaRoot),
		BlobBackend: getOrEnv(p.BlobBackend, "BLOB_BACKEND", BlobBackendFS),
		S3Bucket:    os.Getenv("S3_BUCKET"),
		S3Region:    os.Getenv("S3_REGION"),
		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		TimeZone:    getOrEnv(p.TimeZone, "TIME_ZONE", DefaultTimeZone),
		LogLevel:    getOrEnv(p.LogLevel, "LOG_LEVEL", "info"),
	}

	if err := validate(c); err != nil {
		return Config{}, err
	}

	return c, nil
}

// IsProd checks if the app environment is configured to be production.
func (c Config) IsProd() bool {
	return c.AppEnv == AppEnvProduction
}

// DSN returns the data source name for the configured database driver
func (c Config) DSN() string {
	if c.DBDriver == database.DriverPostgres {
		return c.DatabaseURL
	}

	return c.DBPath
}

func validate(c Config) error {
	if c.Port == "" {
		return ErrPortInvalid
	}

	if c.DBDriver == database.DriverPostgres {
		if c.DatabaseURL == "" {
			return ErrDBMissingURL
		}
	} else if c.DBPath == "" {
		return ErrDBMissingPath
	}

	switch c.BlobBackend {
	case BlobBackendFS:
		if c.MediaRoot == "" {
			return ErrMediaRootMissing
		}
	case BlobBackendS3:
		if c.S3Bucket == "" {
			return ErrS3BucketMissing
		}
	default:
		return errors.Wrapf(ErrBlobBackendInvalid, "'%s'", c.BlobBackend)
	}

	return nil
}
