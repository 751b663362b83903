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
	"fmt"
	"testing"

	"github.com/pastoapp/pastoapp/pkg/assert"
	"github.com/pastoapp/pastoapp/pkg/server/database"
	"github.com/pkg/errors"
)

func TestValidate(t *testing.T) {
	testCases := []struct {
		config      Config
		expectedErr error
	}{
		{
			config: Config{
				Port:        "3000",
				DBDriver:    database.DriverSQLite,
				DBPath:      "test.db",
				MediaRoot:   "/tmp/media",
				BlobBackend: BlobBackendFS,
			},
			expectedErr: nil,
		},
		{
			config: Config{
				DBDriver:    database.DriverSQLite,
				DBPath:      "test.db",
				MediaRoot:   "/tmp/media",
				BlobBackend: BlobBackendFS,
			},
			expectedErr: ErrPortInvalid,
		},
		{
			config: Config{
				Port:        "3000",
				DBDriver:    database.DriverSQLite,
				MediaRoot:   "/tmp/media",
				BlobBackend: BlobBackendFS,
			},
			expectedErr: ErrDBMissingPath,
		},
		{
			config: Config{
				Port:        "3000",
				DBDriver:    database.DriverPostgres,
				MediaRoot:   "/tmp/media",
				BlobBackend: BlobBackendFS,
			},
			expectedErr: ErrDBMissingURL,
		},
		{
			config: Config{
				Port:        "3000",
				DBDriver:    database.DriverSQLite,
				DBPath:      "test.db",
				BlobBackend: BlobBackendFS,
			},
			expectedErr: ErrMediaRootMissing,
		},
		{
			config: Config{
				Port:        "3000",
				DBDriver:    database.DriverSQLite,
				DBPath:      "test.db",
				BlobBackend: BlobBackendS3,
			},
			expectedErr: ErrS3BucketMissing,
		},
		{
			config: Config{
				Port:        "3000",
				DBDriver:    database.DriverSQLite,
				DBPath:      "test.db",
				BlobBackend: "ftp",
			},
			expectedErr: ErrBlobBackendInvalid,
		},
	}

	for idx, tc := range testCases {
		t.Run(fmt.Sprintf("test case %d", idx), func(t *testing.T) {
			err := validate(tc.config)

			assert.Equal(t, errors.Cause(err), tc.expectedErr, "error mismatch")
		})
	}
}

func TestDSN(t *testing.T) {
	c := Config{DBDriver: database.DriverSQLite, DBPath: "test.db", DatabaseURL: "postgres://ignored"}
	assert.Equal(t, c.DSN(), "test.db", "sqlite DSN mismatch")

	c.DBDriver = database.DriverPostgres
	assert.Equal(t, c.DSN(), "postgres://ignored", "postgres DSN mismatch")
}
