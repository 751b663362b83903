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

// Package testutils provides utilities used in tests
package testutils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/pastoapp/pastoapp/pkg/server/database"
	"github.com/pastoapp/pastoapp/pkg/server/helpers"
	"github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitDB opens a database at the given path and initializes the schema
func InitDB(dbPath string) *gorm.DB {
	db := database.Open(database.DriverSQLite, dbPath, "")
	database.InitSchema(db)
	if err := database.Migrate(db); err != nil {
		panic(errors.Wrap(err, "running migrations"))
	}
	return db
}

// InitMemoryDB creates an in-memory SQLite database with the schema initialized
func InitMemoryDB(t *testing.T) *gorm.DB {
	// Use file-based in-memory database with unique UUID per test to avoid sharing
	uuid, err := helpers.GenUUID()
	if err != nil {
		t.Fatalf("failed to generate UUID for test database: %v", err)
	}
	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid)
	db, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}

	database.InitSchema(db)
	if err := database.Migrate(db); err != nil {
		t.Fatal(errors.Wrap(err, "running migrations"))
	}

	return db
}

// MustUUID generates a UUID and fails the test on error
func MustUUID(t *testing.T) string {
	uuid, err := helpers.GenUUID()
	if err != nil {
		t.Fatal(errors.Wrap(err, "Failed to generate UUID"))
	}
	return uuid
}

// SetupEntryData creates and returns a new entry for testing purposes
func SetupEntryData(db *gorm.DB, lotNumber string, updatedSeq int64) database.Entry {
	uuid, err := helpers.GenUUID()
	if err != nil {
		panic(errors.Wrap(err, "Failed to generate UUID"))
	}

	now := time.Now().UTC()
	entry := database.Entry{
		UUID:       uuid,
		LotNumber:  lotNumber,
		EntryTime:  now.Add(-time.Hour),
		ExitTime:   now,
		CreatedAt:  now,
		UpdatedAt:  now,
		UpdatedSeq: updatedSeq,
	}

	if err := db.Save(&entry).Error; err != nil {
		panic(errors.Wrap(err, "Failed to prepare entry"))
	}
	if err := db.Model(&database.SyncState{}).
		Where("id = ? AND max_updated_seq < ?", database.SyncStateID, updatedSeq).
		Update("max_updated_seq", updatedSeq).Error; err != nil {
		panic(errors.Wrap(err, "Failed to advance sync state"))
	}

	return entry
}

// HTTPDo makes an HTTP request and returns a response
func HTTPDo(t *testing.T, req *http.Request) *http.Response {
	hc := http.Client{
		// Do not follow redirects so that redirects themselves can be
		// asserted on
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	res, err := hc.Do(req)
	if err != nil {
		t.Fatal(errors.Wrap(err, "performing http request"))
	}

	return res
}

// MakeReq makes an HTTP request and returns a response
func MakeReq(endpoint string, method, path, data string) *http.Request {
	u := fmt.Sprintf("%s%s", endpoint, path)

	req, err := http.NewRequest(method, u, strings.NewReader(data))

	if err != nil {
		panic(errors.Wrap(err, "constructing http request"))
	}

	return req
}

// MakeJSONReq makes an HTTP request carrying a JSON body
func MakeJSONReq(endpoint string, method, path, data string) *http.Request {
	req := MakeReq(endpoint, method, path, data)
	req.Header.Set("Content-Type", "application/json")

	return req
}

// MustExec fails the test if the given database query has error
func MustExec(t *testing.T, db *gorm.DB, message string) {
	if err := db.Error; err != nil {
		t.Fatalf("%s: %s", message, err.Error())
	}
}

// MustMarshalJSON marshals the given interface and fails the test on error
func MustMarshalJSON(t *testing.T, i interface{}) string {
	b, err := json.Marshal(i)
	if err != nil {
		t.Fatal(errors.Wrap(err, "marshalling json"))
	}

	return string(b)
}
