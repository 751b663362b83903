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
	"fmt"
	"testing"
	"time"

	"github.com/pastoapp/pastoapp/pkg/assert"
	"github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestValidateMigrationFilename(t *testing.T) {
	testCases := []struct {
		filename string
		valid    bool
	}{
		{filename: "001-seed-sync-state.sql", valid: true},
		{filename: "042-add-index.sql", valid: true},
		{filename: "1-too-short.sql", valid: false},
		{filename: "0001-too-long.sql", valid: false},
		{filename: "abc-not-numeric.sql", valid: false},
		{filename: "001-.sql", valid: false},
		{filename: "001-no-extension", valid: false},
		{filename: "001.sql", valid: false},
	}

	for idx, tc := range testCases {
		t.Run(fmt.Sprintf("test case %d", idx), func(t *testing.T) {
			err := validateMigrationFilename(tc.filename)
			assert.Equal(t, err == nil, tc.valid, fmt.Sprintf("validity mismatch for %s", tc.filename))
		})
	}
}

func openTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatal(errors.Wrap(err, "opening test database"))
	}

	return db
}

func TestMigrateSeedsSyncState(t *testing.T) {
	db := openTestDB(t)
	InitSchema(db)

	if err := Migrate(db); err != nil {
		t.Fatal(errors.Wrap(err, "running migrations"))
	}

	var state SyncState
	if err := db.Where("id = ?", SyncStateID).First(&state).Error; err != nil {
		t.Fatal(errors.Wrap(err, "finding sync state"))
	}

	assert.Equal(t, state.MaxUpdatedSeq, int64(0), "fresh database should start at seq 0")
}

func TestMigrateSeedsSyncStateFromLegacyRows(t *testing.T) {
	db := openTestDB(t)
	InitSchema(db)

	// Rows written by a server that predates the counter table.
	now := time.Now()
	for i, seq := range []int64{3, 17, 9} {
		entry := Entry{
			UUID:       fmt.Sprintf("00000000-0000-0000-0000-00000000000%d", i+1),
			LotNumber:  "L1",
			EntryTime:  now,
			ExitTime:   now,
			CreatedAt:  now,
			UpdatedAt:  now,
			UpdatedSeq: seq,
		}
		if err := db.Create(&entry).Error; err != nil {
			t.Fatal(errors.Wrap(err, "preparing legacy entry"))
		}
	}

	if err := Migrate(db); err != nil {
		t.Fatal(errors.Wrap(err, "running migrations"))
	}

	var state SyncState
	if err := db.Where("id = ?", SyncStateID).First(&state).Error; err != nil {
		t.Fatal(errors.Wrap(err, "finding sync state"))
	}

	assert.Equal(t, state.MaxUpdatedSeq, int64(17), "counter should carry over the legacy maximum")
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	InitSchema(db)

	if err := Migrate(db); err != nil {
		t.Fatal(errors.Wrap(err, "running migrations"))
	}
	if err := Migrate(db); err != nil {
		t.Fatal(errors.Wrap(err, "re-running migrations"))
	}

	var count int64
	if err := db.Model(&SyncState{}).Count(&count).Error; err != nil {
		t.Fatal(errors.Wrap(err, "counting sync states"))
	}

	assert.Equal(t, count, int64(1), "sync state row count mismatch")
}
