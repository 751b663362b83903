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

package app

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/pastoapp/pastoapp/pkg/assert"
	"github.com/pastoapp/pastoapp/pkg/server/database"
	"github.com/pastoapp/pastoapp/pkg/server/testutils"
	"github.com/pkg/errors"
)

func TestPushEntries(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	a := NewTest()
	a.DB = db

	entryTime := time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC)
	exitTime := entryTime.Add(time.Hour)

	candidates := []EntryParams{
		{
			UUID:      testutils.MustUUID(t),
			LotNumber: strPtr("A-1"),
			EntryTime: &entryTime,
			ExitTime:  &exitTime,
		},
		{
			UUID:      testutils.MustUUID(t),
			LotNumber: strPtr("A-2"),
			EntryTime: &entryTime,
			ExitTime:  &exitTime,
		},
	}

	result, err := a.PushEntries(candidates, nil, "device-1")
	if err != nil {
		t.Fatal(errors.Wrap(err, "pushing entries"))
	}

	var entryCount int64
	testutils.MustExec(t, db.Model(&database.Entry{}).Count(&entryCount), "counting entries")

	assert.Equal(t, entryCount, int64(2), "entry count mismatch")
	assert.Equal(t, len(result.Accepted), 2, "accepted count mismatch")
	assert.Equal(t, len(result.Rejected), 0, "rejected count mismatch")
	assert.Equal(t, result.NewCursor, int64(2), "new cursor mismatch")
	assert.Equal(t, result.Accepted[0].UpdatedSeq, int64(1), "first accepted seq mismatch")
	assert.Equal(t, result.Accepted[1].UpdatedSeq, int64(2), "second accepted seq mismatch")
}

func TestPushEntries_PartialBatch(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	a := NewTest()
	a.DB = db

	entryTime := time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC)
	exitTime := entryTime.Add(time.Hour)

	goodUUID := testutils.MustUUID(t)
	candidates := []EntryParams{
		// missing lot number: rejected
		{
			UUID:      testutils.MustUUID(t),
			EntryTime: &entryTime,
			ExitTime:  &exitTime,
		},
		{
			UUID:      goodUUID,
			LotNumber: strPtr("A-2"),
			EntryTime: &entryTime,
			ExitTime:  &exitTime,
		},
		// malformed identity: rejected
		{
			UUID:      "bogus",
			LotNumber: strPtr("A-3"),
			EntryTime: &entryTime,
			ExitTime:  &exitTime,
		},
	}

	result, err := a.PushEntries(candidates, nil, "")
	if err != nil {
		t.Fatal(errors.Wrap(err, "pushing entries"))
	}

	var entryCount int64
	testutils.MustExec(t, db.Model(&database.Entry{}).Count(&entryCount), "counting entries")

	assert.Equal(t, entryCount, int64(1), "one bad item should not hold back the rest")
	assert.Equal(t, len(result.Accepted), 1, "accepted count mismatch")
	assert.Equal(t, len(result.Rejected), 2, "rejected count mismatch")
	assert.Equal(t, result.Accepted[0].UUID, goodUUID, "accepted UUID mismatch")
	assert.Equal(t, result.Rejected[1].UUID, "bogus", "rejected UUID mismatch")
	assert.Equal(t, result.NewCursor, int64(1), "new cursor mismatch")
}

func TestPushEntries_Deletions(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	existing := testutils.SetupEntryData(db, "A-1", 3)

	a := NewTest()
	a.DB = db

	// deleting an identity the server has never seen is skipped silently
	result, err := a.PushEntries(nil, []string{existing.UUID, testutils.MustUUID(t)}, "")
	if err != nil {
		t.Fatal(errors.Wrap(err, "pushing deletions"))
	}

	var entryRecord database.Entry
	testutils.MustExec(t, db.Where("uuid = ?", existing.UUID).First(&entryRecord), "finding entry")

	if entryRecord.DeletedAt == nil {
		t.Fatal("entry DeletedAt should have been set")
	}
	assert.Equal(t, entryRecord.UpdatedSeq, int64(4), "entry UpdatedSeq mismatch")
	assert.Equal(t, len(result.Accepted), 0, "deletions should not be reported as accepted")
	assert.Equal(t, len(result.Rejected), 0, "rejected count mismatch")
	assert.Equal(t, result.NewCursor, int64(4), "new cursor mismatch")
}

func TestGetSyncPage(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	testutils.SetupEntryData(db, "A-1", 1)
	e2 := testutils.SetupEntryData(db, "A-2", 2)
	e3 := testutils.SetupEntryData(db, "A-3", 3)

	now := time.Now().UTC()
	testutils.MustExec(t, db.Model(&e2).Update("deleted_at", now), "tombstoning e2")

	a := NewTest()
	a.DB = db

	page, err := a.GetSyncPage(1, 100, "")
	if err != nil {
		t.Fatal(errors.Wrap(err, "getting sync page"))
	}

	assert.Equal(t, len(page.Items), 1, "item count mismatch")
	assert.Equal(t, page.Items[0].UUID, e3.UUID, "item UUID mismatch")
	if diff := cmp.Diff([]string{e2.UUID}, page.Deleted); diff != "" {
		t.Errorf("deleted mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, page.NewCursor, int64(3), "new cursor mismatch")
}

func TestGetSyncPage_Paging(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	e1 := testutils.SetupEntryData(db, "A-1", 1)
	e2 := testutils.SetupEntryData(db, "A-2", 2)
	e3 := testutils.SetupEntryData(db, "A-3", 3)

	a := NewTest()
	a.DB = db

	page1, err := a.GetSyncPage(0, 2, "")
	if err != nil {
		t.Fatal(errors.Wrap(err, "getting first page"))
	}

	assert.Equal(t, len(page1.Items), 2, "first page item count mismatch")
	assert.Equal(t, page1.Items[0].UUID, e1.UUID, "first page order mismatch")
	assert.Equal(t, page1.Items[1].UUID, e2.UUID, "first page order mismatch")
	assert.Equal(t, page1.NewCursor, int64(2), "first page cursor mismatch")

	page2, err := a.GetSyncPage(page1.NewCursor, 2, "")
	if err != nil {
		t.Fatal(errors.Wrap(err, "getting second page"))
	}

	assert.Equal(t, len(page2.Items), 1, "second page item count mismatch")
	assert.Equal(t, page2.Items[0].UUID, e3.UUID, "second page order mismatch")
	assert.Equal(t, page2.NewCursor, int64(3), "second page cursor mismatch")
}

func TestGetSyncPage_EmptyPage(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	testutils.SetupEntryData(db, "A-1", 1)

	a := NewTest()
	a.DB = db

	// a cursor at or beyond the head returns the input cursor unchanged
	page, err := a.GetSyncPage(9, 100, "")
	if err != nil {
		t.Fatal(errors.Wrap(err, "getting sync page"))
	}

	assert.Equal(t, len(page.Items), 0, "item count mismatch")
	assert.Equal(t, len(page.Deleted), 0, "deleted count mismatch")
	assert.Equal(t, page.NewCursor, int64(9), "cursor should not move backwards")
}

func TestGetSyncPage_DeviceFilter(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	e1 := testutils.SetupEntryData(db, "A-1", 1)
	e2 := testutils.SetupEntryData(db, "A-2", 2)
	testutils.MustExec(t, db.Model(&e1).Update("device_id", "device-1"), "tagging e1")
	testutils.MustExec(t, db.Model(&e2).Update("device_id", "device-2"), "tagging e2")

	a := NewTest()
	a.DB = db

	page, err := a.GetSyncPage(0, 100, "device-2")
	if err != nil {
		t.Fatal(errors.Wrap(err, "getting sync page"))
	}

	assert.Equal(t, len(page.Items), 1, "item count mismatch")
	assert.Equal(t, page.Items[0].UUID, e2.UUID, "item UUID mismatch")
}
