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
	"context"
	"encoding/base64"
	"fmt"
	"testing"

	"github.com/pastoapp/pastoapp/pkg/assert"
	"github.com/pastoapp/pastoapp/pkg/server/database"
	"github.com/pastoapp/pastoapp/pkg/server/testutils"
	"github.com/pkg/errors"
)

func TestParseBase64Photo(t *testing.T) {
	raw := []byte("not really a jpeg")
	encoded := base64.StdEncoding.EncodeToString(raw)

	testCases := []struct {
		payload          string
		expectedData     []byte
		expectedMimeType string
		expectedErr      error
	}{
		{
			payload:          encoded,
			expectedData:     raw,
			expectedMimeType: "",
			expectedErr:      nil,
		},
		{
			payload:          fmt.Sprintf("data:image/jpeg;base64,%s", encoded),
			expectedData:     raw,
			expectedMimeType: "image/jpeg",
			expectedErr:      nil,
		},
		{
			payload:     "%%%not-base64%%%",
			expectedErr: ErrInvalidBase64,
		},
		{
			payload:     "data:image/jpeg;base64,%%%not-base64%%%",
			expectedErr: ErrInvalidBase64,
		},
	}

	for idx, tc := range testCases {
		t.Run(fmt.Sprintf("test case %d", idx), func(t *testing.T) {
			data, mimeType, err := parseBase64Photo(tc.payload)

			assert.Equal(t, errors.Cause(err), tc.expectedErr, "error mismatch")
			if tc.expectedErr != nil {
				return
			}

			assert.Equal(t, string(data), string(tc.expectedData), "data mismatch")
			assert.Equal(t, mimeType, tc.expectedMimeType, "mime type mismatch")
		})
	}
}

func TestCreatePhoto(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	entry := testutils.SetupEntryData(db, "A-1", 1)

	a := NewTest()
	a.DB = db

	ctx := context.Background()
	raw := []byte("photo bytes")

	photo, err := a.CreatePhoto(ctx, entry.UUID, raw, "image/png")
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating photo"))
	}

	var photoCount int64
	var photoRecord database.Photo
	testutils.MustExec(t, db.Model(&database.Photo{}).Count(&photoCount), "counting photos")
	testutils.MustExec(t, db.First(&photoRecord), "finding photo")

	assert.Equal(t, photoCount, int64(1), "photo count mismatch")
	assert.Equal(t, photoRecord.EntryUUID, entry.UUID, "photo EntryUUID mismatch")
	assert.Equal(t, photoRecord.MimeType.String, "image/png", "photo MimeType mismatch")
	assert.Equal(t, *photoRecord.Size, int64(len(raw)), "photo Size mismatch")
	assert.NotEqual(t, photoRecord.StorageKey, "", "photo StorageKey should have been set")

	content, err := a.GetPhotoContent(ctx, photo)
	if err != nil {
		t.Fatal(errors.Wrap(err, "reading photo content"))
	}
	assert.Equal(t, string(content), string(raw), "photo content mismatch")
}

func TestCreatePhoto_Empty(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	entry := testutils.SetupEntryData(db, "A-1", 1)

	a := NewTest()
	a.DB = db

	_, err := a.CreatePhoto(context.Background(), entry.UUID, []byte{}, "")
	assert.Equal(t, errors.Cause(err), ErrEmptyUpload, "error mismatch")

	var photoCount int64
	testutils.MustExec(t, db.Model(&database.Photo{}).Count(&photoCount), "counting photos")
	assert.Equal(t, photoCount, int64(0), "photo count mismatch")
}

func TestCreatePhotoFromBase64_InvalidPayload(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	entry := testutils.SetupEntryData(db, "A-1", 1)

	a := NewTest()
	a.DB = db

	_, err := a.CreatePhotoFromBase64(context.Background(), entry.UUID, "%%%")
	assert.Equal(t, errors.Cause(err), ErrInvalidBase64, "error mismatch")

	// the entry itself must be untouched
	var entryCount int64
	testutils.MustExec(t, db.Model(&database.Entry{}).Count(&entryCount), "counting entries")
	assert.Equal(t, entryCount, int64(1), "entry count mismatch")
}

func TestGetEntryPhotos(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	entry := testutils.SetupEntryData(db, "A-1", 1)
	other := testutils.SetupEntryData(db, "A-2", 2)

	a := NewTest()
	a.DB = db

	ctx := context.Background()
	p1, err := a.CreatePhoto(ctx, entry.UUID, []byte("one"), "")
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating p1"))
	}
	p2, err := a.CreatePhoto(ctx, entry.UUID, []byte("two"), "")
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating p2"))
	}
	if _, err := a.CreatePhoto(ctx, other.UUID, []byte("three"), ""); err != nil {
		t.Fatal(errors.Wrap(err, "creating photo for other entry"))
	}

	if _, err := a.DeletePhoto(p2); err != nil {
		t.Fatal(errors.Wrap(err, "deleting p2"))
	}

	photos, err := a.GetEntryPhotos(entry.UUID)
	if err != nil {
		t.Fatal(errors.Wrap(err, "getting photos"))
	}

	assert.Equal(t, len(photos), 1, "photo count mismatch")
	assert.Equal(t, photos[0].UUID, p1.UUID, "photo UUID mismatch")
}

func TestDeletePhoto(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	entry := testutils.SetupEntryData(db, "A-1", 1)

	a := NewTest()
	a.DB = db

	photo, err := a.CreatePhoto(context.Background(), entry.UUID, []byte("bytes"), "")
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating photo"))
	}

	if _, err := a.DeletePhoto(photo); err != nil {
		t.Fatal(errors.Wrap(err, "deleting photo"))
	}

	var photoCount int64
	var photoRecord database.Photo
	testutils.MustExec(t, db.Model(&database.Photo{}).Count(&photoCount), "counting photos")
	testutils.MustExec(t, db.First(&photoRecord), "finding photo")

	assert.Equal(t, photoCount, int64(1), "tombstoned photo should still be stored")
	if photoRecord.DeletedAt == nil {
		t.Fatal("photo DeletedAt should have been set")
	}

	// deleting a photo never consumes a sequence number
	var state database.SyncState
	testutils.MustExec(t, db.Where("id = ?", database.SyncStateID).First(&state), "finding sync state")
	assert.Equal(t, state.MaxUpdatedSeq, int64(1), "sync state mismatch")
}
