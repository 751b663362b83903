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
	"errors"
	"fmt"
	"strings"

	"github.com/pastoapp/pastoapp/pkg/server/database"
	"github.com/pastoapp/pastoapp/pkg/server/helpers"
	pkgErrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

// parseBase64Photo decodes an inline photo payload. The payload may be
// a bare base64 string or a data URI; for a data URI the mime type is
// read from the metadata before the comma.
func parseBase64Photo(payload string) ([]byte, string, error) {
	mimeType := ""
	encoded := payload

	if idx := strings.Index(payload, ";base64,"); idx != -1 {
		meta := payload[:idx]
		encoded = payload[idx+len(";base64,"):]

		if strings.HasPrefix(meta, "data:") {
			mimeType = strings.TrimPrefix(meta, "data:")
		}
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", ErrInvalidBase64
	}

	return data, mimeType, nil
}

// CreatePhotoFromBase64 decodes the inline payload and attaches it to
// the entry. The caller is expected to have committed the entry write
// already: a malformed payload fails here without undoing the entry.
func (a *App) CreatePhotoFromBase64(ctx context.Context, entryUUID, payload string) (database.Photo, error) {
	data, mimeType, err := parseBase64Photo(payload)
	if err != nil {
		return database.Photo{}, err
	}

	return a.CreatePhoto(ctx, entryUUID, data, mimeType)
}

// CreatePhoto stores the photo bytes in the blob store and records the
// metadata row. The blob write happens first so that a row never points
// at a key that was not written; a crash between the two leaves an
// orphaned blob, which is harmless.
func (a *App) CreatePhoto(ctx context.Context, entryUUID string, data []byte, mimeType string) (database.Photo, error) {
	if len(data) == 0 {
		return database.Photo{}, ErrEmptyUpload
	}

	uuid, err := helpers.GenUUID()
	if err != nil {
		return database.Photo{}, err
	}

	key := fmt.Sprintf("pasto/%s/%s.bin", entryUUID, uuid)
	if err := a.Blob.Put(ctx, key, data); err != nil {
		return database.Photo{}, pkgErrors.Wrap(err, "storing photo blob")
	}

	size := int64(len(data))
	photo := database.Photo{
		UUID:       uuid,
		EntryUUID:  entryUUID,
		StorageKey: key,
		Size:       &size,
		CreatedAt:  a.now(),
	}
	if mimeType != "" {
		photo.MimeType = database.ToNullString(mimeType)
	}

	if err := a.DB.Create(&photo).Error; err != nil {
		return photo, pkgErrors.Wrap(err, "inserting photo")
	}

	return photo, nil
}

// GetPhoto retrieves a photo by identity. A missing identity returns nil.
func (a *App) GetPhoto(uuid string) (*database.Photo, error) {
	var ret database.Photo
	err := a.DB.Where("uuid = ?", uuid).First(&ret).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgErrors.Wrap(err, "finding photo")
	}

	return &ret, nil
}

// GetEntryPhotos returns the live photos of an entry, oldest first
func (a *App) GetEntryPhotos(entryUUID string) ([]database.Photo, error) {
	photos := []database.Photo{}
	err := a.DB.
		Where("entry_uuid = ? AND deleted_at IS NULL", entryUUID).
		Order("created_at ASC").
		Find(&photos).Error
	if err != nil {
		return nil, pkgErrors.Wrap(err, "finding photos")
	}

	return photos, nil
}

// GetPhotoContent reads the photo bytes from the blob store
func (a *App) GetPhotoContent(ctx context.Context, photo database.Photo) ([]byte, error) {
	data, err := a.Blob.Get(ctx, photo.StorageKey)
	if err != nil {
		return nil, pkgErrors.Wrapf(err, "reading photo blob '%s'", photo.StorageKey)
	}

	return data, nil
}

// DeletePhoto tombstones the photo. Photos are not part of the cursor
// stream, so no sequence number is consumed; the stored bytes are kept.
func (a *App) DeletePhoto(photo database.Photo) (database.Photo, error) {
	now := a.now()

	if err := a.DB.Model(&photo).
		Update("deleted_at", now).Error; err != nil {
		return photo, pkgErrors.Wrap(err, "deleting photo")
	}

	photo.DeletedAt = &now

	return photo, nil
}
