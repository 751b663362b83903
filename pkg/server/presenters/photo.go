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

package presenters

import (
	"time"

	"github.com/pastoapp/pastoapp/pkg/server/database"
)

// Photo is a result of PresentPhoto
type Photo struct {
	ID        int       `json:"id"`
	UUID      string    `json:"uuid"`
	EntryUUID string    `json:"entryUuid"`
	MimeType  *string   `json:"mimeType"`
	Size      *int64    `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}

// PresentPhoto presents a photo
func PresentPhoto(photo database.Photo) Photo {
	ret := Photo{
		ID:        photo.ID,
		UUID:      photo.UUID,
		EntryUUID: photo.EntryUUID,
		Size:      photo.Size,
		CreatedAt: FormatTS(photo.CreatedAt),
	}
	if photo.MimeType.Valid {
		mimeType := photo.MimeType.String
		ret.MimeType = &mimeType
	}

	return ret
}

// PresentPhotos presents photos
func PresentPhotos(photos []database.Photo) []Photo {
	ret := []Photo{}

	for _, photo := range photos {
		p := PresentPhoto(photo)
		ret = append(ret, p)
	}

	return ret
}
