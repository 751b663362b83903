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
	"time"
)

// Entry is a model for a parking lot entry. It is the unit of
// synchronization: every mutation stamps a fresh updated_seq, and
// deletions are tombstones so that peers observe them through the
// cursor stream.
//
// CreatedAt and UpdatedAt are managed by the application, not by the
// ORM. CreatedAt honors a client-supplied value on first write and
// UpdatedAt is set to the server clock on every mutation.
type Entry struct {
	ID         int        `gorm:"primaryKey" json:"id"`
	UUID       string     `gorm:"uniqueIndex;type:text" json:"uuid"`
	LotNumber  string     `gorm:"type:text;not null" json:"lot_number"`
	EntryTime  time.Time  `json:"entry_time"`
	ExitTime   time.Time  `json:"exit_time"`
	CreatedAt  time.Time  `json:"created_at" gorm:"autoCreateTime:false"`
	UpdatedAt  time.Time  `json:"updated_at" gorm:"autoUpdateTime:false"`
	DeletedAt  *time.Time `json:"deleted_at" gorm:"index"`
	DeviceID   NullString `json:"device_id" gorm:"index"`
	UpdatedSeq int64      `json:"updated_seq" gorm:"uniqueIndex"`
}

// Photo is a model for a binary attachment of an entry. The bytes live
// in the blob store under StorageKey; the row only carries metadata.
// Deletion is a tombstone and never reclaims the stored bytes.
type Photo struct {
	ID         int        `gorm:"primaryKey" json:"id"`
	UUID       string     `gorm:"uniqueIndex;type:text" json:"uuid"`
	EntryUUID  string     `gorm:"index;type:text" json:"entry_uuid"`
	StorageKey string     `gorm:"type:text" json:"storage_key"`
	MimeType   NullString `json:"mime_type"`
	Size       *int64     `json:"size"`
	CreatedAt  time.Time  `json:"created_at"`
	DeletedAt  *time.Time `json:"deleted_at"`
}

// SyncState is a single-row table holding the table-wide cursor
// counter. Allocating a sequence number increments MaxUpdatedSeq
// atomically inside the transaction of the mutation it accompanies.
type SyncState struct {
	ID            int   `gorm:"primaryKey"`
	MaxUpdatedSeq int64 `gorm:"not null;default:0"`
}
