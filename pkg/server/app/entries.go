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
	"errors"
	"time"

	"github.com/pastoapp/pastoapp/pkg/server/database"
	"github.com/pastoapp/pastoapp/pkg/server/helpers"
	pkgErrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

// EntryParams is an explicit patch for an entry. Only non-nil fields are
// applied, so a merge can distinguish "not sent" from "sent as zero".
// UUID is the candidate identity; empty means the server generates one.
type EntryParams struct {
	UUID      string
	LotNumber *string
	EntryTime *time.Time
	ExitTime  *time.Time
	CreatedAt *time.Time
	DeviceID  *string
}

func (p EntryParams) validateForCreate() error {
	if p.LotNumber == nil || *p.LotNumber == "" {
		return ErrLotNumberRequired
	}
	if p.EntryTime == nil {
		return ErrEntryTimeRequired
	}
	if p.ExitTime == nil {
		return ErrExitTimeRequired
	}

	return nil
}

// deviceHint resolves the device tag for a mutation. The transport-level
// device id wins over the one embedded in the candidate.
func (p EntryParams) deviceHint(deviceID string) string {
	if deviceID != "" {
		return deviceID
	}
	if p.DeviceID != nil {
		return *p.DeviceID
	}

	return ""
}

// UpsertEntry resolves whether the candidate is a new record or an edit
// of a stored one, keyed by identity. A candidate without an identity is
// always a create; a candidate whose identity matches a stored entry is
// merged field-by-field (last writer wins, absent fields untouched); a
// candidate with an unmatched identity creates a row under that identity
// so that a retried create is idempotent. Every branch stamps the server
// time and a freshly allocated updated_seq in a single transaction.
func (a *App) UpsertEntry(p EntryParams, deviceID string) (database.Entry, error) {
	if p.UUID == "" {
		uuid, err := helpers.GenUUID()
		if err != nil {
			return database.Entry{}, err
		}
		p.UUID = uuid
	} else if !helpers.ValidateUUID(p.UUID) {
		return database.Entry{}, pkgErrors.Wrapf(ErrInvalidUUID, "'%s'", p.UUID)
	}

	tx := a.DB.Begin()

	var existing database.Entry
	err := tx.Where("uuid = ?", p.UUID).First(&existing).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		tx.Rollback()
		return database.Entry{}, pkgErrors.Wrap(err, "finding entry")
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		entry, err := a.createEntry(tx, p, deviceID)
		if err != nil {
			tx.Rollback()
			return database.Entry{}, err
		}

		tx.Commit()
		return entry, nil
	}

	entry, err := a.UpdateEntry(tx, existing, p, deviceID)
	if err != nil {
		tx.Rollback()
		return database.Entry{}, err
	}

	tx.Commit()
	return entry, nil
}

// createEntry inserts a new row under the candidate identity with the
// next sequence number. A client-supplied creation timestamp is honored;
// otherwise the server clock is used.
func (a *App) createEntry(tx *gorm.DB, p EntryParams, deviceID string) (database.Entry, error) {
	if err := p.validateForCreate(); err != nil {
		return database.Entry{}, err
	}

	nextSeq, err := nextUpdatedSeq(tx)
	if err != nil {
		return database.Entry{}, err
	}

	now := a.now()

	createdAt := now
	if p.CreatedAt != nil {
		createdAt = *p.CreatedAt
	}

	entry := database.Entry{
		UUID:       p.UUID,
		LotNumber:  *p.LotNumber,
		EntryTime:  *p.EntryTime,
		ExitTime:   *p.ExitTime,
		CreatedAt:  createdAt,
		UpdatedAt:  now,
		UpdatedSeq: nextSeq,
	}
	if hint := p.deviceHint(deviceID); hint != "" {
		entry.DeviceID = database.ToNullString(hint)
	}

	if err := tx.Create(&entry).Error; err != nil {
		return entry, pkgErrors.Wrap(err, "inserting entry")
	}

	return entry, nil
}

// UpdateEntry merges the present fields of the candidate into the stored
// entry with the next sequence number. Identity, creation timestamp and
// row id are never overwritten. The device tag is set only while null:
// once a device owns a record, later writers do not reassign it.
func (a *App) UpdateEntry(tx *gorm.DB, entry database.Entry, p EntryParams, deviceID string) (database.Entry, error) {
	nextSeq, err := nextUpdatedSeq(tx)
	if err != nil {
		return entry, err
	}

	if p.LotNumber != nil {
		entry.LotNumber = *p.LotNumber
	}
	if p.EntryTime != nil {
		entry.EntryTime = *p.EntryTime
	}
	if p.ExitTime != nil {
		entry.ExitTime = *p.ExitTime
	}
	if hint := p.deviceHint(deviceID); hint != "" && !entry.DeviceID.Valid {
		entry.DeviceID = database.ToNullString(hint)
	}

	entry.UpdatedAt = a.now()
	entry.UpdatedSeq = nextSeq

	if err := tx.Save(&entry).Error; err != nil {
		return entry, pkgErrors.Wrap(err, "saving entry")
	}

	return entry, nil
}

// DeleteEntry tombstones the entry with the next sequence number. The
// row is never physically removed so that peers pulling by cursor learn
// of the deletion. Deleting an already tombstoned entry refreshes the
// tombstone and still consumes a sequence number.
func (a *App) DeleteEntry(tx *gorm.DB, entry database.Entry) (database.Entry, error) {
	nextSeq, err := nextUpdatedSeq(tx)
	if err != nil {
		return entry, err
	}

	now := a.now()

	if err := tx.Model(&entry).
		Updates(map[string]interface{}{
			"updated_seq": nextSeq,
			"updated_at":  now,
			"deleted_at":  now,
		}).Error; err != nil {
		return entry, pkgErrors.Wrap(err, "deleting entry")
	}

	entry.UpdatedSeq = nextSeq
	entry.UpdatedAt = now
	entry.DeletedAt = &now

	return entry, nil
}

// GetEntryByUUID retrieves an entry by its identity. Tombstoned entries
// are returned like live ones; a missing identity returns nil.
func (a *App) GetEntryByUUID(uuid string) (*database.Entry, error) {
	var ret database.Entry
	err := a.DB.Where("uuid = ?", uuid).First(&ret).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgErrors.Wrap(err, "finding entry")
	}

	return &ret, nil
}

// ListEntriesParams is params for listing entries
type ListEntriesParams struct {
	DeviceID       string
	UpdatedSince   *time.Time
	IncludeDeleted bool
	Limit          int
	Offset         int
}

// GetEntries returns a list of matching entries. Tombstoned entries are
// excluded unless IncludeDeleted is set.
func (a *App) GetEntries(p ListEntriesParams) ([]database.Entry, error) {
	conn := a.DB.Model(&database.Entry{})

	if p.DeviceID != "" {
		conn = conn.Where("device_id = ?", p.DeviceID)
	}
	if p.UpdatedSince != nil {
		conn = conn.Where("updated_at > ?", *p.UpdatedSince)
	}
	if !p.IncludeDeleted {
		conn = conn.Where("deleted_at IS NULL")
	}

	conn = conn.Order("created_at DESC, updated_at DESC")
	if p.Offset > 0 {
		conn = conn.Offset(p.Offset)
	}
	conn = conn.Limit(p.Limit)

	entries := []database.Entry{}
	if err := conn.Find(&entries).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "finding entries")
	}

	return entries, nil
}

// GetEntriesAfterCursor returns entries mutated after the given cursor
// in ascending sequence order, capped at limit. Tombstoned entries are
// included: the caller decides how to present them.
func (a *App) GetEntriesAfterCursor(cursor int64, limit int, deviceID string) ([]database.Entry, error) {
	conn := a.DB.Where("updated_seq > ?", cursor)

	if deviceID != "" {
		conn = conn.Where("device_id = ?", deviceID)
	}

	entries := []database.Entry{}
	if err := conn.Order("updated_seq ASC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "finding entries after cursor")
	}

	return entries, nil
}
