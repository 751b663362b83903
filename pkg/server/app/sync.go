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
	"github.com/pastoapp/pastoapp/pkg/server/database"
	"github.com/pastoapp/pastoapp/pkg/server/helpers"
	"github.com/pkg/errors"
)

// RejectedItem describes a pushed candidate that could not be applied
type RejectedItem struct {
	UUID   string
	Reason string
}

// PushResult is the outcome of applying a push batch
type PushResult struct {
	Accepted  []database.Entry
	Rejected  []RejectedItem
	NewCursor int64
}

// PushEntries applies a batch of pushed candidates and deletions. The
// batch is not atomic: each candidate is applied in its own transaction
// so that one malformed item does not hold back the rest. Deletions run
// after upserts and are applied silently; only upserted entries appear
// in Accepted. Deleting an identity the server has never seen is a
// no-op rather than an error, since the client may be retrying a batch
// whose create never arrived.
func (a *App) PushEntries(candidates []EntryParams, deletions []string, deviceID string) (PushResult, error) {
	var result PushResult
	result.Accepted = []database.Entry{}
	result.Rejected = []RejectedItem{}

	for _, p := range candidates {
		entry, err := a.UpsertEntry(p, deviceID)
		if err != nil {
			uuid := p.UUID
			if uuid == "" {
				uuid = helpers.NilUUID
			}

			result.Rejected = append(result.Rejected, RejectedItem{
				UUID:   uuid,
				Reason: err.Error(),
			})
			continue
		}

		result.Accepted = append(result.Accepted, entry)
	}

	for _, uuid := range deletions {
		entry, err := a.GetEntryByUUID(uuid)
		if err != nil {
			return result, errors.Wrapf(err, "resolving deletion '%s'", uuid)
		}
		if entry == nil {
			continue
		}

		tx := a.DB.Begin()

		if _, err := a.DeleteEntry(tx, *entry); err != nil {
			tx.Rollback()
			return result, errors.Wrapf(err, "deleting entry '%s'", uuid)
		}

		tx.Commit()
	}

	maxSeq, err := a.GetMaxUpdatedSeq()
	if err != nil {
		return result, errors.Wrap(err, "getting max updated_seq")
	}
	result.NewCursor = maxSeq

	return result, nil
}

// SyncPage is one page of the cursor stream
type SyncPage struct {
	Items     []database.Entry
	Deleted   []string
	NewCursor int64
}

// GetSyncPage returns the entries mutated after the given cursor, split
// into live items and tombstoned identities. NewCursor is the highest
// sequence number on the page, or the input cursor when the page is
// empty, so a client polling an idle server never moves backwards.
func (a *App) GetSyncPage(cursor int64, limit int, deviceID string) (SyncPage, error) {
	page := SyncPage{
		Items:     []database.Entry{},
		Deleted:   []string{},
		NewCursor: cursor,
	}

	entries, err := a.GetEntriesAfterCursor(cursor, limit, deviceID)
	if err != nil {
		return page, errors.Wrap(err, "getting entries after cursor")
	}

	for _, entry := range entries {
		if entry.DeletedAt != nil {
			page.Deleted = append(page.Deleted, entry.UUID)
		} else {
			page.Items = append(page.Items, entry)
		}

		if entry.UpdatedSeq > page.NewCursor {
			page.NewCursor = entry.UpdatedSeq
		}
	}

	return page, nil
}
