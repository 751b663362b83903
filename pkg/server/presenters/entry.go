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

// Package presenters defines how the data models are presented over the wire
package presenters

import (
	"time"

	"github.com/pastoapp/pastoapp/pkg/server/database"
)

// Entry is a result of PresentEntry
type Entry struct {
	ID         int        `json:"id"`
	UUID       string     `json:"uuid"`
	LotNumber  string     `json:"lotNumber"`
	EntryTime  time.Time  `json:"entryTime"`
	ExitTime   time.Time  `json:"exitTime"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	DeletedAt  *time.Time `json:"deletedAt"`
	DeviceID   *string    `json:"deviceId"`
	UpdatedSeq int64      `json:"updatedSeq"`
}

// PresentEntry presents an entry
func PresentEntry(entry database.Entry) Entry {
	ret := Entry{
		ID:         entry.ID,
		UUID:       entry.UUID,
		LotNumber:  entry.LotNumber,
		EntryTime:  FormatTS(entry.EntryTime),
		ExitTime:   FormatTS(entry.ExitTime),
		CreatedAt:  FormatTS(entry.CreatedAt),
		UpdatedAt:  FormatTS(entry.UpdatedAt),
		DeletedAt:  FormatTSPtr(entry.DeletedAt),
		UpdatedSeq: entry.UpdatedSeq,
	}
	if entry.DeviceID.Valid {
		deviceID := entry.DeviceID.String
		ret.DeviceID = &deviceID
	}

	return ret
}

// PresentEntries presents entries
func PresentEntries(entries []database.Entry) []Entry {
	ret := []Entry{}

	for _, entry := range entries {
		p := PresentEntry(entry)
		ret = append(ret, p)
	}

	return ret
}
