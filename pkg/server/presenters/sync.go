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

	"github.com/pastoapp/pastoapp/pkg/server/app"
)

// RejectedItem is a pushed item that could not be applied
type RejectedItem struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// PushResult is a result of PresentPushResult
type PushResult struct {
	Accepted   []string       `json:"accepted"`
	Rejected   []RejectedItem `json:"rejected"`
	ServerTime time.Time      `json:"serverTime"`
	NewCursor  int64          `json:"newCursor"`
}

// PresentPushResult presents the outcome of a push batch
func PresentPushResult(result app.PushResult, serverTime time.Time) PushResult {
	accepted := []string{}
	for _, entry := range result.Accepted {
		accepted = append(accepted, entry.UUID)
	}

	rejected := []RejectedItem{}
	for _, item := range result.Rejected {
		rejected = append(rejected, RejectedItem{
			ID:     item.UUID,
			Reason: item.Reason,
		})
	}

	return PushResult{
		Accepted:   accepted,
		Rejected:   rejected,
		ServerTime: FormatTS(serverTime),
		NewCursor:  result.NewCursor,
	}
}

// SyncPage is a result of PresentSyncPage
type SyncPage struct {
	Items     []Entry  `json:"items"`
	Deleted   []string `json:"deleted"`
	NewCursor int64    `json:"newCursor"`
}

// PresentSyncPage presents one page of the cursor stream
func PresentSyncPage(page app.SyncPage) SyncPage {
	return SyncPage{
		Items:     PresentEntries(page.Items),
		Deleted:   page.Deleted,
		NewCursor: page.NewCursor,
	}
}
