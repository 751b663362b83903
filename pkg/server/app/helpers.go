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
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// nextUpdatedSeq increments the table-wide cursor counter by 1 and
// returns the new value. It must run inside the transaction that writes
// the mutation it accompanies: the UPDATE takes a row lock on the
// counter, serializing concurrent allocations, and the read-back within
// the same transaction observes the incremented value.
func nextUpdatedSeq(tx *gorm.DB) (int64, error) {
	if err := tx.Model(&database.SyncState{}).
		Where("id = ?", database.SyncStateID).
		Update("max_updated_seq", gorm.Expr("max_updated_seq + 1")).Error; err != nil {
		return 0, errors.Wrap(err, "incrementing max_updated_seq")
	}

	var state database.SyncState
	if err := tx.Select("max_updated_seq").Where("id = ?", database.SyncStateID).First(&state).Error; err != nil {
		return 0, errors.Wrap(err, "getting the updated sync state")
	}

	return state.MaxUpdatedSeq, nil
}

// GetMaxUpdatedSeq returns the current table-wide cursor position. An
// empty server reports 0.
func (a *App) GetMaxUpdatedSeq() (int64, error) {
	var state database.SyncState
	if err := a.DB.Select("max_updated_seq").Where("id = ?", database.SyncStateID).First(&state).Error; err != nil {
		return 0, errors.Wrap(err, "getting sync state")
	}

	return state.MaxUpdatedSeq, nil
}
