/* Copyright 2025 Libris Authors
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

	"github.com/i200219/library-management/pkg/server/database"
)

// BorrowRecord is a result of PresentBorrowRecord
type BorrowRecord struct {
	UUID       string     `json:"uuid"`
	BookUUID   string     `json:"book_uuid"`
	BookTitle  string     `json:"book_title"`
	UserUUID   string     `json:"user_uuid"`
	UserName   string     `json:"user_name"`
	BorrowDate time.Time  `json:"borrow_date"`
	DueDate    time.Time  `json:"due_date"`
	ReturnDate *time.Time `json:"return_date"`
	Status     string     `json:"status"`
}

// PresentBorrowRecord presents a borrow record
func PresentBorrowRecord(record database.BorrowRecord) BorrowRecord {
	ret := BorrowRecord{
		UUID:       record.UUID,
		BookUUID:   record.Book.UUID,
		BookTitle:  record.Book.Title,
		UserUUID:   record.User.UUID,
		UserName:   record.User.FullName,
		BorrowDate: FormatTS(record.BorrowDate),
		DueDate:    FormatTS(record.DueDate),
		Status:     record.Status,
	}

	if record.ReturnDate != nil {
		t := FormatTS(*record.ReturnDate)
		ret.ReturnDate = &t
	}

	return ret
}

// PresentBorrowRecords presents borrow records
func PresentBorrowRecords(records []database.BorrowRecord) []BorrowRecord {
	ret := []BorrowRecord{}

	for _, record := range records {
		p := PresentBorrowRecord(record)
		ret = append(ret, p)
	}

	return ret
}
