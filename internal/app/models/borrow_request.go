package models

import "time"

// BorrowRequest is an open board posting, based on the 'borrow_requests' table
type BorrowRequest struct {
	ID            int64               `json:"id" db:"id"`
	RequesterID   int64               `json:"requester_id" db:"requester_id"`
	ItemType      string              `json:"item_type" db:"item_type"`
	BookTitle     *string             `json:"book_title" db:"book_title"`
	BookAuthor    *string             `json:"book_author" db:"book_author"`
	CourseName    string              `json:"course_name" db:"course_name"`
	CourseCode    string              `json:"course_code" db:"course_code"`
	Slot          string              `json:"slot" db:"slot"`
	Status        BorrowRequestStatus `json:"status" db:"status"`
	CreatedAt     time.Time           `json:"created_at" db:"created_at"`
	RequesterName string              `json:"requester_name,omitempty" db:"requester_name"`
}
