package models

import "time"

// RentalRequest defines a borrower's request against a listing, based on the 'rental_requests' table
type RentalRequest struct {
	ID         int64         `json:"id" db:"id"`
	ListingID  int64         `json:"listing_id" db:"listing_id"`
	BorrowerID int64         `json:"borrower_id" db:"borrower_id"`
	Status     RequestStatus `json:"status" db:"status"`
	CreatedAt  time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at" db:"updated_at"`
}

// IncomingRequest is a pending request as seen by the lender
type IncomingRequest struct {
	ID           int64         `json:"id" db:"id"`
	ListingID    int64         `json:"listing_id" db:"listing_id"`
	Status       RequestStatus `json:"status" db:"status"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
	BookTitle    *string       `json:"book_title" db:"book_title"`
	CourseName   string        `json:"course_name" db:"course_name"`
	BorrowerName string        `json:"borrower_name" db:"borrower_name"`
}

// OutgoingRequest is a request as seen by the borrower who made it
type OutgoingRequest struct {
	ID         int64         `json:"id" db:"id"`
	ListingID  int64         `json:"listing_id" db:"listing_id"`
	Status     RequestStatus `json:"status" db:"status"`
	CreatedAt  time.Time     `json:"created_at" db:"created_at"`
	BookTitle  *string       `json:"book_title" db:"book_title"`
	CourseName string        `json:"course_name" db:"course_name"`
}

// RequestOwnership is the row locked while a lender responds to a request
type RequestOwnership struct {
	RequestID int64
	ListingID int64
	LenderID  int64
	Status    RequestStatus
}

// OwnerID returns the id of the lender who owns the requested listing
func (o *RequestOwnership) OwnerID() int64 {
	return o.LenderID
}
