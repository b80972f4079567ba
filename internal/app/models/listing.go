package models

import "time"

// Listing defines an item offered for rent, based on the 'listings' table
type Listing struct {
	ID              int64         `json:"id" db:"id"`
	LenderID        int64         `json:"lender_id" db:"lender_id"`
	ItemType        string        `json:"item_type" db:"item_type"`
	BookTitle       *string       `json:"book_title" db:"book_title"`
	BookAuthor      *string       `json:"book_author" db:"book_author"`
	CourseName      string        `json:"course_name" db:"course_name"`
	CourseCode      string        `json:"course_code" db:"course_code"`
	ModulesIncluded *string       `json:"modules_included" db:"modules_included"`
	ContactDetails  string        `json:"contact_details" db:"contact_details"`
	CollectionPoint string        `json:"collection_point" db:"collection_point"`
	PhotoURL        *string       `json:"photo_url" db:"photo_url"`
	Status          ListingStatus `json:"status" db:"status"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" db:"updated_at"`
}

// OwnerID returns the id of the lender who owns the listing
func (l *Listing) OwnerID() int64 {
	return l.LenderID
}

// ListingFilter holds the optional filters of the public listing feed
type ListingFilter struct {
	ItemType string
	Search   string
	Sort     ListingSort
}
