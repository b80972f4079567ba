package dto

import (
	"strings"

	"github.com/vitbooks/exchange/internal/app/models"
)

// ListingQuery holds the public feed filters
type ListingQuery struct {
	ItemType string `form:"item_type" example:"Textbook"`
	Sort     string `form:"sort" example:"newest" enums:"newest,oldest"`
	Search   string `form:"search" example:"calculus"`
}

// ToFilter converts the query into a repository filter
func (q ListingQuery) ToFilter() models.ListingFilter {
	return models.ListingFilter{
		ItemType: q.ItemType,
		Search:   q.Search,
		Sort:     models.ListingSort(q.Sort),
	}
}

// CreateListingRequest is the multipart form for a new listing; the optional
// image is sent as the `photo` file field.
type CreateListingRequest struct {
	ItemType        string  `form:"item_type" json:"item_type" binding:"required" example:"Textbook"`
	BookTitle       *string `form:"book_title" json:"book_title" example:"Calculus: Early Transcendentals"`
	BookAuthor      *string `form:"book_author" json:"book_author" example:"James Stewart"`
	CourseName      string  `form:"course_name" json:"course_name" binding:"required" example:"Calculus"`
	CourseCode      string  `form:"course_code" json:"course_code" binding:"required" example:"MAT1011"`
	ModulesIncluded *string `form:"modules_included" json:"modules_included" example:"1-5"`
	ContactDetails  string  `form:"contact_details" json:"contact_details" binding:"required" example:"+91 98765 43210"`
	CollectionPoint string  `form:"collection_point" json:"collection_point" binding:"required" example:"SJT lobby"`
}

// UpdateListingRequest replaces every mutable field of a listing
type UpdateListingRequest struct {
	ItemType        string               `json:"item_type" binding:"required" example:"Textbook"`
	BookTitle       *string              `json:"book_title" example:"Calculus: Early Transcendentals"`
	BookAuthor      *string              `json:"book_author" example:"James Stewart"`
	CourseName      string               `json:"course_name" binding:"required" example:"Calculus"`
	CourseCode      string               `json:"course_code" binding:"required" example:"MAT1011"`
	ModulesIncluded *string              `json:"modules_included" example:"1-5"`
	ContactDetails  string               `json:"contact_details" binding:"required" example:"+91 98765 43210"`
	CollectionPoint string               `json:"collection_point" binding:"required" example:"SJT lobby"`
	PhotoURL        *string              `json:"photo_url" example:"http://localhost:8080/uploads/book_rental/4b1c.jpg"`
	Status          models.ListingStatus `json:"status" binding:"required" example:"AVAILABLE" enums:"AVAILABLE,LENT"`
}

// ToModel builds the listing a create request describes
func (r *CreateListingRequest) ToModel(lenderID int64) *models.Listing {
	return &models.Listing{
		LenderID:        lenderID,
		ItemType:        strings.TrimSpace(r.ItemType),
		BookTitle:       emptyToNil(r.BookTitle),
		BookAuthor:      emptyToNil(r.BookAuthor),
		CourseName:      strings.TrimSpace(r.CourseName),
		CourseCode:      strings.TrimSpace(r.CourseCode),
		ModulesIncluded: emptyToNil(r.ModulesIncluded),
		ContactDetails:  strings.TrimSpace(r.ContactDetails),
		CollectionPoint: strings.TrimSpace(r.CollectionPoint),
		Status:          models.ListingAvailable,
	}
}

// Apply overwrites every mutable field of listing with the request values
func (r *UpdateListingRequest) Apply(listing *models.Listing) {
	listing.ItemType = strings.TrimSpace(r.ItemType)
	listing.BookTitle = r.BookTitle
	listing.BookAuthor = r.BookAuthor
	listing.CourseName = strings.TrimSpace(r.CourseName)
	listing.CourseCode = strings.TrimSpace(r.CourseCode)
	listing.ModulesIncluded = r.ModulesIncluded
	listing.ContactDetails = strings.TrimSpace(r.ContactDetails)
	listing.CollectionPoint = strings.TrimSpace(r.CollectionPoint)
	listing.PhotoURL = r.PhotoURL
	listing.Status = r.Status
}

// emptyToNil maps an empty multipart field to NULL
func emptyToNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
