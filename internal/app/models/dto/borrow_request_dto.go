package dto

// CreateBorrowRequestRequest posts an item the caller is looking for
type CreateBorrowRequestRequest struct {
	ItemType   string  `json:"item_type" binding:"required" example:"Lab Coat"`
	BookTitle  *string `json:"book_title" example:"Engineering Chemistry"`
	BookAuthor *string `json:"book_author" example:"Jain & Jain"`
	CourseName string  `json:"course_name" binding:"required" example:"Engineering Chemistry"`
	CourseCode string  `json:"course_code" binding:"required" example:"CHY1701"`
	Slot       string  `json:"slot" binding:"required" example:"A1+TA1"`
}
