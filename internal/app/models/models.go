package models

// ListingStatus defines the lifecycle state of a listing
type ListingStatus string

const (
	ListingAvailable ListingStatus = "AVAILABLE"
	ListingLent      ListingStatus = "LENT"
)

// Valid reports whether s is a known listing status
func (s ListingStatus) Valid() bool {
	return s == ListingAvailable || s == ListingLent
}

// RequestStatus defines the lifecycle state of a rental request
type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestAccepted RequestStatus = "ACCEPTED"
	RequestRejected RequestStatus = "REJECTED"
)

// IsDecision reports whether s is a terminal state a lender may choose
func (s RequestStatus) IsDecision() bool {
	return s == RequestAccepted || s == RequestRejected
}

// BorrowRequestStatus defines the state of an open board posting
type BorrowRequestStatus string

const (
	BorrowRequestOpen BorrowRequestStatus = "OPEN"
)

// ListingSort defines the ordering of the public listing feed
type ListingSort string

const (
	SortNewest ListingSort = "newest"
	SortOldest ListingSort = "oldest"
)
