package repositories

import (
	"github.com/Masterminds/squirrel"
	"github.com/vitbooks/exchange/internal/db"
)

// rowScanner is satisfied by pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// psql is the statement builder shared by every repository
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository          *UserRepository
	OTPRepository           *OTPRepository
	ListingRepository       *ListingRepository
	RentalRequestRepository *RentalRequestRepository
	BorrowRequestRepository *BorrowRequestRepository
}

// NewRepositories initializes all repositories
func NewRepositories(conn db.DBTX) *Repositories {
	return &Repositories{
		UserRepository:          NewUserRepository(conn),
		OTPRepository:           NewOTPRepository(conn),
		ListingRepository:       NewListingRepository(conn),
		RentalRequestRepository: NewRentalRequestRepository(conn),
		BorrowRequestRepository: NewBorrowRequestRepository(conn),
	}
}
