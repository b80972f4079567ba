package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	appModels "github.com/vitbooks/exchange/internal/app/models"
	appRepos "github.com/vitbooks/exchange/internal/app/repositories"
)

func strPtr(s string) *string { return &s }

// demoLenders are created with a couple of listings each so a fresh
// development database has something to browse.
var demoLenders = []struct {
	email    string
	name     string
	listings []appModels.Listing
}{
	{
		email: "aarav.sharma2022@vitstudent.ac.in",
		name:  "Aarav Sharma",
		listings: []appModels.Listing{
			{
				ItemType: "Textbook", BookTitle: strPtr("Calculus: Early Transcendentals"), BookAuthor: strPtr("James Stewart"),
				CourseName: "Calculus for Engineers", CourseCode: "MAT1011", ModulesIncluded: strPtr("1-7"),
				ContactDetails: "aarav.sharma2022@vitstudent.ac.in", CollectionPoint: "SJT main lobby",
			},
			{
				ItemType: "Lab Manual", BookTitle: strPtr("Engineering Physics Lab Manual"),
				CourseName: "Engineering Physics", CourseCode: "PHY1701",
				ContactDetails: "+91 90000 00001", CollectionPoint: "Men's hostel B block",
			},
		},
	},
	{
		email: "diya.patel2023@vitstudent.ac.in",
		name:  "Diya Patel",
		listings: []appModels.Listing{
			{
				ItemType:   "Lab Coat",
				CourseName: "Engineering Chemistry", CourseCode: "CHY1701",
				ContactDetails: "+91 90000 00002", CollectionPoint: "Ladies' hostel G block",
			},
		},
	},
}

// CreateDemoData inserts demo users, listings and a board posting. Lenders
// that already own listings are left untouched, so it is safe to run on every start.
func CreateDemoData(ctx context.Context, repos *appRepos.Repositories, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating demo data...")
	var finalErr error

	var firstLender *appModels.User
	for _, demo := range demoLenders {
		user, err := repos.UserRepository.GetOrCreate(ctx, demo.email, demo.name)
		if err != nil {
			lgr.Error().Err(err).Str("email", demo.email).Msg("Error creating demo user")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		if firstLender == nil {
			firstLender = user
		}

		existing, err := repos.ListingRepository.ListByLender(ctx, user.ID)
		if err != nil {
			finalErr = errors.Join(finalErr, err)
			continue
		}
		if len(existing) > 0 {
			continue
		}

		for i := range demo.listings {
			listing := demo.listings[i]
			listing.LenderID = user.ID
			if err := repos.ListingRepository.Create(ctx, &listing); err != nil {
				lgr.Error().Err(err).Str("course", listing.CourseCode).Msg("Error creating demo listing")
				finalErr = errors.Join(finalErr, err)
			}
		}

		if user == firstLender {
			br := &appModels.BorrowRequest{
				RequesterID: user.ID,
				ItemType:    "Textbook",
				BookTitle:   strPtr("Digital Logic and Design"),
				CourseName:  "Digital Systems",
				CourseCode:  "ECE2003",
				Slot:        "B1+TB1",
			}
			if err := repos.BorrowRequestRepository.Create(ctx, br); err != nil {
				finalErr = errors.Join(finalErr, err)
			}
		}
	}

	if finalErr != nil {
		return fmt.Errorf("demo data incomplete: %w", finalErr)
	}

	lgr.Info().Msg("Demo data ready.")
	return nil
}
