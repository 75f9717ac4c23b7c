package main

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"

	"github.com/mentorconnect/backend/internal/models"
	"github.com/mentorconnect/backend/internal/repository"
)

type demoAccount struct {
	first, last, email, role string
	bio                      string
	expertise                []string
	rate                     float64
}

var demoAccounts = []demoAccount{
	{first: "Ada", last: "Admin", email: "admin@mentorconnect.app", role: models.RoleAdmin},
	{
		first: "Maya", last: "Mentor", email: "mentor@mentorconnect.app", role: models.RoleMentor,
		bio:       "Math tutor for algebra and calculus.",
		expertise: []string{"Math", "Physics"},
		rate:      50,
	},
	{first: "Sam", last: "Student", email: "student@mentorconnect.app", role: models.RoleUser},
}

// seedDemo creates the demo accounts that do not exist yet and returns how
// many were inserted.
func seedDemo(ctx context.Context, store repository.Store, password string) (int, error) {
	if len(password) < 8 {
		return 0, fmt.Errorf("password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	created := 0
	err = store.Transaction(ctx, func(tx repository.Store) error {
		for _, acc := range demoAccounts {
			_, err := tx.Users().FindByEmail(ctx, acc.email)
			if err == nil {
				continue
			}
			if !errors.Is(err, repository.ErrNotFound) {
				return err
			}

			user := models.User{
				FirstName: acc.first,
				LastName:  acc.last,
				Email:     acc.email,
				Password:  string(hash),
				Role:      acc.role,
			}
			if err := tx.Users().Create(ctx, &user); err != nil {
				return fmt.Errorf("create %s: %w", acc.email, err)
			}
			if acc.role == models.RoleMentor {
				profile := models.MentorProfile{
					UserID:     user.ID,
					Bio:        acc.bio,
					Expertise:  datatypes.JSONSlice[string](acc.expertise),
					HourlyRate: acc.rate,
					IsVerified: true,
				}
				if err := tx.Mentors().Create(ctx, &profile); err != nil {
					return fmt.Errorf("create mentor profile: %w", err)
				}
			}
			created++
		}
		return nil
	})
	return created, err
}
