package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/greenverse/greenverse-go/internal/model"
)

// DemoAccounts are the sample members offered on the login page.
var DemoAccounts = []model.NewUser{
	{
		Email: "test@example.com", Username: "testuser", FirstName: "Test", LastName: "User",
		Password: "test",
	},
	{
		Email: "jane.doe@example.com", Username: "plantlover123", FirstName: "Jane", LastName: "Doe",
		Password: "password",
		Profile: model.Profile{
			Bio:         "Urban gardener passionate about houseplants and sustainable gardening practices.",
			Location:    "Portland, OR",
			GrowingZone: "8b",
		},
	},
	{
		Email: "john.smith@example.com", Username: "gardenguru", FirstName: "John", LastName: "Smith",
		Password: "garden123",
		Profile: model.Profile{
			Bio:         "Professional landscaper with 15 years of experience in organic gardening.",
			Location:    "Austin, TX",
			GrowingZone: "8a",
		},
	},
	{
		Email: "sarah.green@example.com", Username: "greenthumb", FirstName: "Sarah", LastName: "Green",
		Password: "plants456",
		Profile: model.Profile{
			Bio:         "Succulent enthusiast and indoor plant collector. Love sharing growing tips!",
			Location:    "San Diego, CA",
			GrowingZone: "10a",
		},
	},
}

// SeedDemoUsers creates the demo accounts that do not exist yet and returns
// how many were created.
func SeedDemoUsers(ctx context.Context, store *CredentialStore) (int, error) {
	created := 0
	for _, account := range DemoAccounts {
		_, err := store.CreateUser(ctx, account)
		if errors.Is(err, ErrIdentityExists) {
			continue
		}
		if err != nil {
			return created, err
		}
		created++
	}

	slog.Info("demo accounts seeded", "created", created)
	return created, nil
}
