package mongodb

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/debeshghorui/Roomsy/internal/domain"
	"github.com/debeshghorui/Roomsy/internal/platform/logger"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var testDB *mongo.Database

// TestMain starts a throwaway MongoDB container. Set INTEGRATION_TESTS=true
// to run this suite; it is skipped otherwise.
func TestMain(m *testing.M) {
	if os.Getenv("INTEGRATION_TESTS") != "true" {
		os.Exit(m.Run())
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("Could not construct pool: %s", err)
	}
	if err := pool.Client.Ping(); err != nil {
		log.Fatalf("Could not connect to Docker: %s", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mongo",
		Tag:        "6.0",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("Could not start MongoDB resource: %s", err)
	}

	uri := fmt.Sprintf("mongodb://%s", resource.GetHostPort("27017/tcp"))
	var client *mongo.Client
	if err := pool.Retry(func() error {
		var retryErr error
		client, retryErr = mongo.Connect(context.Background(), options.Client().ApplyURI(uri))
		if retryErr != nil {
			return retryErr
		}
		return client.Ping(context.Background(), nil)
	}); err != nil {
		log.Fatalf("Could not connect to MongoDB: %s", err)
	}
	testDB = client.Database("roomsy_test")

	code := m.Run()

	_ = client.Disconnect(context.Background())
	_ = pool.Purge(resource)
	os.Exit(code)
}

func requireIntegration(t *testing.T) {
	t.Helper()
	if testDB == nil {
		t.Skip("set INTEGRATION_TESTS=true to run MongoDB integration tests")
	}
}

func newTestListing(t *testing.T, ownerID primitive.ObjectID) *domain.Listing {
	t.Helper()
	listing, err := domain.NewListing(ownerID, "Seaside cottage", "Two bedrooms.", "Lisbon", "Portugal", 120)
	require.NoError(t, err)
	listing.Geometry = &domain.GeoPoint{Longitude: -9.1393, Latitude: 38.7223}
	return listing
}

func TestListingRepository_Integration(t *testing.T) {
	requireIntegration(t)
	ctx := context.Background()
	repo, err := NewListingRepository(testDB, logger.NewNop())
	require.NoError(t, err)
	ownerID := primitive.NewObjectID()

	t.Run("CreateAndFind", func(t *testing.T) {
		listing := newTestListing(t, ownerID)
		require.NoError(t, repo.Create(ctx, listing))

		found, err := repo.FindByID(ctx, listing.ID)
		require.NoError(t, err)
		assert.Equal(t, listing.Title, found.Title)
		assert.Equal(t, ownerID, found.OwnerID)
		require.NotNil(t, found.Geometry)
		assert.Equal(t, listing.Geometry.Longitude, found.Geometry.Longitude)
		assert.NotNil(t, found.ReviewIDs)
		assert.Empty(t, found.ReviewIDs)
	})

	t.Run("FindMissingIsNotFound", func(t *testing.T) {
		_, err := repo.FindByID(ctx, primitive.NewObjectID())
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("PartialUpdate", func(t *testing.T) {
		listing := newTestListing(t, ownerID)
		require.NoError(t, repo.Create(ctx, listing))

		price := 150.0
		updated, err := repo.Update(ctx, listing.ID, domain.ListingUpdate{Price: &price})
		require.NoError(t, err)
		assert.Equal(t, 150.0, updated.Price)
		assert.Equal(t, listing.Title, updated.Title, "untouched fields must survive")
		assert.True(t, updated.UpdatedAt.After(listing.UpdatedAt))
	})

	t.Run("ReviewLinkRoundTrip", func(t *testing.T) {
		listing := newTestListing(t, ownerID)
		require.NoError(t, repo.Create(ctx, listing))
		reviewID := primitive.NewObjectID()

		require.NoError(t, repo.AddReviewID(ctx, listing.ID, reviewID))
		// Adding the same id twice must not duplicate it.
		require.NoError(t, repo.AddReviewID(ctx, listing.ID, reviewID))

		found, err := repo.FindByID(ctx, listing.ID)
		require.NoError(t, err)
		assert.Equal(t, []primitive.ObjectID{reviewID}, found.ReviewIDs)

		require.NoError(t, repo.RemoveReviewID(ctx, listing.ID, reviewID))
		found, err = repo.FindByID(ctx, listing.ID)
		require.NoError(t, err)
		assert.Empty(t, found.ReviewIDs)
	})

	t.Run("DeleteTwiceIsNotFound", func(t *testing.T) {
		listing := newTestListing(t, ownerID)
		require.NoError(t, repo.Create(ctx, listing))

		require.NoError(t, repo.Delete(ctx, listing.ID))
		assert.ErrorIs(t, repo.Delete(ctx, listing.ID), domain.ErrNotFound)
	})
}

func TestReviewRepository_Integration(t *testing.T) {
	requireIntegration(t)
	ctx := context.Background()
	repo, err := NewReviewRepository(testDB, logger.NewNop())
	require.NoError(t, err)

	listingID := primitive.NewObjectID()
	authorID := primitive.NewObjectID()

	newReview := func(comment string, createdAt time.Time) *domain.Review {
		review, err := domain.NewReview(listingID, authorID, 4, comment)
		require.NoError(t, err)
		review.CreatedAt = createdAt
		review.UpdatedAt = createdAt
		return review
	}

	t.Run("FindByIDsNewestFirst", func(t *testing.T) {
		base := time.Now().UTC().Truncate(time.Millisecond)
		older := newReview("older", base.Add(-time.Hour))
		newer := newReview("newer", base)
		require.NoError(t, repo.Create(ctx, older))
		require.NoError(t, repo.Create(ctx, newer))

		found, err := repo.FindByIDs(ctx, []primitive.ObjectID{older.ID, newer.ID})
		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, "newer", found[0].Comment)
		assert.Equal(t, "older", found[1].Comment)
	})

	t.Run("FindByIDsEmptySet", func(t *testing.T) {
		found, err := repo.FindByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("DeleteByListingID", func(t *testing.T) {
		scopedListing := primitive.NewObjectID()
		for i := 0; i < 3; i++ {
			review, err := domain.NewReview(scopedListing, authorID, 3, fmt.Sprintf("review %d", i))
			require.NoError(t, err)
			require.NoError(t, repo.Create(ctx, review))
		}

		deleted, err := repo.DeleteByListingID(ctx, scopedListing)
		require.NoError(t, err)
		assert.Equal(t, int64(3), deleted)

		// Deleting again is not an error; there is just nothing to delete.
		deleted, err = repo.DeleteByListingID(ctx, scopedListing)
		require.NoError(t, err)
		assert.Equal(t, int64(0), deleted)
	})
}

func TestUserRepository_Integration(t *testing.T) {
	requireIntegration(t)
	ctx := context.Background()
	repo, err := NewUserRepository(testDB, logger.NewNop())
	require.NoError(t, err)

	now := time.Now().UTC()
	user := &domain.User{
		ID:           primitive.NewObjectID(),
		Username:     "ana",
		Email:        "ana@example.com",
		PasswordHash: "hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, repo.Create(ctx, user))

	t.Run("DuplicateEmailRejected", func(t *testing.T) {
		dup := &domain.User{
			ID:           primitive.NewObjectID(),
			Username:     "ana2",
			Email:        "ana@example.com",
			PasswordHash: "hash",
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		assert.ErrorIs(t, repo.Create(ctx, dup), domain.ErrDuplicateEmail)
	})

	t.Run("DuplicateUsernameRejected", func(t *testing.T) {
		dup := &domain.User{
			ID:           primitive.NewObjectID(),
			Username:     "ana",
			Email:        "other@example.com",
			PasswordHash: "hash",
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		assert.ErrorIs(t, repo.Create(ctx, dup), domain.ErrDuplicateUsername)
	})

	t.Run("Lookups", func(t *testing.T) {
		byID, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "ana", byID.Username)

		byName, err := repo.FindByUsername(ctx, "ana")
		require.NoError(t, err)
		assert.Equal(t, user.ID, byName.ID)

		byEmail, err := repo.FindByEmail(ctx, "ana@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, byEmail.ID)

		_, err = repo.FindByUsername(ctx, "ghost")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("PartialUpdate", func(t *testing.T) {
		other := &domain.User{
			ID:           primitive.NewObjectID(),
			Username:     "carla",
			Email:        "carla@example.com",
			PasswordHash: "hash",
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		require.NoError(t, repo.Create(ctx, other))

		username := "carlita"
		updated, err := repo.Update(ctx, other.ID, domain.UserUpdate{Username: &username})
		require.NoError(t, err)
		assert.Equal(t, "carlita", updated.Username)
		assert.Equal(t, "carla@example.com", updated.Email, "untouched field survives")

		email := "ana@example.com"
		_, err = repo.Update(ctx, other.ID, domain.UserUpdate{Email: &email})
		assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

		_, err = repo.Update(ctx, primitive.NewObjectID(), domain.UserUpdate{Username: &username})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
