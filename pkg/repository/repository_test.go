package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
	"github.com/secmon-lab/briareus/pkg/repository/firestore"
	"github.com/secmon-lab/briareus/pkg/repository/memory"
)

// eachBackend runs the given test against every available backend.
// The Firestore variant is skipped unless TEST_FIRESTORE_PROJECT_ID and
// TEST_FIRESTORE_DATABASE_ID are set.
func eachBackend(t *testing.T, fn func(t *testing.T, newRepo func(t *testing.T) interfaces.Repository)) {
	t.Helper()

	t.Run("memory", func(t *testing.T) {
		fn(t, func(t *testing.T) interfaces.Repository {
			return memory.New()
		})
	})

	t.Run("firestore", func(t *testing.T) {
		projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
		if projectID == "" {
			t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
		}
		databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")
		if databaseID == "" {
			t.Skip("TEST_FIRESTORE_DATABASE_ID not set")
		}

		fn(t, func(t *testing.T) interfaces.Repository {
			prefix := fmt.Sprintf("test_%d", time.Now().UnixNano())
			repo, err := firestore.New(context.Background(), projectID, databaseID,
				firestore.WithCollectionPrefix(prefix))
			if err != nil {
				t.Fatalf("failed to create firestore repository: %v", err)
			}
			t.Cleanup(func() {
				if err := repo.Close(); err != nil {
					t.Logf("failed to close firestore repository: %v", err)
				}
			})
			return repo
		})
	})
}
