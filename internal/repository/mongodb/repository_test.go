package mongodb

import (
	"context"
	"testing"
	"time"
)

func TestNewMongoDBRepositoryFailsWhenUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	repo, err := NewMongoDBRepository(ctx, "mongodb://127.0.0.1:1/?serverSelectionTimeoutMS=200&connectTimeoutMS=200", "station")
	if err == nil {
		_ = repo.Close(context.Background())
		t.Fatal("expected ping error for an unreachable server")
	}
	if repo != nil {
		t.Fatalf("repository must be nil on error, got %+v", repo)
	}
}
