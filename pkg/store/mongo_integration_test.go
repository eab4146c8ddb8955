//go:build integration

package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

func TestMongoStore_Integration(t *testing.T) {
	uri := os.Getenv("CODECITY_MONGO_URI")
	if uri == "" {
		t.Skip("CODECITY_MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	s, err := NewMongoStore(ctx, MongoConfig{URI: uri, Database: "codecity_test"})
	if err != nil {
		t.Fatalf("NewMongoStore() error: %v", err)
	}
	defer s.Close()

	rec := sampleRecord()
	if err := s.Put(ctx, rec); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	got, err := s.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.Layout.Width != rec.Layout.Width {
		t.Errorf("Get() width = %d, want %d", got.Layout.Width, rec.Layout.Width)
	}
	if err := s.Delete(ctx, rec.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := s.Get(ctx, rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Delete error = %v, want ErrNotFound", err)
	}
}
