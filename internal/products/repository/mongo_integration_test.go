//go:build integration

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"product-store/internal/products"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const testDatabase = "test_product_store"

func setupTestRepo(t *testing.T) *MongoRepository {
	t.Helper()
	ctx := context.Background()

	container, err := mongodb.RunContainer(ctx, testcontainers.WithImage("mongo:7"))
	if err != nil {
		t.Fatalf("start mongo container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("get connection string: %v", err)
	}

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("connect mongo: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(ctx) })

	if err := client.Ping(connectCtx, nil); err != nil {
		t.Fatalf("ping mongo: %v", err)
	}

	return NewMongo(client, testDatabase)
}

func canonical(name string, price float64) products.Canonical {
	return products.Canonical{Name: name, Price: price, Image: "https://example.com/p.png"}
}

func TestMongoRepository_Create(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	t.Run("creates product and returns it", func(t *testing.T) {
		p, err := repo.Create(ctx, canonical("Laptop", 999.99))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.ID.IsZero() {
			t.Fatal("expected a generated ID")
		}
		if p.Name != "Laptop" || p.Price != 999.99 {
			t.Fatalf("unexpected product: %+v", p)
		}
		if p.CreatedAt.IsZero() || p.UpdatedAt.IsZero() {
			t.Fatal("expected non-zero timestamps")
		}
	})

	t.Run("created product is readable by ID", func(t *testing.T) {
		p, _ := repo.Create(ctx, canonical("Mouse", 25.00))

		got, err := repo.GetByID(ctx, p.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.ID != p.ID || got.Name != "Mouse" {
			t.Fatalf("want %+v, got %+v", p, got)
		}
	})
}

func TestMongoRepository_GetByID(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	t.Run("returns ErrNotFound for unknown ID", func(t *testing.T) {
		_, err := repo.GetByID(ctx, primitive.NewObjectID())
		if !errors.Is(err, products.ErrNotFound) {
			t.Fatalf("want ErrNotFound, got %v", err)
		}
	})
}

func TestMongoRepository_Update(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	t.Run("replaces fields and bumps updated_at", func(t *testing.T) {
		p, _ := repo.Create(ctx, canonical("Keyboard", 49.99))

		got, err := repo.Update(ctx, p.ID, canonical("Keyboard Pro", 79.99))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Name != "Keyboard Pro" || got.Price != 79.99 {
			t.Fatalf("unexpected product: %+v", got)
		}
		if !got.UpdatedAt.After(p.UpdatedAt) {
			t.Fatalf("expected updated_at to advance: %v -> %v", p.UpdatedAt, got.UpdatedAt)
		}
		if !got.CreatedAt.Equal(p.CreatedAt) {
			t.Fatalf("created_at should not change: %v -> %v", p.CreatedAt, got.CreatedAt)
		}
	})

	t.Run("returns ErrNotFound for unknown ID", func(t *testing.T) {
		_, err := repo.Update(ctx, primitive.NewObjectID(), canonical("Ghost", 1.00))
		if !errors.Is(err, products.ErrNotFound) {
			t.Fatalf("want ErrNotFound, got %v", err)
		}
	})
}

func TestMongoRepository_Delete(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	t.Run("deletes existing product", func(t *testing.T) {
		p, _ := repo.Create(ctx, canonical("ToDelete", 5.00))
		if err := repo.Delete(ctx, p.ID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		_, err := repo.GetByID(ctx, p.ID)
		if !errors.Is(err, products.ErrNotFound) {
			t.Fatalf("product should be gone, got %v", err)
		}
	})

	t.Run("returns ErrNotFound for unknown ID", func(t *testing.T) {
		err := repo.Delete(ctx, primitive.NewObjectID())
		if !errors.Is(err, products.ErrNotFound) {
			t.Fatalf("want ErrNotFound, got %v", err)
		}
	})

	t.Run("second delete returns ErrNotFound", func(t *testing.T) {
		p, _ := repo.Create(ctx, canonical("DeleteTwice", 5.00))
		_ = repo.Delete(ctx, p.ID)
		err := repo.Delete(ctx, p.ID)
		if !errors.Is(err, products.ErrNotFound) {
			t.Fatalf("want ErrNotFound on second delete, got %v", err)
		}
	})
}

func TestMongoRepository_List(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	t.Run("empty collection returns empty slice", func(t *testing.T) {
		list, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if list == nil {
			t.Fatal("expected non-nil empty slice")
		}
		if len(list) != 0 {
			t.Fatalf("want 0 items, got %d", len(list))
		}
	})

	t.Run("returns all products newest first", func(t *testing.T) {
		names := []string{"Alpha", "Beta", "Gamma"}
		for _, name := range names {
			if _, err := repo.Create(ctx, canonical(name, 10.00)); err != nil {
				t.Fatalf("seed %q: %v", name, err)
			}
			time.Sleep(5 * time.Millisecond)
		}

		list, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(list) != len(names) {
			t.Fatalf("want %d items, got %d", len(names), len(list))
		}
		for i := 1; i < len(list); i++ {
			if list[i].CreatedAt.After(list[i-1].CreatedAt) {
				t.Fatalf("expected newest first, got %v after %v", list[i].CreatedAt, list[i-1].CreatedAt)
			}
		}
	})
}

func TestMongoRepository_Count(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	t.Run("empty collection returns zero", func(t *testing.T) {
		count, err := repo.Count(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if count != 0 {
			t.Fatalf("want 0, got %d", count)
		}
	})

	t.Run("count reflects inserts and deletes", func(t *testing.T) {
		p1, _ := repo.Create(ctx, canonical("X", 1.00))
		_, _ = repo.Create(ctx, canonical("Y", 2.00))

		count, _ := repo.Count(ctx)
		if count != 2 {
			t.Fatalf("want 2 after inserts, got %d", count)
		}

		_ = repo.Delete(ctx, p1.ID)
		count, _ = repo.Count(ctx)
		if count != 1 {
			t.Fatalf("want 1 after delete, got %d", count)
		}
	})
}

func TestMongoRepository_Health(t *testing.T) {
	repo := setupTestRepo(t)

	if err := repo.Health(); err != nil {
		t.Fatalf("health check failed: %v", err)
	}
}
