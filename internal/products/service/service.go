package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"product-store/internal/products"

	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Repository interface {
	Create(ctx context.Context, c products.Canonical) (products.Product, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (products.Product, error)
	Update(ctx context.Context, id primitive.ObjectID, c products.Canonical) (products.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context) ([]products.Product, error)
}

type Publisher interface {
	Publish(ctx context.Context, event products.ProductEvent) error
}

// Counters groups the lifecycle metrics incremented on successful mutations.
type Counters struct {
	Created prometheus.Counter
	Updated prometheus.Counter
	Deleted prometheus.Counter
}

type Service struct {
	repo      Repository
	publisher Publisher
	logger    *slog.Logger
	counters  Counters
}

func New(repo Repository, publisher Publisher, logger *slog.Logger, counters Counters) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		counters:  counters,
	}
}

func (s *Service) ListProducts(ctx context.Context) ([]products.Product, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("repo list: %w", err)
	}
	return items, nil
}

// CreateProduct sanitizes and validates raw input before any repository call.
// Invalid input returns a *products.ValidationError with per-field messages.
func (s *Service) CreateProduct(ctx context.Context, raw any) (products.Product, error) {
	result := products.Validate(products.Sanitize(raw))
	if !result.IsValid {
		return products.Product{}, &products.ValidationError{Errors: result.Errors}
	}

	product, err := s.repo.Create(ctx, result.Sanitized)
	if err != nil {
		return products.Product{}, fmt.Errorf("repo create: %w", err)
	}

	s.publish(ctx, products.EventCreated, product.ID.Hex(), product.Name)
	s.counters.Created.Inc()
	return product, nil
}

// UpdateProduct applies a partial update: only fields present in the patch
// override the stored record, and the merged result is re-validated before
// the replace. The identifier format is checked before touching the
// repository; a malformed id is invalid input, never not-found.
func (s *Service) UpdateProduct(ctx context.Context, idHex string, raw any) (products.Product, error) {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return products.Product{}, products.ErrInvalidID
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, products.ErrNotFound) {
			return products.Product{}, products.ErrNotFound
		}
		return products.Product{}, fmt.Errorf("repo get: %w", err)
	}

	merged := mergePatch(existing, raw)
	result := products.Validate(merged)
	if !result.IsValid {
		return products.Product{}, &products.ValidationError{Errors: result.Errors}
	}

	updated, err := s.repo.Update(ctx, id, result.Sanitized)
	if err != nil {
		if errors.Is(err, products.ErrNotFound) {
			return products.Product{}, products.ErrNotFound
		}
		return products.Product{}, fmt.Errorf("repo update: %w", err)
	}

	s.publish(ctx, products.EventUpdated, updated.ID.Hex(), updated.Name)
	s.counters.Updated.Inc()
	return updated, nil
}

func (s *Service) DeleteProduct(ctx context.Context, idHex string) error {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return products.ErrInvalidID
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, products.ErrNotFound) {
			return products.ErrNotFound
		}
		return fmt.Errorf("repo delete: %w", err)
	}

	s.publish(ctx, products.EventDeleted, idHex, "")
	s.counters.Deleted.Inc()
	return nil
}

// mergePatch overlays the fields present in a decoded JSON patch onto the
// stored record. Non-object patches leave the record unchanged; each merged
// field goes through its sanitizer so the result is canonical.
func mergePatch(existing products.Product, raw any) products.Canonical {
	merged := products.Canonical{
		Name:  existing.Name,
		Price: existing.Price,
		Image: existing.Image,
	}

	patch, ok := raw.(map[string]any)
	if !ok {
		return products.Sanitize(merged)
	}

	if v, present := patch["name"]; present {
		merged.Name = products.SanitizeName(v)
	}
	if v, present := patch["price"]; present {
		merged.Price = products.SanitizePrice(v)
	}
	if v, present := patch["image"]; present {
		merged.Image = products.SanitizeImage(v)
	}
	return products.Sanitize(merged)
}

func (s *Service) publish(ctx context.Context, eventType, productID, name string) {
	err := s.publisher.Publish(ctx, products.ProductEvent{
		EventType: eventType,
		ProductID: productID,
		Name:      name,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		s.logger.Error("publish event failed",
			"event_type", eventType,
			"product_id", productID,
			"error", err,
		)
	}
}
