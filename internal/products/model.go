package products

import (
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound  = errors.New("product not found")
	ErrInvalidID = errors.New("invalid product ID format")
)

const (
	EventsQueue  = "products.events"
	EventCreated = "product_created"
	EventUpdated = "product_updated"
	EventDeleted = "product_deleted"
)

type Product struct {
	ID        primitive.ObjectID `json:"id" bson:"_id" example:"665f1c2ab3d4e5f6a7b8c9d0"`
	Name      string             `json:"name" bson:"name" example:"Pen Set"`
	Price     float64            `json:"price" bson:"price" example:"19.99"`
	Image     string             `json:"image" bson:"image" example:"https://example.com/w.png"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at" example:"2026-02-24T12:00:00Z"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at" example:"2026-02-24T12:00:00Z"`
}

// Canonical is the sanitized shape of product input, ready for validation.
type Canonical struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
}

// FieldErrors carries one message per failing field; passing fields stay empty.
type FieldErrors struct {
	Name  string `json:"name,omitempty"`
	Price string `json:"price,omitempty"`
	Image string `json:"image,omitempty"`
}

func (e FieldErrors) Empty() bool {
	return e.Name == "" && e.Price == "" && e.Image == ""
}

// ValidationError is returned by the service when sanitized input breaks a
// business rule. The repository is never called when this is returned.
type ValidationError struct {
	Errors FieldErrors
}

func (e *ValidationError) Error() string {
	for _, msg := range []string{e.Errors.Name, e.Errors.Price, e.Errors.Image} {
		if msg != "" {
			return fmt.Sprintf("validation failed: %s", msg)
		}
	}
	return "validation failed"
}

type ProductEvent struct {
	EventType string    `json:"event_type"`
	ProductID string    `json:"product_id"`
	Name      string    `json:"name,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
