package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"product-store/internal/products"
)

const defaultTimeout = 10 * time.Second

// Store mirrors the server's product collection on the client side. Each
// operation calls the HTTP API and, on success, applies the server's result
// to the local collection directly instead of re-fetching. Failed operations
// leave the collection untouched and record a message.
//
// The loading flag is advisory: it lets callers disable controls while a
// request is in flight, but concurrent calls are not serialized.
type Store struct {
	baseURL string
	http    *http.Client

	mu        sync.RWMutex
	products  []products.Product
	loading   bool
	lastError string
}

func New(baseURL string) *Store {
	return &Store{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// Products returns a copy of the local collection.
func (s *Store) Products() []products.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]products.Product, len(s.products))
	copy(out, s.products)
	return out
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Store) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

type productEnvelope struct {
	Success bool             `json:"success"`
	Product products.Product `json:"product"`
	Message string           `json:"message"`
}

type listEnvelope struct {
	Success  bool               `json:"success"`
	Products []products.Product `json:"products"`
	Message  string             `json:"message"`
}

// Fetch replaces the local collection with the server's.
func (s *Store) Fetch(ctx context.Context) error {
	finish := s.begin()

	var env listEnvelope
	err := s.do(ctx, http.MethodGet, "/api/products", nil, &env)
	if err != nil {
		finish(err)
		return err
	}

	s.mu.Lock()
	s.products = env.Products
	s.mu.Unlock()
	finish(nil)
	return nil
}

// Create validates the input locally first; invalid input never reaches the
// server. On success the created product is appended to the collection.
func (s *Store) Create(ctx context.Context, input any) (products.Product, error) {
	result := products.Validate(products.Sanitize(input))
	if !result.IsValid {
		err := &products.ValidationError{Errors: result.Errors}
		s.recordError(err)
		return products.Product{}, err
	}

	finish := s.begin()

	var env productEnvelope
	if err := s.do(ctx, http.MethodPost, "/api/products", result.Sanitized, &env); err != nil {
		finish(err)
		return products.Product{}, err
	}

	s.mu.Lock()
	s.products = append(s.products, env.Product)
	s.mu.Unlock()
	finish(nil)
	return env.Product, nil
}

// Update sends a partial patch. Provided fields are validated locally with
// the single-field rules before any network call. On success the returned
// record replaces the matching entry in place.
func (s *Store) Update(ctx context.Context, id string, patch map[string]any) (products.Product, error) {
	var errs products.FieldErrors
	for field, value := range patch {
		msg := products.ValidateField(field, value, products.Canonical{})
		switch field {
		case "name":
			errs.Name = msg
		case "price":
			errs.Price = msg
		case "image":
			errs.Image = msg
		}
	}
	if !errs.Empty() {
		err := &products.ValidationError{Errors: errs}
		s.recordError(err)
		return products.Product{}, err
	}

	finish := s.begin()

	var env productEnvelope
	if err := s.do(ctx, http.MethodPatch, "/api/products/"+id, patch, &env); err != nil {
		finish(err)
		return products.Product{}, err
	}

	s.mu.Lock()
	for i := range s.products {
		if s.products[i].ID == env.Product.ID {
			s.products[i] = env.Product
			break
		}
	}
	s.mu.Unlock()
	finish(nil)
	return env.Product, nil
}

// Delete removes the product server-side, then filters it out locally.
func (s *Store) Delete(ctx context.Context, id string) error {
	finish := s.begin()

	var env productEnvelope
	if err := s.do(ctx, http.MethodDelete, "/api/products/"+id, nil, &env); err != nil {
		finish(err)
		return err
	}

	s.mu.Lock()
	kept := s.products[:0]
	for _, p := range s.products {
		if p.ID.Hex() != id {
			kept = append(kept, p)
		}
	}
	s.products = kept
	s.mu.Unlock()
	finish(nil)
	return nil
}

func (s *Store) begin() func(error) {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	return func(err error) {
		s.mu.Lock()
		s.loading = false
		if err != nil {
			s.lastError = err.Error()
		} else {
			s.lastError = ""
		}
		s.mu.Unlock()
	}
}

func (s *Store) recordError(err error) {
	s.mu.Lock()
	s.lastError = err.Error()
	s.mu.Unlock()
}

func (s *Store) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var probe struct {
		Message string `json:"message"`
	}
	if resp.StatusCode >= 400 {
		_ = json.NewDecoder(resp.Body).Decode(&probe)
		switch resp.StatusCode {
		case http.StatusNotFound:
			return products.ErrNotFound
		case http.StatusBadRequest:
			if probe.Message == "Invalid product ID format" {
				return products.ErrInvalidID
			}
		}
		if probe.Message == "" {
			probe.Message = resp.Status
		}
		return fmt.Errorf("%s %s: %s", method, path, probe.Message)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
