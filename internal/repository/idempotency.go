package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"bank-records-api/internal/kvstore"
)

const idempotencyKeyPrefix = "idempotency:"

// IdempotencyRepository stores responses to requests that carried an
// idempotency key, in the same key/value store as the collections.
type IdempotencyRepository struct {
	store kvstore.Store
	ttl   time.Duration
	now   func() time.Time
}

// NewIdempotencyRepository creates a new idempotency repository
func NewIdempotencyRepository(store kvstore.Store, ttl time.Duration) *IdempotencyRepository {
	return &IdempotencyRepository{store: store, ttl: ttl, now: time.Now}
}

// IdempotencyRecord represents a stored idempotency key
type IdempotencyRecord struct {
	RequestHash    string    `json:"requestHash"`
	ResponseBody   string    `json:"responseBody"`
	ResponseStatus int       `json:"responseStatus"`
	CreatedAt      time.Time `json:"createdAt"`
	ExpiresAt      time.Time `json:"expiresAt"`
}

// GenerateKeyHash generates a SHA-256 hash used for idempotency keys and request fingerprints
func GenerateKeyHash(value string) string {
	hash := sha256.Sum256([]byte(value))
	return hex.EncodeToString(hash[:])
}

// GetResponse retrieves a stored, unexpired idempotency record. An expired
// record is removed from the store.
func (r *IdempotencyRepository) GetResponse(ctx context.Context, key string) (*IdempotencyRecord, error) {
	storeKey := idempotencyKeyPrefix + GenerateKeyHash(key)

	raw, ok, err := r.store.Get(ctx, storeKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get idempotency record: %w", err)
	}
	if !ok || raw == "" {
		return nil, nil // Not found, which is valid
	}

	record := &IdempotencyRecord{}
	if err := json.Unmarshal([]byte(raw), record); err != nil {
		return nil, fmt.Errorf("failed to decode idempotency record: %w", err)
	}

	if !record.ExpiresAt.IsZero() && r.now().After(record.ExpiresAt) {
		if err := r.store.Delete(ctx, storeKey); err != nil {
			return nil, fmt.Errorf("failed to remove expired idempotency record: %w", err)
		}
		return nil, nil
	}

	return record, nil
}

// RequestFingerprint identifies a request by method, URI and body. Two
// requests sharing an idempotency key must have the same fingerprint.
func RequestFingerprint(method, requestURI, body string) string {
	return GenerateKeyHash(method + " " + requestURI + "\n" + body)
}

// StoreResponse stores the response produced for key. requestHash is the
// fingerprint of the request that produced it.
func (r *IdempotencyRepository) StoreResponse(ctx context.Context, key, requestHash, responseBody string, status int) error {
	now := r.now().UTC()
	record := IdempotencyRecord{
		RequestHash:    requestHash,
		ResponseBody:   responseBody,
		ResponseStatus: status,
		CreatedAt:      now,
		ExpiresAt:      now.Add(r.ttl),
	}

	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode idempotency record: %w", err)
	}

	if err := r.store.Set(ctx, idempotencyKeyPrefix+GenerateKeyHash(key), string(raw)); err != nil {
		return fmt.Errorf("failed to store idempotency record: %w", err)
	}

	return nil
}
