package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/domain/entity"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/repository"
)

const listingCacheKeyPrefix = "listing_detail:"

type listingCacheRepository struct {
	client *redis.Client
}

func NewListingCacheRepository(client *redis.Client) repository.ListingCache {
	return &listingCacheRepository{client: client}
}

func (r *listingCacheRepository) key(listingID string) string {
	return listingCacheKeyPrefix + listingID
}

func (r *listingCacheRepository) Get(ctx context.Context, listingID string) (*entity.Listing, error) {
	val, err := r.client.Get(ctx, r.key(listingID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get listing %s from redis: %w", listingID, err)
	}

	var listing entity.Listing
	if err := json.Unmarshal(val, &listing); err != nil {
		_ = r.Delete(ctx, listingID)
		return nil, fmt.Errorf("failed to unmarshal cached listing %s: %w", listingID, err)
	}
	return &listing, nil
}

func (r *listingCacheRepository) Set(ctx context.Context, listingID string, listing *entity.Listing, ttl time.Duration) error {
	if listing == nil || listingID == "" {
		return errors.New("cannot cache nil listing or listing with empty id")
	}

	data, err := json.Marshal(listing)
	if err != nil {
		return fmt.Errorf("failed to marshal listing %s: %w", listingID, err)
	}

	if err := r.client.Set(ctx, r.key(listingID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set listing %s to redis: %w", listingID, err)
	}
	return nil
}

func (r *listingCacheRepository) Delete(ctx context.Context, listingID string) error {
	if err := r.client.Del(ctx, r.key(listingID)).Err(); err != nil {
		return fmt.Errorf("failed to delete listing %s from redis: %w", listingID, err)
	}
	return nil
}
