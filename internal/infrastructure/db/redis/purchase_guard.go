package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const purchaseLockTTL = 30 * time.Second

// PurchaseGuard serialises purchases of one course by one user across
// instances. Locks expire after purchaseLockTTL in case a holder dies.
// Key format: purchase:<user_id>:<course_id>
type PurchaseGuard struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPurchaseGuard(client *redis.Client) *PurchaseGuard {
	return &PurchaseGuard{client: client, ttl: purchaseLockTTL}
}

// Acquire reports false when another purchase already holds the lock.
func (g *PurchaseGuard) Acquire(ctx context.Context, userID, courseID string) (bool, error) {
	ok, err := g.client.SetNX(ctx, g.key(userID, courseID), "1", g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("purchase lock: %w", err)
	}
	return ok, nil
}

func (g *PurchaseGuard) Release(ctx context.Context, userID, courseID string) error {
	if err := g.client.Del(ctx, g.key(userID, courseID)).Err(); err != nil {
		return fmt.Errorf("purchase unlock: %w", err)
	}
	return nil
}

func (g *PurchaseGuard) key(userID, courseID string) string {
	return fmt.Sprintf("purchase:%s:%s", userID, courseID)
}
