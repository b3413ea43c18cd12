package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/abisalde/storefront-client/internal/database"
	"github.com/abisalde/storefront-client/internal/model"
)

const pendingTTL = 30 * 24 * time.Hour

func pendingKey(uid string) string {
	return fmt.Sprintf("pending_user:%s", uid)
}

func (s *Session) createPendingUser(ctx context.Context, pending model.PendingRegistration) error {
	return s.cache.Set(ctx, pendingKey(pending.FirebaseUID), pending, pendingTTL)
}

// getPendingUser returns nil without error when nothing is pending.
func (s *Session) getPendingUser(ctx context.Context, uid string) (*model.PendingRegistration, error) {
	var pending model.PendingRegistration
	err := s.cache.Get(ctx, pendingKey(uid), &pending)
	if errors.Is(err, database.ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pending, nil
}

func (s *Session) deletePendingUser(ctx context.Context, uid string) error {
	return s.cache.Delete(ctx, pendingKey(uid))
}

// PendingRegistration reports the unfinished backend registration for uid.
func (s *Session) PendingRegistration(ctx context.Context, uid string) (*model.PendingRegistration, error) {
	return s.getPendingUser(ctx, uid)
}

// replayPending retries a stored registration for uid. It returns
// (nil, nil) when nothing is pending.
func (s *Session) replayPending(ctx context.Context, uid string) (*model.Account, error) {
	pending, err := s.getPendingUser(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to read pending registration: %w", err)
	}
	if pending == nil {
		return nil, nil
	}

	account, err := s.backend.Register(ctx, pending.Request())
	if err != nil {
		pending.Attempts++
		pending.LastError = err.Error()
		if saveErr := s.createPendingUser(ctx, *pending); saveErr != nil {
			log.Printf("⚠️ Failed to update pending registration for %s: %v", uid, saveErr)
		}
		return nil, fmt.Errorf("failed to replay registration: %w", err)
	}

	if err := s.deletePendingUser(ctx, uid); err != nil {
		log.Printf("⚠️ Failed to delete pending registration for %s: %v", uid, err)
	}
	log.Printf("✅ Pending registration for %s completed after %d attempt(s)", uid, pending.Attempts+1)
	return account, nil
}
