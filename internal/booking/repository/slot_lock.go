package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"urbarber/pkg/config"
	"urbarber/pkg/model"
)

const LockCollectionName = "Slot_locks"

// SlotLockRepository provides the advisory lock serializing booking attempts.
// Acquisition is a duplicate-key-guarded insert, which is atomic on the
// server, so it works unchanged across multiple service instances.
type SlotLockRepository interface {
	// TryAcquire attempts a single non-blocking acquisition. It returns
	// (false, nil) when the lock is currently held by a live owner.
	TryAcquire(ctx context.Context, lock *model.SlotLock) (bool, error)
	// Release deletes the lock only when owner still holds it, so a holder
	// whose TTL lapsed cannot release a successor's lock.
	Release(ctx context.Context, lockID, owner string) error
}

type mongoSlotLockRepository struct {
	collection *mongo.Collection
}

func NewMongoSlotLockRepository(cfg *config.Config) SlotLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSlotLockRepository{
		collection: db.Collection(LockCollectionName),
	}
}

func (r *mongoSlotLockRepository) TryAcquire(ctx context.Context, lock *model.SlotLock) (bool, error) {
	// Reap a stale document first; the TTL monitor only runs every minute,
	// which is far longer than a booking attempt should ever wait.
	_, err := r.collection.DeleteOne(ctx, bson.M{
		"_id":        lock.ID,
		"expires_at": bson.M{"$lt": time.Now()},
	})
	if err != nil {
		return false, fmt.Errorf("failed to reap expired slot lock: %w", err)
	}

	lock.CreatedAt = time.Now()
	_, err = r.collection.InsertOne(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to acquire slot lock: %w", err)
	}
	return true, nil
}

func (r *mongoSlotLockRepository) Release(ctx context.Context, lockID, owner string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID, "owner": owner})
	if err != nil {
		return fmt.Errorf("failed to release slot lock: %w", err)
	}
	return nil
}

// EnsureLockIndexes installs the TTL index that reaps locks abandoned by a
// crashed holder.
func EnsureLockIndexes(ctx context.Context, cfg *config.Config) error {
	collection := cfg.Client.Mongo.Database(cfg.MongoDatabaseName).Collection(LockCollectionName)
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	return err
}
