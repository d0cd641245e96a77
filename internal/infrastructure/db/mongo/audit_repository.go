package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ledgerline/backoffice-portal/internal/core/domain"
)

const collectionSessionEvents = "session_events"

// AuditRepository appends session transitions to the session_events collection.
type AuditRepository struct {
	col       *mongo.Collection
	retention time.Duration
}

// NewAuditRepository returns a repository whose documents expire after
// retention (enforced by the TTL index created in EnsureIndexes).
func NewAuditRepository(db *mongo.Database, retention time.Duration) *AuditRepository {
	return &AuditRepository{col: db.Collection(collectionSessionEvents), retention: retention}
}

type sessionEventDoc struct {
	Kind       string    `bson:"kind"`
	SessionID  string    `bson:"session_id"`
	Email      string    `bson:"email,omitempty"`
	Role       string    `bson:"role,omitempty"`
	Reason     string    `bson:"reason,omitempty"`
	At         time.Time `bson:"at"`
	RecordedAt time.Time `bson:"recorded_at"`
}

// InsertEvent persists a single session event.
func (r *AuditRepository) InsertEvent(ctx context.Context, ev domain.SessionEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := sessionEventDoc{
		Kind:       string(ev.Kind),
		SessionID:  ev.SessionID,
		Email:      ev.Email,
		Role:       ev.Role,
		Reason:     ev.Reason,
		At:         ev.At.UTC(),
		RecordedAt: time.Now().UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert session event: %w", err)
	}
	return nil
}

// EnsureIndexes creates the lookup indexes and, when retention is set, the
// TTL index on recorded_at.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "session_id", Value: 1}, {Key: "at", Value: -1}}},
		{Keys: bson.D{{Key: "email", Value: 1}, {Key: "at", Value: -1}}},
	}
	if r.retention > 0 {
		indexes = append(indexes, mongo.IndexModel{
			Keys:    bson.D{{Key: "recorded_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(r.retention.Seconds())),
		})
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

// Ping lets the readiness check reach the audit database.
func (r *AuditRepository) Ping(ctx context.Context) error {
	return r.col.Database().Client().Ping(ctx, nil)
}
