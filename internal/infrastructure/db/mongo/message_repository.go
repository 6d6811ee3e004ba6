package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sharebnb/sharebnb-api/internal/core/domain"
)

const defaultMessagesCollection = "messages"

// MessageRepository implements ports.MessageRepository using MongoDB.
type MessageRepository struct {
	col *mongo.Collection
}

// NewMessageRepository binds the repository to collection, falling back to
// "messages" when empty.
func NewMessageRepository(db *mongo.Database, collection string) *MessageRepository {
	if collection == "" {
		collection = defaultMessagesCollection
	}
	return &MessageRepository{col: db.Collection(collection)}
}

type messageDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Sender    string             `bson:"sender"`
	Recipient string             `bson:"recipient"`
	Body      string             `bson:"body"`
	SentAt    time.Time          `bson:"sent_at"`
}

func (d messageDoc) toDomain() domain.Message {
	return domain.Message{
		ID:        d.ID.Hex(),
		Sender:    d.Sender,
		Recipient: d.Recipient,
		Body:      d.Body,
		SentAt:    d.SentAt.UTC(),
	}
}

func (r *MessageRepository) Create(ctx context.Context, m *domain.Message) (*domain.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := messageDoc{
		ID:        primitive.NewObjectID(),
		Sender:    m.Sender,
		Recipient: m.Recipient,
		Body:      m.Body,
		SentAt:    m.SentAt.UTC().Truncate(time.Millisecond),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}

	out := doc.toDomain()
	return &out, nil
}

func (r *MessageRepository) FindByID(ctx context.Context, id string) (*domain.Message, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrMessageNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc messageDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrMessageNotFound
		}
		return nil, fmt.Errorf("find message: %w", err)
	}

	out := doc.toDomain()
	return &out, nil
}

func (r *MessageRepository) ListByRecipient(ctx context.Context, username string) ([]domain.Message, error) {
	return r.list(ctx, bson.M{"recipient": username})
}

func (r *MessageRepository) ListBySender(ctx context.Context, username string) ([]domain.Message, error) {
	return r.list(ctx, bson.M{"sender": username})
}

// DeleteByUser removes every message username sent or received.
func (r *MessageRepository) DeleteByUser(ctx context.Context, username string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"$or": bson.A{
		bson.M{"sender": username},
		bson.M{"recipient": username},
	}}
	res, err := r.col.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("delete messages: %w", err)
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates the inbox and outbox indexes.
func (r *MessageRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "recipient", Value: 1}, {Key: "sent_at", Value: -1}}},
		{Keys: bson.D{{Key: "sender", Value: 1}, {Key: "sent_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *MessageRepository) list(ctx context.Context, filter bson.M) ([]domain.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "sent_at", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	var docs []messageDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}

	out := make([]domain.Message, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}
