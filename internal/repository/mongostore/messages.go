// Package mongostore keeps the message log in a MongoDB collection.
package mongostore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mentorconnect/backend/internal/models"
)

const collectionName = "messages"

// messageDoc is the stored form of a message. Seq is an ObjectID taken at
// insert time and breaks created_at ties in insertion order.
type messageDoc struct {
	ID           string             `bson:"_id"`
	Seq          primitive.ObjectID `bson:"seq"`
	SenderID     string             `bson:"sender_id"`
	ReceiverID   string             `bson:"receiver_id"`
	Content      string             `bson:"content"`
	SenderType   string             `bson:"sender_type"`
	ReceiverType string             `bson:"receiver_type"`
	IsRead       bool               `bson:"is_read"`
	CreatedAt    time.Time          `bson:"created_at"`
}

func toDoc(m *models.Message) messageDoc {
	return messageDoc{
		ID:           m.ID.String(),
		Seq:          primitive.NewObjectID(),
		SenderID:     m.SenderID.String(),
		ReceiverID:   m.ReceiverID.String(),
		Content:      m.Content,
		SenderType:   m.SenderType,
		ReceiverType: m.ReceiverType,
		IsRead:       m.IsRead,
		CreatedAt:    m.CreatedAt,
	}
}

func (d messageDoc) model() (models.Message, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return models.Message{}, fmt.Errorf("mongostore: message id: %w", err)
	}
	sender, err := uuid.Parse(d.SenderID)
	if err != nil {
		return models.Message{}, fmt.Errorf("mongostore: sender id: %w", err)
	}
	receiver, err := uuid.Parse(d.ReceiverID)
	if err != nil {
		return models.Message{}, fmt.Errorf("mongostore: receiver id: %w", err)
	}
	return models.Message{
		ID:           id,
		SenderID:     sender,
		ReceiverID:   receiver,
		Content:      d.Content,
		SenderType:   d.SenderType,
		ReceiverType: d.ReceiverType,
		IsRead:       d.IsRead,
		CreatedAt:    d.CreatedAt,
	}, nil
}

// Messages implements repository.MessageRepository.
type Messages struct {
	client *mongo.Client
	col    *mongo.Collection
}

// Connect dials uri, verifies the connection and ensures the indexes used by
// conversation and unread queries exist.
func Connect(ctx context.Context, uri, database string) (*Messages, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	clientOpts := options.Client().ApplyURI(uri).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("mongostore: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongostore: ping: %w", err)
	}

	col := client.Database(database).Collection(collectionName)
	_, err = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "sender_id", Value: 1}, {Key: "receiver_id", Value: 1}, {Key: "created_at", Value: 1}, {Key: "seq", Value: 1}}},
		{Keys: bson.D{{Key: "receiver_id", Value: 1}, {Key: "is_read", Value: 1}}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongostore: indexes: %w", err)
	}

	return NewMessages(col), nil
}

// NewMessages wraps an existing collection. Close disconnects the
// collection's client.
func NewMessages(col *mongo.Collection) *Messages {
	return &Messages{client: col.Database().Client(), col: col}
}

func (m *Messages) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *Messages) Create(ctx context.Context, msg *models.Message) error {
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	_, err := m.col.InsertOne(ctx, toDoc(msg))
	return err
}

func (m *Messages) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Message, error) {
	id := userID.String()
	filter := bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "sender_id", Value: id}},
		bson.D{{Key: "receiver_id", Value: id}},
	}}}
	return m.find(ctx, filter, -1)
}

func (m *Messages) ListBetween(ctx context.Context, a, b uuid.UUID) ([]models.Message, error) {
	as, bs := a.String(), b.String()
	filter := bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "sender_id", Value: as}, {Key: "receiver_id", Value: bs}},
		bson.D{{Key: "sender_id", Value: bs}, {Key: "receiver_id", Value: as}},
	}}}
	return m.find(ctx, filter, 1)
}

func (m *Messages) MarkRead(ctx context.Context, senderID, receiverID uuid.UUID) (int64, error) {
	res, err := m.col.UpdateMany(ctx,
		bson.D{
			{Key: "sender_id", Value: senderID.String()},
			{Key: "receiver_id", Value: receiverID.String()},
			{Key: "is_read", Value: false},
		},
		bson.D{{Key: "$set", Value: bson.D{{Key: "is_read", Value: true}}}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (m *Messages) CountUnread(ctx context.Context, receiverID uuid.UUID) (int64, error) {
	return m.col.CountDocuments(ctx, bson.D{
		{Key: "receiver_id", Value: receiverID.String()},
		{Key: "is_read", Value: false},
	})
}

func (m *Messages) find(ctx context.Context, filter bson.D, direction int) ([]models.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: direction}, {Key: "seq", Value: direction}})
	cur, err := m.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []messageDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]models.Message, 0, len(docs))
	for _, d := range docs {
		msg, err := d.model()
		if err != nil {
			return nil, err
		}
		out = append(out, msg)
	}
	return out, nil
}
