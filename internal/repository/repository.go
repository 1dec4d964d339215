package repository

import (
	"context"
	"errors"
	"time"

	"storefront/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("borrador no encontrado")

// Borradores del formulario de checkout, uno por usuario.
type MongoDraftRepository struct {
	col *mongo.Collection
}

func NewMongoDraftRepository(db *mongo.Database) *MongoDraftRepository {
	return &MongoDraftRepository{col: db.Collection("checkout_drafts")}
}

func (m *MongoDraftRepository) SaveDraft(ctx context.Context, d *model.Draft) error {
	d.UpdatedAt = time.Now().UTC()

	filter := bson.M{"user_id": d.UserID}
	update := bson.M{"$set": d}
	opts := options.Update().SetUpsert(true)
	_, err := m.col.UpdateOne(ctx, filter, update, opts)
	return err
}

func (m *MongoDraftRepository) FindDraft(ctx context.Context, userID string) (*model.Draft, error) {
	var res model.Draft
	err := m.col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&res)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	return &res, err
}

// Historial de cambios de estado recibidos por Rabbit.
type MongoEventRepository struct {
	col *mongo.Collection
}

func NewMongoEventRepository(db *mongo.Database) *MongoEventRepository {
	return &MongoEventRepository{col: db.Collection("order_events")}
}

type eventDoc struct {
	OrderID     string    `bson:"order_id"`
	OrderNumber string    `bson:"order_number"`
	UserID      string    `bson:"user_id"`
	Status      string    `bson:"status"`
	Reason      string    `bson:"reason"`
	Timestamp   time.Time `bson:"timestamp"`
}

func (m *MongoEventRepository) AppendEvent(ctx context.Context, c model.StatusChange) error {
	if c.Timestamp.IsZero() {
		c.Timestamp = time.Now().UTC()
	}
	_, err := m.col.InsertOne(ctx, eventDoc{
		OrderID:     c.OrderID,
		OrderNumber: c.OrderNumber,
		UserID:      c.UserID,
		Status:      c.Status,
		Reason:      c.Reason,
		Timestamp:   c.Timestamp,
	})
	return err
}

// FindEventsByUserID devuelve los últimos limit eventos, el más nuevo primero.
func (m *MongoEventRepository) FindEventsByUserID(ctx context.Context, userID string, limit int64) ([]model.StatusChange, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)
	cur, err := m.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []model.StatusChange
	for cur.Next(ctx) {
		var v eventDoc
		if err := cur.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, model.StatusChange{
			OrderID:     v.OrderID,
			OrderNumber: v.OrderNumber,
			UserID:      v.UserID,
			Status:      v.Status,
			Reason:      v.Reason,
			Timestamp:   v.Timestamp,
		})
	}
	return out, cur.Err()
}
