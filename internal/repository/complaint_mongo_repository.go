package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/spec-kit/complaint-desk/internal/domain"
)

const complaintsCollection = "complaints"

type mongoComplaintRepository struct {
	collection *mongo.Collection
}

// NewMongoComplaintRepository stores complaints as documents keyed by id.
func NewMongoComplaintRepository(db *mongo.Database) ComplaintRepository {
	return &mongoComplaintRepository{collection: db.Collection(complaintsCollection)}
}

func (r *mongoComplaintRepository) List(ctx context.Context) ([]domain.Complaint, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	result := []domain.Complaint{}
	if err := cursor.All(ctx, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *mongoComplaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	var c domain.Complaint
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *mongoComplaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	if complaint.CreatedAt.IsZero() {
		complaint.CreatedAt = time.Now().UTC()
	}
	_, err := r.collection.InsertOne(ctx, complaint)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (r *mongoComplaintRepository) UpdateStatus(ctx context.Context, id string, status domain.ComplaintStatus) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoComplaintRepository) Ping(ctx context.Context) error {
	return r.collection.Database().Client().Ping(ctx, nil)
}
