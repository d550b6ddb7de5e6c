package repos

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"accommodations/internal/domain"
)

const accommodationSeq = "accommodations"

// MongoAccommodationRepo keeps accommodations in a document collection keyed
// by the numeric id. Ids are allocated from a counter document.
type MongoAccommodationRepo struct {
	client   *mongo.Client
	col      *mongo.Collection
	counters *mongo.Collection
}

func OpenMongo(uri, database string) (*MongoAccommodationRepo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	opts := options.Client().ApplyURI(uri).SetRetryWrites(true)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return NewMongoAccommodationRepo(client, client.Database(database)), nil
}

func NewMongoAccommodationRepo(client *mongo.Client, db *mongo.Database) *MongoAccommodationRepo {
	return &MongoAccommodationRepo{
		client:   client,
		col:      db.Collection("accommodations"),
		counters: db.Collection("counters"),
	}
}

func (r *MongoAccommodationRepo) Insert(ctx context.Context, a domain.Accommodation) (domain.Accommodation, error) {
	if a.ID == 0 {
		id, err := r.nextID(ctx)
		if err != nil {
			return domain.Accommodation{}, err
		}
		a.ID = id
	} else if err := r.reserveID(ctx, a.ID); err != nil {
		return domain.Accommodation{}, err
	}
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": a.ID}, a, options.Replace().SetUpsert(true))
	if err != nil {
		return domain.Accommodation{}, err
	}
	return a, nil
}

func (r *MongoAccommodationRepo) FindAll(ctx context.Context) ([]domain.Accommodation, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoAccommodationRepo) FindByID(ctx context.Context, id int64) (*domain.Accommodation, error) {
	var a domain.Accommodation
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *MongoAccommodationRepo) FindByLocation(ctx context.Context, location string) ([]domain.Accommodation, error) {
	return r.find(ctx, bson.M{"location": location})
}

func (r *MongoAccommodationRepo) FindByCapacity(ctx context.Context, capacity int) ([]domain.Accommodation, error) {
	return r.find(ctx, bson.M{"capacity": capacity})
}

func (r *MongoAccommodationRepo) Update(ctx context.Context, id int64, f domain.AccommodationFields) (domain.Accommodation, error) {
	a := domain.Accommodation{ID: id}
	a.Apply(f)
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"name":        a.Name,
		"location":    a.Location,
		"description": a.Description,
		"capacity":    a.Capacity,
		"pricePerDay": a.PricePerDay,
	}})
	if err != nil {
		return domain.Accommodation{}, err
	}
	if res.MatchedCount == 0 {
		return domain.Accommodation{}, domain.ErrNotFound
	}
	return a, nil
}

func (r *MongoAccommodationRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *MongoAccommodationRepo) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, nil)
}

func (r *MongoAccommodationRepo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return r.client.Disconnect(ctx)
}

func (r *MongoAccommodationRepo) find(ctx context.Context, filter bson.M) ([]domain.Accommodation, error) {
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	out := []domain.Accommodation{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoAccommodationRepo) nextID(ctx context.Context) (int64, error) {
	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": accommodationSeq},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	return doc.Seq, err
}

// reserveID moves the counter past an explicitly chosen id so later
// allocations never collide with it.
func (r *MongoAccommodationRepo) reserveID(ctx context.Context, id int64) error {
	_, err := r.counters.UpdateOne(ctx,
		bson.M{"_id": accommodationSeq},
		bson.M{"$max": bson.M{"seq": id}},
		options.Update().SetUpsert(true),
	)
	return err
}
