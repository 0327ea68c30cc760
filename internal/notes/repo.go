package notes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repo is the MongoDB implementation of Store.
type Repo struct {
	coll *mongo.Collection
}

func NewRepo(db *mongo.Database) *Repo {
	return &Repo{coll: db.Collection("notes")}
}

// EnsureIndexes creates necessary indexes for the notes collection
func (r *Repo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "title", Value: "text"},
				{Key: "content", Value: "text"},
			},
		},
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "priority", Value: 1}},
		},
		{
			Keys: bson.D{
				{Key: "is_archived", Value: 1},
				{Key: "created_at", Value: -1},
			},
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}
	return nil
}

// Insert stores a new note, assigning its ID.
func (r *Repo) Insert(ctx context.Context, n *Note) error {
	n.ID = primitive.NewObjectID()
	if n.Tags == nil {
		n.Tags = []string{}
	}

	_, err := r.coll.InsertOne(ctx, n)
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

// FindByID retrieves a note by its ID
func (r *Repo) FindByID(ctx context.Context, id primitive.ObjectID) (*Note, error) {
	var note Note
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&note)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find note %s: %w", id.Hex(), err)
	}
	return &note, nil
}

// Find executes a query plan.
func (r *Repo) Find(ctx context.Context, p Plan) ([]*Note, error) {
	opts := options.Find()
	if s := p.Sort.BSON(); s != nil {
		opts.SetSort(s)
	}
	if p.Skip > 0 {
		opts.SetSkip(p.Skip)
	}
	if p.Limit > 0 {
		opts.SetLimit(p.Limit)
	}

	cursor, err := r.coll.Find(ctx, p.Filter.BSON(), opts)
	if err != nil {
		return nil, fmt.Errorf("find notes: %w", err)
	}
	defer cursor.Close(ctx)

	notes := []*Note{}
	if err := cursor.All(ctx, &notes); err != nil {
		return nil, fmt.Errorf("decode notes: %w", err)
	}
	return notes, nil
}

// Count returns the number of notes matching f, ignoring pagination.
func (r *Repo) Count(ctx context.Context, f Filter) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, f.BSON())
	if err != nil {
		return 0, fmt.Errorf("count notes: %w", err)
	}
	return count, nil
}

// Update applies a partial update and returns the updated note.
func (r *Repo) Update(ctx context.Context, id primitive.ObjectID, patch NotePatch, now time.Time) (*Note, error) {
	set := bson.D{{Key: "updated_at", Value: now}}
	if patch.Title != nil {
		set = append(set, bson.E{Key: "title", Value: *patch.Title})
	}
	if patch.Content != nil {
		set = append(set, bson.E{Key: "content", Value: *patch.Content})
	}
	if patch.SetTags {
		tags := patch.Tags
		if tags == nil {
			tags = []string{}
		}
		set = append(set, bson.E{Key: "tags", Value: tags})
	}
	if patch.Priority != nil {
		set = append(set, bson.E{Key: "priority", Value: string(*patch.Priority)})
	}

	return r.findOneAndUpdate(ctx, id, bson.D{{Key: "$set", Value: set}})
}

// ToggleArchive flips is_archived in a single pipeline update.
func (r *Repo) ToggleArchive(ctx context.Context, id primitive.ObjectID, now time.Time) (*Note, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "is_archived", Value: bson.D{{Key: "$not", Value: bson.A{"$is_archived"}}}},
			{Key: "updated_at", Value: now},
		}}},
	}
	return r.findOneAndUpdate(ctx, id, pipeline)
}

func (r *Repo) findOneAndUpdate(ctx context.Context, id primitive.ObjectID, update any) (*Note, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var note Note
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&note)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update note %s: %w", id.Hex(), err)
	}
	return &note, nil
}

// Delete removes a note by ID and returns it.
func (r *Repo) Delete(ctx context.Context, id primitive.ObjectID) (*Note, error) {
	var note Note
	err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&note)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("delete note: %w", err)
	}
	return &note, nil
}
