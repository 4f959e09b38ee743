package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/sparkpath/pkg/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const userCollection = "spark_users"

// Firestore implements Repository using Firestore
type Firestore struct {
	client *firestore.Client
}

// New creates a new Firestore repository
func New(ctx context.Context, projectID, databaseID string) (*Firestore, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client")
	}

	return &Firestore{client: client}, nil
}

// Close releases the underlying client
func (r *Firestore) Close() error {
	if err := r.client.Close(); err != nil {
		return goerr.Wrap(err, "failed to close firestore client")
	}
	return nil
}

func (r *Firestore) doc(id model.UserID) *firestore.DocumentRef {
	return r.client.Collection(userCollection).Doc(string(id))
}

func (r *Firestore) CreateUser(ctx context.Context) (*model.UserRecord, error) {
	now := time.Now().UTC()
	record := &model.UserRecord{
		ID:           model.NewUserID(),
		CreatedAt:    now,
		UpdatedAt:    now,
		Answers:      model.ChatHistory{},
		SavedCareers: []*model.SavedCareer{},
	}

	if _, err := r.doc(record.ID).Set(ctx, record); err != nil {
		return nil, goerr.Wrap(err, "failed to create user record", goerr.V("user_id", record.ID))
	}

	return record, nil
}

func (r *Firestore) GetUser(ctx context.Context, id model.UserID) (*model.UserRecord, error) {
	snap, err := r.doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrUserNotFound, "no such user", goerr.V("user_id", id))
		}
		return nil, goerr.Wrap(err, "failed to get user record", goerr.V("user_id", id))
	}

	var record model.UserRecord
	if err := snap.DataTo(&record); err != nil {
		return nil, goerr.Wrap(err, "failed to decode user record", goerr.V("user_id", id))
	}

	return &record, nil
}

func (r *Firestore) UpdateUser(ctx context.Context, id model.UserID, fields map[string]any) error {
	updates := make([]firestore.Update, 0, len(fields)+1)
	for path, value := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}
	updates = append(updates, firestore.Update{Path: "updated_at", Value: time.Now().UTC()})

	if _, err := r.doc(id).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrUserNotFound, "no such user", goerr.V("user_id", id))
		}
		return goerr.Wrap(err, "failed to update user record", goerr.V("user_id", id))
	}

	return nil
}

func (r *Firestore) AddSavedCareer(ctx context.Context, id model.UserID, title string, score float64) error {
	record, err := r.GetUser(ctx, id)
	if err != nil {
		return err
	}

	saved := append(record.SavedCareers, &model.SavedCareer{Title: title, Score: score})

	return r.UpdateUser(ctx, id, map[string]any{"saved_careers": saved})
}

func (r *Firestore) ListUsers(ctx context.Context, limit int) ([]*model.UserRecord, error) {
	query := r.client.Collection(userCollection).
		OrderBy("created_at", firestore.Desc).
		Limit(limit)

	var records []*model.UserRecord
	iter := query.Documents(ctx)
	defer iter.Stop()

	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate user records")
		}

		var record model.UserRecord
		if err := snap.DataTo(&record); err != nil {
			return nil, goerr.Wrap(err, "failed to decode user record", goerr.V("doc", snap.Ref.ID))
		}
		records = append(records, &record)
	}

	return records, nil
}
