package storage

import (
	"context"
	"errors"
	"fmt"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"selfchat/internal/app/domain/message"
	"selfchat/internal/app/infrastructure/config"
	"selfchat/pkg/logger"
	"sync/atomic"
	"time"
)

const codeNamespaceExists = 48

type document struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Sender        string             `bson:"sender"`
	TextPrimary   string             `bson:"textPrimary"`
	TextSecondary string             `bson:"textSecondary"`
	CreatedAt     time.Time          `bson:"createdAt"`
}

func (d *document) toMessage() *message.Message {
	return &message.Message{
		ID:            d.ID.Hex(),
		Sender:        message.Sender(d.Sender),
		TextPrimary:   d.TextPrimary,
		TextSecondary: d.TextSecondary,
		CreatedAt:     d.CreatedAt.UTC(),
	}
}

// MongoStore keeps messages in one collection. Physical removal is done by the server's
// TTL monitor (runs about once a minute); reads also filter on createdAt so an expired
// document is never returned while it waits for the monitor.
type MongoStore struct {
	log    logger.Logger
	client *mongo.Client
	db     *mongo.Database
	coll   *mongo.Collection
	ttl    atomic.Int64
	now    func() time.Time
}

// Connect dials and pings the server. Any failure is reported as ErrStoreUnavailable.
func Connect(ctx context.Context, log logger.Logger, cfg config.Store, timeout time.Duration) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: connect: %w", message.ErrStoreUnavailable, err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%w: ping: %w", message.ErrStoreUnavailable, err)
	}

	db := client.Database(cfg.Database)
	s := &MongoStore{
		log:    log,
		client: client,
		db:     db,
		coll:   db.Collection(cfg.Collection),
		now:    time.Now,
	}

	log.Info("MongoDB connected", "database", cfg.Database, "collection", cfg.Collection)
	return s, nil
}

func (s *MongoStore) Initialize(ctx context.Context, ttl time.Duration) error {
	err := s.db.CreateCollection(ctx, s.coll.Name())
	var cmdErr mongo.CommandError
	if err != nil && !(errors.As(err, &cmdErr) && cmdErr.Code == codeNamespaceExists) {
		return fmt.Errorf("%w: create collection: %w", message.ErrStoreUnavailable, err)
	}

	outcome, err := reconcileExpiryIndex(ctx, mongoIndexes{view: s.coll.Indexes()}, ExpiryField, int32(ttl/time.Second))
	if err != nil {
		return fmt.Errorf("%w: expiry index: %w", message.ErrStoreUnavailable, err)
	}

	s.ttl.Store(int64(ttl))
	s.log.Info("Expiry index reconciled", "outcome", outcome.String(), "ttl", ttl.String())
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]message.Message, error) {
	cur, err := s.coll.Find(ctx, s.liveFilter(bson.M{}), options.Find().SetSort(bson.D{{Key: ExpiryField, Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}

	var docs []document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	out := make([]message.Message, 0, len(docs))
	for i := range docs {
		out = append(out, *docs[i].toMessage())
	}
	return out, nil
}

func (s *MongoStore) Create(ctx context.Context, sender message.Sender, textPrimary, textSecondary string) (*message.Message, error) {
	if err := message.ValidateNew(sender, textPrimary, textSecondary); err != nil {
		return nil, err
	}

	doc := document{
		ID:            primitive.NewObjectID(),
		Sender:        string(sender),
		TextPrimary:   textPrimary,
		TextSecondary: textSecondary,
		CreatedAt:     message.Timestamp(s.now()),
	}

	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert: %w", err)
	}
	return doc.toMessage(), nil
}

func (s *MongoStore) Update(ctx context.Context, id, textPrimary, textSecondary string) (*message.Message, error) {
	if err := message.ValidateTexts(textPrimary, textSecondary); err != nil {
		return nil, err
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, message.ErrNotFound
	}

	var doc document
	err = s.coll.FindOneAndUpdate(ctx,
		s.liveFilter(bson.M{"_id": oid}),
		bson.M{"$set": bson.M{"textPrimary": textPrimary, "textSecondary": textSecondary}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, message.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find and update: %w", err)
	}

	return doc.toMessage(), nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return message.ErrNotFound
	}

	res, err := s.coll.DeleteOne(ctx, s.liveFilter(bson.M{"_id": oid}))
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return message.ErrNotFound
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect: %w", err)
	}
	s.log.Info("MongoDB disconnected")
	return nil
}

// liveFilter restricts filter to documents younger than the TTL.
func (s *MongoStore) liveFilter(filter bson.M) bson.M {
	ttl := time.Duration(s.ttl.Load())
	if ttl <= 0 {
		return filter
	}
	filter[ExpiryField] = bson.M{"$gt": s.now().Add(-ttl)}
	return filter
}

type mongoIndexes struct {
	view mongo.IndexView
}

func (m mongoIndexes) List(ctx context.Context) ([]IndexSpec, error) {
	specs, err := m.view.ListSpecifications(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]IndexSpec, 0, len(specs))
	for _, spec := range specs {
		elems, err := spec.KeysDocument.Elements()
		if err != nil {
			return nil, fmt.Errorf("index %s keys: %w", spec.Name, err)
		}

		keys := make([]string, 0, len(elems))
		for _, e := range elems {
			keys = append(keys, e.Key())
		}

		out = append(out, IndexSpec{
			Name:               spec.Name,
			Keys:               keys,
			ExpireAfterSeconds: spec.ExpireAfterSeconds,
		})
	}
	return out, nil
}

func (m mongoIndexes) Drop(ctx context.Context, name string) error {
	_, err := m.view.DropOne(ctx, name)
	return err
}

func (m mongoIndexes) CreateExpiry(ctx context.Context, name, field string, seconds int32) error {
	_, err := m.view.CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetName(name).SetExpireAfterSeconds(seconds),
	})
	return err
}
