package docstore

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoCollection = "documents"

// Mongo stores documents in one collection keyed by _id. Create-if-absent is
// an upsert with $setOnInsert, which never overwrites an existing document.
// Transactions need a replica set.
type Mongo struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func OpenMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	coll := client.Database(database).Collection(mongoCollection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: FieldType, Value: 1}}})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to create type index: %w", err)
	}
	return &Mongo{client: client, collection: coll}, nil
}

func (m *Mongo) Get(ctx context.Context, id string) (Document, error) {
	var raw bson.M
	err := m.collection.FindOne(ctx, bson.M{FieldID: id}).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find document %s: %w", id, err)
	}
	return fromBSON(raw), nil
}

func (m *Mongo) GetMany(ctx context.Context, ids []string) (map[string]Document, error) {
	out := make(map[string]Document, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cursor, err := m.collection.Find(ctx, bson.M{FieldID: bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to find documents: %w", err)
	}
	defer cursor.Close(ctx)

	var raws []bson.M
	if err := cursor.All(ctx, &raws); err != nil {
		return nil, fmt.Errorf("failed to decode documents: %w", err)
	}
	for _, raw := range raws {
		doc := fromBSON(raw)
		out[doc.ID()] = doc
	}
	return out, nil
}

func (m *Mongo) Fetch(ctx context.Context, q Query) ([]Document, error) {
	if err := validateQuery(q); err != nil {
		return nil, err
	}
	filter := bson.M{FieldType: q.Type}
	for _, f := range q.Filters {
		cond, _ := filter[f.Field].(bson.M)
		if cond == nil {
			cond = bson.M{}
		}
		cond[mongoOperator(f.Op)] = f.Value
		filter[f.Field] = cond
	}

	opts := options.Find()
	if q.OrderBy != "" {
		dir := 1
		if q.Descending {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: q.OrderBy, Value: dir}})
	}
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cursor, err := m.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s documents: %w", q.Type, err)
	}
	defer cursor.Close(ctx)

	var raws []bson.M
	if err := cursor.All(ctx, &raws); err != nil {
		return nil, fmt.Errorf("failed to decode documents: %w", err)
	}
	docs := make([]Document, 0, len(raws))
	for _, raw := range raws {
		docs = append(docs, fromBSON(raw))
	}
	return docs, nil
}

func mongoOperator(op Operator) string {
	switch op {
	case Gte:
		return "$gte"
	case Lt:
		return "$lt"
	default:
		return "$eq"
	}
}

func (m *Mongo) CreateIfNotExists(ctx context.Context, doc Document) error {
	if err := validateDoc(doc); err != nil {
		return err
	}
	return m.upsertIfAbsent(ctx, doc, false)
}

func (m *Mongo) Patch(ctx context.Context, id string, set map[string]any) error {
	if err := validatePatch(set); err != nil {
		return err
	}
	return m.patch(ctx, id, set)
}

func (m *Mongo) Transaction(ctx context.Context, ops ...Op) error {
	for _, op := range ops {
		if err := checkOp(op); err != nil {
			return err
		}
	}
	session, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (any, error) {
		for _, op := range ops {
			var opErr error
			switch op.kind {
			case opCreateIfNotExists:
				opErr = m.upsertIfAbsent(sessCtx, op.doc, true)
			case opPatch:
				opErr = m.patch(sessCtx, op.id, op.set)
			}
			if opErr != nil {
				return nil, opErr
			}
		}
		return nil, nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("transaction failed: %w", err)
	}
	return nil
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *Mongo) upsertIfAbsent(ctx context.Context, doc Document, inTx bool) error {
	body := maps.Clone(doc)
	delete(body, FieldID)
	_, err := m.collection.UpdateOne(ctx,
		bson.M{FieldID: doc.ID()},
		bson.M{"$setOnInsert": body},
		options.Update().SetUpsert(true),
	)
	if err == nil {
		return nil
	}
	// Outside a transaction two upserts on one _id can race to the insert;
	// the loser's duplicate key means the document exists. Inside one the
	// server has already aborted the transaction, so the error must surface.
	if !inTx && mongo.IsDuplicateKeyError(err) {
		return nil
	}
	return fmt.Errorf("failed to create document %s: %w", doc.ID(), err)
}

func (m *Mongo) patch(ctx context.Context, id string, set map[string]any) error {
	result, err := m.collection.UpdateOne(ctx, bson.M{FieldID: id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to patch document %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func fromBSON(raw bson.M) Document {
	doc := make(Document, len(raw))
	for k, v := range raw {
		if arr, ok := v.(bson.A); ok {
			v = []any(arr)
		}
		doc[k] = v
	}
	return doc
}
