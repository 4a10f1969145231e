package credential

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shandysiswandi/safemeet/internal/pkg/goerror"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const mongoCollection = "identities"

type mongoIdentity struct {
	ID            int64      `bson:"_id"`
	Identifier    string     `bson:"identifier"`
	PasswordHash  string     `bson:"password_hash,omitempty"`
	OTPDigest     string     `bson:"otp_digest,omitempty"`
	OTPIssuedAt   *time.Time `bson:"otp_issued_at,omitempty"`
	OTPVerified   bool       `bson:"otp_verified"`
	DeliveryToken string     `bson:"delivery_token,omitempty"`
	FullName      string     `bson:"full_name,omitempty"`
	Phone         string     `bson:"phone,omitempty"`
	CreatedAt     time.Time  `bson:"created_at"`
	UpdatedAt     time.Time  `bson:"updated_at"`
}

func (m *mongoIdentity) toIdentity() *Identity {
	it := &Identity{
		ID:            m.ID,
		Identifier:    m.Identifier,
		PasswordHash:  m.PasswordHash,
		OTPDigest:     m.OTPDigest,
		OTPVerified:   m.OTPVerified,
		DeliveryToken: m.DeliveryToken,
		FullName:      m.FullName,
		Phone:         m.Phone,
		CreatedAt:     m.CreatedAt.UTC(),
		UpdatedAt:     m.UpdatedAt.UTC(),
	}
	if m.OTPIssuedAt != nil {
		t := m.OTPIssuedAt.UTC()
		it.OTPIssuedAt = &t
	}
	return it
}

// Mongo is the MongoDB-backed Store.
type Mongo struct {
	Deps
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongo uses database on client and ensures the indexes exist.
func NewMongo(ctx context.Context, client *mongo.Client, database string, deps Deps) (*Mongo, error) {
	coll := client.Database(database).Collection(mongoCollection)

	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "identifier", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "delivery_token", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("credential: mongo indexes: %w", err)
	}

	return &Mongo{Deps: deps, client: client, coll: coll}, nil
}

// FindByIdentifier implements Store.
func (m *Mongo) FindByIdentifier(ctx context.Context, identifier string) (_ *Identity, err error) {
	ctx, span := m.startSpan(ctx, "FindByIdentifier")
	defer func() { endSpan(span, err) }()

	var doc mongoIdentity
	err = m.coll.FindOne(ctx, bson.M{"identifier": identifier}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, goerror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return doc.toIdentity(), nil
}

// Upsert implements Store. Two concurrent inserts of a new identifier race
// on the unique index; the loser retries once as an update.
func (m *Mongo) Upsert(ctx context.Context, identifier string, f Fields) (_ *Identity, err error) {
	ctx, span := m.startSpan(ctx, "Upsert")
	defer func() { endSpan(span, err) }()

	it, err := m.upsert(ctx, identifier, f)
	if mongo.IsDuplicateKeyError(err) {
		it, err = m.upsert(ctx, identifier, f)
	}
	return it, err
}

func (m *Mongo) upsert(ctx context.Context, identifier string, f Fields) (*Identity, error) {
	var doc mongoIdentity
	err := m.coll.FindOneAndUpdate(ctx,
		bson.M{"identifier": identifier},
		upsertUpdate(f, m.Clock.Now(), m.ID.Generate()),
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, err
	}

	return doc.toIdentity(), nil
}

// upsertUpdate builds the update document for Upsert. Only set fields land in
// $set; the id, creation time and default verification flag are written on
// insert only.
func upsertUpdate(f Fields, now time.Time, id int64) bson.M {
	set := bson.M{"updated_at": now}
	setIfPresent(set, "password_hash", f.PasswordHash)
	setIfPresent(set, "otp_digest", f.OTPDigest)
	setIfPresent(set, "delivery_token", f.DeliveryToken)
	setIfPresent(set, "full_name", f.FullName)
	setIfPresent(set, "phone", f.Phone)
	if f.OTPIssuedAt != nil {
		set["otp_issued_at"] = *f.OTPIssuedAt
	}

	onInsert := bson.M{"_id": id, "created_at": now}
	if f.OTPVerified != nil {
		set["otp_verified"] = *f.OTPVerified
	} else {
		onInsert["otp_verified"] = false
	}

	return bson.M{"$set": set, "$setOnInsert": onInsert}
}

func setIfPresent(set bson.M, key string, v *string) {
	if v != nil {
		set[key] = *v
	}
}

func consumeOTPFilter(identifier, digest string) bson.M {
	return bson.M{"identifier": identifier, "otp_digest": digest}
}

func consumeOTPUpdate(now time.Time) bson.M {
	return bson.M{
		"$set":   bson.M{"otp_verified": true, "updated_at": now},
		"$unset": bson.M{"otp_digest": "", "otp_issued_at": ""},
	}
}

// ConsumeOTP implements Store.
func (m *Mongo) ConsumeOTP(ctx context.Context, identifier, digest string) (_ *Identity, err error) {
	ctx, span := m.startSpan(ctx, "ConsumeOTP")
	defer func() { endSpan(span, err) }()

	var doc mongoIdentity
	err = m.coll.FindOneAndUpdate(ctx,
		consumeOTPFilter(identifier, digest),
		consumeOTPUpdate(m.Clock.Now()),
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, goerror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return doc.toIdentity(), nil
}

// ClearDeliveryToken implements Store.
func (m *Mongo) ClearDeliveryToken(ctx context.Context, token string) (_ int64, err error) {
	ctx, span := m.startSpan(ctx, "ClearDeliveryToken")
	defer func() { endSpan(span, err) }()

	res, err := m.coll.UpdateMany(ctx,
		bson.M{"delivery_token": token},
		bson.M{"$unset": bson.M{"delivery_token": ""}, "$set": bson.M{"updated_at": m.Clock.Now()}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// Ping implements Store.
func (m *Mongo) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (m *Mongo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return m.client.Disconnect(ctx)
}
