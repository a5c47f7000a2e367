package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/BlusDevsoftware/clientes-api-bluepay/internal/core/domain"
)

const (
	collectionCustomers = "clientes"
	collectionCounters  = "counters"
)

var sortFields = map[string]string{
	"codigo":     "codigo",
	"nome":       "nome",
	"codigo_crm": "codigo_crm",
	"email":      "email",
}

type CustomerRepository struct {
	col      *mongo.Collection
	counters *mongo.Collection
}

func NewCustomerRepository(db *mongo.Database) *CustomerRepository {
	return &CustomerRepository{
		col:      db.Collection(collectionCustomers),
		counters: db.Collection(collectionCounters),
	}
}

type customerDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Codigo    int64              `bson:"codigo"`
	CodigoCRM *string            `bson:"codigo_crm,omitempty"`
	Nome      string             `bson:"nome"`
	Email     *string            `bson:"email,omitempty"`
	Telefone  *string            `bson:"telefone,omitempty"`
	Status    string             `bson:"status"`
}

func (d *customerDoc) toDomain() *domain.Customer {
	codigo := d.Codigo
	return &domain.Customer{
		ID:        d.ID.Hex(),
		Codigo:    &codigo,
		CodigoCRM: d.CodigoCRM,
		Nome:      d.Nome,
		Email:     d.Email,
		Telefone:  d.Telefone,
		Status:    domain.CustomerStatus(d.Status),
	}
}

func (r *CustomerRepository) List(ctx context.Context, orderBy string) ([]*domain.Customer, error) {
	field, ok := sortFields[orderBy]
	if !ok {
		return nil, fmt.Errorf("list clientes: unsupported order %q", orderBy)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: field, Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list clientes: %w", err)
	}
	defer cur.Close(ctx)

	customers := []*domain.Customer{}
	for cur.Next(ctx) {
		var d customerDoc
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode cliente: %w", err)
		}
		customers = append(customers, d.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list clientes: %w", err)
	}
	return customers, nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, id string) (*domain.Customer, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrCustomerNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d customerDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("find cliente: %w", err)
	}
	return d.toDomain(), nil
}

func (r *CustomerRepository) FindIDByKey(ctx context.Context, key domain.BusinessKey, value, excludeID string) (string, error) {
	filter := keyFilter(key, value, excludeID)

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d customerDoc
	err := r.col.FindOne(ctx, filter, options.FindOne().SetProjection(bson.M{"_id": 1})).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", nil
		}
		return "", fmt.Errorf("find cliente by %s: %w", key, err)
	}
	return d.ID.Hex(), nil
}

func keyFilter(key domain.BusinessKey, value, excludeID string) bson.M {
	filter := bson.M{string(key): value}
	if oid, err := primitive.ObjectIDFromHex(excludeID); err == nil {
		filter["_id"] = bson.M{"$ne": oid}
	}
	return filter
}

// Create allocates the next codigo from the counters collection and inserts
// the document. A duplicate key error maps to a *domain.DuplicateError.
func (r *CustomerRepository) Create(ctx context.Context, c *domain.Customer) (*domain.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	codigo, err := r.nextCodigo(ctx)
	if err != nil {
		return nil, err
	}

	d := customerDoc{
		ID:        primitive.NewObjectID(),
		Codigo:    codigo,
		CodigoCRM: c.CodigoCRM,
		Nome:      c.Nome,
		Email:     c.Email,
		Telefone:  c.Telefone,
		Status:    string(c.Status),
	}
	if _, err := r.col.InsertOne(ctx, d); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("insert cliente: %w", &domain.DuplicateError{Key: duplicateKey(err)})
		}
		return nil, fmt.Errorf("insert cliente: %w", err)
	}
	return d.toDomain(), nil
}

func (r *CustomerRepository) nextCodigo(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": collectionCustomers},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next codigo: %w", err)
	}
	return counter.Seq, nil
}

func (r *CustomerRepository) Update(ctx context.Context, id string, c *domain.Customer) (*domain.Customer, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrCustomerNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d customerDoc
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		updateDoc(c),
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCustomerNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("update cliente: %w", &domain.DuplicateError{Key: duplicateKey(err)})
		}
		return nil, fmt.Errorf("update cliente: %w", err)
	}
	return d.toDomain(), nil
}

// duplicateKey names the business key behind a duplicate key error from the
// index name in the server message ("index: email_key dup key").
func duplicateKey(err error) domain.BusinessKey {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "codigo_crm_"):
		return domain.KeyCodigoCRM
	case strings.Contains(msg, "email_"):
		return domain.KeyEmail
	default:
		return ""
	}
}

// updateDoc sets the supplied fields and unsets absent optional ones so the
// partial unique indexes ignore them. An empty status leaves the stored one.
func updateDoc(c *domain.Customer) bson.M {
	set := bson.M{"nome": c.Nome}
	unset := bson.M{}
	optional := map[string]*string{
		"codigo_crm": c.CodigoCRM,
		"email":      c.Email,
		"telefone":   c.Telefone,
	}
	for field, v := range optional {
		if v == nil {
			unset[field] = ""
			continue
		}
		set[field] = *v
	}
	if c.Status != "" {
		set["status"] = string(c.Status)
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return update
}

func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrCustomerNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete cliente: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

// EnsureIndexes creates the indexes of the clientes collection for profile.
// Only the profile's business key is unique, and that index is partial so
// customers without the field never collide. A unique index left by the
// other profile is dropped first.
func (r *CustomerRepository) EnsureIndexes(ctx context.Context, profile domain.ValidationProfile) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	for _, key := range []domain.BusinessKey{domain.KeyCodigoCRM, domain.KeyEmail} {
		if key == profile.BusinessKey() {
			continue
		}
		if _, err := r.col.Indexes().DropOne(ctx, uniqueIndexName(key)); err != nil && !isIndexNotFound(err) {
			return fmt.Errorf("drop %s: %w", uniqueIndexName(key), err)
		}
	}

	_, err := r.col.Indexes().CreateMany(ctx, customerIndexes(profile))
	return err
}

func customerIndexes(profile domain.ValidationProfile) []mongo.IndexModel {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "codigo", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "nome", Value: 1}}},
	}

	for _, key := range []domain.BusinessKey{domain.KeyCodigoCRM, domain.KeyEmail} {
		field := string(key)
		if key != profile.BusinessKey() {
			indexes = append(indexes, mongo.IndexModel{Keys: bson.D{{Key: field, Value: 1}}})
			continue
		}
		indexes = append(indexes, mongo.IndexModel{
			Keys: bson.D{{Key: field, Value: 1}},
			Options: options.Index().
				SetName(uniqueIndexName(key)).
				SetUnique(true).
				SetPartialFilterExpression(bson.M{field: bson.M{"$type": "string"}}),
		})
	}
	return indexes
}

func uniqueIndexName(key domain.BusinessKey) string {
	return string(key) + "_key"
}

// isIndexNotFound matches the server errors for a missing index (27) or a
// missing collection (26).
func isIndexNotFound(err error) bool {
	var cmdErr mongo.CommandError
	return errors.As(err, &cmdErr) && (cmdErr.Code == 26 || cmdErr.Code == 27)
}
