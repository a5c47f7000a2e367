package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/BlusDevsoftware/clientes-api-bluepay/internal/core/domain"
)

const collectionUsers = "usuarios"

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc bson.M
	if err := r.col.FindOne(ctx, userFilter(id)).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find usuario: %w", err)
	}
	return userFromDoc(doc), nil
}

// userFilter matches _id stored either as an ObjectID or as a plain string.
func userFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"$or": bson.A{bson.M{"_id": oid}, bson.M{"_id": id}}}
	}
	return bson.M{"_id": id}
}

func userFromDoc(doc bson.M) *domain.User {
	profile := make(map[string]any, len(doc))
	for k, v := range doc {
		if oid, ok := v.(primitive.ObjectID); ok {
			v = oid.Hex()
		}
		if k == "_id" {
			k = "id"
		}
		profile[k] = v
	}

	user := &domain.User{Profile: profile}
	user.ID = fmt.Sprint(profile["id"])
	if s, ok := profile["status"].(string); ok {
		user.Status = s
	}
	return user
}
