package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type collectionIndexes struct {
	collection string
	models     []mongo.IndexModel
}

// Cart rows are indexed on (user_id, product_id) without a unique constraint;
// add-to-cart keeps one row per pair by reading before it inserts.
var indexPlan = []collectionIndexes{
	{
		collection: "users",
		models: []mongo.IndexModel{{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("email_unique").SetUnique(true),
		}},
	},
	{
		collection: "refresh_tokens",
		models: []mongo.IndexModel{{
			Keys:    bson.D{{Key: "token_hash", Value: 1}},
			Options: options.Index().SetName("token_hash_index"),
		}},
	},
	{
		collection: "cart_items",
		models: []mongo.IndexModel{{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "product_id", Value: 1}},
			Options: options.Index().SetName("user_product_index"),
		}},
	},
	{
		collection: "orders",
		models: []mongo.IndexModel{{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("user_created_index"),
		}},
	},
	{
		collection: "order_items",
		models: []mongo.IndexModel{{
			Keys:    bson.D{{Key: "order_id", Value: 1}},
			Options: options.Index().SetName("order_id_index"),
		}},
	},
	{
		collection: "products",
		models: []mongo.IndexModel{{
			Keys:    bson.D{{Key: "category_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("category_created_index"),
		}},
	},
}

// EnsureIndexes creates every index the stores rely on. It keeps going after a
// failure and returns the first error it saw.
func EnsureIndexes(db *mongo.Database) error {
	var firstErr error
	for _, plan := range indexPlan {
		if err := ensureCollectionIndexes(db, plan); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func ensureCollectionIndexes(db *mongo.Database, plan collectionIndexes) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	log.Printf("EnsureIndexes: creating %d index(es) on %s", len(plan.models), plan.collection)
	names, err := db.Collection(plan.collection).Indexes().CreateMany(ctx, plan.models)
	if err != nil {
		log.Printf("EnsureIndexes: %s index error: %v", plan.collection, err)
		return err
	}
	log.Printf("EnsureIndexes: %s indexes ready: %v", plan.collection, names)
	return nil
}
