package store

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"storefront/internal/models"
)

func newMockT(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func ns(collection string) string {
	return "grocery." + collection
}

func okWrite(n int32) bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "n", Value: n}, bson.E{Key: "nModified", Value: n})
}

func commandError() bson.D {
	return mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Name: "BadValue", Message: "boom"})
}

// nextCommand skips to the started event with the given command name.
func nextCommand(mt *mtest.T, name string) *event.CommandStartedEvent {
	for evt := mt.GetStartedEvent(); evt != nil; evt = mt.GetStartedEvent() {
		if evt.CommandName == name {
			return evt
		}
	}
	require.FailNowf(mt, "command not sent", "expected a %q command", name)
	return nil
}

func line(price float64, quantity int) models.CartLine {
	return models.CartLine{
		CartItem: models.CartItem{
			ID:        primitive.NewObjectID(),
			ProductID: primitive.NewObjectID(),
			Quantity:  quantity,
		},
		Product: &models.Product{Price: price},
	}
}
