package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const testMongoURLEnv = "YOGA_STUDIO_TEST_MONGODB_URL"

func TestMongoStoreSuite(t *testing.T) {
	url := os.Getenv(testMongoURLEnv)
	if url == "" {
		t.Skipf("%s is not set", testMongoURLEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(url))
	require.NoError(t, err)
	defer func() { require.NoError(t, client.Disconnect(context.Background())) }()

	store := NewMongoStore(client, "yoga_studio_db_test")
	require.NoError(t, store.Ping(ctx, 5*time.Second))

	suite.Run(t, &StoreSuite{newStore: func() Store { return store }})
}
