// Package testutil はテスト用のMongoDBセットアップを提供する。
package testutil

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SetupMongo はテスト用のデータベースを返す。
// 環境変数 TEST_DATABASE_URL が設定されていればそのサーバーを使用し、
// 未設定の場合はtestcontainersでMongoDBコンテナを起動する。
// Dockerが利用できない、または -short 指定時はテストをスキップする。
// データベース名はテストごとに一意で、終了時に削除される。
func SetupMongo(t *testing.T) *mongo.Database {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping MongoDB integration test in short mode")
	}

	ctx := context.Background()

	uri := os.Getenv("TEST_DATABASE_URL")
	if uri == "" {
		testcontainers.SkipIfProviderIsNotHealthy(t)

		container, err := mongodb.Run(ctx, "mongo:7")
		if err != nil {
			t.Fatalf("Failed to start MongoDB container: %v", err)
		}
		t.Cleanup(func() {
			if err := testcontainers.TerminateContainer(container); err != nil {
				t.Logf("Failed to terminate MongoDB container: %v", err)
			}
		})

		uri, err = container.ConnectionString(ctx)
		if err != nil {
			t.Fatalf("Failed to get connection string: %v", err)
		}
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("Failed to connect MongoDB: %v", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		t.Skipf("MongoDB is not reachable (skipping): %v", err)
	}

	name := "taskboard_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	db := client.Database(name)

	t.Cleanup(func() {
		if err := db.Drop(ctx); err != nil {
			t.Logf("Failed to drop test database: %v", err)
		}
		if err := client.Disconnect(ctx); err != nil {
			t.Logf("Failed to disconnect MongoDB: %v", err)
		}
	})

	return db
}
