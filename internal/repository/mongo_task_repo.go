package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hitoshi/taskboard/internal/database"
	"github.com/hitoshi/taskboard/internal/model"
)

// MongoTaskRepo はMongoDBを使用したタスクリポジトリ。
type MongoTaskRepo struct {
	coll *mongo.Collection
}

// NewMongoTaskRepo はMongoTaskRepoを生成する。
func NewMongoTaskRepo(db *mongo.Database) *MongoTaskRepo {
	if db == nil {
		return &MongoTaskRepo{}
	}
	return &MongoTaskRepo{coll: db.Collection(database.TasksCollection)}
}

// Insert はタスクを作成し、生成された識別子（16進文字列）を返す。
func (r *MongoTaskRepo) Insert(ctx context.Context, task *model.Task) (string, error) {
	res, err := r.coll.InsertOne(ctx, task)
	if err != nil {
		return "", fmt.Errorf("failed to insert task: %w", err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	task.ID = id

	return id.Hex(), nil
}

// ListByUserID はuserIdが完全一致するタスクを返す。ページネーションは行わない。
func (r *MongoTaskRepo) ListByUserID(ctx context.Context, userID string) ([]model.Task, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to find tasks: %w", err)
	}

	tasks := []model.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	return tasks, nil
}

// Update はtitle、description、dueDate、statusを置き換える。
// 変更件数が0の場合（未検出または同一内容）はfalseを返す。
func (r *MongoTaskRepo) Update(ctx context.Context, id string, fields model.TaskFields) (bool, error) {
	oid, ok := parseObjectID(id)
	if !ok {
		return false, nil
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{
			"title":       fields.Title,
			"description": fields.Description,
			"dueDate":     fields.DueDate,
			"status":      fields.Status,
		}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to update task: %w", err)
	}
	return res.ModifiedCount > 0, nil
}

// Delete は指定IDのタスクを削除する。
func (r *MongoTaskRepo) Delete(ctx context.Context, id string) (bool, error) {
	oid, ok := parseObjectID(id)
	if !ok {
		return false, nil
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}
	return res.DeletedCount > 0, nil
}

// ListWithCreatorName は全タスクを作成者名付きで返す。
// userIdをObjectIDに変換してusersと左外部結合する。変換できないuserIdはnullとして扱う。
func (r *MongoTaskRepo) ListWithCreatorName(ctx context.Context) ([]model.TaskWithCreator, error) {
	cursor, err := r.coll.Aggregate(ctx, creatorNamePipeline())
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate tasks: %w", err)
	}

	rows := []model.TaskWithCreator{}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode aggregated tasks: %w", err)
	}
	return rows, nil
}

// creatorNamePipeline はタスクと作成者名を結合する集約パイプラインを返す。
func creatorNamePipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$addFields", Value: bson.M{
			"userIdObj": bson.M{"$convert": bson.M{
				"input":   "$userId",
				"to":      "objectId",
				"onError": nil,
				"onNull":  nil,
			}},
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         database.UsersCollection,
			"localField":   "userIdObj",
			"foreignField": "_id",
			"as":           "userDetails",
		}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$userDetails",
			"preserveNullAndEmptyArrays": true,
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":         1,
			"title":       1,
			"description": 1,
			"dueDate":     1,
			"status":      1,
			"CreatorName": "$userDetails.name",
		}}},
	}
}

// parseObjectID は16進文字列をObjectIDに変換する。形式不正の場合はfalseを返す。
func parseObjectID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}

// compile-time interface check
var _ TaskRepository = (*MongoTaskRepo)(nil)
