package model

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User はサインアップで作成されるユーザードキュメント。
// Passwordにはbcryptハッシュのみを保持する。
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	CreatedAt time.Time          `bson:"created_at"`

	// Extra は許可リストに含まれる追加フィールド。ドキュメントのトップレベルに展開される。
	Extra map[string]any `bson:",inline"`
}

// ReservedUserFields はExtraに含めてはならないフィールド名。
var ReservedUserFields = map[string]struct{}{
	"_id":        {},
	"name":       {},
	"email":      {},
	"password":   {},
	"created_at": {},
}

// MarshalJSON は保存済みドキュメントと同じ形（Extraをトップレベルに展開）でJSONを出力する。
func (u User) MarshalJSON() ([]byte, error) {
	doc := make(map[string]any, len(u.Extra)+5)
	for k, v := range u.Extra {
		doc[k] = v
	}
	doc["_id"] = u.ID
	doc["name"] = u.Name
	doc["email"] = u.Email
	doc["password"] = u.Password
	doc["created_at"] = u.CreatedAt
	return json.Marshal(doc)
}

// InsertResult はユーザー作成結果を表す。
type InsertResult struct {
	Acknowledged bool               `json:"acknowledged"`
	InsertedID   primitive.ObjectID `json:"insertedId"`
}
