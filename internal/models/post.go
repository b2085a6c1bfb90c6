package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Like marks that a user liked a post. At most one per user per post.
type Like struct {
	UserID string `json:"user" bson:"user"`
}

// Comment is embedded in a post, newest first. Name and avatar are a
// snapshot of the author at write time.
type Comment struct {
	ID     string    `json:"id"     bson:"id"`
	Text   string    `json:"text"   bson:"text"`
	Name   string    `json:"name"   bson:"name"`
	Avatar string    `json:"avatar" bson:"avatar"`
	UserID string    `json:"user"   bson:"user"`
	Date   time.Time `json:"date"   bson:"date"`
}

// Post is a feed post stored in MongoDB. Name and avatar are a snapshot of
// the author at creation time and are deliberately not refreshed when the
// profile changes later.
type Post struct {
	ID       primitive.ObjectID `json:"id"     bson:"_id,omitempty"`
	Text     string             `json:"text"   bson:"text"`
	Name     string             `json:"name"   bson:"name"`
	Avatar   string             `json:"avatar" bson:"avatar"`
	UserID   string             `json:"user"   bson:"user"`
	Likes    []Like             `json:"likes"  bson:"likes"`
	Comments []Comment          `json:"comments" bson:"comments"`
	Date     time.Time          `json:"date"   bson:"date"`
}

// PostInput is the JSON body for POST /api/posts and POST /api/posts/comment/:id.
type PostInput struct {
	Text string `json:"text"`
}
