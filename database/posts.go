package database

import (
	"time"

	"github.com/flocknet/flock/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// postWithAuthors is the shape produced by the population pipeline
type postWithAuthors struct {
	model.Post        `bson:",inline"`
	AuthorDocs        []model.User `bson:"authorDocs"`
	CommentAuthorDocs []model.User `bson:"commentAuthorDocs"`
}

// CreatePost allows to create a new post into the posts collection
func CreatePost(post model.Post) (model.Post, error) {
	post.CreatedAt = time.Now().UTC()

	res, err := Posts.InsertOne(ctx, post)
	if err != nil {
		return model.Post{}, err
	}

	post.ID = res.InsertedID.(primitive.ObjectID)
	return post, nil
}

// GetPostByID fetches a single post, without author population
func GetPostByID(id primitive.ObjectID) (model.Post, error) {
	var post model.Post
	err := Posts.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err != nil {
		return model.Post{}, err
	}

	return post, nil
}

// DeletePost removes the post document
func DeletePost(id primitive.ObjectID) error {
	_, err := Posts.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// LikePost adds the user to the post's like set
func LikePost(post primitive.ObjectID, user primitive.ObjectID) error {
	_, err := Posts.UpdateOne(ctx, bson.M{"_id": post},
		bson.M{"$addToSet": bson.M{"likes": user}})
	return err
}

// UnlikePost removes the user from the post's like set
func UnlikePost(post primitive.ObjectID, user primitive.ObjectID) error {
	_, err := Posts.UpdateOne(ctx, bson.M{"_id": post},
		bson.M{"$pull": bson.M{"likes": user}})
	return err
}

// AddComment appends a comment to the post, preserving insertion order
func AddComment(post primitive.ObjectID, comment model.Comment) error {
	_, err := Posts.UpdateOne(ctx, bson.M{"_id": post},
		bson.M{"$push": bson.M{"comments": comment}})
	return err
}

// findPosts runs the shared population pipeline: filter, newest first,
// join the author and every comment's author from the users collection.
func findPosts(match bson.M) ([]model.Post, error) {
	cursor, err := Posts.Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "user",
			"foreignField": "_id",
			"as":           "authorDocs",
		}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "comments.commentedBy",
			"foreignField": "_id",
			"as":           "commentAuthorDocs",
		}}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var raw []postWithAuthors
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, err
	}

	posts := make([]model.Post, 0, len(raw))
	for _, r := range raw {
		post := r.Post

		if len(r.AuthorDocs) > 0 {
			author := r.AuthorDocs[0]
			author.Password = ""
			post.Author = &author
		}

		authors := make(map[primitive.ObjectID]*model.User, len(r.CommentAuthorDocs))
		for i := range r.CommentAuthorDocs {
			r.CommentAuthorDocs[i].Password = ""
			authors[r.CommentAuthorDocs[i].ID] = &r.CommentAuthorDocs[i]
		}
		for i := range post.Comments {
			post.Comments[i].Author = authors[post.Comments[i].CommentedBy]
		}

		posts = append(posts, post)
	}

	return posts, nil
}

// GetPosts returns every post, newest first
func GetPosts() ([]model.Post, error) {
	return findPosts(bson.M{})
}

// GetFollowingPosts returns the feed of the given authors, newest first
func GetFollowingPosts(following []primitive.ObjectID) ([]model.Post, error) {
	return findPosts(bson.M{"user": bson.M{"$in": following}})
}

// GetUserPosts returns a single author's posts, newest first
func GetUserPosts(author primitive.ObjectID) ([]model.Post, error) {
	return findPosts(bson.M{"user": author})
}

// GetLikedPosts returns the posts in the given liked list, newest first
func GetLikedPosts(liked []primitive.ObjectID) ([]model.Post, error) {
	return findPosts(bson.M{"_id": bson.M{"$in": liked}})
}
