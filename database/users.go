package database

import (
	"time"

	"github.com/flocknet/flock/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// GetUserByID fetches a single user by its identifier
func GetUserByID(id primitive.ObjectID) (model.User, error) {
	var user model.User
	err := Users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		return model.User{}, err
	}

	return user, nil
}

// GetUserByUsername fetches a single user by its unique username
func GetUserByUsername(username string) (model.User, error) {
	var user model.User
	err := Users.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err != nil {
		return model.User{}, err
	}

	return user, nil
}

// GetUserByUsernameOrEmail fetches the account matching either identifier
func GetUserByUsernameOrEmail(username string, email string) (model.User, error) {
	var user model.User
	err := Users.FindOne(ctx, bson.M{"$or": bson.A{
		bson.M{"username": username},
		bson.M{"email": email},
	}}).Decode(&user)
	if err != nil {
		return model.User{}, err
	}

	return user, nil
}

// UsernameOrEmailTaken checks uniqueness of both identity fields
func UsernameOrEmailTaken(username string, email string) (bool, error) {
	_, err := GetUserByUsernameOrEmail(username, email)
	if err == mongo.ErrNoDocuments {
		return false, nil
	} else if err != nil {
		return false, err
	}

	return true, nil
}

// CreateUser allows to create a new user into the users collection
func CreateUser(user model.User) (model.User, error) {
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt

	res, err := Users.InsertOne(ctx, user)
	if err != nil {
		return model.User{}, err
	}

	user.ID = res.InsertedID.(primitive.ObjectID)
	return user, nil
}

// UpdateUser overwrites the given fields, leaving the others unchanged
func UpdateUser(id primitive.ObjectID, fields bson.M) error {
	fields["updatedAt"] = time.Now().UTC()

	_, err := Users.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	return err
}

// Follow adds each side to the counterpart's relationship list.
// The two writes are not one transaction; a crash in between leaves
// the sets one-sided.
func Follow(actor primitive.ObjectID, target primitive.ObjectID) error {
	_, err := Users.UpdateOne(ctx, bson.M{"_id": actor},
		bson.M{"$addToSet": bson.M{"following": target}})
	if err != nil {
		return err
	}

	_, err = Users.UpdateOne(ctx, bson.M{"_id": target},
		bson.M{"$addToSet": bson.M{"followers": actor}})
	return err
}

// Unfollow removes each side from the counterpart's relationship list
func Unfollow(actor primitive.ObjectID, target primitive.ObjectID) error {
	_, err := Users.UpdateOne(ctx, bson.M{"_id": actor},
		bson.M{"$pull": bson.M{"following": target}})
	if err != nil {
		return err
	}

	_, err = Users.UpdateOne(ctx, bson.M{"_id": target},
		bson.M{"$pull": bson.M{"followers": actor}})
	return err
}

// AddLikedPost records the post in the user's liked list
func AddLikedPost(user primitive.ObjectID, post primitive.ObjectID) error {
	_, err := Users.UpdateOne(ctx, bson.M{"_id": user},
		bson.M{"$addToSet": bson.M{"likedPosts": post}})
	return err
}

// RemoveLikedPost removes the post from the user's liked list
func RemoveLikedPost(user primitive.ObjectID, post primitive.ObjectID) error {
	_, err := Users.UpdateOne(ctx, bson.M{"_id": user},
		bson.M{"$pull": bson.M{"likedPosts": post}})
	return err
}

// SuggestedUsers samples 4 random users, excluding the actor
// and everyone the actor already follows
func SuggestedUsers(user model.User) ([]model.User, error) {
	excluded := append([]primitive.ObjectID{user.ID}, user.Following...)

	cursor, err := Users.Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"_id": bson.M{"$nin": excluded}}}},
		bson.D{{Key: "$project", Value: bson.M{"password": 0}}},
		bson.D{{Key: "$sample", Value: bson.M{"size": 4}}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	suggested := make([]model.User, 0)
	if err := cursor.All(ctx, &suggested); err != nil {
		return nil, err
	}

	return suggested, nil
}
