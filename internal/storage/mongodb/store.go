package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/plantlife/plantlife-backend/internal/apperrors"
	"github.com/plantlife/plantlife-backend/internal/models"
	"github.com/plantlife/plantlife-backend/internal/storage"
)

// Store implements storage.Storage on MongoDB.
type Store struct {
	users         *mongo.Collection
	posts         *mongo.Collection
	follows       *mongo.Collection
	likes         *mongo.Collection
	shares        *mongo.Collection
	notifications *mongo.Collection
	verifications *mongo.Collection
	otps          *mongo.Collection
}

// New creates the store and ensures the unique indexes the data model relies on.
func New(ctx context.Context, db *mongo.Database) (*Store, error) {
	s := &Store{
		users:         db.Collection("users"),
		posts:         db.Collection("posts"),
		follows:       db.Collection("follows"),
		likes:         db.Collection("likes"),
		shares:        db.Collection("shares"),
		notifications: db.Collection("notifications"),
		verifications: db.Collection("verificationRequests"),
		otps:          db.Collection("otps"),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	if _, err := s.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "phone", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
	}); err != nil {
		return err
	}
	pairs := []struct {
		coll   *mongo.Collection
		first  string
		second string
	}{
		{s.follows, "follower_id", "following_id"},
		{s.likes, "user_id", "post_id"},
		{s.shares, "user_id", "post_id"},
	}
	for _, p := range pairs {
		_, err := p.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: p.first, Value: 1}, {Key: p.second, Value: 1}},
			Options: options.Index().SetUnique(true),
		})
		if err != nil {
			return err
		}
	}
	_, err := s.posts.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "author_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "reply_to_id", Value: 1}}},
	})
	return err
}

// === Users ===

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	count, err := s.users.CountDocuments(ctx, bson.M{"phone": user.Phone})
	if err != nil {
		return err
	}
	if count > 0 {
		return apperrors.Conflict("phone %s is already registered", user.Phone)
	}
	count, err = s.users.CountDocuments(ctx, bson.M{"username": user.Username})
	if err != nil {
		return err
	}
	if count > 0 {
		return apperrors.Conflict("username %s is already taken", user.Username)
	}

	user.ID = uuid.NewString()
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	_, err = s.users.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return apperrors.Conflict("phone or username already in use")
	}
	return err
}

func (s *Store) UpsertUser(ctx context.Context, user *models.User) (*models.User, error) {
	existing, err := s.GetUserByPhone(ctx, user.Phone)
	if apperrors.IsKind(err, apperrors.KindNotFound) {
		if err := s.CreateUser(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	}
	if err != nil {
		return nil, err
	}

	set := bson.M{
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"updated_at": time.Now().UTC(),
	}
	if user.Username != "" {
		set["username"] = user.Username
	}
	if user.Email != "" {
		set["email"] = user.Email
	}
	if user.AccountType != "" {
		set["account_type"] = user.AccountType
	}
	if _, err := s.users.UpdateOne(ctx, bson.M{"_id": existing.ID}, bson.M{"$set": set}); err != nil {
		return nil, err
	}
	return s.GetUser(ctx, existing.ID)
}

func (s *Store) getUser(ctx context.Context, filter bson.M, format string, args ...any) (*models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NotFound(format, args...)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx, bson.M{"_id": id}, "user %s not found", id)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getUser(ctx, bson.M{"username": username}, "user %s not found", username)
}

func (s *Store) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	return s.getUser(ctx, bson.M{"phone": phone}, "no user with phone %s", phone)
}

func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()
	res, err := s.users.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("user %s not found", user.ID)
	}
	return nil
}

func (s *Store) SearchUsers(ctx context.Context, query string, limit int) ([]models.User, error) {
	pattern := bson.M{"$regex": query, "$options": "i"}
	filter := bson.M{"$or": []bson.M{
		{"username": pattern},
		{"first_name": pattern},
		{"last_name": pattern},
	}}
	opts := options.Find().SetLimit(int64(limit)).SetSort(bson.D{{Key: "username", Value: 1}})
	cursor, err := s.users.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) RecomputeUserCounters(ctx context.Context, userID string) error {
	followers, err := s.follows.CountDocuments(ctx, bson.M{"following_id": userID})
	if err != nil {
		return err
	}
	following, err := s.follows.CountDocuments(ctx, bson.M{"follower_id": userID})
	if err != nil {
		return err
	}
	posts, err := s.posts.CountDocuments(ctx, bson.M{"author_id": userID})
	if err != nil {
		return err
	}

	res, err := s.users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": bson.M{
		"followers_count": followers,
		"following_count": following,
		"posts_count":     posts,
		"updated_at":      time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("user %s not found", userID)
	}
	return nil
}

// === Posts ===

func (s *Store) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = uuid.NewString()
	post.CreatedAt = time.Now().UTC()
	post.UpdatedAt = post.CreatedAt
	_, err := s.posts.InsertOne(ctx, post)
	return err
}

func (s *Store) GetPost(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	err := s.posts.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NotFound("post %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *Store) findPosts(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Post, error) {
	cursor, err := s.posts.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *Store) GetPostsByAuthor(ctx context.Context, authorID string) ([]models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return s.findPosts(ctx, bson.M{"author_id": authorID}, opts)
}

func (s *Store) GetPostsByAuthors(ctx context.Context, authorIDs []string, limit int) ([]models.Post, error) {
	if len(authorIDs) == 0 {
		return []models.Post{}, nil
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	return s.findPosts(ctx, bson.M{"author_id": bson.M{"$in": authorIDs}}, opts)
}

func (s *Store) GetReplies(ctx context.Context, postID string) ([]models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	return s.findPosts(ctx, bson.M{"reply_to_id": postID}, opts)
}

func (s *Store) DeletePost(ctx context.Context, id string) error {
	res, err := s.posts.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperrors.NotFound("post %s not found", id)
	}

	if _, err := s.likes.DeleteMany(ctx, bson.M{"post_id": id}); err != nil {
		return err
	}
	if _, err := s.shares.DeleteMany(ctx, bson.M{"post_id": id}); err != nil {
		return err
	}
	_, err = s.notifications.DeleteMany(ctx, bson.M{"post_id": id})
	return err
}

func (s *Store) AdjustPostCounter(ctx context.Context, postID string, counter storage.PostCounter, delta int) error {
	field := string(counter)
	// Pipeline update so the floor at zero happens server-side.
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			field:        bson.M{"$max": bson.A{0, bson.M{"$add": bson.A{"$" + field, delta}}}},
			"updated_at": time.Now().UTC(),
		}}},
	}
	res, err := s.posts.UpdateOne(ctx, bson.M{"_id": postID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("post %s not found", postID)
	}
	return nil
}

// === Follows ===

func (s *Store) upsertPair(ctx context.Context, coll *mongo.Collection, filter bson.M, doc bson.M) (bool, error) {
	update := bson.M{"$setOnInsert": doc}
	res, err := coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, err
	}
	return res.UpsertedCount > 0, nil
}

func (s *Store) CreateFollow(ctx context.Context, followerID, followingID string) (bool, error) {
	return s.upsertPair(ctx, s.follows,
		bson.M{"follower_id": followerID, "following_id": followingID},
		bson.M{"_id": uuid.NewString(), "follower_id": followerID, "following_id": followingID, "created_at": time.Now().UTC()},
	)
}

func (s *Store) DeleteFollow(ctx context.Context, followerID, followingID string) (bool, error) {
	res, err := s.follows.DeleteOne(ctx, bson.M{"follower_id": followerID, "following_id": followingID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (s *Store) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	count, err := s.follows.CountDocuments(ctx, bson.M{"follower_id": followerID, "following_id": followingID})
	return count > 0, err
}

func (s *Store) GetFollowingIDs(ctx context.Context, userID string) ([]string, error) {
	cursor, err := s.follows.Find(ctx, bson.M{"follower_id": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var edges []models.Follow
	if err := cursor.All(ctx, &edges); err != nil {
		return nil, err
	}
	ids := make([]string, len(edges))
	for i, e := range edges {
		ids[i] = e.FollowingID
	}
	return ids, nil
}

func (s *Store) usersByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	cursor, err := s.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) GetFollowers(ctx context.Context, userID string) ([]models.User, error) {
	cursor, err := s.follows.Find(ctx, bson.M{"following_id": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var edges []models.Follow
	if err := cursor.All(ctx, &edges); err != nil {
		return nil, err
	}
	ids := make([]string, len(edges))
	for i, e := range edges {
		ids[i] = e.FollowerID
	}
	return s.usersByIDs(ctx, ids)
}

func (s *Store) GetFollowing(ctx context.Context, userID string) ([]models.User, error) {
	ids, err := s.GetFollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.usersByIDs(ctx, ids)
}

// === Likes and shares ===

func (s *Store) CreateLike(ctx context.Context, userID, postID string) (bool, error) {
	return s.upsertPair(ctx, s.likes,
		bson.M{"user_id": userID, "post_id": postID},
		bson.M{"_id": uuid.NewString(), "user_id": userID, "post_id": postID, "created_at": time.Now().UTC()},
	)
}

func (s *Store) DeleteLike(ctx context.Context, userID, postID string) (bool, error) {
	res, err := s.likes.DeleteOne(ctx, bson.M{"user_id": userID, "post_id": postID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (s *Store) HasLiked(ctx context.Context, userID, postID string) (bool, error) {
	count, err := s.likes.CountDocuments(ctx, bson.M{"user_id": userID, "post_id": postID})
	return count > 0, err
}

func (s *Store) CreateShare(ctx context.Context, userID, postID string) (bool, error) {
	return s.upsertPair(ctx, s.shares,
		bson.M{"user_id": userID, "post_id": postID},
		bson.M{"_id": uuid.NewString(), "user_id": userID, "post_id": postID, "created_at": time.Now().UTC()},
	)
}

func (s *Store) DeleteShare(ctx context.Context, userID, postID string) (bool, error) {
	res, err := s.shares.DeleteOne(ctx, bson.M{"user_id": userID, "post_id": postID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (s *Store) HasShared(ctx context.Context, userID, postID string) (bool, error) {
	count, err := s.shares.CountDocuments(ctx, bson.M{"user_id": userID, "post_id": postID})
	return count > 0, err
}

func (s *Store) engagedPostIDs(ctx context.Context, coll *mongo.Collection, userID string, postIDs []string) (map[string]bool, error) {
	out := make(map[string]bool)
	if len(postIDs) == 0 {
		return out, nil
	}
	cursor, err := coll.Find(ctx, bson.M{"user_id": userID, "post_id": bson.M{"$in": postIDs}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		PostID string `bson:"post_id"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.PostID] = true
	}
	return out, nil
}

func (s *Store) GetLikedPostIDs(ctx context.Context, userID string, postIDs []string) (map[string]bool, error) {
	return s.engagedPostIDs(ctx, s.likes, userID, postIDs)
}

func (s *Store) GetSharedPostIDs(ctx context.Context, userID string, postIDs []string) (map[string]bool, error) {
	return s.engagedPostIDs(ctx, s.shares, userID, postIDs)
}

// === Notifications ===

func (s *Store) CreateNotification(ctx context.Context, n *models.Notification) error {
	n.ID = uuid.NewString()
	n.CreatedAt = time.Now().UTC()
	_, err := s.notifications.InsertOne(ctx, n)
	return err
}

func (s *Store) GetNotification(ctx context.Context, id string) (*models.Notification, error) {
	var n models.Notification
	err := s.notifications.FindOne(ctx, bson.M{"_id": id}).Decode(&n)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NotFound("notification %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *Store) GetNotifications(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := s.notifications.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	notifications := []models.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (s *Store) GetUnreadNotificationCount(ctx context.Context, userID string) (int64, error) {
	return s.notifications.CountDocuments(ctx, bson.M{"user_id": userID, "is_read": false})
}

func (s *Store) MarkNotificationRead(ctx context.Context, id string) error {
	res, err := s.notifications.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"is_read": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("notification %s not found", id)
	}
	return nil
}

func (s *Store) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	_, err := s.notifications.UpdateMany(ctx,
		bson.M{"user_id": userID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true}})
	return err
}

// === Verification requests ===

func (s *Store) CreateVerificationRequest(ctx context.Context, req *models.VerificationRequest) error {
	req.ID = uuid.NewString()
	req.Status = models.VerificationPending
	req.SubmittedAt = time.Now().UTC()
	_, err := s.verifications.InsertOne(ctx, req)
	return err
}

func (s *Store) findVerifications(ctx context.Context, filter bson.M, sortDir int) ([]models.VerificationRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submitted_at", Value: sortDir}})
	cursor, err := s.verifications.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	requests := []models.VerificationRequest{}
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (s *Store) GetVerificationRequests(ctx context.Context, userID string) ([]models.VerificationRequest, error) {
	return s.findVerifications(ctx, bson.M{"user_id": userID}, -1)
}

func (s *Store) GetPendingVerificationRequests(ctx context.Context) ([]models.VerificationRequest, error) {
	return s.findVerifications(ctx, bson.M{"status": models.VerificationPending}, 1)
}

func (s *Store) GetVerificationRequest(ctx context.Context, id string) (*models.VerificationRequest, error) {
	var req models.VerificationRequest
	err := s.verifications.FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NotFound("verification request %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (s *Store) UpdateVerificationRequest(ctx context.Context, id string, status models.VerificationStatus, adminNotes, reviewedBy string) error {
	res, err := s.verifications.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":      status,
		"admin_notes": adminNotes,
		"reviewed_by": reviewedBy,
		"reviewed_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("verification request %s not found", id)
	}
	return nil
}

// === One-time codes ===

func (s *Store) SaveOTP(ctx context.Context, otp *models.OTP) error {
	otp.ID = uuid.NewString()
	otp.CreatedAt = time.Now().UTC()
	_, err := s.otps.InsertOne(ctx, otp)
	return err
}

func (s *Store) GetActiveOTP(ctx context.Context, phone string) (*models.OTP, error) {
	filter := bson.M{
		"phone":      phone,
		"is_used":    false,
		"expires_at": bson.M{"$gt": time.Now().UTC()},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var otp models.OTP
	err := s.otps.FindOne(ctx, filter, opts).Decode(&otp)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NotFound("no active code for %s", phone)
	}
	if err != nil {
		return nil, err
	}
	return &otp, nil
}

func (s *Store) MarkOTPUsed(ctx context.Context, id string) error {
	res, err := s.otps.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"is_used": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("code %s not found", id)
	}
	return nil
}
