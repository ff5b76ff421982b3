package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/plantlife/plantlife-backend/internal/apperrors"
	"github.com/plantlife/plantlife-backend/internal/models"
	"github.com/plantlife/plantlife-backend/internal/storage"
)

// Store implements storage.Storage on PostgreSQL via GORM.
type Store struct {
	db *gorm.DB
}

// New creates the store and migrates the schema.
func New(db *gorm.DB) (*Store, error) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Follow{},
		&models.Like{},
		&models.Share{},
		&models.Notification{},
		&models.VerificationRequest{},
		&models.OTP{},
	)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func notFound(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(format, args...)
	}
	return err
}

// === Users ===

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("phone = ?", user.Phone).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperrors.Conflict("phone %s is already registered", user.Phone)
	}
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", user.Username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperrors.Conflict("username %s is already taken", user.Username)
	}

	user.ID = uuid.NewString()
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *Store) UpsertUser(ctx context.Context, user *models.User) (*models.User, error) {
	var existing models.User
	err := s.db.WithContext(ctx).Where("phone = ?", user.Phone).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := s.CreateUser(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	}
	if err != nil {
		return nil, err
	}

	existing.FirstName = user.FirstName
	existing.LastName = user.LastName
	if user.Username != "" {
		existing.Username = user.Username
	}
	if user.Email != "" {
		existing.Email = user.Email
	}
	if user.AccountType != "" {
		existing.AccountType = user.AccountType
	}
	if err := s.db.WithContext(ctx).Save(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "user %s not found", id)
	}
	return &user, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, notFound(err, "user %s not found", username)
	}
	return &user, nil
}

func (s *Store) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("phone = ?", phone).First(&user).Error; err != nil {
		return nil, notFound(err, "no user with phone %s", phone)
	}
	return &user, nil
}

func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	res := s.db.WithContext(ctx).Save(user)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("user %s not found", user.ID)
	}
	return nil
}

func (s *Store) SearchUsers(ctx context.Context, query string, limit int) ([]models.User, error) {
	var users []models.User
	pattern := "%" + query + "%"
	err := s.db.WithContext(ctx).
		Where("LOWER(username) LIKE LOWER(?) OR LOWER(first_name) LIKE LOWER(?) OR LOWER(last_name) LIKE LOWER(?)", pattern, pattern, pattern).
		Order("username ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

func (s *Store) RecomputeUserCounters(ctx context.Context, userID string) error {
	var followers, following, posts int64
	db := s.db.WithContext(ctx)
	if err := db.Model(&models.Follow{}).Where("following_id = ?", userID).Count(&followers).Error; err != nil {
		return err
	}
	if err := db.Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&following).Error; err != nil {
		return err
	}
	if err := db.Model(&models.Post{}).Where("author_id = ?", userID).Count(&posts).Error; err != nil {
		return err
	}

	res := db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]any{
		"followers_count": followers,
		"following_count": following,
		"posts_count":     posts,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("user %s not found", userID)
	}
	return nil
}

// === Posts ===

func (s *Store) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = uuid.NewString()
	return s.db.WithContext(ctx).Create(post).Error
}

func (s *Store) GetPost(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "post %s not found", id)
	}
	return &post, nil
}

func (s *Store) GetPostsByAuthor(ctx context.Context, authorID string) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&posts).Error
	return posts, err
}

func (s *Store) GetPostsByAuthors(ctx context.Context, authorIDs []string, limit int) ([]models.Post, error) {
	if len(authorIDs) == 0 {
		return []models.Post{}, nil
	}
	var posts []models.Post
	err := s.db.WithContext(ctx).
		Where("author_id IN ?", authorIDs).
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (s *Store) GetReplies(ctx context.Context, postID string) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.WithContext(ctx).
		Where("reply_to_id = ?", postID).
		Order("created_at ASC").
		Find(&posts).Error
	return posts, err
}

func (s *Store) DeletePost(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Post{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.NotFound("post %s not found", id)
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Share{}).Error; err != nil {
			return err
		}
		return tx.Where("post_id = ?", id).Delete(&models.Notification{}).Error
	})
}

func (s *Store) AdjustPostCounter(ctx context.Context, postID string, counter storage.PostCounter, delta int) error {
	column := string(counter)
	res := s.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", postID).
		UpdateColumn(column, gorm.Expr("GREATEST("+column+" + ?, 0)", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("post %s not found", postID)
	}
	return nil
}

// === Follows ===

func (s *Store) CreateFollow(ctx context.Context, followerID, followingID string) (bool, error) {
	follow := models.Follow{
		ID:          uuid.NewString(),
		FollowerID:  followerID,
		FollowingID: followingID,
		CreatedAt:   time.Now().UTC(),
	}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "follower_id"}, {Name: "following_id"}},
			DoNothing: true,
		}).
		Create(&follow)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *Store) DeleteFollow(ctx context.Context, followerID, followingID string) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *Store) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, err
}

func (s *Store) GetFollowingIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Pluck("following_id", &ids).Error
	return ids, err
}

func (s *Store) GetFollowers(ctx context.Context, userID string) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).Where("id IN (?)",
		s.db.Model(&models.Follow{}).Select("follower_id").Where("following_id = ?", userID),
	).Find(&users).Error
	return users, err
}

func (s *Store) GetFollowing(ctx context.Context, userID string) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).Where("id IN (?)",
		s.db.Model(&models.Follow{}).Select("following_id").Where("follower_id = ?", userID),
	).Find(&users).Error
	return users, err
}

// === Likes and shares ===

func (s *Store) CreateLike(ctx context.Context, userID, postID string) (bool, error) {
	like := models.Like{ID: uuid.NewString(), UserID: userID, PostID: postID, CreatedAt: time.Now().UTC()}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
			DoNothing: true,
		}).
		Create(&like)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *Store) DeleteLike(ctx context.Context, userID, postID string) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *Store) HasLiked(ctx context.Context, userID, postID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	return count > 0, err
}

func (s *Store) CreateShare(ctx context.Context, userID, postID string) (bool, error) {
	share := models.Share{ID: uuid.NewString(), UserID: userID, PostID: postID, CreatedAt: time.Now().UTC()}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
			DoNothing: true,
		}).
		Create(&share)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *Store) DeleteShare(ctx context.Context, userID, postID string) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Share{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *Store) HasShared(ctx context.Context, userID, postID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Share{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	return count > 0, err
}

func (s *Store) GetLikedPostIDs(ctx context.Context, userID string, postIDs []string) (map[string]bool, error) {
	out := make(map[string]bool)
	if len(postIDs) == 0 {
		return out, nil
	}
	var ids []string
	err := s.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

func (s *Store) GetSharedPostIDs(ctx context.Context, userID string, postIDs []string) (map[string]bool, error) {
	out := make(map[string]bool)
	if len(postIDs) == 0 {
		return out, nil
	}
	var ids []string
	err := s.db.WithContext(ctx).Model(&models.Share{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

// === Notifications ===

func (s *Store) CreateNotification(ctx context.Context, n *models.Notification) error {
	n.ID = uuid.NewString()
	return s.db.WithContext(ctx).Create(n).Error
}

func (s *Store) GetNotification(ctx context.Context, id string) (*models.Notification, error) {
	var n models.Notification
	if err := s.db.WithContext(ctx).First(&n, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "notification %s not found", id)
	}
	return &n, nil
}

func (s *Store) GetNotifications(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

func (s *Store) GetUnreadNotificationCount(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = false", userID).
		Count(&count).Error
	return count, err
}

func (s *Store) MarkNotificationRead(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ?", id).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("notification %s not found", id)
	}
	return nil
}

func (s *Store) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	return s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = false", userID).
		Update("is_read", true).Error
}

// === Verification requests ===

func (s *Store) CreateVerificationRequest(ctx context.Context, req *models.VerificationRequest) error {
	req.ID = uuid.NewString()
	req.Status = models.VerificationPending
	req.SubmittedAt = time.Now().UTC()
	return s.db.WithContext(ctx).Create(req).Error
}

func (s *Store) GetVerificationRequests(ctx context.Context, userID string) ([]models.VerificationRequest, error) {
	var requests []models.VerificationRequest
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("submitted_at DESC").
		Find(&requests).Error
	return requests, err
}

func (s *Store) GetPendingVerificationRequests(ctx context.Context) ([]models.VerificationRequest, error) {
	var requests []models.VerificationRequest
	err := s.db.WithContext(ctx).
		Where("status = ?", models.VerificationPending).
		Order("submitted_at ASC").
		Find(&requests).Error
	return requests, err
}

func (s *Store) GetVerificationRequest(ctx context.Context, id string) (*models.VerificationRequest, error) {
	var req models.VerificationRequest
	if err := s.db.WithContext(ctx).First(&req, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "verification request %s not found", id)
	}
	return &req, nil
}

func (s *Store) UpdateVerificationRequest(ctx context.Context, id string, status models.VerificationStatus, adminNotes, reviewedBy string) error {
	res := s.db.WithContext(ctx).Model(&models.VerificationRequest{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":      status,
			"admin_notes": adminNotes,
			"reviewed_by": reviewedBy,
			"reviewed_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("verification request %s not found", id)
	}
	return nil
}

// === One-time codes ===

func (s *Store) SaveOTP(ctx context.Context, otp *models.OTP) error {
	otp.ID = uuid.NewString()
	return s.db.WithContext(ctx).Create(otp).Error
}

func (s *Store) GetActiveOTP(ctx context.Context, phone string) (*models.OTP, error) {
	var otp models.OTP
	err := s.db.WithContext(ctx).
		Where("phone = ? AND is_used = false AND expires_at > ?", phone, time.Now().UTC()).
		Order("created_at DESC").
		First(&otp).Error
	if err != nil {
		return nil, notFound(err, "no active code for %s", phone)
	}
	return &otp, nil
}

func (s *Store) MarkOTPUsed(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Model(&models.OTP{}).
		Where("id = ?", id).
		Update("is_used", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("code %s not found", id)
	}
	return nil
}
