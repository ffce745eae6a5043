package application

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/profolio/internal/domain/entity"
	repo "github.com/oksasatya/profolio/internal/domain/repository"
	"github.com/oksasatya/profolio/internal/domain/rules"
	"github.com/oksasatya/profolio/pkg/apperror"
	"github.com/oksasatya/profolio/pkg/helpers"
	"github.com/oksasatya/profolio/pkg/validation"
)

const invalidCredentials = "Either the email/username or password is invalid"

type UserService struct {
	Repo      repo.UserRepository
	Hasher    PasswordHasher
	JWT       *helpers.JWTManager
	GCS       *storage.Client
	GCSBucket string
	Redis     *redis.Client
	Logger    *logrus.Logger
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func sessionKey(userID string) string {
	return helpers.CacheKey("user", "session", userID)
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func NewUserService(r repo.UserRepository, hasher PasswordHasher, jwt *helpers.JWTManager, gcs *storage.Client, gcsBucket string, rdb *redis.Client, logger *logrus.Logger) *UserService {
	if hasher == nil {
		hasher = helpers.NewBcryptHasher(0)
	}
	return &UserService{
		Repo:      r,
		Hasher:    hasher,
		JWT:       jwt,
		GCS:       gcs,
		GCSBucket: gcsBucket,
		Redis:     rdb,
		Logger:    logger,
	}
}

// Create registers a user. Username and email are stored lowercased and the
// returned user never carries the password hash.
func (s *UserService) Create(ctx context.Context, username, email, password string) (*entity.User, error) {
	username, err := rules.Username(username)
	if err != nil {
		return nil, err
	}
	if email, err = validation.Email(email, "Email"); err != nil {
		return nil, err
	}
	email = strings.ToLower(email)
	if password, err = validation.Password(password, "Password"); err != nil {
		return nil, err
	}

	if _, err := s.Repo.GetByUsername(ctx, username); err == nil {
		return nil, apperror.Conflict("Username already exists")
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, fromRepo(err, "User not found")
	}
	if _, err := s.Repo.GetByEmail(ctx, email); err == nil {
		return nil, apperror.Conflict("Email already exists")
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, fromRepo(err, "User not found")
	}

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindPersistence, "Could not hash password")
	}
	now := time.Now().UTC()
	u := &entity.User{
		ID:           primitive.NewObjectID(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		// a concurrent registration can still win the unique index
		var dup *repo.DuplicateError
		if errors.As(err, &dup) {
			if dup.Field == "email" {
				return nil, apperror.Conflict("Email already exists")
			}
			return nil, apperror.Conflict("Username already exists")
		}
		logEntry(s.Logger).WithError(err).Error("create user failed")
		return nil, apperror.Wrap(err, apperror.KindPersistence, "Could not add user")
	}
	return u.Public(), nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*entity.User, error) {
	oid, err := validation.ObjectID(id, "User id")
	if err != nil {
		return nil, err
	}
	u, err := s.Repo.GetByID(ctx, oid)
	if err != nil {
		return nil, fromRepo(err, "User not found")
	}
	return u.Public(), nil
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	name, err := validation.String(username, "Username")
	if err != nil {
		return nil, err
	}
	u, err := s.Repo.GetByUsername(ctx, strings.ToLower(name))
	if err != nil {
		return nil, fromRepo(err, "User not found")
	}
	return u.Public(), nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	e, err := validation.Email(email, "Email")
	if err != nil {
		return nil, err
	}
	u, err := s.Repo.GetByEmail(ctx, strings.ToLower(e))
	if err != nil {
		return nil, fromRepo(err, "User not found")
	}
	return u.Public(), nil
}

// CheckUser verifies credentials. Unknown logins and wrong passwords produce
// the same error.
func (s *UserService) CheckUser(ctx context.Context, login, password string) (*entity.User, error) {
	login, err := validation.String(login, "Email/username")
	if err != nil {
		return nil, err
	}
	if _, err := validation.String(password, "Password"); err != nil {
		return nil, err
	}
	u, err := s.Repo.GetByLogin(ctx, strings.ToLower(login))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, apperror.Unauthorized(invalidCredentials)
		}
		return nil, fromRepo(err, "User not found")
	}
	if !s.Hasher.Compare(u.PasswordHash, password) {
		return nil, apperror.Unauthorized(invalidCredentials)
	}
	return u.Public(), nil
}

// UpdateActivePortfolio sets the pointer unconditionally. Callers verify ownership.
func (s *UserService) UpdateActivePortfolio(ctx context.Context, userID, portfolioID string) (*entity.User, error) {
	uid, err := validation.ObjectID(userID, "User id")
	if err != nil {
		return nil, err
	}
	pid, err := validation.ObjectID(portfolioID, "Portfolio id")
	if err != nil {
		return nil, err
	}
	n, err := s.Repo.SetActivePortfolio(ctx, uid, pid)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindPersistence, "Could not update active portfolio")
	}
	if n == 0 {
		return nil, apperror.Persistence("Could not update active portfolio")
	}
	return s.GetByID(ctx, uid.Hex())
}

func (s *UserService) UpdateProfilePicture(ctx context.Context, userID, pictureID string) (*entity.User, error) {
	uid, err := validation.ObjectID(userID, "User id")
	if err != nil {
		return nil, err
	}
	pid, err := validation.ObjectID(pictureID, "Picture id")
	if err != nil {
		return nil, err
	}
	n, err := s.Repo.UpdateProfilePicture(ctx, uid, pid)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindPersistence, "Could not update profile picture")
	}
	if n == 0 {
		return nil, apperror.Persistence("Could not update profile picture")
	}
	return s.GetByID(ctx, uid.Hex())
}

// UploadProfilePicture stores the image in GCS under a fresh picture id and
// points the user at it. It returns the public URL.
func (s *UserService) UploadProfilePicture(ctx context.Context, userID string, r io.Reader, filename, contentType string) (string, *entity.User, error) {
	u, err := s.GetByID(ctx, userID)
	if err != nil {
		return "", nil, err
	}
	if s.GCS == nil || s.GCSBucket == "" {
		return "", nil, apperror.Persistence("Picture storage is not configured")
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", nil, apperror.Validation("Profile picture must be an image")
	}
	pic := primitive.NewObjectID()
	objectPath := helpers.PictureObjectPath(u.ID.Hex(), pic.Hex(), filename)
	url, err := helpers.PutImage(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		logEntry(s.Logger).WithError(err).WithField("user_id", u.ID.Hex()).Error("upload profile picture failed")
		return "", nil, apperror.Wrap(err, apperror.KindPersistence, "Could not upload profile picture")
	}
	updated, err := s.UpdateProfilePicture(ctx, u.ID.Hex(), pic.Hex())
	if err != nil {
		return "", nil, err
	}
	return url, updated, nil
}

// Remove deletes the user record only; portfolios are removed by the caller.
func (s *UserService) Remove(ctx context.Context, userID string) error {
	uid, err := validation.ObjectID(userID, "User id")
	if err != nil {
		return err
	}
	n, err := s.Repo.Delete(ctx, uid)
	if err != nil {
		return apperror.Wrap(err, apperror.KindPersistence, "Could not delete user")
	}
	if n == 0 {
		return apperror.Persistence("Could not delete user")
	}
	if s.Redis != nil {
		if err := s.Redis.Del(ctx, sessionKey(uid.Hex())).Err(); err != nil {
			logEntry(s.Logger).WithError(err).WithField("user_id", uid.Hex()).Warn("session delete failed")
		}
	}
	return nil
}

// IssueTokens generates access/refresh tokens and records a session in Redis.
func (s *UserService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	uid := u.ID.Hex()
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(uid, sid)
	if err != nil {
		logEntry(s.Logger).WithError(err).WithField("user_id", uid).Error("generate access token failed")
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(uid, sid)
	if err != nil {
		logEntry(s.Logger).WithError(err).WithField("user_id", uid).Error("generate refresh token failed")
		return TokenPair{}, err
	}

	if s.Redis != nil {
		fields := map[string]any{
			"user_id":    uid,
			"username":   u.Username,
			"email":      u.Email,
			"sid":        sid,
			"created_at": nowRFC3339(),
		}
		key := sessionKey(uid)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, s.JWT.RefreshTTL)
		if _, rErr := pipe.Exec(ctx); rErr != nil {
			logEntry(s.Logger).WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}

	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

func (s *UserService) Login(ctx context.Context, login, password string) (*entity.User, TokenPair, error) {
	u, err := s.CheckUser(ctx, login, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, apperror.Wrap(err, apperror.KindPersistence, "Could not start session")
	}
	return u, pair, nil
}

// Refresh rotates the session id and both tokens. The refresh token must
// belong to the session currently stored for the user.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (TokenPair, string, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, "", apperror.Unauthorized("Invalid refresh token")
	}
	u, err := s.GetByID(ctx, claims.UserID)
	if err != nil {
		return TokenPair{}, "", apperror.Unauthorized("Invalid refresh token")
	}
	if s.Redis != nil {
		sid, rErr := s.Redis.HGet(ctx, sessionKey(claims.UserID), "sid").Result()
		if rErr != nil || sid != claims.SessionID {
			return TokenPair{}, "", apperror.Unauthorized("Session expired")
		}
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return TokenPair{}, "", apperror.Wrap(err, apperror.KindPersistence, "Could not start session")
	}
	return pair, claims.UserID, nil
}

// SessionActive reports whether sid is the current session for userID.
// Without Redis every signed token is accepted.
func (s *UserService) SessionActive(ctx context.Context, userID, sid string) bool {
	if s.Redis == nil {
		return true
	}
	cur, err := s.Redis.HGet(ctx, sessionKey(userID), "sid").Result()
	return err == nil && cur == sid
}

func (s *UserService) Logout(ctx context.Context, userID string) {
	if s.Redis == nil || userID == "" {
		return
	}
	if err := s.Redis.Del(ctx, sessionKey(userID)).Err(); err != nil {
		logEntry(s.Logger).WithError(err).WithField("user_id", userID).Warn("session delete failed")
	}
}
