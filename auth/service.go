package auth

import (
	"errors"
	"net/mail"
	"time"

	"github.com/DeePham/ai-image-app/config"
	"github.com/DeePham/ai-image-app/models"
	"github.com/go-pkgz/auth/v2"
	"github.com/go-pkgz/auth/v2/avatar"
	"github.com/go-pkgz/auth/v2/provider"
	"github.com/go-pkgz/auth/v2/token"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrWrongPassword reports a change-password attempt with a bad old password.
var ErrWrongPassword = errors.New("old password is incorrect")

// Service wraps the go-pkgz auth token service around the users table.
// ChangePassword is a required operation of the identity layer, not an
// optional method probed at runtime.
type Service struct {
	db   *gorm.DB
	auth *auth.Service
}

func NewService(db *gorm.DB) *Service {
	s := &Service{db: db}

	options := auth.Opts{
		SecretReader: token.SecretFunc(func(id string) (string, error) {
			return config.Config("JWT_SECRET"), nil
		}),
		TokenDuration:  time.Hour * 24,
		CookieDuration: time.Hour * 24 * 7,
		Issuer:         "ai-image-app",
		URL:            config.ConfigDefault("APP_URL", "http://localhost:3000"),
		AvatarStore:    avatar.NewLocalFS("/tmp/avatars"),
	}

	s.auth = auth.NewService(options)
	s.auth.AddDirectProvider("local", provider.CredCheckerFunc(func(identity, password string) (bool, error) {
		user, err := s.FindUser(identity)
		if err != nil || user == nil {
			return false, err
		}
		return checkPasswordHash(password, user.Password), nil
	}))

	return s
}

// TokenService exposes the JWT mint/parse service for handlers and
// middleware.
func (s *Service) TokenService() *token.Service {
	return s.auth.TokenService()
}

// FindUser looks a user up by email or username. A missing user is (nil,
// nil), not an error.
func (s *Service) FindUser(identity string) (*models.User, error) {
	column := "username"
	if isEmail(identity) {
		column = "email"
	}

	var user models.User
	if err := s.db.Where(column+" = ?", identity).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Register creates a user with a bcrypt-hashed password.
func (s *Service) Register(email, username, fullName, password string) (*models.User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:    email,
		Username: username,
		FullName: fullName,
		Password: hash,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

// Verify checks credentials and returns the user on success, nil otherwise.
func (s *Service) Verify(identity, password string) (*models.User, error) {
	user, err := s.FindUser(identity)
	if err != nil || user == nil {
		return nil, err
	}
	if !checkPasswordHash(password, user.Password) {
		return nil, nil
	}
	return user, nil
}

// ChangePassword verifies the old password before storing the new hash.
func (s *Service) ChangePassword(userID uint, oldPassword, newPassword string) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return err
	}

	if !checkPasswordHash(oldPassword, user.Password) {
		return ErrWrongPassword
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.db.Model(&user).Update("password", hash).Error
}

// UpdateAvatar records the uploaded avatar URL on the user row.
func (s *Service) UpdateAvatar(userID uint, avatarURL string) error {
	return s.db.Model(&models.User{}).Where("id = ?", userID).Update("avatar_url", avatarURL).Error
}

// GetUser fetches a user by id.
func (s *Service) GetUser(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	return string(hashed), err
}

func checkPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func isEmail(identity string) bool {
	_, err := mail.ParseAddress(identity)
	return err == nil
}
