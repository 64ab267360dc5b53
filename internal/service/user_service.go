package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"fintrack/internal/domain"
	"fintrack/internal/phone"
	"fintrack/internal/repository"
	"fintrack/internal/storage"
)

const minPasswordLength = 8

// Upload is a file received from a form.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// RegisterInput holds the registration form values.
type RegisterInput struct {
	FirstName string
	LastName  string
	Username  string
	Email     string
	Phone     string
	Password  string
	Picture   *Upload
}

// ProfileInput holds the editable profile fields.
type ProfileInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Picture   *Upload
}

// UserService describes user lifecycle operations.
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	UpdateProfile(ctx context.Context, actorID string, in ProfileInput) (*domain.User, error)
	Delete(ctx context.Context, actorID, userID string) error
}

type UserServiceConfig struct {
	// PhoneRegion is the region assumed for numbers without a country code.
	PhoneRegion string
	Logger      *logrus.Logger
}

type userService struct {
	store     repository.Store
	files     storage.Service
	region    string
	logger    *logrus.Logger
	// dummyHash keeps unknown-user logins as slow as wrong-password ones.
	dummyHash []byte
}

func NewUserService(store repository.Store, files storage.Service, cfg UserServiceConfig) UserService {
	if cfg.PhoneRegion == "" {
		cfg.PhoneRegion = phone.DefaultRegion
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("fintrack-dummy-password"), bcrypt.DefaultCost)
	return &userService{
		store:     store,
		files:     files,
		region:    cfg.PhoneRegion,
		logger:    cfg.Logger,
		dummyHash: dummy,
	}
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	password := strings.TrimSpace(in.Password)
	firstName := strings.TrimSpace(in.FirstName)
	lastName := strings.TrimSpace(in.LastName)

	switch {
	case firstName == "":
		return nil, invalid("first_name", "is required")
	case lastName == "":
		return nil, invalid("last_name", "is required")
	case username == "":
		return nil, invalid("username", "is required")
	case email == "":
		return nil, invalid("email", "is required")
	case password == "":
		return nil, invalid("password", "is required")
	case len(password) < minPasswordLength:
		return nil, invalid("password", "must be at least %d characters", minPasswordLength)
	}
	if err := checkLengths(
		lengthRule{"first_name", firstName, domain.MaxNameLength},
		lengthRule{"last_name", lastName, domain.MaxNameLength},
		lengthRule{"username", username, domain.MaxUsernameLength},
		lengthRule{"email", email, domain.MaxEmailLength},
	); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	normalized, err := s.normalizePhone(in.Phone)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.Users().GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		FirstName:    titleCase(firstName),
		LastName:     titleCase(lastName),
		Email:        email,
		Phone:        normalized,
		ProfilePic:   domain.DefaultProfilePic,
		PasswordHash: string(hash),
	}

	if in.Picture != nil {
		key, err := s.storePicture(ctx, uuid.NewString(), in.Picture)
		if err != nil {
			return nil, err
		}
		user.ProfilePic = key
	}

	if err := s.store.Users().Create(ctx, user); err != nil {
		s.discardPicture(ctx, user)
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}

	return sanitizeUser(user), nil
}

func (s *userService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.store.Users().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return sanitizeUser(user), nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) UpdateProfile(ctx context.Context, actorID string, in ProfileInput) (*domain.User, error) {
	if actorID == "" {
		return nil, ErrForbidden
	}
	user, err := s.store.Users().GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	firstName := strings.TrimSpace(in.FirstName)
	lastName := strings.TrimSpace(in.LastName)
	email := strings.TrimSpace(in.Email)
	switch {
	case firstName == "":
		return nil, invalid("first_name", "is required")
	case lastName == "":
		return nil, invalid("last_name", "is required")
	case email == "":
		return nil, invalid("email", "is required")
	}
	if err := checkLengths(
		lengthRule{"first_name", firstName, domain.MaxNameLength},
		lengthRule{"last_name", lastName, domain.MaxNameLength},
		lengthRule{"email", email, domain.MaxEmailLength},
	); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	normalized, err := s.normalizePhone(in.Phone)
	if err != nil {
		return nil, err
	}

	if email != user.Email {
		other, err := s.store.Users().GetByEmail(ctx, email)
		switch {
		case err == nil && other.ID != user.ID:
			return nil, ErrEmailTaken
		case err != nil && !errors.Is(err, repository.ErrNotFound):
			return nil, err
		}
	}

	previousPic := user.ProfilePic
	user.FirstName = titleCase(firstName)
	user.LastName = titleCase(lastName)
	user.Email = email
	user.Phone = normalized

	if in.Picture != nil {
		key, err := s.storePicture(ctx, user.ID, in.Picture)
		if err != nil {
			return nil, err
		}
		user.ProfilePic = key
	}

	if err := s.store.Users().UpdateProfile(ctx, user); err != nil {
		if user.ProfilePic != previousPic {
			s.discardPicture(ctx, user)
		}
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	if previousPic != user.ProfilePic {
		s.discardPicture(ctx, &domain.User{ID: user.ID, ProfilePic: previousPic})
	}
	return sanitizeUser(user), nil
}

// Delete removes the account and every transaction it owns.
func (s *userService) Delete(ctx context.Context, actorID, userID string) error {
	if actorID == "" || actorID != userID {
		return ErrForbidden
	}

	var removed domain.User
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		user, err := tx.Users().GetByID(ctx, userID)
		if err != nil {
			return err
		}
		n, err := tx.Transactions().DeleteByUser(ctx, userID)
		if err != nil {
			return err
		}
		if err := tx.Users().Delete(ctx, userID); err != nil {
			return err
		}
		removed = *user
		s.logger.WithFields(logrus.Fields{
			"user_id":      userID,
			"transactions": n,
		}).Info("user deleted")
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	s.discardPicture(ctx, &removed)
	return nil
}

func (s *userService) normalizePhone(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", invalid("phone", "is required")
	}
	normalized, err := phone.Normalize(raw, s.region)
	if err != nil {
		return "", invalid("phone", "%v", err)
	}
	return normalized, nil
}

func (s *userService) storePicture(ctx context.Context, prefix string, pic *Upload) (string, error) {
	if s.files == nil {
		return "", fmt.Errorf("storage service not configured")
	}
	key := "profile/" + prefix
	if name := storage.SanitizeFilename(pic.Filename); name != "" {
		key += "_" + name
	}
	if len(key) > domain.MaxProfilePicLength {
		return "", invalid("profile_pic", "file name is too long")
	}
	if err := s.files.Put(ctx, key, pic.Body, pic.ContentType); err != nil {
		return "", fmt.Errorf("store profile picture: %w", err)
	}
	return key, nil
}

func (s *userService) discardPicture(ctx context.Context, user *domain.User) {
	if s.files == nil || !user.HasCustomPicture() {
		return
	}
	if err := s.files.Delete(ctx, user.ProfilePic); err != nil {
		s.logger.WithField("user_id", user.ID).Warnf("remove profile picture: %v", err)
	}
}

type lengthRule struct {
	field string
	value string
	max   int
}

// checkLengths enforces the column widths, counted in characters.
func checkLengths(rules ...lengthRule) error {
	for _, r := range rules {
		if utf8.RuneCountInString(r.value) > r.max {
			return invalid(r.field, "must be at most %d characters", r.max)
		}
	}
	return nil
}

// titleCase builds a Caser per call; Casers are not safe for concurrent use.
func titleCase(s string) string {
	return cases.Title(language.Und).String(s)
}

func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return invalid("email", "is not a valid address")
	}
	return nil
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	clean := *user
	clean.PasswordHash = ""
	return &clean
}
