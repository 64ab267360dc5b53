package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fintrack/internal/domain"
	"fintrack/internal/repository"
)

func TestRegister(t *testing.T) {
	store := newTestStore(t)
	users := newTestUsers(t, store, nil)

	user, err := users.Register(context.Background(), registerInput("ada", "ada@example.com"))
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "Ada", user.FirstName)
	assert.Equal(t, "Lovelace", user.LastName)
	assert.Equal(t, "+2348031234567", user.Phone)
	assert.Equal(t, domain.DefaultProfilePic, user.ProfilePic)
	assert.Zero(t, user.Balance)
	assert.Empty(t, user.PasswordHash, "hash is never returned")

	stored, err := store.Users().GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", stored.PasswordHash)
	assert.True(t, strings.HasPrefix(stored.PasswordHash, "$2"))
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	users := newTestUsers(t, store, nil)
	first := mustRegister(t, users, "ada", "ada@example.com")

	_, err := users.Register(ctx, registerInput("other", "ada@example.com"))
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = store.Users().GetByUsername(ctx, "other")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	byEmail, err := store.Users().GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, byEmail.ID)
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	users := newTestUsers(t, newTestStore(t), nil)
	mustRegister(t, users, "ada", "ada@example.com")

	_, err := users.Register(context.Background(), registerInput("ada", "second@example.com"))
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestRegisterValidation(t *testing.T) {
	users := newTestUsers(t, newTestStore(t), nil)

	mutations := map[string]func(*RegisterInput){
		"first_name": func(in *RegisterInput) { in.FirstName = " " },
		"last_name":  func(in *RegisterInput) { in.LastName = "" },
		"username":   func(in *RegisterInput) { in.Username = "" },
		"email":      func(in *RegisterInput) { in.Email = "not-an-email" },
		"password":   func(in *RegisterInput) { in.Password = "short" },
		"phone":      func(in *RegisterInput) { in.Phone = "12" },
	}
	for field, mutate := range mutations {
		t.Run(field, func(t *testing.T) {
			in := registerInput("ada", "ada@example.com")
			mutate(&in)
			_, err := users.Register(context.Background(), in)
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
			assert.Equal(t, field, ve.Field)
		})
	}
}

func TestRegisterRejectsOverlongFields(t *testing.T) {
	store := newTestStore(t)
	users := newTestUsers(t, store, nil)

	mutations := map[string]func(*RegisterInput){
		"username":   func(in *RegisterInput) { in.Username = strings.Repeat("u", domain.MaxUsernameLength+1) },
		"first_name": func(in *RegisterInput) { in.FirstName = strings.Repeat("é", domain.MaxNameLength+1) },
		"last_name":  func(in *RegisterInput) { in.LastName = strings.Repeat("l", domain.MaxNameLength+1) },
		"email": func(in *RegisterInput) {
			in.Email = strings.Repeat("a", domain.MaxEmailLength) + "@example.com"
		},
	}
	for field, mutate := range mutations {
		t.Run(field, func(t *testing.T) {
			in := registerInput("ada", "ada@example.com")
			mutate(&in)
			_, err := users.Register(context.Background(), in)
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
			assert.Equal(t, field, ve.Field)
		})
	}

	_, err := store.Users().GetByEmail(context.Background(), "ada@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	in := registerInput(strings.Repeat("u", domain.MaxUsernameLength), "ada@example.com")
	_, err = users.Register(context.Background(), in)
	assert.NoError(t, err)
}

func TestRegisterLongPictureNameFitsColumn(t *testing.T) {
	files := newTestFiles(t)
	users := newTestUsers(t, newTestStore(t), files)

	in := registerInput("ada", "ada@example.com")
	in.Picture = &Upload{Filename: strings.Repeat("p", 400) + ".png", Body: strings.NewReader("png")}
	user, err := users.Register(context.Background(), in)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(user.ProfilePic), domain.MaxProfilePicLength)
	assert.True(t, strings.HasSuffix(user.ProfilePic, ".png"))
}

func TestUpdateProfileRejectsOverlongName(t *testing.T) {
	store := newTestStore(t)
	users := newTestUsers(t, store, nil)
	user := mustRegister(t, users, "ada", "ada@example.com")

	_, err := users.UpdateProfile(context.Background(), user.ID, ProfileInput{
		FirstName: strings.Repeat("a", domain.MaxNameLength+1),
		LastName:  "lovelace",
		Email:     "ada@example.com",
		Phone:     "08031234567",
	})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "got %v", err)
	assert.Equal(t, "first_name", ve.Field)

	stored, err := store.Users().GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", stored.FirstName)
}

func TestRegisterStoresPicture(t *testing.T) {
	files := newTestFiles(t)
	users := newTestUsers(t, newTestStore(t), files)

	in := registerInput("ada", "ada@example.com")
	in.Picture = &Upload{Filename: "my face.png", ContentType: "image/png", Body: strings.NewReader("png")}
	user, err := users.Register(context.Background(), in)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(user.ProfilePic, "profile/"))
	assert.True(t, strings.HasSuffix(user.ProfilePic, "_my_face.png"))
	data, err := os.ReadFile(filepath.Join(files.Root(), filepath.FromSlash(user.ProfilePic)))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))
}

func TestRegisterDiscardsPictureOnConflict(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	mustRegister(t, newTestUsers(t, store, nil), "ada", "ada@example.com")

	files := &mockFiles{}
	files.On("Put", mock.Anything, mock.AnythingOfType("string"), mock.Anything, "image/png").Return(nil).Once()
	files.On("Delete", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "profile/") && strings.HasSuffix(key, "_me.png")
	})).Return(nil).Once()
	users := newTestUsers(t, store, files)

	in := registerInput("ada", "new@example.com")
	in.Picture = &Upload{Filename: "me.png", ContentType: "image/png", Body: strings.NewReader("png")}
	_, err := users.Register(ctx, in)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
	files.AssertExpectations(t)
}

func TestAuthenticateHidesWhichPartFailed(t *testing.T) {
	ctx := context.Background()
	users := newTestUsers(t, newTestStore(t), nil)
	registered := mustRegister(t, users, "ada", "ada@example.com")

	user, err := users.Authenticate(ctx, "ada", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.Empty(t, user.PasswordHash)

	_, wrongPassword := users.Authenticate(ctx, "ada", "wrong password")
	_, unknownUser := users.Authenticate(ctx, "nobody", "correct horse")
	_, byEmail := users.Authenticate(ctx, "ada@example.com", "correct horse")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, ErrInvalidCredentials)
	assert.ErrorIs(t, byEmail, ErrInvalidCredentials, "login is by username only")
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	files := newTestFiles(t)
	users := newTestUsers(t, newTestStore(t), files)
	user := mustRegister(t, users, "ada", "ada@example.com")
	mustRegister(t, users, "grace", "grace@example.com")

	_, err := users.UpdateProfile(ctx, user.ID, ProfileInput{
		FirstName: "Ada", LastName: "King", Email: "grace@example.com", Phone: "08031234567",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)

	updated, err := users.UpdateProfile(ctx, user.ID, ProfileInput{
		FirstName: "augusta",
		LastName:  "king",
		Email:     "countess@example.com",
		Phone:     "+44 20 7031 3000",
		Picture:   &Upload{Filename: "new.png", Body: strings.NewReader("img")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Augusta", updated.FirstName)
	assert.Equal(t, "King", updated.LastName)
	assert.Equal(t, "countess@example.com", updated.Email)
	assert.Equal(t, "+442070313000", updated.Phone)
	assert.Equal(t, "profile/"+user.ID+"_new.png", updated.ProfilePic)
	assert.Equal(t, "ada", updated.Username)

	got, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.Email, got.Email)
	assert.Equal(t, updated.ProfilePic, got.ProfilePic)

	_, err = users.UpdateProfile(ctx, "", ProfileInput{})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDeleteUserRemovesTransactions(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	users := newTestUsers(t, store, nil)
	txns := NewTransactionService(store)

	user := mustRegister(t, users, "ada", "ada@example.com")
	other := mustRegister(t, users, "grace", "grace@example.com")
	for i := 0; i < 3; i++ {
		_, err := txns.Create(ctx, user.ID, income(int64(10*(i+1))))
		require.NoError(t, err)
	}
	_, err := txns.Create(ctx, other.ID, income(5))
	require.NoError(t, err)

	assert.ErrorIs(t, users.Delete(ctx, other.ID, user.ID), ErrForbidden)

	require.NoError(t, users.Delete(ctx, user.ID, user.ID))

	_, err = users.GetByID(ctx, user.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	orphans, err := store.Transactions().ListByUser(ctx, user.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, orphans)

	kept, err := store.Transactions().ListByUser(ctx, other.ID, 0)
	require.NoError(t, err)
	assert.Len(t, kept, 1)

	assert.ErrorIs(t, users.Delete(ctx, user.ID, user.ID), repository.ErrNotFound)
}
