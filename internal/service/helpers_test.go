package service

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fintrack/internal/domain"
	"fintrack/internal/repository"
	"fintrack/internal/repository/sqlstore"
	"fintrack/internal/storage"
)

func newTestStore(t *testing.T) repository.Store {
	t.Helper()
	db, err := sqlstore.Open(sqlstore.DriverSQLite, filepath.Join(t.TempDir(), "fintrack.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlstore.NewStore(db)
}

func newTestFiles(t *testing.T) *storage.LocalService {
	t.Helper()
	files, err := storage.NewLocalService(filepath.Join(t.TempDir(), "uploads"), "")
	require.NoError(t, err)
	return files
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestUsers(t *testing.T, store repository.Store, files storage.Service) UserService {
	t.Helper()
	return NewUserService(store, files, UserServiceConfig{Logger: quietLogger()})
}

func registerInput(username, email string) RegisterInput {
	return RegisterInput{
		FirstName: "ada",
		LastName:  "lovelace",
		Username:  username,
		Email:     email,
		Phone:     "08031234567",
		Password:  "correct horse",
	}
}

func mustRegister(t *testing.T, users UserService, username, email string) *domain.User {
	t.Helper()
	user, err := users.Register(context.Background(), registerInput(username, email))
	require.NoError(t, err)
	return user
}

// mockFiles is a testify mock of storage.Service.
type mockFiles struct {
	mock.Mock
}

func (m *mockFiles) Put(ctx context.Context, key string, body io.Reader, contentType string) error {
	args := m.Called(ctx, key, body, contentType)
	return args.Error(0)
}

func (m *mockFiles) URL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *mockFiles) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// failingBalanceStore fails every balance write made inside a transaction.
type failingBalanceStore struct {
	repository.Store
	err error
}

func (s failingBalanceStore) WithinTx(ctx context.Context, fn func(repository.Store) error) error {
	return s.Store.WithinTx(ctx, func(tx repository.Store) error {
		return fn(failingBalanceTx{Store: tx, err: s.err})
	})
}

type failingBalanceTx struct {
	repository.Store
	err error
}

func (s failingBalanceTx) Users() repository.UserRepository {
	return failingBalanceUsers{UserRepository: s.Store.Users(), err: s.err}
}

type failingBalanceUsers struct {
	repository.UserRepository
	err error
}

func (u failingBalanceUsers) UpdateBalance(context.Context, string, int64) error {
	return u.err
}
