package auth_test

import (
	"context"
	"testing"
	"time"

	"ceethaluxe/internal/domain/model"
	"ceethaluxe/internal/repository"
	auth "ceethaluxe/internal/usecase/auth_usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// mocks / fakes
// =====================

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	panic("not used in auth tests")
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

type fakeIssuer struct{}

func (i *fakeIssuer) Issue(userID int64, role model.Role, now time.Time) (string, time.Time, error) {
	return "token", now.Add(15 * time.Minute), nil
}

// =====================
// Register
// =====================

func TestRegister_Success(t *testing.T) {
	repo := &UserRepoMock{}
	repo.On("FindByEmail", mock.Anything, "ama@example.com").Return(nil, repository.ErrUserNotFound)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Email == "ama@example.com" &&
			u.Role == model.RoleCustomer &&
			u.PasswordHash != "" &&
			u.PasswordHash != "s3cure-enough"
	})).Return(nil)

	uc := auth.NewRegisterUserUsecase(repo, auth.NewBcryptPasswordHasher(4), &fixedClock{now: time.Now()})

	out, err := uc.Execute(context.Background(), auth.RegisterUserInput{
		Email:     "ama@example.com",
		Password:  "s3cure-enough",
		FirstName: "Ama",
		LastName:  "Mensah",
	})

	assert.NoError(t, err)
	// レスポンスにハッシュは載せない
	assert.Empty(t, out.User.PasswordHash)
	assert.Equal(t, model.RoleCustomer, out.User.Role)
	repo.AssertExpectations(t)
}

func TestRegister_InvalidEmail(t *testing.T) {
	uc := auth.NewRegisterUserUsecase(&UserRepoMock{}, auth.NewBcryptPasswordHasher(4), &fixedClock{})

	_, err := uc.Execute(context.Background(), auth.RegisterUserInput{
		Email:    "not-an-email",
		Password: "s3cure-enough",
	})

	assert.ErrorIs(t, err, auth.ErrInvalidEmailFormat)
}

func TestRegister_PasswordTooShort(t *testing.T) {
	uc := auth.NewRegisterUserUsecase(&UserRepoMock{}, auth.NewBcryptPasswordHasher(4), &fixedClock{})

	_, err := uc.Execute(context.Background(), auth.RegisterUserInput{
		Email:    "ama@example.com",
		Password: "short",
	})

	assert.ErrorIs(t, err, auth.ErrPasswordTooShort)
}

func TestRegister_WeakPassword(t *testing.T) {
	uc := auth.NewRegisterUserUsecase(&UserRepoMock{}, auth.NewBcryptPasswordHasher(4), &fixedClock{})

	_, err := uc.Execute(context.Background(), auth.RegisterUserInput{
		Email:    "ama@example.com",
		Password: "password123",
	})

	assert.ErrorIs(t, err, auth.ErrWeakPassword)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := &UserRepoMock{}
	repo.On("FindByEmail", mock.Anything, "ama@example.com").Return(&model.User{ID: 1}, nil)

	uc := auth.NewRegisterUserUsecase(repo, auth.NewBcryptPasswordHasher(4), &fixedClock{})

	_, err := uc.Execute(context.Background(), auth.RegisterUserInput{
		Email:    "ama@example.com",
		Password: "s3cure-enough",
	})

	assert.ErrorIs(t, err, auth.ErrEmailAlreadyExists)
}

// =====================
// Login
// =====================

func TestLogin_Success(t *testing.T) {
	hasher := auth.NewBcryptPasswordHasher(4)
	hashed, err := hasher.Hash("s3cure-enough")
	assert.NoError(t, err)

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	repo := &UserRepoMock{}
	repo.On("FindByEmail", mock.Anything, "ama@example.com").Return(&model.User{
		ID:           1,
		Email:        "ama@example.com",
		PasswordHash: hashed,
		Role:         model.RoleCustomer,
	}, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.LastLoginAt != nil && u.LastLoginAt.Equal(now)
	})).Return(nil)

	uc := auth.NewLoginUsecase(repo, auth.NewBcryptPasswordVerifier(), &fakeIssuer{}, &fixedClock{now: now})

	out, err := uc.Execute(context.Background(), auth.LoginInput{
		Email:    "ama@example.com",
		Password: "s3cure-enough",
	})

	assert.NoError(t, err)
	assert.Equal(t, "token", out.Token.AccessToken)
	assert.Equal(t, 15*60, out.Token.ExpiresIn)
	assert.Empty(t, out.User.PasswordHash)
	repo.AssertExpectations(t)
}

func TestLogin_WrongPassword(t *testing.T) {
	hasher := auth.NewBcryptPasswordHasher(4)
	hashed, err := hasher.Hash("s3cure-enough")
	assert.NoError(t, err)

	repo := &UserRepoMock{}
	repo.On("FindByEmail", mock.Anything, "ama@example.com").Return(&model.User{
		ID:           1,
		Email:        "ama@example.com",
		PasswordHash: hashed,
	}, nil)

	uc := auth.NewLoginUsecase(repo, auth.NewBcryptPasswordVerifier(), &fakeIssuer{}, &fixedClock{now: time.Now()})

	_, err = uc.Execute(context.Background(), auth.LoginInput{
		Email:    "ama@example.com",
		Password: "wrong",
	})

	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	repo := &UserRepoMock{}
	repo.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, repository.ErrUserNotFound)

	uc := auth.NewLoginUsecase(repo, auth.NewBcryptPasswordVerifier(), &fakeIssuer{}, &fixedClock{now: time.Now()})

	_, err := uc.Execute(context.Background(), auth.LoginInput{
		Email:    "ghost@example.com",
		Password: "whatever",
	})

	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}
