package service_test

import (
	"context"
	"errors"
	"eventdesk/config"
	"eventdesk/infras/jwt"
	jwtMocks "eventdesk/infras/jwt/mocks"
	"eventdesk/infras/otel/mocks"
	"eventdesk/internal/domains/auth/model/dto"
	"eventdesk/internal/domains/auth/service"
	userMocks "eventdesk/internal/domains/user/mocks"
	userModel "eventdesk/internal/domains/user/model"
	"eventdesk/shared/constant"
	"eventdesk/shared/failure"
	"eventdesk/shared/password"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newService(t *testing.T) (service.Auth, *userMocks.MockUser, *jwtMocks.MockJWT) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := userMocks.NewMockUser(ctrl)
	signer := jwtMocks.NewMockJWT(ctrl)

	return service.New(repo, &config.Config{}, mocks.NewOtel(), signer), repo, signer
}

func storedUser(t *testing.T, active bool) userModel.User {
	t.Helper()

	hash, err := password.Hash("password")
	require.NoError(t, err)

	return userModel.User{
		ID:       "user-id-123",
		Email:    "test@example.com",
		Password: hash,
		Role:     constant.RoleAdmin,
		FullName: "Test User",
		Active:   active,
	}
}

func TestAuthService_Register(t *testing.T) {
	req := dto.RegisterRequest{Email: "New@Example.com", Password: "password123", FullName: "New User"}

	t.Run("creates a requestor", func(t *testing.T) {
		svc, repo, _ := newService(t)

		repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, user userModel.User) error {
			assert.Equal(t, "new@example.com", user.Email)
			assert.Equal(t, constant.RoleUser, user.Role)
			assert.NoError(t, password.Verify("password123", user.Password))

			return nil
		})

		res, err := svc.Register(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, "new@example.com", res.Email)
	})

	t.Run("email taken", func(t *testing.T) {
		svc, repo, _ := newService(t)

		repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

		_, err := svc.Register(context.Background(), req)

		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("insert failure", func(t *testing.T) {
		svc, repo, _ := newService(t)

		repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("database error"))

		_, err := svc.Register(context.Background(), req)

		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})
}

func TestAuthService_Login(t *testing.T) {
	pair := &jwt.TokenPair{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer", ExpiresIn: 900}

	tests := []struct {
		name      string
		req       dto.LoginRequest
		setupMock func(repo *userMocks.MockUser, signer *jwtMocks.MockJWT)
		wantCode  int
	}{
		{
			name: "successful login",
			req:  dto.LoginRequest{Email: "test@example.com", Password: "password"},
			setupMock: func(repo *userMocks.MockUser, signer *jwtMocks.MockJWT) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedUser(t, true), nil)
				signer.EXPECT().GenerateTokenPair("user-id-123", "test@example.com", constant.RoleAdmin).Return(pair, nil)
				repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "last login failure does not block",
			req:  dto.LoginRequest{Email: "test@example.com", Password: "password"},
			setupMock: func(repo *userMocks.MockUser, signer *jwtMocks.MockJWT) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedUser(t, true), nil)
				signer.EXPECT().GenerateTokenPair(gomock.Any(), gomock.Any(), gomock.Any()).Return(pair, nil)
				repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("database error"))
			},
		},
		{
			name: "unknown email",
			req:  dto.LoginRequest{Email: "nobody@example.com", Password: "password"},
			setupMock: func(repo *userMocks.MockUser, _ *jwtMocks.MockJWT) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "wrong password",
			req:  dto.LoginRequest{Email: "test@example.com", Password: "wrong"},
			setupMock: func(repo *userMocks.MockUser, _ *jwtMocks.MockJWT) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedUser(t, true), nil)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "deactivated account",
			req:  dto.LoginRequest{Email: "test@example.com", Password: "password"},
			setupMock: func(repo *userMocks.MockUser, _ *jwtMocks.MockJWT) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedUser(t, false), nil)
			},
			wantCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, signer := newService(t)
			tt.setupMock(repo, signer)

			res, err := svc.Login(context.Background(), tt.req)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "access", res.AccessToken)
			assert.Equal(t, "Bearer", res.TokenType)
			assert.Equal(t, "user-id-123", res.User.ID)
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		svc, _, signer := newService(t)

		signer.EXPECT().RefreshTokens("refresh").Return(&jwt.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"}, nil)

		res, err := svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "refresh"})

		require.NoError(t, err)
		assert.Equal(t, "new-access", res.AccessToken)
	})

	t.Run("invalid", func(t *testing.T) {
		svc, _, signer := newService(t)

		signer.EXPECT().RefreshTokens("bad").Return(nil, jwt.ErrInvalidToken)

		_, err := svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "bad"})

		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
	})
}

func TestAuthService_Me(t *testing.T) {
	t.Run("session user", func(t *testing.T) {
		svc, repo, _ := newService(t)

		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedUser(t, true), nil)

		ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "user-id-123")
		res, err := svc.Me(ctx)

		require.NoError(t, err)
		assert.Equal(t, "Test User", res.FullName)
	})

	t.Run("no session", func(t *testing.T) {
		svc, _, _ := newService(t)

		_, err := svc.Me(context.Background())

		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
	})

	t.Run("deleted user", func(t *testing.T) {
		svc, repo, _ := newService(t)

		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)

		ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "gone")
		_, err := svc.Me(ctx)

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "user-id-123")

	t.Run("changes the hash", func(t *testing.T) {
		svc, repo, _ := newService(t)

		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedUser(t, true), nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, fields map[string]any, _ any) error {
				hash, ok := fields[userModel.FieldPassword].(string)
				require.True(t, ok)
				assert.NoError(t, password.Verify("new-password", hash))

				return nil
			})

		err := svc.ChangePassword(ctx, dto.ChangePasswordRequest{CurrentPassword: "password", NewPassword: "new-password"})

		assert.NoError(t, err)
	})

	t.Run("wrong current password", func(t *testing.T) {
		svc, repo, _ := newService(t)

		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedUser(t, true), nil)

		err := svc.ChangePassword(ctx, dto.ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "new-password"})

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}
