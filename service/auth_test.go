package service

import (
	"context"
	"testing"

	"Printhub/config"
	"Printhub/dao"
	"Printhub/pkg/response"
	"Printhub/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserTestEnv(t *testing.T) *UserService {
	t.Helper()
	db := newTestDB(t)
	cfg := &config.Config{
		Jwt: &config.Jwt{Secret: "test-secret", ExpireHours: 1},
	}
	return NewUserService(cfg, dao.NewUsers(db))
}

func TestSignupAndLogin(t *testing.T) {
	svc := newUserTestEnv(t)
	ctx := context.Background()

	signup, err := svc.Signup(ctx, &types.SignupRequest{
		Email:    "new@example.com",
		Password: "secret123",
		Name:     "新用户",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, signup.Token)
	assert.Equal(t, "customer", signup.Role)

	login, err := svc.Login(ctx, &types.LoginRequest{
		Email:    "new@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, signup.UserID, login.UserID)

	me, err := svc.Me(ctx, login.UserID)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", me.Email)
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc := newUserTestEnv(t)
	ctx := context.Background()

	req := &types.SignupRequest{Email: "dup@example.com", Password: "secret123", Name: "A"}
	_, err := svc.Signup(ctx, req)
	require.NoError(t, err)

	_, err = svc.Signup(ctx, req)
	require.Error(t, err)
	assert.Equal(t, 409, err.(*response.BizError).Code)
}

func TestLoginWrongCredentials(t *testing.T) {
	svc := newUserTestEnv(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, &types.SignupRequest{
		Email: "u@example.com", Password: "secret123", Name: "U",
	})
	require.NoError(t, err)

	// 密码错误和用户不存在给同样的提示
	_, err = svc.Login(ctx, &types.LoginRequest{Email: "u@example.com", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, 401, err.(*response.BizError).Code)

	_, err2 := svc.Login(ctx, &types.LoginRequest{Email: "ghost@example.com", Password: "wrong"})
	require.Error(t, err2)
	assert.Equal(t, err.Error(), err2.Error())
}
