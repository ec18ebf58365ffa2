package service

import (
	"context"
	"errors"
	"time"

	"Printhub/config"
	"Printhub/dao"
	"Printhub/models"
	"Printhub/pkg/encrypt"
	"Printhub/pkg/jwt"
	"Printhub/pkg/response"
	"Printhub/types"

	"gorm.io/gorm"
)

var _ IUserService = (*UserService)(nil)

type IUserService interface {
	Signup(ctx context.Context, req *types.SignupRequest) (*types.AuthResponse, error)
	Login(ctx context.Context, req *types.LoginRequest) (*types.AuthResponse, error)
	Me(ctx context.Context, userID uint64) (*types.MeResponse, error)
}

type UserService struct {
	Config *config.Config
	Users  *dao.Users
}

func NewUserService(cfg *config.Config, users *dao.Users) *UserService {
	return &UserService{Config: cfg, Users: users}
}

func (s *UserService) Signup(ctx context.Context, req *types.SignupRequest) (*types.AuthResponse, error) {
	if s.Users.IsEmailExist(ctx, req.Email) {
		return nil, response.ErrConflict("该邮箱已注册")
	}

	user := &models.User{
		Email:    req.Email,
		Password: encrypt.HashPassword(req.Password),
		Name:     req.Name,
		Phone:    req.Phone,
		Role:     models.RoleCustomer,
	}
	if err := s.Users.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.issueToken(user)
}

func (s *UserService) Login(ctx context.Context, req *types.LoginRequest) (*types.AuthResponse, error) {
	user, err := s.Users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 不区分“用户不存在”和“密码错误”
			return nil, response.ErrAuth("邮箱或密码错误")
		}
		return nil, err
	}
	if !encrypt.VerifyPassword(user.Password, req.Password) {
		return nil, response.ErrAuth("邮箱或密码错误")
	}

	return s.issueToken(user)
}

func (s *UserService) issueToken(user *models.User) (*types.AuthResponse, error) {
	expire := time.Duration(s.Config.Jwt.ExpireHours) * time.Hour
	token, err := jwt.GenerateToken([]byte(s.Config.Jwt.Secret), user.ID, user.Email, user.Role, expire)
	if err != nil {
		return nil, err
	}
	return &types.AuthResponse{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
		Token:  token,
	}, nil
}

func (s *UserService) Me(ctx context.Context, userID uint64) (*types.MeResponse, error) {
	user, err := s.Users.FindById(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.ErrNotFound("用户不存在")
		}
		return nil, err
	}
	return &types.MeResponse{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Phone:  user.Phone,
		Role:   user.Role,
	}, nil
}
