package service

import (
	"context"

	"github.com/jinzhu/copier"

	"github.com/modern-agile-team/9term-main-back-sub000/internal/api/dto"
	"github.com/modern-agile-team/9term-main-back-sub000/internal/model"
	"github.com/modern-agile-team/9term-main-back-sub000/internal/pkg/redis"
	"github.com/modern-agile-team/9term-main-back-sub000/internal/pkg/security"
	"github.com/modern-agile-team/9term-main-back-sub000/internal/repository"
)

type UserService interface {
	Register(ctx context.Context, req *dto.RegisterReq) (*dto.UserDTO, error)
	Login(ctx context.Context, req *dto.LoginReq) (*dto.LoginDTO, error)
	Logout(ctx context.Context, token string) error
}

type UserServiceImpl struct {
	userRepo repository.UserRepo
}

func NewUserService(userRepo repository.UserRepo) UserService {
	return &UserServiceImpl{userRepo: userRepo}
}

// Register 用户名密码注册
func (s *UserServiceImpl) Register(ctx context.Context, req *dto.RegisterReq) (*dto.UserDTO, error) {
	findUser, err := s.userRepo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if findUser != nil {
		return nil, ErrUserUsernameExist
	}

	passwordHash, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username: req.Username,
		Nickname: req.Nickname,
		Password: passwordHash,
	}
	if err = s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	userDTO := &dto.UserDTO{}
	if err = copier.Copy(userDTO, user); err != nil {
		return nil, err
	}
	return userDTO, nil
}

// Login 登录并签发 Token
func (s *UserServiceImpl) Login(ctx context.Context, req *dto.LoginReq) (*dto.LoginDTO, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if err = security.CheckPasswordHash(req.Password, user.Password); err != nil {
		return nil, ErrPasswordIncorrect
	}

	token, err := security.GenerateToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &dto.LoginDTO{UserID: user.ID, Token: token}, nil
}

// Logout 把当前 Token 的签名写入黑名单，有效期与 Token 对齐
func (s *UserServiceImpl) Logout(ctx context.Context, token string) error {
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return err
	}
	return redis.SetWithExpiration(ctx, signature, true, security.JWTExpirationTime)
}
