package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid         = errors.New("参数错误")
	ErrUserNotFound         = errors.New("用户不存在")
	ErrUserUsernameExist    = errors.New("用户名已存在")
	ErrPasswordIncorrect    = errors.New("密码错误")
	ErrGroupNotFound        = errors.New("小组不存在")
	ErrGroupMemberExist     = errors.New("已是小组成员")
	ErrGroupMemberNotFound  = errors.New("不是小组成员")
	ErrJoinRequestExist     = errors.New("入组申请已存在")
	ErrJoinRequestNotFound  = errors.New("入组申请不存在")
	ErrJoinRequestHandled   = errors.New("入组申请已处理")
	ErrNotificationNotFound = errors.New("通知不存在")
	UnauthorizedError       = errors.New("权限不足")
	UnExpectedError         = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:         BadRequest,
	ErrUserNotFound:         NotFound,
	ErrUserUsernameExist:    BadRequest,
	ErrPasswordIncorrect:    Unauthorized,
	ErrGroupNotFound:        NotFound,
	ErrGroupMemberExist:     BadRequest,
	ErrGroupMemberNotFound:  Unauthorized,
	ErrJoinRequestExist:     BadRequest,
	ErrJoinRequestNotFound:  NotFound,
	ErrJoinRequestHandled:   BadRequest,
	ErrNotificationNotFound: NotFound,
	UnauthorizedError:       Unauthorized,
	UnExpectedError:         InternalServerError,
}
