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
	ErrAssetNotFound        = errors.New("作品不存在")
	ErrProjectNotFound      = errors.New("项目不存在")
	ErrCommentNotFound      = errors.New("评论不存在")
	ErrNotificationNotFound = errors.New("通知不存在")
	ErrReceiverInvalid      = errors.New("接收者无效")
	ErrEventTypeInvalid     = errors.New("事件类型无效")
	UnauthorizedError       = errors.New("权限不足")
	UnExpectedError         = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:         BadRequest,
	ErrUserNotFound:         NotFound,
	ErrAssetNotFound:        NotFound,
	ErrProjectNotFound:      NotFound,
	ErrCommentNotFound:      NotFound,
	ErrNotificationNotFound: NotFound,
	ErrReceiverInvalid:      BadRequest,
	ErrEventTypeInvalid:     BadRequest,
	UnauthorizedError:       Unauthorized,
	UnExpectedError:         InternalServerError,
}
