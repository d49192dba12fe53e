package consts

const (
	NotificationUnreadCountKey = "notification:unread:count:"
	UserSimpleInfoKey          = "user:simple:info:"
)
