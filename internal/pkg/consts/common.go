package consts

const (
	GroupRoleManager int8 = 1
	GroupRoleMember  int8 = 2
)

const (
	JoinRequestStatusPending  int8 = 0
	JoinRequestStatusApproved int8 = 1
	JoinRequestStatusRejected int8 = 2
)
