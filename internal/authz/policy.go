package authz

import "github.com/inkwell-api/internal/constants"

// Identity 已解析的请求身份。零值表示匿名。
type Identity struct {
	UserID uint
	Role   string
}

// Anonymous 判断是否为匿名身份
func (id Identity) Anonymous() bool {
	return id.UserID == 0
}

// IsAdmin 判断是否为管理员
func (id Identity) IsAdmin() bool {
	return id.Role == constants.UserRoleAdmin
}

// CanModify 所有权判定:管理员放行,否则要求身份与资源属主一致。
// 全部所有权检查集中在这一个函数,各调用点不再各写一份比较逻辑。
func CanModify(id Identity, ownerID uint) bool {
	if id.Anonymous() {
		return false
	}
	if id.IsAdmin() {
		return true
	}
	return id.UserID == ownerID
}
