package model

import "gorm.io/datatypes"

// swagger:model User
type User struct {
	UUIDBase
	Name     string                      `gorm:"size:100;not null" json:"name"`
	Email    string                      `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password string                      `gorm:"size:100;not null" json:"-"`
	Roles    datatypes.JSONSlice[string] `json:"roles"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (u *User) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}

// PrimaryRole 第一个岗位角色，用于题目定向
func (u *User) PrimaryRole() string {
	if len(u.Roles) == 0 {
		return ""
	}
	return u.Roles[0]
}
