package model

const RoleAdmin = "ADMIN"

// UserRoles 可被分配问卷的岗位角色
var UserRoles = []string{
	"DEVELOPER",
	"LEAD_DEVELOPER",
	"SECURITY_ENGINEER",
	"DEVOPS_ENGINEER",
	"PROJECT_MANAGER",
	RoleAdmin,
}

var Projects = []string{
	"Portfolio Frontend",
	"Portfolio Backend",
	"System Designer",
	"YouTube Integration",
	"Social Media Module",
	"Audit Survey System",
}

func IsKnownRole(role string) bool {
	for _, r := range UserRoles {
		if r == role {
			return true
		}
	}
	return false
}

func IsKnownProject(project string) bool {
	for _, p := range Projects {
		if p == project {
			return true
		}
	}
	return false
}
