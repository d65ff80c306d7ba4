// Package consts contains constants for the notifier domain
package consts

// ITDepartment is the department that grants admin rights
const ITDepartment = "Департамент информационных технологий"

// Departments is the closed, ordered department directory.
// Callback payloads reference departments by index into this list.
var Departments = []string{
	"Департамент продаж",
	"Департамент продуктовой логистики",
	"Департамент транспортно-складской логистики",
	"Департамент маркетинга",
	"КАД",
	"Кадровый департамент (HR)",
	"Финансовый департамент",
	"Юридический департамент",
	ITDepartment,
}

// IsValidDepartment reports whether name belongs to the directory
func IsValidDepartment(name string) bool {
	return IndexOf(name) >= 0
}

// IsAdminDepartment reports whether members of the department are admins.
// Every department assignment derives the admin flag from this function.
func IsAdminDepartment(name string) bool {
	return name == ITDepartment
}

// DepartmentAt returns the department with the given directory index
func DepartmentAt(index int) (string, bool) {
	if index < 0 || index >= len(Departments) {
		return "", false
	}
	return Departments[index], true
}

// IndexOf returns the directory index of name or -1
func IndexOf(name string) int {
	for i, d := range Departments {
		if d == name {
			return i
		}
	}
	return -1
}
