package models

// StudentStatus is the closed set of lifecycle states for a student.
// Every status maps to exactly one counter bucket on the school document,
// and "active" additionally counts against the class capacity.
type StudentStatus string

const (
	StudentActive    StudentStatus = "active"
	StudentSuspended StudentStatus = "suspended"
	StudentLeft      StudentStatus = "left"
	StudentGraduated StudentStatus = "graduated"
)

// Valid reports whether s is one of the known student statuses.
func (s StudentStatus) Valid() bool {
	switch s {
	case StudentActive, StudentSuspended, StudentLeft, StudentGraduated:
		return true
	}
	return false
}

// TeacherStatus is the closed set of lifecycle states for a teacher.
type TeacherStatus string

const (
	TeacherActive    TeacherStatus = "active"
	TeacherSuspended TeacherStatus = "suspended"
	TeacherLeft      TeacherStatus = "left"
)

// Valid reports whether s is one of the known teacher statuses.
func (s TeacherStatus) Valid() bool {
	switch s {
	case TeacherActive, TeacherSuspended, TeacherLeft:
		return true
	}
	return false
}

// SchoolStatus is the closed set of states for a school.
type SchoolStatus string

const (
	SchoolActive   SchoolStatus = "active"
	SchoolClosed   SchoolStatus = "closed"
	SchoolInactive SchoolStatus = "inactive"
)

// Valid reports whether s is one of the known school statuses.
func (s SchoolStatus) Valid() bool {
	switch s {
	case SchoolActive, SchoolClosed, SchoolInactive:
		return true
	}
	return false
}
