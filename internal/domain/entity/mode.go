package entity

// Mode 采集模式,决定列表页上的条目类型
type Mode string

const (
	ModeProfiles Mode = "profiles"
	ModeJobs     Mode = "jobs"
)

func (m Mode) IsValid() bool {
	switch m {
	case ModeProfiles, ModeJobs:
		return true
	default:
		return false
	}
}
