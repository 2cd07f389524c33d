package types

import "strings"

type Status string

const (
	StatusApplied   Status = "APPLIED"   // 已申请
	StatusViewed    Status = "VIEWED"    // 简历已被查看
	StatusOA        Status = "OA"        // 在线测试/笔试
	StatusInterview Status = "INTERVIEW" // 面试中
	StatusOffer     Status = "OFFER"     // 收到offer
	StatusRejected  Status = "REJECTED"  // 被拒绝
	StatusWithdrawn Status = "WITHDRAWN" // 撤回申请
	StatusOther     Status = "OTHER"     // 其他状态
)

// NormalizeStatus 标准化求职状态
func NormalizeStatus(status string) Status {
	status = strings.ToUpper(strings.TrimSpace(status))

	switch status {
	case "APPLIED", "APPLICATION", "SUBMITTED", "SENT", "申请", "已申请":
		return StatusApplied
	case "VIEWED", "SEEN", "已查看":
		return StatusViewed
	case "OA", "ONLINE_ASSESSMENT", "ASSESSMENT", "笔试", "在线测试":
		return StatusOA
	case "INTERVIEW", "面试":
		return StatusInterview
	case "OFFER", "ACCEPTED", "录用", "录取":
		return StatusOffer
	case "REJECTED", "DECLINED", "NOT_SELECTED", "拒绝", "未通过":
		return StatusRejected
	case "WITHDRAWN", "撤回":
		return StatusWithdrawn
	default:
		return StatusOther
	}
}

// Email 一封原始邮件记录，解析期间只读
type Email struct {
	ID      string `json:"id,omitempty"`
	Sender  string `json:"sender"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Date    string `json:"date"`
	Folder  string `json:"folder,omitempty"`
}

// JobRecord 一个职位或一条申请记录。空字符串表示未提取到
type JobRecord struct {
	JobID      string `json:"job_id,omitempty"`
	JobURL     string `json:"job_url,omitempty"`
	Company    string `json:"company,omitempty"`
	Position   string `json:"position,omitempty"`
	Location   string `json:"location,omitempty"`
	Status     Status `json:"status,omitempty"`
	TrackingID string `json:"tracking_id,omitempty"`
	RefID      string `json:"ref_id,omitempty"`
	AppliedAt  string `json:"applied_at,omitempty"`
}

// Valid 至少要有 job_id 或职位名称
func (r JobRecord) Valid() bool {
	return r.JobID != "" || strings.TrimSpace(r.Position) != ""
}
