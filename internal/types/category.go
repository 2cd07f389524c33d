package types

type Category string

const (
	CategoryJobAlerts         Category = "job_alerts"
	CategoryJobsNoreply       Category = "jobs_noreply"
	CategoryJobsListings      Category = "jobs_listings"
	CategoryMessages          Category = "messages"
	CategoryNotifications     Category = "notifications"
	CategoryUpdates           Category = "updates"
	CategoryApplicationStatus Category = "application_status"
	CategoryUnknown           Category = "unknown"
)

// Categories lists every category, unknown last.
func Categories() []Category {
	return []Category{
		CategoryJobAlerts,
		CategoryJobsNoreply,
		CategoryJobsListings,
		CategoryMessages,
		CategoryNotifications,
		CategoryUpdates,
		CategoryApplicationStatus,
		CategoryUnknown,
	}
}

// EmailType 用于展示的邮件类型名称
func (c Category) EmailType() string {
	switch c {
	case CategoryJobAlerts:
		return "Job Alert"
	case CategoryJobsNoreply:
		return "Job Recommendations"
	case CategoryJobsListings:
		return "Job Listing Digest"
	case CategoryMessages:
		return "LinkedIn Message"
	case CategoryNotifications:
		return "Notification Digest"
	case CategoryUpdates:
		return "LinkedIn Updates"
	case CategoryApplicationStatus:
		return "Application Status"
	default:
		return "Unknown LinkedIn Email"
	}
}
