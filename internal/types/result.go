package types

import (
	"encoding/json"
	"fmt"
)

// Header 所有解析结果共有的字段
type Header struct {
	Category  Category `json:"category"`
	EmailType string   `json:"email_type"`
	Subject   string   `json:"subject"`
	Date      string   `json:"date"`
}

// Collection 结果中的一个职位集合
type Collection struct {
	Name string
	Jobs []JobRecord
}

// ParseResult is implemented by one struct per Category.
type ParseResult interface {
	Meta() Header
	Collections() []Collection
}

type JobAlertResult struct {
	Header
	Jobs       []JobRecord    `json:"jobs"`
	AlertInfo  AlertInfo      `json:"alert_info"`
	Statistics map[string]int `json:"statistics"`
}

type AlertInfo struct {
	SearchTerm string `json:"search_term,omitempty"`
	Action     string `json:"action,omitempty"`
	Location   string `json:"location,omitempty"`
}

func (r *JobAlertResult) Meta() Header { return r.Header }
func (r *JobAlertResult) Collections() []Collection {
	return []Collection{{Name: "jobs", Jobs: r.Jobs}}
}

type RecommendationResult struct {
	Header
	Jobs                  []JobRecord           `json:"jobs"`
	RecommendationContext RecommendationContext `json:"recommendation_context"`
	Statistics            map[string]int        `json:"statistics"`
}

type RecommendationContext struct {
	BasedOnJob string `json:"based_on_job,omitempty"`
	Type       string `json:"type,omitempty"`
	Location   string `json:"location,omitempty"`
}

func (r *RecommendationResult) Meta() Header { return r.Header }
func (r *RecommendationResult) Collections() []Collection {
	return []Collection{{Name: "jobs", Jobs: r.Jobs}}
}

type ListingResult struct {
	Header
	FeaturedJob JobRecord   `json:"featured_job"`
	Jobs        []JobRecord `json:"jobs"`
}

func (r *ListingResult) Meta() Header { return r.Header }
func (r *ListingResult) Collections() []Collection {
	return []Collection{{Name: "jobs", Jobs: r.Jobs}}
}

type ApplicationStatusResult struct {
	Header
	AppliedJobs     []JobRecord    `json:"applied_jobs"`
	RecommendedJobs []JobRecord    `json:"recommended_jobs"`
	Statistics      map[string]int `json:"statistics"`
}

func (r *ApplicationStatusResult) Meta() Header { return r.Header }
func (r *ApplicationStatusResult) Collections() []Collection {
	return []Collection{
		{Name: "applied_jobs", Jobs: r.AppliedJobs},
		{Name: "recommended_jobs", Jobs: r.RecommendedJobs},
	}
}

type MessageResult struct {
	Header
	MessageType string         `json:"message_type"`
	Details     MessageDetails `json:"details"`
	URLs        []string       `json:"urls"`
}

type MessageDetails struct {
	ViewerCount  int      `json:"viewer_count,omitempty"`
	SenderName   string   `json:"sender_name,omitempty"`
	ProfileLinks []string `json:"profile_links"`
}

func (r *MessageResult) Meta() Header              { return r.Header }
func (r *MessageResult) Collections() []Collection { return nil }

type NotificationResult struct {
	Header
	NotificationCount int                 `json:"notification_count"`
	NotificationTypes []string            `json:"notification_types"`
	Details           NotificationDetails `json:"details"`
	URLs              []string            `json:"urls"`
}

type NotificationDetails struct {
	NotificationLinks []string `json:"notification_links"`
	ProfileViews      int      `json:"profile_views,omitempty"`
	NewMessages       int      `json:"new_messages,omitempty"`
}

func (r *NotificationResult) Meta() Header              { return r.Header }
func (r *NotificationResult) Collections() []Collection { return nil }

type UpdateResult struct {
	Header
	UpdateType     string         `json:"update_type"`
	ContentSources []string       `json:"content_sources"`
	Topics         []string       `json:"topics"`
	URLs           []string       `json:"urls"`
	Statistics     map[string]int `json:"statistics"`
}

func (r *UpdateResult) Meta() Header              { return r.Header }
func (r *UpdateResult) Collections() []Collection { return nil }

// UnknownResult 无法识别发件人时的最小结果
type UnknownResult struct {
	Header
	Sender string `json:"sender"`
}

func (r *UnknownResult) Meta() Header              { return r.Header }
func (r *UnknownResult) Collections() []Collection { return nil }

func newResult(c Category) ParseResult {
	switch c {
	case CategoryJobAlerts:
		return &JobAlertResult{}
	case CategoryJobsNoreply:
		return &RecommendationResult{}
	case CategoryJobsListings:
		return &ListingResult{}
	case CategoryApplicationStatus:
		return &ApplicationStatusResult{}
	case CategoryMessages:
		return &MessageResult{}
	case CategoryNotifications:
		return &NotificationResult{}
	case CategoryUpdates:
		return &UpdateResult{}
	default:
		return &UnknownResult{}
	}
}

// DecodeResult 按 category 字段把 JSON 还原成对应的结果类型
func DecodeResult(data []byte) (ParseResult, error) {
	var h Header
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("decode result header: %w", err)
	}
	r := newResult(h.Category)
	if err := json.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("decode %s result: %w", h.Category, err)
	}
	return r, nil
}
