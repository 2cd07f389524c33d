package assemble

import (
	"regexp"
	"strings"

	"github.com/YKarmar/JobTracker/internal/extract"
	"github.com/YKarmar/JobTracker/internal/segment"
	"github.com/YKarmar/JobTracker/internal/types"
)

var declaredRe = regexp.MustCompile(`(?i)you applied to (\d+) jobs?`)

// parseApplicationStatus 申请状态邮件：先收集已申请的职位，再用同一个 Seen 收集推荐职位，
// 同一职位只保留第一次出现时的角色
func parseApplicationStatus(e types.Email) types.ParseResult {
	m := load(e)
	r := &types.ApplicationStatusResult{
		Header:     header(types.CategoryApplicationStatus, e, m),
		Statistics: map[string]int{},
	}

	appliedPart, recommendedPart := m.markup, ""
	if loc := segment.RecommendedMarker.FindStringIndex(m.markup); loc != nil {
		appliedPart, recommendedPart = m.markup[:loc[0]], m.markup[loc[0]:]
	}

	seen := Seen{}
	applied := NewCollector(seen)
	sections := segment.Collect(segment.Segment(appliedPart, segment.Leading(segment.AppliedMarker)))
	if len(sections) > 0 {
		for _, sec := range sections {
			applied.Add(appliedRecord(extract.NewSource(sec.Text), ""))
		}
	} else {
		// 单条申请通知没有编号标记，整封邮件就是一条记录，公司名常在主题里
		applied.Add(appliedRecord(extract.NewSource(appliedPart), m.subject))
	}

	recommended := NewCollector(seen)
	recSections := segment.Collect(segment.Segment(recommendedPart, segment.Leading(segment.RecommendedMarker)))
	for _, sec := range recSections {
		recommended.Add(recommendedRecord(extract.NewSource(sec.Text)))
	}
	if len(recSections) == 0 {
		for _, l := range extract.JobLinks(m.markup) {
			var rec types.JobRecord
			withLink(&rec, l)
			recommended.Add(rec)
		}
	}

	r.AppliedJobs = applied.Jobs()
	r.RecommendedJobs = recommended.Jobs()

	r.Statistics["applied_jobs"] = len(r.AppliedJobs)
	r.Statistics["recommended_jobs"] = len(r.RecommendedJobs)
	if sub := declaredRe.FindStringSubmatch(m.subject + " " + m.text); sub != nil {
		r.Statistics["declared_applications"] = atoi(sub[1])
	}
	for _, j := range r.AppliedJobs {
		r.Statistics["status_"+strings.ToLower(string(j.Status))]++
	}
	return r
}

func appliedRecord(src extract.Source, subject string) types.JobRecord {
	rec := types.JobRecord{}
	if id, ok := extract.JobID(src); ok {
		rec.JobID = id
		rec.JobURL = extract.CanonicalJobURL(id)
	} else if u, ok := extract.JobURL(src); ok {
		rec.JobURL = u
	}
	if subject != "" {
		rec.Company, _ = extract.Company(extract.FromText(subject))
	}
	if rec.Company == "" {
		rec.Company, _ = extract.Company(src)
	}
	rec.Position, _ = extract.Position(src)
	rec.Location, _ = extract.Location(src)
	rec.AppliedAt, _ = extract.AppliedAt(src)
	rec.TrackingID, _ = extract.TrackingID(src)
	rec.RefID, _ = extract.RefID(src)

	rec.Status = extract.Status(src)
	if subject != "" {
		if s := extract.Status(extract.FromText(subject)); s != "" {
			rec.Status = s
		}
	}
	if rec.Status == "" {
		rec.Status = types.StatusApplied
	}
	return rec
}

func recommendedRecord(src extract.Source) types.JobRecord {
	rec := types.JobRecord{}
	if id, ok := extract.JobID(src); ok {
		rec.JobID = id
		rec.JobURL = extract.CanonicalJobURL(id)
	}
	rec.Company, _ = extract.Company(src)
	rec.Position, _ = extract.RecommendedPosition(src)
	rec.Location, _ = extract.Location(src)
	rec.TrackingID, _ = extract.TrackingID(src)
	rec.RefID, _ = extract.RefID(src)
	return rec
}
