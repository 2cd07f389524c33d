package assemble

import (
	"regexp"
	"strings"

	"github.com/YKarmar/JobTracker/internal/extract"
	"github.com/YKarmar/JobTracker/internal/segment"
	"github.com/YKarmar/JobTracker/internal/types"
)

var (
	alertTermRe       = regexp.MustCompile(`job alert for (.+?) has been`)
	subjectLocationRe = regexp.MustCompile(`\bin (.+?)$`)
	similarToRe       = regexp.MustCompile(`similar to (.+?)(?:\s+-|$)`)
	jobsFoundRe       = regexp.MustCompile(`(?i)(\d+)\s+(?:new\s+)?jobs?\s+(?:found|available)`)
)

// digestJobs 摘要类邮件：纯文本按 trailer 切分，按顺序与标记中的职位链接配对。
// 多出来的链接用链接文字和它后面到下一个职位链接之间的标记解析。
func digestJobs(m mail, c *Collector, recommended bool) {
	links := extract.JobLinks(m.markup)
	titles := extract.JobTitles(m.markup)
	i := 0
	for sec := range segment.Segment(m.text, segment.Trailing(segment.DefaultTrailer)) {
		var link extract.Link
		if i < len(links) {
			link = links[i]
		}
		rec := digestRecord(sec.Text, titles[link.ID], recommended)
		if link.ID != "" {
			withLink(&rec, link)
		}
		i++
		c.Add(rec)
	}
	if i >= len(links) {
		return
	}
	blocks := extract.JobBlocks(m.markup)
	for _, link := range links[i:] {
		rec := digestRecord(blocks[link.ID].Text, titles[link.ID], recommended)
		withLink(&rec, link)
		c.Add(rec)
	}
}

// digestRecord 解析一个摘要 section。title 是该职位链接的文字，
// 找得到时 section 从 title 开始，去掉前面的邮件开头
func digestRecord(line, title string, recommended bool) types.JobRecord {
	valid, cascade := extract.ValidPosition, extract.Position
	if recommended {
		valid, cascade = extract.ValidRecommendedPosition, extract.RecommendedPosition
	}
	if title != "" && valid(title) {
		if i := strings.LastIndex(line, title); i > 0 {
			line = line[i:]
		}
	} else {
		title = ""
	}

	src := extract.FromText(line)
	position, company, _ := extract.SplitDigestLine(line)
	position = extract.CleanPosition(position)
	switch {
	case title != "" && !strings.HasPrefix(position, title):
		position = title
	case title == "":
		position = extract.TitleTail(position)
	}
	if !valid(position) {
		position, _ = cascade(src)
	}
	if !extract.ValidCompany(company) {
		company, _ = extract.Company(src)
	}
	location, _ := extract.Location(src)

	return types.JobRecord{
		Position: position,
		Company:  company,
		Location: location,
	}
}

func withLink(rec *types.JobRecord, l extract.Link) {
	rec.JobID = l.ID
	rec.JobURL = extract.CanonicalJobURL(l.ID)
	src := extract.Source{Markup: l.URL}
	rec.TrackingID, _ = extract.TrackingID(src)
	rec.RefID, _ = extract.RefID(src)
}

func parseJobAlert(e types.Email) types.ParseResult {
	m := load(e)
	r := &types.JobAlertResult{
		Header:     header(types.CategoryJobAlerts, e, m),
		Statistics: map[string]int{},
	}

	if sub := alertTermRe.FindStringSubmatch(m.lower); sub != nil {
		r.AlertInfo.SearchTerm = sub[1]
	}
	switch {
	case strings.Contains(m.lower, "created"):
		r.AlertInfo.Action = "created"
	case strings.Contains(m.lower, "updated"):
		r.AlertInfo.Action = "updated"
	}
	if sub := subjectLocationRe.FindStringSubmatch(m.lower); sub != nil {
		r.AlertInfo.Location = sub[1]
	}

	c := NewCollector(nil)
	digestJobs(m, c, false)
	r.Jobs = c.Jobs()

	if sub := jobsFoundRe.FindStringSubmatch(m.text); sub != nil {
		r.Statistics["total_jobs_found"] = atoi(sub[1])
	}
	r.Statistics["jobs_in_email"] = len(r.Jobs)
	return r
}

func parseRecommendations(e types.Email) types.ParseResult {
	m := load(e)
	r := &types.RecommendationResult{
		Header:     header(types.CategoryJobsNoreply, e, m),
		Statistics: map[string]int{},
	}

	if sub := similarToRe.FindStringSubmatch(m.lower); sub != nil {
		r.RecommendationContext.BasedOnJob = strings.TrimSpace(sub[1])
	}
	switch {
	case strings.Contains(m.lower, "new jobs"):
		r.RecommendationContext.Type = "new_recommendations"
	case strings.Contains(m.lower, "recommended"):
		r.RecommendationContext.Type = "personalized_recommendations"
	}
	if sub := subjectLocationRe.FindStringSubmatch(m.lower); sub != nil {
		r.RecommendationContext.Location = sub[1]
	}

	c := NewCollector(nil)
	digestJobs(m, c, true)
	r.Jobs = c.Jobs()
	r.Statistics["total_recommendations"] = len(r.Jobs)
	return r
}

func parseListing(e types.Email) types.ParseResult {
	m := load(e)
	r := &types.ListingResult{Header: header(types.CategoryJobsListings, e, m)}

	if company, position, ok := strings.Cut(m.subject, "is looking for:"); ok {
		r.FeaturedJob.Company = strings.TrimSpace(company)
		r.FeaturedJob.Position = strings.TrimSpace(position)
	}

	c := NewCollector(nil)
	digestJobs(m, c, false)
	r.Jobs = c.Jobs()

	for _, j := range r.Jobs {
		if j.JobID != "" {
			r.FeaturedJob.JobID = j.JobID
			r.FeaturedJob.JobURL = j.JobURL
			break
		}
	}
	return r
}
