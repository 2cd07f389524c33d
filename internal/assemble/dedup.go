package assemble

import "github.com/YKarmar/JobTracker/internal/types"

// Seen 已收录的 job_id，多个 Collector 共享同一个 Seen 时跨集合去重
type Seen map[string]struct{}

// Has reports whether id was already collected.
func (s Seen) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Add 记录 id，已存在时返回 false
func (s Seen) Add(id string) bool {
	if s.Has(id) {
		return false
	}
	s[id] = struct{}{}
	return true
}

// Collector builds one job collection. Records without a job id or a
// position are dropped; the first record for a job id wins; records
// without a job id are always appended.
type Collector struct {
	seen Seen
	jobs []types.JobRecord
}

// NewCollector 创建 Collector；seen 为 nil 时使用独立的集合
func NewCollector(seen Seen) *Collector {
	if seen == nil {
		seen = Seen{}
	}
	return &Collector{seen: seen, jobs: []types.JobRecord{}}
}

// Add 收录一条记录，返回是否被收录
func (c *Collector) Add(rec types.JobRecord) bool {
	if !rec.Valid() {
		return false
	}
	if rec.JobID != "" && !c.seen.Add(rec.JobID) {
		return false
	}
	c.jobs = append(c.jobs, rec)
	return true
}

func (c *Collector) Jobs() []types.JobRecord { return c.jobs }

func (c *Collector) Len() int { return len(c.jobs) }
