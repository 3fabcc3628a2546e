package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/sms03/resume-mcp/internal/ai"
	"github.com/sms03/resume-mcp/internal/types"
)

const (
	// rankBatchSize is how many resumes go to the model per request
	rankBatchSize = 10
	// rankTextLimit caps the resume text sent per candidate
	rankTextLimit = 1000
)

// batchRecord is the per-candidate payload serialized into the ranking prompt
type batchRecord struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// RankStats summarizes what a ranking run did with the model: how many
// batches it issued, how many of those failed, how many placeholder entries
// it substituted, and the token usage summed across batches.
type RankStats struct {
	Usage         *ai.TokenUsage
	Batches       int
	FailedBatches int
	Placeholders  int
}

func (s *RankStats) addUsage(u *ai.TokenUsage) {
	if u == nil {
		return
	}
	if s.Usage == nil {
		s.Usage = &ai.TokenUsage{}
	}
	s.Usage.InputTokens += u.InputTokens
	s.Usage.OutputTokens += u.OutputTokens
	s.Usage.TotalTokens += u.TotalTokens
}

// RankCandidates ranks resumes against a job description. Resumes are sent to
// the model in fixed-size batches, each batch's response is reconciled against
// its input records by id, and the merged results are sorted by match_score
// in descending order. Every input record yields exactly one output entry: a
// candidate the model skipped, and every candidate of a failed batch, gets a
// zero-score placeholder carrying the error. Other batches are unaffected by
// one batch's failure.
func (a *Analyzer) RankCandidates(ctx context.Context, resumes []types.ResumeRecord, jobDescription string) []map[string]any {
	results, _ := a.RankCandidatesWithStats(ctx, resumes, jobDescription)
	return results
}

// RankCandidatesWithStats is RankCandidates plus the run's statistics, for
// callers that record ranking metrics.
func (a *Analyzer) RankCandidatesWithStats(ctx context.Context, resumes []types.ResumeRecord, jobDescription string) ([]map[string]any, RankStats) {
	var stats RankStats
	results := make([]map[string]any, 0, len(resumes))
	if len(resumes) == 0 {
		return results, stats
	}

	records := normalizeRecords(resumes)
	template := a.templateFor("rank")

	for start := 0; start < len(records); start += rankBatchSize {
		end := min(start+rankBatchSize, len(records))
		outcome := a.rankBatch(ctx, template, records[start:end], jobDescription)

		stats.Batches++
		if outcome.failed {
			stats.FailedBatches++
		}
		stats.Placeholders += outcome.placeholders
		stats.addUsage(outcome.usage)

		results = append(results, outcome.entries...)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return matchScore(results[i]) > matchScore(results[j])
	})

	return results, stats
}

// normalizeRecords assigns synthetic ids to unnamed records and caps each
// record's text. Synthetic ids use the record's position across the whole
// input, not within its batch.
func normalizeRecords(resumes []types.ResumeRecord) []batchRecord {
	records := make([]batchRecord, len(resumes))
	for i, r := range resumes {
		id := r.ID
		if id == "" {
			id = fmt.Sprintf("resume_%d", i)
		}
		records[i] = batchRecord{ID: id, Text: truncateRunes(r.Text, rankTextLimit)}
	}
	return records
}

// batchOutcome is what one model batch contributed to a ranking run
type batchOutcome struct {
	entries      []map[string]any
	usage        *ai.TokenUsage
	placeholders int
	failed       bool
}

// rankBatch submits one batch to the model and returns one entry per record
func (a *Analyzer) rankBatch(ctx context.Context, template string, batch []batchRecord, jobDescription string) batchOutcome {
	payload, err := json.Marshal(batch)
	if err != nil {
		return batchOutcome{
			entries:      placeholderEntries(batch, err.Error()),
			placeholders: len(batch),
			failed:       true,
		}
	}

	prompt := renderRankPrompt(template, string(payload), jobDescription)

	text, usage, err := a.rank.GenerateContent(ctx, prompt)
	if err != nil {
		a.logger.LogError(err, "Candidate ranking batch failed",
			"batch_size", len(batch))
		return batchOutcome{
			entries:      placeholderEntries(batch, err.Error()),
			placeholders: len(batch),
			failed:       true,
		}
	}

	entries, placeholders := reconcileBatch(batch, extractRankings(RecoverStructured(text)))
	return batchOutcome{entries: entries, usage: usage, placeholders: placeholders}
}

// extractRankings pulls the ranking sequence out of the recovered value. A
// mapping contributes its "rankings" field; a bare list is taken as-is.
func extractRankings(value any) []any {
	switch v := value.(type) {
	case map[string]any:
		rankings, _ := v["rankings"].([]any)
		return rankings
	case []any:
		return v
	default:
		return nil
	}
}

// reconcileBatch matches model output to input records by id and reports how
// many placeholders it substituted. Records the model skipped get
// placeholders; entries for unknown ids and duplicate entries are dropped.
func reconcileBatch(batch []batchRecord, entries []any) ([]map[string]any, int) {
	byID := make(map[string]map[string]any, len(entries))
	for _, entry := range entries {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		id, _ := m["id"].(string)
		if id == "" {
			continue
		}
		if _, seen := byID[id]; !seen {
			byID[id] = m
		}
	}

	placeholders := 0
	out := make([]map[string]any, 0, len(batch))
	for _, rec := range batch {
		if m, ok := byID[rec.ID]; ok {
			out = append(out, m)
		} else {
			out = append(out, placeholderEntry(rec.ID, "no ranking returned for candidate"))
			placeholders++
		}
	}
	return out, placeholders
}

// placeholderEntry is the zero-score stand-in for a candidate without a result
func placeholderEntry(id, errMsg string) map[string]any {
	return map[string]any{
		"id":          id,
		"error":       errMsg,
		"match_score": 0,
	}
}

// placeholderEntries builds one placeholder per record of a failed batch
func placeholderEntries(batch []batchRecord, errMsg string) []map[string]any {
	out := make([]map[string]any, len(batch))
	for i, rec := range batch {
		out[i] = placeholderEntry(rec.ID, errMsg)
	}
	return out
}

// matchScore reads an entry's match_score, tolerating the numeric and string
// shapes models produce. Anything unreadable sorts as zero.
func matchScore(entry map[string]any) float64 {
	return coerceFloat(entry["match_score"])
}

func coerceFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0
		}
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		return f
	default:
		return 0
	}
}
