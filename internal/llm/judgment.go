package llm

import (
	"encoding/json"
	"strings"

	"github.com/ppiankov/shartnoma/internal/model"
)

const maxJudgmentItems = 6

// Judgment is the decoded reply of the clause judge
type Judgment struct {
	Compliance      model.Verdict `json:"compliance"`
	Risks           []string      `json:"risks"`
	Recommendations []string      `json:"recommendations"`
	Rewrite         string        `json:"rewrite"`
}

// ParseJudgment decodes a judge reply. Code fences and prose around the
// JSON object are tolerated; anything undecodable becomes an "noaniq"
// judgment carrying the raw reply as its rewrite.
func ParseJudgment(raw string) Judgment {
	raw = strings.TrimSpace(raw)

	var j Judgment
	if err := json.Unmarshal([]byte(jsonObject(raw)), &j); err != nil {
		return Judgment{Compliance: model.VerdictUnclear, Rewrite: raw}
	}

	j.Compliance = parseVerdict(string(j.Compliance))
	j.Risks = cleanItems(j.Risks)
	j.Recommendations = cleanItems(j.Recommendations)
	j.Rewrite = strings.TrimSpace(j.Rewrite)
	return j
}

// jsonObject cuts the outermost {...} out of s
func jsonObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return s
	}
	return s[start : end+1]
}

func parseVerdict(s string) model.Verdict {
	switch v := model.Verdict(strings.ToLower(strings.Join(strings.Fields(s), " "))); v {
	case model.VerdictCompliant, model.VerdictNonCompliant, model.VerdictUnclear:
		return v
	default:
		return model.VerdictUnclear
	}
}

func cleanItems(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
		if len(out) == maxJudgmentItems {
			break
		}
	}
	return out
}
