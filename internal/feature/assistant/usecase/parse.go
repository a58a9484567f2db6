package usecase

import (
	"encoding/json"
	"fmt"
	"strings"

	"tender_backend/internal/feature/assistant/domain/entity"
)

// ParseSummary extracts a Summary from model output. The JSON object may be bare or inside a
// markdown code fence. Non-string values are flattened to text. It reports false when no
// object parses or every field is blank.
func ParseSummary(out string) (*entity.Summary, bool) {
	body := jsonObject(out)
	if body == "" {
		return nil, false
	}
	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, false
	}

	s := &entity.Summary{
		BriefDescription:    flatten(raw["briefDescription"]),
		Value:               flatten(raw["value"]),
		SourceOfFunds:       flatten(raw["sourceOfFunds"]),
		ExperienceCriteria:  flatten(raw["experienceCriteria"]),
		FinancialCriteria:   flatten(raw["financialCriteria"]),
		TimeDuration:        flatten(raw["timeDuration"]),
		SpecialRequirements: flatten(raw["specialRequirements"]),
	}
	if s.Empty() {
		return nil, false
	}
	return s, true
}

// jsonObject returns the text between the first '{' and the last '}', looking inside a
// ``` fence first when there is one.
func jsonObject(out string) string {
	if i := strings.Index(out, "```"); i >= 0 {
		rest := out[i+3:]
		if j := strings.Index(rest, "```"); j >= 0 {
			out = rest[:j]
		}
	}
	start := strings.Index(out, "{")
	end := strings.LastIndex(out, "}")
	if start < 0 || end < start {
		return ""
	}
	return out[start : end+1]
}

func flatten(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case json.Number:
		return x.String()
	case []any:
		parts := make([]string, 0, len(x))
		for _, e := range x {
			if s := flatten(e); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "; ")
	case map[string]any:
		b, _ := json.Marshal(x)
		return string(b)
	default:
		return fmt.Sprint(x)
	}
}
