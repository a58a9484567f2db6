// Package entity defines the values exchanged with the AI assistant.
package entity

import "strings"

// Summary is the structured digest of a tender document.
type Summary struct {
	BriefDescription    string `json:"briefDescription"`
	Value               string `json:"value"`
	SourceOfFunds       string `json:"sourceOfFunds"`
	ExperienceCriteria  string `json:"experienceCriteria"`
	FinancialCriteria   string `json:"financialCriteria"`
	TimeDuration        string `json:"timeDuration"`
	SpecialRequirements string `json:"specialRequirements"`
}

// Empty reports whether every field is blank.
func (s Summary) Empty() bool {
	for _, v := range []string{s.BriefDescription, s.Value, s.SourceOfFunds, s.ExperienceCriteria,
		s.FinancialCriteria, s.TimeDuration, s.SpecialRequirements} {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// SummaryResult is either a structured Summary or the raw model output.
type SummaryResult struct {
	Structured bool
	Summary    *Summary
	Text       string
}

// CompanyProfile describes the bidding company in generated letters.
type CompanyProfile struct {
	CompanyName string `json:"companyName"`
	ContactName string `json:"contactName"`
	Position    string `json:"position"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Description string `json:"description"`
}

// Empty reports whether no field is set.
func (p CompanyProfile) Empty() bool {
	return p == CompanyProfile{}
}
