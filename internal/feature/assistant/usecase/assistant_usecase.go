package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"tender_backend/internal/feature/assistant/domain/entity"
	authentity "tender_backend/internal/feature/auth/domain/entity"
	tenderentity "tender_backend/internal/feature/tender/domain/entity"
	"tender_backend/internal/platform/metrics"
)

const (
	// MaxPromptTextRunes caps the tender text sent to the model.
	MaxPromptTextRunes = 100_000
	// MaxInputRunes rejects request bodies that are far beyond what the model will see.
	MaxInputRunes    = 4 * MaxPromptTextRunes
	MaxQuestionRunes = 2000

	DefaultTimeout = 60 * time.Second
)

// Generator produces text for a prompt.
// Following Go convention, the interface is defined by the consumer (usecase).
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// TenderStore resolves tenders for chat and cover letters.
type TenderStore interface {
	// FindByID returns the tender usecase's not-found error when no tender matches.
	FindByID(ctx context.Context, id uint) (*tenderentity.Tender, error)
	IncrementBidCount(ctx context.Context, id uint) error
}

// UserFinder loads the caller's account for the default company profile.
type UserFinder interface {
	FindByID(ctx context.Context, id uint) (*authentity.User, error)
}

// CoverLetterInput is a cover letter request. TenderID is optional; when set the tender's
// stored text fills an empty TenderText and its bid counter is incremented.
type CoverLetterInput struct {
	UserID         uint
	TenderText     string
	TenderID       *uint
	CompanyProfile entity.CompanyProfile
}

// ReleaseLetterInput is a release letter request.
type ReleaseLetterInput struct {
	UserID           uint
	TenderTitle      string
	AuthorizedPerson string
	CompanyProfile   entity.CompanyProfile
}

type assistantUsecase struct {
	gen     Generator
	tenders TenderStore
	users   UserFinder
	timeout time.Duration
}

// NewAssistantUsecase creates a new assistantUsecase. A non-positive timeout uses DefaultTimeout.
func NewAssistantUsecase(gen Generator, tenders TenderStore, users UserFinder, timeout time.Duration) *assistantUsecase {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &assistantUsecase{gen: gen, tenders: tenders, users: users, timeout: timeout}
}

// Summarize asks the model for a structured summary. Output that does not parse is returned
// verbatim with Structured=false.
func (u *assistantUsecase) Summarize(ctx context.Context, tenderText string) (*entity.SummaryResult, error) {
	text, err := checkTenderText(tenderText)
	if err != nil {
		return nil, err
	}
	out, err := u.generate(ctx, "summary", "summary", fmt.Sprintf(summaryPrompt, text))
	if err != nil {
		return nil, err
	}
	if s, ok := ParseSummary(out); ok {
		return &entity.SummaryResult{Structured: true, Summary: s}, nil
	}
	slog.Info("summary output was not structured, returning text")
	return &entity.SummaryResult{Text: strings.TrimSpace(out)}, nil
}

// CoverLetter drafts a cover letter.
func (u *assistantUsecase) CoverLetter(ctx context.Context, in CoverLetterInput) (string, error) {
	text := in.TenderText
	if in.TenderID != nil {
		t, err := u.tenders.FindByID(ctx, *in.TenderID)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(text) == "" {
			text = tenderContext(t)
		}
	}
	text, err := checkTenderText(text)
	if err != nil {
		return "", err
	}
	profile, err := u.profile(ctx, in.UserID, in.CompanyProfile)
	if err != nil {
		return "", err
	}

	letter, err := u.generate(ctx, "cover_letter", "cover letter", fmt.Sprintf(coverLetterPrompt, formatProfile(profile), text))
	if err != nil {
		return "", err
	}
	if in.TenderID != nil {
		if err := u.tenders.IncrementBidCount(ctx, *in.TenderID); err != nil {
			slog.Warn("failed to increment bid count", "tender_id", *in.TenderID, "error", err)
		}
	}
	return strings.TrimSpace(letter), nil
}

// ReleaseLetter drafts a release letter for tenderTitle addressed to the authorized person.
func (u *assistantUsecase) ReleaseLetter(ctx context.Context, in ReleaseLetterInput) (string, error) {
	title := strings.TrimSpace(in.TenderTitle)
	if title == "" {
		return "", ErrTenderTitleRequired
	}
	person := strings.TrimSpace(in.AuthorizedPerson)
	if person == "" {
		return "", ErrAuthorizedPersonRequired
	}
	profile, err := u.profile(ctx, in.UserID, in.CompanyProfile)
	if err != nil {
		return "", err
	}

	letter, err := u.generate(ctx, "release_letter", "release letter", fmt.Sprintf(releaseLetterPrompt, title, person, formatProfile(profile)))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(letter), nil
}

// Chat answers a question about a stored tender. No history is kept.
func (u *assistantUsecase) Chat(ctx context.Context, tenderID uint, question string) (string, error) {
	if tenderID == 0 {
		return "", ErrTenderIDRequired
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrQuestionRequired
	}
	if utf8.RuneCountInString(question) > MaxQuestionRunes {
		return "", ErrQuestionTooLong
	}

	t, err := u.tenders.FindByID(ctx, tenderID)
	if err != nil {
		return "", err
	}
	answer, err := u.generate(ctx, "chat", "answer", fmt.Sprintf(chatPrompt, truncateRunes(tenderContext(t), MaxPromptTextRunes), question))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

// generate calls the model under the configured timeout and records metrics under op.
// Failures surface as "could not generate <what>".
func (u *assistantUsecase) generate(ctx context.Context, op, what, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	start := time.Now()
	out, err := u.gen.Generate(ctx, prompt)
	if err == nil && strings.TrimSpace(out) == "" {
		err = errEmptyResponse
	}
	metrics.ObserveAI(op, start, err)
	if err != nil {
		slog.Error("AI generation failed", "operation", op, "error", err, "elapsed", time.Since(start))
		return "", upstreamError(what, err)
	}
	return out, nil
}

// profile returns p, or the caller's own profile when p is empty.
func (u *assistantUsecase) profile(ctx context.Context, userID uint, p entity.CompanyProfile) (entity.CompanyProfile, error) {
	if !p.Empty() {
		return p, nil
	}
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return entity.CompanyProfile{}, fmt.Errorf("failed to load profile of user %d: %w", userID, err)
	}
	return entity.CompanyProfile{
		CompanyName: user.CompanyName,
		ContactName: user.Name,
		Position:    user.Position,
		Email:       user.Email,
	}, nil
}

func checkTenderText(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrTenderTextRequired
	}
	if utf8.RuneCountInString(s) > MaxInputRunes {
		return "", ErrTenderTextTooLong
	}
	return truncateRunes(s, MaxPromptTextRunes), nil
}

// tenderContext is the stored text, or the title and description when extraction produced none.
func tenderContext(t *tenderentity.Tender) string {
	if strings.TrimSpace(t.TenderText) != "" {
		return t.TenderText
	}
	return strings.TrimSpace(t.Title + "\n\n" + t.Description)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func formatProfile(p entity.CompanyProfile) string {
	var b strings.Builder
	for _, f := range []struct{ label, value string }{
		{"Company", p.CompanyName},
		{"Contact", p.ContactName},
		{"Position", p.Position},
		{"Email", p.Email},
		{"Phone", p.Phone},
		{"Address", p.Address},
		{"About", p.Description},
	} {
		if v := strings.TrimSpace(f.value); v != "" {
			fmt.Fprintf(&b, "%s: %s\n", f.label, v)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
