package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tender_backend/internal/feature/assistant/domain/entity"
	"tender_backend/internal/feature/assistant/usecase"
	authentity "tender_backend/internal/feature/auth/domain/entity"
	tenderentity "tender_backend/internal/feature/tender/domain/entity"
	tenderusecase "tender_backend/internal/feature/tender/usecase"
	"tender_backend/internal/platform/apperr"
)

// ErrAPI is shared between mocks and expectations.
var ErrAPI = errors.New("api error")

type mockGenerator struct {
	GenerateFunc func(ctx context.Context, prompt string) (string, error)
	Prompts      []string
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}
	return "", errors.New("GenerateFunc is not implemented")
}

func reply(s string) *mockGenerator {
	return &mockGenerator{GenerateFunc: func(context.Context, string) (string, error) { return s, nil }}
}

type mockTenderStore struct {
	tenders       map[uint]*tenderentity.Tender
	bidIncrements []uint
	incrementErr  error
}

func (m *mockTenderStore) FindByID(_ context.Context, id uint) (*tenderentity.Tender, error) {
	t, ok := m.tenders[id]
	if !ok {
		return nil, tenderusecase.ErrTenderNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *mockTenderStore) IncrementBidCount(_ context.Context, id uint) error {
	m.bidIncrements = append(m.bidIncrements, id)
	return m.incrementErr
}

type mockUserFinder struct {
	FindByIDFunc func(ctx context.Context, id uint) (*authentity.User, error)
}

func (m *mockUserFinder) FindByID(ctx context.Context, id uint) (*authentity.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return &authentity.User{ID: id, Name: "Ada Lovelace", Email: "ada@acme.test", CompanyName: "Acme Ltd", Position: "Director"}, nil
}

func newStore() *mockTenderStore {
	return &mockTenderStore{tenders: map[uint]*tenderentity.Tender{
		5: {ID: 5, Title: "Road works", Description: "Resurfacing", TenderText: "Bids close on 30 June 2026."},
		6: {ID: 6, Title: "School roof", Description: "Replace the roof of block B"},
	}}
}

func uintPtr(v uint) *uint { return &v }

func TestAssistantUsecase_Summarize(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("structured output", func(t *testing.T) {
		t.Parallel()
		gen := reply("```json\n{\"briefDescription\":\"Road works\",\"value\":\"USD 1m\",\"specialRequirements\":[\"ISO 9001\",\"site visit\"]}\n```")
		uc := usecase.NewAssistantUsecase(gen, newStore(), &mockUserFinder{}, time.Second)

		res, err := uc.Summarize(ctx, "  tender text  ")

		require.NoError(t, err)
		assert.True(t, res.Structured)
		require.NotNil(t, res.Summary)
		assert.Equal(t, "Road works", res.Summary.BriefDescription)
		assert.Equal(t, "ISO 9001; site visit", res.Summary.SpecialRequirements)
		require.Len(t, gen.Prompts, 1)
		assert.Contains(t, gen.Prompts[0], "tender text")
	})

	t.Run("free text fallback", func(t *testing.T) {
		t.Parallel()
		uc := usecase.NewAssistantUsecase(reply("  This tender is about roads.  "), newStore(), &mockUserFinder{}, time.Second)

		res, err := uc.Summarize(ctx, "tender text")

		require.NoError(t, err)
		assert.False(t, res.Structured)
		assert.Nil(t, res.Summary)
		assert.Equal(t, "This tender is about roads.", res.Text)
	})

	t.Run("prompt text is capped", func(t *testing.T) {
		t.Parallel()
		gen := reply("summary")
		uc := usecase.NewAssistantUsecase(gen, newStore(), &mockUserFinder{}, time.Second)

		_, err := uc.Summarize(ctx, strings.Repeat("é", usecase.MaxPromptTextRunes+10))

		require.NoError(t, err)
		assert.Equal(t, usecase.MaxPromptTextRunes, strings.Count(gen.Prompts[0], "é"))
	})

	tests := []struct {
		name    string
		text    string
		gen     *mockGenerator
		wantErr error
		wantMsg string
	}{
		{name: "empty text", text: "  ", gen: reply("x"), wantErr: usecase.ErrTenderTextRequired},
		{name: "oversized text", text: strings.Repeat("a", usecase.MaxInputRunes+1), gen: reply("x"), wantErr: usecase.ErrTenderTextTooLong},
		{
			name:    "upstream failure",
			text:    "tender",
			gen:     &mockGenerator{GenerateFunc: func(context.Context, string) (string, error) { return "", ErrAPI }},
			wantErr: ErrAPI,
			wantMsg: "could not generate summary",
		},
		{name: "empty model response", text: "tender", gen: reply(" \n"), wantMsg: "could not generate summary"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			uc := usecase.NewAssistantUsecase(tt.gen, newStore(), &mockUserFinder{}, time.Second)

			res, err := uc.Summarize(ctx, tt.text)

			require.Error(t, err)
			assert.Nil(t, res)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Equal(t, apperr.KindUpstream, apperr.KindOf(err))
				assert.Equal(t, tt.wantMsg, apperr.Message(err))
			}
		})
	}
}

func TestAssistantUsecase_Timeout(t *testing.T) {
	t.Parallel()

	gen := &mockGenerator{GenerateFunc: func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}
	uc := usecase.NewAssistantUsecase(gen, newStore(), &mockUserFinder{}, 20*time.Millisecond)

	_, err := uc.Summarize(context.Background(), "tender")

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "could not generate summary", apperr.Message(err))
}

func TestAssistantUsecase_CoverLetter(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("uses caller profile when none is given", func(t *testing.T) {
		t.Parallel()
		gen := reply("Dear Sir or Madam,\n")
		store := newStore()
		uc := usecase.NewAssistantUsecase(gen, store, &mockUserFinder{}, time.Second)

		letter, err := uc.CoverLetter(ctx, usecase.CoverLetterInput{UserID: 3, TenderText: "Supply of desks"})

		require.NoError(t, err)
		assert.Equal(t, "Dear Sir or Madam,", letter)
		assert.Contains(t, gen.Prompts[0], "Company: Acme Ltd")
		assert.Contains(t, gen.Prompts[0], "Contact: Ada Lovelace")
		assert.Contains(t, gen.Prompts[0], "Supply of desks")
		assert.Empty(t, store.bidIncrements)
	})

	t.Run("explicit profile wins", func(t *testing.T) {
		t.Parallel()
		gen := reply("letter")
		users := &mockUserFinder{FindByIDFunc: func(context.Context, uint) (*authentity.User, error) {
			t.Fatal("profile should not be loaded")
			return nil, nil
		}}
		uc := usecase.NewAssistantUsecase(gen, newStore(), users, time.Second)

		_, err := uc.CoverLetter(ctx, usecase.CoverLetterInput{
			UserID:         3,
			TenderText:     "Supply of desks",
			CompanyProfile: entity.CompanyProfile{CompanyName: "Globex"},
		})

		require.NoError(t, err)
		assert.Contains(t, gen.Prompts[0], "Company: Globex")
	})

	t.Run("tender id fills text and counts the bid", func(t *testing.T) {
		t.Parallel()
		gen := reply("letter")
		store := newStore()
		uc := usecase.NewAssistantUsecase(gen, store, &mockUserFinder{}, time.Second)

		_, err := uc.CoverLetter(ctx, usecase.CoverLetterInput{UserID: 3, TenderID: uintPtr(6)})

		require.NoError(t, err)
		assert.Contains(t, gen.Prompts[0], "School roof")
		assert.Equal(t, []uint{6}, store.bidIncrements)
	})

	t.Run("bid counter failure is not fatal", func(t *testing.T) {
		t.Parallel()
		store := newStore()
		store.incrementErr = errors.New("db down")
		uc := usecase.NewAssistantUsecase(reply("letter"), store, &mockUserFinder{}, time.Second)

		letter, err := uc.CoverLetter(ctx, usecase.CoverLetterInput{UserID: 3, TenderText: "x", TenderID: uintPtr(5)})

		require.NoError(t, err)
		assert.Equal(t, "letter", letter)
	})

	t.Run("unknown tender", func(t *testing.T) {
		t.Parallel()
		gen := reply("letter")
		uc := usecase.NewAssistantUsecase(gen, newStore(), &mockUserFinder{}, time.Second)

		_, err := uc.CoverLetter(ctx, usecase.CoverLetterInput{UserID: 3, TenderText: "x", TenderID: uintPtr(99)})

		assert.ErrorIs(t, err, tenderusecase.ErrTenderNotFound)
		assert.Empty(t, gen.Prompts)
	})

	t.Run("no bid counted when generation fails", func(t *testing.T) {
		t.Parallel()
		store := newStore()
		gen := &mockGenerator{GenerateFunc: func(context.Context, string) (string, error) { return "", ErrAPI }}
		uc := usecase.NewAssistantUsecase(gen, store, &mockUserFinder{}, time.Second)

		_, err := uc.CoverLetter(ctx, usecase.CoverLetterInput{UserID: 3, TenderID: uintPtr(5)})

		assert.Equal(t, "could not generate cover letter", apperr.Message(err))
		assert.Empty(t, store.bidIncrements)
	})

	t.Run("missing text", func(t *testing.T) {
		t.Parallel()
		uc := usecase.NewAssistantUsecase(reply("x"), newStore(), &mockUserFinder{}, time.Second)

		_, err := uc.CoverLetter(ctx, usecase.CoverLetterInput{UserID: 3})

		assert.ErrorIs(t, err, usecase.ErrTenderTextRequired)
	})
}

func TestAssistantUsecase_ReleaseLetter(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		gen := reply("To whom it may concern")
		uc := usecase.NewAssistantUsecase(gen, newStore(), &mockUserFinder{}, time.Second)

		letter, err := uc.ReleaseLetter(ctx, usecase.ReleaseLetterInput{
			UserID: 1, TenderTitle: "Road works", AuthorizedPerson: "John Mwangi",
		})

		require.NoError(t, err)
		assert.Equal(t, "To whom it may concern", letter)
		assert.Contains(t, gen.Prompts[0], `"Road works"`)
		assert.Contains(t, gen.Prompts[0], "John Mwangi")
		assert.Contains(t, gen.Prompts[0], "Company: Acme Ltd")
	})

	tests := []struct {
		name    string
		in      usecase.ReleaseLetterInput
		wantErr error
	}{
		{"missing title", usecase.ReleaseLetterInput{AuthorizedPerson: "J"}, usecase.ErrTenderTitleRequired},
		{"missing person", usecase.ReleaseLetterInput{TenderTitle: "T"}, usecase.ErrAuthorizedPersonRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			uc := usecase.NewAssistantUsecase(reply("x"), newStore(), &mockUserFinder{}, time.Second)

			_, err := uc.ReleaseLetter(ctx, tt.in)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		})
	}

	t.Run("profile lookup failure", func(t *testing.T) {
		t.Parallel()
		users := &mockUserFinder{FindByIDFunc: func(context.Context, uint) (*authentity.User, error) {
			return nil, errors.New("db down")
		}}
		uc := usecase.NewAssistantUsecase(reply("x"), newStore(), users, time.Second)

		_, err := uc.ReleaseLetter(ctx, usecase.ReleaseLetterInput{UserID: 1, TenderTitle: "T", AuthorizedPerson: "J"})

		require.Error(t, err)
		assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
	})
}

func TestAssistantUsecase_Chat(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("answers from stored text", func(t *testing.T) {
		t.Parallel()
		gen := reply("The deadline is 30 June 2026.")
		uc := usecase.NewAssistantUsecase(gen, newStore(), &mockUserFinder{}, time.Second)

		answer, err := uc.Chat(ctx, 5, "What is the deadline?")

		require.NoError(t, err)
		assert.NotEmpty(t, answer)
		assert.Contains(t, gen.Prompts[0], "Bids close on 30 June 2026.")
		assert.Contains(t, gen.Prompts[0], "Question: What is the deadline?")
	})

	t.Run("falls back to title and description", func(t *testing.T) {
		t.Parallel()
		gen := reply("Block B.")
		uc := usecase.NewAssistantUsecase(gen, newStore(), &mockUserFinder{}, time.Second)

		_, err := uc.Chat(ctx, 6, "Which block?")

		require.NoError(t, err)
		assert.Contains(t, gen.Prompts[0], "School roof\n\nReplace the roof of block B")
	})

	tests := []struct {
		name     string
		tenderID uint
		question string
		wantErr  error
	}{
		{"unknown tender", 99, "What is the deadline?", tenderusecase.ErrTenderNotFound},
		{"missing tender id", 0, "What?", usecase.ErrTenderIDRequired},
		{"empty question", 5, "   ", usecase.ErrQuestionRequired},
		{"question too long", 5, strings.Repeat("q", usecase.MaxQuestionRunes+1), usecase.ErrQuestionTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			gen := reply("x")
			uc := usecase.NewAssistantUsecase(gen, newStore(), &mockUserFinder{}, time.Second)

			_, err := uc.Chat(ctx, tt.tenderID, tt.question)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, gen.Prompts)
		})
	}
}

func TestParseSummary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		in     string
		wantOK bool
		want   string
	}{
		{"bare object", `{"briefDescription":"Roads","timeDuration":"6 months"}`, true, "Roads"},
		{"object with prose around it", "Here you go:\n{\"briefDescription\":\"Roads\"}\nThanks", true, "Roads"},
		{"fenced without language", "```\n{\"briefDescription\":\"Roads\"}\n```", true, "Roads"},
		{"numeric value", `{"briefDescription":"Roads","value":1200000}`, true, "Roads"},
		{"all blank", `{"briefDescription":"","value":"  "}`, false, ""},
		{"unknown keys only", `{"title":"Roads"}`, false, ""},
		{"invalid json", `{"briefDescription":"Roads"`, false, ""},
		{"plain text", "Roads need resurfacing.", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s, ok := usecase.ParseSummary(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				require.NotNil(t, s)
				assert.Equal(t, tt.want, s.BriefDescription)
			}
		})
	}

	s, ok := usecase.ParseSummary(`{"briefDescription":"Roads","value":1200000}`)
	require.True(t, ok)
	assert.Equal(t, "1200000", s.Value)
}
