package extract

import (
	"context"
	"errors"
	"os"
	"testing"

	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/googleapis/gax-go/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/rpc/status"

	"tender_backend/internal/platform/apperr"
	"tender_backend/internal/platform/metrics"
)

type engineFunc func(ctx context.Context, data []byte) (string, error)

func (f engineFunc) Extract(ctx context.Context, data []byte) (string, error) { return f(ctx, data) }

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"collapses spaces", "Deadline:   30\tJune ", "Deadline: 30 June"},
		{"keeps one blank line", "a\r\n\r\n\r\n\nb", "a\n\nb"},
		{"drops leading and trailing blank lines", "\n\n  a  \n\n", "a"},
		{"only whitespace", " \t\n ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestRouter_Extract(t *testing.T) {
	t.Parallel()

	r := NewRouter("router-test", map[string]Engine{
		".txt": Text{},
		".pdf": engineFunc(func(context.Context, []byte) (string, error) { return "", errors.New("boom") }),
	})

	text, err := r.Extract(context.Background(), "Notice.TXT", []byte("\xef\xbb\xbfThe deadline is  30 June.\n"))
	require.NoError(t, err)
	assert.Equal(t, "The deadline is 30 June.", text)

	_, err = r.Extract(context.Background(), "scan.pdf", []byte("%PDF"))
	require.Error(t, err)
	assert.Equal(t, apperr.KindExtraction, apperr.KindOf(err))

	_, err = r.Extract(context.Background(), "blank.txt", []byte("   \n\n"))
	assert.ErrorIs(t, err, ErrNoText)

	_, err = r.Extract(context.Background(), "sheet.xlsx", []byte("x"))
	assert.Error(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Extractions.WithLabelValues("router-test", "ok")))
	assert.Equal(t, float64(3), testutil.ToFloat64(metrics.Extractions.WithLabelValues("router-test", "error")))
}

func TestRouter_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLocal().Extract(ctx, "a.txt", []byte("text"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestText_RejectsBinary(t *testing.T) {
	t.Parallel()

	_, err := Text{}.Extract(context.Background(), []byte{0xff, 0xfe, 0x00})
	assert.Error(t, err)

	_, err = Text{}.Extract(context.Background(), []byte("abc\x00def"))
	assert.Error(t, err)
}

func TestPDF_Malformed(t *testing.T) {
	t.Parallel()

	inputs := [][]byte{
		nil,
		[]byte("not a pdf at all"),
		append([]byte("%PDF-1.4\n"), make([]byte, 200)...),
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() {
			_, err := PDF{}.Extract(context.Background(), in)
			assert.Error(t, err)
		})
	}
}

func TestPDF_Extract(t *testing.T) {
	t.Parallel()

	data, err := os.ReadFile("testdata/notice.pdf")
	require.NoError(t, err)

	text, err := PDF{}.Extract(context.Background(), data)

	require.NoError(t, err)
	assert.Contains(t, text, "Deadline is 2026-12-01")
}

func TestLocal_ExtractsPDF(t *testing.T) {
	t.Parallel()

	data, err := os.ReadFile("testdata/notice.pdf")
	require.NoError(t, err)

	text, err := NewLocal().Extract(context.Background(), "Notice.PDF", data)

	require.NoError(t, err)
	assert.Contains(t, text, "Supply of office desks.")
	assert.Contains(t, text, "Deadline is 2026-12-01")
	assert.Equal(t, Normalize(text), text)
}

type fakeAnnotator struct {
	totalPages int32
	failPage   int32
	calls      [][]int32
}

func (f *fakeAnnotator) BatchAnnotateFiles(_ context.Context, req *visionpb.BatchAnnotateFilesRequest, _ ...gax.CallOption) (*visionpb.BatchAnnotateFilesResponse, error) {
	pages := req.GetRequests()[0].GetPages()
	f.calls = append(f.calls, pages)

	file := &visionpb.AnnotateFileResponse{TotalPages: f.totalPages}
	for _, p := range pages {
		if p > f.totalPages {
			break
		}
		img := &visionpb.AnnotateImageResponse{
			FullTextAnnotation: &visionpb.TextAnnotation{Text: "page " + string(rune('0'+p%10))},
		}
		if p == f.failPage {
			img.Error = &status.Status{Message: "bad page"}
		}
		file.Responses = append(file.Responses, img)
	}
	return &visionpb.BatchAnnotateFilesResponse{Responses: []*visionpb.AnnotateFileResponse{file}}, nil
}

func (f *fakeAnnotator) Close() error { return nil }

func TestVision_Extract(t *testing.T) {
	t.Parallel()

	t.Run("walks five page windows", func(t *testing.T) {
		fake := &fakeAnnotator{totalPages: 7}
		v := &Vision{client: fake}

		text, err := v.Extract(context.Background(), []byte("%PDF"))

		require.NoError(t, err)
		require.Len(t, fake.calls, 2)
		assert.Equal(t, []int32{1, 2, 3, 4, 5}, fake.calls[0])
		assert.Equal(t, []int32{6, 7, 8, 9, 10}, fake.calls[1])
		assert.Contains(t, text, "page 1")
		assert.Contains(t, text, "page 7")
	})

	t.Run("single window", func(t *testing.T) {
		fake := &fakeAnnotator{totalPages: 5}

		_, err := (&Vision{client: fake}).Extract(context.Background(), []byte("%PDF"))

		require.NoError(t, err)
		assert.Len(t, fake.calls, 1)
	})

	t.Run("page error", func(t *testing.T) {
		fake := &fakeAnnotator{totalPages: 3, failPage: 2}

		_, err := (&Vision{client: fake}).Extract(context.Background(), []byte("%PDF"))

		assert.ErrorContains(t, err, "bad page")
	})
}
