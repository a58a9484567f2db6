package extract

import (
	"context"
	"fmt"
	"strings"

	gvision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/googleapis/gax-go/v2"
)

const (
	// visionPagesPerCall is the page limit of the synchronous files API.
	visionPagesPerCall = 5
	visionMaxPages     = 100
)

// fileAnnotator is the subset of the Vision client used here.
type fileAnnotator interface {
	BatchAnnotateFiles(ctx context.Context, req *visionpb.BatchAnnotateFilesRequest, opts ...gax.CallOption) (*visionpb.BatchAnnotateFilesResponse, error)
	Close() error
}

// Vision runs Cloud Vision DOCUMENT_TEXT_DETECTION over a PDF, five pages per request.
// It handles scanned documents that have no text layer.
type Vision struct {
	client fileAnnotator
}

// NewVision creates a Vision engine using Application Default Credentials.
func NewVision(ctx context.Context) (*Vision, error) {
	client, err := gvision.NewImageAnnotatorClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create vision client: %w", err)
	}
	return &Vision{client: client}, nil
}

// NewVisionRouter routes PDFs to v and text files to the plain reader.
func NewVisionRouter(v *Vision) *Router {
	return NewRouter(EngineVision, map[string]Engine{
		".pdf": v,
		".txt": Text{},
	})
}

// Close releases the Vision client.
func (v *Vision) Close() error {
	return v.client.Close()
}

func (v *Vision) Extract(ctx context.Context, data []byte) (string, error) {
	var pages []string
	for first := int32(1); first <= visionMaxPages; first += visionPagesPerCall {
		window := make([]int32, 0, visionPagesPerCall)
		for p := first; p < first+visionPagesPerCall; p++ {
			window = append(window, p)
		}

		resp, err := v.client.BatchAnnotateFiles(ctx, &visionpb.BatchAnnotateFilesRequest{
			Requests: []*visionpb.AnnotateFileRequest{{
				InputConfig: &visionpb.InputConfig{Content: data, MimeType: "application/pdf"},
				Features:    []*visionpb.Feature{{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION}},
				Pages:       window,
			}},
		})
		if err != nil {
			return "", fmt.Errorf("vision API request failed: %w", err)
		}
		if len(resp.GetResponses()) == 0 {
			break
		}

		file := resp.GetResponses()[0]
		for _, img := range file.GetResponses() {
			if msg := img.GetError().GetMessage(); msg != "" {
				return "", fmt.Errorf("vision API error: %s", msg)
			}
			pages = append(pages, img.GetFullTextAnnotation().GetText())
		}

		if total := file.GetTotalPages(); total == 0 || total < first+visionPagesPerCall {
			break
		}
	}
	return strings.Join(pages, "\n\n"), nil
}
