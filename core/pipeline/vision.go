package pipeline

import (
	"context"
	"os"

	"github.com/siherrmann/kgraph/helper"
	"github.com/siherrmann/kgraph/llm"
	"github.com/siherrmann/kgraph/model"
)

// FailedProcessingText is stored in place of a generated description when the
// vision model call fails, so anchors stay queryable even for failed images.
const FailedProcessingText = "processing failed"

// VisionProcessor generates the two image representations with a vision
// capable completer, a detailed description for retrieval and an entity
// summary for graph construction.
type VisionProcessor struct {
	completer llm.Completer
}

// NewVisionProcessor wraps a vision capable completer.
func NewVisionProcessor(completer llm.Completer) *VisionProcessor {
	return &VisionProcessor{completer: completer}
}

// ExtractImageInfo runs two vision calls against the image, the second one
// conditioned on the description from the first. The image bytes are taken
// from data when present, otherwise read from path. A failed model call
// substitutes FailedProcessingText for the missing representation.
func (v *VisionProcessor) ExtractImageInfo(ctx context.Context, path string, data []byte, surroundingContext string) (*model.ImageInfo, error) {
	if len(data) == 0 {
		read, err := os.ReadFile(path)
		if err != nil {
			return nil, helper.NewError("reading image file", err)
		}
		data = read
	}

	info := &model.ImageInfo{ImagePath: path}

	detailTemplate := NewTemplate(llm.Message{Role: llm.RoleUser, Content: imageDetailPrompt, Images: [][]byte{data}})
	description, err := v.completer.Complete(ctx, detailTemplate.Render(map[string]string{"context": surroundingContext}))
	if err != nil {
		info.DetailedDescription = FailedProcessingText
		info.EntitySummary = FailedProcessingText
		return info, helper.NewError("describing image", err)
	}
	info.DetailedDescription = description

	summaryTemplate := NewTemplate(llm.Message{Role: llm.RoleUser, Content: imageEntitySummaryPrompt, Images: [][]byte{data}})
	summary, err := v.completer.Complete(ctx, summaryTemplate.Render(map[string]string{
		"context":     surroundingContext,
		"description": description,
	}))
	if err != nil {
		info.EntitySummary = FailedProcessingText
		return info, helper.NewError("summarising image entities", err)
	}
	info.EntitySummary = summary

	return info, nil
}

// DescribeTable asks the text model what a table shows, given its textual
// representation and surrounding context.
func (v *VisionProcessor) DescribeTable(ctx context.Context, tableText string, surroundingContext string) (string, error) {
	template := NewTemplate(llm.Message{Role: llm.RoleUser, Content: tableAnalysisPrompt})
	response, err := v.completer.Complete(ctx, template.Render(map[string]string{
		"table":   tableText,
		"context": surroundingContext,
	}))
	if err != nil {
		return FailedProcessingText, helper.NewError("analysing table", err)
	}
	return response, nil
}
