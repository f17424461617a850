package stats

import "context"

// DimensionResolver maps event identifiers to the dimension values the
// open and attachment counters are keyed on. A metadata-backed
// implementation can be injected without touching the aggregator.
type DimensionResolver interface {
	EmailCategory(ctx context.Context, emailID string) (string, error)
	AttachmentFileType(ctx context.Context, attachmentID string) (string, error)
}

// StaticResolver returns fixed dimension values regardless of the id.
type StaticResolver struct {
	Category string
	FileType string
}

// NewStaticResolver returns the default resolver used when no metadata
// collaborator is wired in.
func NewStaticResolver() StaticResolver {
	return StaticResolver{Category: "GENERAL", FileType: "PDF"}
}

func (r StaticResolver) EmailCategory(ctx context.Context, emailID string) (string, error) {
	return r.Category, nil
}

func (r StaticResolver) AttachmentFileType(ctx context.Context, attachmentID string) (string, error) {
	return r.FileType, nil
}
