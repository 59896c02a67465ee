package leaf

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/stream"
)

// ErrorReport is handed to TrackError for every error a default error leaf handles.
type ErrorReport struct {
	Err            error
	ErroredLeaf    string
	TargetID       string
	TargetPlatform domain.Platform
}

// ErrorLeafOptions configures NewDefaultErrorLeaf.
type ErrorLeafOptions struct {
	// FormatErrorMessage renders the text shown to the user. Defaults to err.Error().
	FormatErrorMessage func(err error) string
	// TrackError is an optional observability hook.
	TrackError func(ctx context.Context, report ErrorReport)
}

// NewDefaultErrorLeaf returns a leaf that only handles error inputs. It reports
// the error and replies with one text item; every other input falls through.
func NewDefaultErrorLeaf(opts ErrorLeafOptions) Leaf {
	format := opts.FormatErrorMessage
	if format == nil {
		format = func(err error) string { return err.Error() }
	}

	return FromFunc(func(ctx context.Context, req domain.Request, out stream.Observer[domain.Response]) (domain.NextResult, error) {
		input, ok := req.Input.(domain.ErrorInput)
		if !ok {
			return domain.NextFallthrough, nil
		}

		if opts.TrackError != nil {
			opts.TrackError(ctx, ErrorReport{
				Err:            input.Err,
				ErroredLeaf:    input.ErroredLeaf,
				TargetID:       req.TargetID,
				TargetPlatform: req.TargetPlatform,
			})
		}

		return Reply(ctx, out, req, domain.TextContent(format(input.Err)))
	})
}
