package facebook

import (
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/leaf"
	"github.com/aretw0/arbor/pkg/messenger"
	"github.com/aretw0/arbor/pkg/ports"
)

// NewProcessor builds the Facebook message processor.
func NewProcessor(sel leaf.Leaf, client ports.PlatformClient, middlewares ...messenger.Middleware) (messenger.Processor, error) {
	return messenger.NewProcessor(messenger.Config{
		Platform:   domain.PlatformFacebook,
		Selector:   sel,
		Client:     client,
		Generalize: GeneralizeRequest,
		Translate:  Translate,
	}, middlewares...)
}
