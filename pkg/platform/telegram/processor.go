package telegram

import (
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/leaf"
	"github.com/aretw0/arbor/pkg/messenger"
	"github.com/aretw0/arbor/pkg/ports"
)

// NewProcessor builds the Telegram message processor.
func NewProcessor(sel leaf.Leaf, client ports.PlatformClient, middlewares ...messenger.Middleware) (messenger.Processor, error) {
	return messenger.NewProcessor(messenger.Config{
		Platform:   domain.PlatformTelegram,
		Selector:   sel,
		Client:     client,
		Generalize: GeneralizeRequest,
		Translate:  Translate,
	}, middlewares...)
}
