package logger

import (
	"context"
	"os"
	"strings"

	"github.com/grindlemire/graft"
	"go.trai.ch/bex/internal/core/ports"
)

// NodeID is the unique identifier for the logger Graft node.
const NodeID graft.ID = "adapter.logger"

// FormatEnv selects the log format. "json" switches to slog's JSON handler.
const FormatEnv = "BEX_LOG_FORMAT"

func init() {
	graft.Register(graft.Node[ports.Logger]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Logger, error) {
			l := New()
			if strings.EqualFold(os.Getenv(FormatEnv), "json") {
				l.SetJSON(true)
			}
			return l, nil
		},
	})
}
