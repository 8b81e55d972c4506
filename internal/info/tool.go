package info

import (
	"context"

	"github.com/wakacore/info-agent-mcp/pkg/types"
)

// Tool is implemented by every info provider tool. Execute takes the raw
// tools/call argument map and returns a JSON-serializable value; the protocol
// core owns the wrapping into content blocks.
type Tool interface {
	Name() string
	Description() string
	Schema() types.Schema
	Execute(ctx context.Context, args map[string]interface{}) (interface{}, error)
}

// All returns the full tool catalogue in registration order.
func All(client *Client) []Tool {
	return []Tool{
		NewWeatherTool(client),
		NewNewsTool(client),
		NewSearchTool(client),
		NewCurrencyTool(client),
		NewCalculatorTool(),
		NewPrayerTimesTool(client),
	}
}
