package info

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/expr-lang/expr"

	"github.com/wakacore/info-agent-mcp/pkg/types"
)

// CalculatorTool evaluates arithmetic expressions locally with expr-lang.
// It is the only tool with no remote provider behind it.
type CalculatorTool struct{}

type CalculateArgs struct {
	Expression string `json:"expression"`
}

// percentPattern rewrites "20% de 500" / "20% of 500" into plain arithmetic.
var percentPattern = regexp.MustCompile(`(?i)([0-9]+(?:\.[0-9]+)?)\s*%\s*(?:de|of)\s*([0-9]+(?:\.[0-9]+)?)`)

func NewCalculatorTool() *CalculatorTool {
	return &CalculatorTool{}
}

func (t *CalculatorTool) Name() string {
	return "calculate"
}

func (t *CalculatorTool) Description() string {
	return `Effectue des calculs mathématiques.

OPÉRATIONS SUPPORTÉES:
- Basiques: +, -, *, /
- Pourcentages: "20% de 500"
- Racines: sqrt(16)
- Puissances: 2**3

EXEMPLES: "2 + 2", "100 * 0.19", "sqrt(144)"`
}

func (t *CalculatorTool) Schema() types.Schema {
	return types.Schema{
		Type: "object",
		Properties: map[string]types.Schema{
			"expression": {
				Type:        "string",
				Description: "Expression mathématique à calculer",
			},
		},
		Required: []string{"expression"},
	}
}

func (t *CalculatorTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	var params CalculateArgs
	if err := bindArgs(args, &params); err != nil {
		return nil, err
	}

	expression := strings.TrimSpace(params.Expression)
	if expression == "" {
		return nil, fmt.Errorf("expression parameter is required")
	}

	rewritten := percentPattern.ReplaceAllString(expression, "($1 / 100.0 * $2)")

	env := map[string]interface{}{
		"sqrt": func(x float64) float64 { return math.Sqrt(x) },
		"pow":  func(x, y float64) float64 { return math.Pow(x, y) },
		"pi":   math.Pi,
	}

	value, err := expr.Eval(rewritten, env)
	if err != nil {
		return nil, fmt.Errorf("expression invalide: %v", err)
	}

	switch value.(type) {
	case int, int64, float64:
	default:
		return nil, fmt.Errorf("expression invalide: résultat non numérique")
	}

	return map[string]interface{}{
		"expression": expression,
		"result":     value,
	}, nil
}
