package cel

import (
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"
	exprpb "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// Breadcrumb parses expr and returns the navigation chain it selects, such as
// ["_", "servers", "0", "host"] for "_.servers[0].host". It returns nil for
// expressions that are not a plain field and index chain, or that do not
// parse.
func (e *Evaluator) Breadcrumb(expr string) []string {
	ast, issues := e.env.Parse(strings.TrimSpace(expr))
	if issues != nil && issues.Err() != nil {
		return nil
	}
	parsed, err := cel.AstToParsedExpr(ast)
	if err != nil {
		return nil
	}
	segments, ok := chain(parsed.GetExpr())
	if !ok {
		return nil
	}
	return segments
}

// chain walks a select/index chain from the outermost node inwards.
func chain(e *exprpb.Expr) ([]string, bool) {
	var segments []string
	for e != nil {
		switch kind := e.ExprKind.(type) {
		case *exprpb.Expr_IdentExpr:
			return append([]string{kind.IdentExpr.GetName()}, segments...), true

		case *exprpb.Expr_SelectExpr:
			sel := kind.SelectExpr
			if sel.GetTestOnly() {
				return nil, false
			}
			segments = append([]string{sel.GetField()}, segments...)
			e = sel.GetOperand()

		case *exprpb.Expr_CallExpr:
			call := kind.CallExpr
			if call.GetFunction() != "_[_]" || len(call.GetArgs()) != 2 {
				return nil, false
			}
			lit := call.GetArgs()[1].GetConstExpr()
			if lit == nil {
				return nil, false
			}
			segments = append([]string{constString(lit)}, segments...)
			e = call.GetArgs()[0]

		default:
			return nil, false
		}
	}
	return nil, false
}

func constString(c *exprpb.Constant) string {
	switch kind := c.ConstantKind.(type) {
	case *exprpb.Constant_Int64Value:
		return fmt.Sprintf("%d", kind.Int64Value)
	case *exprpb.Constant_Uint64Value:
		return fmt.Sprintf("%d", kind.Uint64Value)
	case *exprpb.Constant_StringValue:
		return kind.StringValue
	case *exprpb.Constant_BoolValue:
		return fmt.Sprintf("%t", kind.BoolValue)
	case *exprpb.Constant_DoubleValue:
		return fmt.Sprintf("%g", kind.DoubleValue)
	default:
		return "?"
	}
}
