package load

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/syssam/lowcode/compiler/design"
	"github.com/syssam/lowcode/schema/argument"
)

// typeExpr converts a type expression such as `string(80)` or
// `array(objectid(Customer))` to the argument called name. Object names
// resolve in the namespace of m.
func typeExpr(m *design.Module, name string, expr hcl.Expression) (argument.Content, hcl.Diagnostics) {
	if keyword := hcl.ExprAsKeyword(expr); keyword != "" {
		switch keyword {
		case "integer":
			return argument.Int(name), nil
		case "string", "faulty_string", "object", "objectid", "array":
			return nil, diagnostic("Missing type argument",
				fmt.Sprintf("The type %s takes one argument, e.g. %s.", keyword, example(keyword)), expr.Range())
		default:
			return nil, unsupportedType(keyword, expr.Range())
		}
	}
	call, diags := hcl.ExprCall(expr)
	if diags.HasErrors() {
		return nil, diagnostic("Invalid type expression",
			"A type is a keyword such as integer, or a call such as string(80).", expr.Range())
	}
	if len(call.Arguments) != 1 {
		return nil, diagnostic("Invalid type expression",
			fmt.Sprintf("The type %s takes exactly one argument, got %d.", call.Name, len(call.Arguments)), call.ArgsRange)
	}
	arg := call.Arguments[0]
	switch call.Name {
	case "string", "faulty_string":
		n, diags := length(arg)
		if diags.HasErrors() {
			return nil, diags
		}
		if call.Name == "faulty_string" {
			return argument.FaultyString(name, n), nil
		}
		return argument.String(name, n), nil
	case "object", "objectid":
		objectName := hcl.ExprAsKeyword(arg)
		o, ok := m.Object(objectName)
		if !ok {
			return nil, diagnostic("Unknown object",
				fmt.Sprintf("There is no object %q in module %s.", objectName, m.Name()), arg.Range())
		}
		if call.Name == "object" {
			return argument.Ref(name, o), nil
		}
		return argument.ID(name, o), nil
	case "array":
		elem, diags := typeExpr(m, name, arg)
		if diags.HasErrors() {
			return nil, diags
		}
		return argument.ArrayOf(elem), nil
	default:
		return nil, unsupportedType(call.Name, call.NameRange)
	}
}

// length evaluates the maximum length argument of a string type.
func length(expr hcl.Expression) (int, hcl.Diagnostics) {
	v, diags := expr.Value(nil)
	if diags.HasErrors() {
		return 0, diags
	}
	var n int
	if !v.Type().Equals(cty.Number) || gocty.FromCtyValue(v, &n) != nil || n <= 0 {
		return 0, diagnostic("Invalid string length",
			"The maximum length of a string must be a positive whole number.", expr.Range())
	}
	return n, nil
}

var types = []string{"integer", "string", "faulty_string", "object", "objectid", "array"}

func unsupportedType(keyword string, rng hcl.Range) hcl.Diagnostics {
	return diagnostic("Unsupported type",
		fmt.Sprintf("The keyword %q is not a valid type. Supported types are: %s.", keyword, strings.Join(types, ", ")), rng)
}

func example(keyword string) string {
	switch keyword {
	case "object", "objectid":
		return keyword + "(Customer)"
	case "array":
		return "array(integer)"
	default:
		return keyword + "(80)"
	}
}
