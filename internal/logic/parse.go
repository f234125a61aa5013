package logic

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"

	"github.com/lawnchairsociety/logicrando/internal/world"
)

var (
	// ErrUnknownName is returned when a rule names an item, event or area the world lacks
	ErrUnknownName = errors.New("unknown name")
	// ErrUnsupported is returned for syntax outside the rule grammar
	ErrUnsupported = errors.New("unsupported rule syntax")
	// ErrCountRange is returned for counts an inventory can never hold
	ErrCountRange = errors.New("count out of range")
)

// Resolver maps the names used in rule text to world IDs. *world.World implements it.
type Resolver interface {
	ItemByName(name string) (world.ItemID, bool)
	EventByName(name string) (world.EventID, bool)
	AreaByName(name string) (world.AreaID, bool)
}

// Parse compiles rule text into a Requirement.
//
// The grammar is a subset of expr syntax:
//
//	Key && (Sword || count("Heart Piece", 4))
//	event("Boss Defeated") and area("Yard", "night")
//	setting("open_gate") || setting("hearts") >= 3
//
// A bare identifier or item("Name") needs one copy of the item. Negation is
// rejected: requirements must stay monotone in the inventory.
func Parse(text string, names Resolver) (Requirement, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Fixed(true), nil
	}

	tree, err := parser.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rule %q: %w", text, err)
	}

	req, err := lower(tree.Node, names)
	if err != nil {
		return nil, fmt.Errorf("rule %q: %w", text, err)
	}
	return simplify(req), nil
}

// MustParse is Parse for rules known to be valid, such as test fixtures.
func MustParse(text string, names Resolver) Requirement {
	req, err := Parse(text, names)
	if err != nil {
		panic(err)
	}
	return req
}

func lower(node ast.Node, names Resolver) (Requirement, error) {
	switch n := node.(type) {
	case *ast.BoolNode:
		return Fixed(n.Value), nil

	case *ast.IdentifierNode:
		return itemRequirement(n.Value, 1, names)

	case *ast.BinaryNode:
		switch n.Operator {
		case "&&", "and", "||", "or":
			l, err := lower(n.Left, names)
			if err != nil {
				return nil, err
			}
			r, err := lower(n.Right, names)
			if err != nil {
				return nil, err
			}
			if n.Operator == "&&" || n.Operator == "and" {
				return And{l, r}, nil
			}
			return Or{l, r}, nil
		case "==", "!=", "<", "<=", ">", ">=":
			return lowerComparison(n)
		}
		return nil, fmt.Errorf("%w: operator %q", ErrUnsupported, n.Operator)

	case *ast.UnaryNode:
		if n.Operator == "!" || n.Operator == "not" {
			return nil, fmt.Errorf("%w: negation", ErrUnsupported)
		}
		return nil, fmt.Errorf("%w: unary %q", ErrUnsupported, n.Operator)

	case *ast.CallNode, *ast.BuiltinNode:
		name, args, err := callParts(n)
		if err != nil {
			return nil, err
		}
		return lowerCall(name, args, names)
	}

	return nil, fmt.Errorf("%w: %T", ErrUnsupported, node)
}

// callParts unifies plain calls and expr builtins such as count, whose
// trailing arguments the parser wraps in predicate nodes.
func callParts(node ast.Node) (string, []ast.Node, error) {
	var name string
	var args []ast.Node

	switch n := node.(type) {
	case *ast.CallNode:
		ident, ok := n.Callee.(*ast.IdentifierNode)
		if !ok {
			return "", nil, fmt.Errorf("%w: computed call", ErrUnsupported)
		}
		name, args = ident.Value, n.Arguments
	case *ast.BuiltinNode:
		name, args = n.Name, n.Arguments
	}

	unwrapped := make([]ast.Node, len(args))
	for i, a := range args {
		if p, ok := a.(*ast.PredicateNode); ok {
			a = p.Node
		}
		unwrapped[i] = a
	}
	return name, unwrapped, nil
}

func lowerCall(fn string, args []ast.Node, names Resolver) (Requirement, error) {
	switch fn {
	case "item":
		if len(args) != 1 {
			return nil, fmt.Errorf("item() takes 1 argument, got %d", len(args))
		}
		name, err := stringArg(fn, args[0])
		if err != nil {
			return nil, err
		}
		return itemRequirement(name, 1, names)

	case "count":
		if len(args) != 2 {
			return nil, fmt.Errorf("count() takes 2 arguments, got %d", len(args))
		}
		name, err := stringArg(fn, args[0])
		if err != nil {
			return nil, err
		}
		n, ok := args[1].(*ast.IntegerNode)
		if !ok {
			return nil, fmt.Errorf("count(): second argument must be an integer")
		}
		if n.Value < 0 {
			return nil, fmt.Errorf("count(): negative count %d", n.Value)
		}
		if n.Value > math.MaxUint8 {
			return nil, fmt.Errorf("count(%q, %d): %w, inventories hold at most %d", name, n.Value, ErrCountRange, math.MaxUint8)
		}
		return itemRequirement(name, n.Value, names)

	case "event":
		if len(args) != 1 {
			return nil, fmt.Errorf("event() takes 1 argument, got %d", len(args))
		}
		name, err := stringArg(fn, args[0])
		if err != nil {
			return nil, err
		}
		id, ok := names.EventByName(name)
		if !ok {
			return nil, fmt.Errorf("%w: event %q", ErrUnknownName, name)
		}
		return Event{ID: id}, nil

	case "area":
		if len(args) != 1 && len(args) != 2 {
			return nil, fmt.Errorf("area() takes 1 or 2 arguments, got %d", len(args))
		}
		name, err := stringArg(fn, args[0])
		if err != nil {
			return nil, err
		}
		id, ok := names.AreaByName(name)
		if !ok {
			return nil, fmt.Errorf("%w: area %q", ErrUnknownName, name)
		}
		tod := world.Both
		if len(args) == 2 {
			s, err := stringArg(fn, args[1])
			if err != nil {
				return nil, err
			}
			if tod, err = world.ParseTimeOfDay(s); err != nil {
				return nil, err
			}
		}
		return Area{ID: id, TimeOfDay: tod}, nil

	case "setting":
		name, err := settingName(args)
		if err != nil {
			return nil, err
		}
		return SettingCheck{Name: name, Op: OpTruthy}, nil
	}

	return nil, fmt.Errorf("%w: function %q", ErrUnsupported, fn)
}

// lowerComparison handles `setting("x") <op> literal`.
func lowerComparison(n *ast.BinaryNode) (Requirement, error) {
	name, args, err := callParts(n.Left)
	if err != nil || name != "setting" {
		return nil, fmt.Errorf("%w: comparisons must have setting(...) on the left", ErrUnsupported)
	}
	key, err := settingName(args)
	if err != nil {
		return nil, err
	}
	op, err := ParseCompareOp(n.Operator)
	if err != nil {
		return nil, err
	}

	var value any
	switch lit := n.Right.(type) {
	case *ast.IntegerNode:
		value = lit.Value
	case *ast.FloatNode:
		value = lit.Value
	case *ast.StringNode:
		value = lit.Value
	case *ast.BoolNode:
		value = lit.Value
	case *ast.NilNode:
		value = nil
	default:
		return nil, fmt.Errorf("%w: setting %q compared to %T", ErrUnsupported, key, n.Right)
	}
	return SettingCheck{Name: key, Op: op, Value: value}, nil
}

func settingName(args []ast.Node) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("setting() takes 1 argument, got %d", len(args))
	}
	return stringArg("setting", args[0])
}

func stringArg(fn string, node ast.Node) (string, error) {
	s, ok := node.(*ast.StringNode)
	if !ok {
		return "", fmt.Errorf("%s(): expected a string literal, got %T", fn, node)
	}
	return s.Value, nil
}

func itemRequirement(name string, count int, names Resolver) (Requirement, error) {
	id, ok := names.ItemByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: item %q", ErrUnknownName, name)
	}
	if count == 0 {
		return Fixed(true), nil
	}
	return ItemCount{Item: id, Count: count}, nil
}

// simplify flattens nested And/Or chains produced by the binary parse tree
// and folds constants.
func simplify(r Requirement) Requirement {
	switch v := r.(type) {
	case And:
		var out And
		for _, child := range v {
			child = simplify(child)
			switch c := child.(type) {
			case Fixed:
				if !c {
					return Fixed(false)
				}
				continue
			case And:
				out = append(out, c...)
				continue
			}
			out = append(out, child)
		}
		if len(out) == 0 {
			return Fixed(true)
		}
		if len(out) == 1 {
			return out[0]
		}
		return out
	case Or:
		var out Or
		for _, child := range v {
			child = simplify(child)
			switch c := child.(type) {
			case Fixed:
				if c {
					return Fixed(true)
				}
				continue
			case Or:
				out = append(out, c...)
				continue
			}
			out = append(out, child)
		}
		if len(out) == 0 {
			return Fixed(false)
		}
		if len(out) == 1 {
			return out[0]
		}
		return out
	}
	return r
}
