package logic

import (
	"fmt"

	"github.com/lawnchairsociety/logicrando/internal/world"
)

// Settings holds the player-chosen options of one world, decoded from YAML.
// Logic only ever reads it through SettingCheck.
type Settings map[string]any

// CompareOp is the comparison a SettingCheck applies.
type CompareOp string

const (
	OpTruthy CompareOp = "truthy"
	OpEq     CompareOp = "=="
	OpNe     CompareOp = "!="
	OpLt     CompareOp = "<"
	OpLe     CompareOp = "<="
	OpGt     CompareOp = ">"
	OpGe     CompareOp = ">="
)

// ParseCompareOp validates a comparison operator string.
func ParseCompareOp(s string) (CompareOp, error) {
	switch op := CompareOp(s); op {
	case OpTruthy, OpEq, OpNe, OpLt, OpLe, OpGt, OpGe:
		return op, nil
	default:
		return "", fmt.Errorf("unknown comparison %q", s)
	}
}

// SettingCheck gates logic on a player option. It carries the option name and
// the literal to compare against instead of a callback, so rule tables stay
// plain data.
type SettingCheck struct {
	Name  string
	Op    CompareOp
	Value any
}

// Satisfied implements Requirement
func (r SettingCheck) Satisfied(_ *Inventory, settings Settings, _ world.TimeOfDay) bool {
	return settings.Check(r.Name, r.Op, r.Value)
}

func (r SettingCheck) String() string {
	if r.Op == OpTruthy {
		return fmt.Sprintf("setting(%q)", r.Name)
	}
	return fmt.Sprintf("setting(%q) %s %v", r.Name, r.Op, r.Value)
}

// Bool returns a setting as a bool; missing or non-bool values are false.
func (s Settings) Bool(name string) bool {
	return truthy(s[name])
}

// Int returns a numeric setting truncated to int, or def when missing.
func (s Settings) Int(name string, def int) int {
	if f, ok := toFloat(s[name]); ok {
		return int(f)
	}
	return def
}

// String returns a string setting, or def when missing.
func (s Settings) String(name, def string) string {
	if v, ok := s[name].(string); ok {
		return v
	}
	return def
}

// Check applies op to the named setting and want.
// Missing settings compare as the zero value of want's type.
func (s Settings) Check(name string, op CompareOp, want any) bool {
	got, present := s[name]

	if op == OpTruthy {
		return truthy(got)
	}

	// Numbers compare numerically regardless of YAML's int/float decoding
	if w, ok := toFloat(want); ok {
		g, gok := toFloat(got)
		if !gok {
			if present {
				return op == OpNe
			}
			g = 0
		}
		return compareFloat(g, op, w)
	}

	switch w := want.(type) {
	case bool:
		g := truthy(got)
		switch op {
		case OpEq:
			return g == w
		case OpNe:
			return g != w
		}
		return false
	case string:
		g, _ := got.(string)
		switch op {
		case OpEq:
			return g == w
		case OpNe:
			return g != w
		case OpLt:
			return g < w
		case OpLe:
			return g <= w
		case OpGt:
			return g > w
		case OpGe:
			return g >= w
		}
		return false
	case nil:
		switch op {
		case OpEq:
			return got == nil
		case OpNe:
			return got != nil
		}
	}
	return false
}

func compareFloat(g float64, op CompareOp, w float64) bool {
	switch op {
	case OpEq:
		return g == w
	case OpNe:
		return g != w
	case OpLt:
		return g < w
	case OpLe:
		return g <= w
	case OpGt:
		return g > w
	case OpGe:
		return g >= w
	default:
		return false
	}
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != "" && x != "false" && x != "off"
	default:
		if f, ok := toFloat(v); ok {
			return f != 0
		}
		return true
	}
}

// toFloat normalises the numeric types YAML and callers produce.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
