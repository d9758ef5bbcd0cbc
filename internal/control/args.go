package control

import (
	"fmt"
	"math"

	mcplib "github.com/mark3labs/mcp-go/mcp"
)

// GetArgs extracts the arguments map from a CallToolRequest.
// A request without arguments yields an empty map.
func GetArgs(req mcplib.CallToolRequest) (map[string]any, error) {
	if req.Params.Arguments == nil {
		return map[string]any{}, nil
	}
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("invalid arguments format")
	}
	return args, nil
}

// GetNumberArg extracts a required finite number argument.
func GetNumberArg(args map[string]any, name string) (float64, error) {
	v, ok := toFloat(args[name])
	if !ok {
		return 0, fmt.Errorf("%s argument is required and must be a number", name)
	}
	return v, nil
}

// GetOptionalNumberArg extracts an optional number argument, returning
// defaultVal when it is missing. A present but malformed value is an error.
func GetOptionalNumberArg(args map[string]any, name string, defaultVal float64) (float64, error) {
	if _, present := args[name]; !present {
		return defaultVal, nil
	}
	return GetNumberArg(args, name)
}

// GetOptionalStringArg extracts an optional string argument from the arguments map.
// Returns the default value if the argument is missing or not a string.
func GetOptionalStringArg(args map[string]any, name string, defaultVal string) string {
	if val, ok := args[name].(string); ok && val != "" {
		return val
	}
	return defaultVal
}

func toFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// GetOptionalBoolArg extracts an optional boolean argument.
func GetOptionalBoolArg(args map[string]any, name string, defaultVal bool) bool {
	if val, ok := args[name].(bool); ok {
		return val
	}
	return defaultVal
}
