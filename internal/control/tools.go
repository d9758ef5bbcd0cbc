package control

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"pullrefresh/internal/surface"
	"pullrefresh/internal/trace"
)

const (
	defaultPullSteps = 8
	maxPullSteps     = 1000
	// defaultOvershoot scales the trigger distance for a default pull.
	defaultOvershoot = 1.25
)

var surfaceArg = mcplib.WithString("surface",
	mcplib.Description("Surface identity (optional). Defaults to the server's default surface."),
)

func init() {
	DefaultToolRegistry.Register(
		mcplib.NewTool("submit_offset",
			mcplib.WithDescription("Feeds one scroll-offset sample to a surface and returns its state"),
			mcplib.WithNumber("offset",
				mcplib.Required(),
				mcplib.Description("Overscroll distance in points; positive values pull the list down"),
			),
			surfaceArg,
		),
		func(deps Deps) ToolHandler {
			return func(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
				args, err := GetArgs(req)
				if err != nil {
					return nil, err
				}
				offset, err := GetNumberArg(args, "offset")
				if err != nil {
					return mcplib.NewToolResultError(err.Error()), nil
				}
				s, err := deps.lookup(args)
				if err != nil {
					return mcplib.NewToolResultError(err.Error()), nil
				}

				s.SubmitOffset(offset)
				if err := s.Flush(ctx); err != nil {
					return nil, err
				}
				return jsonResult(statusView(s.ID(), s.Snapshot()))
			}
		},
	)

	DefaultToolRegistry.Register(
		mcplib.NewTool("pull",
			mcplib.WithDescription("Sweeps a full pull gesture (0 to distance and back to 0) over a surface"),
			mcplib.WithNumber("distance",
				mcplib.Description("Peak overscroll (optional). Default: 1.25x the trigger distance"),
			),
			mcplib.WithNumber("steps",
				mcplib.Description("Samples per direction (optional). Default: 8"),
			),
			mcplib.WithBoolean("wait",
				mcplib.Description("Wait until the surface is idle again before returning (optional)"),
			),
			surfaceArg,
		),
		func(deps Deps) ToolHandler {
			return func(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
				args, err := GetArgs(req)
				if err != nil {
					return nil, err
				}
				s, err := deps.lookup(args)
				if err != nil {
					return mcplib.NewToolResultError(err.Error()), nil
				}
				distance, err := GetOptionalNumberArg(args, "distance", defaultOvershoot*s.TriggerDistance())
				if err != nil {
					return mcplib.NewToolResultError(err.Error()), nil
				}
				steps, err := GetOptionalNumberArg(args, "steps", defaultPullSteps)
				if err != nil {
					return mcplib.NewToolResultError(err.Error()), nil
				}
				if steps < 1 || steps > maxPullSteps {
					return mcplib.NewToolResultError(fmt.Sprintf("steps must be within [1,%d]", maxPullSteps)), nil
				}

				for _, off := range trace.Ramp(distance, int(steps)) {
					s.SubmitOffset(off)
				}
				if err := s.Flush(ctx); err != nil {
					return nil, err
				}
				if GetOptionalBoolArg(args, "wait", false) {
					if err := s.WaitIdle(ctx); err != nil {
						return nil, err
					}
				}
				return jsonResult(statusView(s.ID(), s.Snapshot()))
			}
		},
	)

	DefaultToolRegistry.Register(
		mcplib.NewTool("status",
			mcplib.WithDescription("Returns the current pull state and indicator frame of a surface"),
			surfaceArg,
		),
		func(deps Deps) ToolHandler {
			return func(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
				args, err := GetArgs(req)
				if err != nil {
					return nil, err
				}
				s, err := deps.lookup(args)
				if err != nil {
					return mcplib.NewToolResultError(err.Error()), nil
				}
				return jsonResult(statusView(s.ID(), s.Snapshot()))
			}
		},
	)

	DefaultToolRegistry.Register(
		mcplib.NewTool("history",
			mcplib.WithDescription("Returns buffered state and frame events newer than an event id"),
			mcplib.WithNumber("since",
				mcplib.Description("Last event id already seen (optional). Default: 0, the whole buffer"),
			),
			surfaceArg,
		),
		func(deps Deps) ToolHandler {
			return func(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
				args, err := GetArgs(req)
				if err != nil {
					return nil, err
				}
				since, err := GetOptionalNumberArg(args, "since", 0)
				if err != nil {
					return mcplib.NewToolResultError(err.Error()), nil
				}
				s, err := deps.lookup(args)
				if err != nil {
					return mcplib.NewToolResultError(err.Error()), nil
				}
				return jsonResult(eventViews(s.ID(), s.History(int64(since))))
			}
		},
	)

	DefaultToolRegistry.Register(
		mcplib.NewTool("surfaces",
			mcplib.WithDescription("Lists the surfaces created so far"),
		),
		func(deps Deps) ToolHandler {
			return func(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
				return jsonResult(deps.Surfaces.IDs())
			}
		},
	)
}

func (d Deps) lookup(args map[string]any) (*surface.Surface, error) {
	return d.Surfaces.Get(GetOptionalStringArg(args, "surface", d.DefaultSurface))
}

func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return mcplib.NewToolResultText(string(data)), nil
}
