// Package mcptools serves the task operations as MCP tools over stdio.
package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ternarybob/task/internal/app"
	"github.com/ternarybob/task/pkg/task"
)

// Server exposes an app's operations as MCP tools.
//
// Unlike a CLI invocation there is no end of command, so a changed
// current-context pointer is saved right after context_set.
type Server struct {
	app    *app.App
	server *server.MCPServer
}

// NewServer creates the MCP server for a.
func NewServer(a *app.App, version string) *Server {
	s := &Server{app: a}

	mcpServer := server.NewMCPServer(
		"task",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)
	s.registerTools(mcpServer)

	s.server = mcpServer
	return s
}

// registerTools registers all MCP tools with the server.
func (s *Server) registerTools(mcpServer *server.MCPServer) {
	mcpServer.AddTool(
		mcp.NewTool("context_current",
			mcp.WithDescription("Show the currently selected context."),
		),
		s.handleContextCurrent,
	)

	mcpServer.AddTool(
		mcp.NewTool("context_add",
			mcp.WithDescription("Create a context (a namespace for tasks)."),
			mcp.WithString("name", mcp.Required(), mcp.Description("Context name")),
		),
		s.handleContextAdd,
	)

	mcpServer.AddTool(
		mcp.NewTool("context_list",
			mcp.WithDescription("List all contexts, one per line."),
		),
		s.handleContextList,
	)

	mcpServer.AddTool(
		mcp.NewTool("context_set",
			mcp.WithDescription("Select the current context. Task tools operate on it."),
			mcp.WithString("name", mcp.Required(), mcp.Description("Existing context name")),
		),
		s.handleContextSet,
	)

	mcpServer.AddTool(
		mcp.NewTool("task_add",
			mcp.WithDescription("Create a task in the current context with its ADD note."),
			mcp.WithString("task", mcp.Required(), mcp.Description("Task name, unique within the context")),
			mcp.WithString("description", mcp.Required(), mcp.Description("What the task is about")),
		),
		s.handleTaskAdd,
	)

	mcpServer.AddTool(
		mcp.NewTool("task_step",
			mcp.WithDescription("Append a numbered progress step to an unsolved task."),
			mcp.WithString("task", mcp.Required(), mcp.Description("Task name")),
			mcp.WithString("description", mcp.Required(), mcp.Description("Progress note")),
		),
		s.handleTaskStep,
	)

	mcpServer.AddTool(
		mcp.NewTool("task_solve",
			mcp.WithDescription("Mark a task as solved with a final SOLVE note. A task is solved only once."),
			mcp.WithString("task", mcp.Required(), mcp.Description("Task name")),
			mcp.WithString("description", mcp.Required(), mcp.Description("Resolution note")),
		),
		s.handleTaskSolve,
	)

	mcpServer.AddTool(
		mcp.NewTool("task_show",
			mcp.WithDescription("Show the full step history of a task."),
			mcp.WithString("task", mcp.Required(), mcp.Description("Task name")),
		),
		s.handleTaskShow,
	)

	mcpServer.AddTool(
		mcp.NewTool("task_list",
			mcp.WithDescription("List tasks in the current context with their ADD step and latest status. "+
				"Unsolved tasks by default."),
			mcp.WithBoolean("solved", mcp.Description("List solved tasks only")),
			mcp.WithBoolean("all", mcp.Description("List every task (overrides solved)")),
		),
		s.handleTaskList,
	)
}

// ServeStdio starts the MCP server on stdio.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.server)
}

func toolError(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(app.Describe(err))
}

func required(request mcp.CallToolRequest, key string) (string, *mcp.CallToolResult) {
	v := request.GetString(key, "")
	if strings.TrimSpace(v) == "" {
		return "", mcp.NewToolResultError(fmt.Sprintf("%s parameter is required", key))
	}
	return v, nil
}

func (s *Server) handleContextCurrent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := s.app.CurrentContext()
	if err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(name), nil
}

func (s *Server) handleContextAdd(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, res := required(request, "name")
	if res != nil {
		return res, nil
	}
	if err := s.app.AddContext(name); err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("context %q created", name)), nil
}

func (s *Server) handleContextList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names, err := s.app.ListContexts()
	if err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(strings.Join(names, "\n")), nil
}

func (s *Server) handleContextSet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, res := required(request, "name")
	if res != nil {
		return res, nil
	}
	if err := s.app.SetContext(name); err != nil {
		return toolError(err), nil
	}
	if err := s.app.Save(); err != nil {
		return nil, fmt.Errorf("save current context: %w", err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("current context is now %q", name)), nil
}

func (s *Server) handleTaskAdd(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, res := required(request, "task")
	if res != nil {
		return res, nil
	}
	if err := s.app.AddTask(name, request.GetString("description", "")); err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("task %q created", name)), nil
}

func (s *Server) handleTaskStep(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, res := required(request, "task")
	if res != nil {
		return res, nil
	}
	desc := request.GetString("description", "")
	label, err := s.app.AppendStep(name, desc)
	if err != nil {
		return toolError(err), nil
	}
	step := task.Step{Label: label, Description: desc}
	return mcp.NewToolResultText(task.Render(step, task.ColumnWidth([]task.Label{label}))), nil
}

func (s *Server) handleTaskSolve(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, res := required(request, "task")
	if res != nil {
		return res, nil
	}
	if err := s.app.SolveTask(name, request.GetString("description", "")); err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("task %q solved", name)), nil
}

func (s *Server) handleTaskShow(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, res := required(request, "task")
	if res != nil {
		return res, nil
	}
	steps, err := s.app.ShowTask(name)
	if err != nil {
		return toolError(err), nil
	}

	var sb strings.Builder
	if err := task.RenderHistory(&sb, steps); err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) handleTaskList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := task.FilterUnsolved
	switch {
	case request.GetBool("all", false):
		filter = task.FilterAll
	case request.GetBool("solved", false):
		filter = task.FilterSolved
	}

	summaries, err := s.app.ListTasks(filter)
	if err != nil {
		return toolError(err), nil
	}

	var sb strings.Builder
	if err := task.RenderListing(&sb, summaries); err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(sb.String()), nil
}
