package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/slotboard/internal/domain/project"
)

type toolset struct {
	projects ProjectService
	logger   *slog.Logger
}

func registerTools(server *sdkmcp.Server, t *toolset) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List the caller's projects, newest first",
	}, t.listProjects)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_project",
		Description: "Get a project with its tracks, parts and scenes",
	}, t.getProject)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_project",
		Description: "Create a project with an empty layout of 8 tracks, 4 parts and 16 scenes",
	}, t.createProject)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_project",
		Description: "Update project fields and slot labels in one atomic step",
	}, t.updateProject)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_project",
		Description: "Delete a project and its layout",
	}, t.deleteProject)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "process_project",
		Description: "Start a project backup; status becomes processing, then processed",
	}, t.processProject)
}

func (t *toolset) listProjects(ctx context.Context, _ *sdkmcp.CallToolRequest, _ ListProjectsParams) (*sdkmcp.CallToolResult, ListProjectsResult, error) {
	summaries, err := t.projects.List(ctx, getOwnerID(ctx))
	if err != nil {
		return nil, ListProjectsResult{}, toolError(t.logger, "list_projects", err)
	}
	out := ListProjectsResult{Projects: make([]ProjectSummaryView, 0, len(summaries))}
	for _, s := range summaries {
		out.Projects = append(out.Projects, summaryView(s))
	}
	return nil, out, nil
}

func (t *toolset) getProject(ctx context.Context, _ *sdkmcp.CallToolRequest, in ProjectIDParams) (*sdkmcp.CallToolResult, ProjectView, error) {
	proj, err := t.projects.Get(ctx, getOwnerID(ctx), in.ID)
	if err != nil {
		return nil, ProjectView{}, toolError(t.logger, "get_project", err)
	}
	return nil, projectView(proj), nil
}

func (t *toolset) createProject(ctx context.Context, _ *sdkmcp.CallToolRequest, in CreateProjectParams) (*sdkmcp.CallToolResult, ProjectView, error) {
	proj, err := t.projects.Create(ctx, getOwnerID(ctx), project.CreateRequest{Title: in.Title, Genre: in.Genre})
	if err != nil {
		return nil, ProjectView{}, toolError(t.logger, "create_project", err)
	}
	return nil, projectView(proj), nil
}

func (t *toolset) updateProject(ctx context.Context, _ *sdkmcp.CallToolRequest, in UpdateProjectParams) (*sdkmcp.CallToolResult, ProjectView, error) {
	proj, err := t.projects.Update(ctx, getOwnerID(ctx), in.ID, in.request())
	if err != nil {
		return nil, ProjectView{}, toolError(t.logger, "update_project", err)
	}
	return nil, projectView(proj), nil
}

func (t *toolset) deleteProject(ctx context.Context, _ *sdkmcp.CallToolRequest, in ProjectIDParams) (*sdkmcp.CallToolResult, DeleteProjectResult, error) {
	if err := t.projects.Delete(ctx, getOwnerID(ctx), in.ID); err != nil {
		return nil, DeleteProjectResult{}, toolError(t.logger, "delete_project", err)
	}
	return nil, DeleteProjectResult{ID: in.ID, Deleted: true}, nil
}

func (t *toolset) processProject(ctx context.Context, _ *sdkmcp.CallToolRequest, in ProjectIDParams) (*sdkmcp.CallToolResult, ProcessProjectResult, error) {
	msg, err := t.projects.RequestBackup(ctx, getOwnerID(ctx), in.ID)
	if err != nil {
		return nil, ProcessProjectResult{}, toolError(t.logger, "process_project", err)
	}
	return nil, ProcessProjectResult{ID: in.ID, Message: msg}, nil
}
