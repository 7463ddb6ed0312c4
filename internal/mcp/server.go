package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/poglesbyg/nanopore-tracking-app/internal/config"
	"github.com/poglesbyg/nanopore-tracking-app/internal/submission"
)

// Server represents the MCP server instance
type Server struct {
	config            *config.Config
	submissionService *submission.Service
	mcpServer         *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, submissionService *submission.Service) (*Server, error) {
	if submissionService == nil {
		return nil, fmt.Errorf("submissionService cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:            cfg,
		submissionService: submissionService,
		mcpServer:         mcpServer,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	processPDFTool := mcp.NewTool(
		"process_pdf_file",
		mcp.WithDescription("Extract sample submission data from a PDF quote form"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(processPDFTool, s.handleProcessPDFFile)

	processCSVTool := mcp.NewTool(
		"process_csv_file",
		mcp.WithDescription("Extract sample submission data from a CSV manifest"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the CSV file"),
		),
	)
	s.mcpServer.AddTool(processCSVTool, s.handleProcessCSVFile)

	serverInfoTool := mcp.NewTool(
		"submission_server_info",
		mcp.WithDescription("Get server information, available tools, directory contents, and usage guidance"),
	)
	s.mcpServer.AddTool(serverInfoTool, s.handleServerInfo)
}

func (s *Server) handleProcessPDFFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	content, err := s.readDocument(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.submissionService.ProcessPDF(ctx, filepath.Base(path), content)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.formatProcessingResult(result)
}

func (s *Server) handleProcessCSVFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	content, err := s.readDocument(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.submissionService.ProcessCSV(ctx, filepath.Base(path), content)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.formatProcessingResult(result)
}

func (s *Server) handleServerInfo(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.formatServerInfo()), nil
}

// readDocument loads a submission document, enforcing the configured
// size limit before the bytes reach the processing pipeline.
func (s *Server) readDocument(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot access file %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", path)
	}
	if s.config.MaxFileSize > 0 && info.Size() > s.config.MaxFileSize {
		return nil, fmt.Errorf("file size %d exceeds maximum %d bytes", info.Size(), s.config.MaxFileSize)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return content, nil
}

// formatProcessingResult serializes the full result envelope so MCP
// clients get status, records, warnings, and metadata in one payload.
func (s *Server) formatProcessingResult(result *submission.ProcessingResult) (*mcp.CallToolResult, error) {
	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	if result.Status == submission.StatusFailed {
		return mcp.NewToolResultError(string(encoded)), nil
	}
	return mcp.NewToolResultText(string(encoded)), nil
}

func (s *Server) formatServerInfo() string {
	text := fmt.Sprintf("📋 %s v%s - Server Information\n", s.config.ServerName, s.config.Version)
	text += fmt.Sprintf("📁 Default Directory: %s\n", s.config.SubmissionDirectory)
	text += fmt.Sprintf("📏 Max File Size: %d MB\n", s.config.MaxFileSize/(1024*1024))
	text += fmt.Sprintf("🔬 Extraction Profile: %s\n", s.config.Profile)
	if s.config.AIServiceURL != "" {
		text += fmt.Sprintf("🤖 AI Extraction Service: %s\n", s.config.AIServiceURL)
	} else {
		text += "🤖 AI Extraction Service: disabled\n"
	}
	text += "\n"

	// Directory contents
	docs := s.listDocuments()
	if len(docs) > 0 {
		text += fmt.Sprintf("📂 Directory Contents (%d submission files found):\n", len(docs))
		for i, name := range docs {
			if i >= 10 { // Limit to first 10 files for readability
				text += fmt.Sprintf("   ... and %d more files\n", len(docs)-10)
				break
			}
			text += fmt.Sprintf("   %d. %s\n", i+1, name)
		}
		text += "\n"
	} else {
		text += "📂 Directory Contents: No PDF or CSV files found in default directory\n\n"
	}

	// Available tools
	text += "🛠️  Available Tools:\n"
	text += "\n• process_pdf_file\n"
	text += "  Description: Extract sample submission data from a PDF quote form\n"
	text += "  Parameters: path (required) - full path to the PDF file\n"
	text += "\n• process_csv_file\n"
	text += "  Description: Extract sample submission data from a CSV manifest\n"
	text += "  Parameters: path (required) - full path to the CSV file\n"
	text += "\n• submission_server_info\n"
	text += "  Description: Get server information and usage guidance\n"

	text += "\nResults are returned as JSON: status, message, extracted sample records, " +
		"per-row errors, warnings, and processing metadata."
	return text
}

// listDocuments returns the PDF and CSV file names in the configured
// directory, sorted for stable output.
func (s *Server) listDocuments() []string {
	entries, err := os.ReadDir(s.config.SubmissionDirectory)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".pdf", ".csv":
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

// runStdioMode runs the server in stdio mode
func (s *Server) runStdioMode(_ context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting submission MCP server in stdio mode")
		log.Printf("Submission directory: %s", s.config.SubmissionDirectory)
	}

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode runs the server in HTTP server mode
func (s *Server) runServerMode(ctx context.Context) error {
	// The transport library only exposes a stdio listener today.
	log.Printf("Server mode not yet implemented")
	log.Printf("Falling back to stdio mode")
	return s.runStdioMode(ctx)
}
