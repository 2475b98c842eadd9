package cli

import (
	"github.com/spf13/cobra"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driving/mcp"
)

var mcpHTTPAddr string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol server",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose the library to MCP clients",
	Long: `Serves three tools and one resource to MCP clients:

  query            answer a question from the tagged library
  upload_file      ingest a file by path or base64 content
  list_documents   processed document names
  heartgpt://documents/{filename}   one processed document as JSON

JSON-RPC runs over stdio unless --http is given, in which case the
streamable HTTP transport listens on that address.

Client configuration:
  {
    "mcpServers": {
      "heartgpt": {"command": "heartgpt", "args": ["mcp", "serve"]}
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().StringVar(&mcpHTTPAddr, "http", "", "serve streamable HTTP on this address instead of stdio (e.g. :8080)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	server, err := mcp.NewServer(&mcp.Ports{
		Answer:  answerService,
		Ingest:  ingestService,
		Library: libraryService,
	}, taxonomy)
	if err != nil {
		return err
	}

	if mcpHTTPAddr == "" {
		return server.Run(cmd.Context())
	}
	cmd.PrintErrf("MCP listening on %s\n", mcpHTTPAddr)
	return server.RunHTTP(cmd.Context(), mcpHTTPAddr)
}
