package cli

import (
	"github.com/spf13/cobra"

	httpadapter "github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driving/http"
)

var (
	serveAddr      string
	serveMaxUpload int64
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the upload and query HTTP API",
	Long: `Starts the HTTP API:

  POST /upload               multipart field "file"
  POST /query                {"query": "...", "top_k": 5, "tags": ["Vision"]}
  GET  /documents            processed document names
  GET  /documents/{filename} one processed document
  GET  /health

The listen address defaults to server.addr from the config file.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (default from config, :8000)")
	serveCmd.Flags().Int64Var(&serveMaxUpload, "max-upload", httpadapter.DefaultMaxUploadBytes, "maximum upload size in bytes")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ports := &httpadapter.Ports{
		Ingest:  ingestService,
		Answer:  answerService,
		Library: libraryService,
	}

	server, err := httpadapter.NewServer(ports, taxonomy, httpadapter.WithMaxUploadBytes(serveMaxUpload))
	if err != nil {
		return err
	}

	addr := serveAddr
	if addr == "" {
		addr = serverAddr
	}
	cmd.Printf("Listening on %s\n", addr)
	return server.Run(cmd.Context(), addr)
}
