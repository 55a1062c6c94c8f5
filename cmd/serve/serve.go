// Package serve handles the HTTP server command
package serve

import (
	"net/http"

	"github.com/spf13/cobra"

	"fjacquet/hkstmt/cmd/root"
	"fjacquet/hkstmt/internal/logging"
	"fjacquet/hkstmt/internal/pdfextract"
	"fjacquet/hkstmt/internal/server"
	"fjacquet/hkstmt/internal/statement"
	"fjacquet/hkstmt/internal/store"
)

var addr string

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve statements over HTTP",
	Long:  `Run the HTTP API: upload statement PDFs, browse stored statements and accounts.`,
	RunE:  serveFunc,
}

func init() {
	Cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides configuration)")
}

func serveFunc(cmd *cobra.Command, args []string) error {
	st, err := store.New(root.Cfg.Data.Directory, root.Log)
	if err != nil {
		return err
	}

	engine := statement.New(root.Log)
	extractor := pdfextract.NewPdftotextExtractor(root.Cfg.Pdftotext.Binary)
	srv := server.New(engine, extractor, st, root.Cfg.Server.Token, root.Log)

	listenAddr := root.Cfg.Server.Addr
	if addr != "" {
		listenAddr = addr
	}
	if root.Cfg.Server.Token == "" {
		root.Log.Warn("no API token configured, serving unauthenticated")
	}
	root.Log.Info("listening", logging.Field{Key: "addr", Value: listenAddr})
	return http.ListenAndServe(listenAddr, srv.Router())
}
