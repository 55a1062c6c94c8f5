// Package export handles the PDF-to-CSV statement command
package export

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fjacquet/hkstmt/cmd/root"
	exportcsv "fjacquet/hkstmt/internal/export"
	"fjacquet/hkstmt/internal/logging"
	"fjacquet/hkstmt/internal/pdfextract"
	"fjacquet/hkstmt/internal/statement"
)

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Parse a statement PDF and export CSV",
	Long:  `Parse an HSBC HK credit card statement PDF and flatten its transactions to CSV.`,
	RunE:  exportFunc,
}

func exportFunc(cmd *cobra.Command, args []string) error {
	if root.SharedFlags.Input == "" {
		return fmt.Errorf("missing required flag: --input")
	}
	root.Log.Info("exporting statement",
		logging.Field{Key: logging.FieldFile, Value: root.SharedFlags.Input})

	engine := statement.New(root.Log)
	extractor := pdfextract.NewPdftotextExtractor(root.Cfg.Pdftotext.Binary)
	record, err := engine.ParseFile(root.SharedFlags.Input, extractor)
	if err != nil {
		return err
	}

	if root.SharedFlags.Output == "" {
		return exportcsv.Write(record, os.Stdout)
	}
	if err := exportcsv.WriteFile(record, root.SharedFlags.Output); err != nil {
		return err
	}
	root.Log.Info("wrote CSV export",
		logging.Field{Key: logging.FieldOutputFile, Value: root.SharedFlags.Output})
	return nil
}
