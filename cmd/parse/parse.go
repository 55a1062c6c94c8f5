// Package parse handles the PDF-to-JSON statement command
package parse

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fjacquet/hkstmt/cmd/root"
	"fjacquet/hkstmt/internal/fileutils"
	"fjacquet/hkstmt/internal/logging"
	"fjacquet/hkstmt/internal/pdfextract"
	"fjacquet/hkstmt/internal/statement"
)

// Cmd represents the parse command
var Cmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse a statement PDF to JSON",
	Long:  `Parse an HSBC HK credit card statement PDF and emit the canonical JSON record.`,
	RunE:  parseFunc,
}

func parseFunc(cmd *cobra.Command, args []string) error {
	if root.SharedFlags.Input == "" {
		return fmt.Errorf("missing required flag: --input")
	}
	root.Log.Info("parsing statement",
		logging.Field{Key: logging.FieldFile, Value: root.SharedFlags.Input})

	engine := statement.New(root.Log)
	extractor := pdfextract.NewPdftotextExtractor(root.Cfg.Pdftotext.Binary)
	record, err := engine.ParseFile(root.SharedFlags.Input, extractor)
	if err != nil {
		return err
	}

	var data []byte
	if root.SharedFlags.Pretty {
		data, err = json.MarshalIndent(record, "", "  ")
	} else {
		data, err = json.Marshal(record)
	}
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	data = append(data, '\n')

	if root.SharedFlags.Output == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := fileutils.WriteFile(root.SharedFlags.Output, data, 0600); err != nil {
		return err
	}
	root.Log.Info("wrote statement record",
		logging.Field{Key: logging.FieldOutputFile, Value: root.SharedFlags.Output})
	return nil
}
