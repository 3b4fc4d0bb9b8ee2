package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rezonia/efactura-reconciler/internal/attachment"
	"github.com/rezonia/efactura-reconciler/internal/logger"
	"github.com/rezonia/efactura-reconciler/internal/model"
	"github.com/rezonia/efactura-reconciler/internal/processor"
)

var (
	attachmentsFilter    filterFlags
	attachmentsOutput    string
	attachmentsOverwrite bool
)

var attachmentsCmd = &cobra.Command{
	Use:   "attachments [paths...]",
	Short: "Extract embedded attachments (usually the PDF rendition)",
	Long: `Decode the files embedded in AdditionalDocumentReference elements and
write them to the output directory. Files are named after the attachment, or
after supplier, date, number and payable amount when the attachment has no name.

Examples:
  efactura-reconciler attachments --output pdfs/
  efactura-reconciler attachments dlds/4211.zip --output pdfs/ --overwrite`,
	RunE: runAttachments,
}

func init() {
	rootCmd.AddCommand(attachmentsCmd)
	attachmentsFilter.register(attachmentsCmd)

	attachmentsCmd.Flags().StringVarP(&attachmentsOutput, "output", "o", "attachments", "Output directory")
	attachmentsCmd.Flags().BoolVar(&attachmentsOverwrite, "overwrite", false, "Replace files that already exist")
}

func runAttachments(cmd *cobra.Command, args []string) error {
	filter, err := attachmentsFilter.filter()
	if err != nil {
		return err
	}

	results, err := runBatch(cmd.Context(), args, processor.Request{Filter: filter, ParseOnly: true})
	if err != nil {
		return err
	}
	docs := processor.Documents(successful(results))
	if len(docs) == 0 {
		return model.ErrNoDocuments
	}

	writer := attachment.NewWriter(attachmentsOutput,
		attachment.WithOverwrite(attachmentsOverwrite),
		attachment.WithWriterLogger(logger.WithComponent("attachment")),
	)

	written := 0
	for _, doc := range docs {
		infos, err := writer.Write(doc)
		if err != nil {
			log.Error().Err(err).Str("document", doc.ID).Msg("cannot extract attachments")
			continue
		}
		for _, info := range infos {
			printVerbose("  %s -> %s\n", doc.ID, info.FileName)
		}
		written += len(infos)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d attachments written to %s from %d documents\n", written, attachmentsOutput, len(docs))
	return nil
}
