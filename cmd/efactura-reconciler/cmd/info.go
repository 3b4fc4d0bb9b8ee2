package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/efactura-reconciler/internal/attachment"
	"github.com/rezonia/efactura-reconciler/internal/parser/ubl"
	"github.com/rezonia/efactura-reconciler/internal/processor"
)

var infoCmd = &cobra.Command{
	Use:   "info [paths...]",
	Short: "Show information about e-Factura files",
	Long: `Display information about files without reconciling them.

Shows:
  - Detected file format (XML, ZIP, PDF)
  - Document kind, number, supplier and line count
  - Embedded attachments, with page counts for PDFs

Examples:
  efactura-reconciler info dlds/4211.xml
  efactura-reconciler info dlds/ -f json`,
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

// FileInfo describes one input file
type FileInfo struct {
	File     string         `json:"file"`
	Size     int64          `json:"size"`
	Modified time.Time      `json:"modified"`
	Format   string         `json:"format"`
	Pages    int            `json:"pages,omitempty"`
	Entries  []DocumentInfo `json:"documents,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// DocumentInfo describes one UBL document, alone or inside an archive
type DocumentInfo struct {
	Name        string            `json:"name,omitempty"`
	Outline     *ubl.Outline      `json:"outline,omitempty"`
	Kind        string            `json:"kind,omitempty"`
	ID          string            `json:"id,omitempty"`
	Supplier    string            `json:"supplier,omitempty"`
	IssueDate   string            `json:"issue_date,omitempty"`
	Currency    string            `json:"currency,omitempty"`
	Attachments []attachment.Info `json:"attachments,omitempty"`
	Error       string            `json:"error,omitempty"`
}

func runInfo(cmd *cobra.Command, args []string) error {
	files, err := inputFiles(args)
	if err != nil {
		return err
	}

	pipeline := newPipeline()
	infos := make([]FileInfo, 0, len(files))
	for _, file := range files {
		infos = append(infos, fileInfo(cmd.Context(), pipeline, file))
	}

	if outputFormat == formatJSON {
		return outputJSON(cmd.OutOrStdout(), infos)
	}
	for _, info := range infos {
		printFileInfo(cmd.OutOrStdout(), info)
	}
	return nil
}

func fileInfo(ctx context.Context, pipeline *processor.Pipeline, filePath string) FileInfo {
	info := FileInfo{File: filePath}

	stat, err := os.Stat(filePath)
	if err != nil {
		info.Error = err.Error()
		return info
	}
	info.Size = stat.Size()
	info.Modified = stat.ModTime()

	data, err := os.ReadFile(filePath)
	if err != nil {
		info.Error = fmt.Sprintf("failed to read file: %v", err)
		return info
	}

	format := processor.DetectFormat(data)
	info.Format = format.String()

	switch format {
	case processor.FormatXML:
		info.Entries = []DocumentInfo{documentInfo(ctx, pipeline, "", data)}
	case processor.FormatZIP:
		entries, err := processor.ReadZip(data)
		if err != nil {
			info.Error = err.Error()
			return info
		}
		for _, e := range entries {
			info.Entries = append(info.Entries, documentInfo(ctx, pipeline, e.Name, e.Data))
		}
	case processor.FormatPDF:
		if info.Pages, err = attachment.PageCount(data); err != nil {
			info.Error = err.Error()
		}
	}
	return info
}

func documentInfo(ctx context.Context, pipeline *processor.Pipeline, name string, data []byte) DocumentInfo {
	out := DocumentInfo{Name: name}

	outline, err := ubl.Inspect(data)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	out.Outline = outline

	doc, err := pipeline.Parse(ctx, data)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	out.Kind = string(doc.Kind)
	out.ID = doc.ID
	out.Supplier = doc.SupplierName()
	out.IssueDate = doc.IssueDate.Format(time.DateOnly)
	out.Currency = doc.Currency()
	if out.Attachments, err = attachment.Inspect(doc); err != nil {
		out.Error = err.Error()
	}
	return out
}

func printFileInfo(w io.Writer, info FileInfo) {
	fmt.Fprintf(w, "File: %s\n", info.File)
	if info.Format != "" {
		fmt.Fprintf(w, "  Size: %d bytes\n", info.Size)
		fmt.Fprintf(w, "  Modified: %s\n", info.Modified.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(w, "  Format: %s\n", info.Format)
	}
	if info.Pages > 0 {
		fmt.Fprintf(w, "  Pages: %d\n", info.Pages)
	}
	if info.Error != "" {
		fmt.Fprintf(w, "  Error: %s\n", info.Error)
	}

	for _, d := range info.Entries {
		indent := "  "
		if d.Name != "" {
			fmt.Fprintf(w, "  Entry: %s\n", d.Name)
			indent = "    "
		}
		if d.Outline != nil {
			fmt.Fprintf(w, "%sRoot: %s (UBL %s)\n", indent, d.Outline.Root, dash(d.Outline.UBLVersion))
			fmt.Fprintf(w, "%sCustomization: %s\n", indent, dash(d.Outline.CustomizationID))
			fmt.Fprintf(w, "%sLines: %d, signed: %t\n", indent, d.Outline.Lines, d.Outline.Signed)
		}
		if d.ID != "" {
			fmt.Fprintf(w, "%s%s %s from %s, issued %s (%s)\n", indent, d.Kind, d.ID, d.Supplier, d.IssueDate, d.Currency)
		}
		for _, a := range d.Attachments {
			fmt.Fprintf(w, "%sAttachment: %s, %s, %d bytes", indent, a.FileName, dash(a.MimeCode), a.Size)
			switch {
			case a.Pages > 0:
				fmt.Fprintf(w, ", %d pages", a.Pages)
			case a.PDFError != "":
				fmt.Fprintf(w, ", unreadable PDF: %s", a.PDFError)
			}
			fmt.Fprintln(w)
		}
		if d.Error != "" {
			fmt.Fprintf(w, "%sError: %s\n", indent, d.Error)
		}
	}
	fmt.Fprintln(w)
}
