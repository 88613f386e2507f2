package cli

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"library-tracker/library"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newImportCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import CATALOG.csv",
		Short: "Add books from a CSV file with columns id,title,author,quantity",
		Long: "Add books from a CSV file with columns id,title,author,quantity.\n" +
			"A first row starting with \"id\" is treated as a header.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(filepath.Clean(args[0]))
			if err != nil {
				return errors.Wrap(err, "open catalog")
			}
			defer f.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Importing books from %s...\n", args[0])
			res := importCatalog(f, out, a.mgr, a.log)

			fmt.Fprintf(out, "\nImport complete!\n")
			fmt.Fprintf(out, "Successfully imported: %d books\n", res.imported)
			fmt.Fprintf(out, "Errors: %d\n", res.failed)

			if res.imported > 0 {
				fmt.Fprintln(out, "\nCatalog:")
				fmt.Fprintf(out, "%-10s %-50s %-30s %s\n", "ID", "Title", "Author", "Qty")
				fmt.Fprintln(out, strings.Repeat("-", 100))
				for book := range a.mgr.Books() {
					fmt.Fprintf(out, "%-10s %-50s %-30s %d\n",
						truncateString(book.ID, 10),
						truncateString(book.Title, 50),
						truncateString(book.Author, 30),
						book.Quantity)
				}
			}
			if res.failed > 0 {
				return errors.Errorf("%d of %d rows failed to import", res.failed, res.imported+res.failed)
			}
			return nil
		},
	}
}

type importResult struct {
	imported int
	failed   int
}

// importCatalog adds one book per CSV row and reports every row on out.
// Bad rows are counted and skipped.
func importCatalog(r io.Reader, out io.Writer, mgr *library.LibraryManager, log *zap.Logger) importResult {
	var res importResult

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 4
	cr.TrimLeadingSpace = true

	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			fmt.Fprintf(out, "Line %d: ERROR - %v\n", line, err)
			res.failed++
			continue
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "id") {
			continue
		}

		id, title, author := strings.TrimSpace(rec[0]), strings.TrimSpace(rec[1]), strings.TrimSpace(rec[2])
		fmt.Fprintf(out, "Importing: %s by %s... ", title, author)

		qty, err := strconv.Atoi(strings.TrimSpace(rec[3]))
		if err != nil {
			fmt.Fprintf(out, "ERROR - invalid quantity %q\n", rec[3])
			res.failed++
			continue
		}
		if err := mgr.AddBook(id, title, author, qty); err != nil {
			fmt.Fprintf(out, "ERROR - %v\n", err)
			log.Debug("import row failed", zap.Int("line", line), zap.Error(err))
			res.failed++
			continue
		}

		fmt.Fprintf(out, "SUCCESS (ID: %s)\n", id)
		res.imported++
	}
	return res
}

// truncateString shortens s to maxLen characters, marking the cut with "...".
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
