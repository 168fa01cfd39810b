package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"neurotic/internal/cache"
)

const downloadsDBName = "downloads.db"

func openStore(appDir string) (*cache.Store, error) {
	dir, err := resolveDir(appDir)
	if err != nil {
		return nil, err
	}
	return cache.New(filepath.Join(dir, downloadsDBName))
}

func newCacheCmd(appDir string) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the ledger of downloaded data files",
	}

	var (
		filterField string
		filterValue string
	)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded downloads",
		RunE: func(cmd *cobra.Command, args []string) error {
			if filterValue == "" && len(args) > 0 {
				filterValue = args[0]
			}

			store, err := openStore(appDir)
			if err != nil {
				return fmt.Errorf("failed to open download ledger: %w", err)
			}
			defer store.Close()

			downloads, err := store.List(50, filterField, filterValue)
			if err != nil {
				return fmt.Errorf("failed to list downloads: %w", err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tTIME\tDATASET\tSOURCE\tBYTES\tFILE")
			for _, d := range downloads {
				fmt.Fprintf(w, "%d\t%s\t%.30s\t%s\t%d\t%s\n",
					d.ID,
					d.FetchedAt.Local().Format("2006-01-02 15:04"),
					d.Dataset,
					d.Source,
					d.Bytes,
					filepath.Base(d.FilePath),
				)
			}
			return w.Flush()
		},
	}
	listCmd.Flags().StringVar(&filterField, "filter-by", "", "Field to filter by (url, file, source, dataset)")
	listCmd.Flags().StringVar(&filterValue, "value", "", "Value to search for")

	cleanupCmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Remove ledger records for missing files",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(appDir)
			if err != nil {
				return fmt.Errorf("failed to open download ledger: %w", err)
			}
			defer store.Close()

			paths, err := store.ListAllPaths()
			if err != nil {
				return fmt.Errorf("failed to list paths: %w", err)
			}

			deleted := 0
			for id, path := range paths {
				if _, err := os.Stat(path); os.IsNotExist(err) {
					fmt.Printf("Removing record for missing file: %s (ID: %d)\n", path, id)
					if err := store.Delete(id); err != nil {
						fmt.Fprintf(os.Stderr, "Error deleting record %d: %v\n", id, err)
					} else {
						deleted++
					}
				}
			}

			if deleted == 0 {
				fmt.Println("Ledger is clean. No missing files found.")
			} else {
				fmt.Printf("Cleaned up %d records.\n", deleted)
			}
			return nil
		},
	}

	cacheCmd.AddCommand(listCmd, cleanupCmd)
	return cacheCmd
}
