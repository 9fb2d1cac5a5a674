/*******************************************************************************
 * Copyright (c) 2025 Subsurface Tools
 *
 * Permission is hereby granted, free of charge, to any person obtaining
 * a copy of this software and associated documentation files (the
 * "Software"), to deal in the Software without restriction, including
 * without limitation the rights to use, copy, modify, merge, publish,
 * distribute, sublicense, and/or sell copies of the Software, and to
 * permit persons to whom the Software is furnished to do so, subject to
 * the following conditions:
 *
 * The above copyright notice and this permission notice shall be included
 * in all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
 * EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
 * MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
 * IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY
 * CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT,
 * TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION WITH THE
 * SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
 ******************************************************************************/

package cmd

import (
	"encoding/csv"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/subsurface-tools/volveq/loader"
	"github.com/subsurface-tools/volveq/query"
)

// options for this cmd.
var (
	searchWellsDir    string
	searchWell        string
	searchBucket      string
	searchIncludeDirs bool
	searchNoDedupe    bool
	searchDedupeKey   string
	searchOffset      int
	searchLimit       int
	searchAsCSV       bool
)

// searchCmd represents the search command.
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the well manifests",
	Long: `Search the well manifests.

Loads the wells directory (--wells, or the VOLVE_WELLS_DIR environment
variable) and runs a case-insensitive substring search for your query
against filenames, paths, bucket names, well keys, well ids and tags.
Underscores in the query also match slashes in well ids and paths, so
'15_9-F-9A' finds entries for the well coded '15/9-F-9A'.

Directory entries are skipped unless you pass --dirs. Duplicate matches
are dropped, keeping the first per path (or per well and filename with
--dedupe-key filename); --no-dedupe keeps them all.

Results are printed as a table, or as CSV with --csv (header:
well_key,well_id,bucket,filename,path,tags; tags joined with '|').`,
	Args: cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		setCLIFormat()

		idx := loadIndex(searchWellsDir)

		dedupeKey := query.DedupeKey(searchDedupeKey)
		if !dedupeKey.Valid() {
			die("bad --dedupe-key; must be path or filename")
		}

		page := idx.Search(query.Search{
			Query:       args[0],
			WellKey:     searchWell,
			Bucket:      searchBucket,
			IncludeDirs: searchIncludeDirs,
			Dedupe:      !searchNoDedupe,
			DedupeKey:   dedupeKey,
			Offset:      searchOffset,
			Limit:       searchLimit,
		})

		if searchAsCSV {
			printEntriesCSV(page.Entries)
		} else {
			printEntriesTable(page.Entries)
		}

		info("showing %d of %d matches", len(page.Entries), page.Total)
	},
}

func init() {
	RootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVarP(&searchWellsDir, "wells", "w", "",
		"path to the wells directory (defaults to $"+envWellsDir+")")
	searchCmd.Flags().StringVarP(&searchWell, "well", "k", "",
		"only match entries belonging to this well key")
	searchCmd.Flags().StringVarP(&searchBucket, "bucket", "b", "",
		"only match entries in this bucket")
	searchCmd.Flags().BoolVar(&searchIncludeDirs, "dirs", false,
		"include directory entries in results")
	searchCmd.Flags().BoolVar(&searchNoDedupe, "no-dedupe", false,
		"keep duplicate results")
	searchCmd.Flags().StringVar(&searchDedupeKey, "dedupe-key", "path",
		"dedupe on 'path' or 'filename'")
	searchCmd.Flags().IntVar(&searchOffset, "offset", 0,
		"skip this many results")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "l", 100,
		"show at most this many results; 0 means all")
	searchCmd.Flags().BoolVar(&searchAsCSV, "csv", false,
		"output CSV instead of a table")
}

// loadIndex loads the wells dir and builds the index, dying on any load
// problem.
func loadIndex(flagValue string) *query.Index {
	dir := wellsDirOrEnv(flagValue)
	if dir == "" {
		die("you must supply a wells directory via --wells or %s", envWellsDir)
	}

	wells, err := loader.Load(dir)
	if err != nil {
		die("failed to load manifests: %s", err)
	}

	return query.NewIndex(wells)
}

func printEntriesTable(entries []query.Entry) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Well", "Bucket", "Filename", "Path", "Tags"})

	for _, e := range entries {
		table.Append([]string{e.WellID, e.Bucket, e.Filename, e.Path, strings.Join(e.Tags, "|")})
	}

	table.Render()
}

func printEntriesCSV(entries []query.Entry) {
	w := csv.NewWriter(os.Stdout)

	w.Write([]string{"well_key", "well_id", "bucket", "filename", "path", "tags"}) //nolint:errcheck

	for _, e := range entries {
		w.Write([]string{e.WellKey, e.WellID, e.Bucket, e.Filename, e.Path, //nolint:errcheck
			strings.Join(e.Tags, "|")})
	}

	w.Flush()
}
