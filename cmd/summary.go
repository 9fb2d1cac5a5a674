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
	"os"
	"strconv"

	"github.com/dustin/go-humanize" //nolint:misspell
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var summaryWellsDir string

// summaryCmd represents the summary command.
var summaryCmd = &cobra.Command{
	Use:   "summary [well_key ...]",
	Short: "Summarise the well manifests",
	Long: `Summarise the well manifests.

Loads the wells directory (--wells, or the VOLVE_WELLS_DIR environment
variable) and prints a table with one row per well: its key, resolved
well id, number of buckets, total file count and foreign reference count.

With well keys as arguments, only those wells are summarised; an unknown
key is an error.`,
	Run: func(_ *cobra.Command, args []string) {
		setCLIFormat()

		idx := loadIndex(summaryWellsDir)

		keys := args
		if len(keys) == 0 {
			keys = idx.Wells()
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Well Key", "Well ID", "Buckets", "Files", "Foreign Refs"})

		for _, key := range keys {
			s, err := idx.Summary(key)
			if err != nil {
				die("%s: %s", key, err)
			}

			table.Append([]string{
				s.WellKey,
				s.WellID,
				strconv.Itoa(len(s.BucketCounts)),
				humanize.Comma(int64(s.TotalFiles)),
				humanize.Comma(int64(s.ForeignReferenceCount)),
			})
		}

		table.Render()
	},
}

func init() {
	RootCmd.AddCommand(summaryCmd)

	summaryCmd.Flags().StringVarP(&summaryWellsDir, "wells", "w", "",
		"path to the wells directory (defaults to $"+envWellsDir+")")
}
