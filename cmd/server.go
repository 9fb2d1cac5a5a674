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
	"time"

	"github.com/spf13/cobra"
	"github.com/subsurface-tools/volveq/server"
)

// options for this cmd.
var (
	serverBind     string
	serverWellsDir string
	serverPoll     time.Duration
	serverLogFile  string
)

// serverCmd represents the server command.
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the web server",
	Long: `Start the web server.

Loads every well manifest under the wells directory (--wells, or the
VOLVE_WELLS_DIR environment variable, which may come from a .env file) in
to an in-memory index, then serves queries over it on --bind.

The wells directory's mtime is polled every --poll interval; when it
changes, the index is rebuilt from scratch and swapped in atomically.
In-flight requests always see a complete snapshot, and if a reload fails
the previous index stays active.

Loading is all-or-nothing: the server refuses to start at all if the
wells directory is missing, holds no manifests, or any manifest fails
validation.`,
	Run: func(_ *cobra.Command, _ []string) {
		wellsDir := wellsDirOrEnv(serverWellsDir)
		if wellsDir == "" {
			die("you must supply a wells directory via --wells or %s", envWellsDir)
		}

		if serverLogFile != "" {
			logToFile(serverLogFile)
		}

		s := server.New(appLogger)

		if err := s.LoadWells(wellsDir); err != nil {
			die("failed to load manifests: %s", err)
		}

		if serverPoll > 0 {
			if err := s.EnableReloading(serverPoll); err != nil {
				die("failed to enable reloading: %s", err)
			}
		}

		defer s.Stop()

		info("listening on %s", serverBind)

		if err := s.Start(serverBind); err != nil {
			die("server failed: %s", err)
		}
	},
}

func init() {
	RootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringVarP(&serverBind, "bind", "b", ":8080",
		"address to bind to, eg host:port")
	serverCmd.Flags().StringVarP(&serverWellsDir, "wells", "w", "",
		"path to the wells directory (defaults to $"+envWellsDir+")")
	serverCmd.Flags().DurationVarP(&serverPoll, "poll", "p", time.Minute,
		"how often to check the wells directory for changes; 0 disables reloading")
	serverCmd.Flags().StringVar(&serverLogFile, "logfile", "",
		"log to this file instead of stderr")
}
