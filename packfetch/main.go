////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 TMoji Web contributors                                    //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

// package main is its own utility that is compiled separate from TMoji-Web. It
// downloads an emoji pack manifest through the proxy backend and writes it to
// a JSON file so a frontend can ship the pack without hitting the network at
// load time. It is not a WASM module itself.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	jww "github.com/spf13/jwalterweatherman"

	"github.com/CORBENDALLAS111/Tmoji-Web/api"
	"github.com/CORBENDALLAS111/Tmoji-Web/emoji"
)

// defaultServerURL is the proxy backend address used when none is given.
const defaultServerURL = "http://localhost:8000"

// Flag variables.
var (
	serverURL, packURL, packID, outputPath, logFile string
	logLevel                                        int
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// Downloads an emoji pack through the proxy backend and writes the pack JSON
// to a file specified by the user. Refer to the flags for details.
var cmd = &cobra.Command{
	Use: "packfetch",
	Short: "Downloads an emoji pack through the proxy backend and writes " +
		"the pack JSON to a file specified by the user. The pack is " +
		"selected either by a t.me link (or raw pack name) or by a pack " +
		"ID. Refer to the flags for details.",
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {

		// Initialize the logging
		initLog(jww.Threshold(logLevel), logFile)

		client := api.NewClient(serverURL)

		if err := client.Ping(); err != nil {
			jww.FATAL.Panicf("Backend %s is not reachable: %+v",
				client.BaseURL(), err)
		}

		pack, err := fetchPack(client)
		if err != nil {
			jww.FATAL.Panicf("Failed to fetch pack: %+v", err)
		}

		jww.INFO.Printf("Fetched pack %q with %d stickers",
			pack.Name, len(pack.Stickers))

		data, err := json.MarshalIndent(pack, "", "  ")
		if err != nil {
			jww.FATAL.Panicf("Failed to marshal pack: %+v", err)
		}

		if err = os.WriteFile(outputPath, data, 0644); err != nil {
			jww.FATAL.Panicf(
				"Failed to write pack to filepath %s: %+v", outputPath, err)
		}

		jww.INFO.Printf("Wrote pack JSON file to %s", outputPath)
	},
}

// fetchPack resolves the pack by whichever selector flag was set. The pack ID
// takes precedence over the pack URL.
func fetchPack(client *api.Client) (*emoji.Pack, error) {
	if packID != "" {
		return client.GetManifest(packID)
	}
	return client.GetPack(packURL)
}

// init is the initialization function for Cobra which defines flags.
func init() {
	cmd.Flags().StringVarP(&serverURL, "server", "s", defaultServerURL,
		"Proxy backend address to fetch the pack through.")
	cmd.Flags().StringVarP(&packURL, "pack", "p", "",
		"Pack t.me link or raw pack name to download.")
	cmd.Flags().StringVarP(&packID, "manifest", "m", "",
		"Pack ID to download the manifest of. Takes precedence over --pack.")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "pack.json",
		"Output JSON file path.")
	cmd.Flags().StringVarP(&logFile, "log", "l", "-",
		"Log output path. By default, logs are printed to stdout. "+
			"To disable logging, set this to empty (\"\").")
	cmd.Flags().IntVarP(&logLevel, "logLevel", "v", 4,
		"Verbosity level of logging. 0 = TRACE, 1 = DEBUG, 2 = INFO, "+
			"3 = WARN, 4 = ERROR, 5 = CRITICAL, 6 = FATAL")
}

// initLog will enable JWW logging to the given log path with the given
// threshold. If log path is empty, then logging is not enabled. Panics if the
// log file cannot be opened or if the threshold is invalid.
func initLog(threshold jww.Threshold, logPath string) {
	if logPath == "" {
		// Do not enable logging if no log file is set
		return
	} else if logPath != "-" {
		// Set the log file if stdout is not selected

		// Disable stdout output
		jww.SetStdoutOutput(io.Discard)

		// Use log file
		logOutput, err :=
			os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			panic(err)
		}
		jww.SetLogOutput(logOutput)
	}

	if threshold < jww.LevelTrace || threshold > jww.LevelFatal {
		panic("Invalid log threshold: " + strconv.Itoa(int(threshold)))
	}

	// Display microseconds if the threshold is set to TRACE or DEBUG
	if threshold == jww.LevelTrace || threshold == jww.LevelDebug {
		jww.SetFlags(log.LstdFlags | log.Lmicroseconds)
	}

	// Enable logging
	jww.SetStdoutThreshold(threshold)
	jww.SetLogThreshold(threshold)
	jww.INFO.Printf("Log level set to: %s", threshold)
}
