////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 TMoji Web contributors                                    //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

//go:build js && wasm

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"syscall/js"

	"github.com/CORBENDALLAS111/Tmoji-Web/logging"
	"github.com/CORBENDALLAS111/Tmoji-Web/wasm"
)

func main() {
	fmt.Println("Go Web Assembly")

	// wasm/tmoji.go
	js.Global().Set("NewTmoji", js.FuncOf(wasm.NewTmoji))

	// wasm/version.go
	js.Global().Set("GetVersion", js.FuncOf(wasm.GetVersion))

	// logging/logLevel.go
	js.Global().Set("LogLevel", js.FuncOf(logging.LogLevelJS))

	// logging/file.go
	js.Global().Set("LogToFile", js.FuncOf(logging.LogToFileJS))

	// Wait until the user terminates the program
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	os.Exit(0)
}
