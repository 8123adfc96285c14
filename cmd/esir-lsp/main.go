// SPDX-License-Identifier: Apache-2.0
package main

import (
	"log"
	"os"

	"github.com/kanso-lang/abstrans/internal/lsp"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
)

const lsName = "esir-analyze"

var (
	version = "0.0.1"
	handler protocol.Handler
)

func main() {
	commonlog.Configure(1, nil)

	esirHandler := lsp.NewHandler()

	handler = protocol.Handler{
		Initialize:            esirHandler.Initialize,
		Initialized:           esirHandler.Initialized,
		Shutdown:              esirHandler.Shutdown,
		TextDocumentDidOpen:   esirHandler.TextDocumentDidOpen,
		TextDocumentDidClose:  esirHandler.TextDocumentDidClose,
		TextDocumentDidChange: esirHandler.TextDocumentDidChange,
	}

	s := server.NewServer(&handler, lsName, false)

	log.Println("Starting ESIR LSP server, version", version)

	if err := s.RunStdio(); err != nil {
		log.Println("Error starting ESIR LSP server:", err)
		os.Exit(1)
	}
}
