// agentd exposes one simulated store to an external agent driver over the
// line-oriented request/response protocol: newline-delimited JSON on
// stdin/stdout by default, or the same frames over websocket with -listen.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"

	"storesim.ai/internal/agent"
	"storesim.ai/internal/sim/content"
	"storesim.ai/internal/transport/ws"
)

func main() {
	var (
		listen    = flag.String("listen", "", "serve the protocol over websocket at this address instead of stdio")
		seed      = flag.Int64("seed", 1, "rng seed for the session")
		cash      = flag.Float64("cash", 20000, "starting cash")
		catalogFn = flag.String("catalog", "", "optional content catalog YAML override")
	)
	flag.Parse()

	logger := log.New(os.Stderr, "[agentd] ", log.LstdFlags|log.Lmicroseconds)

	cat := content.Default()
	if *catalogFn != "" {
		var err error
		cat, err = content.Load(*catalogFn)
		if err != nil {
			logger.Fatalf("catalog: %v", err)
		}
	}

	if *listen != "" {
		srv := ws.NewServer(func() ws.Handler {
			return agent.NewSession(cat, *seed, *cash).Handle
		}, logger)
		logger.Fatal(srv.ListenAndServe(*listen))
	}

	sess := agent.NewSession(cat, *seed, *cash)
	sc := bufio.NewScanner(os.Stdin)
	sc.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		out.Write(sess.Handle(line))
		out.WriteByte('\n')
		if err := out.Flush(); err != nil {
			logger.Fatalf("stdout: %v", err)
		}
	}
	if err := sc.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "stdin: %v\n", err)
		os.Exit(1)
	}
}
