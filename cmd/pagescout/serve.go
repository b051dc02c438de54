package main

import (
	"fmt"

	pshttp "github.com/pagescout/pagescout/http"
	"github.com/pagescout/pagescout/index"
)

// ServeCmd runs the HTTP API server that the popup front end talks to.
type ServeCmd struct {
	Addr string `default:"127.0.0.1:8431" help:"Address to listen on"`

	fetchFlags
}

func (c *ServeCmd) Run(deps *Dependencies) error {
	crawler, cleanup, err := c.newCrawlService(deps)
	if err != nil {
		return err
	}
	defer cleanup()

	indexer := index.NewService()

	srv := pshttp.NewServer(indexer, crawler, pshttp.WithServerLogger(deps.Logger))
	srv.Addr = c.Addr
	if err := srv.Open(); err != nil {
		return err
	}
	defer srv.Close()

	fmt.Fprintf(deps.Stdout, "listening on %s\n", srv.Addr)

	<-deps.Ctx.Done()
	return nil
}
