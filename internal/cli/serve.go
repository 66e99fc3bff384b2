package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/shapegrid/pkg/api"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr, publicURL string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve exposes the project store, snapshots and share links over HTTP. See
the api package for routes. The server stops gracefully on interrupt.`,
		Example: `  shapegrid serve --addr :8080 --public-url https://grids.example.com`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			if publicURL == "" {
				publicURL = c.Config.Server.PublicURL
			}
			return c.runServe(cmd.Context(), addr, publicURL, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: server.addr)")
	cmd.Flags().StringVar(&publicURL, "public-url", "", "base URL for share links (default: server.public_url)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the snapshot cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, publicURL string, noCache bool) error {
	store, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	sn, closeCache, err := c.newSnapshotter(ctx, noCache)
	if err != nil {
		return err
	}
	defer closeCache()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	if publicURL == "" {
		publicURL = "http://" + ln.Addr().String()
	}

	srv := &http.Server{
		Handler: api.NewServer(api.Options{
			Store:       store,
			Snapshotter: sn,
			Logger:      c.Logger,
			PublicURL:   publicURL,
		}),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	fmt.Println(StyleTitle.Render("shapegrid API"))
	printKeyValue("Listening", ln.Addr().String())
	printKeyValue("Store", c.Config.Store.Backend)
	printKeyValue("Share links", StyleLink.Render(publicURL))
	printNewline()
	return c.serve(ctx, srv, ln)
}

// serve runs srv on ln until ctx ends, then shuts it down gracefully.
func (c *CLI) serve(ctx context.Context, srv *http.Server, ln net.Listener) error {
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	c.Logger.Info("serving", "addr", ln.Addr().String(), "backend", c.Config.Store.Backend)
	printNextStep("Health check", "curl http://"+ln.Addr().String()+"/healthz")

	select {
	case err := <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
