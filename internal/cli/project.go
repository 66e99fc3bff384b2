package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/shapegrid/pkg/api"
	"github.com/matzehuels/shapegrid/pkg/errors"
	"github.com/matzehuels/shapegrid/pkg/httputil"
	"github.com/matzehuels/shapegrid/pkg/project"
	"github.com/matzehuels/shapegrid/pkg/settings"
)

// shareCacheTTL bounds how long resolved share tokens are reused.
const shareCacheTTL = 24 * time.Hour

// projectCommand creates the project command and its subcommands.
func (c *CLI) projectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"projects", "p"},
		Short:   "Manage saved projects",
		Long: `Projects are named settings records kept in the configured store (file,
memory, redis or mongo). Projects are referenced by id or by name.`,
	}

	cmd.AddCommand(c.projectSaveCommand())
	cmd.AddCommand(c.projectLoadCommand())
	cmd.AddCommand(c.projectListCommand())
	cmd.AddCommand(c.projectDeleteCommand())
	cmd.AddCommand(c.projectShareCommand())
	cmd.AddCommand(c.projectPullCommand())
	cmd.AddCommand(c.projectPushCommand())

	return cmd
}

// withStore opens the configured store, runs fn and closes the store.
func (c *CLI) withStore(ctx context.Context, fn func(project.Store) error) error {
	store, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

// saveProject creates a project called name, or updates it when a project
// with that name or id already exists.
func saveProject(ctx context.Context, store project.Store, name string, s settings.Settings) (*project.Project, bool, error) {
	p, err := project.Resolve(ctx, store, name)
	switch {
	case err == nil:
		if err := p.Update(s); err != nil {
			return nil, false, err
		}
		return p, false, store.Save(ctx, p)
	case !errors.Is(err, errors.ErrCodeProjectNotFound):
		return nil, false, err
	}
	p, err = project.New(name, s)
	if err != nil {
		return nil, false, err
	}
	return p, true, store.Save(ctx, p)
}

func (c *CLI) projectSaveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "save <name> [settings]",
		Short: "Save settings as a project",
		Long:  `Save stores a settings file (or share URL, or - for stdin, or the defaults) under a name. Saving to an existing name updates that project.`,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if len(args) == 2 {
				input = args[1]
			}
			s, err := c.readSettings(input)
			if err != nil {
				return err
			}
			return c.withStore(cmd.Context(), func(store project.Store) error {
				p, created, err := saveProject(cmd.Context(), store, args[0], s)
				if err != nil {
					return err
				}
				verb := "Updated"
				if created {
					verb = "Saved"
				}
				printSuccess("%s project %s", verb, StyleHighlight.Render(p.Name))
				printKeyValue("ID", p.ID)
				seed, _ := p.Settings.Seed()
				printKeyValue("Seed", fmt.Sprint(seed))
				return nil
			})
		},
	}
}

func (c *CLI) projectLoadCommand() *cobra.Command {
	var output, format string
	cmd := &cobra.Command{
		Use:   "load <project>",
		Short: "Write a project's settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(store project.Store) error {
				p, err := project.Resolve(cmd.Context(), store, args[0])
				if err != nil {
					return err
				}
				return c.writeSettings(cmd, p.Settings, output, format)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", stdio, "output file, - for stdout")
	cmd.Flags().StringVarP(&format, "format", "f", "", "json or toml (default: from output extension, else json)")
	return cmd
}

func (c *CLI) projectListCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved projects",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(store project.Store) error {
				ps, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					if ps == nil {
						ps = []*project.Project{}
					}
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(ps)
				}
				if len(ps) == 0 {
					printInfo("No projects yet")
					printNextStep("Save one", "shapegrid project save <name> settings.json")
					return nil
				}
				printProjectTable(ps)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print projects as JSON")
	return cmd
}

func (c *CLI) projectDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <project>",
		Aliases: []string{"rm"},
		Short:   "Delete a project",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(store project.Store) error {
				p, err := project.Resolve(cmd.Context(), store, args[0])
				if err != nil {
					return err
				}
				if err := store.Delete(cmd.Context(), p.ID); err != nil {
					return err
				}
				printSuccess("Deleted project %s", StyleHighlight.Render(p.Name))
				return nil
			})
		},
	}
}

func (c *CLI) projectShareCommand() *cobra.Command {
	var baseURL string
	cmd := &cobra.Command{
		Use:   "share <project>",
		Short: "Print a share link for a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if baseURL == "" {
				baseURL = c.Config.Server.PublicURL
			}
			return c.withStore(cmd.Context(), func(store project.Store) error {
				p, err := project.Resolve(cmd.Context(), store, args[0])
				if err != nil {
					return err
				}
				link, err := project.ShareURL(baseURL, p.Settings)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), link)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&baseURL, "base-url", "", "page the link points at (default: server.public_url)")
	return cmd
}

func (c *CLI) projectPullCommand() *cobra.Command {
	var name, server string
	var refresh bool
	cmd := &cobra.Command{
		Use:   "pull <share-url|token|project>",
		Short: "Save a shared or remote project locally",
		Long: `Pull decodes a share link (or bare token) and saves it as a local project.
With --server the argument names a project on a shapegrid server instead, or
a token the server resolves.`,
		Example: `  shapegrid project pull "https://example.com/?s=eyJyb3dzIjo0fQ" --name waves
  shapegrid project pull waves --server http://localhost:8080`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, remoteName, err := c.pullSettings(ctx, args[0], server, refresh)
			if err != nil {
				return err
			}
			if name == "" {
				name = remoteName
			}
			if name == "" {
				seed, _ := s.Seed()
				name = fmt.Sprintf("shared-%d", seed)
			}
			return c.withStore(ctx, func(store project.Store) error {
				p, _, err := saveProject(ctx, store, name, s)
				if err != nil {
					return err
				}
				printSuccess("Pulled project %s", StyleHighlight.Render(p.Name))
				printKeyValue("ID", p.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "local project name")
	cmd.Flags().StringVar(&server, "server", "", "shapegrid server URL")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the share cache")
	return cmd
}

// pullSettings resolves ref locally, or against server when set. It also
// returns the remote project name when ref named one.
func (c *CLI) pullSettings(ctx context.Context, ref, server string, refresh bool) (settings.Settings, string, error) {
	if server == "" {
		s, err := project.ParseShareURL(ref, c.Logger)
		return s, "", err
	}
	client, err := c.newClient(server)
	if err != nil {
		return settings.Settings{}, "", err
	}
	spin := newSpinner(ctx, "Looking up "+ref+" on "+server+"...")
	spin.Start()
	if p, err := findRemote(ctx, client, ref); err == nil {
		spin.StopWithSuccess("Found remote project " + p.Name)
		return p.Settings, p.Name, nil
	} else if !errors.Is(err, errors.ErrCodeProjectNotFound) {
		spin.StopWithError("Server lookup failed")
		return settings.Settings{}, "", err
	}
	c.Logger.Debug("no remote project, resolving as share token", "ref", ref)
	spin.SetMessage("Resolving share token...")
	s, err := client.ResolveShare(ctx, ref, refresh)
	if err != nil {
		spin.StopWithError("Could not resolve " + ref)
		return settings.Settings{}, "", err
	}
	spin.StopWithSuccess("Resolved share token")
	return s, "", nil
}

// findRemote looks a project up on the server by id, then by name.
func findRemote(ctx context.Context, client *api.Client, ref string) (*project.Project, error) {
	if errors.ValidateProjectID(ref) == nil {
		p, err := client.GetProject(ctx, ref)
		if err == nil || !errors.Is(err, errors.ErrCodeProjectNotFound) {
			return p, err
		}
	}
	ps, err := client.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range ps {
		if p.Name == ref {
			return p, nil
		}
	}
	return nil, errors.New(errors.ErrCodeProjectNotFound, "no project %q on server", ref)
}

func (c *CLI) projectPushCommand() *cobra.Command {
	var server string
	cmd := &cobra.Command{
		Use:   "push <project>",
		Short: "Upload a local project to a server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if server == "" {
				return errors.New(errors.ErrCodeInvalidInput, "--server is required")
			}
			client, err := c.newClient(server)
			if err != nil {
				return err
			}
			return c.withStore(ctx, func(store project.Store) error {
				local, err := project.Resolve(ctx, store, args[0])
				if err != nil {
					return err
				}
				remote, err := client.CreateProject(ctx, local.Name, local.Settings)
				if err != nil {
					return err
				}
				printSuccess("Pushed project %s", StyleHighlight.Render(remote.Name))
				printKeyValue("Remote ID", remote.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&server, "server", "", "shapegrid server URL")
	return cmd
}

// newClient creates an API client with the share cache under the cache
// directory. A missing cache directory disables the share cache.
func (c *CLI) newClient(server string) (*api.Client, error) {
	if err := errors.ValidateURL(server); err != nil {
		return nil, err
	}
	var shares *httputil.ShareCache
	if dir, err := cacheDir(); err == nil {
		if hc, err := httputil.NewShareCache(filepath.Join(dir, "http"), shareCacheTTL); err == nil {
			shares = hc
		} else {
			c.Logger.Warn("share cache disabled", "err", err)
		}
	}
	b := httputil.APIBackoff
	b.OnRetry = func(attempt int, wait time.Duration, err error) {
		c.Logger.Debug("retrying request", "server", server, "attempt", attempt, "wait", wait, "err", err)
	}
	return api.NewClient(server, shares, api.WithBackoff(b)), nil
}
