package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"portfolio/internal/relations"
	"portfolio/internal/works"
	"portfolio/pkg/utils"
)

const defaultBaseURL = "http://localhost:8080"

type options struct {
	api       string
	locale    string
	tokenPath string
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "portfolio",
		Short:         "Browse and administer the portfolio API",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loc, ok := utils.ParseLocale(opts.locale)
			if !ok {
				return fmt.Errorf("unsupported locale %q", opts.locale)
			}
			opts.locale = loc
			return nil
		},
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&opts.api, "api", defaultBaseURL, "API base URL")
	root.PersistentFlags().StringVar(&opts.locale, "locale", utils.DefaultLocale, "content locale (fr, en)")
	root.PersistentFlags().StringVar(&opts.tokenPath, "token", defaultTokenPath(), "token file path")

	root.AddCommand(newLoginCmd(opts), newLogoutCmd(opts), newWorksCmd(opts), newArtistsCmd(opts))
	return root
}

func newLoginCmd(opts *options) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in as an admin and store the token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if email == "" || password == "" {
				return fmt.Errorf("email and password are required")
			}
			var resp struct {
				Token string `json:"token"`
			}
			client := newAPIClient(opts.api)
			payload := map[string]string{"email": email, "password": password}
			if err := client.doJSON(cmd.Context(), http.MethodPost, "/auth/login", "", payload, &resp); err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			if err := saveToken(opts.tokenPath, resp.Token); err != nil {
				return fmt.Errorf("save token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "logged in")
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "admin password")
	return cmd
}

func newLogoutCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the stored token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if token, err := readToken(opts.tokenPath); err == nil && token != "" {
				// best effort; the local token is removed either way
				_ = newAPIClient(opts.api).doJSON(cmd.Context(), http.MethodPost, "/auth/logout", token, nil, nil)
			}
			if err := clearToken(opts.tokenPath); err != nil {
				return fmt.Errorf("logout failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}

type workList struct {
	Total int                    `json:"total"`
	Items []relations.SimpleWork `json:"items"`
}

func newWorksCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{Use: "works", Short: "Portfolio works"}

	var (
		category, q   string
		limit, offset int
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List published works",
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := url.Values{}
			if category != "" {
				v.Set("category", category)
			}
			if q != "" {
				v.Set("q", q)
			}
			v.Set("limit", strconv.Itoa(limit))
			v.Set("offset", strconv.Itoa(offset))

			var resp workList
			path := "/" + opts.locale + "/works?" + v.Encode()
			if err := newAPIClient(opts.api).doJSON(cmd.Context(), http.MethodGet, path, "", nil, &resp); err != nil {
				return err
			}
			printCards(cmd.OutOrStdout(), resp.Items)
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d\n", len(resp.Items), resp.Total)
			return nil
		},
	}
	list.Flags().StringVar(&category, "category", "", "category slug")
	list.Flags().StringVar(&q, "q", "", "search text")
	list.Flags().IntVar(&limit, "limit", 24, "page size")
	list.Flags().IntVar(&offset, "offset", 0, "page offset")

	show := &cobra.Command{
		Use:   "show <slug>",
		Short: "Show a work page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := fetchDetail(cmd.Context(), opts, args[0])
			if err != nil {
				return err
			}
			printDetail(cmd.OutOrStdout(), d)
			return nil
		},
	}

	related := &cobra.Command{
		Use:   "related <slug>",
		Short: "List clips or projects related to a work",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := fetchDetail(cmd.Context(), opts, args[0])
			if err != nil {
				return err
			}
			if len(d.Related) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no related works")
				return nil
			}
			printCards(cmd.OutOrStdout(), d.Related)
			return nil
		},
	}

	cmd.AddCommand(list, show, related)
	return cmd
}

func fetchDetail(ctx context.Context, opts *options, slug string) (*works.Detail, error) {
	var d works.Detail
	path := "/" + opts.locale + "/works/" + url.PathEscape(slug)
	if err := newAPIClient(opts.api).doJSON(ctx, http.MethodGet, path, "", nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func newArtistsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{Use: "artists", Short: "Credited artists"}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List artists",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var resp struct {
				Items []struct {
					Slug string `json:"slug"`
					Name string `json:"name"`
				} `json:"items"`
			}
			path := "/" + opts.locale + "/artists"
			if err := newAPIClient(opts.api).doJSON(cmd.Context(), http.MethodGet, path, "", nil, &resp); err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SLUG\tNAME")
			for _, a := range resp.Items {
				fmt.Fprintf(tw, "%s\t%s\n", a.Slug, a.Name)
			}
			return tw.Flush()
		},
	})
	return cmd
}

func printCards(w io.Writer, cards []relations.SimpleWork) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SLUG\tTITLE\tCATEGORY\tCONTRIBUTORS")
	for _, c := range cards {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Slug, c.Title, c.Category, strings.Join(c.ContributorSlugs, ","))
	}
	_ = tw.Flush()
}

func printDetail(w io.Writer, d *works.Detail) {
	fmt.Fprintf(w, "%s (%s)\n", d.Title, d.Slug)
	if d.Category != "" {
		fmt.Fprintf(w, "category: %s\n", d.Category)
	}
	if d.Year != nil {
		fmt.Fprintf(w, "year: %d\n", *d.Year)
	}
	if d.Label != nil {
		fmt.Fprintf(w, "label: %s\n", d.Label.Name)
	}
	if d.Description != "" {
		fmt.Fprintf(w, "\n%s\n", d.Description)
	}
	if len(d.Contributors) > 0 {
		fmt.Fprintln(w, "\ncontributors:")
		for _, c := range d.Contributors {
			if c.Role != "" {
				fmt.Fprintf(w, "  %s (%s)\n", c.Name, c.Role)
			} else {
				fmt.Fprintf(w, "  %s\n", c.Name)
			}
		}
	}
	if len(d.Related) > 0 {
		fmt.Fprintln(w, "\nrelated:")
		for _, r := range d.Related {
			fmt.Fprintf(w, "  %s  %s\n", r.Slug, r.Title)
		}
	}
}
