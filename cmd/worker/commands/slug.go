package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nepfy/nepfy-backend/internal/slug"
)

func SlugCommand() *cobra.Command {
	var maxLength int

	cmd := &cobra.Command{
		Use:   "slug <text>",
		Short: "Print the URL slug for a piece of text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := slug.Slugify(strings.Join(args, " "))
			if maxLength > 0 {
				s = slug.TruncateSlug(s, maxLength)
			}
			if !slug.IsValidSlug(s) {
				return fmt.Errorf("%q does not produce a valid slug", strings.Join(args, " "))
			}
			fmt.Fprintln(cmd.OutOrStdout(), s)
			return nil
		},
	}

	cmd.Flags().IntVar(&maxLength, "max", 60, "truncate the slug to this many characters (0 disables)")
	return cmd
}

func SubdomainCommand() *cobra.Command {
	var rootDomain string

	cmd := &cobra.Command{
		Use:   "subdomain",
		Short: "Build or parse proposal subdomains",
	}
	cmd.PersistentFlags().StringVar(&rootDomain, "root", slug.DefaultRootDomain, "root domain proposals are served under")

	cmd.AddCommand(&cobra.Command{
		Use:   "url <user-name> <project-url>",
		Short: "Print the public URL of a proposal",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), slug.NewCodec(rootDomain).GenerateURL(args[0], args[1]))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "parse <host>",
		Short: "Split a proposal host into user name and project URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ident := slug.NewCodec(rootDomain).Parse(args[0])
			if ident == nil {
				return fmt.Errorf("%q is not a proposal subdomain of %s", args[0], rootDomain)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "user_name=%s project_url=%s\n", ident.UserName, ident.ProjectURL)
			return nil
		},
	})

	return cmd
}
