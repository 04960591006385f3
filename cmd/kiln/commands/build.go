package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.trai.ch/kiln/internal/app"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build <recipe>...",
		Short: "Fetch, configure, build and package recipes",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = cmd.Help()
				return nil
			}
			opts := runOptions(cmd.Flags())
			opts.Jobs, _ = cmd.Flags().GetInt("jobs")
			opts.Concurrency, _ = cmd.Flags().GetInt("concurrency")
			opts.Force, _ = cmd.Flags().GetBool("force")
			opts.KeepWork, _ = cmd.Flags().GetBool("keep-work")
			opts.Verbose, _ = cmd.Flags().GetBool("verbose")
			opts.WorkDir, _ = cmd.Flags().GetString("work")
			opts.OutputDir, _ = cmd.Flags().GetString("output")
			return c.app.Build(cmd.Context(), args, opts)
		},
	}
	addConfigFlags(cmd.Flags())
	cmd.Flags().IntP("jobs", "j", 0, "Parallel jobs of each recipe's build step (default: profile, then the generator's own)")
	cmd.Flags().Int("concurrency", 1, "Number of recipes built at once")
	cmd.Flags().BoolP("force", "f", false, "Rebuild even if a matching package exists")
	cmd.Flags().Bool("keep-work", false, "Keep the recipe workspace after a successful build")
	cmd.Flags().BoolP("verbose", "v", false, "Stream tool output to the log")
	cmd.Flags().String("work", "", "Workspace root (default .kiln/work)")
	cmd.Flags().String("output", "", "Package root (default .kiln/packages)")
	return cmd
}

func (c *CLI) newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <recipe>...",
		Short: "Resolve and validate recipe configurations without building",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Check(cmd.Context(), args, runOptions(cmd.Flags()))
		},
	}
	addConfigFlags(cmd.Flags())
	return cmd
}

// addConfigFlags registers the flags shared by build and check.
func addConfigFlags(flags *pflag.FlagSet) {
	flags.StringP("profile", "p", "", "Profile file (default kiln.yaml when present)")
	flags.StringArrayP("setting", "s", nil, "Override a setting, key=value")
	flags.StringArrayP("option", "o", nil, "Override an option, [recipe:]name=value")
	flags.StringArrayP("dependency", "d", nil, "Supply a dependency version, name/version")
	flags.StringP("generator", "g", "", "CMake generator")
}

func runOptions(flags *pflag.FlagSet) app.RunOptions {
	var opts app.RunOptions
	opts.Profile, _ = flags.GetString("profile")
	opts.Settings, _ = flags.GetStringArray("setting")
	opts.Options, _ = flags.GetStringArray("option")
	opts.Dependencies, _ = flags.GetStringArray("dependency")
	opts.Generator, _ = flags.GetString("generator")
	return opts
}
