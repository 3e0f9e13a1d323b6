package cmd

import (
	"fmt"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"

	"github.com/s0up4200/sc2ranks/config"
)

var (
	updateRepo  string
	forceUpdate bool
	checkOnly   bool
)

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update sc2ranks to the latest release",
	Args:  cobra.NoArgs,
	RunE:  runUpdate,
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "sc2ranks %s (built %s)\n", version, buildTime)
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)

	updateCmd.Flags().StringVar(&updateRepo, "repo", config.DefaultRepository, "GitHub repository to update from (overrides update.repository)")
	updateCmd.Flags().BoolVar(&forceUpdate, "force", false, "update even when running a development build")
	updateCmd.Flags().BoolVar(&checkOnly, "check", false, "only report whether an update is available")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	current, err := currentVersion()
	if err != nil && !forceUpdate {
		return fmt.Errorf("cannot update a %q build, use --force to install the latest release anyway", version)
	}

	repo, err := updateRepository(cmd)
	if err != nil {
		return err
	}

	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(repo))
	if err != nil {
		return fmt.Errorf("failed to detect latest release: %w", err)
	}
	if !found {
		return fmt.Errorf("no release found for this platform in %s", repo)
	}

	latestVersion, err := semver.ParseTolerant(latest.Version())
	if err != nil {
		return fmt.Errorf("latest release has an invalid version %q: %w", latest.Version(), err)
	}

	if !needsUpdate(current, latestVersion) {
		fmt.Fprintf(out, "✓ sc2ranks %s is up to date\n", version)
		return nil
	}

	if checkOnly {
		fmt.Fprintf(out, "Update available: %s → %s\n", version, latestVersion)
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("could not locate executable path: %w", err)
	}

	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("failed to update binary: %w", err)
	}

	fmt.Fprintf(out, "✓ Updated sc2ranks to %s\n", latestVersion)
	return nil
}

// updateRepository picks the release repository: an explicit --repo wins,
// then update.repository from the config file or environment.
func updateRepository(cmd *cobra.Command) (string, error) {
	if cmd.Flags().Changed("repo") {
		return updateRepo, nil
	}

	updateCfg, err := config.LoadUpdate(cfgFile)
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}
	return updateCfg.Repository, nil
}

// currentVersion parses the build version. Development builds have none.
func currentVersion() (*semver.Version, error) {
	v, err := semver.ParseTolerant(version)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// needsUpdate reports whether latest is newer than current. A nil current
// (a forced development build) always updates.
func needsUpdate(current *semver.Version, latest semver.Version) bool {
	if current == nil {
		return true
	}
	return latest.GT(*current)
}
