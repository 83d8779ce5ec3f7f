package cli

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chromedock/chromedock/internal/browser"
)

// launchFlags holds the launch command's per-invocation settings.
type launchFlags struct {
	lang   string
	proxy  string
	window string
	preset string
}

// newLaunchCmd creates the launch command.
func (cli *CLI) newLaunchCmd() *cobra.Command {
	var flags launchFlags

	cmd := &cobra.Command{
		Use:   "launch <profile> [-- extra browser args]",
		Short: "Launch a browser bound to a profile",
		Long: `Launch an isolated browser instance bound to the given profile.

Each profile can run at most one instance at a time. The launch fails if
the profile already has a live instance, or if the profile directory is
locked by a browser started elsewhere.

Examples:
  # Launch the default profile
  chromedock launch Default

  # Launch with a SOCKS5 proxy and a fixed window size
  chromedock launch "Profile 2" --proxy socks5://127.0.0.1:1080 --window 1366x768

  # Pass extra flags straight to the browser
  chromedock launch Default -- --incognito`,
		Args: cobra.MinimumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return cli.getProfileIDs(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			extraArgs := []string{}
			if at := cmd.ArgsLenAtDash(); at >= 0 {
				extraArgs = args[at:]
				args = args[:at]
			}
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one profile id, got %d", len(args))
			}
			return cli.runLaunch(cmd, args[0], flags, extraArgs)
		},
	}

	cmd.Flags().StringVar(&flags.lang, "lang", "", "Browser UI language (zh-CN, en-US, ja, ko)")
	cmd.Flags().StringVar(&flags.proxy, "proxy", "", "Upstream proxy as scheme://host:port")
	cmd.Flags().StringVar(&flags.window, "window", "", "Window size as WIDTHxHEIGHT")
	cmd.Flags().StringVar(&flags.preset, "preset", "", "Named window preset (small, laptop, desktop)")

	return cmd
}

// runLaunch resolves the profile, builds the launch configuration and
// spawns the browser.
func (cli *CLI) runLaunch(cmd *cobra.Command, id string, flags launchFlags, extraArgs []string) error {
	if _, err := cli.loadProfiles(); err != nil {
		return err
	}
	prof, err := cli.Profiles.Get(id)
	if err != nil {
		return err
	}

	// Pick up browsers started elsewhere so double launches fail fast
	// instead of dying on the profile lock.
	cli.adoptExternal()

	cfg, err := cli.buildLaunchConfig(id, flags, extraArgs)
	if err != nil {
		return err
	}

	inst, err := cli.Supervisor.Launch(cmd.Context(), prof, cfg)
	if err != nil {
		return err
	}

	fmt.Printf("Launched %q (PID: %d)\n", prof.DisplayName, inst.PID)
	return nil
}

// buildLaunchConfig merges command flags with the configured launch
// defaults.
func (cli *CLI) buildLaunchConfig(id string, flags launchFlags, extraArgs []string) (browser.LaunchConfig, error) {
	cfg := browser.LaunchConfig{
		ProfileID:    id,
		Language:     cli.Config.Launch.Language,
		WindowPreset: cli.Config.Launch.WindowPreset,
		ExtraArgs:    append([]string{}, cli.Config.Launch.ExtraArgs...),
	}

	if flags.lang != "" {
		cfg.Language = flags.lang
	}
	if flags.preset != "" {
		cfg.WindowPreset = flags.preset
	}
	if flags.window != "" {
		window, err := parseWindowSize(flags.window)
		if err != nil {
			return browser.LaunchConfig{}, err
		}
		cfg.Window = window
	}
	if flags.proxy != "" {
		proxy, err := parseProxy(flags.proxy)
		if err != nil {
			return browser.LaunchConfig{}, err
		}
		cfg.Proxy = proxy
	}
	cfg.ExtraArgs = append(cfg.ExtraArgs, extraArgs...)

	return cfg, nil
}

// parseProxy parses a scheme://host:port proxy specification.
func parseProxy(s string) (*browser.Proxy, error) {
	scheme, rest, ok := strings.Cut(s, "://")
	if !ok {
		return nil, fmt.Errorf("invalid proxy %q: expected scheme://host:port", s)
	}

	host, portStr, err := net.SplitHostPort(rest)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy %q: %v", s, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy port %q", portStr)
	}

	return &browser.Proxy{Scheme: scheme, Host: host, Port: port}, nil
}

// parseWindowSize parses a WIDTHxHEIGHT window specification.
func parseWindowSize(s string) (*browser.WindowSize, error) {
	widthStr, heightStr, ok := strings.Cut(s, "x")
	if !ok {
		return nil, fmt.Errorf("invalid window size %q: expected WIDTHxHEIGHT", s)
	}

	width, err := strconv.Atoi(widthStr)
	if err != nil {
		return nil, fmt.Errorf("invalid window width %q", widthStr)
	}
	height, err := strconv.Atoi(heightStr)
	if err != nil {
		return nil, fmt.Errorf("invalid window height %q", heightStr)
	}

	return &browser.WindowSize{Width: width, Height: height}, nil
}
