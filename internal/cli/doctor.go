package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chromedock/chromedock/internal/browser"
	"github.com/chromedock/chromedock/internal/config"
	"github.com/chromedock/chromedock/internal/monitor"
)

// CheckResult represents the result of a diagnostic check.
type CheckResult struct {
	Name    string      `json:"name"`
	Status  CheckStatus `json:"status"`
	Message string      `json:"message"`
	Fix     string      `json:"fix,omitempty"`
}

// CheckStatus represents the status of a diagnostic check.
type CheckStatus int

const (
	// CheckOK indicates the check passed.
	CheckOK CheckStatus = iota
	// CheckWarning indicates a non-critical issue.
	CheckWarning
	// CheckError indicates a critical failure.
	CheckError
	// CheckSkipped indicates the check was skipped.
	CheckSkipped
)

// String returns the status name.
func (s CheckStatus) String() string {
	switch s {
	case CheckOK:
		return "OK"
	case CheckWarning:
		return "WARN"
	case CheckError:
		return "ERROR"
	case CheckSkipped:
		return "SKIP"
	default:
		return "UNKNOWN"
	}
}

// Icon returns the status icon for display.
func (s CheckStatus) Icon() string {
	switch s {
	case CheckOK:
		return "[OK]"
	case CheckWarning:
		return "[!!]"
	case CheckError:
		return "[XX]"
	case CheckSkipped:
		return "[--]"
	default:
		return "[??]"
	}
}

// MarshalJSON implements json.Marshaler.
func (s CheckStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// DoctorOutput represents the doctor command output for JSON.
type DoctorOutput struct {
	Checks      []CheckResult `json:"checks"`
	HasErrors   bool          `json:"has_errors"`
	HasWarnings bool          `json:"has_warnings"`
}

// newDoctorCmd creates the doctor command.
func (cli *CLI) newDoctorCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose common issues",
		Long: `Run diagnostic checks to identify and troubleshoot common issues.

The doctor command checks:
  - Configuration file validity
  - Browser executable
  - Browser data directory
  - Profile discovery
  - Watch loop status

Use --verbose for suggested fixes.

Examples:
  # Run diagnostics
  chromedock doctor

  # Run with suggested fixes
  chromedock doctor --verbose

  # Output as JSON
  chromedock doctor -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ParseOutputFormat(cli.outputFlag)
			if err != nil {
				return err
			}

			results := cli.runDiagnostics()

			hasErrors := false
			hasWarnings := false
			for _, r := range results {
				if r.Status == CheckError {
					hasErrors = true
				}
				if r.Status == CheckWarning {
					hasWarnings = true
				}
			}

			output := DoctorOutput{
				Checks:      results,
				HasErrors:   hasErrors,
				HasWarnings: hasWarnings,
			}

			writer := NewOutputWriter(format)
			writeErr := writer.Write(output, func() {
				fmt.Println("Chromedock Diagnostics")
				fmt.Println("======================")
				fmt.Println()

				for _, r := range results {
					fmt.Printf("%s %s", r.Status.Icon(), r.Name)
					if r.Message != "" {
						fmt.Printf(": %s", r.Message)
					}
					fmt.Println()

					if (r.Status == CheckError || r.Status == CheckWarning) && r.Fix != "" && verbose {
						fmt.Printf("      -> %s\n", r.Fix)
					}
				}

				fmt.Println()
				if hasErrors {
					fmt.Println("Some checks failed. Run with --verbose for suggested fixes.")
				} else if hasWarnings {
					fmt.Println("All critical checks passed with some warnings.")
				} else {
					fmt.Println("All checks passed!")
				}
			})

			if writeErr != nil {
				return writeErr
			}

			if hasErrors {
				return fmt.Errorf("diagnostics failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "V", false, "Show suggested fixes")

	return cmd
}

func (cli *CLI) runDiagnostics() []CheckResult {
	return []CheckResult{
		cli.checkConfigFile(),
		cli.checkExecutable(),
		cli.checkDataDir(),
		cli.checkProfiles(),
		cli.checkWatchStatus(),
	}
}

func (cli *CLI) checkConfigFile() CheckResult {
	paths := config.GetPaths()

	if _, err := os.Stat(paths.ConfigFile); os.IsNotExist(err) {
		return CheckResult{
			Name:    "Configuration file",
			Status:  CheckOK,
			Message: "not present (using defaults)",
		}
	}

	if _, err := config.Load(); err != nil {
		return CheckResult{
			Name:    "Configuration file",
			Status:  CheckError,
			Message: fmt.Sprintf("invalid: %v", err),
			Fix:     fmt.Sprintf("Fix or remove %s", paths.ConfigFile),
		}
	}

	return CheckResult{
		Name:    "Configuration file",
		Status:  CheckOK,
		Message: paths.ConfigFile,
	}
}

func (cli *CLI) checkExecutable() CheckResult {
	path, err := browser.FindExecutable(cli.Config.Browser.Executable)
	if err != nil {
		if errors.Is(err, browser.ErrExecutableNotFound) {
			return CheckResult{
				Name:    "Browser executable",
				Status:  CheckError,
				Message: "not found",
				Fix:     "Install Google Chrome or set browser.executable in the config file",
			}
		}
		return CheckResult{
			Name:    "Browser executable",
			Status:  CheckError,
			Message: err.Error(),
		}
	}

	return CheckResult{
		Name:    "Browser executable",
		Status:  CheckOK,
		Message: path,
	}
}

func (cli *CLI) checkDataDir() CheckResult {
	root := cli.Config.ProfileRoot()
	if root == "" {
		return CheckResult{
			Name:    "Browser data directory",
			Status:  CheckError,
			Message: "could not determine a data directory for this platform",
			Fix:     "Set browser.data_dir in the config file",
		}
	}

	info, err := os.Stat(root)
	if err != nil {
		return CheckResult{
			Name:    "Browser data directory",
			Status:  CheckWarning,
			Message: fmt.Sprintf("%s does not exist", root),
			Fix:     "Start Chrome once to create it, or set browser.data_dir",
		}
	}
	if !info.IsDir() {
		return CheckResult{
			Name:    "Browser data directory",
			Status:  CheckError,
			Message: fmt.Sprintf("%s is not a directory", root),
			Fix:     "Set browser.data_dir to Chrome's user data directory",
		}
	}

	return CheckResult{
		Name:    "Browser data directory",
		Status:  CheckOK,
		Message: root,
	}
}

func (cli *CLI) checkProfiles() CheckResult {
	profiles, err := cli.loadProfiles()
	if err != nil {
		return CheckResult{
			Name:    "Profile discovery",
			Status:  CheckError,
			Message: err.Error(),
		}
	}
	if len(profiles) == 0 {
		return CheckResult{
			Name:    "Profile discovery",
			Status:  CheckWarning,
			Message: "no profiles found",
			Fix:     "Start Chrome once so it creates a Default profile",
		}
	}

	return CheckResult{
		Name:    "Profile discovery",
		Status:  CheckOK,
		Message: fmt.Sprintf("%d profiles found", len(profiles)),
	}
}

func (cli *CLI) checkWatchStatus() CheckResult {
	if monitor.IsRunningFromPID(cli.Config) {
		pid, err := monitor.GetPID(cli.Config)
		if err == nil {
			return CheckResult{
				Name:    "Watch loop",
				Status:  CheckOK,
				Message: fmt.Sprintf("running (PID: %d)", pid),
			}
		}
	}

	return CheckResult{
		Name:    "Watch loop",
		Status:  CheckOK,
		Message: "not running",
	}
}
