package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
)

// Environment passed to extensions, so that they work on the same book.
const (
	EnvOwner   = "CAPITAL_OWNER"
	EnvBackend = "CAPITAL_BACKEND"
	EnvVerbose = "CAPITAL_VERBOSE"
)

// extensionEnv returns env extended with the global flags that were set.
func extensionEnv(env []string) []string {
	if *ownerFlag != "" {
		env = append(env, EnvOwner+"="+*ownerFlag)
	}
	if *backendFlag != "" {
		env = append(env, EnvBackend+"="+*backendFlag)
	}
	return append(env, EnvVerbose+"="+strconv.FormatBool(*verboseFlag))
}

// RunExtension attempts to find and execute an external capital-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found or executed.
func RunExtension(subcommand string, args []string) (bool, int) {
	externalCmdName := "capital-" + subcommand

	// Look for the external command in PATH
	lp, err := exec.LookPath(externalCmdName)
	if err != nil {
		if *verboseFlag {
			fmt.Fprintf(os.Stderr, "external command %q not found in PATH: %v\n", externalCmdName, err)
		}
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = extensionEnv(os.Environ())

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", externalCmdName, err)
		return true, 1
	}
	return true, 0
}
