package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Freekyn/Promptin/internal/logger"
	"github.com/Freekyn/Promptin/internal/ui"
)

var errNoRequest = errors.New("no request given: pass it as arguments or pipe it on stdin")

func isJSON() bool {
	return viper.GetBool("json")
}

func isVerbose() bool {
	return viper.GetBool("verbose")
}

// wantJSON reports whether output should be JSON: on request, or whenever
// stdout is not a terminal.
func wantJSON() bool {
	return isJSON() || !ui.IsInteractive()
}

func printJSON(w io.Writer, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}

// readRequest joins args into the request text, or reads stdin when there
// are none.
func readRequest(cmd *cobra.Command, args []string) (string, error) {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" || text == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		text = strings.TrimSpace(string(data))
	}
	if text == "" {
		return "", errNoRequest
	}
	logger.SetRequest(text)
	return text, nil
}
