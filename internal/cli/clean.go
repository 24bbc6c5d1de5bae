package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/averyli/tutorchat/internal/textproc"
)

func init() {
	cleanCmd := &cobra.Command{
		Use:   "clean [text]",
		Short: "Run the text-cleaning pipeline on an argument or stdin",
		Run:   runClean,
	}
	RootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) {
	text, err := readInput(args)
	if err != nil {
		exitErr("read input", err)
	}
	fmt.Println(textproc.Normalize(text))
}

// readInput takes text from the arguments, or from stdin when none are
// given or the single argument is "-".
func readInput(args []string) (string, error) {
	if len(args) > 0 && args[0] != "-" {
		return strings.Join(args, " "), nil
	}
	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
